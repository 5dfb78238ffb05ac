package txexec

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	sdkerrors "github.com/smartcontractkit/txexec/sdk/errors"
	"github.com/smartcontractkit/txexec/sdk/mocks"
)

func TestConfirmationTracker_AwaitConfirmation(t *testing.T) {
	t.Parallel()

	hash := common.HexToHash("0x01")
	handle := PendingHandle{Hash: hash}
	receipt := newReceipt(hash, gethtypes.ReceiptStatusSuccessful)

	tests := []struct {
		name        string
		wait        func(ctx context.Context, txHash common.Hash, confirmations uint64) (*gethtypes.Receipt, error)
		timeout     time.Duration
		want        *gethtypes.Receipt
		wantErr     string
		wantErrType any
	}{
		{
			name: "receipt before timeout",
			wait: func(context.Context, common.Hash, uint64) (*gethtypes.Receipt, error) {
				return receipt, nil
			},
			timeout: time.Second,
			want:    receipt,
		},
		{
			name: "timeout",
			wait: func(ctx context.Context, _ common.Hash, _ uint64) (*gethtypes.Receipt, error) {
				<-ctx.Done()

				return nil, ctx.Err()
			},
			timeout:     50 * time.Millisecond,
			wantErr:     "transaction " + hash.Hex() + " not confirmed within 50ms",
			wantErrType: &sdkerrors.TimeoutError{},
		},
		{
			name: "RPC failure",
			wait: func(context.Context, common.Hash, uint64) (*gethtypes.Receipt, error) {
				return nil, errors.New("connection reset")
			},
			timeout:     time.Second,
			wantErr:     "confirmation of transaction " + hash.Hex() + " failed: connection reset",
			wantErrType: &sdkerrors.ConfirmationError{},
		},
		{
			name: "classified ledger error is kept",
			wait: func(context.Context, common.Hash, uint64) (*gethtypes.Receipt, error) {
				return nil, sdkerrors.NewConfirmationError(hash.Hex(), errors.New("3 consecutive RPC failures"))
			},
			timeout: time.Second,
			wantErr: "confirmation of transaction " + hash.Hex() + " failed: 3 consecutive RPC failures",
		},
		{
			name: "ledger panic",
			wait: func(context.Context, common.Hash, uint64) (*gethtypes.Receipt, error) {
				panic("ledger wait failure")
			},
			timeout:     time.Second,
			wantErr:     "unknown error: panic: ledger wait failure",
			wantErrType: &sdkerrors.UnknownError{},
		},
		{
			name: "no receipt",
			wait: func(context.Context, common.Hash, uint64) (*gethtypes.Receipt, error) {
				return nil, nil //nolint:nilnil // exercising a misbehaving ledger
			},
			timeout: time.Second,
			wantErr: "confirmation of transaction " + hash.Hex() + " failed: ledger returned no transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ledger := mocks.NewLedger(t)
			ledger.EXPECT().
				WaitForConfirmations(mock.Anything, hash, uint64(2)).
				RunAndReturn(tt.wait).Once()

			tracker := NewConfirmationTracker(ledger, 10*time.Millisecond, zap.NewNop().Sugar())
			got, err := tracker.AwaitConfirmation(context.Background(), handle, 2, tt.timeout)

			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Same(t, tt.want, got)

				return
			}

			require.EqualError(t, err, tt.wantErr)
			assert.Nil(t, got)
			if tt.wantErrType != nil {
				require.IsType(t, tt.wantErrType, err)
			}

			// Let the detached wait finish before the mock asserts its expectations.
			time.Sleep(tt.timeout + 50*time.Millisecond)
		})
	}
}

func TestConfirmationTracker_DetachedWaitCompletes(t *testing.T) {
	t.Parallel()

	hash := common.HexToHash("0x02")
	finished := make(chan struct{})

	ledger := mocks.NewLedger(t)
	ledger.EXPECT().
		WaitForConfirmations(mock.Anything, hash, uint64(1)).
		RunAndReturn(func(context.Context, common.Hash, uint64) (*gethtypes.Receipt, error) {
			defer close(finished)
			time.Sleep(100 * time.Millisecond)

			return newReceipt(hash, gethtypes.ReceiptStatusSuccessful), nil
		}).Once()

	tracker := NewConfirmationTracker(ledger, 0, zap.NewNop().Sugar())

	start := time.Now()
	_, err := tracker.AwaitConfirmation(context.Background(), PendingHandle{Hash: hash}, 1, 20*time.Millisecond)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	var timeoutErr *sdkerrors.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 20*time.Millisecond, timeoutErr.Timeout)

	// The wait is not aborted and runs to completion.
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("detached wait did not complete")
	}
}

func TestConfirmationTracker_ContextCanceled(t *testing.T) {
	t.Parallel()

	hash := common.HexToHash("0x03")
	stopped := make(chan struct{})

	ledger := mocks.NewLedger(t)
	ledger.EXPECT().
		WaitForConfirmations(mock.Anything, hash, uint64(1)).
		RunAndReturn(func(ctx context.Context, _ common.Hash, _ uint64) (*gethtypes.Receipt, error) {
			defer close(stopped)
			<-ctx.Done()

			return nil, ctx.Err()
		}).Once()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	tracker := NewConfirmationTracker(ledger, time.Hour, zap.NewNop().Sugar())
	_, err := tracker.AwaitConfirmation(ctx, PendingHandle{Hash: hash}, 1, time.Minute)

	var confirmationErr *sdkerrors.ConfirmationError
	require.ErrorAs(t, err, &confirmationErr)
	require.ErrorIs(t, err, context.Canceled)

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("wait was not stopped after cancellation")
	}
}

func TestConfirmationTracker_UnboundedTimeout(t *testing.T) {
	t.Parallel()

	hash := common.HexToHash("0x04")
	receipt := newReceipt(hash, gethtypes.ReceiptStatusSuccessful)

	ledger := mocks.NewLedger(t)
	ledger.EXPECT().
		WaitForConfirmations(mock.Anything, hash, uint64(1)).
		RunAndReturn(func(ctx context.Context, _ common.Hash, _ uint64) (*gethtypes.Receipt, error) {
			select {
			case <-time.After(20 * time.Millisecond):
				return receipt, nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}).Once()

	tracker := NewConfirmationTracker(ledger, time.Hour, zap.NewNop().Sugar())
	got, err := tracker.AwaitConfirmation(context.Background(), PendingHandle{Hash: hash}, 1, time.Duration(math.MaxInt64))

	require.NoError(t, err)
	assert.Same(t, receipt, got)
}

func TestDetachedDeadline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		timeout time.Duration
		limit   time.Duration
		want    time.Duration
		wantOK  bool
	}{
		{name: "bounded", timeout: time.Second, limit: time.Hour, want: time.Hour + time.Second, wantOK: true},
		{name: "zero limit", timeout: time.Second, limit: 0},
		{name: "max timeout", timeout: math.MaxInt64, limit: time.Millisecond},
		{name: "sum overflows", timeout: math.MaxInt64 - time.Minute, limit: time.Hour},
		{name: "sum fits exactly", timeout: math.MaxInt64 - time.Hour, limit: time.Hour, want: math.MaxInt64, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := detachedDeadline(tt.timeout, tt.limit)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
