package evm_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartcontractkit/txexec/internal/testutils/evmsim"
	sdkerrors "github.com/smartcontractkit/txexec/sdk/errors"
	"github.com/smartcontractkit/txexec/sdk/evm"
	"github.com/smartcontractkit/txexec/types"
)

func newTestLedger(t *testing.T, sim evmsim.SimulatedChain, auth *bind.TransactOpts) *evm.Ledger {
	t.Helper()

	return evm.NewLedger(sim.Backend.Client(), auth,
		evm.WithPollInterval(10*time.Millisecond),
		evm.WithLogger(zap.NewNop().Sugar()),
	)
}

func TestLedger_SubmitAndWait(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sim := evmsim.NewSimulatedChain(t, 1)
	signer := sim.Signers[0]
	emitter := sim.DeployEmitter(t, signer)
	emitterABI := evmsim.MustParseABI(t, evmsim.EmitterABI)

	ledger := newTestLedger(t, sim, signer.NewTransactOpts(t))

	tx, err := ledger.SubmitTransaction(ctx,
		types.ContractRef{ID: "Emitter", Address: emitter.Hex()},
		emitterABI, "ping", nil, types.Options{},
	)
	require.NoError(t, err)
	require.NotNil(t, tx)

	done := make(chan struct{})
	var (
		receipt *gethtypes.Receipt
		waitErr error
	)
	go func() {
		defer close(done)
		receipt, waitErr = ledger.WaitForConfirmations(ctx, tx.Hash(), 3)
	}()

	// Inclusion block plus two more.
	for range 3 {
		time.Sleep(30 * time.Millisecond)
		sim.Backend.Commit()
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for confirmations")
	}

	require.NoError(t, waitErr)
	require.NotNil(t, receipt)
	assert.Equal(t, gethtypes.ReceiptStatusSuccessful, receipt.Status)
	require.Len(t, receipt.Logs, 1)
	assert.Equal(t, emitterABI.Events["Ping"].ID, receipt.Logs[0].Topics[0])
}

func TestLedger_SubmitTransaction_RevertOnEstimation(t *testing.T) {
	t.Parallel()

	sim := evmsim.NewSimulatedChain(t, 1)
	signer := sim.Signers[0]
	reverter := sim.DeployReverter(t, signer)

	auth := signer.NewTransactOpts(t)
	auth.GasLimit = 0 // force gas estimation
	ledger := newTestLedger(t, sim, auth)

	_, err := ledger.SubmitTransaction(context.Background(),
		types.ContractRef{ID: "Reverter", Address: reverter.Hex()},
		evmsim.MustParseABI(t, evmsim.ReverterABI), "ping", nil, types.Options{},
	)

	var revertErr *sdkerrors.RevertError
	require.ErrorAs(t, err, &revertErr)
	assert.Empty(t, revertErr.TxHash)
}

func TestLedger_SubmitTransaction_RevertOnChain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sim := evmsim.NewSimulatedChain(t, 1)
	signer := sim.Signers[0]
	reverter := sim.DeployReverter(t, signer)
	ledger := newTestLedger(t, sim, signer.NewTransactOpts(t))

	tx, err := ledger.SubmitTransaction(ctx,
		types.ContractRef{ID: "Reverter", Address: reverter.Hex()},
		evmsim.MustParseABI(t, evmsim.ReverterABI), "ping", nil, types.Options{GasLimit: 100000},
	)
	require.NoError(t, err)
	sim.Backend.Commit()

	receipt, err := ledger.WaitForConfirmations(ctx, tx.Hash(), 1)
	require.NoError(t, err)
	assert.Equal(t, gethtypes.ReceiptStatusFailed, receipt.Status)
}

func TestLedger_SubmitTransaction_Errors(t *testing.T) {
	t.Parallel()

	sim := evmsim.NewSimulatedChain(t, 1)
	signer := sim.Signers[0]
	emitterABI := evmsim.MustParseABI(t, evmsim.EmitterABI)
	ledger := newTestLedger(t, sim, signer.NewTransactOpts(t))

	tests := []struct {
		name     string
		contract types.ContractRef
		method   string
		args     []any
		opts     types.Options
		wantErr  error
	}{
		{
			name:     "invalid address",
			contract: types.ContractRef{ID: "Emitter", Address: "not-an-address"},
			method:   "ping",
			wantErr:  evm.ErrInvalidAddress,
		},
		{
			name:     "unknown method",
			contract: types.ContractRef{ID: "Emitter", Address: common.HexToAddress("0x1").Hex()},
			method:   "pong",
			wantErr:  evm.ErrMethodNotFound,
		},
		{
			name:     "too many arguments",
			contract: types.ContractRef{ID: "Emitter", Address: common.HexToAddress("0x1").Hex()},
			method:   "ping",
			args:     []any{1},
			wantErr:  evm.ErrArgumentCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ledger.SubmitTransaction(context.Background(), tt.contract, emitterABI, tt.method, tt.args, tt.opts)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLedger_SubmitTransaction_InsufficientFunds(t *testing.T) {
	t.Parallel()

	sim := evmsim.NewSimulatedChain(t, 1)
	signer := sim.Signers[0]
	emitter := sim.DeployEmitter(t, signer)
	ledger := newTestLedger(t, sim, signer.NewTransactOpts(t))

	_, err := ledger.SubmitTransaction(context.Background(),
		types.ContractRef{ID: "Emitter", Address: emitter.Hex()},
		evmsim.MustParseABI(t, evmsim.EmitterABI), "ping", nil,
		types.Options{Value: new(big.Int).Mul(big.NewInt(evmsim.DefaultBalance), big.NewInt(10))},
	)
	require.Error(t, err)

	var revertErr *sdkerrors.RevertError
	assert.False(t, errors.As(err, &revertErr))
}

func TestLedger_WaitForConfirmations_ContextCanceled(t *testing.T) {
	t.Parallel()

	sim := evmsim.NewSimulatedChain(t, 1)
	ledger := newTestLedger(t, sim, sim.Signers[0].NewTransactOpts(t))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := ledger.WaitForConfirmations(ctx, common.HexToHash("0x1234"), 1)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConfirmations(t *testing.T) {
	t.Parallel()

	receipt := &gethtypes.Receipt{BlockNumber: big.NewInt(10)}

	assert.Equal(t, uint64(0), evm.Confirmations(9, receipt))
	assert.Equal(t, uint64(1), evm.Confirmations(10, receipt))
	assert.Equal(t, uint64(3), evm.Confirmations(12, receipt))
	assert.Equal(t, uint64(0), evm.Confirmations(12, nil))
	assert.Equal(t, uint64(0), evm.Confirmations(12, &gethtypes.Receipt{}))
}
