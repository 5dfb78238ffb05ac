package txexec

import (
	"context"
	"fmt"
	"math"
	"time"

	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/smartcontractkit/txexec/sdk"
	sdkerrors "github.com/smartcontractkit/txexec/sdk/errors"
	"github.com/smartcontractkit/txexec/types"
)

type waitResult struct {
	receipt *gethtypes.Receipt
	err     error
	// panicked marks an err recovered from a ledger panic; it is returned unwrapped.
	panicked bool
}

// ConfirmationTracker waits for pending transactions to reach the requested number of
// confirmations within a timeout.
type ConfirmationTracker struct {
	ledger            sdk.Ledger
	detachedWaitLimit time.Duration
	lggr              sdk.Logger
}

// NewConfirmationTracker creates a ConfirmationTracker. detachedWaitLimit bounds how long a
// wait keeps running after its timeout fired; zero leaves it unbounded.
func NewConfirmationTracker(ledger sdk.Ledger, detachedWaitLimit time.Duration, lggr sdk.Logger) *ConfirmationTracker {
	return &ConfirmationTracker{ledger: ledger, detachedWaitLimit: detachedWaitLimit, lggr: lggr}
}

// AwaitConfirmation races the ledger confirmation wait against the timeout.
//
// When the timeout fires first a *sdkerrors.TimeoutError is returned and the wait is left
// running in the background; its result is discarded. Ledger failures and cancellation of ctx
// are returned as *sdkerrors.ConfirmationError, and cancellation also stops the wait.
func (t *ConfirmationTracker) AwaitConfirmation(
	ctx context.Context,
	handle PendingHandle,
	confirmations uint64,
	timeout time.Duration,
) (*gethtypes.Receipt, error) {
	txHash := handle.Hash.Hex()
	lggr := t.logger(ctx)

	// The wait outlives ctx when the timer wins, so it gets its own lifetime.
	var (
		waitCtx context.Context
		cancel  context.CancelFunc
	)
	if limit, ok := detachedDeadline(timeout, t.detachedWaitLimit); ok {
		waitCtx, cancel = context.WithTimeout(context.WithoutCancel(ctx), limit)
	} else {
		waitCtx, cancel = context.WithCancel(context.WithoutCancel(ctx))
	}

	results := make(chan waitResult, 1)
	go func() {
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				lggr.Errorf("confirmation wait of transaction %s panicked: %v", txHash, r)
				results <- waitResult{err: sdkerrors.NewUnknownError(fmt.Errorf("panic: %v", r)), panicked: true}
			}
		}()

		receipt, err := t.ledger.WaitForConfirmations(waitCtx, handle.Hash, confirmations)
		results <- waitResult{receipt: receipt, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	lggr.Debugf("waiting for %d confirmations of transaction %s (timeout %s)", confirmations, txHash, timeout)

	select {
	case res := <-results:
		if res.panicked {
			return nil, res.err
		}
		if res.err != nil {
			return nil, asConfirmationError(txHash, res.err)
		}
		if res.receipt == nil {
			return nil, sdkerrors.NewConfirmationError(txHash, ErrNoTransaction)
		}

		return res.receipt, nil
	case <-timer.C:
		lggr.Warnf("transaction %s not confirmed within %s, detaching wait", txHash, timeout)

		return nil, sdkerrors.NewTimeoutError(txHash, timeout)
	case <-ctx.Done():
		cancel()

		return nil, sdkerrors.NewConfirmationError(txHash, ctx.Err())
	}
}

// detachedDeadline returns how long a wait may run in total. It reports false when the wait
// is unbounded, either because limit is zero or because timeout+limit overflows.
func detachedDeadline(timeout, limit time.Duration) (time.Duration, bool) {
	if limit <= 0 || timeout > math.MaxInt64-limit {
		return 0, false
	}

	return timeout + limit, true
}

func (t *ConfirmationTracker) logger(ctx context.Context) sdk.Logger {
	if t.lggr != nil {
		return t.lggr
	}

	return sdk.LoggerFrom(ctx)
}

// asConfirmationError keeps errors that are already classified and wraps the rest.
func asConfirmationError(txHash string, err error) error {
	switch sdkerrors.KindOf(err) {
	case types.ErrorKindConfirmation, types.ErrorKindTimeout, types.ErrorKindRevert:
		return err
	default:
		return sdkerrors.NewConfirmationError(txHash, err)
	}
}
