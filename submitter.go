package txexec

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/smartcontractkit/txexec/sdk"
	sdkerrors "github.com/smartcontractkit/txexec/sdk/errors"
	"github.com/smartcontractkit/txexec/types"
)

// PendingHandle identifies a broadcast transaction that has not been confirmed yet.
type PendingHandle struct {
	Hash        common.Hash
	Tx          *gethtypes.Transaction
	SubmittedAt time.Time

	contractABI *abi.ABI
}

// Submitter encodes an operation request and broadcasts it through the ledger.
type Submitter struct {
	ledger sdk.Ledger
	abis   sdk.ABIProvider
	now    func() time.Time
}

// NewSubmitter creates a Submitter.
func NewSubmitter(ledger sdk.Ledger, abis sdk.ABIProvider) *Submitter {
	return &Submitter{ledger: ledger, abis: abis, now: time.Now}
}

// Submit broadcasts the request exactly once. Failures are never retried: a call that the
// ledger rejects returns a *sdkerrors.SubmissionError, or a *sdkerrors.RevertError when the
// ledger reports that the call reverts.
func (s *Submitter) Submit(ctx context.Context, req types.OperationRequest) (PendingHandle, error) {
	contractABI, err := s.abis.ABI(req.Contract.ID)
	if err != nil {
		return PendingHandle{}, sdkerrors.NewSubmissionError(req.Contract.ID, req.Method,
			NewABILookupError(req.Contract.ID, err))
	}

	if _, ok := contractABI.Methods[req.Method]; !ok {
		return PendingHandle{}, sdkerrors.NewSubmissionError(req.Contract.ID, req.Method,
			NewMethodNotFoundError(req.Contract.ID, req.Method))
	}

	tx, err := s.ledger.SubmitTransaction(ctx, req.Contract, contractABI, req.Method, req.Args, req.Options)
	if err != nil {
		var revertErr *sdkerrors.RevertError
		if errors.As(err, &revertErr) {
			return PendingHandle{}, err
		}

		return PendingHandle{}, sdkerrors.NewSubmissionError(req.Contract.ID, req.Method, err)
	}

	if tx == nil {
		return PendingHandle{}, sdkerrors.NewSubmissionError(req.Contract.ID, req.Method, ErrNoTransaction)
	}

	return PendingHandle{
		Hash:        tx.Hash(),
		Tx:          tx,
		SubmittedAt: s.now(),
		contractABI: contractABI,
	}, nil
}
