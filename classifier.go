package txexec

import (
	"errors"
	"fmt"
	"strings"

	gethtypes "github.com/ethereum/go-ethereum/core/types"

	sdkerrors "github.com/smartcontractkit/txexec/sdk/errors"
	"github.com/smartcontractkit/txexec/types"
)

// revertMarker is matched case-insensitively against the ledger message of errors that carry
// no structured kind.
const revertMarker = "revert"

// Classify maps the outcome of an execution to its terminal status. A receipt always takes
// precedence over err.
func Classify(receipt *gethtypes.Receipt, err error) types.Status {
	if receipt != nil {
		if receipt.Status == gethtypes.ReceiptStatusSuccessful {
			return types.StatusConfirmed
		}

		return types.StatusReverted
	}

	if err == nil {
		return types.StatusFailed
	}

	switch sdkerrors.KindOf(err) {
	case types.ErrorKindTimeout:
		return types.StatusTimeout
	case types.ErrorKindRevert:
		return types.StatusReverted
	case types.ErrorKindSubmission, types.ErrorKindConfirmation, types.ErrorKindUnknown:
		if msg, ok := ledgerMessage(err); ok && strings.Contains(strings.ToLower(msg), revertMarker) {
			return types.StatusReverted
		}
	}

	return types.StatusFailed
}

// ledgerMessage returns the message of the error the ledger reported, without the wrappers
// that name the contract, method or transaction. It reports false for failures raised before
// the ledger was reached.
func ledgerMessage(err error) (string, bool) {
	for {
		var next error
		switch e := err.(type) { //nolint:errorlint // walking the engine's own wrappers one level at a time
		case *sdkerrors.SubmissionError:
			next = e.Err
		case *sdkerrors.ConfirmationError:
			next = e.Err
		case *sdkerrors.UnknownError:
			next = e.Err
		case *ABILookupError, *MethodNotFoundError, *InvalidRequestError:
			return "", false
		default:
			if errors.Is(err, ErrNoTransaction) {
				return "", false
			}

			return err.Error(), true
		}
		if next == nil {
			return "", false
		}
		err = next
	}
}

// ClassifyKind returns the error kind recorded for a terminal status.
func ClassifyKind(status types.Status, err error) types.ErrorKind {
	switch status {
	case types.StatusConfirmed, types.StatusPending:
		return ""
	case types.StatusTimeout:
		return types.ErrorKindTimeout
	case types.StatusReverted:
		return types.ErrorKindRevert
	case types.StatusFailed:
		if err == nil {
			return types.ErrorKindUnknown
		}

		return sdkerrors.KindOf(err)
	}

	return types.ErrorKindUnknown
}

// newErrorDetail builds the error detail of a non confirmed record.
func newErrorDetail(status types.Status, err error, opts types.Options) *types.ErrorDetail {
	detail := &types.ErrorDetail{
		Kind: ClassifyKind(status, err),
	}

	if err != nil {
		detail.Message = err.Error()
	} else {
		detail.Message = fmt.Sprintf("transaction %s", strings.ToLower(status.String()))
	}

	var revertErr *sdkerrors.RevertError
	if errors.As(err, &revertErr) {
		detail.RevertReason = revertErr.Reason
	}

	if status == types.StatusTimeout {
		detail.TimeoutMillis = opts.TimeoutMillis
	}

	return detail
}
