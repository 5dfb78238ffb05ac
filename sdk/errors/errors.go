package sdkerrors

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smartcontractkit/txexec/types"
)

// SubmissionError is returned when the ledger rejects a transaction synchronously, before a
// transaction hash exists (bad nonce, insufficient funds, malformed call).
type SubmissionError struct {
	ContractID string
	Method     string
	Err        error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission of %s.%s failed: %v", e.ContractID, e.Method, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

func NewSubmissionError(contractID, method string, err error) *SubmissionError {
	return &SubmissionError{ContractID: contractID, Method: method, Err: err}
}

// ConfirmationError is returned when the ledger could not be queried while waiting for a
// transaction to confirm.
type ConfirmationError struct {
	TxHash string
	Err    error
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("confirmation of transaction %s failed: %v", e.TxHash, e.Err)
}

func (e *ConfirmationError) Unwrap() error {
	return e.Err
}

func NewConfirmationError(txHash string, err error) *ConfirmationError {
	return &ConfirmationError{TxHash: txHash, Err: err}
}

// TimeoutError is returned when a transaction did not confirm within the configured timeout.
type TimeoutError struct {
	TxHash  string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("transaction %s not confirmed within %dms", e.TxHash, e.Timeout.Milliseconds())
}

func NewTimeoutError(txHash string, timeout time.Duration) *TimeoutError {
	return &TimeoutError{TxHash: txHash, Timeout: timeout}
}

// RevertError is returned when the ledger executed the transaction and it failed, either during
// gas estimation (no hash) or on chain (TxHash set).
type RevertError struct {
	TxHash string
	// Reason is the decoded revert reason, empty if the ledger did not return one.
	Reason string
	Err    error
}

func (e *RevertError) Error() string {
	var sb strings.Builder
	sb.WriteString("execution reverted")
	if e.TxHash != "" {
		sb.WriteString(" for transaction ")
		sb.WriteString(e.TxHash)
	}
	if e.Reason != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Reason)
	}
	if e.Err != nil {
		sb.WriteString(" (")
		sb.WriteString(e.Err.Error())
		sb.WriteString(")")
	}

	return sb.String()
}

func (e *RevertError) Unwrap() error {
	return e.Err
}

func NewRevertError(txHash, reason string, err error) *RevertError {
	return &RevertError{TxHash: txHash, Reason: reason, Err: err}
}

// UnknownError wraps errors that fit none of the other categories.
type UnknownError struct {
	Err error
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("unknown error: %v", e.Err)
}

func (e *UnknownError) Unwrap() error {
	return e.Err
}

func NewUnknownError(err error) *UnknownError {
	return &UnknownError{Err: err}
}

// KindOf returns the category of err. Timeouts and reverts take precedence over the error that
// wraps them, so a SubmissionError caused by a RevertError is a revert.
func KindOf(err error) types.ErrorKind {
	var (
		timeoutErr      *TimeoutError
		revertErr       *RevertError
		submissionErr   *SubmissionError
		confirmationErr *ConfirmationError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &timeoutErr):
		return types.ErrorKindTimeout
	case errors.As(err, &revertErr):
		return types.ErrorKindRevert
	case errors.As(err, &submissionErr):
		return types.ErrorKindSubmission
	case errors.As(err, &confirmationErr):
		return types.ErrorKindConfirmation
	default:
		return types.ErrorKindUnknown
	}
}
