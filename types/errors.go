package types //nolint:revive,nolintlint // allow pkg name 'types'

import (
	"fmt"
	"math/big"
)

// ErrorKind classifies why a transaction did not confirm.
type ErrorKind string

const (
	// ErrorKindSubmission means the ledger rejected the transaction before a hash existed.
	ErrorKindSubmission ErrorKind = "SUBMISSION"
	// ErrorKindConfirmation means the ledger could not be queried while waiting for a receipt.
	ErrorKindConfirmation ErrorKind = "CONFIRMATION"
	// ErrorKindTimeout means the receipt did not arrive within the configured timeout.
	ErrorKindTimeout ErrorKind = "TIMEOUT"
	// ErrorKindRevert means the ledger executed the transaction and it failed.
	ErrorKindRevert ErrorKind = "REVERT"
	// ErrorKindUnknown is used for errors that match none of the other kinds.
	ErrorKindUnknown ErrorKind = "UNKNOWN"
)

// ErrorDetail is the serializable description of a failure attached to a terminal record.
type ErrorDetail struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`

	// TimeoutMillis is the configured timeout, only set for timeouts.
	TimeoutMillis uint64 `json:"timeoutMillis,omitempty"`
	// RevertReason is the decoded revert reason, when the ledger provided one.
	RevertReason string `json:"revertReason,omitempty"`
}

// InvalidValueError is returned when an operation carries a negative value.
type InvalidValueError struct {
	Value *big.Int
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value: %v", e.Value)
}

func NewInvalidValueError(value *big.Int) *InvalidValueError {
	return &InvalidValueError{Value: value}
}

// UnsupportedBatchFormatError is returned when a batch file extension is not recognized.
type UnsupportedBatchFormatError struct {
	Path string
}

func (e *UnsupportedBatchFormatError) Error() string {
	return "unsupported batch file format: " + e.Path
}

func NewUnsupportedBatchFormatError(path string) *UnsupportedBatchFormatError {
	return &UnsupportedBatchFormatError{Path: path}
}
