package txexec

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTransaction is returned when the ledger accepted a submission without returning a
	// transaction.
	ErrNoTransaction = errors.New("ledger returned no transaction")
)

// MethodNotFoundError is returned when the requested method is not part of the contract ABI.
type MethodNotFoundError struct {
	ContractID string
	Method     string
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("method %s not found in ABI of contract %s", e.Method, e.ContractID)
}

func NewMethodNotFoundError(contractID, method string) *MethodNotFoundError {
	return &MethodNotFoundError{ContractID: contractID, Method: method}
}

// ABILookupError is returned when the ABI provider has no usable ABI for the contract.
type ABILookupError struct {
	ContractID string
	Err        error
}

func (e *ABILookupError) Error() string {
	return e.Err.Error()
}

func (e *ABILookupError) Unwrap() error {
	return e.Err
}

func NewABILookupError(contractID string, err error) *ABILookupError {
	return &ABILookupError{ContractID: contractID, Err: err}
}

// InvalidRequestError is returned when an operation request fails validation.
type InvalidRequestError struct {
	Err error
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %v", e.Err)
}

func (e *InvalidRequestError) Unwrap() error {
	return e.Err
}

func NewInvalidRequestError(err error) *InvalidRequestError {
	return &InvalidRequestError{Err: err}
}
