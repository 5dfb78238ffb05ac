package types //nolint:revive,nolintlint // allow pkg name 'types'

import (
	"time"

	"github.com/google/uuid"

	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// TransactionRecord is the result of executing one OperationRequest.
//
// A record is created in StatusPending and moves to a terminal status exactly once. Records are
// never reused: submitting the same request again produces a new record with a new ID.
type TransactionRecord struct {
	ID      uuid.UUID        `json:"id"`
	Request OperationRequest `json:"request"`
	Status  Status           `json:"status"`

	// TxHash is empty when submission itself failed.
	TxHash  string             `json:"txHash,omitempty"`
	Receipt *gethtypes.Receipt `json:"receipt,omitempty"`
	Events  []DomainEvent      `json:"events"`

	// Message is a human readable summary of the last state change.
	Message string `json:"message"`
	// Error is only set for FAILED, TIMEOUT and REVERTED records.
	Error *ErrorDetail `json:"error,omitempty"`
	// Cause is the original error, kept for errors.Is / errors.As inspection.
	Cause error `json:"-"`

	CreatedAt   time.Time `json:"createdAt"`
	CompletedAt time.Time `json:"completedAt,omitzero"`
}

// NewTransactionRecord creates a pending record for the request.
func NewTransactionRecord(req OperationRequest, now time.Time) TransactionRecord {
	return TransactionRecord{
		ID:        uuid.New(),
		Request:   req,
		Status:    StatusPending,
		Events:    []DomainEvent{},
		CreatedAt: now,
	}
}

// Succeeded reports whether the record confirmed.
func (r TransactionRecord) Succeeded() bool {
	return r.Status == StatusConfirmed
}

// Err returns the original error of a failed record, or nil.
func (r TransactionRecord) Err() error {
	return r.Cause
}

// Duration returns the time between creation and completion, or zero if still pending.
func (r TransactionRecord) Duration() time.Duration {
	if r.CompletedAt.IsZero() {
		return 0
	}

	return r.CompletedAt.Sub(r.CreatedAt)
}

// StatusUpdate is delivered to status observers at each step of an execution.
type StatusUpdate struct {
	RecordID  uuid.UUID          `json:"recordId"`
	Status    Status             `json:"status"`
	Message   string             `json:"message"`
	TxHash    string             `json:"txHash,omitempty"`
	Receipt   *gethtypes.Receipt `json:"receipt,omitempty"`
	Error     *ErrorDetail       `json:"error,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}
