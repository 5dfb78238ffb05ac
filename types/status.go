package types //nolint:revive,nolintlint // allow pkg name 'types'

import (
	"errors"
	"fmt"
)

// Status is the lifecycle state of a submitted transaction.
//
// The set of statuses is closed. The zero value is not a valid status so that an unset record
// can never be mistaken for a pending one.
type Status uint8

const (
	statusUnknown Status = iota

	// StatusPending indicates the transaction is being submitted or is awaiting confirmation.
	StatusPending
	// StatusConfirmed indicates the transaction was included and executed successfully with the
	// requested number of confirmations.
	StatusConfirmed
	// StatusFailed indicates the transaction could not be submitted or tracked.
	StatusFailed
	// StatusTimeout indicates no receipt was observed within the configured timeout.
	StatusTimeout
	// StatusReverted indicates the transaction was executed by the ledger but signaled failure.
	StatusReverted
)

// ErrInvalidStatus is returned when parsing an unknown status string.
var ErrInvalidStatus = errors.New("invalid transaction status")

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusFailed,
	StatusTimeout,
	StatusReverted,
}

// String returns the canonical upper case name of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusConfirmed:
		return "CONFIRMED"
	case StatusFailed:
		return "FAILED"
	case StatusTimeout:
		return "TIMEOUT"
	case StatusReverted:
		return "REVERTED"
	case statusUnknown:
		return "UNKNOWN"
	}

	return fmt.Sprintf("Status(%d)", uint8(s))
}

// IsValid reports whether s is one of the declared statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusFailed, StatusTimeout, StatusReverted:
		return true
	case statusUnknown:
		return false
	}

	return false
}

// IsTerminal reports whether s is a final status. A record transitions to a terminal status
// exactly once.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusConfirmed, StatusFailed, StatusTimeout, StatusReverted:
		return true
	case StatusPending, statusUnknown:
		return false
	}

	return false
}

// ParseStatus converts a canonical status name into a Status.
func ParseStatus(str string) (Status, error) {
	for _, s := range Statuses {
		if s.String() == str {
			return s, nil
		}
	}

	return statusUnknown, fmt.Errorf("%w: %q", ErrInvalidStatus, str)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, s)
	}

	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed

	return nil
}
