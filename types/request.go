package types //nolint:revive,nolintlint // allow pkg name 'types'

import (
	"math"
	"math/big"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/smartcontractkit/txexec/internal/utils/safecast"
)

const (
	// DefaultConfirmations is the number of confirmations waited for when none is requested.
	DefaultConfirmations uint64 = 1
	// DefaultTimeoutMillis is the confirmation timeout used when none is requested (5 minutes).
	DefaultTimeoutMillis uint64 = 300000
)

// ContractRef identifies the target of an operation. ID is the name of the contract interface
// in the ABI catalog, Address is the deployed contract address.
type ContractRef struct {
	ID      string `json:"id" yaml:"id" validate:"required"`
	Address string `json:"address" yaml:"address" validate:"required"`
}

// Options tunes how an operation is submitted and tracked.
type Options struct {
	// Confirmations is the number of blocks, including the inclusion block, to wait for.
	Confirmations uint64 `json:"confirmations,omitempty" yaml:"confirmations,omitempty"`
	// TimeoutMillis bounds the confirmation wait.
	TimeoutMillis uint64 `json:"timeoutMillis,omitempty" yaml:"timeoutMillis,omitempty"`
	// StopOnFailure only applies to batches.
	StopOnFailure bool `json:"stopOnFailure,omitempty" yaml:"stopOnFailure,omitempty"`

	// Value is the amount of native currency sent with the call, in wei.
	Value *big.Int `json:"value,omitempty" yaml:"-"`
	// GasLimit overrides gas estimation when non zero.
	GasLimit uint64 `json:"gasLimit,omitempty" yaml:"gasLimit,omitempty"`
}

// WithDefaults returns a copy of the options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	if o.Confirmations == 0 {
		o.Confirmations = DefaultConfirmations
	}
	if o.TimeoutMillis == 0 {
		o.TimeoutMillis = DefaultTimeoutMillis
	}

	return o
}

// Timeout returns TimeoutMillis as a time.Duration, saturating at the largest duration.
func (o Options) Timeout() time.Duration {
	d, err := safecast.MillisToDuration(o.TimeoutMillis)
	if err != nil {
		return time.Duration(math.MaxInt64)
	}

	return d
}

// OperationRequest describes one contract call to execute. Requests are never mutated by the
// engine.
type OperationRequest struct {
	Contract ContractRef `json:"contract" yaml:"contract" validate:"required"`
	Method   string      `json:"method" yaml:"method" validate:"required"`
	Args     []any       `json:"args" yaml:"args"`
	Options  Options     `json:"options" yaml:"options"`
}

// Validate runs tag based validation on the request.
func (r OperationRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}

	if r.Options.Value != nil && r.Options.Value.Sign() < 0 {
		return NewInvalidValueError(r.Options.Value)
	}

	return nil
}
