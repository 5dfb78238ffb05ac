package txexec

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/smartcontractkit/txexec/sdk"
	"github.com/smartcontractkit/txexec/types"
)

const (
	// DefaultDetachedWaitLimit bounds how long a confirmation wait keeps running after its
	// timeout fired.
	DefaultDetachedWaitLimit = time.Hour

	tracerName = "github.com/smartcontractkit/txexec"
)

type executorOptions struct {
	logger            sdk.Logger
	now               func() time.Time
	detachedWaitLimit time.Duration
	defaults          types.Options
	tracer            trace.Tracer
}

func defaultExecutorOptions() executorOptions {
	return executorOptions{
		now:               time.Now,
		detachedWaitLimit: DefaultDetachedWaitLimit,
		tracer:            otel.Tracer(tracerName),
	}
}

// Option configures an Executor.
type Option func(*executorOptions)

// WithLogger sets the logger. Without it the logger is read from the context with
// sdk.LoggerFrom.
func WithLogger(logger sdk.Logger) Option {
	return func(o *executorOptions) {
		o.logger = logger
	}
}

// WithClock replaces the clock used to timestamp records and status updates.
func WithClock(now func() time.Time) Option {
	return func(o *executorOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithDetachedWaitLimit bounds how long a confirmation wait may keep running once its timeout
// has fired. A limit of zero leaves the detached wait unbounded.
func WithDetachedWaitLimit(limit time.Duration) Option {
	return func(o *executorOptions) {
		o.detachedWaitLimit = limit
	}
}

// WithDefaultOptions sets the options applied to requests that leave confirmations or timeout
// unset.
func WithDefaultOptions(defaults types.Options) Option {
	return func(o *executorOptions) {
		o.defaults = defaults
	}
}

// WithTracer replaces the tracer obtained from the global OpenTelemetry provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *executorOptions) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}
