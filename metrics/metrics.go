// Package metrics exports execution outcomes as Prometheus metrics.
package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/smartcontractkit/txexec/sdk"
	"github.com/smartcontractkit/txexec/types"
)

// DefaultRetention is how long a submission waits for its terminal update before it is
// forgotten.
const DefaultRetention = 2 * time.Hour

var (
	_ sdk.StatusObserver   = (*Observer)(nil)
	_ sdk.ProgressObserver = (*Observer)(nil)
)

// Observer records terminal statuses, confirmation latency and batch outcomes.
type Observer struct {
	// TransactionsTotal counts terminal records per status
	TransactionsTotal *prometheus.CounterVec
	// ConfirmationSeconds tracks the time between submission and a confirmed status
	ConfirmationSeconds prometheus.Histogram
	// BatchesTotal counts finished batches per outcome
	BatchesTotal *prometheus.CounterVec

	retention time.Duration

	mu        sync.Mutex
	submitted map[uuid.UUID]time.Time
	lastSweep time.Time
}

// Option configures an Observer.
type Option func(*Observer)

// WithRetention bounds how long a submission is tracked without a terminal update. Updates
// dropped by an asynchronous observer would otherwise be tracked forever. Non positive values
// are ignored.
func WithRetention(d time.Duration) Option {
	return func(o *Observer) {
		if d > 0 {
			o.retention = d
		}
	}
}

// NewObserver registers the metrics with reg. A nil reg uses the default registerer.
func NewObserver(reg prometheus.Registerer, opts ...Option) *Observer {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	o := &Observer{
		TransactionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txexec_transactions_total",
				Help: "Total number of executed transactions by terminal status",
			},
			[]string{"status"},
		),
		ConfirmationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "txexec_confirmation_seconds",
				Help:    "Time from submission to confirmation in seconds",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
			},
		),
		BatchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "txexec_batches_total",
				Help: "Total number of finished batches by outcome",
			},
			[]string{"outcome"},
		),
		retention: DefaultRetention,
		submitted: make(map[uuid.UUID]time.Time),
	}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// OnStatus implements sdk.StatusObserver.
func (o *Observer) OnStatus(update types.StatusUpdate) {
	if !update.Status.IsTerminal() {
		if update.TxHash != "" {
			o.mu.Lock()
			o.submitted[update.RecordID] = update.Timestamp
			o.sweep(update.Timestamp)
			o.mu.Unlock()
		}

		return
	}

	o.mu.Lock()
	submittedAt, ok := o.submitted[update.RecordID]
	delete(o.submitted, update.RecordID)
	o.mu.Unlock()

	o.TransactionsTotal.WithLabelValues(strings.ToLower(update.Status.String())).Inc()

	if update.Status == types.StatusConfirmed && ok {
		o.ConfirmationSeconds.Observe(update.Timestamp.Sub(submittedAt).Seconds())
	}
}

// sweep forgets submissions older than the retention, at most once per retention period.
// Callers must hold o.mu.
func (o *Observer) sweep(now time.Time) {
	if now.Sub(o.lastSweep) < o.retention {
		return
	}
	o.lastSweep = now

	cutoff := now.Add(-o.retention)
	for id, submittedAt := range o.submitted {
		if submittedAt.Before(cutoff) {
			delete(o.submitted, id)
		}
	}
}

// OnProgress implements sdk.ProgressObserver.
func (o *Observer) OnProgress(progress types.BatchProgress) {
	switch progress.Status {
	case types.ProgressCompleted, types.ProgressInterrupted:
		o.BatchesTotal.WithLabelValues(string(progress.Status)).Inc()
	case types.ProgressProcessing:
	}
}

// Multi fans status updates out to several observers, skipping nil ones.
func Multi(observers ...sdk.StatusObserver) sdk.StatusObserver {
	return sdk.StatusObserverFunc(func(update types.StatusUpdate) {
		for _, obs := range observers {
			if obs != nil {
				obs.OnStatus(update)
			}
		}
	})
}
