// Package notify decouples observers from the executor.
package notify

import (
	"sync"
	"sync/atomic"

	"github.com/smartcontractkit/txexec/sdk"
	"github.com/smartcontractkit/txexec/types"
)

// DefaultBufferSize is the number of updates queued by NewAsync when size is not positive.
const DefaultBufferSize = 64

var (
	_ sdk.StatusObserver   = (*Async)(nil)
	_ sdk.ProgressObserver = (*Async)(nil)
)

// Async delivers status and progress notifications to wrapped observers from its own
// goroutine. Notifications are queued on a bounded buffer and dropped when the buffer is full,
// so OnStatus and OnProgress never block.
type Async struct {
	status   sdk.StatusObserver
	progress sdk.ProgressObserver
	lggr     sdk.Logger

	queue chan func()
	done  chan struct{}

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

// NewAsync starts delivering to the given observers, either of which may be nil. Call Close to
// flush the queue and stop the delivery goroutine.
func NewAsync(status sdk.StatusObserver, progress sdk.ProgressObserver, size int, lggr sdk.Logger) *Async {
	if size <= 0 {
		size = DefaultBufferSize
	}

	a := &Async{
		status:   status,
		progress: progress,
		lggr:     lggr,
		queue:    make(chan func(), size),
		done:     make(chan struct{}),
	}

	go a.run()

	return a
}

// OnStatus queues the update for the wrapped status observer.
func (a *Async) OnStatus(update types.StatusUpdate) {
	if a.status == nil {
		return
	}

	a.enqueue(func() { a.status.OnStatus(update) })
}

// OnProgress queues the progress report for the wrapped progress observer.
func (a *Async) OnProgress(progress types.BatchProgress) {
	if a.progress == nil {
		return
	}

	a.enqueue(func() { a.progress.OnProgress(progress) })
}

// Dropped returns the number of notifications discarded because the buffer was full.
func (a *Async) Dropped() int64 {
	return a.dropped.Load()
}

// Close stops accepting notifications and waits until the queued ones are delivered.
func (a *Async) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		<-a.done

		return
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	<-a.done
}

func (a *Async) enqueue(fn func()) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		return
	}

	select {
	case a.queue <- fn:
	default:
		a.dropped.Add(1)
	}
}

func (a *Async) run() {
	defer close(a.done)

	for fn := range a.queue {
		a.deliver(fn)
	}
}

func (a *Async) deliver(fn func()) {
	defer func() {
		if r := recover(); r != nil && a.lggr != nil {
			a.lggr.Errorf("observer panicked: %v", r)
		}
	}()

	fn()
}
