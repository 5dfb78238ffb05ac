package sdk

import "github.com/smartcontractkit/txexec/types"

// StatusObserver receives status updates for a single execution. Implementations must return
// quickly; they are called inline by the executor.
type StatusObserver interface {
	OnStatus(update types.StatusUpdate)
}

// StatusObserverFunc adapts a function to a StatusObserver.
type StatusObserverFunc func(update types.StatusUpdate)

func (f StatusObserverFunc) OnStatus(update types.StatusUpdate) {
	f(update)
}

// ProgressObserver receives progress reports after each item of a batch.
type ProgressObserver interface {
	OnProgress(progress types.BatchProgress)
}

// ProgressObserverFunc adapts a function to a ProgressObserver.
type ProgressObserverFunc func(progress types.BatchProgress)

func (f ProgressObserverFunc) OnProgress(progress types.BatchProgress) {
	f(progress)
}
