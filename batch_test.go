package txexec

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/txexec/sdk"
	"github.com/smartcontractkit/txexec/types"
)

type progressRecorder struct {
	mu       sync.Mutex
	progress []types.BatchProgress
}

func (r *progressRecorder) OnProgress(p types.BatchProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.progress = append(r.progress, p)
}

func (r *progressRecorder) All() []types.BatchProgress {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]types.BatchProgress(nil), r.progress...)
}

func failSubmission(k int) func(int) error {
	return func(n int) error {
		if n == k {
			return errors.New("nonce too low")
		}

		return nil
	}
}

func pingRequests(n int) []types.OperationRequest {
	reqs := make([]types.OperationRequest, n)
	for i := range reqs {
		reqs[i] = pingRequest(5000)
	}

	return reqs
}

func TestExecutor_ExecuteBatch_StopOnFailure(t *testing.T) {
	t.Parallel()

	ledger := newStubLedger()
	ledger.receipt = successReceipt
	ledger.submitErr = failSubmission(3)
	recorder := &progressRecorder{}

	result := newTestExecutor(ledger, newCatalog(t)).ExecuteBatch(context.Background(), pingRequests(5), BatchOptions{
		StopOnFailure: true,
		OnProgress:    recorder,
	})

	assert.Equal(t, 5, result.Total)
	require.Len(t, result.Records, 3)
	assert.Equal(t, 3, result.Attempted)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed())
	assert.True(t, result.Interrupted())
	assert.NotEqual(t, result.ID.String(), "00000000-0000-0000-0000-000000000000")

	// Requests after the failure are never submitted.
	assert.Equal(t, 3, ledger.Submissions())

	assert.Equal(t, types.StatusConfirmed, result.Records[0].Status)
	assert.Equal(t, types.StatusConfirmed, result.Records[1].Status)
	assert.Equal(t, types.StatusFailed, result.Records[2].Status)

	progress := recorder.All()
	require.Len(t, progress, 3)
	for i, p := range progress {
		assert.Equal(t, i+1, p.Current)
		assert.Equal(t, 5, p.Total)
		assert.Equal(t, result.ID, p.BatchID)
		assert.InDelta(t, float64(i+1)*20, p.Percentage, 0.001)
	}
	assert.Equal(t, types.ProgressProcessing, progress[0].Status)
	assert.Equal(t, types.ProgressProcessing, progress[1].Status)
	assert.Equal(t, types.ProgressInterrupted, progress[2].Status)
	assert.Contains(t, progress[2].Message, "stopping")
}

func TestExecutor_ExecuteBatch_FirstFailureIndex(t *testing.T) {
	t.Parallel()

	const total = 6

	for k := 1; k <= total; k++ {
		ledger := newStubLedger()
		ledger.receipt = successReceipt
		ledger.submitErr = failSubmission(k)

		result := newTestExecutor(ledger, newCatalog(t)).ExecuteBatch(context.Background(), pingRequests(total), BatchOptions{
			StopOnFailure: true,
		})

		assert.Len(t, result.Records, k)
		assert.Equal(t, k, result.Attempted)
		assert.Equal(t, k-1, result.Succeeded)
		assert.Equal(t, k, ledger.Submissions())
	}
}

func TestExecutor_ExecuteBatch_ContinueOnFailure(t *testing.T) {
	t.Parallel()

	ledger := newStubLedger()
	ledger.receipt = successReceipt
	ledger.submitErr = func(n int) error {
		if n%2 == 0 {
			return errors.New("replacement transaction underpriced")
		}

		return nil
	}
	recorder := &progressRecorder{}
	statuses := &statusRecorder{}

	result := newTestExecutor(ledger, newCatalog(t)).ExecuteBatch(context.Background(), pingRequests(5), BatchOptions{
		OnProgress: recorder,
		OnStatus:   statuses,
	})

	require.Len(t, result.Records, 5)
	assert.Equal(t, 5, result.Attempted)
	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 2, result.Failed())
	assert.False(t, result.Interrupted())

	progress := recorder.All()
	require.Len(t, progress, 5)
	assert.Equal(t, types.ProgressCompleted, progress[4].Status)
	assert.InDelta(t, 100, progress[4].Percentage, 0.001)

	// Confirmed records report three updates, failed submissions two.
	assert.Len(t, statuses.Updates(), 3*3+2*2)
}

func TestExecutor_ExecuteBatch_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	ledger := newStubLedger()
	ledger.receipt = successReceipt
	recorder := &progressRecorder{}

	onProgress := sdk.ProgressObserverFunc(func(p types.BatchProgress) {
		recorder.OnProgress(p)
		if p.Current == 2 {
			cancel()
		}
	})

	result := newTestExecutor(ledger, newCatalog(t)).ExecuteBatch(ctx, pingRequests(4), BatchOptions{
		OnProgress: onProgress,
	})

	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 2, result.Attempted)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 2, ledger.Submissions())

	progress := recorder.All()
	require.Len(t, progress, 3)
	assert.Equal(t, types.ProgressInterrupted, progress[2].Status)
	assert.Equal(t, 2, progress[2].Current)
}

func TestExecutor_ExecuteBatch_Empty(t *testing.T) {
	t.Parallel()

	recorder := &progressRecorder{}
	result := newTestExecutor(newStubLedger(), newCatalog(t)).ExecuteBatch(context.Background(), nil, BatchOptions{
		StopOnFailure: true,
		OnProgress:    recorder,
	})

	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Records)

	progress := recorder.All()
	require.Len(t, progress, 1)
	assert.Equal(t, types.ProgressCompleted, progress[0].Status)
}

func TestExecutor_ExecuteBatch_ProgressObserverPanic(t *testing.T) {
	t.Parallel()

	ledger := newStubLedger()
	ledger.receipt = successReceipt

	var result types.BatchResult
	require.NotPanics(t, func() {
		result = newTestExecutor(ledger, newCatalog(t)).ExecuteBatch(context.Background(), pingRequests(2), BatchOptions{
			OnProgress: sdk.ProgressObserverFunc(func(types.BatchProgress) { panic("observer failure") }),
		})
	})
	assert.Equal(t, 2, result.Succeeded)
}
