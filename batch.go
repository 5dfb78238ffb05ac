package txexec

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/smartcontractkit/txexec/sdk"
	"github.com/smartcontractkit/txexec/types"
)

// BatchOptions configures ExecuteBatch.
type BatchOptions struct {
	// StopOnFailure halts the batch at the first record that is not confirmed.
	StopOnFailure bool
	// OnProgress, if set, is called after each request.
	OnProgress sdk.ProgressObserver
	// OnStatus, if set, receives the status updates of every request.
	OnStatus sdk.StatusObserver
}

// ExecuteBatch executes the requests one at a time, in order. Request i+1 is never submitted
// before request i reached a terminal status.
//
// The batch stops early when StopOnFailure is set and a request does not confirm, or when ctx
// is done; requests after that point are not submitted and have no record. Like Execute, it
// never panics and never returns an error.
func (e *Executor) ExecuteBatch(ctx context.Context, reqs []types.OperationRequest, opts BatchOptions) types.BatchResult {
	result := types.BatchResult{
		ID:      uuid.New(),
		Records: make([]types.TransactionRecord, 0, len(reqs)),
		Total:   len(reqs),
	}

	ctx, span := e.opts.tracer.Start(ctx, "txexec.ExecuteBatch", trace.WithAttributes(
		attribute.String("txexec.batch_id", result.ID.String()),
		attribute.Int("txexec.batch_size", len(reqs)),
	))
	defer span.End()

	lggr := e.logger(ctx)
	ctx = sdk.ContextWithLogger(ctx, lggr)

	if len(reqs) == 0 {
		e.progress(lggr, opts.OnProgress, result, types.ProgressCompleted, "empty batch")

		return result
	}

	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			lggr.Warnf("batch %s interrupted before operation %d/%d: %v", result.ID, i+1, result.Total, err)
			e.progress(lggr, opts.OnProgress, result, types.ProgressInterrupted,
				fmt.Sprintf("interrupted before operation %d: %v", i+1, err))

			break
		}

		record := e.Execute(ctx, req, opts.OnStatus)
		result.Records = append(result.Records, record)
		result.Attempted++
		if record.Succeeded() {
			result.Succeeded++
		}

		halt := opts.StopOnFailure && !record.Succeeded()

		switch {
		case halt:
			lggr.Warnf("batch %s stopped at operation %d/%d with status %s", result.ID, i+1, result.Total, record.Status)
			e.progress(lggr, opts.OnProgress, result, types.ProgressInterrupted,
				fmt.Sprintf("operation %d %s, stopping: %s", i+1, record.Status, record.Message))
		case i+1 == result.Total:
			e.progress(lggr, opts.OnProgress, result, types.ProgressCompleted,
				fmt.Sprintf("operation %d %s", i+1, record.Status))
		default:
			e.progress(lggr, opts.OnProgress, result, types.ProgressProcessing,
				fmt.Sprintf("operation %d %s", i+1, record.Status))
		}

		if halt {
			break
		}
	}

	span.SetAttributes(
		attribute.Int("txexec.batch_attempted", result.Attempted),
		attribute.Int("txexec.batch_succeeded", result.Succeeded),
	)
	lggr.Infof("batch %s finished: %d/%d attempted, %d succeeded", result.ID, result.Attempted, result.Total, result.Succeeded)

	return result
}

func (e *Executor) progress(
	lggr sdk.Logger,
	onProgress sdk.ProgressObserver,
	result types.BatchResult,
	status types.ProgressStatus,
	message string,
) {
	if onProgress == nil {
		return
	}

	percentage := 100.0
	if result.Total > 0 {
		percentage = float64(result.Attempted) / float64(result.Total) * 100
	}

	defer func() {
		if r := recover(); r != nil {
			lggr.Errorf("progress observer panicked: %v", r)
		}
	}()

	onProgress.OnProgress(types.BatchProgress{
		BatchID:    result.ID,
		Current:    result.Attempted,
		Total:      result.Total,
		Percentage: percentage,
		Status:     status,
		Message:    message,
	})
}
