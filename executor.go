package txexec

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/smartcontractkit/txexec/sdk"
	sdkerrors "github.com/smartcontractkit/txexec/sdk/errors"
	"github.com/smartcontractkit/txexec/types"
)

const (
	msgSubmitting = "submitting"
	msgSubmitted  = "submitted, awaiting confirmation"
)

// Executor runs operation requests through submission, confirmation, classification and event
// extraction. It holds no state between executions and is safe for concurrent use.
type Executor struct {
	submitter *Submitter
	tracker   *ConfirmationTracker
	opts      executorOptions
}

// NewExecutor creates an Executor backed by the ledger and ABI provider.
func NewExecutor(ledger sdk.Ledger, abis sdk.ABIProvider, opts ...Option) *Executor {
	o := defaultExecutorOptions()
	for _, opt := range opts {
		opt(&o)
	}

	submitter := NewSubmitter(ledger, abis)
	submitter.now = o.now

	return &Executor{
		submitter: submitter,
		tracker:   NewConfirmationTracker(ledger, o.detachedWaitLimit, o.logger),
		opts:      o,
	}
}

// Execute submits the request and waits for its terminal status. It never panics and never
// returns an error: every failure is captured in the returned record.
//
// onStatus may be nil. It is called synchronously and must return quickly; wrap slow observers
// with notify.Async.
func (e *Executor) Execute(ctx context.Context, req types.OperationRequest, onStatus sdk.StatusObserver) (record types.TransactionRecord) {
	ctx, span := e.opts.tracer.Start(ctx, "txexec.Execute", trace.WithAttributes(
		attribute.String("txexec.contract", req.Contract.ID),
		attribute.String("txexec.method", req.Method),
	))
	defer span.End()

	lggr := e.logger(ctx)
	ctx = sdk.ContextWithLogger(ctx, lggr)
	req.Options = e.applyDefaults(req.Options)
	record = types.NewTransactionRecord(req, e.opts.now())

	defer func() {
		if r := recover(); r != nil {
			lggr.Errorf("execution of %s.%s panicked: %v", req.Contract.ID, req.Method, r)
			e.complete(lggr, &record, nil, sdkerrors.NewUnknownError(fmt.Errorf("panic: %v", r)), nil, onStatus)
		}

		span.SetAttributes(
			attribute.String("txexec.status", record.Status.String()),
			attribute.String("txexec.tx_hash", record.TxHash),
		)
		if !record.Succeeded() {
			span.SetStatus(codes.Error, record.Message)
		}
	}()

	if err := req.Validate(); err != nil {
		e.complete(lggr, &record, nil,
			sdkerrors.NewSubmissionError(req.Contract.ID, req.Method, NewInvalidRequestError(err)), nil, onStatus)

		return record
	}

	e.notify(lggr, &record, msgSubmitting, onStatus)
	lggr.Infof("submitting %s.%s to %s", req.Contract.ID, req.Method, req.Contract.Address)

	handle, err := e.submitter.Submit(ctx, req)
	if err != nil {
		e.complete(lggr, &record, nil, err, nil, onStatus)

		return record
	}

	record.TxHash = handle.Hash.Hex()
	lggr.Infof("submitted %s.%s in transaction %s", req.Contract.ID, req.Method, record.TxHash)
	e.notify(lggr, &record, msgSubmitted, onStatus)

	receipt, err := e.tracker.AwaitConfirmation(ctx, handle, req.Options.Confirmations, req.Options.Timeout())
	e.complete(lggr, &record, receipt, err, handle.contractABI, onStatus)

	return record
}

// complete moves the record to its terminal status and notifies the observer.
func (e *Executor) complete(
	lggr sdk.Logger,
	record *types.TransactionRecord,
	receipt *gethtypes.Receipt,
	err error,
	contractABI *abi.ABI,
	onStatus sdk.StatusObserver,
) {
	status := Classify(receipt, err)
	if receipt != nil && status == types.StatusReverted && err == nil {
		err = sdkerrors.NewRevertError(record.TxHash, "", nil)
	}

	record.Status = status
	record.Receipt = receipt
	record.CompletedAt = e.opts.now()

	switch status {
	case types.StatusConfirmed:
		record.Events = ExtractContractEvents(receipt, contractABI, common.HexToAddress(record.Request.Contract.Address))
		record.Message = fmt.Sprintf("confirmed in block %s with %d events", receipt.BlockNumber, len(record.Events))
	case types.StatusReverted, types.StatusFailed, types.StatusTimeout:
		record.Error = newErrorDetail(status, err, record.Request.Options)
		record.Cause = err
		record.Message = record.Error.Message
	case types.StatusPending:
		// Classify never returns a non terminal status.
		record.Status = types.StatusFailed
		record.Error = newErrorDetail(types.StatusFailed, err, record.Request.Options)
		record.Cause = err
		record.Message = record.Error.Message
	}

	if record.Succeeded() {
		lggr.Infof("transaction %s confirmed", record.TxHash)
	} else {
		lggr.Warnf("%s.%s finished with status %s: %s",
			record.Request.Contract.ID, record.Request.Method, record.Status, record.Message)
	}

	e.notify(lggr, record, record.Message, onStatus)
}

// notify delivers the current state of the record. Observer panics are logged and dropped.
func (e *Executor) notify(lggr sdk.Logger, record *types.TransactionRecord, message string, onStatus sdk.StatusObserver) {
	if onStatus == nil {
		return
	}

	update := types.StatusUpdate{
		RecordID:  record.ID,
		Status:    record.Status,
		Message:   message,
		TxHash:    record.TxHash,
		Receipt:   record.Receipt,
		Error:     record.Error,
		Timestamp: e.opts.now(),
	}

	defer func() {
		if r := recover(); r != nil {
			lggr.Errorf("status observer panicked on %s update: %v", strings.ToLower(update.Status.String()), r)
		}
	}()

	onStatus.OnStatus(update)
}

func (e *Executor) applyDefaults(opts types.Options) types.Options {
	if opts.Confirmations == 0 {
		opts.Confirmations = e.opts.defaults.Confirmations
	}
	if opts.TimeoutMillis == 0 {
		opts.TimeoutMillis = e.opts.defaults.TimeoutMillis
	}

	return opts.WithDefaults()
}

// logger resolves the executor logger once per call; it is then carried in the context.
func (e *Executor) logger(ctx context.Context) sdk.Logger {
	if e.opts.logger != nil {
		return e.opts.logger
	}

	return sdk.LoggerFrom(ctx)
}
