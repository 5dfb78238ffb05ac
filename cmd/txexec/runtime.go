package txexec

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/smartcontractkit/txexec"
	"github.com/smartcontractkit/txexec/internal/config"
	"github.com/smartcontractkit/txexec/internal/notify"
	"github.com/smartcontractkit/txexec/metrics"
	"github.com/smartcontractkit/txexec/sdk"
	"github.com/smartcontractkit/txexec/sdk/evm"
	"github.com/smartcontractkit/txexec/types"
)

// runtime holds what the commands need to execute operations.
type runtime struct {
	executor *txexec.Executor
	lggr     *zap.SugaredLogger
	status   sdk.StatusObserver
	progress sdk.ProgressObserver
	closers  []func()
}

type runtimeFactory func(envPath string) (*runtime, error)

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// newRuntime wires the executor from the configuration at envPath.
func newRuntime(envPath string) (*runtime, error) {
	cfg, err := config.Load(envPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := cfg.Logger()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	lggr := logger.Sugar()

	catalog := evm.NewABICatalog()
	if cfg.ABIDir != "" {
		if err = catalog.LoadDir(cfg.ABIDir); err != nil {
			return nil, fmt.Errorf("failed to load ABIs from %s: %w", cfg.ABIDir, err)
		}
	}
	lggr.Debugf("loaded %d contract ABIs", catalog.Len())

	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.RPCURL, err)
	}

	auth, err := cfg.TransactOpts()
	if err != nil {
		client.Close()
		return nil, err
	}

	ledger := evm.NewLedger(client, auth,
		evm.WithPollInterval(cfg.PollInterval),
		evm.WithLogger(lggr),
	)

	rt := newRuntimeWith(ledger, catalog, lggr,
		txexec.WithDefaultOptions(cfg.DefaultOptions()),
		txexec.WithDetachedWaitLimit(cfg.DetachedWaitLimit),
	)
	rt.closers = append([]func(){client.Close}, rt.closers...)

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		observer := metrics.NewObserver(reg,
			metrics.WithRetention(cfg.DefaultOptions().Timeout()+cfg.DetachedWaitLimit))
		rt.status = metrics.Multi(rt.status, observer)
		rt.progress = multiProgress(rt.progress, observer)
		rt.closers = append(rt.closers, serveMetrics(cfg.MetricsAddr, reg, lggr))
	}

	return rt, nil
}

// newRuntimeWith builds a runtime around an existing ledger and ABI provider.
func newRuntimeWith(ledger sdk.Ledger, abis sdk.ABIProvider, lggr *zap.SugaredLogger, opts ...txexec.Option) *runtime {
	opts = append([]txexec.Option{txexec.WithLogger(lggr)}, opts...)

	return &runtime{
		executor: txexec.NewExecutor(ledger, abis, opts...),
		lggr:     lggr,
		status: sdk.StatusObserverFunc(func(u types.StatusUpdate) {
			lggr.Infow("status", "record", u.RecordID, "status", u.Status, "txHash", u.TxHash, "message", u.Message)
		}),
		progress: sdk.ProgressObserverFunc(func(p types.BatchProgress) {
			lggr.Infof("batch %s: %d/%d (%.0f%%) %s: %s", p.BatchID, p.Current, p.Total, p.Percentage, p.Status, p.Message)
		}),
		closers: []func(){func() { _ = lggr.Sync() }},
	}
}

// async wraps the runtime observers so slow sinks never delay execution. The returned function
// flushes pending notifications.
func (r *runtime) async() (sdk.StatusObserver, sdk.ProgressObserver, func()) {
	a := notify.NewAsync(r.status, r.progress, notify.DefaultBufferSize, r.lggr)

	return a, a, func() {
		a.Close()
		if dropped := a.Dropped(); dropped > 0 {
			r.lggr.Warnf("dropped %d notifications", dropped)
		}
	}
}

func multiProgress(observers ...sdk.ProgressObserver) sdk.ProgressObserver {
	return sdk.ProgressObserverFunc(func(p types.BatchProgress) {
		for _, obs := range observers {
			if obs != nil {
				obs.OnProgress(p)
			}
		}
	})
}

func serveMetrics(addr string, reg *prometheus.Registry, lggr sdk.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lggr.Errorf("metrics server failed: %v", err)
		}
	}()
	lggr.Infof("serving metrics on %s/metrics", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(ctx)
	}
}
