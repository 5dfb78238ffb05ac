package txexec

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartcontractkit/txexec/internal/testutils/evmsim"
	"github.com/smartcontractkit/txexec/sdk/evm"
	"github.com/smartcontractkit/txexec/types"
)

const emitterID = "Emitter"

var emitterAddress = common.HexToAddress("0x00000000000000000000000000000000000000e1")

// stubLedger is a scripted ledger. Every call is numbered from 1 in submission order.
type stubLedger struct {
	// submitErr returns the error to fail submission n with, nil to accept it.
	submitErr func(n int) error
	// receipt returns the receipt of submission n. A nil receipt is never delivered.
	receipt func(n int, txHash common.Hash) *gethtypes.Receipt
	// waitErr returns the error the confirmation wait of submission n fails with.
	waitErr   func(n int) error
	waitDelay time.Duration

	submissions atomic.Int32
	waitsDone   chan struct{}

	mu     sync.Mutex
	hashes map[common.Hash]int
}

func newStubLedger() *stubLedger {
	return &stubLedger{
		hashes:    make(map[common.Hash]int),
		waitsDone: make(chan struct{}, 16),
	}
}

func (s *stubLedger) SubmitTransaction(
	_ context.Context, _ types.ContractRef, _ *abi.ABI, _ string, _ []any, _ types.Options,
) (*gethtypes.Transaction, error) {
	n := int(s.submissions.Add(1))
	if s.submitErr != nil {
		if err := s.submitErr(n); err != nil {
			return nil, err
		}
	}

	tx := gethtypes.NewTx(&gethtypes.LegacyTx{Nonce: uint64(n), To: &emitterAddress, Gas: 21000}) //nolint:gosec // test counter

	s.mu.Lock()
	s.hashes[tx.Hash()] = n
	s.mu.Unlock()

	return tx, nil
}

func (s *stubLedger) TransactionReceipt(context.Context, common.Hash) (*gethtypes.Receipt, error) {
	return nil, errors.New("not used")
}

func (s *stubLedger) WaitForConfirmations(ctx context.Context, txHash common.Hash, _ uint64) (*gethtypes.Receipt, error) {
	defer func() {
		select {
		case s.waitsDone <- struct{}{}:
		default:
		}
	}()

	s.mu.Lock()
	n := s.hashes[txHash]
	s.mu.Unlock()

	if s.waitErr != nil {
		if err := s.waitErr(n); err != nil {
			return nil, err
		}
	}

	var receipt *gethtypes.Receipt
	if s.receipt != nil {
		receipt = s.receipt(n, txHash)
	}
	if receipt == nil {
		<-ctx.Done()

		return nil, ctx.Err()
	}

	select {
	case <-time.After(s.waitDelay):
		return receipt, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *stubLedger) Submissions() int {
	return int(s.submissions.Load())
}

func successReceipt(_ int, txHash common.Hash) *gethtypes.Receipt {
	return newReceipt(txHash, gethtypes.ReceiptStatusSuccessful, pingLog(txHash, 0))
}

func newReceipt(txHash common.Hash, status uint64, logs ...*gethtypes.Log) *gethtypes.Receipt {
	return &gethtypes.Receipt{
		Status:      status,
		TxHash:      txHash,
		BlockNumber: big.NewInt(7),
		Logs:        logs,
	}
}

func pingLog(txHash common.Hash, index uint) *gethtypes.Log {
	return &gethtypes.Log{
		Address:     emitterAddress,
		Topics:      []common.Hash{pingEventID()},
		Data:        common.LeftPadBytes(big.NewInt(evmsim.PingValue).Bytes(), 32),
		BlockNumber: 7,
		TxHash:      txHash,
		Index:       index,
	}
}

func pingEventID() common.Hash {
	parsed, err := evm.ParseABI([]byte(evmsim.EmitterABI))
	if err != nil {
		panic(err)
	}

	return parsed.Events["Ping"].ID
}

func newCatalog(t *testing.T) *evm.ABICatalog {
	t.Helper()

	catalog := evm.NewABICatalog()
	require.NoError(t, catalog.Register(emitterID, []byte(evmsim.EmitterABI)))

	return catalog
}

func pingRequest(timeoutMillis uint64) types.OperationRequest {
	return types.OperationRequest{
		Contract: types.ContractRef{ID: emitterID, Address: emitterAddress.Hex()},
		Method:   "ping",
		Options: types.Options{
			Confirmations: 1,
			TimeoutMillis: timeoutMillis,
		},
	}
}

func newTestExecutor(ledger *stubLedger, catalog *evm.ABICatalog) *Executor {
	return NewExecutor(ledger, catalog,
		WithLogger(zap.NewNop().Sugar()),
		WithDetachedWaitLimit(100*time.Millisecond),
	)
}

// statusRecorder collects status updates.
type statusRecorder struct {
	mu      sync.Mutex
	updates []types.StatusUpdate
}

func (r *statusRecorder) OnStatus(update types.StatusUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.updates = append(r.updates, update)
}

func (r *statusRecorder) Updates() []types.StatusUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]types.StatusUpdate(nil), r.updates...)
}
