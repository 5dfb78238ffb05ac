package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/smartcontractkit/txexec/sdk"
	sdkerrors "github.com/smartcontractkit/txexec/sdk/errors"
	"github.com/smartcontractkit/txexec/types"
)

const (
	// DefaultPollInterval is how often receipts and the chain head are polled.
	DefaultPollInterval = time.Second

	// DefaultMaxConsecutiveRPCErrors is the number of consecutive failed RPC calls tolerated
	// while waiting for confirmations.
	DefaultMaxConsecutiveRPCErrors = 3
)

var (
	// ErrMethodNotFound is returned when the method is not declared in the contract ABI.
	ErrMethodNotFound = errors.New("method not found in contract ABI")

	// ErrInvalidAddress is returned when the contract address is not a hex address.
	ErrInvalidAddress = errors.New("invalid contract address")
)

// ContractDeployBackend is the go-ethereum backend needed to transact and read receipts.
type ContractDeployBackend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Client extends ContractDeployBackend with access to the chain head. Both *ethclient.Client
// and simulated.Client satisfy it.
type Client interface {
	ContractDeployBackend
	BlockNumber(ctx context.Context) (uint64, error)
}

var _ sdk.Ledger = (*Ledger)(nil)

// Ledger is an sdk.Ledger implementation for EVM chains.
type Ledger struct {
	client                  Client
	auth                    *bind.TransactOpts
	pollInterval            time.Duration
	maxConsecutiveRPCErrors int
	lggr                    sdk.Logger
}

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithPollInterval sets the interval between receipt polls.
func WithPollInterval(d time.Duration) LedgerOption {
	return func(l *Ledger) {
		if d > 0 {
			l.pollInterval = d
		}
	}
}

// WithMaxConsecutiveRPCErrors sets how many consecutive RPC failures are tolerated while
// waiting for confirmations.
func WithMaxConsecutiveRPCErrors(n int) LedgerOption {
	return func(l *Ledger) {
		if n > 0 {
			l.maxConsecutiveRPCErrors = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(lggr sdk.Logger) LedgerOption {
	return func(l *Ledger) {
		l.lggr = lggr
	}
}

// NewLedger creates a new Ledger that signs transactions with auth.
func NewLedger(client Client, auth *bind.TransactOpts, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		client:                  client,
		auth:                    auth,
		pollInterval:            DefaultPollInterval,
		maxConsecutiveRPCErrors: DefaultMaxConsecutiveRPCErrors,
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.lggr == nil {
		l.lggr = sdk.LoggerFrom(context.Background())
	}

	return l
}

// SubmitTransaction packs and sends the call. Reverts detected during gas estimation are
// returned as *sdkerrors.RevertError, every other failure is returned as is.
func (l *Ledger) SubmitTransaction(
	ctx context.Context,
	contract types.ContractRef,
	contractABI *abi.ABI,
	method string,
	args []any,
	opts types.Options,
) (*gethtypes.Transaction, error) {
	if !common.IsHexAddress(contract.Address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, contract.Address)
	}

	m, ok := contractABI.Methods[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, method)
	}

	packed, err := CoerceArgs(m.Inputs, args)
	if err != nil {
		return nil, fmt.Errorf("invalid arguments for %s: %w", method, err)
	}

	txOpts := *l.auth
	txOpts.Context = ctx
	if opts.Value != nil {
		txOpts.Value = new(big.Int).Set(opts.Value)
	}
	if opts.GasLimit > 0 {
		txOpts.GasLimit = opts.GasLimit
	}

	bound := bind.NewBoundContract(common.HexToAddress(contract.Address), *contractABI, l.client, l.client, l.client)

	tx, err := bound.Transact(&txOpts, method, packed...)
	if err != nil {
		if reason, isRevert := DecodeRevert(err, contractABI); isRevert {
			return nil, sdkerrors.NewRevertError("", reason, err)
		}

		return nil, err
	}

	l.lggr.Debugf("sent transaction %s to %s.%s", tx.Hash().Hex(), contract.ID, method)

	return tx, nil
}

// TransactionReceipt returns the receipt of a mined transaction.
func (l *Ledger) TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error) {
	return l.client.TransactionReceipt(ctx, txHash)
}

// WaitForConfirmations polls until the transaction is included and the chain head is
// confirmations-1 blocks past the inclusion block. The receipt is re-read on every poll so a
// transaction removed by a reorg goes back to waiting for inclusion.
func (l *Ledger) WaitForConfirmations(
	ctx context.Context, txHash common.Hash, confirmations uint64,
) (*gethtypes.Receipt, error) {
	if confirmations == 0 {
		confirmations = 1
	}

	queryTicker := time.NewTicker(l.pollInterval)
	defer queryTicker.Stop()

	var (
		seen     bool
		failures int
		lastErr  error
	)

	for {
		receipt, err := l.client.TransactionReceipt(ctx, txHash)
		switch {
		case err == nil:
			failures = 0
			seen = true

			got, headErr := l.confirmationsOf(ctx, receipt, confirmations)
			if headErr != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}

				failures++
				lastErr = headErr
				l.lggr.Warnf("failed to read chain head for %s: %v", txHash.Hex(), headErr)
			} else if got >= confirmations {
				return receipt, nil
			}
		case errors.Is(err, ethereum.NotFound):
			failures = 0
			if seen {
				seen = false
				l.lggr.Warnf("transaction %s no longer included, waiting for inclusion again", txHash.Hex())
			}
		default:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}

			failures++
			lastErr = err
			l.lggr.Warnf("receipt retrieval failed for %s: %v", txHash.Hex(), err)
		}

		if failures >= l.maxConsecutiveRPCErrors {
			return nil, sdkerrors.NewConfirmationError(
				txHash.Hex(), fmt.Errorf("%d consecutive RPC failures: %w", failures, lastErr),
			)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-queryTicker.C:
		}
	}
}

// confirmationsOf returns the number of confirmations of the receipt, skipping the head lookup
// when a single confirmation was requested.
func (l *Ledger) confirmationsOf(ctx context.Context, receipt *gethtypes.Receipt, want uint64) (uint64, error) {
	if want <= 1 {
		return 1, nil
	}

	head, err := l.client.BlockNumber(ctx)
	if err != nil {
		return 0, err
	}

	return Confirmations(head, receipt), nil
}

// Confirmations returns head - inclusion block + 1, or 0 if the head is behind the receipt.
func Confirmations(head uint64, receipt *gethtypes.Receipt) uint64 {
	if receipt == nil || receipt.BlockNumber == nil {
		return 0
	}

	included := receipt.BlockNumber.Uint64()
	if head < included {
		return 0
	}

	return head - included + 1
}
