package sdk

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/smartcontractkit/txexec/types"
)

// Ledger is the RPC collaborator used to submit and track transactions.
//
// Implementations must be safe for concurrent use: independent executions issue calls against
// the same Ledger without any coordination.
type Ledger interface {
	// SubmitTransaction packs the call with the contract ABI and broadcasts it exactly once.
	// An error means the ledger rejected the transaction and no hash exists.
	SubmitTransaction(
		ctx context.Context,
		contract types.ContractRef,
		contractABI *abi.ABI,
		method string,
		args []any,
		opts types.Options,
	) (*gethtypes.Transaction, error)

	// TransactionReceipt returns the receipt of a mined transaction. It returns
	// ethereum.NotFound while the transaction is pending.
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error)

	// WaitForConfirmations blocks until the transaction has been included and the chain head is
	// at least confirmations-1 blocks past the inclusion block. It may block indefinitely, so
	// callers bound it with the context.
	WaitForConfirmations(ctx context.Context, txHash common.Hash, confirmations uint64) (*gethtypes.Receipt, error)
}

// ABIProvider resolves a contract ID into the interface description used to encode calls and
// decode logs.
type ABIProvider interface {
	ABI(contractID string) (*abi.ABI, error)
}
