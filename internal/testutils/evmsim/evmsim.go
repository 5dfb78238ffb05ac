// package evmsim implements a simulated EVM chain for testing purposes.
package evmsim

import (
	"crypto/ecdsa"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/require"
)

const (
	// DefaultGasLimit is the default gas limit for each transaction in the simulated chain
	DefaultGasLimit = uint64(8000000)

	// DefaultBalance is the default balance for each account in the simulated chain
	DefaultBalance = 1e18

	// SimulatedChainID is the chain ID used for the simulated chain. EVM Simulated chains always use 1337
	//
	// https://pkg.go.dev/github.com/ethereum/go-ethereum/ethclient/simulated#NewBackend
	SimulatedChainID = 1337

	// PingValue is the value carried by every Ping event of the emitter contract.
	PingValue = 42
)

// EmitterABI describes the emitter contract: calling ping() emits Ping(42).
const EmitterABI = `[
	{"type":"function","name":"ping","inputs":[],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"event","name":"Ping","inputs":[{"name":"value","type":"uint256","indexed":false}],"anonymous":false}
]`

// ReverterABI describes the reverter contract: every call reverts without data.
const ReverterABI = `[
	{"type":"function","name":"ping","inputs":[],"outputs":[],"stateMutability":"nonpayable"}
]`

// SimulatedChain represents a simulated chain with a backend and a list of signers.
type SimulatedChain struct {
	Backend *simulated.Backend
	Signers []*Signer
}

// Signer represents a signer with a private key.
type Signer struct {
	PrivateKey *ecdsa.PrivateKey
}

// NewTransactOpts creates a new transact options with the signer's private key and sets default
// values.
func (s *Signer) NewTransactOpts(t *testing.T) *bind.TransactOpts {
	t.Helper()

	auth, err := bind.NewKeyedTransactorWithChainID(s.PrivateKey, big.NewInt(SimulatedChainID))
	require.NoError(t, err)

	// Set default values
	auth.GasLimit = DefaultGasLimit

	return auth
}

// Address extracts the address from the signer's private key.
func (s *Signer) Address(t *testing.T) common.Address {
	t.Helper()

	publicKeyECDSA, ok := s.PrivateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		t.Fatal("error casting public key from crypto to ecdsa")
	}

	return crypto.PubkeyToAddress(*publicKeyECDSA)
}

// NewSimulatedChain creates a new simulated chain with the given number of signers.
func NewSimulatedChain(t *testing.T, numSigners uint64) SimulatedChain {
	t.Helper()

	// Generate a private key
	signers := make([]*Signer, 0, numSigners)
	for range numSigners {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)

		signers = append(signers, &Signer{PrivateKey: key})
	}

	// Setup the simulated backend
	genesisAlloc := gethTypes.GenesisAlloc{}
	for _, s := range signers {
		genesisAlloc[s.Address(t)] = gethTypes.Account{
			Balance: big.NewInt(DefaultBalance),
		}
	}

	sim := simulated.NewBackend(genesisAlloc,
		simulated.WithBlockGasLimit(DefaultGasLimit),
	)
	t.Cleanup(func() {
		_ = sim.Close()
	})

	return SimulatedChain{
		Backend: sim,
		Signers: signers,
	}
}

// DeployEmitter deploys the emitter contract and mines a block.
func (s *SimulatedChain) DeployEmitter(t *testing.T, signer *Signer) common.Address {
	t.Helper()

	return s.deploy(t, signer, EmitterABI, emitterRuntime())
}

// DeployReverter deploys the reverter contract and mines a block.
func (s *SimulatedChain) DeployReverter(t *testing.T, signer *Signer) common.Address {
	t.Helper()

	// PUSH1 0 PUSH1 0 REVERT
	return s.deploy(t, signer, ReverterABI, []byte{0x60, 0x00, 0x60, 0x00, 0xfd})
}

// MustParseABI parses one of the ABIs of this package.
func MustParseABI(t *testing.T, abiJSON string) *abi.ABI {
	t.Helper()

	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	require.NoError(t, err)

	return &parsed
}

func (s *SimulatedChain) deploy(t *testing.T, signer *Signer, abiJSON string, runtime []byte) common.Address {
	t.Helper()

	addr, _, _, err := bind.DeployContract(
		signer.NewTransactOpts(t), *MustParseABI(t, abiJSON), initCode(runtime), s.Backend.Client(),
	)
	require.NoError(t, err)

	// Mine a block
	s.Backend.Commit()

	return addr
}

// emitterRuntime stores PingValue in memory and emits it with the Ping topic, ignoring calldata.
func emitterRuntime() []byte {
	topic := crypto.Keccak256([]byte("Ping(uint256)"))

	code := []byte{0x60, PingValue, 0x60, 0x00, 0x52, 0x7f} // PUSH1 42 PUSH1 0 MSTORE PUSH32
	code = append(code, topic...)
	code = append(code, 0x60, 0x20, 0x60, 0x00, 0xa1, 0x00) // PUSH1 32 PUSH1 0 LOG1 STOP

	return code
}

// initCode wraps runtime code in a constructor that copies it to memory and returns it.
func initCode(runtime []byte) []byte {
	n := byte(len(runtime))
	// PUSH1 n PUSH1 12 PUSH1 0 CODECOPY PUSH1 n PUSH1 0 RETURN
	code := []byte{0x60, n, 0x60, 0x0c, 0x60, 0x00, 0x39, 0x60, n, 0x60, 0x00, 0xf3}

	return append(code, runtime...)
}
