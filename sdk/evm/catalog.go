package evm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/smartcontractkit/txexec/sdk"
)

// ErrContractNotFound is returned when a contract ID is not registered in the catalog.
var ErrContractNotFound = errors.New("contract not found in ABI catalog")

var _ sdk.ABIProvider = (*ABICatalog)(nil)

// ABICatalog is an in-memory sdk.ABIProvider keyed by contract ID. It is safe for concurrent
// use.
type ABICatalog struct {
	mu   sync.RWMutex
	abis map[string]*abi.ABI
}

// NewABICatalog creates an empty catalog.
func NewABICatalog() *ABICatalog {
	return &ABICatalog{abis: make(map[string]*abi.ABI)}
}

// ABI returns the interface registered under contractID.
func (c *ABICatalog) ABI(contractID string) (*abi.ABI, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	parsed, ok := c.abis[contractID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrContractNotFound, contractID)
	}

	return parsed, nil
}

// RegisterABI registers an already parsed ABI, replacing any previous entry.
func (c *ABICatalog) RegisterABI(contractID string, parsed abi.ABI) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.abis[contractID] = &parsed
}

// Register parses and registers an ABI. Both a plain ABI array and a compiler artifact object
// with an "abi" field are accepted.
func (c *ABICatalog) Register(contractID string, abiJSON []byte) error {
	parsed, err := ParseABI(abiJSON)
	if err != nil {
		return fmt.Errorf("failed to parse ABI for %s: %w", contractID, err)
	}

	c.RegisterABI(contractID, parsed)

	return nil
}

// LoadDir registers every *.json and *.abi file of dir, using the file name without extension
// as the contract ID.
func (c *ABICatalog) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		if ext != ".json" && ext != ".abi" {
			continue
		}

		b, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return err
		}

		if err := c.Register(strings.TrimSuffix(entry.Name(), ext), b); err != nil {
			return err
		}
	}

	return nil
}

// Len returns the number of registered contracts.
func (c *ABICatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.abis)
}

// ParseABI parses a plain ABI array or a compiler artifact containing one.
func ParseABI(b []byte) (abi.ABI, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var artifact struct {
			ABI json.RawMessage `json:"abi"`
		}
		if err := json.Unmarshal(trimmed, &artifact); err != nil {
			return abi.ABI{}, err
		}
		if len(artifact.ABI) == 0 {
			return abi.ABI{}, errors.New("artifact has no abi field")
		}
		trimmed = artifact.ABI
	}

	return abi.JSON(bytes.NewReader(trimmed))
}
