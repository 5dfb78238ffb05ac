// Package config loads the runtime configuration of the txexec command from a .env file and
// the environment.
package config

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/smartcontractkit/txexec/internal/utils/safecast"
	"github.com/smartcontractkit/txexec/types"
)

// Environment keys.
const (
	KeyRPCURL               = "RPC_URL"
	KeyPrivateKey           = "PRIVATE_KEY"
	KeyChainSelector        = "CHAIN_SELECTOR"
	KeyABIDir               = "ABI_DIR"
	KeyPollInterval         = "POLL_INTERVAL"
	KeyDefaultConfirmations = "DEFAULT_CONFIRMATIONS"
	KeyDefaultTimeoutMillis = "DEFAULT_TIMEOUT_MS"
	KeyDetachedWaitLimit    = "DETACHED_WAIT_LIMIT"
	KeyLogLevel             = "LOG_LEVEL"
	KeyMetricsAddr          = "METRICS_ADDR"
)

const (
	DefaultPollInterval      = time.Second
	DefaultDetachedWaitLimit = time.Hour
	DefaultLogLevel          = "info"
)

// Config is the validated runtime configuration.
type Config struct {
	RPCURL        string              `validate:"required,url"`
	PrivateKey    string              `validate:"required,hexadecimal,len=64"`
	ChainSelector types.ChainSelector `validate:"required"`
	// ChainID is resolved from ChainSelector.
	ChainID uint64

	ABIDir string

	PollInterval         time.Duration `validate:"gt=0"`
	DefaultConfirmations uint64        `validate:"gte=1"`
	DefaultTimeoutMillis uint64        `validate:"gte=1"`
	DetachedWaitLimit    time.Duration `validate:"gte=0"`

	LogLevel    string `validate:"oneof=debug info warn error"`
	MetricsAddr string
}

// Load reads path as a .env file, if it exists, and overlays the process environment.
func Load(path string) (*Config, error) {
	return LoadFrom(path, os.LookupEnv)
}

// LoadFrom is Load with a custom environment lookup.
func LoadFrom(path string, lookupEnv func(string) (string, bool)) (*Config, error) {
	values := map[string]string{}
	if path != "" {
		fileValues, err := godotenv.Read(path)
		switch {
		case err == nil:
			values = fileValues
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	get := func(key string) string {
		if v, ok := lookupEnv(key); ok {
			return strings.TrimSpace(v)
		}

		return strings.TrimSpace(values[key])
	}

	cfg := &Config{
		RPCURL:               get(KeyRPCURL),
		PrivateKey:           strings.TrimPrefix(get(KeyPrivateKey), "0x"),
		ABIDir:               get(KeyABIDir),
		PollInterval:         DefaultPollInterval,
		DefaultConfirmations: types.DefaultConfirmations,
		DefaultTimeoutMillis: types.DefaultTimeoutMillis,
		DetachedWaitLimit:    DefaultDetachedWaitLimit,
		LogLevel:             DefaultLogLevel,
		MetricsAddr:          get(KeyMetricsAddr),
	}

	var err error
	if v := get(KeyChainSelector); v != "" {
		// Selectors exceed the int64 range cast parses through.
		sel, parseErr := strconv.ParseUint(v, 10, 64)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", KeyChainSelector, v, parseErr)
		}
		cfg.ChainSelector = types.ChainSelector(sel)
	}
	if v := get(KeyPollInterval); v != "" {
		if cfg.PollInterval, err = cast.ToDurationE(v); err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", KeyPollInterval, v, err)
		}
	}
	if v := get(KeyDetachedWaitLimit); v != "" {
		if cfg.DetachedWaitLimit, err = cast.ToDurationE(v); err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", KeyDetachedWaitLimit, v, err)
		}
	}
	if v := get(KeyDefaultConfirmations); v != "" {
		if cfg.DefaultConfirmations, err = parseUint(v); err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", KeyDefaultConfirmations, v, err)
		}
	}
	if v := get(KeyDefaultTimeoutMillis); v != "" {
		if cfg.DefaultTimeoutMillis, err = parseUint(v); err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", KeyDefaultTimeoutMillis, v, err)
		}
	}
	if v := get(KeyLogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration and resolves the chain ID of the selector.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	chainID, err := types.EVMChainID(c.ChainSelector)
	if err != nil {
		return fmt.Errorf("invalid %s %d: %w", KeyChainSelector, c.ChainSelector, err)
	}
	c.ChainID = chainID

	return nil
}

// Key parses the private key.
func (c *Config) Key() (*ecdsa.PrivateKey, error) {
	return crypto.HexToECDSA(c.PrivateKey)
}

// TransactOpts returns a keyed transactor for the configured chain.
func (c *Config) TransactOpts() (*bind.TransactOpts, error) {
	key, err := c.Key()
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyPrivateKey, err)
	}

	return bind.NewKeyedTransactorWithChainID(key, new(big.Int).SetUint64(c.ChainID))
}

// Logger builds a production zap logger at the configured level.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = level

	return zcfg.Build()
}

// DefaultOptions returns the request options applied when a request leaves them unset.
func (c *Config) DefaultOptions() types.Options {
	return types.Options{
		Confirmations: c.DefaultConfirmations,
		TimeoutMillis: c.DefaultTimeoutMillis,
	}
}

func parseUint(v string) (uint64, error) {
	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, err
	}

	return safecast.Int64ToUint64(n)
}
