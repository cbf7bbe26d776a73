// Package config handles application configuration.
//
// Settings are layered, lowest precedence first: per-network defaults, the
// config file in the data directory, .env files, SUISEND_* environment
// variables and command-line flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/suisend/suisend/internal/wallet"
	"github.com/suisend/suisend/pkg/crypto"
)

// NetworkType identifies which Sui network to talk to.
type NetworkType string

const (
	Mainnet  NetworkType = "mainnet"
	Testnet  NetworkType = "testnet"
	Devnet   NetworkType = "devnet"
	Localnet NetworkType = "localnet"
)

// Networks lists every supported network.
var Networks = []NetworkType{Mainnet, Testnet, Devnet, Localnet}

// Config holds the runtime configuration shared by the CLI and the desktop app.
type Config struct {
	Network NetworkType `mapstructure:"network" validate:"required,oneof=mainnet testnet devnet localnet"`
	DataDir string      `mapstructure:"datadir" validate:"required"`

	// RPC endpoint
	RPC RPCConfig `mapstructure:"rpc"`

	// Batch tunables
	Transfer TransferConfig `mapstructure:"transfer"`

	// Mnemonic derivation
	Wallet WalletConfig `mapstructure:"wallet"`

	// Logging
	Log LogConfig `mapstructure:"log"`

	// Transfer journal
	Journal JournalConfig `mapstructure:"journal"`

	// File is the config file that was read, if any (not persisted).
	File string `mapstructure:"-"`
}

// RPCConfig holds the full node endpoint settings.
type RPCConfig struct {
	URL     string        `mapstructure:"url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// TransferConfig holds batch settings.
type TransferConfig struct {
	GasBudget uint64        `mapstructure:"gas_budget" validate:"gt=0"`
	Delay     time.Duration `mapstructure:"delay" validate:"gte=0"`
	DryRun    bool          `mapstructure:"dry_run"`
}

// WalletConfig selects how mnemonics are derived. Encoded keys carry their
// own scheme and ignore it.
type WalletConfig struct {
	Scheme  string `mapstructure:"scheme" validate:"oneof=ed25519 secp256k1"`
	Account uint32 `mapstructure:"account"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=trace debug info warn warning error"`
	File  string `mapstructure:"file"`
	JSON  bool   `mapstructure:"json"`
}

// JournalConfig controls the on-disk record of transfer runs.
type JournalConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// WalletOptions converts the wallet section for wallet.ParseCredentialWith.
func (c *Config) WalletOptions() (wallet.Options, error) {
	scheme, err := crypto.ParseScheme(c.Wallet.Scheme)
	if err != nil {
		return wallet.Options{}, err
	}
	return wallet.Options{Scheme: scheme, Account: c.Wallet.Account}, nil
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.suisend
//	macOS:   ~/Library/Application Support/Suisend
//	Windows: %APPDATA%\Suisend
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".suisend"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Suisend")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Suisend")
		}
		return filepath.Join(home, "AppData", "Roaming", "Suisend")
	default:
		return filepath.Join(home, ".suisend")
	}
}

// NetworkDataDir returns the network-specific data directory.
func (c *Config) NetworkDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// KeystoreDir returns the keystore directory. Keys are not tied to a network.
func (c *Config) KeystoreDir() string {
	return filepath.Join(c.DataDir, "keystore")
}

// JournalDir returns the transfer journal database directory.
func (c *Config) JournalDir() string {
	return filepath.Join(c.NetworkDataDir(), "journal")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the default config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, ConfigName+".yaml")
}
