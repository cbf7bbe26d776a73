package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ConfigName is the config file base name looked up in the data directory.
// Any extension viper understands (yaml, toml, json) is accepted.
const ConfigName = "suisend"

// EnvPrefix prefixes environment overrides, e.g. SUISEND_RPC_URL.
const EnvPrefix = "SUISEND"

// Config keys.
const (
	KeyConfig         = "config"
	KeyNetwork        = "network"
	KeyDataDir        = "datadir"
	KeyRPCURL         = "rpc.url"
	KeyRPCTimeout     = "rpc.timeout"
	KeyGasBudget      = "transfer.gas_budget"
	KeyDelay          = "transfer.delay"
	KeyDryRun         = "transfer.dry_run"
	KeyWalletScheme   = "wallet.scheme"
	KeyWalletAccount  = "wallet.account"
	KeyLogLevel       = "log.level"
	KeyLogFile        = "log.file"
	KeyLogJSON        = "log.json"
	KeyJournalEnabled = "journal.enabled"
)

// Load resolves the configuration: defaults for the selected network, then
// the config file, .env files, SUISEND_* variables and finally the flags in
// fs that were set explicitly. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	return load(fs, "")
}

// LoadFromFile resolves the configuration without command-line flags. Used
// by the desktop app. An empty dataDir selects the default.
func LoadFromFile(dataDir string) (*Config, error) {
	return load(nil, dataDir)
}

func load(fs *pflag.FlagSet, dataDir string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if fs != nil {
		if err := BindFlags(v, fs); err != nil {
			return nil, err
		}
	}

	v.SetDefault(KeyDataDir, DefaultDataDir())
	if dataDir != "" {
		v.Set(KeyDataDir, dataDir)
	}
	dir := expandHome(v.GetString(KeyDataDir))
	if err := loadDotEnv(filepath.Join(dir, ".env")); err != nil {
		return nil, err
	}

	explicit := v.GetString(KeyConfig)
	if explicit != "" {
		v.SetConfigFile(expandHome(explicit))
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Network-dependent defaults are only known once the network is.
	network := NetworkType(strings.ToLower(strings.TrimSpace(v.GetString(KeyNetwork))))
	if network == "" {
		network = DefaultNetwork
	}
	setDefaults(v, Default(network))

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Network = network
	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.Log.File = expandHome(cfg.Log.File)
	cfg.Wallet.Scheme = strings.ToLower(strings.TrimSpace(cfg.Wallet.Scheme))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.RPC.URL == "" {
		cfg.RPC.URL = DefaultRPCURL(network)
	}
	cfg.File = v.ConfigFileUsed()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault(KeyNetwork, string(d.Network))
	v.SetDefault(KeyRPCURL, d.RPC.URL)
	v.SetDefault(KeyRPCTimeout, d.RPC.Timeout)
	v.SetDefault(KeyGasBudget, d.Transfer.GasBudget)
	v.SetDefault(KeyDelay, d.Transfer.Delay)
	v.SetDefault(KeyDryRun, d.Transfer.DryRun)
	v.SetDefault(KeyWalletScheme, d.Wallet.Scheme)
	v.SetDefault(KeyWalletAccount, d.Wallet.Account)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogFile, d.Log.File)
	v.SetDefault(KeyLogJSON, d.Log.JSON)
	v.SetDefault(KeyJournalEnabled, d.Journal.Enabled)
}

// loadDotEnv loads path into the environment if it exists. Variables that
// are already set win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// EnsureDataDirs creates the data directory structure and a default config
// file if they don't already exist. Safe to call on every startup.
func EnsureDataDirs(cfg *Config) error {
	dirs := []struct {
		path string
		perm os.FileMode
	}{
		{cfg.DataDir, 0755},
		{cfg.NetworkDataDir(), 0755},
		{cfg.KeystoreDir(), 0700},
		{cfg.LogsDir(), 0755},
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d.path, d.perm); err != nil {
			return fmt.Errorf("creating directory %s: %w", d.path, err)
		}
	}

	if cfg.File != "" {
		return nil
	}
	configPath := cfg.ConfigFile()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteDefaultConfig(configPath, cfg.Network); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}
	return nil
}

// WriteDefaultConfig writes a commented default config file.
func WriteDefaultConfig(path string, network NetworkType) error {
	d := Default(network)
	content := `# suisend configuration
#
# Every key can be overridden with an environment variable: upper-case the
# key, replace dots with underscores and prefix SUISEND_ (e.g. SUISEND_RPC_URL).
# Command-line flags take precedence over both.

# Network: mainnet, testnet, devnet or localnet
network: ` + string(network) + `

# Data directory (keystore, journal, logs)
# datadir: ~/.suisend

rpc:
  # Full node JSON-RPC endpoint (default: the network's public node)
  url: ` + d.RPC.URL + `
  timeout: ` + d.RPC.Timeout.String() + `

transfer:
  # Gas budget per transfer, in MIST
  gas_budget: ` + fmt.Sprint(d.Transfer.GasBudget) + `
  # Pause between consecutive transfers
  delay: ` + d.Transfer.Delay.String() + `
  # Simulate transfers instead of executing them
  dry_run: false

wallet:
  # Key scheme used when deriving from a mnemonic: ed25519 or secp256k1
  scheme: ` + d.Wallet.Scheme + `
  account: 0

log:
  level: ` + d.Log.Level + `
  # file: ~/.suisend/logs/suisend.log
  json: false

journal:
  enabled: true
`
	return os.WriteFile(path, []byte(content), 0644)
}
