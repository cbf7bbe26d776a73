package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flag names.
const (
	FlagConfig     = "config"
	FlagNetwork    = "network"
	FlagRPC        = "rpc"
	FlagRPCTimeout = "rpc-timeout"
	FlagDataDir    = "datadir"
	FlagScheme     = "scheme"
	FlagAccount    = "account"
	FlagLogLevel   = "log-level"
	FlagLogFile    = "log-file"
	FlagLogJSON    = "log-json"

	FlagGasBudget = "gas-budget"
	FlagDelay     = "delay"
	FlagDryRun    = "dry-run"
	FlagJournal   = "journal"
)

// flagKeys maps each flag to the config key it overrides.
var flagKeys = map[string]string{
	FlagConfig:     KeyConfig,
	FlagNetwork:    KeyNetwork,
	FlagRPC:        KeyRPCURL,
	FlagRPCTimeout: KeyRPCTimeout,
	FlagDataDir:    KeyDataDir,
	FlagScheme:     KeyWalletScheme,
	FlagAccount:    KeyWalletAccount,
	FlagLogLevel:   KeyLogLevel,
	FlagLogFile:    KeyLogFile,
	FlagLogJSON:    KeyLogJSON,
	FlagGasBudget:  KeyGasBudget,
	FlagDelay:      KeyDelay,
	FlagDryRun:     KeyDryRun,
	FlagJournal:    KeyJournalEnabled,
}

// RegisterFlags adds the global flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagConfig, "c", "", "Config file path (default <datadir>/suisend.yaml)")
	fs.StringP(FlagNetwork, "n", "", "Network: mainnet, testnet, devnet or localnet (default testnet)")
	fs.String(FlagRPC, "", "Full node JSON-RPC URL (default: the network's public node)")
	fs.Duration(FlagRPCTimeout, 0, "RPC request timeout (default 30s)")
	fs.String(FlagDataDir, "", "Data directory path (default ~/.suisend)")
	fs.String(FlagScheme, "", "Key scheme for mnemonics: ed25519 or secp256k1 (default ed25519)")
	fs.Uint32(FlagAccount, 0, "Account index for mnemonic derivation")
	fs.String(FlagLogLevel, "", "Log level: trace, debug, info, warn or error (default warn)")
	fs.String(FlagLogFile, "", "Also write JSON logs to this file")
	fs.Bool(FlagLogJSON, false, "Output logs as JSON")
}

// RegisterTransferFlags adds the batch tunables to fs.
func RegisterTransferFlags(fs *pflag.FlagSet) {
	fs.Uint64(FlagGasBudget, 0, "Gas budget per transfer in MIST (default 20000000)")
	fs.Duration(FlagDelay, 0, "Pause between transfers (default 1.5s)")
	fs.Bool(FlagDryRun, false, "Simulate each transfer without executing it")
	fs.Bool(FlagJournal, true, "Record the run in the transfer journal")
}

// BindFlags lets every known flag in fs override its config key in v.
// Flags left at their zero default do not override anything.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag --%s: %w", name, err)
		}
	}
	return nil
}
