package config

import (
	"github.com/suisend/suisend/internal/rpcclient"
	"github.com/suisend/suisend/internal/transfer"
)

// Public full node endpoints.
const (
	MainnetRPC  = "https://fullnode.mainnet.sui.io:443"
	TestnetRPC  = "https://fullnode.testnet.sui.io:443"
	DevnetRPC   = "https://fullnode.devnet.sui.io:443"
	LocalnetRPC = "http://127.0.0.1:9000"
)

// DefaultNetwork is used when nothing selects a network.
const DefaultNetwork = Testnet

// DefaultRPCURL returns the public full node for network.
func DefaultRPCURL(network NetworkType) string {
	switch network {
	case Mainnet:
		return MainnetRPC
	case Devnet:
		return DevnetRPC
	case Localnet:
		return LocalnetRPC
	default:
		return TestnetRPC
	}
}

// Default returns the default configuration for the given network.
func Default(network NetworkType) *Config {
	return &Config{
		Network: network,
		DataDir: DefaultDataDir(),
		RPC: RPCConfig{
			URL:     DefaultRPCURL(network),
			Timeout: rpcclient.DefaultTimeout,
		},
		Transfer: TransferConfig{
			GasBudget: transfer.DefaultGasBudget,
			Delay:     transfer.DefaultDelay,
		},
		Wallet: WalletConfig{
			Scheme: "ed25519",
		},
		Log: LogConfig{
			Level: "warn",
		},
		Journal: JournalConfig{
			Enabled: true,
		},
	}
}
