package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suisend/suisend/internal/transfer"
	"github.com/suisend/suisend/pkg/types"
)

func newAddressCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "address",
		Short: "Show the address a credential controls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := a.credential()
			if err != nil {
				return err
			}
			defer cred.Zero()

			fmt.Fprintf(a.out, "Address: %s\n", cred.Address())
			fmt.Fprintf(a.out, "Scheme:  %s\n", cred.Scheme())
			fmt.Fprintf(a.out, "Format:  %s\n", cred.Format)
			if cred.Path != "" {
				fmt.Fprintf(a.out, "Path:    %s\n", cred.Path)
			}
			return nil
		},
	}
}

func newBalanceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [address]",
		Short: "Show the SUI balance of an address or of the wallet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var addr types.Address
			if len(args) == 1 {
				var err error
				if addr, err = types.ParseAddress(args[0]); err != nil {
					return err
				}
			} else {
				cred, err := a.credential()
				if err != nil {
					return err
				}
				addr = cred.Address()
				cred.Zero()
			}

			coins, err := transfer.Coins(cmd.Context(), a.rpcClient(), addr)
			if err != nil {
				return err
			}
			var total uint64
			for _, c := range coins {
				total += c.Balance
			}
			fmt.Fprintf(a.out, "Address: %s\n", addr)
			fmt.Fprintf(a.out, "Balance: %s SUI (%d MIST)\n", types.FormatSUIExact(total), total)
			fmt.Fprintf(a.out, "Coins:   %d\n", len(coins))
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the configured network and node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := a.rpcClient()
			fmt.Fprintf(a.out, "Network: %s\n", a.cfg.Network)
			fmt.Fprintf(a.out, "RPC:     %s\n", client.Endpoint())
			if a.cfg.File != "" {
				fmt.Fprintf(a.out, "Config:  %s\n", a.cfg.File)
			}

			chainID, err := client.GetChainIdentifier(cmd.Context())
			if err != nil {
				return fmt.Errorf("node unreachable: %w", err)
			}
			price, err := client.GetReferenceGasPrice(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Chain:   %s\n", chainID)
			fmt.Fprintf(a.out, "Gas:     %d MIST reference price\n", price)
			return nil
		},
	}
}
