// suisend-cli sends the same amount of SUI to a list of addresses, one
// transfer at a time.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/suisend/suisend/config"
	"github.com/suisend/suisend/internal/log"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	root := newRootCmd(newApp(os.Stdin, os.Stdout, os.Stderr))
	if err := root.Execute(); err != nil {
		var shown *reportedError
		if !errors.As(err, &shown) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// reportedError marks an error the activity log already showed the user.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// app carries the resolved configuration and I/O shared by every command.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	cfg    *config.Config

	getenv     func(string) string
	readSecret func(prompt string) ([]byte, error)

	walletName string
	keyFile    string
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	return &app{
		in:         in,
		out:        out,
		errOut:     errOut,
		getenv:     os.Getenv,
		readSecret: readPassword,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "suisend-cli",
		Short:         "Send SUI to many addresses, one transfer at a time",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	fs := root.PersistentFlags()
	config.RegisterFlags(fs)
	fs.StringVarP(&a.walletName, "wallet", "w", "", "Use the named keystore credential")
	fs.StringVar(&a.keyFile, "key-file", "", "Read the private key or mnemonic from this file")

	root.AddCommand(
		newAddressCmd(a),
		newBalanceCmd(a),
		newStatusCmd(a),
		newSendCmd(a),
		newKeyCmd(a),
		newHistoryCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and initialises logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if err := log.InitWriter(a.errOut, cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	if err := config.EnsureDataDirs(cfg); err != nil {
		return err
	}
	a.cfg = cfg
	log.Logger.Debug().
		Str("network", string(cfg.Network)).
		Str("rpc", cfg.RPC.URL).
		Str("config", cfg.File).
		Msg("Configuration loaded")
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Skip config loading.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "suisend-cli %s\n", version)
		},
	}
}
