package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/suisend/suisend/internal/wallet"
	"github.com/suisend/suisend/pkg/crypto"
)

func newKeyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage credentials in the encrypted keystore",
	}
	cmd.AddCommand(
		newKeyGenerateCmd(a),
		newKeyImportCmd(a),
		newKeyListCmd(a),
		newKeyShowCmd(a),
		newKeyExportCmd(a),
		newKeyRemoveCmd(a),
	)
	return cmd
}

func newKeyGenerateCmd(a *app) *cobra.Command {
	var save string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new 24-word mnemonic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mnemonic, err := wallet.GenerateMnemonic()
			if err != nil {
				return err
			}
			opts, err := a.cfg.WalletOptions()
			if err != nil {
				return err
			}
			cred, err := wallet.ParseCredentialWith(mnemonic, opts)
			if err != nil {
				return err
			}
			defer cred.Zero()

			fmt.Fprintln(a.out, "Mnemonic (write this down!):")
			fmt.Fprintf(a.out, "  %s\n\n", mnemonic)
			fmt.Fprintf(a.out, "Address: %s\n", cred.Address())
			fmt.Fprintf(a.out, "Path:    %s\n", cred.Path)

			if save == "" {
				return nil
			}
			return a.importCredential(save, mnemonic, opts)
		},
	}
	cmd.Flags().StringVar(&save, "save", "", "Also store the mnemonic in the keystore under this name")
	return cmd
}

func newKeyImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import NAME",
		Short: "Encrypt a private key or mnemonic into the keystore",
		Long: `Import reads the credential from --key-file, SUISEND_KEY or a hidden prompt
and stores it encrypted under NAME. The password comes from SUISEND_PASSWORD
or a prompt.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := a.credentialInput()
			if err != nil {
				return err
			}
			opts, err := a.cfg.WalletOptions()
			if err != nil {
				return err
			}
			return a.importCredential(args[0], input, opts)
		},
	}
}

func (a *app) importCredential(name, input string, opts wallet.Options) error {
	ks, err := a.keystore()
	if err != nil {
		return err
	}
	pw, err := a.password(true)
	if err != nil {
		return err
	}
	entry, err := ks.Import(name, input, opts, pw, wallet.DefaultParams())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Stored %q (%s, %s): %s\n", entry.Name, entry.Format, entry.Scheme, entry.Address)
	return nil
}

func newKeyListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := a.keystore()
			if err != nil {
				return err
			}
			entries, err := ks.List()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(a.out, "No stored credentials.")
				return nil
			}
			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tADDRESS\tSCHEME\tFORMAT\tCREATED")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Name, e.Address, e.Scheme, e.Format, e.CreatedAt.Format("2006-01-02"))
			}
			return tw.Flush()
		},
	}
}

func newKeyShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show a stored credential's public details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := a.keystore()
			if err != nil {
				return err
			}
			e, err := ks.Info(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Name:    %s\n", e.Name)
			fmt.Fprintf(a.out, "Address: %s\n", e.Address)
			fmt.Fprintf(a.out, "Scheme:  %s\n", e.Scheme)
			fmt.Fprintf(a.out, "Format:  %s\n", e.Format)
			if e.Format == wallet.FormatMnemonic {
				fmt.Fprintf(a.out, "Account: %d\n", e.Account)
			}
			fmt.Fprintf(a.out, "Created: %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func newKeyExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export NAME",
		Short: "Print a stored key as a suiprivkey string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := a.keystore()
			if err != nil {
				return err
			}
			pw, err := a.password(false)
			if err != nil {
				return err
			}
			cred, err := ks.Load(args[0], pw)
			if err != nil {
				return err
			}
			defer cred.Zero()
			encoded, err := crypto.ExportPrivateKey(cred.Key)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, encoded)
			return nil
		},
	}
}

func newKeyRemoveCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove NAME",
		Short: "Delete a stored credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := a.keystore()
			if err != nil {
				return err
			}
			e, err := ks.Info(args[0])
			if err != nil {
				return err
			}
			if !yes && !a.confirm(fmt.Sprintf("Delete %q (%s)? This cannot be undone.", e.Name, e.Address)) {
				return errAborted
			}
			if err := ks.Delete(e.Name); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Removed %q\n", e.Name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
