package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/suisend/suisend/internal/transfer"
	"github.com/suisend/suisend/internal/wallet"
)

// Environment variables read by the CLI.
const (
	envKey      = "SUISEND_KEY"
	envPassword = "SUISEND_PASSWORD"
)

var errNoTerminal = errors.New("stdin is not a terminal")

func readPassword(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errNoTerminal
	}
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

// credentialInput returns the raw credential string from --key-file,
// SUISEND_KEY or a hidden prompt, in that order.
func (a *app) credentialInput() (string, error) {
	if a.keyFile != "" {
		data, err := os.ReadFile(a.keyFile)
		if err != nil {
			return "", fmt.Errorf("read key file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	if v := a.getenv(envKey); v != "" {
		return v, nil
	}
	secret, err := a.readSecret("Private key or mnemonic: ")
	if errors.Is(err, errNoTerminal) {
		return "", fmt.Errorf("no credential given: use --wallet, --key-file or %s", envKey)
	}
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

// password returns SUISEND_PASSWORD or prompts for it. With confirm set the
// prompt asks twice.
func (a *app) password(confirm bool) ([]byte, error) {
	if v := a.getenv(envPassword); v != "" {
		return []byte(v), nil
	}
	pw, err := a.readSecret("Password: ")
	if errors.Is(err, errNoTerminal) {
		return nil, fmt.Errorf("no password given: set %s or run interactively", envPassword)
	}
	if err != nil {
		return nil, err
	}
	if !confirm {
		return pw, nil
	}
	again, err := a.readSecret("Confirm password: ")
	if err != nil {
		return nil, err
	}
	if string(pw) != string(again) {
		return nil, errors.New("passwords do not match")
	}
	return pw, nil
}

func (a *app) keystore() (*wallet.Keystore, error) {
	return wallet.NewKeystore(a.cfg.KeystoreDir())
}

// credential resolves the wallet the command should act for.
func (a *app) credential() (*wallet.Credential, error) {
	if a.walletName != "" {
		ks, err := a.keystore()
		if err != nil {
			return nil, err
		}
		pw, err := a.password(false)
		if err != nil {
			return nil, err
		}
		return ks.Load(a.walletName, pw)
	}

	input, err := a.credentialInput()
	if err != nil {
		return nil, err
	}
	opts, err := a.cfg.WalletOptions()
	if err != nil {
		return nil, err
	}
	return wallet.ParseCredentialWith(input, opts)
}

// connect loads the wallet into sess. Connection progress and failures go to
// the session's activity log.
func (a *app) connect(ctx context.Context, sess *transfer.Session) error {
	if a.walletName != "" {
		cred, err := a.credential()
		if err != nil {
			return err
		}
		return reported(sess.ConnectCredential(ctx, cred))
	}
	input, err := a.credentialInput()
	if err != nil {
		return err
	}
	return reported(sess.Connect(ctx, input))
}

// confirm asks a yes/no question on the command input.
func (a *app) confirm(question string) bool {
	fmt.Fprintf(a.out, "%s [y/N] ", question)
	line, _ := bufio.NewReader(a.in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
