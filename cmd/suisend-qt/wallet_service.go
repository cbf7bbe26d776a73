package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/suisend/suisend/internal/log"
	"github.com/suisend/suisend/internal/transfer"
	"github.com/suisend/suisend/internal/wallet"
)

// WalletService connects a credential to the session and reports its state.
type WalletService struct {
	app *App
}

// Connect parses a pasted credential and loads its balance. Progress and
// errors also go to the activity log.
func (w *WalletService) Connect(credential string) (*transfer.Status, error) {
	sess, err := w.app.session()
	if err != nil {
		return nil, err
	}
	if err := sess.Connect(w.app.context(), credential); err != nil {
		return nil, err
	}
	st := sess.Status()
	return &st, nil
}

// ConnectStored decrypts a keystore entry and connects it.
func (w *WalletService) ConnectStored(name, password string) (*transfer.Status, error) {
	sess, err := w.app.session()
	if err != nil {
		return nil, err
	}
	ks, err := w.keystore()
	if err != nil {
		return nil, err
	}
	cred, err := ks.Load(name, []byte(password))
	if err != nil {
		sess.Log().Error("failed to unlock %q: %v", name, err)
		return nil, err
	}
	if err := sess.ConnectCredential(w.app.context(), cred); err != nil {
		if errors.Is(err, transfer.ErrBusy) {
			cred.Zero()
		}
		return nil, err
	}
	st := sess.Status()
	return &st, nil
}

// Disconnect forgets the current credential.
func (w *WalletService) Disconnect() {
	if sess, err := w.app.session(); err == nil {
		sess.Disconnect()
	}
}

// Status returns the session snapshot.
func (w *WalletService) Status() (*transfer.Status, error) {
	sess, err := w.app.session()
	if err != nil {
		return nil, err
	}
	st := sess.Status()
	return &st, nil
}

// RefreshBalance reloads the balance from the node.
func (w *WalletService) RefreshBalance() (*transfer.Status, error) {
	sess, err := w.app.session()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(w.app.context(), w.app.rpcTimeout())
	defer cancel()
	if _, err := sess.RefreshBalance(ctx); err != nil {
		sess.Log().Error("failed to load balance: %v", err)
		return nil, err
	}
	st := sess.Status()
	return &st, nil
}

// ListKeys returns the keystore entries.
func (w *WalletService) ListKeys() ([]wallet.Entry, error) {
	ks, err := w.keystore()
	if err != nil {
		return nil, err
	}
	return ks.List()
}

// ImportKey encrypts a credential into the keystore under name.
func (w *WalletService) ImportKey(name, credential, password string) (*wallet.Entry, error) {
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}
	ks, err := w.keystore()
	if err != nil {
		return nil, err
	}
	opts, err := w.app.walletOptions()
	if err != nil {
		return nil, err
	}
	e, err := ks.Import(name, credential, opts, []byte(password), wallet.DefaultParams())
	if err != nil {
		return nil, err
	}
	log.Wallet.Info().Str("name", e.Name).Str("address", e.Address).Msg("Credential imported")
	return e, nil
}

// RemoveKey deletes a keystore entry.
func (w *WalletService) RemoveKey(name string) error {
	ks, err := w.keystore()
	if err != nil {
		return err
	}
	return ks.Delete(name)
}

func (w *WalletService) keystore() (*wallet.Keystore, error) {
	w.app.mu.RLock()
	cfg := w.app.cfg
	w.app.mu.RUnlock()
	if cfg == nil {
		return nil, errNotReady
	}
	return wallet.NewKeystore(cfg.KeystoreDir())
}
