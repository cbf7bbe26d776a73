package wallet

import (
	"crypto/ed25519"
	"fmt"

	slip10 "github.com/anyproto/go-slip10"
	"github.com/tyler-smith/go-bip32"

	"github.com/suisend/suisend/pkg/crypto"
)

// Derivation path constants. Sui registers coin type 784.
const (
	// PurposeEd25519 is the BIP-44 purpose used for Ed25519 accounts.
	PurposeEd25519 = 44

	// PurposeSecp256k1 is the BIP-54 purpose used for Secp256k1 accounts.
	PurposeSecp256k1 = 54

	// CoinTypeSui is the SLIP-44 coin type for Sui.
	CoinTypeSui = 784
)

// DerivationPath returns the default path for account under scheme.
//
//	Ed25519:   m/44'/784'/{account}'/0'/0'  (SLIP-0010, all hardened)
//	Secp256k1: m/54'/784'/{account}'/0/0    (BIP-32)
func DerivationPath(scheme crypto.Scheme, account uint32) (string, error) {
	switch scheme {
	case crypto.SchemeEd25519:
		return fmt.Sprintf("m/%d'/%d'/%d'/0'/0'", PurposeEd25519, CoinTypeSui, account), nil
	case crypto.SchemeSecp256k1:
		return fmt.Sprintf("m/%d'/%d'/%d'/0/0", PurposeSecp256k1, CoinTypeSui, account), nil
	default:
		return "", fmt.Errorf("%w: %s", crypto.ErrUnsupportedScheme, scheme)
	}
}

// DeriveKey derives the signing key for account from a BIP-39 mnemonic.
func DeriveKey(mnemonic string, scheme crypto.Scheme, account uint32) (crypto.PrivateKey, string, error) {
	path, err := DerivationPath(scheme, account)
	if err != nil {
		return nil, "", err
	}
	seed, err := SeedFromMnemonic(mnemonic, "")
	if err != nil {
		return nil, "", err
	}
	defer wipe(seed)

	var secret []byte
	switch scheme {
	case crypto.SchemeEd25519:
		secret, err = deriveEd25519(seed, path)
	case crypto.SchemeSecp256k1:
		secret, err = deriveSecp256k1(seed, account)
	}
	if err != nil {
		return nil, "", err
	}
	defer wipe(secret)

	key, err := crypto.PrivateKeyFromBytes(scheme, secret)
	if err != nil {
		return nil, "", err
	}
	return key, path, nil
}

// deriveEd25519 walks a hardened SLIP-0010 path and returns the 32-byte
// Ed25519 seed of the final node.
func deriveEd25519(seed []byte, path string) ([]byte, error) {
	node, err := slip10.DeriveForPath(path, seed)
	if err != nil {
		return nil, fmt.Errorf("derive %s: %w", path, err)
	}
	_, priv := node.Keypair()
	secret := ed25519.PrivateKey(priv).Seed()
	wipe(priv)
	return secret, nil
}

// deriveSecp256k1 walks m/54'/784'/account'/0/0 with BIP-32.
func deriveSecp256k1(seed []byte, account uint32) ([]byte, error) {
	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	indices := []uint32{
		bip32.FirstHardenedChild + PurposeSecp256k1,
		bip32.FirstHardenedChild + CoinTypeSui,
		bip32.FirstHardenedChild + account,
		0,
		0,
	}
	for _, idx := range indices {
		key, err = key.NewChildKey(idx)
		if err != nil {
			return nil, fmt.Errorf("derive child %d: %w", idx, err)
		}
	}
	// bip32 private keys may carry a leading 0x00 pad byte.
	raw := key.Key
	if len(raw) == crypto.SecretKeySize+1 && raw[0] == 0 {
		raw = raw[1:]
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
