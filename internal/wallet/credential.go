package wallet

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/suisend/suisend/internal/log"
	"github.com/suisend/suisend/pkg/crypto"
	"github.com/suisend/suisend/pkg/types"
)

// Credential errors.
var (
	ErrEmptyCredential = errors.New("private key or mnemonic must not be empty")
	ErrInvalidMnemonic = errors.New("invalid mnemonic phrase")
)

// MnemonicFallbackWarning is reported when a credential matched none of the
// key encodings and is being treated as a mnemonic phrase.
const MnemonicFallbackWarning = "format not recognised specifically, trying as mnemonic phrase"

// Format identifies which credential encoding matched.
type Format string

// Credential formats, in detection order.
const (
	FormatSuiPrivKey Format = "suiprivkey"
	FormatHex        Format = "hex"
	FormatBase64     Format = "base64"
	FormatKeystore   Format = "keystore"
	FormatMnemonic   Format = "mnemonic"
)

var base64KeyPattern = regexp.MustCompile(`^[A-Za-z0-9+/=]{44}$`)

// Options control mnemonic derivation. Key encodings carry their own scheme.
// The zero value selects Ed25519 account 0.
type Options struct {
	Scheme  crypto.Scheme
	Account uint32
}

// Credential is a parsed credential string and the key it resolves to.
type Credential struct {
	Format Format
	Key    crypto.PrivateKey
	// Path is the derivation path; empty unless Format is FormatMnemonic.
	Path string
}

// Address returns the account address controlled by the credential.
func (c *Credential) Address() types.Address {
	return crypto.Address(c.Key)
}

// Scheme returns the signature scheme of the resolved key.
func (c *Credential) Scheme() crypto.Scheme {
	return c.Key.Scheme()
}

// Zero wipes the key material.
func (c *Credential) Zero() {
	if c.Key != nil {
		c.Key.Zero()
	}
}

// ParseCredential parses input with default options (Ed25519, account 0).
func ParseCredential(input string) (*Credential, error) {
	return ParseCredentialWith(input, Options{})
}

// ParseCredentialWith detects the encoding of input and resolves the key.
// Detection order: suiprivkey bech32, 32-byte hex, 44-char base64, mnemonic.
// Inputs that look like hex or base64 but decode to the wrong length fall
// through to the next format.
func ParseCredentialWith(input string, opts Options) (*Credential, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyCredential
	}

	if strings.HasPrefix(input, crypto.PrivateKeyHRP) {
		scheme, secret, err := crypto.DecodePrivateKey(input)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", FormatSuiPrivKey, err)
		}
		defer wipe(secret)
		return newCredential(FormatSuiPrivKey, scheme, secret)
	}

	if secret, ok := decodeHexKey(input); ok {
		defer wipe(secret)
		return newCredential(FormatHex, crypto.SchemeEd25519, secret)
	}

	if base64KeyPattern.MatchString(input) {
		raw, err := base64.StdEncoding.DecodeString(input)
		if err == nil {
			defer wipe(raw)
			switch {
			case len(raw) == crypto.SecretKeySize:
				return newCredential(FormatBase64, crypto.SchemeEd25519, raw)
			case len(raw) == crypto.SecretKeySize+1 && crypto.Scheme(raw[0]).Supported():
				return newCredential(FormatKeystore, crypto.Scheme(raw[0]), raw[1:])
			}
		}
	}

	log.Wallet.Warn().Msg(MnemonicFallbackWarning)

	if !ValidateMnemonic(input) {
		return nil, ErrInvalidMnemonic
	}
	key, path, err := DeriveKey(input, opts.Scheme, opts.Account)
	if err != nil {
		return nil, err
	}
	return &Credential{Format: FormatMnemonic, Key: key, Path: path}, nil
}

func decodeHexKey(s string) ([]byte, bool) {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != 2*crypto.SecretKeySize {
		return nil, false
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, false
	}
	return b, true
}

func newCredential(format Format, scheme crypto.Scheme, secret []byte) (*Credential, error) {
	key, err := crypto.PrivateKeyFromBytes(scheme, secret)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	return &Credential{Format: format, Key: key}, nil
}
