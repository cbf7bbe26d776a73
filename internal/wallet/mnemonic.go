// Package wallet turns user credentials into Sui signing keys and keeps
// named credentials encrypted on disk.
package wallet

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

const (
	// MnemonicEntropyBits is the entropy size for 24-word mnemonics.
	MnemonicEntropyBits = 256
	// SeedSize is the BIP-39 seed length in bytes.
	SeedSize = 64
)

// GenerateMnemonic creates a new 24-word BIP-39 mnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// NormalizeMnemonic lowercases a phrase and collapses runs of whitespace
// (including newlines pasted from a text area) into single spaces.
func NormalizeMnemonic(phrase string) string {
	return strings.ToLower(strings.Join(strings.Fields(phrase), " "))
}

// ValidateMnemonic checks if a mnemonic is valid per BIP-39
// (correct word count, valid words, valid checksum) after normalization.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(NormalizeMnemonic(mnemonic))
}

// SeedFromMnemonic normalizes and validates the phrase, then stretches it
// into a BIP-39 seed (PBKDF2-SHA512 with "mnemonic"+passphrase as salt).
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	mnemonic = NormalizeMnemonic(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("derive seed: %w", err)
	}
	return seed, nil
}
