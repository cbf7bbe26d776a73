package wallet

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestGenerateMnemonic(t *testing.T) {
	m1, err := GenerateMnemonic()
	if err != nil {
		t.Fatalf("GenerateMnemonic() error: %v", err)
	}
	m2, err := GenerateMnemonic()
	if err != nil {
		t.Fatalf("GenerateMnemonic() error: %v", err)
	}

	if n := len(strings.Fields(m1)); n != 24 {
		t.Errorf("word count = %d, want 24", n)
	}
	if !ValidateMnemonic(m1) {
		t.Error("generated mnemonic should validate")
	}
	if m1 == m2 {
		t.Error("two generated mnemonics should not be identical")
	}
}

func TestNormalizeMnemonic(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abandon about", "abandon about"},
		{"  Abandon   ABOUT \n", "abandon about"},
		{"abandon\n\tabout", "abandon about"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeMnemonic(tt.in); got != tt.want {
			t.Errorf("NormalizeMnemonic(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateMnemonic(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		valid    bool
	}{
		{"valid 12 words", testMnemonic, true},
		{"valid 24 words", strings.Repeat("abandon ", 23) + "art", true},
		{"mixed case and newlines", strings.ToUpper(strings.Replace(testMnemonic, " ", "\n", 3)), true},
		{"empty", "", false},
		{"random words", "not a valid mnemonic phrase at all", false},
		{"wrong checksum", strings.TrimSpace(strings.Repeat("abandon ", 24)), false},
		{"single word", "abandon", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateMnemonic(tt.mnemonic); got != tt.valid {
				t.Errorf("ValidateMnemonic() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestSeedFromMnemonic_KnownVector(t *testing.T) {
	// BIP-39 reference vector with passphrase "TREZOR".
	seed, err := SeedFromMnemonic(testMnemonic, "TREZOR")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	want, _ := hex.DecodeString("c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04")
	if !bytes.Equal(seed, want) {
		t.Errorf("seed = %x, want %x", seed, want)
	}
	if len(seed) != SeedSize {
		t.Errorf("seed length = %d, want %d", len(seed), SeedSize)
	}
}

func TestSeedFromMnemonic_Normalizes(t *testing.T) {
	a, err := SeedFromMnemonic(testMnemonic, "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	b, err := SeedFromMnemonic("  ABANDON abandon abandon abandon abandon abandon\nabandon abandon abandon abandon abandon about ", "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("normalized phrase should produce the same seed")
	}

	c, _ := SeedFromMnemonic(testMnemonic, "my passphrase")
	if bytes.Equal(a, c) {
		t.Error("different passphrases should produce different seeds")
	}
}

func TestSeedFromMnemonic_Invalid(t *testing.T) {
	for _, m := range []string{"", "not valid words here"} {
		if _, err := SeedFromMnemonic(m, ""); !errors.Is(err, ErrInvalidMnemonic) {
			t.Errorf("SeedFromMnemonic(%q) err = %v, want ErrInvalidMnemonic", m, err)
		}
	}
}
