package types

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestBech32_Roundtrip(t *testing.T) {
	// flag byte + 32-byte secret, the shape of an encoded private key.
	data := make([]byte, 33)
	for i := range data {
		data[i] = byte(i * 7)
	}

	encoded, err := Bech32Encode("suiprivkey", data)
	if err != nil {
		t.Fatalf("Bech32Encode: %v", err)
	}
	if !strings.HasPrefix(encoded, "suiprivkey1") {
		t.Errorf("encoded = %q, want suiprivkey1 prefix", encoded)
	}

	hrp, decoded, err := Bech32Decode(encoded)
	if err != nil {
		t.Fatalf("Bech32Decode: %v", err)
	}
	if hrp != "suiprivkey" {
		t.Errorf("HRP = %q, want %q", hrp, "suiprivkey")
	}
	if !bytes.Equal(decoded, data) {
		t.Errorf("decoded = %x, want %x", decoded, data)
	}
}

func TestBech32Decode_BIP173Vectors(t *testing.T) {
	for _, s := range []string{"A12UEL5L", "a12uel5l"} {
		hrp, data, err := Bech32Decode(s)
		if err != nil {
			t.Fatalf("Bech32Decode(%q): %v", s, err)
		}
		if hrp != "a" {
			t.Errorf("Bech32Decode(%q) hrp = %q, want %q", s, hrp, "a")
		}
		if len(data) != 0 {
			t.Errorf("Bech32Decode(%q) data = %x, want empty", s, data)
		}
	}
}

func TestBech32Decode_InvalidChecksum(t *testing.T) {
	encoded, err := Bech32Encode("suiprivkey", make([]byte, 33))
	if err != nil {
		t.Fatalf("Bech32Encode: %v", err)
	}

	corrupted := encoded[:len(encoded)-1] + "q"
	if corrupted == encoded {
		corrupted = encoded[:len(encoded)-1] + "p"
	}

	_, _, err = Bech32Decode(corrupted)
	if !errors.Is(err, ErrBech32Checksum) {
		t.Errorf("err = %v, want ErrBech32Checksum", err)
	}
}

func TestBech32Decode_InvalidChars(t *testing.T) {
	if _, _, err := Bech32Decode("suiprivkey1b!!invalid"); err == nil {
		t.Error("expected error for invalid characters")
	}
}

func TestBech32Decode_MixedCase(t *testing.T) {
	encoded, err := Bech32Encode("suiprivkey", make([]byte, 33))
	if err != nil {
		t.Fatalf("Bech32Encode: %v", err)
	}
	mixed := strings.ToUpper(encoded[:3]) + encoded[3:]

	if _, _, err := Bech32Decode(mixed); err == nil {
		t.Error("expected error for mixed case")
	}
}

func TestBech32Encode_EmptyHRP(t *testing.T) {
	if _, err := Bech32Encode("", []byte{0x01}); err == nil {
		t.Error("expected error for empty HRP")
	}
}

func TestBech32Decode_Empty(t *testing.T) {
	if _, _, err := Bech32Decode(""); err == nil {
		t.Error("expected error for empty string")
	}
}

func TestBech32DecodeHRP(t *testing.T) {
	data := []byte{0x00, 0xab, 0xcd}
	enc, err := Bech32Encode("other", data)
	if err != nil {
		t.Fatalf("Bech32Encode: %v", err)
	}

	if _, err := Bech32DecodeHRP(enc, "suiprivkey"); !errors.Is(err, ErrBech32HRP) {
		t.Errorf("err = %v, want ErrBech32HRP", err)
	}

	got, err := Bech32DecodeHRP(enc, "other")
	if err != nil {
		t.Fatalf("Bech32DecodeHRP: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("data = %x, want %x", got, data)
	}
}
