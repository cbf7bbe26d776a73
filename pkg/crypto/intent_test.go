package crypto

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestIntentMessage(t *testing.T) {
	got := IntentMessage(TransactionIntent, []byte{0xaa, 0xbb})
	want := []byte{0, 0, 0, 0xaa, 0xbb}
	if !bytes.Equal(got, want) {
		t.Errorf("IntentMessage = %x, want %x", got, want)
	}
}

func TestSignTransaction_Roundtrip(t *testing.T) {
	txBytes := []byte("fake bcs transaction data")

	for _, scheme := range []Scheme{SchemeEd25519, SchemeSecp256k1} {
		t.Run(scheme.String(), func(t *testing.T) {
			key, err := GenerateKey(scheme)
			if err != nil {
				t.Fatalf("GenerateKey: %v", err)
			}

			serialized, err := SignTransaction(key, txBytes)
			if err != nil {
				t.Fatalf("SignTransaction: %v", err)
			}

			gotScheme, sig, pub, err := ParseSerializedSignature(serialized)
			if err != nil {
				t.Fatalf("ParseSerializedSignature: %v", err)
			}
			if gotScheme != scheme {
				t.Errorf("scheme = %s, want %s", gotScheme, scheme)
			}
			if len(sig) != 64 {
				t.Errorf("sig length = %d", len(sig))
			}
			if !bytes.Equal(pub, key.PublicKey()) {
				t.Error("embedded public key mismatch")
			}

			if err := VerifyTransaction(txBytes, serialized); err != nil {
				t.Errorf("VerifyTransaction: %v", err)
			}
			if err := VerifyTransaction([]byte("other tx"), serialized); err == nil {
				t.Error("VerifyTransaction should fail for different bytes")
			}
		})
	}
}

func TestParseSerializedSignature_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not base64", "!!!"},
		{"empty", ""},
		{"unknown flag", base64.StdEncoding.EncodeToString(append([]byte{0x09}, make([]byte, 96)...))},
		{"short ed25519", base64.StdEncoding.EncodeToString(append([]byte{0x00}, make([]byte, 90)...))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := ParseSerializedSignature(tt.input); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEncodeDecodePrivateKey(t *testing.T) {
	for _, scheme := range []Scheme{SchemeEd25519, SchemeSecp256k1} {
		key, err := GenerateKey(scheme)
		if err != nil {
			t.Fatalf("GenerateKey: %v", err)
		}
		encoded, err := ExportPrivateKey(key)
		if err != nil {
			t.Fatalf("ExportPrivateKey: %v", err)
		}
		if !strings.HasPrefix(encoded, "suiprivkey1") {
			t.Errorf("encoded = %q", encoded)
		}

		gotScheme, secret, err := DecodePrivateKey(encoded)
		if err != nil {
			t.Fatalf("DecodePrivateKey: %v", err)
		}
		if gotScheme != scheme {
			t.Errorf("scheme = %s, want %s", gotScheme, scheme)
		}
		if !bytes.Equal(secret, key.Serialize()) {
			t.Error("secret mismatch")
		}
	}
}

func TestDecodePrivateKey_Rejects(t *testing.T) {
	r1, err := EncodePrivateKey(SchemeSecp256r1, make([]byte, 32))
	if err != nil {
		t.Fatalf("EncodePrivateKey: %v", err)
	}
	if _, _, err := DecodePrivateKey(r1); !errors.Is(err, ErrUnsupportedScheme) {
		t.Errorf("secp256r1: err = %v, want ErrUnsupportedScheme", err)
	}

	if _, _, err := DecodePrivateKey("suiprivkey1qqqqqq"); err == nil {
		t.Error("expected error for truncated key")
	}
	if _, err := EncodePrivateKey(SchemeEd25519, make([]byte, 31)); err == nil {
		t.Error("expected error for short secret")
	}
}
