package wallet

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// fastParams returns low-cost Argon2 params for fast tests.
func fastParams() EncryptionParams {
	return EncryptionParams{Memory: 64, Iterations: 1, Parallelism: 1}
}

func TestEncryptDecrypt_Roundtrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"credential", []byte("suiprivkey1qzdlfxn2qa2lj5uprl8pyhexs02sg2wrhdy7qaq50cqgnffw4c2477kg9h3")},
		{"empty", []byte{}},
		{"large", bytes.Repeat([]byte{0xab}, 10000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := Encrypt(tt.data, []byte("pw"), []byte("main"), fastParams())
			if err != nil {
				t.Fatalf("Encrypt() error: %v", err)
			}
			if len(sealed) != headerSize+24+len(tt.data)+16 {
				t.Errorf("sealed length = %d", len(sealed))
			}
			got, err := Decrypt(sealed, []byte("pw"), []byte("main"))
			if err != nil {
				t.Fatalf("Decrypt() error: %v", err)
			}
			if !bytes.Equal(got, tt.data) {
				t.Error("roundtrip mismatch")
			}
		})
	}
}

func TestDecrypt_Failures(t *testing.T) {
	sealed, err := Encrypt([]byte("secret"), []byte("correct"), []byte("main"), fastParams())
	if err != nil {
		t.Fatalf("Encrypt() error: %v", err)
	}

	if _, err := Decrypt(sealed, []byte("wrong"), []byte("main")); !errors.Is(err, ErrDecrypt) {
		t.Errorf("wrong password: err = %v, want ErrDecrypt", err)
	}
	if _, err := Decrypt(sealed, []byte("correct"), []byte("other")); !errors.Is(err, ErrDecrypt) {
		t.Errorf("wrong associated data: err = %v, want ErrDecrypt", err)
	}

	corrupt := append([]byte(nil), sealed...)
	corrupt[len(corrupt)-1] ^= 0xff
	if _, err := Decrypt(corrupt, []byte("correct"), []byte("main")); !errors.Is(err, ErrDecrypt) {
		t.Errorf("corrupt tag: err = %v, want ErrDecrypt", err)
	}

	if _, err := Decrypt([]byte("too short"), []byte("correct"), nil); err == nil {
		t.Error("truncated data should fail")
	}

	huge := append([]byte(nil), sealed...)
	binary.LittleEndian.PutUint32(huge[SaltSize:], maxMemory+1)
	if _, err := Decrypt(huge, []byte("correct"), []byte("main")); err == nil || errors.Is(err, ErrDecrypt) {
		t.Errorf("oversized memory cost: err = %v, want header error", err)
	}
}

func TestEncrypt_RandomizedOutput(t *testing.T) {
	a, _ := Encrypt([]byte("same"), []byte("pw"), nil, fastParams())
	b, _ := Encrypt([]byte("same"), []byte("pw"), nil, fastParams())
	if bytes.Equal(a, b) {
		t.Error("salt and nonce should randomize output")
	}
}

func TestEncrypt_RejectsBadParams(t *testing.T) {
	if _, err := Encrypt([]byte("x"), []byte("pw"), nil, EncryptionParams{}); err == nil {
		t.Error("zero params should be rejected")
	}
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if p.Memory != 64*1024 || p.Iterations != 3 || p.Parallelism != 4 {
		t.Errorf("DefaultParams() = %+v", p)
	}
}
