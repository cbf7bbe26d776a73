package wallet

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Encryption constants.
const (
	SaltSize = 32
	// Sealed format: [salt(32)][memory(4)][iterations(4)][parallelism(1)][nonce(24)][ciphertext...]
	headerSize = SaltSize + 4 + 4 + 1

	// maxMemory bounds the Argon2 memory cost read back from a sealed blob.
	maxMemory = 1 << 20 // 1 GiB in KiB
)

// ErrDecrypt is returned when a sealed blob cannot be opened, most often
// because the password is wrong.
var ErrDecrypt = errors.New("decryption failed (wrong password?)")

// EncryptionParams holds Argon2id parameters.
type EncryptionParams struct {
	Memory      uint32 // in KiB
	Iterations  uint32
	Parallelism uint8
}

// DefaultParams returns recommended Argon2id parameters.
func DefaultParams() EncryptionParams {
	return EncryptionParams{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 4,
	}
}

func (p EncryptionParams) validate() error {
	if p.Memory == 0 || p.Memory > maxMemory {
		return fmt.Errorf("argon2 memory %d KiB out of range", p.Memory)
	}
	if p.Iterations == 0 || p.Parallelism == 0 {
		return fmt.Errorf("argon2 iterations and parallelism must be positive")
	}
	return nil
}

func deriveKey(password, salt []byte, params EncryptionParams) []byte {
	return argon2.IDKey(password, salt, params.Iterations, params.Memory, params.Parallelism, chacha20poly1305.KeySize)
}

// Encrypt seals data under password using Argon2id + XChaCha20-Poly1305.
// ad is authenticated but not encrypted; Decrypt must be given the same ad.
func Encrypt(data, password, ad []byte, params EncryptionParams) ([]byte, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	key := deriveKey(password, salt, params)
	defer wipe(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, headerSize+len(nonce)+len(data)+aead.Overhead())
	out = append(out, salt...)
	out = binary.LittleEndian.AppendUint32(out, params.Memory)
	out = binary.LittleEndian.AppendUint32(out, params.Iterations)
	out = append(out, params.Parallelism)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, data, ad), nil
}

// Decrypt opens a blob produced by Encrypt.
func Decrypt(sealed, password, ad []byte) ([]byte, error) {
	nonceSize := chacha20poly1305.NonceSizeX
	minSize := headerSize + nonceSize + chacha20poly1305.Overhead
	if len(sealed) < minSize {
		return nil, fmt.Errorf("encrypted data too short: %d bytes, need at least %d", len(sealed), minSize)
	}

	salt := sealed[:SaltSize]
	params := EncryptionParams{
		Memory:      binary.LittleEndian.Uint32(sealed[SaltSize:]),
		Iterations:  binary.LittleEndian.Uint32(sealed[SaltSize+4:]),
		Parallelism: sealed[SaltSize+8],
	}
	if err := params.validate(); err != nil {
		return nil, fmt.Errorf("corrupt header: %w", err)
	}
	nonce := sealed[headerSize : headerSize+nonceSize]
	ciphertext := sealed[headerSize+nonceSize:]

	key := deriveKey(password, salt, params)
	defer wipe(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, ad)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}
