// Package types defines core primitive types shared by suisend packages.
package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"
)

// HashSize is the length of a hash in bytes.
const HashSize = 32

// Hash represents a 256-bit BLAKE2b digest.
type Hash [HashSize]byte

// IsZero returns true if the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String returns the hex-encoded hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns a copy of the hash as a byte slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashSize)
	copy(b, h[:])
	return b
}

// Digest is a transaction or object digest. The node renders digests as
// base58 strings.
type Digest Hash

// String returns the base58-encoded digest.
func (d Digest) String() string {
	return base58.Encode(d[:])
}

// IsZero returns true if the digest is all zeros.
func (d Digest) IsZero() bool {
	return Hash(d).IsZero()
}

// MarshalJSON encodes the digest as a base58 string.
func (d Digest) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a base58 string into a digest.
func (d *Digest) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Digest{}
		return nil
	}
	parsed, err := ParseDigest(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDigest decodes a base58 digest string.
func ParseDigest(s string) (Digest, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Digest{}, fmt.Errorf("invalid digest: %w", err)
	}
	if len(b) != HashSize {
		return Digest{}, fmt.Errorf("digest must be %d bytes, got %d", HashSize, len(b))
	}
	var d Digest
	copy(d[:], b)
	return d, nil
}
