package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/suisend/suisend/pkg/types"
)

// SecretKeySize is the length of a raw private key for every supported scheme.
const SecretKeySize = 32

// Scheme is the one-byte signature scheme flag that prefixes public keys,
// serialized signatures and encoded private keys.
type Scheme byte

const (
	SchemeEd25519   Scheme = 0x00
	SchemeSecp256k1 Scheme = 0x01
	SchemeSecp256r1 Scheme = 0x02
)

// ErrUnsupportedScheme is returned for flags this tool cannot sign with.
var ErrUnsupportedScheme = errors.New("unsupported signature scheme")

// String returns the scheme name.
func (s Scheme) String() string {
	switch s {
	case SchemeEd25519:
		return "ed25519"
	case SchemeSecp256k1:
		return "secp256k1"
	case SchemeSecp256r1:
		return "secp256r1"
	default:
		return fmt.Sprintf("scheme(0x%02x)", byte(s))
	}
}

// Supported reports whether keys of this scheme can be loaded and used.
func (s Scheme) Supported() bool {
	return s == SchemeEd25519 || s == SchemeSecp256k1
}

// ParseScheme converts a scheme name to a Scheme.
func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ed25519":
		return SchemeEd25519, nil
	case "secp256k1":
		return SchemeSecp256k1, nil
	case "secp256r1":
		return 0, fmt.Errorf("%w: secp256r1", ErrUnsupportedScheme)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedScheme, name)
	}
}

// Signer signs messages on behalf of an account.
type Signer interface {
	// Scheme returns the signature scheme flag.
	Scheme() Scheme
	// PublicKey returns the scheme's canonical public key encoding.
	PublicKey() []byte
	// Sign signs an arbitrary message (for transactions, the intent digest).
	Sign(msg []byte) ([]byte, error)
}

// PrivateKey is a Signer that also exposes its secret.
type PrivateKey interface {
	Signer
	// Serialize returns the 32-byte secret.
	Serialize() []byte
	// Zero wipes the secret from memory.
	Zero()
}

// Address derives the account address of a signer.
func Address(s Signer) types.Address {
	return AddressFromPubKey(s.Scheme(), s.PublicKey())
}

// PrivateKeyFromBytes creates a key for the given scheme from a 32-byte secret.
func PrivateKeyFromBytes(scheme Scheme, b []byte) (PrivateKey, error) {
	if len(b) != SecretKeySize {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", SecretKeySize, len(b))
	}
	switch scheme {
	case SchemeEd25519:
		return &Ed25519Key{key: ed25519.NewKeyFromSeed(b)}, nil
	case SchemeSecp256k1:
		return &Secp256k1Key{key: secp256k1.PrivKeyFromBytes(b)}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
	}
}

// GenerateKey creates a new random key for the given scheme.
func GenerateKey(scheme Scheme) (PrivateKey, error) {
	switch scheme {
	case SchemeEd25519:
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("generate key: %w", err)
		}
		return &Ed25519Key{key: priv}, nil
	case SchemeSecp256k1:
		key, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			return nil, fmt.Errorf("generate key: %w", err)
		}
		return &Secp256k1Key{key: key}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
	}
}

// Ed25519Key is an Ed25519 private key.
type Ed25519Key struct {
	key ed25519.PrivateKey
}

// Scheme returns SchemeEd25519.
func (k *Ed25519Key) Scheme() Scheme { return SchemeEd25519 }

// PublicKey returns the 32-byte public key.
func (k *Ed25519Key) PublicKey() []byte {
	pub := k.key.Public().(ed25519.PublicKey)
	out := make([]byte, len(pub))
	copy(out, pub)
	return out
}

// Sign produces a 64-byte Ed25519 signature over msg.
func (k *Ed25519Key) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(k.key, msg), nil
}

// Serialize returns the 32-byte seed.
func (k *Ed25519Key) Serialize() []byte {
	return append([]byte(nil), k.key.Seed()...)
}

// Zero wipes the key material.
func (k *Ed25519Key) Zero() {
	for i := range k.key {
		k.key[i] = 0
	}
}

// Secp256k1Key is a secp256k1 private key.
type Secp256k1Key struct {
	key *secp256k1.PrivateKey
}

// Scheme returns SchemeSecp256k1.
func (k *Secp256k1Key) Scheme() Scheme { return SchemeSecp256k1 }

// PublicKey returns the compressed 33-byte public key.
func (k *Secp256k1Key) PublicKey() []byte {
	return k.key.PubKey().SerializeCompressed()
}

// Sign produces a 64-byte r||s ECDSA signature over SHA-256(msg) with low S.
func (k *Secp256k1Key) Sign(msg []byte) ([]byte, error) {
	h := sha256.Sum256(msg)
	// Compact form is [recovery][R(32)][S(32)]; S is already canonical.
	compact := ecdsa.SignCompact(k.key, h[:], true)
	if len(compact) != 65 {
		return nil, fmt.Errorf("ecdsa sign: unexpected signature length %d", len(compact))
	}
	return compact[1:], nil
}

// Serialize returns the 32-byte private scalar.
func (k *Secp256k1Key) Serialize() []byte {
	return k.key.Serialize()
}

// Zero wipes the key material.
func (k *Secp256k1Key) Zero() {
	k.key.Zero()
}

// VerifySignature checks a signature produced by a Signer of the given
// scheme. Returns false on any error.
func VerifySignature(scheme Scheme, msg, sig, pubKey []byte) bool {
	switch scheme {
	case SchemeEd25519:
		if len(pubKey) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
			return false
		}
		return ed25519.Verify(pubKey, msg, sig)
	case SchemeSecp256k1:
		if len(sig) != 64 {
			return false
		}
		pub, err := secp256k1.ParsePubKey(pubKey)
		if err != nil {
			return false
		}
		var r, s secp256k1.ModNScalar
		if r.SetByteSlice(sig[:32]) || s.SetByteSlice(sig[32:]) {
			return false
		}
		h := sha256.Sum256(msg)
		return ecdsa.NewSignature(&r, &s).Verify(h[:], pub)
	default:
		return false
	}
}
