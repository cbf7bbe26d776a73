package crypto

import (
	"fmt"

	"github.com/suisend/suisend/pkg/types"
)

// PrivateKeyHRP is the bech32 human-readable part of encoded private keys.
const PrivateKeyHRP = "suiprivkey"

// EncodePrivateKey renders a secret as bech32("suiprivkey", flag || secret).
func EncodePrivateKey(scheme Scheme, secret []byte) (string, error) {
	if len(secret) != SecretKeySize {
		return "", fmt.Errorf("private key must be %d bytes, got %d", SecretKeySize, len(secret))
	}
	payload := make([]byte, 0, 1+SecretKeySize)
	payload = append(payload, byte(scheme))
	payload = append(payload, secret...)
	return types.Bech32Encode(PrivateKeyHRP, payload)
}

// DecodePrivateKey parses a bech32 "suiprivkey1..." string.
func DecodePrivateKey(s string) (Scheme, []byte, error) {
	payload, err := types.Bech32DecodeHRP(s, PrivateKeyHRP)
	if err != nil {
		return 0, nil, fmt.Errorf("decode private key: %w", err)
	}
	if len(payload) != 1+SecretKeySize {
		return 0, nil, fmt.Errorf("decode private key: payload is %d bytes, want %d", len(payload), 1+SecretKeySize)
	}
	scheme := Scheme(payload[0])
	if !scheme.Supported() {
		return 0, nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
	}
	return scheme, payload[1:], nil
}

// ExportPrivateKey encodes a key in the suiprivkey format.
func ExportPrivateKey(k PrivateKey) (string, error) {
	return EncodePrivateKey(k.Scheme(), k.Serialize())
}
