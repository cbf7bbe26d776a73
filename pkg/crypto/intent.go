package crypto

import (
	"encoding/base64"
	"fmt"
)

// Intent is the 3-byte domain separator prepended to signed payloads:
// scope, version, app id.
type Intent [3]byte

// TransactionIntent is the intent for signing transaction data.
var TransactionIntent = Intent{0, 0, 0}

// PersonalMessageIntent is the intent for signing personal messages.
var PersonalMessageIntent = Intent{3, 0, 0}

// IntentMessage prepends the intent to the payload.
func IntentMessage(intent Intent, payload []byte) []byte {
	msg := make([]byte, 0, len(intent)+len(payload))
	msg = append(msg, intent[:]...)
	return append(msg, payload...)
}

// SignTransaction signs BCS transaction bytes and returns the base64
// serialized signature (flag || signature || public key) expected by the node.
func SignTransaction(s Signer, txBytes []byte) (string, error) {
	digest := Hash(IntentMessage(TransactionIntent, txBytes))
	sig, err := s.Sign(digest[:])
	if err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(SerializeSignature(s.Scheme(), sig, s.PublicKey())), nil
}

// SerializeSignature builds flag || signature || public key.
func SerializeSignature(scheme Scheme, sig, pubKey []byte) []byte {
	out := make([]byte, 0, 1+len(sig)+len(pubKey))
	out = append(out, byte(scheme))
	out = append(out, sig...)
	return append(out, pubKey...)
}

// ParseSerializedSignature splits a base64 serialized signature.
func ParseSerializedSignature(b64 string) (Scheme, []byte, []byte, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("decode signature: %w", err)
	}
	if len(raw) == 0 {
		return 0, nil, nil, fmt.Errorf("empty signature")
	}
	scheme := Scheme(raw[0])
	var pubLen int
	switch scheme {
	case SchemeEd25519:
		pubLen = 32
	case SchemeSecp256k1, SchemeSecp256r1:
		pubLen = 33
	default:
		return 0, nil, nil, fmt.Errorf("%w: flag 0x%02x", ErrUnsupportedScheme, raw[0])
	}
	if len(raw) != 1+64+pubLen {
		return 0, nil, nil, fmt.Errorf("signature length %d, want %d", len(raw), 1+64+pubLen)
	}
	return scheme, raw[1:65], raw[65:], nil
}

// VerifyTransaction checks a serialized signature against transaction bytes.
func VerifyTransaction(txBytes []byte, serialized string) error {
	scheme, sig, pub, err := ParseSerializedSignature(serialized)
	if err != nil {
		return err
	}
	digest := Hash(IntentMessage(TransactionIntent, txBytes))
	if !VerifySignature(scheme, digest[:], sig, pub) {
		return fmt.Errorf("signature does not verify")
	}
	return nil
}
