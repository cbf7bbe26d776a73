// Package crypto provides the hashing and signing primitives used to derive
// account addresses and authorise transactions.
package crypto

import (
	"github.com/suisend/suisend/pkg/types"
	"golang.org/x/crypto/blake2b"
)

// Hash computes a BLAKE2b-256 hash over the concatenation of parts.
func Hash(parts ...[]byte) types.Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		// Only returned for keys longer than 64 bytes.
		panic(err)
	}
	for _, p := range parts {
		h.Write(p)
	}
	var out types.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// AddressFromPubKey derives an account address from a scheme flag and public key.
// Address = BLAKE2b-256(flag || public_key).
func AddressFromPubKey(scheme Scheme, pubKey []byte) types.Address {
	return types.Address(Hash([]byte{byte(scheme)}, pubKey))
}

// TransactionDigest computes the digest the node assigns to a transaction:
// BLAKE2b-256("TransactionData::" || tx_bytes).
func TransactionDigest(txBytes []byte) types.Digest {
	return types.Digest(Hash([]byte("TransactionData::"), txBytes))
}
