package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// AddressSize is the length of an account address in bytes.
const AddressSize = 32

// Address is a 256-bit account address: BLAKE2b(flag || public key).
type Address [AddressSize]byte

// IsZero returns true if the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// String returns the 0x-prefixed, zero-padded, lowercase hex address.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Short returns an abbreviated form (0x1234…abcd) for log lines.
func (a Address) Short() string {
	s := hex.EncodeToString(a[:])
	return "0x" + s[:4] + "…" + s[len(s)-4:]
}

// Bytes returns a copy of the address as a byte slice.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressSize)
	copy(b, a[:])
	return b
}

// MarshalJSON encodes the address as a 0x-prefixed hex string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a 0x-prefixed hex string into an address.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*a = Address{}
		return nil
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress parses a 0x-prefixed hex address.
// Short forms (e.g. "0x2") are left-padded with zeros, matching how the
// node normalises addresses and object IDs.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return Address{}, fmt.Errorf("empty address")
	}
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return Address{}, fmt.Errorf("address must start with 0x")
	}
	hexStr := s[2:]
	if len(hexStr) == 0 {
		return Address{}, fmt.Errorf("address has no hex digits")
	}
	if len(hexStr) > AddressSize*2 {
		return Address{}, fmt.Errorf("address too long: %d hex digits, max %d", len(hexStr), AddressSize*2)
	}
	hexStr = strings.Repeat("0", AddressSize*2-len(hexStr)) + hexStr

	decoded, err := hex.DecodeString(hexStr)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address: %w", err)
	}
	var a Address
	copy(a[:], decoded)
	return a, nil
}

// MustParseAddress is ParseAddress for constants; it panics on error.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// ObjectID identifies an on-chain object. It shares the address encoding.
type ObjectID = Address
