package types

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Denomination constants. All amounts are carried as MIST (uint64).
const (
	Decimals    = 9
	MistPerSUI  = 1_000_000_000
	MilliSUI    = 1_000_000
	CoinTypeSUI = "0x2::sui::SUI"
	TokenSymbol = "SUI"
)

// ErrInvalidAmount is returned for amounts that cannot be represented in MIST.
var ErrInvalidAmount = errors.New("invalid amount")

var maxMist = decimal.RequireFromString("18446744073709551615")

// maxExponent bounds the decimal exponent ParseSUI accepts. MaxUint64 MIST
// is below 10^11 SUI.
const maxExponent = 20

// ParseSUI converts a decimal SUI string (e.g. "0.5") to MIST without
// going through floating point.
func ParseSUI(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: negative amount", ErrInvalidAmount)
	}
	// Exponent notation can ask for 10^(2^31); rescaling that never finishes.
	if d.Exponent() > maxExponent {
		return 0, fmt.Errorf("%w: amount too large", ErrInvalidAmount)
	}
	if int(d.Exponent()) < -len(s) {
		return 0, fmt.Errorf("%w: too many decimal places (max %d)", ErrInvalidAmount, Decimals)
	}
	mist := d.Shift(Decimals)
	if !mist.IsInteger() {
		return 0, fmt.Errorf("%w: too many decimal places (max %d)", ErrInvalidAmount, Decimals)
	}
	if mist.GreaterThan(maxMist) {
		return 0, fmt.Errorf("%w: amount too large", ErrInvalidAmount)
	}
	return mist.BigInt().Uint64(), nil
}

// FormatSUI renders a MIST amount as SUI with a fixed number of decimal places.
func FormatSUI(mist uint64, places int32) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(mist), -Decimals).StringFixed(places)
}

// FormatSUIExact renders a MIST amount as SUI without rounding, trimming
// trailing zeros.
func FormatSUIExact(mist uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(mist), -Decimals).String()
}

// MulMist multiplies a per-recipient amount by a count, reporting overflow.
func MulMist(amount uint64, count int) (uint64, bool) {
	if count < 0 {
		return 0, false
	}
	total := new(big.Int).Mul(new(big.Int).SetUint64(amount), big.NewInt(int64(count)))
	if !total.IsUint64() {
		return 0, false
	}
	return total.Uint64(), true
}
