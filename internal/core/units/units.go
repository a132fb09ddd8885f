// Package units converts between whole-coin display amounts and integer
// base units. All arithmetic is exact; no floating point is involved.
package units

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// Decimals is the number of base-unit digits in one whole coin (1 SUI = 10^9 MIST).
	Decimals int32 = 9
	// DisplayPlaces is the fixed precision of balances shown to users.
	DisplayPlaces int32 = 4

	// maxIntegerDigits is the widest whole-coin part that can fit in a
	// uint64 of base units.
	maxIntegerDigits = 11
)

// plainDecimal matches an optionally signed digits[.digits] literal.
// Exponent notation is not accepted.
var plainDecimal = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)$`)

// ParseError reports a display amount that cannot become base units.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid amount %q: %s", e.Input, e.Reason)
}

// ToBaseUnits parses a decimal whole-coin amount into base units.
// Digits beyond the ninth fractional place are truncated.
func ToBaseUnits(display string) (uint64, error) {
	s := strings.TrimSpace(display)
	if s == "" {
		return 0, &ParseError{Input: display, Reason: "empty"}
	}

	if !plainDecimal.MatchString(s) {
		return 0, &ParseError{Input: display, Reason: "not a decimal number"}
	}
	if strings.HasPrefix(s, "-") {
		if strings.Trim(s, "-0.") != "" {
			return 0, &ParseError{Input: display, Reason: "negative"}
		}
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if len(strings.TrimLeft(whole, "0")) > maxIntegerDigits {
		return 0, &ParseError{Input: display, Reason: "out of range"}
	}
	if len(frac) > int(Decimals) {
		frac = frac[:Decimals]
	}

	d, err := decimal.NewFromString(whole + "." + frac)
	if err != nil {
		return 0, &ParseError{Input: display, Reason: "not a decimal number"}
	}

	base := d.Shift(Decimals).Truncate(0).BigInt()
	if !base.IsUint64() {
		return 0, &ParseError{Input: display, Reason: "out of range"}
	}
	return base.Uint64(), nil
}

// ToDisplayUnits formats base units as whole coins with DisplayPlaces digits.
func ToDisplayUnits(base uint64) string {
	return Format(base, DisplayPlaces)
}

// Format formats base units as whole coins with the given number of
// fractional digits. Format(b, Decimals) is the exact inverse of ToBaseUnits.
func Format(base uint64, places int32) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(base), -Decimals).StringFixed(places)
}
