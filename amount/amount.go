// Package amount converts between human-entered display amounts and the
// integer base-unit amounts the token program expects. Conversions are exact
// decimal arithmetic; float inputs are guarded at the boundary.
package amount

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/krispycake/solmint/faults"
)

var maxUint64 = new(big.Int).SetUint64(math.MaxUint64)

// ParseDisplayAmount parses a user-entered amount string. Non-numeric input
// (including NaN/Inf spellings) and non-positive values are rejected.
func ParseDisplayAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, faults.Validation(faults.CodeInvalidAmount, "amount %q is not a number", s)
	}
	if !d.IsPositive() {
		return decimal.Zero, faults.Validation(faults.CodeInvalidAmount, "amount must be greater than zero, got %s", d)
	}
	return d, nil
}

// FromFloat converts a float input to an exact decimal, rejecting NaN and
// infinities before they can reach the codec.
func FromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, faults.Validation(faults.CodeInvalidAmount, "amount %v is not finite", f)
	}
	if f <= 0 {
		return decimal.Zero, faults.Validation(faults.CodeInvalidAmount, "amount must be greater than zero, got %v", f)
	}
	return decimal.NewFromFloat(f), nil
}

// ToBaseUnits converts a display amount into base units at the given decimal
// precision, rounding to the nearest integer. The amount must be strictly
// positive and fit in a uint64 after shifting.
func ToBaseUnits(display decimal.Decimal, decimals uint8) (uint64, error) {
	if !display.IsPositive() {
		return 0, faults.Validation(faults.CodeInvalidAmount, "amount must be greater than zero, got %s", display)
	}
	shifted := display.Shift(int32(decimals)).Round(0)
	if !shifted.IsPositive() {
		return 0, faults.Validation(faults.CodeInvalidAmount, "amount %s rounds to zero at %d decimals", display, decimals)
	}
	bi := shifted.BigInt()
	if bi.Cmp(maxUint64) > 0 {
		return 0, faults.Validation(faults.CodeInvalidAmount, "amount %s overflows at %d decimals", display, decimals)
	}
	return bi.Uint64(), nil
}

// ToDisplayUnits is the inverse of ToBaseUnits. It is exact: no precision is
// lost beyond the asset's own decimal precision.
func ToDisplayUnits(base uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(base), -int32(decimals))
}
