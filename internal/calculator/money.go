package calculator

import "github.com/shopspring/decimal"

// MinorUnitPlaces is the number of decimal places of the currency's minor unit.
const MinorUnitPlaces = 2

// DefaultTolerance is one minor unit. Values no larger than this in magnitude
// are treated as settled.
var DefaultTolerance = decimal.New(1, -MinorUnitPlaces)

// quantize rounds d half-to-even to the minor unit.
func quantize(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(MinorUnitPlaces)
}

// isSettled reports whether |d| is within the tolerance.
func isSettled(d, tolerance decimal.Decimal) bool {
	return !d.Abs().GreaterThan(tolerance)
}
