// Package scaled implements the fixed-point representation used for every
// currency and hour quantity in the summary pipeline. Values are stored as
// int64 equal to the decimal value multiplied by 10,000, which keeps repeated
// summation exact. Conversion back to a two-decimal value happens exactly once,
// when a figure is written into an output document.
package scaled

import (
	"math"

	"github.com/shopspring/decimal"
)

// Factor is the fixed-point multiplier: one unit (dollar or hour) is 10,000.
const Factor = 10000

// Amount is a money or hour quantity scaled by Factor.
type Amount int64

// FromFloat converts a decimal value from a vendor payload to its scaled form.
func FromFloat(v float64) Amount {
	return Amount(math.Round(v * Factor))
}

// FromFloatPtr treats a missing value as zero.
func FromFloatPtr(v *float64) Amount {
	if v == nil {
		return 0
	}
	return FromFloat(*v)
}

// FromInt converts a whole number of units, e.g. FromInt(40) is forty hours.
func FromInt(n int64) Amount {
	return Amount(n * Factor)
}

// FromDecimal converts an exact decimal, used for configured wage values.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount(d.Mul(decimal.NewFromInt(Factor)).Round(0).IntPart())
}

// Decimal returns the exact decimal value of the amount.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -4)
}

// Float2 rescales to a two-decimal value, rounding half up. This mirrors the
// legacy export's round(v/100)/100 step and is the single point where scaled
// quantities become decimals again.
func (a Amount) Float2() float64 {
	return float64(RoundHalfUp(int64(a), 100)) / 100
}

// Round2 rounds the amount to two decimal places while remaining scaled.
func (a Amount) Round2() Amount {
	return Amount(RoundHalfUp(int64(a), 100) * 100)
}

// Cents rescales to whole cents (or hundredths of an hour), rounding half up.
func (a Amount) Cents() int64 {
	return RoundHalfUp(int64(a), 100)
}

// RoundHalfUp divides n by d rounding halves toward positive infinity, the
// same convention as JavaScript's Math.round. d must be positive.
func RoundHalfUp(n, d int64) int64 {
	return floorDiv(2*n+d, 2*d)
}

func floorDiv(n, d int64) int64 {
	q := n / d
	if n%d != 0 && (n < 0) != (d < 0) {
		q--
	}
	return q
}
