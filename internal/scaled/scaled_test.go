package scaled

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripTwoDecimals(t *testing.T) {
	// Any value with at most two decimal digits survives the scale/rescale
	// round trip exactly.
	values := []float64{0, 0.01, 0.99, 1, 7.25, 2.60, 10.00, 11.80, 1234.56, 40, 0.05}
	for _, v := range values {
		assert.Equal(t, v, FromFloat(v).Float2(), "value %v", v)
	}
}

func TestFromFloatScales(t *testing.T) {
	assert.Equal(t, Amount(100000), FromFloat(10.00))
	assert.Equal(t, Amount(118000), FromFloat(11.80))
	assert.Equal(t, Amount(400000), FromInt(40))
	assert.Equal(t, Amount(0), FromFloatPtr(nil))
	f := 3.5
	assert.Equal(t, Amount(35000), FromFloatPtr(&f))
}

func TestFromDecimal(t *testing.T) {
	d, err := decimal.NewFromString("7.25")
	require.NoError(t, err)
	assert.Equal(t, Amount(72500), FromDecimal(d))
	assert.True(t, decimal.New(72500, -4).Equal(FromDecimal(d).Decimal()))
}

func TestRoundHalfUp(t *testing.T) {
	cases := []struct {
		n, d, want int64
	}{
		{250, 100, 3},   // exact half rounds up
		{249, 100, 2},   // just below half rounds down
		{-250, 100, -2}, // negative half rounds toward +inf
		{-251, 100, -3},
		{100, 100, 1},
		{0, 100, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, RoundHalfUp(c.n, c.d), "%d/%d", c.n, c.d)
	}
}

func TestSummationHasNoDrift(t *testing.T) {
	// 0.1 added ten thousand times is exactly 1000.00 in scaled form.
	var sum Amount
	for i := 0; i < 10000; i++ {
		sum += FromFloat(0.10)
	}
	assert.Equal(t, 1000.0, sum.Float2())
}

func TestRound2(t *testing.T) {
	assert.Equal(t, Amount(123500), FromFloat(12.3456).Round2())
	assert.Equal(t, 12.35, FromFloat(12.3456).Round2().Float2())
}
