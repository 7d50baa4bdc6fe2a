package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/storeops/toast-exports/internal/scaled"
)

// Pay holds one punch's pay as integer products of scaled hours and cent
// rates, kept at twice that scale so the time-and-a-half rate stays integral.
// PayDollars performs the single conversion to dollars.
type Pay struct {
	Regular  int64
	Overtime int64
}

// PayCalculator computes punch pay for one location. Tipped jobs earn a tip
// credit on top of their hourly wage for rate purposes; the credit is then
// backed out of the pay itself, so a tipped punch nets its base wage on
// regular hours while overtime keeps the half-time premium on the credited
// rate.
type PayCalculator struct {
	tipCreditCents int64
	tippedJobs     map[string]bool
}

// NewPayCalculator derives the tip credit from the location's standard and
// tipped minimum wages. tippedJobCodes lists the job codes paid as tipped.
func NewPayCalculator(minWage, tippedMin decimal.Decimal, tippedJobCodes []string) *PayCalculator {
	tipped := make(map[string]bool, len(tippedJobCodes))
	for _, code := range tippedJobCodes {
		tipped[code] = true
	}
	return &PayCalculator{
		tipCreditCents: toCents(minWage) - toCents(tippedMin),
		tippedJobs:     tipped,
	}
}

func toCents(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// Pay computes a punch's regular and overtime pay. regular and overtime are
// the punch hours already rounded to two decimals, matching the hours the
// punch itself reports.
func (p *PayCalculator) Pay(regular, overtime scaled.Amount, hourlyWage float64, jobCode string) Pay {
	wageCents := scaled.RoundHalfUp(int64(scaled.FromFloat(hourlyWage)), 100)
	var credit int64
	if p.tippedJobs[jobCode] {
		credit = p.tipCreditCents
	}
	rate := wageCents + credit

	reg := 2*int64(regular)*rate - 2*int64(regular)*credit
	ot := 3*int64(overtime)*rate - 2*int64(overtime)*credit
	return Pay{Regular: reg, Overtime: ot}
}

// PayDollars converts a pay product (or a sum of them) to dollars, rounding
// half up to the cent.
func PayDollars(v int64) float64 {
	return float64(scaled.RoundHalfUp(v, 2*scaled.Factor)) / 100
}
