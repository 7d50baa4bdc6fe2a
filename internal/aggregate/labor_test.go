package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeops/toast-exports/internal/domain"
	"github.com/storeops/toast-exports/internal/scaled"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func hoursEntry(emp string, regular, overtime float64) *domain.TimeEntry {
	return &domain.TimeEntry{
		GUID:              "te-" + emp,
		EmployeeReference: domain.ExternalRef{GUID: emp},
		JobReference:      domain.ExternalRef{GUID: "job-1"},
		RegularHours:      regular,
		OvertimeHours:     overtime,
	}
}

func TestWeeklyAccumulatorUnderThreshold(t *testing.T) {
	w := NewWeeklyAccumulator(time.Wednesday)
	w.StartDay(day("2024-01-03"))

	split, err := w.Apply(hoursEntry("emp-1", 8, 0), day("2024-01-03"))
	require.NoError(t, err)

	assert.Equal(t, scaled.FromFloat(8), split.Regular)
	assert.Equal(t, scaled.Amount(0), split.Overtime)
	assert.Equal(t, scaled.FromFloat(8), split.Week.RegularHours)
	assert.Equal(t, 1, split.Week.AccumulativeDays)
	assert.Equal(t, 1, split.Week.ConsecutiveDays)
}

func TestWeeklyAccumulatorOvertimeSplit(t *testing.T) {
	w := NewWeeklyAccumulator(time.Wednesday)
	w.StartDay(day("2024-01-03"))

	_, err := w.Apply(hoursEntry("emp-1", 38, 0), day("2024-01-03"))
	require.NoError(t, err)

	// The entry that crosses 40 hours splits: 2 regular, 3 overtime.
	split, err := w.Apply(hoursEntry("emp-1", 5, 0), day("2024-01-04"))
	require.NoError(t, err)
	assert.Equal(t, scaled.FromFloat(2), split.Regular)
	assert.Equal(t, scaled.FromFloat(3), split.Overtime)
	assert.Equal(t, scaled.FromFloat(40), split.Week.RegularHours)
	assert.Equal(t, scaled.FromFloat(3), split.Week.OvertimeHours)
	assert.Equal(t, scaled.FromFloat(43), split.Week.TotalHours)

	// Every entry after the threshold is all overtime.
	split, err = w.Apply(hoursEntry("emp-1", 6, 0), day("2024-01-05"))
	require.NoError(t, err)
	assert.Equal(t, scaled.Amount(0), split.Regular)
	assert.Equal(t, scaled.FromFloat(6), split.Overtime)
	assert.Equal(t, scaled.FromFloat(9), split.Week.OvertimeHours)
}

func TestWeeklyAccumulatorVendorOvertimeCountsTowardWeek(t *testing.T) {
	w := NewWeeklyAccumulator(time.Wednesday)
	w.StartDay(day("2024-01-03"))

	// Vendor-flagged overtime folds into the same weekly pool.
	split, err := w.Apply(hoursEntry("emp-1", 8, 2), day("2024-01-03"))
	require.NoError(t, err)
	assert.Equal(t, scaled.FromFloat(10), split.Regular)
	assert.Equal(t, scaled.Amount(0), split.Overtime)
}

func TestWeeklyAccumulatorConsecutiveDays(t *testing.T) {
	w := NewWeeklyAccumulator(time.Wednesday)

	w.StartDay(day("2024-01-03"))
	split, err := w.Apply(hoursEntry("emp-1", 4, 0), day("2024-01-03"))
	require.NoError(t, err)
	assert.Equal(t, 1, split.Week.ConsecutiveDays)

	w.StartDay(day("2024-01-04"))
	split, err = w.Apply(hoursEntry("emp-1", 4, 0), day("2024-01-04"))
	require.NoError(t, err)
	assert.Equal(t, 2, split.Week.ConsecutiveDays)

	// Skipping a day resets the streak.
	w.StartDay(day("2024-01-06"))
	split, err = w.Apply(hoursEntry("emp-1", 4, 0), day("2024-01-06"))
	require.NoError(t, err)
	assert.Equal(t, 1, split.Week.ConsecutiveDays)
	assert.Equal(t, 3, split.Week.AccumulativeDays)
}

func TestWeeklyAccumulatorSameDayEntries(t *testing.T) {
	w := NewWeeklyAccumulator(time.Wednesday)
	w.StartDay(day("2024-01-04"))

	first, err := w.Apply(hoursEntry("emp-1", 4, 0), day("2024-01-04"))
	require.NoError(t, err)
	second, err := w.Apply(hoursEntry("emp-1", 3, 0), day("2024-01-04"))
	require.NoError(t, err)

	assert.Equal(t, 1, second.Week.ConsecutiveDays)
	assert.Equal(t, scaled.FromFloat(7), second.Week.DailyRegular)
	// Every entry bumps the entry counter, same day or not.
	assert.Equal(t, 1, first.Week.AccumulativeDays)
	assert.Equal(t, 2, second.Week.AccumulativeDays)
}

func TestWeeklyAccumulatorWeekReset(t *testing.T) {
	w := NewWeeklyAccumulator(time.Wednesday)

	w.StartDay(day("2024-01-08")) // Monday
	_, err := w.Apply(hoursEntry("emp-1", 39, 0), day("2024-01-08"))
	require.NoError(t, err)

	w.StartDay(day("2024-01-09")) // Tuesday, same week
	split, err := w.Apply(hoursEntry("emp-1", 5, 0), day("2024-01-09"))
	require.NoError(t, err)
	assert.Equal(t, scaled.FromFloat(4), split.Overtime)

	w.StartDay(day("2024-01-10")) // Wednesday starts a fresh week
	split, err = w.Apply(hoursEntry("emp-1", 5, 0), day("2024-01-10"))
	require.NoError(t, err)
	assert.Equal(t, scaled.FromFloat(5), split.Regular)
	assert.Equal(t, scaled.Amount(0), split.Overtime)
	assert.Equal(t, 1, split.Week.AccumulativeDays)
}

func TestWeeklyAccumulatorTipAccumulation(t *testing.T) {
	w := NewWeeklyAccumulator(time.Wednesday)
	w.StartDay(day("2024-01-03"))

	e := hoursEntry("emp-1", 5, 0)
	e.DeclaredCashTips = 12.34
	e.NonCashTips = 56.78
	_, err := w.Apply(e, day("2024-01-03"))
	require.NoError(t, err)

	w.StartDay(day("2024-01-04"))
	split, err := w.Apply(e, day("2024-01-04"))
	require.NoError(t, err)
	assert.Equal(t, scaled.FromFloat(24.68), split.Week.DeclaredTips)
	assert.Equal(t, scaled.FromFloat(113.56), split.Week.ChargedTips)
}

func TestWeeklyAccumulatorNegativeHours(t *testing.T) {
	w := NewWeeklyAccumulator(time.Wednesday)
	w.StartDay(day("2024-01-03"))

	_, err := w.Apply(hoursEntry("emp-1", -2, 0), day("2024-01-03"))
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
}

func TestLookbackStart(t *testing.T) {
	// Friday target, Wednesday week start: back past 2024-01-10 and
	// 2024-01-03.
	assert.Equal(t, day("2024-01-03"), LookbackStart(day("2024-01-12"), time.Wednesday))
	// A target on the week-start weekday does not count itself.
	assert.Equal(t, day("2023-12-27"), LookbackStart(day("2024-01-10"), time.Wednesday))
}
