package aggregate

import (
	"fmt"
	"time"

	"github.com/storeops/toast-exports/internal/domain"
	"github.com/storeops/toast-exports/internal/scaled"
)

// weeklyRegularCap is the weekly regular-hour ceiling. Hours beyond it within
// one labor week are overtime.
const weeklyRegularCap = scaled.Amount(40 * scaled.Factor)

// WeekState carries one employee's running totals for the current labor week.
// All hour and tip fields are scaled amounts.
type WeekState struct {
	TotalHours    scaled.Amount
	RegularHours  scaled.Amount
	OvertimeHours scaled.Amount
	DailyRegular  scaled.Amount
	DailyOvertime scaled.Amount

	// AccumulativeDays counts time entries, not distinct days. A double
	// shift bumps it twice. That is how the export has always counted it
	// and reports built on it expect the entry count.
	AccumulativeDays int
	ConsecutiveDays  int
	LastDay          time.Time

	DeclaredTips scaled.Amount
	ChargedTips  scaled.Amount
}

// Split is the regular/overtime division of one time entry, with a snapshot
// of the employee's week state taken just after the entry was folded in.
type Split struct {
	Regular  scaled.Amount
	Overtime scaled.Amount
	Week     WeekState
}

// WeeklyAccumulator tracks per-employee hours across a labor week. Days must
// be fed oldest first; the state resets when a day lands on the configured
// week-start weekday.
type WeeklyAccumulator struct {
	weekStart time.Weekday
	week      time.Time
	employees map[string]*WeekState
}

func NewWeeklyAccumulator(weekStart time.Weekday) *WeeklyAccumulator {
	return &WeeklyAccumulator{
		weekStart: weekStart,
		employees: make(map[string]*WeekState),
	}
}

// StartDay marks the processing day. A day on the week-start weekday begins a
// new labor week and clears every employee's running totals.
func (w *WeeklyAccumulator) StartDay(day time.Time) {
	if day.Weekday() == w.weekStart && !day.Equal(w.week) {
		w.week = day
		w.employees = make(map[string]*WeekState)
	}
}

// Apply folds one time entry for the given day into the employee's week and
// returns the entry's regular/overtime split.
func (w *WeeklyAccumulator) Apply(entry *domain.TimeEntry, day time.Time) (Split, error) {
	empGUID := entry.EmployeeReference.GUID
	emp, ok := w.employees[empGUID]
	if !ok {
		emp = &WeekState{LastDay: day, ConsecutiveDays: 1}
		w.employees[empGUID] = emp
	}

	curr := scaled.FromFloat(entry.RegularHours) + scaled.FromFloat(entry.OvertimeHours)
	reg := curr
	var ot scaled.Amount

	emp.TotalHours += curr
	emp.RegularHours += curr
	if emp.RegularHours > weeklyRegularCap {
		ot = emp.RegularHours - weeklyRegularCap
		reg = curr - ot
		emp.RegularHours = weeklyRegularCap
		emp.OvertimeHours += ot
	}
	if reg < 0 || ot < 0 {
		return Split{}, fmt.Errorf("%w: negative hours for employee %s on %s (regular %d, overtime %d)",
			domain.ErrInvariantViolation, empGUID, day.Format("2006-01-02"), reg, ot)
	}

	emp.AccumulativeDays++
	const oneDay = 24 * time.Hour
	if gap := day.Sub(emp.LastDay); gap >= oneDay {
		emp.DailyRegular = reg
		emp.DailyOvertime = ot
		emp.ConsecutiveDays++
		emp.LastDay = day
		if gap > oneDay {
			emp.ConsecutiveDays = 1
		}
	} else {
		// Another entry on the same day. The streak and last-day marker
		// stay put.
		emp.DailyRegular += reg
		emp.DailyOvertime += ot
	}

	emp.DeclaredTips += scaled.FromFloat(entry.DeclaredCashTips)
	emp.ChargedTips += scaled.FromFloat(entry.NonCashTips)

	return Split{Regular: reg, Overtime: ot, Week: *emp}, nil
}

// LookbackStart walks back from end until the week-start weekday has been
// seen twice, so a run always re-covers at least one full prior labor week
// and picks up late time-clock edits.
func LookbackStart(end time.Time, weekStart time.Weekday) time.Time {
	day := end
	starts := 0
	for starts < 2 {
		day = day.AddDate(0, 0, -1)
		if day.Weekday() == weekStart {
			starts++
		}
	}
	return day
}
