package aggregate

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/storeops/toast-exports/internal/domain"
	"github.com/storeops/toast-exports/internal/refdata"
	"github.com/storeops/toast-exports/internal/scaled"
)

// SalesSummaryID returns the deterministic document id for a store and
// business day, so re-running a day replaces the same document.
func SalesSummaryID(store, businessDay string) string {
	return fmt.Sprintf("%s-%s-T", store, businessDay)
}

// AssembleSales converts the aggregator's scaled totals into the output
// document. Each accumulated amount crosses back to a two-decimal float
// exactly once, here.
func AssembleSales(a *SalesAggregator, store, businessDay string) domain.SalesSummary {
	s := domain.SalesSummary{
		ID:          a.summaryID,
		Location:    store,
		BusinessDay: businessDay,
		DataSource:  domain.DataSourceToast,
		Metrics: domain.SalesMetrics{
			NetSales:          a.metrics.netSales.Float2(),
			GrossSales:        a.metrics.grossSales.Float2(),
			Taxes:             a.metrics.taxes.Float2(),
			Discounts:         a.metrics.discounts.Float2(),
			Refunds:           a.metrics.refunds.Float2(),
			Tips:              a.metrics.tips.Float2(),
			CheckCount:        a.metrics.checkCount,
			VoidedCheckCount:  a.metrics.voidedCheckCount,
			OrderCount:        a.metrics.orderCount,
			VoidedOrderCount:  a.metrics.voidedOrderCount,
			OrderSourceCounts: a.metrics.orderSourceCounts,
		},
		RevenueCenters: make([]domain.RevenueCenterTotal, 0, a.revenueCenters.len()),
		Checks:         make([]domain.CheckTotal, 0, a.checks.len()),
		ServiceCharges: make([]domain.ServiceChargeTotal, 0, a.serviceCharges.len()),
		OrderTypes:     make([]domain.OrderTypeTotal, 0, a.orderTypes.len()),
		Tables:         []domain.CategoryTotal{},
		Employees:      []domain.CategoryTotal{},
		Voids:          []domain.CategoryTotal{},
		Discounts:      []domain.CategoryTotal{},
		MajorGroups:    []domain.CategoryTotal{},
		FamilyGroups:   []domain.CategoryTotal{},
		TenderMedia:    []domain.CategoryTotal{},
		MenuItems:      []domain.CategoryTotal{},
	}

	for _, rc := range a.revenueCenters.values() {
		s.RevenueCenters = append(s.RevenueCenters, domain.RevenueCenterTotal{
			CategoryTotal: domain.CategoryTotal{
				ID:       rc.id,
				Sequence: rc.sequence,
				Name:     rc.name,
				Count:    rc.count,
				Total:    rc.total.Float2(),
			},
			OtherData: domain.RevenueCenterData{
				DiscountTotal:      rc.discountTotal.Float2(),
				TenderTotal:        rc.tenderTotal.Float2(),
				ServiceChargeTotal: rc.serviceChargeTotal.Float2(),
			},
		})
	}

	for _, ct := range a.checks.values() {
		s.Checks = append(s.Checks, domain.CheckTotal{
			ID:       ct.id,
			Sequence: ct.sequence,
			Number:   ct.number,
			Name:     ct.name,
			Total:    ct.total.Float2(),
			OtherData: domain.CheckData{
				OpenTime:           ct.openTime,
				CloseTime:          ct.closeTime,
				CoverCount:         ct.coverCount,
				OrderTypeSeq:       ct.orderTypeSeq,
				OrderTypeName:      ct.orderTypeName,
				RevenueCenterSeq:   ct.revenueCenterSeq,
				RevenueCenterName:  ct.revenueCenterName,
				Subtotal:           ct.subtotal,
				ServiceChargeTotal: ct.serviceChargeTotal.Float2(),
				TaxTotal:           ct.taxTotal,
				TableGUID:          ct.tableGUID,
				TableName:          ct.tableName,
				Voids:              ct.voids,
				Discounts:          []domain.CategoryTotal{},
				MenuItems:          ct.menuItems,
				ServiceCharges:     ct.serviceCharges,
				Tenders:            ct.tenders,
				Refunds:            ct.refunds,
			},
		})
	}

	for _, st := range a.serviceCharges.values() {
		data := st.data
		data.TaxAmount = st.taxAmount.Float2()
		s.ServiceCharges = append(s.ServiceCharges, domain.ServiceChargeTotal{
			ID:        st.id,
			Sequence:  st.sequence,
			Name:      st.name,
			Total:     st.total.Float2(),
			Count:     st.count,
			OtherData: data,
		})
	}

	for _, ot := range a.orderTypes.values() {
		s.OrderTypes = append(s.OrderTypes, domain.OrderTypeTotal{
			ID:       ot.id,
			Sequence: ot.sequence,
			Name:     ot.name,
			Total:    ot.total.Float2(),
			Count:    ot.count,
		})
	}

	return s
}

type punchDraft struct {
	entry domain.TimeEntry
	split Split
}

type timecardDraft struct {
	id           string
	employeeGUID string
	punches      []punchDraft
}

// LaborDayBuilder collects one day's time entries (with their weekly splits)
// and the identifier sets needed to enrich them, then assembles the labor
// summary once the lookups are resolved.
type LaborDayBuilder struct {
	store     string
	day       time.Time
	timezone  string
	summaryID string

	timecards   *orderedMap[*timecardDraft]
	employeeIDs *idSet
	jobIDs      *idSet
	shiftIDs    *idSet
}

func NewLaborDayBuilder(store string, day time.Time, timezone string) *LaborDayBuilder {
	return &LaborDayBuilder{
		store:       store,
		day:         day,
		timezone:    timezone,
		summaryID:   SalesSummaryID(store, day.Format("2006-01-02")),
		timecards:   newOrderedMap[*timecardDraft](),
		employeeIDs: newIDSet(),
		jobIDs:      newIDSet(),
		shiftIDs:    newIDSet(),
	}
}

func (b *LaborDayBuilder) SummaryID() string { return b.summaryID }

// Add records one time entry and its split on the employee's timecard.
func (b *LaborDayBuilder) Add(entry *domain.TimeEntry, split Split) {
	empGUID := entry.EmployeeReference.GUID
	tc := b.timecards.getOrCreate(empGUID, func() *timecardDraft {
		return &timecardDraft{
			id:           b.summaryID + "-" + empGUID,
			employeeGUID: empGUID,
		}
	})
	tc.punches = append(tc.punches, punchDraft{entry: *entry, split: split})

	b.employeeIDs.add(empGUID)
	b.jobIDs.add(entry.JobReference.GUID)
	if entry.ShiftReference != nil && entry.ShiftReference.GUID != "" {
		b.shiftIDs.add(entry.ShiftReference.GUID)
	}
}

// EmployeeIDs, JobIDs, and ShiftIDs report the identifiers referenced by the
// punches added so far, in first-seen order.
func (b *LaborDayBuilder) EmployeeIDs() []string { return b.employeeIDs.values() }
func (b *LaborDayBuilder) JobIDs() []string      { return b.jobIDs.values() }
func (b *LaborDayBuilder) ShiftIDs() []string    { return b.shiftIDs.values() }

// Finalize enriches the collected punches with roster data, computes pay,
// and rolls the day up into a labor summary.
func (b *LaborDayBuilder) Finalize(maps refdata.LaborMaps, pc *PayCalculator) domain.LaborSummary {
	sum := domain.LaborSummary{
		ID:          b.summaryID,
		Timezone:    b.timezone,
		BusinessDay: b.day.Format("2006-01-02"),
		Location:    b.store,
		DataSource:  domain.DataSourceToast,
		TimeCards:   make([]domain.TimeCard, 0, b.timecards.len()),
	}

	var regPay, otPay int64
	var regHours, otHours, regRaw, otRaw scaled.Amount

	for _, draft := range b.timecards.values() {
		emp := maps.Employees[draft.employeeGUID]
		tc := domain.TimeCard{
			ID:                draft.id,
			EmployeeFirstName: emp.FirstName,
			EmployeeLastName:  emp.LastName,
			EmployeeSequence:  draft.employeeGUID,
			EmployeeNumber:    emp.ExternalEmployeeID,
			EmployeePunches:   make([]domain.Punch, 0, len(draft.punches)),
		}

		for i := range draft.punches {
			pd := &draft.punches[i]
			entry := &pd.entry
			job := maps.Jobs[entry.JobReference.GUID]

			// Punch hours round to two decimals before pay so the pay on
			// the document always matches the hours on the document.
			regR := pd.split.Regular.Round2()
			otR := pd.split.Overtime.Round2()
			pay := pc.Pay(regR, otR, entry.HourlyWage, job.Code)

			punch := domain.Punch{
				ID:                             tc.ID + "-" + shortGUID(entry.GUID),
				Sequence:                       entry.GUID,
				LaborDate:                      formatBusinessDate(entry.BusinessDate),
				ClockInTime:                    entry.InDate,
				ClockOutTime:                   entry.OutDate,
				Job:                            job.Title,
				JobSequence:                    entry.JobReference.GUID,
				JobNumber:                      job.Code,
				RegularHours:                   regR.Float2(),
				RegularPay:                     PayDollars(pay.Regular),
				OvertimeHours:                  otR.Float2(),
				OvertimePay:                    PayDollars(pay.Overtime),
				AccumulativeRegularHours:       pd.split.Week.RegularHours.Float2(),
				AccumulativeOvertimeHours:      pd.split.Week.OvertimeHours.Float2(),
				AccumulativeDailyRegularHours:  pd.split.Week.DailyRegular.Float2(),
				AccumulativeDailyOvertimeHours: pd.split.Week.DailyOvertime.Float2(),
				AccumulativeDays:               pd.split.Week.AccumulativeDays,
				ConsecutiveDays:                pd.split.Week.ConsecutiveDays,
				AccumulativeDeclaredTips:       pd.split.Week.DeclaredTips.Float2(),
				AccumulativeChargedTips:        pd.split.Week.ChargedTips.Float2(),
				DeclaredTips:                   entry.DeclaredCashTips,
				ChargedTips:                    entry.NonCashTips,
				GrossFbSales:                   legacyRescale(floatOrZero(entry.NonCashSales) + floatOrZero(entry.CashSales)),
				ChargedSales:                   entry.NonCashSales,
				EmployeeServiceTips:            legacyRescale(floatOrZero(entry.NonCashGratuityServiceCharges) + floatOrZero(entry.CashGratuityServiceCharges)),
				TipsWithheld:                   entry.TipsWithheld,
				HourlyWage:                     entry.HourlyWage,
			}

			if entry.ShiftReference != nil && entry.ShiftReference.GUID != "" {
				sched := &domain.ShiftSchedule{Sequence: entry.ShiftReference.GUID}
				if shift, ok := maps.Shifts[entry.ShiftReference.GUID]; ok {
					sched.ID = punch.ID + "-" + shift.GUID
					sched.JobSequence = shift.JobReference.GUID
					sched.JobNumber = maps.Jobs[shift.JobReference.GUID].Code
					sched.ClockInTime = shift.InDate
					sched.ClockOutTime = shift.OutDate
					sched.ScheduleConfig = shift.ScheduleConfig
				}
				punch.TimeclockSchedule = sched
			}

			regPay += pay.Regular
			otPay += pay.Overtime
			if pay.Regular > 0 {
				regHours += regR
			}
			if pay.Overtime > 0 {
				otHours += otR
			}
			regRaw += regR
			otRaw += otR

			tc.EmployeePunches = append(tc.EmployeePunches, punch)
		}

		sum.TimeCards = append(sum.TimeCards, tc)
	}

	sum.RegularPay = PayDollars(regPay)
	sum.OvertimePay = PayDollars(otPay)
	sum.RegularHours = regHours.Float2()
	sum.OvertimeHours = otHours.Float2()
	sum.RegularRawHours = regRaw.Float2()
	sum.OvertimeRawHours = otRaw.Float2()
	return sum
}

// legacyRescale applies the rescaling the export has always used for the
// per-punch sales figures. The inputs were never scaled up, so the result
// comes out ten thousand times smaller than the true dollar value. Fixing it
// here would break every consumer that has compensated for it, so it stays.
func legacyRescale(v float64) float64 {
	return math.Round(v/100) / 100
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// shortGUID compresses a hyphenated hex guid to a 22-character base64 form
// for use in punch ids. Non-hex guids pass through unchanged.
func shortGUID(guid string) string {
	raw, err := hex.DecodeString(strings.ReplaceAll(guid, "-", ""))
	if err != nil {
		return guid
	}
	s := base64.StdEncoding.EncodeToString(raw)
	if len(s) > 22 {
		s = s[:22]
	}
	return s
}

// formatBusinessDate rewrites the vendor's YYYYMMDD business date as
// YYYY-MM-DD. Anything else passes through unchanged.
func formatBusinessDate(d string) string {
	if len(d) != 8 {
		return d
	}
	return d[:4] + "-" + d[4:6] + "-" + d[6:]
}

// idSet is a string set that preserves first-insertion order.
type idSet struct {
	seen map[string]bool
	ids  []string
}

func newIDSet() *idSet {
	return &idSet{seen: make(map[string]bool)}
}

func (s *idSet) add(id string) {
	if !s.seen[id] {
		s.seen[id] = true
		s.ids = append(s.ids, id)
	}
}

func (s *idSet) values() []string {
	return s.ids
}
