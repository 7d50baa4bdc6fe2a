package domain

import "encoding/json"

// DataSourceToast marks documents produced from the Toast feed.
const DataSourceToast = "toast"

// SalesSummary is the per-store, per-business-day sales document. Its ID is a
// deterministic function of store and date, so re-running a day replaces the
// prior document under upsert.
type SalesSummary struct {
	ID             string               `json:"_id"`
	Location       string               `json:"location"`
	BusinessDay    string               `json:"businessDay"` // YYYY-MM-DD
	DataSource     string               `json:"dataSource"`
	Metrics        SalesMetrics         `json:"metrics"`
	RevenueCenters []RevenueCenterTotal `json:"revenueCenters"`
	Checks         []CheckTotal         `json:"checks"`
	ServiceCharges []ServiceChargeTotal `json:"serviceCharges"`
	OrderTypes     []OrderTypeTotal     `json:"orderTypes"`
	Tables         []CategoryTotal      `json:"tables"`
	Employees      []CategoryTotal      `json:"employees"`
	Voids          []CategoryTotal      `json:"voids"`
	Discounts      []CategoryTotal      `json:"discounts"`
	MajorGroups    []CategoryTotal      `json:"majorGroups"`
	FamilyGroups   []CategoryTotal      `json:"familyGroups"`
	TenderMedia    []CategoryTotal      `json:"tenderMedia"`
	MenuItems      []CategoryTotal      `json:"menuItems"`
}

// SalesMetrics is the top-line block of a sales summary.
type SalesMetrics struct {
	NetSales          float64        `json:"netSales"`
	GrossSales        float64        `json:"grossSales"`
	Taxes             float64        `json:"taxes"`
	Discounts         float64        `json:"discounts"`
	Refunds           float64        `json:"refunds"`
	Tips              float64        `json:"tips"`
	CheckCount        int            `json:"checkCount"`
	VoidedCheckCount  int            `json:"voidedCheckCount"`
	OrderCount        int            `json:"orderCount"`
	VoidedOrderCount  int            `json:"voidedOrderCount"`
	OrderSourceCounts map[string]int `json:"orderSourceCounts"`
}

// CategoryTotal is the generic shape of a category roll-up row.
type CategoryTotal struct {
	ID       string  `json:"_id"`
	Sequence string  `json:"sequence"`
	Name     string  `json:"name"`
	Count    int     `json:"count"`
	Total    float64 `json:"total"`
}

// RevenueCenterTotal is a per-revenue-center roll-up.
type RevenueCenterTotal struct {
	CategoryTotal
	OtherData RevenueCenterData `json:"otherData"`
}

// RevenueCenterData carries the secondary revenue-center totals.
type RevenueCenterData struct {
	DiscountTotal      float64 `json:"discountTotal"`
	TenderTotal        float64 `json:"tenderTotal"`
	ServiceChargeTotal float64 `json:"serviceChargeTotal"`
}

// CheckTotal is the per-check record emitted into the sales summary.
type CheckTotal struct {
	ID        string    `json:"_id"`
	Sequence  string    `json:"sequence"`
	Number    int       `json:"number"`
	Name      string    `json:"name"`
	Total     float64   `json:"total"`
	OtherData CheckData `json:"otherData"`
}

// CheckData holds the check-level detail and nested line items.
type CheckData struct {
	OpenTime           string              `json:"openTime"`
	CloseTime          string              `json:"closeTime"`
	CoverCount         int                 `json:"coverCount"`
	OrderTypeSeq       string              `json:"orderTypeSeq"`
	OrderTypeName      string              `json:"orderTypeName"`
	RevenueCenterSeq   string              `json:"revenueCenterSeq"`
	RevenueCenterName  string              `json:"revenueCenterName"`
	Subtotal           float64             `json:"subtotal"`
	ServiceChargeTotal float64             `json:"serviceChargeTotal"`
	TaxTotal           float64             `json:"taxTotal"`
	PaymentTotal       float64             `json:"paymentTotal"`
	TableGUID          string              `json:"tableGuid"`
	TableName          string              `json:"tableName"`
	EmployeeCheckName  *string             `json:"employeeCheckName"`
	EmployeeSeq        *string             `json:"employeeSeq"`
	Voids              []VoidLine          `json:"voids"`
	Discounts          []CategoryTotal     `json:"discounts"`
	MenuItems          []MenuItemLine      `json:"menuItems"`
	ServiceCharges     []ServiceChargeLine `json:"serviceCharges"`
	Tenders            []TenderLine        `json:"tenders"`
	Refunds            []RefundLine        `json:"refunds"`
}

// TenderLine is one payment on a check.
type TenderLine struct {
	Amount         float64 `json:"amount"`
	AmountTendered float64 `json:"amountTendered"`
	Type           string  `json:"type"`
	Name           string  `json:"name"`
	ChargeTip      float64 `json:"chargeTip"`
}

// VoidLine is one voided payment on a check.
type VoidLine struct {
	Amount         float64 `json:"amount"`
	AmountTendered float64 `json:"amountTendered"`
	Approver       string  `json:"approver"`
	User           string  `json:"user"`
	Date           string  `json:"date"`
}

// RefundLine is one payment refund on a check.
type RefundLine struct {
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"`
	TipAmount float64 `json:"tipAmount"`
}

// ServiceChargeLine is one applied service charge on a check.
type ServiceChargeLine struct {
	TaxAmount     float64  `json:"taxAmount"`
	SvcAmount     float64  `json:"svcAmount"`
	SvcPercentage float64  `json:"svcPercentage"`
	Type          string   `json:"type"`
	Name          string   `json:"name"`
	IsDelivery    bool     `json:"isDelivery"`
	IsDineIn      bool     `json:"isDineIn"`
	IsGratuity    bool     `json:"isGratuity"`
	IsTakeout     bool     `json:"isTakeout"`
	IsTaxable     bool     `json:"isTaxable"`
	IsRefunded    bool     `json:"isRefunded"`
	RefundAmount  *float64 `json:"refundAmount"`
	CalcMethod    string   `json:"calcMethod"`
	Category      string   `json:"category"`
}

// MenuItemLine is one selection on a check.
type MenuItemLine struct {
	Name         string      `json:"name"`
	GUID         string      `json:"guid"`
	Modifiers    []Selection `json:"modifiers"`
	Amount       float64     `json:"amount"`
	Qty          float64     `json:"qty"`
	IsRefunded   bool        `json:"isRefunded"`
	RefundAmount *float64    `json:"refundAmount"`
	IsVoided     bool        `json:"isVoided"`
	VoidReason   string      `json:"voidReason"`
}

// ServiceChargeTotal is the store-wide roll-up of one service charge.
type ServiceChargeTotal struct {
	ID        string            `json:"_id"`
	Sequence  string            `json:"sequence"`
	Name      string            `json:"name"`
	Total     float64           `json:"total"`
	Count     int               `json:"count"`
	OtherData ServiceChargeData `json:"otherData"`
}

// ServiceChargeData carries the descriptive attributes of a service charge.
type ServiceChargeData struct {
	TaxAmount     float64 `json:"taxAmount"`
	SvcPercentage float64 `json:"svcPercentage"`
	Type          string  `json:"type"`
	IsDelivery    bool    `json:"isDelivery"`
	IsDineIn      bool    `json:"isDineIn"`
	IsGratuity    bool    `json:"isGratuity"`
	IsTakeout     bool    `json:"isTakeout"`
	IsTaxable     bool    `json:"isTaxable"`
	CalcMethod    string  `json:"calcMethod"`
	Category      string  `json:"category"`
}

// OrderTypeTotal is the roll-up of one dining option.
type OrderTypeTotal struct {
	ID       string  `json:"_id"`
	Sequence string  `json:"sequence"`
	Name     string  `json:"name"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// LaborSummary is the per-store, per-business-day labor document.
//
// The "paid" hour totals (RegularHours, OvertimeHours) count only punches
// whose computed pay is positive; the raw totals count every punch. Both are
// kept deliberately.
type LaborSummary struct {
	ID               string     `json:"_id"`
	RegularPay       float64    `json:"regularPay"`
	OvertimePay      float64    `json:"overtimePay"`
	RegularHours     float64    `json:"regularHours"`
	OvertimeHours    float64    `json:"overtimeHours"`
	RegularRawHours  float64    `json:"regularRawHours"`
	OvertimeRawHours float64    `json:"overtimeRawHours"`
	Timezone         string     `json:"timezone"`
	BusinessDay      string     `json:"businessDay"` // YYYY-MM-DD
	Location         string     `json:"location"`
	TimeCards        []TimeCard `json:"timeCards"`
	DataSource       string     `json:"dataSource"`
}

// TimeCard groups one employee's punches for a business day.
type TimeCard struct {
	ID                string  `json:"_id"`
	EmployeeFirstName string  `json:"employeeFirstName"`
	EmployeeLastName  string  `json:"employeeLastName"`
	EmployeeSequence  string  `json:"employeeSequence"`
	EmployeeNumber    string  `json:"employeeNumber"`
	EmployeePunches   []Punch `json:"employeePunches"`
}

// Punch is one time entry with its computed regular/overtime split, pay, and
// a snapshot of the weekly accumulators at the time it was processed.
//
// The "accumlative" tips keys are kept misspelled: they are the wire names of
// the existing export format and downstream consumers key on them.
type Punch struct {
	ID                             string         `json:"_id"`
	Sequence                       string         `json:"sequence"`
	LaborDate                      string         `json:"laborDate"` // YYYY-MM-DD
	ClockInTime                    string         `json:"clockInTime"`
	ClockOutTime                   string         `json:"clockOutTime"`
	Job                            string         `json:"job"`
	JobSequence                    string         `json:"jobSequence"`
	JobNumber                      string         `json:"jobNumber"`
	RegularHours                   float64        `json:"regularHours"`
	RegularPay                     float64        `json:"regularPay"`
	OvertimeHours                  float64        `json:"overtimeHours"`
	OvertimePay                    float64        `json:"overtimePay"`
	AccumulativeRegularHours       float64        `json:"accumulativeRegularHours"`
	AccumulativeOvertimeHours      float64        `json:"accumulativeOvertimeHours"`
	AccumulativeDailyRegularHours  float64        `json:"accumulativeDailyRegularHours"`
	AccumulativeDailyOvertimeHours float64        `json:"accumulativeDailyOvertimeHours"`
	AccumulativeDays               int            `json:"accumulativeDays"`
	ConsecutiveDays                int            `json:"consecutiveDays"`
	AccumulativeDeclaredTips       float64        `json:"accumlativeDeclaredTips"`
	AccumulativeChargedTips        float64        `json:"accumlativeChargedTips"`
	DeclaredTips                   float64        `json:"declaredTips"`
	ChargedTips                    float64        `json:"chargedTips"`
	GrossFbSales                   float64        `json:"grossFbSales"`
	ChargedSales                   *float64       `json:"chargedSales"`
	EmployeeServiceTips            float64        `json:"employeeServiceTips"`
	IndyTipsPaid                   *float64       `json:"indyTipsPaid"`
	TipsWithheld                   bool           `json:"tipsWithheld"`
	HourlyWage                     float64        `json:"hourlyWage"`
	TimeclockSchedule              *ShiftSchedule `json:"timeclockSchedule"`
}

// ShiftSchedule embeds the scheduled shift a punch was clocked against.
type ShiftSchedule struct {
	ID             string          `json:"_id"`
	Sequence       string          `json:"sequence"`
	LaborDate      string          `json:"laborDate"`
	JobSequence    string          `json:"jobSequence"`
	JobNumber      string          `json:"jobNumber"`
	ClockInTime    string          `json:"clockInTime"`
	ClockOutTime   string          `json:"clockOutTime"`
	ScheduleConfig json.RawMessage `json:"scheduleConfig,omitempty"`
}
