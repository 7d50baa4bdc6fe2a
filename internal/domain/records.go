// Package domain holds the vendor record types read from the Toast API and the
// summary documents this service produces. Vendor records are read-only inputs
// for a single aggregation run and are never mutated or persisted directly.
package domain

import "encoding/json"

// ExternalRef is Toast's identifier envelope for a related entity.
type ExternalRef struct {
	GUID       string `json:"guid"`
	EntityType string `json:"entityType,omitempty"`
}

// Order is one POS order with its nested checks.
type Order struct {
	GUID              string       `json:"guid"`
	RevenueCenter     *ExternalRef `json:"revenueCenter"`
	DiningOption      *ExternalRef `json:"diningOption"`
	Table             *ExternalRef `json:"table"`
	NumberOfGuests    int          `json:"numberOfGuests"`
	Source            string       `json:"source"`
	CreatedInTestMode bool         `json:"createdInTestMode"`
	Deleted           bool         `json:"deleted"`
	Voided            bool         `json:"voided"`
	Checks            []Check      `json:"checks"`
}

// Check is a single guest check on an order.
type Check struct {
	GUID                  string                 `json:"guid"`
	DisplayNumber         string                 `json:"displayNumber"`
	Amount                float64                `json:"amount"` // subtotal
	TotalAmount           float64                `json:"totalAmount"`
	TaxAmount             float64                `json:"taxAmount"`
	TotalDiscountAmount   float64                `json:"totalDiscountAmount"`
	OpenedDate            string                 `json:"openedDate"`
	ClosedDate            string                 `json:"closedDate"`
	Voided                bool                   `json:"voided"`
	Deleted               bool                   `json:"deleted"`
	Payments              []Payment              `json:"payments"`
	AppliedServiceCharges []AppliedServiceCharge `json:"appliedServiceCharges"`
	Selections            []Selection            `json:"selections"`
}

// Payment is a tender applied to a check.
type Payment struct {
	GUID           string    `json:"guid"`
	Amount         float64   `json:"amount"`
	TipAmount      float64   `json:"tipAmount"`
	AmountTendered float64   `json:"amountTendered"`
	Type           string    `json:"type"`
	VoidInfo       *VoidInfo `json:"voidInfo"`
	Refund         *Refund   `json:"refund"`
}

// VoidInfo records who voided a payment and when.
type VoidInfo struct {
	VoidApprover ExternalRef `json:"voidApprover"`
	VoidUser     ExternalRef `json:"voidUser"`
	VoidDate     string      `json:"voidDate"`
}

// Refund carries refund details for a payment, service charge, or selection.
type Refund struct {
	RefundAmount    float64 `json:"refundAmount"`
	TipRefundAmount float64 `json:"tipRefundAmount"`
	RefundDate      string  `json:"refundDate"`
}

// AppliedServiceCharge is a service charge instance applied to a check.
type AppliedServiceCharge struct {
	GUID                     string       `json:"guid"`
	Name                     string       `json:"name"`
	ChargeAmount             float64      `json:"chargeAmount"`
	ChargeType               string       `json:"chargeType"`
	Percent                  float64      `json:"percent"`
	Delivery                 bool         `json:"delivery"`
	DineIn                   bool         `json:"dineIn"`
	Gratuity                 bool         `json:"gratuity"`
	Takeout                  bool         `json:"takeout"`
	Taxable                  bool         `json:"taxable"`
	AppliedTaxes             []AppliedTax `json:"appliedTaxes"`
	RefundDetails            *Refund      `json:"refundDetails"`
	ServiceChargeCalculation string       `json:"serviceChargeCalculation"`
	ServiceChargeCategory    string       `json:"serviceChargeCategory"`
	ServiceCharge            *ExternalRef `json:"serviceCharge"`
}

// AppliedTax is a tax applied to a service charge.
type AppliedTax struct {
	TaxAmount float64 `json:"taxAmount"`
}

// Selection is a menu item line on a check. Modifiers nest as selections.
type Selection struct {
	GUID          string       `json:"guid"`
	DisplayName   string       `json:"displayName"`
	Item          *ExternalRef `json:"item"`
	Price         float64      `json:"price"`
	Quantity      float64      `json:"quantity"`
	Voided        bool         `json:"voided"`
	VoidReason    *ExternalRef `json:"voidReason"`
	DiningOption  *ExternalRef `json:"diningOption"`
	RefundDetails *Refund      `json:"refundDetails"`
	Modifiers     []Selection  `json:"modifiers"`
}

// TimeEntry is one time-clock record for an employee. The sales and gratuity
// figures are nullable in the vendor payload, which matters for how they are
// scaled downstream.
type TimeEntry struct {
	GUID                          string       `json:"guid"`
	EmployeeReference             ExternalRef  `json:"employeeReference"`
	JobReference                  ExternalRef  `json:"jobReference"`
	ShiftReference                *ExternalRef `json:"shiftReference"`
	BusinessDate                  string       `json:"businessDate"` // YYYYMMDD
	InDate                        string       `json:"inDate"`
	OutDate                       string       `json:"outDate"`
	RegularHours                  float64      `json:"regularHours"`
	OvertimeHours                 float64      `json:"overtimeHours"`
	DeclaredCashTips              float64      `json:"declaredCashTips"`
	NonCashTips                   float64      `json:"nonCashTips"`
	NonCashSales                  *float64     `json:"nonCashSales"`
	CashSales                     *float64     `json:"cashSales"`
	NonCashGratuityServiceCharges *float64     `json:"nonCashGratuityServiceCharges"`
	CashGratuityServiceCharges    *float64     `json:"cashGratuityServiceCharges"`
	HourlyWage                    float64      `json:"hourlyWage"`
	TipsWithheld                  bool         `json:"tipsWithheld"`
	Deleted                       bool         `json:"deleted"`
}

// Employee is the roster record resolved for a timecard.
type Employee struct {
	GUID               string `json:"guid"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	ExternalEmployeeID string `json:"externalEmployeeId"`
}

// Job is a position an employee can clock in under.
type Job struct {
	GUID  string `json:"guid"`
	Title string `json:"title"`
	Code  string `json:"code"`
}

// Shift is a scheduled shift referenced by a time entry.
type Shift struct {
	GUID           string          `json:"guid"`
	JobReference   ExternalRef     `json:"jobReference"`
	InDate         string          `json:"inDate"`
	OutDate        string          `json:"outDate"`
	ScheduleConfig json.RawMessage `json:"scheduleConfig"`
}

// ConfigItem is a store configuration record (revenue center, table, dining
// option, void reason). Only the display name is consumed by aggregation.
type ConfigItem struct {
	GUID string `json:"guid"`
	Name string `json:"name"`
}
