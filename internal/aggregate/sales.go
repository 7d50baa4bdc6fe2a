// Package aggregate folds raw Toast records into the daily sales and labor
// summary documents. All money and hour accumulation happens on scaled
// integers (see internal/scaled); floats appear only at document assembly.
package aggregate

import (
	"github.com/storeops/toast-exports/internal/domain"
	"github.com/storeops/toast-exports/internal/refdata"
	"github.com/storeops/toast-exports/internal/scaled"
)

// Fallback identifiers for orders that carry no revenue center reference and
// lookups that resolve to nothing. These are the literal labels the existing
// export emits, so downstream reports match on them.
const (
	noRevenueCenterKey = "<norvc>"
	noNameLabel        = "<noname>"
)

type salesMetrics struct {
	netSales          scaled.Amount
	grossSales        scaled.Amount
	taxes             scaled.Amount
	discounts         scaled.Amount
	refunds           scaled.Amount
	tips              scaled.Amount
	checkCount        int
	voidedCheckCount  int
	orderCount        int
	voidedOrderCount  int
	orderSourceCounts map[string]int
}

type rcTotal struct {
	id                 string
	sequence           string
	name               string
	count              int
	total              scaled.Amount
	discountTotal      scaled.Amount
	tenderTotal        scaled.Amount
	serviceChargeTotal scaled.Amount
}

type checkTotal struct {
	id                 string
	sequence           string
	number             int
	name               string
	total              scaled.Amount
	openTime           string
	closeTime          string
	coverCount         int
	orderTypeSeq       string
	orderTypeName      string
	revenueCenterSeq   string
	revenueCenterName  string
	subtotal           float64
	serviceChargeTotal scaled.Amount
	taxTotal           float64
	tableGUID          string
	tableName          string
	voids              []domain.VoidLine
	menuItems          []domain.MenuItemLine
	serviceCharges     []domain.ServiceChargeLine
	tenders            []domain.TenderLine
	refunds            []domain.RefundLine
}

type scTotal struct {
	id        string
	sequence  string
	name      string
	count     int
	total     scaled.Amount
	taxAmount scaled.Amount
	data      domain.ServiceChargeData
}

type otTotal struct {
	id       string
	sequence string
	name     string
	count    int
	total    scaled.Amount
}

// SalesAggregator folds order pages into per-day totals. It is restartable,
// not resumable: build a fresh one per store and business day and feed it
// every page for that day.
type SalesAggregator struct {
	summaryID string
	maps      refdata.ConfigMaps

	metrics        salesMetrics
	revenueCenters *orderedMap[*rcTotal]
	checks         *orderedMap[*checkTotal]
	serviceCharges *orderedMap[*scTotal]
	orderTypes     *orderedMap[*otTotal]
}

func NewSalesAggregator(summaryID string, maps refdata.ConfigMaps) *SalesAggregator {
	return &SalesAggregator{
		summaryID:      summaryID,
		maps:           maps,
		metrics:        salesMetrics{orderSourceCounts: make(map[string]int)},
		revenueCenters: newOrderedMap[*rcTotal](),
		checks:         newOrderedMap[*checkTotal](),
		serviceCharges: newOrderedMap[*scTotal](),
		orderTypes:     newOrderedMap[*otTotal](),
	}
}

// AddPage folds one page of orders into the running totals.
func (a *SalesAggregator) AddPage(orders []domain.Order) {
	for i := range orders {
		a.addOrder(&orders[i])
	}
}

func (a *SalesAggregator) addOrder(ord *domain.Order) {
	if ord.CreatedInTestMode || ord.Deleted {
		return
	}

	a.metrics.orderCount++
	if ord.Voided {
		a.metrics.voidedOrderCount++
	}
	a.metrics.orderSourceCounts[ord.Source]++

	rcGUID := refGUID(ord.RevenueCenter, noRevenueCenterKey)
	rc := a.revenueCenters.getOrCreate(rcGUID, func() *rcTotal {
		return &rcTotal{
			id:       rcGUID + "-" + a.summaryID,
			sequence: rcGUID,
			name:     a.lookupName(a.maps.RevenueCenters, rcGUID),
		}
	})
	rc.count++

	for j := range ord.Checks {
		chk := &ord.Checks[j]
		if chk.Deleted {
			continue
		}
		a.addCheck(ord, chk, rc)
	}
}

func (a *SalesAggregator) addCheck(ord *domain.Order, chk *domain.Check, rc *rcTotal) {
	a.metrics.netSales += scaled.FromFloat(chk.Amount)
	a.metrics.grossSales += scaled.FromFloat(chk.TotalAmount)
	a.metrics.taxes += scaled.FromFloat(chk.TaxAmount)
	a.metrics.discounts += scaled.FromFloat(chk.TotalDiscountAmount)
	a.metrics.checkCount++
	if chk.Voided {
		a.metrics.voidedCheckCount++
	}

	rc.total += scaled.FromFloat(chk.Amount)

	// A check guid seen again replaces the prior row but keeps its position.
	ct := &checkTotal{
		id:                chk.GUID + "-" + a.summaryID,
		sequence:          chk.GUID,
		number:            a.metrics.checkCount,
		name:              chk.DisplayNumber,
		total:             scaled.FromFloat(chk.TotalAmount),
		openTime:          chk.OpenedDate,
		closeTime:         chk.ClosedDate,
		coverCount:        ord.NumberOfGuests,
		orderTypeSeq:      refGUID(ord.DiningOption, ""),
		orderTypeName:     a.maps.DiningOptions[refGUID(ord.DiningOption, "")].Name,
		revenueCenterSeq:  rc.sequence,
		revenueCenterName: a.maps.RevenueCenters[rc.sequence].Name,
		subtotal:          chk.Amount,
		taxTotal:          chk.TaxAmount,
		tableGUID:         refGUID(ord.Table, ""),
		tableName:         a.maps.Tables[refGUID(ord.Table, "")].Name,
		voids:             []domain.VoidLine{},
		menuItems:         []domain.MenuItemLine{},
		serviceCharges:    []domain.ServiceChargeLine{},
		tenders:           []domain.TenderLine{},
		refunds:           []domain.RefundLine{},
	}
	a.checks.put(chk.GUID, ct)

	for k := range chk.Payments {
		a.addPayment(&chk.Payments[k], rc, ct)
	}
	for k := range chk.AppliedServiceCharges {
		a.addServiceCharge(&chk.AppliedServiceCharges[k], rc, ct)
	}
	for k := range chk.Selections {
		a.addSelection(&chk.Selections[k], ct)
	}
}

func (a *SalesAggregator) addPayment(pmt *domain.Payment, rc *rcTotal, ct *checkTotal) {
	a.metrics.tips += scaled.FromFloat(pmt.TipAmount)

	var refundAmount float64
	if pmt.Refund != nil {
		refundAmount = pmt.Refund.RefundAmount
	}
	a.metrics.refunds += scaled.FromFloat(refundAmount)
	rc.total -= scaled.FromFloat(refundAmount)
	rc.tenderTotal += scaled.FromFloat(pmt.Amount)

	ct.tenders = append(ct.tenders, domain.TenderLine{
		Amount:         pmt.Amount,
		AmountTendered: pmt.AmountTendered,
		Type:           pmt.Type,
		Name:           pmt.Type,
		ChargeTip:      pmt.TipAmount,
	})
	if pmt.VoidInfo != nil {
		ct.voids = append(ct.voids, domain.VoidLine{
			Amount:         pmt.Amount,
			AmountTendered: pmt.AmountTendered,
			Approver:       pmt.VoidInfo.VoidApprover.GUID,
			User:           pmt.VoidInfo.VoidUser.GUID,
			Date:           pmt.VoidInfo.VoidDate,
		})
	}
	if pmt.Refund != nil {
		ct.refunds = append(ct.refunds, domain.RefundLine{
			Amount:    pmt.Refund.RefundAmount,
			Date:      pmt.Refund.RefundDate,
			TipAmount: pmt.Refund.TipRefundAmount,
		})
	}
}

func (a *SalesAggregator) addServiceCharge(sc *domain.AppliedServiceCharge, rc *rcTotal, ct *checkTotal) {
	rc.serviceChargeTotal += scaled.FromFloat(sc.ChargeAmount)

	var taxSum scaled.Amount
	for _, tax := range sc.AppliedTaxes {
		taxSum += scaled.FromFloat(tax.TaxAmount)
	}

	var refundAmount *float64
	if sc.RefundDetails != nil {
		refundAmount = &sc.RefundDetails.RefundAmount
	}
	ct.serviceCharges = append(ct.serviceCharges, domain.ServiceChargeLine{
		TaxAmount:     taxSum.Float2(),
		SvcAmount:     sc.ChargeAmount,
		SvcPercentage: sc.Percent,
		Type:          sc.ChargeType,
		Name:          sc.Name,
		IsDelivery:    sc.Delivery,
		IsDineIn:      sc.DineIn,
		IsGratuity:    sc.Gratuity,
		IsTakeout:     sc.Takeout,
		IsTaxable:     sc.Taxable,
		IsRefunded:    sc.RefundDetails != nil,
		RefundAmount:  refundAmount,
		CalcMethod:    sc.ServiceChargeCalculation,
		Category:      sc.ServiceChargeCategory,
	})
	ct.serviceChargeTotal += scaled.FromFloat(sc.ChargeAmount)

	// The roll-up keys on the configured charge, but the row id and sequence
	// carry the guid of the first applied instance seen. Downstream documents
	// key on those ids, so this stays.
	key := refGUID(sc.ServiceCharge, sc.GUID)
	st := a.serviceCharges.getOrCreate(key, func() *scTotal {
		return &scTotal{
			id:       sc.GUID + "-" + a.summaryID,
			sequence: sc.GUID,
			name:     sc.Name,
			data: domain.ServiceChargeData{
				SvcPercentage: sc.Percent,
				Type:          sc.ChargeType,
				IsDelivery:    sc.Delivery,
				IsDineIn:      sc.DineIn,
				IsGratuity:    sc.Gratuity,
				IsTakeout:     sc.Takeout,
				IsTaxable:     sc.Taxable,
				CalcMethod:    sc.ServiceChargeCalculation,
				Category:      sc.ServiceChargeCategory,
			},
		}
	})
	st.count++
	st.total += scaled.FromFloat(sc.ChargeAmount)
	st.taxAmount += taxSum
}

func (a *SalesAggregator) addSelection(sel *domain.Selection, ct *checkTotal) {
	var refundAmount *float64
	if sel.RefundDetails != nil {
		refundAmount = &sel.RefundDetails.RefundAmount
	}
	modifiers := sel.Modifiers
	if modifiers == nil {
		modifiers = []domain.Selection{}
	}
	ct.menuItems = append(ct.menuItems, domain.MenuItemLine{
		Name:         sel.DisplayName,
		GUID:         refGUID(sel.Item, ""),
		Modifiers:    modifiers,
		Amount:       sel.Price,
		Qty:          sel.Quantity,
		IsRefunded:   sel.RefundDetails != nil,
		RefundAmount: refundAmount,
		IsVoided:     sel.Voided,
		VoidReason:   a.maps.VoidReasons[refGUID(sel.VoidReason, "")].Name,
	})

	// Order types key off the selection's dining option, not the order's.
	// The check rows above use the order's. Kept as the existing export
	// behaves until the revenue team rules on which one is right.
	dOpt, ok := a.maps.DiningOptions[refGUID(sel.DiningOption, "")]
	if !ok {
		return
	}
	ot := a.orderTypes.getOrCreate(dOpt.GUID, func() *otTotal {
		return &otTotal{
			id:       dOpt.GUID + "-" + a.summaryID,
			sequence: dOpt.GUID,
			name:     dOpt.Name,
		}
	})
	ot.count++
	ot.total += scaled.FromFloat(sel.Price)
}

func (a *SalesAggregator) lookupName(m map[string]domain.ConfigItem, guid string) string {
	if item, ok := m[guid]; ok && item.Name != "" {
		return item.Name
	}
	return noNameLabel
}

// refGUID unwraps an optional reference, falling back when the reference is
// absent or empty.
func refGUID(ref *domain.ExternalRef, fallback string) string {
	if ref == nil || ref.GUID == "" {
		return fallback
	}
	return ref.GUID
}
