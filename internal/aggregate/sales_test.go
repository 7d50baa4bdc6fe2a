package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeops/toast-exports/internal/domain"
	"github.com/storeops/toast-exports/internal/refdata"
)

func testConfigMaps() refdata.ConfigMaps {
	return refdata.ConfigMaps{
		RevenueCenters: map[string]domain.ConfigItem{
			"rc-1": {GUID: "rc-1", Name: "Dining Room"},
		},
		Tables: map[string]domain.ConfigItem{
			"tbl-1": {GUID: "tbl-1", Name: "12"},
		},
		DiningOptions: map[string]domain.ConfigItem{
			"do-1": {GUID: "do-1", Name: "Dine In"},
		},
		VoidReasons: map[string]domain.ConfigItem{
			"vr-1": {GUID: "vr-1", Name: "Spill"},
		},
	}
}

func simpleOrder() domain.Order {
	return domain.Order{
		GUID:           "ord-1",
		RevenueCenter:  &domain.ExternalRef{GUID: "rc-1"},
		DiningOption:   &domain.ExternalRef{GUID: "do-1"},
		Table:          &domain.ExternalRef{GUID: "tbl-1"},
		NumberOfGuests: 2,
		Source:         "In Store",
		Checks: []domain.Check{{
			GUID:          "chk-1",
			DisplayNumber: "101",
			Amount:        10.00,
			TotalAmount:   11.80,
			TaxAmount:     0.80,
			Payments: []domain.Payment{{
				GUID:           "pmt-1",
				Amount:         11.80,
				AmountTendered: 11.80,
				Type:           "CASH",
			}},
			Selections: []domain.Selection{{
				GUID:         "sel-1",
				DisplayName:  "Burger",
				Item:         &domain.ExternalRef{GUID: "item-1"},
				Price:        10.00,
				Quantity:     1,
				DiningOption: &domain.ExternalRef{GUID: "do-1"},
			}},
		}},
	}
}

func TestSalesAggregatorSingleCheck(t *testing.T) {
	agg := NewSalesAggregator(SalesSummaryID("024", "2024-01-09"), testConfigMaps())
	agg.AddPage([]domain.Order{simpleOrder()})
	sum := AssembleSales(agg, "024", "2024-01-09")

	assert.Equal(t, "024-2024-01-09-T", sum.ID)
	assert.Equal(t, "024", sum.Location)
	assert.Equal(t, "toast", sum.DataSource)

	assert.Equal(t, 10.00, sum.Metrics.NetSales)
	assert.Equal(t, 11.80, sum.Metrics.GrossSales)
	assert.Equal(t, 0.80, sum.Metrics.Taxes)
	assert.Equal(t, 1, sum.Metrics.CheckCount)
	assert.Equal(t, 1, sum.Metrics.OrderCount)
	assert.Equal(t, 0, sum.Metrics.VoidedOrderCount)
	assert.Equal(t, map[string]int{"In Store": 1}, sum.Metrics.OrderSourceCounts)

	require.Len(t, sum.RevenueCenters, 1)
	rc := sum.RevenueCenters[0]
	assert.Equal(t, "rc-1-024-2024-01-09-T", rc.ID)
	assert.Equal(t, "Dining Room", rc.Name)
	assert.Equal(t, 1, rc.Count)
	assert.Equal(t, 10.00, rc.Total)
	assert.Equal(t, 11.80, rc.OtherData.TenderTotal)

	require.Len(t, sum.Checks, 1)
	chk := sum.Checks[0]
	assert.Equal(t, "chk-1-024-2024-01-09-T", chk.ID)
	assert.Equal(t, 1, chk.Number)
	assert.Equal(t, "101", chk.Name)
	assert.Equal(t, 11.80, chk.Total)
	assert.Equal(t, "Dine In", chk.OtherData.OrderTypeName)
	assert.Equal(t, "12", chk.OtherData.TableName)
	assert.Equal(t, 2, chk.OtherData.CoverCount)
	require.Len(t, chk.OtherData.Tenders, 1)
	assert.Equal(t, "CASH", chk.OtherData.Tenders[0].Type)
	assert.Equal(t, "CASH", chk.OtherData.Tenders[0].Name)

	require.Len(t, sum.OrderTypes, 1)
	assert.Equal(t, "Dine In", sum.OrderTypes[0].Name)
	assert.Equal(t, 10.00, sum.OrderTypes[0].Total)
	assert.Equal(t, 1, sum.OrderTypes[0].Count)

	// The unused categories always come out as empty lists, not nulls.
	assert.NotNil(t, sum.Tables)
	assert.Empty(t, sum.Tables)
	assert.NotNil(t, sum.MenuItems)
}

func TestSalesAggregatorSkipsTestAndDeleted(t *testing.T) {
	testOrder := simpleOrder()
	testOrder.CreatedInTestMode = true
	deletedOrder := simpleOrder()
	deletedOrder.Deleted = true
	deletedCheck := simpleOrder()
	deletedCheck.Checks[0].Deleted = true

	agg := NewSalesAggregator(SalesSummaryID("024", "2024-01-09"), testConfigMaps())
	agg.AddPage([]domain.Order{testOrder, deletedOrder, deletedCheck})
	sum := AssembleSales(agg, "024", "2024-01-09")

	assert.Equal(t, 1, sum.Metrics.OrderCount) // deletedCheck's order still counts
	assert.Equal(t, 0, sum.Metrics.CheckCount)
	assert.Equal(t, 0.0, sum.Metrics.NetSales)
	assert.Empty(t, sum.Checks)
}

func TestSalesAggregatorRefunds(t *testing.T) {
	ord := simpleOrder()
	ord.Checks[0].Payments[0].Refund = &domain.Refund{
		RefundAmount:    3.50,
		TipRefundAmount: 0.50,
		RefundDate:      "2024-01-09T21:00:00.000+0000",
	}

	agg := NewSalesAggregator(SalesSummaryID("024", "2024-01-09"), testConfigMaps())
	agg.AddPage([]domain.Order{ord})
	sum := AssembleSales(agg, "024", "2024-01-09")

	assert.Equal(t, 3.50, sum.Metrics.Refunds)
	assert.Equal(t, 6.50, sum.RevenueCenters[0].Total) // 10.00 - 3.50
	require.Len(t, sum.Checks[0].OtherData.Refunds, 1)
	assert.Equal(t, 3.50, sum.Checks[0].OtherData.Refunds[0].Amount)
	assert.Equal(t, 0.50, sum.Checks[0].OtherData.Refunds[0].TipAmount)
}

func TestSalesAggregatorVoidedPayment(t *testing.T) {
	ord := simpleOrder()
	ord.Voided = true
	ord.Checks[0].Voided = true
	ord.Checks[0].Payments[0].VoidInfo = &domain.VoidInfo{
		VoidApprover: domain.ExternalRef{GUID: "mgr-1"},
		VoidUser:     domain.ExternalRef{GUID: "emp-1"},
		VoidDate:     "2024-01-09T20:00:00.000+0000",
	}

	agg := NewSalesAggregator(SalesSummaryID("024", "2024-01-09"), testConfigMaps())
	agg.AddPage([]domain.Order{ord})
	sum := AssembleSales(agg, "024", "2024-01-09")

	assert.Equal(t, 1, sum.Metrics.VoidedOrderCount)
	assert.Equal(t, 1, sum.Metrics.VoidedCheckCount)
	require.Len(t, sum.Checks[0].OtherData.Voids, 1)
	assert.Equal(t, "mgr-1", sum.Checks[0].OtherData.Voids[0].Approver)
}

func TestSalesAggregatorFallbackLabels(t *testing.T) {
	ord := simpleOrder()
	ord.RevenueCenter = nil

	agg := NewSalesAggregator(SalesSummaryID("024", "2024-01-09"), testConfigMaps())
	agg.AddPage([]domain.Order{ord})
	sum := AssembleSales(agg, "024", "2024-01-09")

	require.Len(t, sum.RevenueCenters, 1)
	assert.Equal(t, "<norvc>", sum.RevenueCenters[0].Sequence)
	assert.Equal(t, "<noname>", sum.RevenueCenters[0].Name)
	assert.Equal(t, "<norvc>-024-2024-01-09-T", sum.RevenueCenters[0].ID)
}

func TestSalesAggregatorServiceCharges(t *testing.T) {
	ord := simpleOrder()
	ord.Checks[0].AppliedServiceCharges = []domain.AppliedServiceCharge{{
		GUID:                     "asc-1",
		Name:                     "Auto Grat",
		ChargeAmount:             2.00,
		ChargeType:               "FIXED",
		Gratuity:                 true,
		AppliedTaxes:             []domain.AppliedTax{{TaxAmount: 0.16}},
		ServiceCharge:            &domain.ExternalRef{GUID: "svc-1"},
		ServiceChargeCalculation: "PRE_DISCOUNT",
		ServiceChargeCategory:    "SERVICE_CHARGE",
	}}

	agg := NewSalesAggregator(SalesSummaryID("024", "2024-01-09"), testConfigMaps())
	agg.AddPage([]domain.Order{ord})
	sum := AssembleSales(agg, "024", "2024-01-09")

	require.Len(t, sum.ServiceCharges, 1)
	sc := sum.ServiceCharges[0]
	// Row identity comes from the first applied instance, not the
	// configured charge.
	assert.Equal(t, "asc-1-024-2024-01-09-T", sc.ID)
	assert.Equal(t, "asc-1", sc.Sequence)
	assert.Equal(t, "Auto Grat", sc.Name)
	assert.Equal(t, 2.00, sc.Total)
	assert.Equal(t, 1, sc.Count)
	assert.Equal(t, 0.16, sc.OtherData.TaxAmount)
	assert.True(t, sc.OtherData.IsGratuity)

	assert.Equal(t, 2.00, sum.RevenueCenters[0].OtherData.ServiceChargeTotal)
	assert.Equal(t, 2.00, sum.Checks[0].OtherData.ServiceChargeTotal)
	require.Len(t, sum.Checks[0].OtherData.ServiceCharges, 1)
	assert.Equal(t, 0.16, sum.Checks[0].OtherData.ServiceCharges[0].TaxAmount)
}

func TestSalesAggregatorNoFloatDrift(t *testing.T) {
	// 0.10 summed a thousand times drifts under float math. Scaled
	// accumulation must land exactly on 100.00.
	orders := make([]domain.Order, 1000)
	for i := range orders {
		ord := simpleOrder()
		ord.Checks[0].Amount = 0.10
		ord.Checks[0].TotalAmount = 0.10
		ord.Checks[0].TaxAmount = 0
		orders[i] = ord
	}

	agg := NewSalesAggregator(SalesSummaryID("024", "2024-01-09"), testConfigMaps())
	agg.AddPage(orders)
	sum := AssembleSales(agg, "024", "2024-01-09")

	assert.Equal(t, 100.00, sum.Metrics.NetSales)
	assert.Equal(t, 100.00, sum.RevenueCenters[0].Total)
}

func TestSalesAggregatorDeterministicOrder(t *testing.T) {
	orders := []domain.Order{simpleOrder()}
	second := simpleOrder()
	second.GUID = "ord-2"
	second.RevenueCenter = &domain.ExternalRef{GUID: "rc-2"}
	second.Checks[0].GUID = "chk-2"
	orders = append(orders, second)

	first := AssembleSales(newFedAggregator(t, orders), "024", "2024-01-09")
	repeat := AssembleSales(newFedAggregator(t, orders), "024", "2024-01-09")
	assert.Equal(t, first, repeat)
	assert.Equal(t, "rc-1", first.RevenueCenters[0].Sequence)
	assert.Equal(t, "rc-2", first.RevenueCenters[1].Sequence)
}

func newFedAggregator(t *testing.T, orders []domain.Order) *SalesAggregator {
	t.Helper()
	agg := NewSalesAggregator(SalesSummaryID("024", "2024-01-09"), testConfigMaps())
	agg.AddPage(orders)
	return agg
}
