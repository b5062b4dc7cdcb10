package documents

import (
	"fmt"
	"time"

	"github.com/aurora-erp/aurora-seed/internal/dates"
	"github.com/aurora-erp/aurora-seed/internal/randgen"
	"github.com/aurora-erp/aurora-seed/internal/refdata"
)

// BuildConfig bounds one generation run.
type BuildConfig struct {
	TenantID    int64
	Count       int
	WindowStart time.Time
	WindowEnd   time.Time
}

// oversampleDraws is the size of the weighted candidate pool drawn before
// deduplication. Oversampling keeps low-weight products reachable while
// preserving the weight bias of the final unique pick.
const oversampleDraws = 200

var purchaseStatuses = []randgen.Weighted[string]{
	{Value: PurchaseStatusApproved, Weight: 0.66},
	{Value: PurchaseStatusPartialReceipt, Weight: 0.22},
	{Value: PurchaseStatusUnderReview, Weight: 0.12},
}

var purchaseLineCounts = []randgen.Weighted[int]{
	{Value: 2, Weight: 0.48},
	{Value: 3, Weight: 0.37},
	{Value: 4, Weight: 0.15},
}

var salesStatuses = []randgen.Weighted[string]{
	{Value: SalesStatusCompleted, Weight: 0.45},
	{Value: SalesStatusApproved, Weight: 0.25},
	{Value: SalesStatusPending, Weight: 0.3},
}

var salesLineCounts = []randgen.Weighted[int]{
	{Value: 1, Weight: 0.38},
	{Value: 2, Weight: 0.42},
	{Value: 3, Weight: 0.2},
}

// chooseLineItems draws an oversampled weighted candidate list and
// deduplicates it down to count distinct products.
func chooseLineItems(src *randgen.Source, weighted []randgen.Weighted[refdata.CatalogItem], count int) []refdata.CatalogItem {
	candidates := make([]refdata.CatalogItem, 0, oversampleDraws)
	for i := 0; i < oversampleDraws; i++ {
		candidates = append(candidates, randgen.WeightedChoice(src, weighted))
	}
	picked := randgen.PickUniqueSubset(src, candidates, len(candidates))
	out := make([]refdata.CatalogItem, 0, count)
	seen := make(map[int64]bool, count)
	for _, it := range picked {
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, it)
		if len(out) == count {
			break
		}
	}
	return out
}

// BuildPurchaseOrders generates purchase documents with explicit ids
// starting at 1. Pure: nothing is written until the caller bulk-inserts.
func BuildPurchaseOrders(src *randgen.Source, pools *refdata.Pools, cfg BuildConfig) ([]PurchaseOrder, []PurchaseOrderLine) {
	weighted := refdata.WeightedCatalog(pools.Catalog)
	orders := make([]PurchaseOrder, 0, cfg.Count)
	var lines []PurchaseOrderLine
	lineID := int64(1)

	for i := 0; i < cfg.Count; i++ {
		id := int64(i + 1)
		supplier := randgen.Pick(src, pools.Suppliers)
		branchID := randgen.Pick(src, pools.Branches)
		departmentID := randgen.Pick(src, pools.Departments)
		costCenterID := randgen.Pick(src, pools.CostCenters)
		expenseCategoryID := randgen.Pick(src, pools.ExpenseCategories)
		orderDate := src.DateBetween(cfg.WindowStart, cfg.WindowEnd)
		dueDate := dates.Clamp(dates.AddDays(orderDate, src.IntBetween(10, 22)), cfg.WindowStart, cfg.WindowEnd)
		status := randgen.WeightedChoice(src, purchaseStatuses)
		lineCount := randgen.WeightedChoice(src, purchaseLineCounts)
		items := chooseLineItems(src, weighted, lineCount)

		var total float64
		for _, item := range items {
			minQ, maxQ := refdata.PurchaseQtyRange(item.Class)
			qty := src.IntBetween(minQ, maxQ)
			unitPrice := randgen.Round2(item.BaseCost * src.FloatBetween(0.93, 1.09))
			lineTotal := randgen.Round2(float64(qty) * unitPrice)

			received := qty
			switch status {
			case PurchaseStatusPartialReceipt:
				received = int(float64(qty) * src.FloatBetween(0.35, 0.8))
				if received < 1 {
					received = 1
				}
			case PurchaseStatusUnderReview:
				received = 0
			}

			lines = append(lines, PurchaseOrderLine{
				ID:                lineID,
				TenantID:          cfg.TenantID,
				PurchaseOrderID:   id,
				ProductID:         item.ID,
				Quantity:          qty,
				QuantityReceived:  received,
				Unit:              "UN",
				UnitPrice:         unitPrice,
				Total:             lineTotal,
				CostCenterID:      costCenterID,
				ExpenseCategoryID: expenseCategoryID,
				CreatedAt:         src.TimeOnDate(orderDate),
			})
			lineID++
			total = randgen.Round2(total + lineTotal)
		}

		orders = append(orders, PurchaseOrder{
			ID:                id,
			TenantID:          cfg.TenantID,
			SupplierID:        supplier.ID,
			BranchID:          branchID,
			CostCenterID:      costCenterID,
			DepartmentID:      departmentID,
			ExpenseCategoryID: expenseCategoryID,
			Number:            fmt.Sprintf("OC-%d-%04d", cfg.WindowStart.Year(), id),
			OrderDate:         orderDate,
			DeliveryForecast:  dates.Clamp(dates.AddDays(orderDate, src.IntBetween(2, 12)), cfg.WindowStart, cfg.WindowEnd),
			DocumentDate:      orderDate,
			PostingDate:       orderDate,
			DueDate:           dueDate,
			Status:            status,
			Total:             total,
			Note:              "Reposicao de semijoias para distribuicao regional.",
			CreatedAt:         src.TimeOnDate(orderDate),
			UpdatedAt:         src.TimeOnDate(orderDate),
		})
	}
	return orders, lines
}

// BuildSalesOrders generates sales documents with explicit ids starting
// at 1. Subtotal accumulates gross line values, DiscountTotal the line
// discounts; Total is their rounded difference.
func BuildSalesOrders(src *randgen.Source, pools *refdata.Pools, cfg BuildConfig) ([]SalesOrder, []SalesOrderLine) {
	weighted := refdata.WeightedCatalog(pools.Catalog)
	orders := make([]SalesOrder, 0, cfg.Count)
	var lines []SalesOrderLine
	lineID := int64(1)

	for i := 0; i < cfg.Count; i++ {
		id := int64(i + 1)
		customer := randgen.Pick(src, pools.Customers)
		salesperson := randgen.Pick(src, pools.Salespeople)
		branchID := randgen.Pick(src, pools.Branches)
		departmentID := randgen.Pick(src, pools.Departments)
		businessUnitID := randgen.Pick(src, pools.BusinessUnits)
		profitCenterID := randgen.Pick(src, pools.ProfitCenters)
		revenueCategoryID := randgen.Pick(src, pools.RevenueCategories)
		channelID := randgen.Pick(src, pools.Channels)
		orderDate := src.DateBetween(cfg.WindowStart, cfg.WindowEnd)
		dueDate := dates.Clamp(dates.AddDays(orderDate, src.IntBetween(7, 20)), cfg.WindowStart, cfg.WindowEnd)
		status := randgen.WeightedChoice(src, salesStatuses)
		lineCount := randgen.WeightedChoice(src, salesLineCounts)
		items := chooseLineItems(src, weighted, lineCount)

		var subtotal, discountTotal float64
		for _, item := range items {
			minQ, maxQ := refdata.SalesQtyRange(item.Class)
			qty := src.IntBetween(minQ, maxQ)
			unitPrice := randgen.Round2(item.BasePrice * src.FloatBetween(0.9, 1.12))
			gross := randgen.Round2(float64(qty) * unitPrice)
			discount := randgen.Round2(gross * src.FloatBetween(0, 0.08))
			lineSubtotal := randgen.Round2(gross - discount)

			lines = append(lines, SalesOrderLine{
				ID:           lineID,
				TenantID:     cfg.TenantID,
				SalesOrderID: id,
				ProductID:    item.ID,
				ServiceID:    pools.ServiceID,
				Quantity:     qty,
				UnitPrice:    unitPrice,
				Discount:     discount,
				Subtotal:     lineSubtotal,
				CreatedAt:    src.TimeOnDate(orderDate),
				UpdatedAt:    src.TimeOnDate(orderDate),
			})
			lineID++
			subtotal = randgen.Round2(subtotal + gross)
			discountTotal = randgen.Round2(discountTotal + discount)
		}

		orders = append(orders, SalesOrder{
			ID:                id,
			TenantID:          cfg.TenantID,
			CustomerID:        customer.ID,
			SalespersonID:     salesperson.ID,
			TerritoryID:       salesperson.TerritoryID,
			ChannelID:         channelID,
			BranchID:          branchID,
			DepartmentID:      departmentID,
			BusinessUnitID:    businessUnitID,
			ProfitCenterID:    profitCenterID,
			RevenueCategoryID: revenueCategoryID,
			OrderedAt:         src.TimeOnDate(orderDate),
			DocumentDate:      orderDate,
			PostingDate:       orderDate,
			DueDate:           dueDate,
			Status:            status,
			Subtotal:          subtotal,
			DiscountTotal:     discountTotal,
			Total:             randgen.Round2(subtotal - discountTotal),
			Note:              "Pedido B2B de distribuicao de semijoias.",
			Description:       "Venda atacado com mix de produtos.",
			CreatedAt:         src.TimeOnDate(orderDate),
			UpdatedAt:         src.TimeOnDate(orderDate),
		})
	}
	return orders, lines
}
