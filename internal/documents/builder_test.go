package documents

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aurora-erp/aurora-seed/internal/randgen"
	"github.com/aurora-erp/aurora-seed/internal/refdata"
)

func testPools(t *testing.T) *refdata.Pools {
	t.Helper()
	p := &refdata.Pools{
		ServiceID:         1,
		Channels:          []int64{1, 2},
		Branches:          []int64{1, 2, 3},
		Departments:       []int64{1, 2},
		CostCenters:       []int64{1, 2},
		ProfitCenters:     []int64{1, 2},
		BusinessUnits:     []int64{1},
		RevenueCategories: []int64{1, 2},
		ExpenseCategories: []int64{1, 2, 3},
	}
	for i := 1; i <= 10; i++ {
		p.Customers = append(p.Customers, refdata.Customer{ID: int64(i), Name: fmt.Sprintf("Cliente %02d", i)})
		p.Suppliers = append(p.Suppliers, refdata.Supplier{ID: int64(i), Name: fmt.Sprintf("Fornecedor %02d", i)})
	}
	terr := int64(4)
	p.Salespeople = []refdata.Salesperson{{ID: 1, TerritoryID: &terr}, {ID: 2}, {ID: 3, TerritoryID: &terr}}

	var products []refdata.Product
	cats := []string{"Anel Solitário", "Colar Veneziano", "Brinco Argola", "Pulseira Riviera", "Conjunto Festa"}
	for i := 0; i < 25; i++ {
		products = append(products, refdata.Product{
			ID:       int64(100 + i),
			Name:     fmt.Sprintf("Produto %02d", i+1),
			Category: cats[i%len(cats)],
		})
	}
	p.Catalog = refdata.PrepareCatalog(randgen.New(20260331), products, refdata.DefaultCostRules)
	return p
}

func testBuildConfig(count int) BuildConfig {
	return BuildConfig{
		TenantID:    1,
		Count:       count,
		WindowStart: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		WindowEnd:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildPurchaseOrdersDeterminism(t *testing.T) {
	pools := testPools(t)
	cfg := testBuildConfig(40)

	o1, l1 := BuildPurchaseOrders(randgen.New(42), pools, cfg)
	o2, l2 := BuildPurchaseOrders(randgen.New(42), pools, cfg)
	require.Equal(t, o1, o2)
	require.Equal(t, l1, l2)
}

func TestBuildPurchaseOrdersBalance(t *testing.T) {
	pools := testPools(t)
	orders, lines := BuildPurchaseOrders(randgen.New(7), pools, testBuildConfig(40))
	require.Len(t, orders, 40)

	byOrder := map[int64]float64{}
	for _, l := range lines {
		byOrder[l.PurchaseOrderID] = randgen.Round2(byOrder[l.PurchaseOrderID] + l.Total)
		require.Equal(t, l.Total, randgen.Round2(float64(l.Quantity)*l.UnitPrice))
	}
	for _, o := range orders {
		require.InDelta(t, byOrder[o.ID], o.Total, 0.01, "order %s out of balance", o.Number)
	}
}

func TestBuildPurchaseOrdersReceivedQuantities(t *testing.T) {
	pools := testPools(t)
	orders, lines := BuildPurchaseOrders(randgen.New(99), pools, testBuildConfig(60))
	statusByID := map[int64]string{}
	for _, o := range orders {
		statusByID[o.ID] = o.Status
	}
	for _, l := range lines {
		switch statusByID[l.PurchaseOrderID] {
		case PurchaseStatusApproved:
			require.Equal(t, l.Quantity, l.QuantityReceived)
		case PurchaseStatusPartialReceipt:
			require.GreaterOrEqual(t, l.QuantityReceived, 1)
			require.Less(t, l.QuantityReceived, l.Quantity)
		case PurchaseStatusUnderReview:
			require.Zero(t, l.QuantityReceived)
		}
	}
}

func TestBuildSalesOrdersBalance(t *testing.T) {
	pools := testPools(t)
	orders, lines := BuildSalesOrders(randgen.New(7), pools, testBuildConfig(120))
	require.Len(t, orders, 120)

	gross := map[int64]float64{}
	discount := map[int64]float64{}
	for _, l := range lines {
		g := randgen.Round2(float64(l.Quantity) * l.UnitPrice)
		require.InDelta(t, l.Subtotal, randgen.Round2(g-l.Discount), 0.005)
		gross[l.SalesOrderID] = randgen.Round2(gross[l.SalesOrderID] + g)
		discount[l.SalesOrderID] = randgen.Round2(discount[l.SalesOrderID] + l.Discount)
	}
	for _, o := range orders {
		require.InDelta(t, gross[o.ID], o.Subtotal, 0.01)
		require.InDelta(t, discount[o.ID], o.DiscountTotal, 0.01)
		require.InDelta(t, o.Total, randgen.Round2(o.Subtotal-o.DiscountTotal), 0.005)
	}
}

func TestBuildSalesOrdersDatesInsideWindow(t *testing.T) {
	pools := testPools(t)
	cfg := testBuildConfig(80)
	orders, _ := BuildSalesOrders(randgen.New(3), pools, cfg)
	for _, o := range orders {
		require.False(t, o.DocumentDate.Before(cfg.WindowStart))
		require.False(t, o.DocumentDate.After(cfg.WindowEnd))
		require.False(t, o.DueDate.Before(o.DocumentDate))
		require.False(t, o.DueDate.After(cfg.WindowEnd))
	}
}

func TestChooseLineItemsDistinct(t *testing.T) {
	pools := testPools(t)
	weighted := refdata.WeightedCatalog(pools.Catalog)
	src := randgen.New(55)
	for i := 0; i < 50; i++ {
		items := chooseLineItems(src, weighted, 4)
		require.Len(t, items, 4)
		seen := map[int64]bool{}
		for _, it := range items {
			require.False(t, seen[it.ID])
			seen[it.ID] = true
		}
	}
}

func TestChooseLineItemsFavorsFastMovers(t *testing.T) {
	pools := testPools(t)
	weighted := refdata.WeightedCatalog(pools.Catalog)
	src := randgen.New(2026)
	counts := map[refdata.MovementClass]int{}
	for i := 0; i < 400; i++ {
		for _, it := range chooseLineItems(src, weighted, 2) {
			counts[it.Class]++
		}
	}
	// 5 class-A products at weight 5 against 10 class-C at weight 1.5:
	// fast movers must dominate despite being outnumbered.
	require.Greater(t, counts[refdata.ClassA], counts[refdata.ClassC])
	require.Positive(t, counts[refdata.ClassC])
}

func TestLineIDsAreSequential(t *testing.T) {
	pools := testPools(t)
	_, lines := BuildSalesOrders(randgen.New(12), pools, testBuildConfig(30))
	for i, l := range lines {
		require.Equal(t, int64(i+1), l.ID)
	}
}

func TestTotalsAreTwoDecimal(t *testing.T) {
	pools := testPools(t)
	orders, _ := BuildSalesOrders(randgen.New(31), pools, testBuildConfig(50))
	for _, o := range orders {
		scaled := o.Total * 100
		require.InDelta(t, math.Round(scaled), scaled, 1e-6)
	}
}
