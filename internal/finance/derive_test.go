package finance

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aurora-erp/aurora-seed/internal/documents"
	"github.com/aurora-erp/aurora-seed/internal/randgen"
	"github.com/aurora-erp/aurora-seed/internal/refdata"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testPools(t *testing.T) *refdata.Pools {
	t.Helper()

	categories := []string{"Anel", "Colar", "Brinco", "Pulseira", "Conjunto"}
	products := make([]refdata.Product, 0, 25)
	for i := 0; i < 25; i++ {
		cat := categories[i%len(categories)]
		products = append(products, refdata.Product{
			ID:       int64(100 + i),
			Name:     fmt.Sprintf("%s Dourado %02d", cat, i+1),
			Category: cat,
		})
	}

	pools := &refdata.Pools{
		Channels:          []int64{1, 2},
		ServiceID:         7,
		Branches:          []int64{1},
		Departments:       []int64{2},
		CostCenters:       []int64{3},
		ProfitCenters:     []int64{4},
		BusinessUnits:     []int64{5},
		RevenueCategories: []int64{6},
		ExpenseCategories: []int64{8},
	}
	for i := 0; i < 10; i++ {
		pools.Customers = append(pools.Customers, refdata.Customer{ID: int64(i + 1), Name: fmt.Sprintf("Distribuidora %02d", i+1)})
		pools.Suppliers = append(pools.Suppliers, refdata.Supplier{ID: int64(i + 30), Name: fmt.Sprintf("Fornecedor %02d", i+1)})
	}
	territory := int64(4)
	pools.Salespeople = []refdata.Salesperson{{ID: 1}, {ID: 2, TerritoryID: &territory}, {ID: 3}}

	src := randgen.New(20260331)
	pools.Catalog = refdata.PrepareCatalog(src, products, refdata.DefaultCostRules)
	return pools
}

func testWindow() (time.Time, time.Time) {
	return day(2026, time.February, 1), day(2026, time.March, 31)
}

func TestDeriveReceivablesMirrorsOrders(t *testing.T) {
	pools := testPools(t)
	start, end := testWindow()
	src := randgen.New(42)
	orders, lines := documents.BuildSalesOrders(src, pools, documents.BuildConfig{
		TenantID: 1, Count: 30, WindowStart: start, WindowEnd: end,
	})

	recs, recLines := DeriveReceivables(orders, lines, pools)
	require.Len(t, recs, len(orders))

	for i, rec := range recs {
		o := orders[i]
		require.Equal(t, o.ID, rec.ID)
		require.Equal(t, fmt.Sprintf("PV-2026-%06d", o.ID), rec.Number)
		require.Equal(t, o.Total, rec.NetValue)
		require.Equal(t, o.Total, rec.GrossValue)
		require.Equal(t, StatusPending, rec.Status)
		require.Equal(t, o.DueDate, rec.DueDate)

		c, ok := pools.CustomerByID(o.CustomerID)
		require.True(t, ok)
		require.Equal(t, c.Name, rec.CustomerSnapshot)
	}

	sums := make(map[int64]float64, len(recs))
	for _, l := range recLines {
		require.Equal(t, "servico", l.LineType)
		require.InDelta(t, l.GrossValue-l.Discount, l.NetValue, 0.011)
		sums[l.ReceivableID] += l.NetValue
	}
	for _, rec := range recs {
		require.InDelta(t, rec.NetValue, sums[rec.ID], 0.02)
	}
}

func TestDerivePayablesKeepsOrderNumbers(t *testing.T) {
	pools := testPools(t)
	start, end := testWindow()
	src := randgen.New(42)
	orders, lines := documents.BuildPurchaseOrders(src, pools, documents.BuildConfig{
		TenantID: 1, Count: 20, WindowStart: start, WindowEnd: end,
	})

	pays, payLines := DerivePayables(orders, lines, pools)
	require.Len(t, pays, len(orders))

	for i, pay := range pays {
		o := orders[i]
		require.Equal(t, o.Number, pay.Number)
		require.Equal(t, o.Total, pay.NetValue)
		require.Zero(t, pay.DiscountValue)
		require.Equal(t, StatusPending, pay.Status)

		s, ok := pools.SupplierByID(o.SupplierID)
		require.True(t, ok)
		require.Equal(t, s.Name, pay.SupplierSnapshot)
	}

	sums := make(map[int64]float64, len(pays))
	for _, l := range payLines {
		require.Equal(t, "despesa", l.LineType)
		require.Equal(t, l.GrossValue, l.NetValue)
		sums[l.PayableID] += l.NetValue
	}
	for _, pay := range pays {
		require.InDelta(t, pay.NetValue, sums[pay.ID], 0.02)
	}
}

func TestDeriveLineIDsAreSequential(t *testing.T) {
	pools := testPools(t)
	start, end := testWindow()
	src := randgen.New(7)
	orders, lines := documents.BuildSalesOrders(src, pools, documents.BuildConfig{
		TenantID: 1, Count: 10, WindowStart: start, WindowEnd: end,
	})

	_, recLines := DeriveReceivables(orders, lines, pools)
	for i, l := range recLines {
		require.Equal(t, int64(i+1), l.ID)
	}
}
