package refdata

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurora-erp/aurora-seed/internal/randgen"
)

func sampleProducts(n int) []Product {
	out := make([]Product, 0, n)
	cats := []string{"Anéis", "Colares", "Brincos", "Pulseiras", "Conjuntos"}
	for i := 0; i < n; i++ {
		out = append(out, Product{
			ID:       int64(i + 1),
			Name:     fmt.Sprintf("Produto %02d", i+1),
			Category: cats[i%len(cats)],
		})
	}
	return out
}

func TestCostRangeFirstMatchWins(t *testing.T) {
	min, max := CostRange("Conjunto Anel e Colar", DefaultCostRules)
	require.Equal(t, 20.0, min)
	require.Equal(t, 40.0, max)

	min, max = CostRange("Tornozeleiras Douradas", DefaultCostRules)
	require.Equal(t, 14.0, min)
	require.Equal(t, 28.0, max)
}

func TestCostRangeFallback(t *testing.T) {
	min, max := CostRange("Acessórios Diversos", DefaultCostRules)
	require.Equal(t, DefaultCostRange.Min, min)
	require.Equal(t, DefaultCostRange.Max, max)
}

func TestPrepareCatalogClassesByOrdinal(t *testing.T) {
	src := randgen.New(20260331)
	items := PrepareCatalog(src, sampleProducts(25), DefaultCostRules)
	require.Len(t, items, 25)
	for i, it := range items {
		switch {
		case i < 5:
			require.Equal(t, ClassA, it.Class)
		case i < 15:
			require.Equal(t, ClassB, it.Class)
		default:
			require.Equal(t, ClassC, it.Class)
		}
	}
}

func TestPrepareCatalogPricing(t *testing.T) {
	src := randgen.New(7)
	items := PrepareCatalog(src, sampleProducts(25), DefaultCostRules)
	for _, it := range items {
		require.Greater(t, it.BaseCost, 0.0)
		require.Greater(t, it.BasePrice, it.BaseCost, "price must include a markup for %s", it.Name)
		require.LessOrEqual(t, it.BasePrice, randgen.Round2(it.BaseCost*2.35)+0.01)
	}
}

func TestPrepareCatalogDeterminism(t *testing.T) {
	a := PrepareCatalog(randgen.New(99), sampleProducts(25), DefaultCostRules)
	b := PrepareCatalog(randgen.New(99), sampleProducts(25), DefaultCostRules)
	require.Equal(t, a, b)
}

func TestWeightedCatalogWeights(t *testing.T) {
	src := randgen.New(1)
	items := PrepareCatalog(src, sampleProducts(25), DefaultCostRules)
	weighted := WeightedCatalog(items)
	require.Equal(t, 5.0, weighted[0].Weight)
	require.Equal(t, 3.0, weighted[5].Weight)
	require.Equal(t, 1.5, weighted[20].Weight)
}

func TestQtyRangesBiasByClass(t *testing.T) {
	aMin, aMax := SalesQtyRange(ClassA)
	cMin, cMax := SalesQtyRange(ClassC)
	require.Greater(t, aMin, cMin)
	require.Greater(t, aMax, cMax)

	paMin, _ := PurchaseQtyRange(ClassA)
	_, pcMax := PurchaseQtyRange(ClassC)
	require.Greater(t, paMin, pcMax)
}
