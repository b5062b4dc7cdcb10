package refdata

import (
	"strings"

	"github.com/aurora-erp/aurora-seed/internal/randgen"
)

// CostRule maps a category keyword to a unit cost range. Rules are
// evaluated in order, first match wins.
type CostRule struct {
	Keyword string
	Min     float64
	Max     float64
}

// DefaultCostRules covers the demo tenant's jewelry categories. The final
// fallback range applies when no keyword matches.
var DefaultCostRules = []CostRule{
	{Keyword: "anel", Min: 20, Max: 40},
	{Keyword: "colar", Min: 26, Max: 58},
	{Keyword: "brinco", Min: 16, Max: 36},
	{Keyword: "pulseira", Min: 22, Max: 50},
	{Keyword: "tornozeleira", Min: 14, Max: 28},
	{Keyword: "conjunto", Min: 44, Max: 88},
	{Keyword: "joia", Min: 30, Max: 64},
}

// DefaultCostRange applies when no rule keyword matches the category.
var DefaultCostRange = CostRule{Min: 18, Max: 42}

// CostRange resolves the unit cost range for a product category.
func CostRange(category string, rules []CostRule) (float64, float64) {
	c := strings.ToLower(category)
	for _, r := range rules {
		if strings.Contains(c, r.Keyword) {
			return r.Min, r.Max
		}
	}
	return DefaultCostRange.Min, DefaultCostRange.Max
}

// classByIndex assigns the movement class from the product's rank in the
// ordered catalog sample: the first five are fast movers, the next ten
// medium, the rest slow.
func classByIndex(idx int) MovementClass {
	switch {
	case idx < 5:
		return ClassA
	case idx < 15:
		return ClassB
	default:
		return ClassC
	}
}

// markupRange returns the sell price multiplier range per class. Fast
// movers carry the strongest markup.
func markupRange(class MovementClass) (float64, float64) {
	switch class {
	case ClassA:
		return 2.0, 2.35
	case ClassB:
		return 1.85, 2.25
	default:
		return 1.75, 2.1
	}
}

// SalesQtyRange returns the per-line sales quantity range per class.
func SalesQtyRange(class MovementClass) (int, int) {
	switch class {
	case ClassA:
		return 6, 22
	case ClassB:
		return 3, 14
	default:
		return 1, 8
	}
}

// PurchaseQtyRange returns the per-line purchase quantity range per class.
func PurchaseQtyRange(class MovementClass) (int, int) {
	switch class {
	case ClassA:
		return 90, 220
	case ClassB:
		return 45, 130
	default:
		return 18, 70
	}
}

// Weight returns the line-selection weight per class.
func Weight(class MovementClass) float64 {
	switch class {
	case ClassA:
		return 5
	case ClassB:
		return 3
	default:
		return 1.5
	}
}

// PrepareCatalog classifies the ordered product sample and synthesizes a
// base cost and sell price for each entry. Draw order is significant: one
// cost draw and one markup draw per product, in catalog order.
func PrepareCatalog(src *randgen.Source, products []Product, rules []CostRule) []CatalogItem {
	items := make([]CatalogItem, 0, len(products))
	for idx, p := range products {
		class := classByIndex(idx)
		minCost, maxCost := CostRange(p.Category, rules)
		cost := randgen.Round2(src.FloatBetween(minCost, maxCost))
		minMarkup, maxMarkup := markupRange(class)
		price := randgen.Round2(cost * src.FloatBetween(minMarkup, maxMarkup))
		items = append(items, CatalogItem{
			Product:   p,
			Class:     class,
			BaseCost:  cost,
			BasePrice: price,
		})
	}
	return items
}

// WeightedCatalog builds the weighted candidate pool for line selection.
func WeightedCatalog(items []CatalogItem) []randgen.Weighted[CatalogItem] {
	out := make([]randgen.Weighted[CatalogItem], 0, len(items))
	for _, it := range items {
		out = append(out, randgen.Weighted[CatalogItem]{Value: it, Weight: Weight(it.Class)})
	}
	return out
}
