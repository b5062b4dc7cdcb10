package refdata

// Customer is a read-only counterparty reference for sales documents.
type Customer struct {
	ID   int64
	Name string
}

// Supplier is a read-only counterparty reference for purchase documents.
type Supplier struct {
	ID   int64
	Name string
}

// Salesperson carries the optional territory the order inherits.
type Salesperson struct {
	ID          int64
	TerritoryID *int64
}

// Product is a catalog entry as stored; classification and pricing are
// synthesized on top of it by PrepareCatalog.
type Product struct {
	ID       int64
	Name     string
	Category string
}

// MovementClass is the A/B/C stock rotation class derived from a
// product's ordinal position in the sampled catalog.
type MovementClass string

const (
	ClassA MovementClass = "A"
	ClassB MovementClass = "B"
	ClassC MovementClass = "C"
)

// CatalogItem is a product enriched with its movement class and the
// synthesized base cost and sell price used by the document builders.
type CatalogItem struct {
	Product
	Class     MovementClass
	BaseCost  float64
	BasePrice float64
}

// Pools aggregates every reference table the builders draw from.
type Pools struct {
	Customers   []Customer
	Suppliers   []Supplier
	Salespeople []Salesperson
	Catalog     []CatalogItem

	Channels          []int64
	ServiceID         int64
	Branches          []int64
	Departments       []int64
	CostCenters       []int64
	ProfitCenters     []int64
	BusinessUnits     []int64
	RevenueCategories []int64
	ExpenseCategories []int64
}

// CustomerByID resolves a customer for snapshot fields.
func (p *Pools) CustomerByID(id int64) (Customer, bool) {
	for _, c := range p.Customers {
		if c.ID == id {
			return c, true
		}
	}
	return Customer{}, false
}

// SupplierByID resolves a supplier for snapshot fields.
func (p *Pools) SupplierByID(id int64) (Supplier, bool) {
	for _, s := range p.Suppliers {
		if s.ID == id {
			return s, true
		}
	}
	return Supplier{}, false
}

// ItemByProductID resolves a catalog item by its product id.
func (p *Pools) ItemByProductID(id int64) (CatalogItem, bool) {
	for _, it := range p.Catalog {
		if it.ID == id {
			return it, true
		}
	}
	return CatalogItem{}, false
}
