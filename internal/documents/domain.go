package documents

import "time"

// Purchase order statuses as persisted.
const (
	PurchaseStatusApproved       = "aprovado"
	PurchaseStatusPartialReceipt = "recebimento_parcial"
	PurchaseStatusUnderReview    = "em_analise"
)

// Sales order statuses as persisted.
const (
	SalesStatusCompleted = "concluido"
	SalesStatusApproved  = "aprovado"
	SalesStatusPending   = "pendente"
)

// PurchaseOrder is a generated purchase document header. The engine
// assigns ids explicitly; sequences are realigned after the bulk insert.
type PurchaseOrder struct {
	ID                int64
	TenantID          int64
	SupplierID        int64
	BranchID          int64
	CostCenterID      int64
	DepartmentID      int64
	ExpenseCategoryID int64
	Number            string
	OrderDate         time.Time
	DeliveryForecast  time.Time
	DocumentDate      time.Time
	PostingDate       time.Time
	DueDate           time.Time
	Status            string
	Total             float64
	Note              string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PurchaseOrderLine is one product line of a purchase order. Total is
// computed once at construction and is the only source of the header sum.
type PurchaseOrderLine struct {
	ID                int64
	TenantID          int64
	PurchaseOrderID   int64
	ProductID         int64
	Quantity          int
	QuantityReceived  int
	Unit              string
	UnitPrice         float64
	Total             float64
	CostCenterID      int64
	ExpenseCategoryID int64
	CreatedAt         time.Time
}

// SalesOrder is a generated sales document header.
type SalesOrder struct {
	ID                int64
	TenantID          int64
	CustomerID        int64
	SalespersonID     int64
	TerritoryID       *int64
	ChannelID         int64
	BranchID          int64
	DepartmentID      int64
	BusinessUnitID    int64
	ProfitCenterID    int64
	RevenueCategoryID int64
	OrderedAt         time.Time
	DocumentDate      time.Time
	PostingDate       time.Time
	DueDate           time.Time
	Status            string
	Subtotal          float64
	DiscountTotal     float64
	Total             float64
	Note              string
	Description       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// SalesOrderLine is one product line of a sales order. Subtotal is the
// discounted line value; the gross is Quantity times UnitPrice.
type SalesOrderLine struct {
	ID           int64
	TenantID     int64
	SalesOrderID int64
	ProductID    int64
	ServiceID    int64
	Quantity     int
	UnitPrice    float64
	Discount     float64
	Subtotal     float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
