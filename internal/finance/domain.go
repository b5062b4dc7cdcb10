package finance

import "time"

// Satellite record statuses as persisted. Receivables settle to
// StatusReceived, payables to StatusPaid; everything else is shared.
const (
	StatusPending  = "pendente"
	StatusOverdue  = "vencido"
	StatusCanceled = "cancelado"
	StatusReceived = "recebido"
	StatusPaid     = "pago"

	PaymentStatusConfirmed = "confirmado"
)

// Receivable is the satellite record derived from a sales order. The
// counterparty name is a snapshot taken at derivation time and is never
// re-read from the live customer row.
type Receivable struct {
	ID                int64
	TenantID          int64
	Number            string
	Series            string
	DocumentType      string
	Currency          string
	CustomerID        int64
	CustomerSnapshot  string
	DocumentDate      time.Time
	PostingDate       time.Time
	DueDate           time.Time
	GrossValue        float64
	DiscountValue     float64
	TaxValue          float64
	NetValue          float64
	Status            string
	DepartmentID      int64
	BranchID          int64
	BusinessUnitID    int64
	ProfitCenterID    int64
	RevenueCategoryID int64
	Note              string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ReceivableLine mirrors one sales order line with recomputed net values.
type ReceivableLine struct {
	ID             int64
	ReceivableID   int64
	LineType       string
	ProductID      int64
	ServiceID      int64
	Description    string
	Quantity       int
	UnitValue      float64
	GrossValue     float64
	Discount       float64
	Taxes          float64
	NetValue       float64
	DepartmentID   int64
	BusinessUnitID int64
	CreatedAt      time.Time
}

// Payable is the satellite record derived from a purchase order.
type Payable struct {
	ID                int64
	TenantID          int64
	Number            string
	Series            string
	DocumentType      string
	Currency          string
	SupplierID        int64
	SupplierSnapshot  string
	DocumentDate      time.Time
	PostingDate       time.Time
	DueDate           time.Time
	GrossValue        float64
	DiscountValue     float64
	TaxValue          float64
	NetValue          float64
	Status            string
	CostCenterID      int64
	DepartmentID      int64
	BranchID          int64
	ExpenseCategoryID int64
	Note              string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PayableLine mirrors one purchase order line.
type PayableLine struct {
	ID                int64
	PayableID         int64
	LineType          string
	ProductID         int64
	Description       string
	Quantity          int
	UnitValue         float64
	GrossValue        float64
	Discount          float64
	Taxes             float64
	NetValue          float64
	CostCenterID      int64
	DepartmentID      int64
	ExpenseCategoryID int64
	CreatedAt         time.Time
}

// PaymentKind distinguishes the two payment populations.
type PaymentKind string

const (
	KindReceipt PaymentKind = "receipt"
	KindPayment PaymentKind = "payment"
)

// Payment is a receipt (against a receivable) or payment (against a
// payable) header. Created once per paid satellite record, never mutated.
type Payment struct {
	ID          int64
	TenantID    int64
	Number      string
	PaidAt      time.Time
	PostingDate time.Time
	AccountID   int64
	MethodID    int64
	Amount      float64
	Status      string
	Note        string
}

// PaymentLine allocates the full satellite net value against the payment.
// Full settlement only: original and settled amounts are always equal and
// interest, penalty and financial discount are always zero.
type PaymentLine struct {
	ID             int64
	PaymentID      int64
	TargetID       int64
	OriginalAmount float64
	SettledAmount  float64
}

// OpenItem is the projection of a satellite record the partitioner and
// materializer operate on.
type OpenItem struct {
	ID             int64
	Number         string
	CounterpartyID int64
	DocumentDate   time.Time
	DueDate        time.Time
	NetValue       float64
}

// Ratios are the lifecycle partition targets for one population.
type Ratios struct {
	Cancel  float64
	Paid    float64
	Overdue float64
}
