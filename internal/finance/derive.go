package finance

import (
	"fmt"

	"github.com/aurora-erp/aurora-seed/internal/documents"
	"github.com/aurora-erp/aurora-seed/internal/randgen"
	"github.com/aurora-erp/aurora-seed/internal/refdata"
)

// DeriveReceivables produces exactly one receivable per sales order,
// carrying the order's totals unchanged and snapshotting the customer
// name so later master-data edits cannot drift the satellite.
func DeriveReceivables(orders []documents.SalesOrder, lines []documents.SalesOrderLine, pools *refdata.Pools) ([]Receivable, []ReceivableLine) {
	linesByOrder := make(map[int64][]documents.SalesOrderLine, len(orders))
	for _, l := range lines {
		linesByOrder[l.SalesOrderID] = append(linesByOrder[l.SalesOrderID], l)
	}

	recs := make([]Receivable, 0, len(orders))
	var recLines []ReceivableLine
	lineID := int64(1)

	for _, o := range orders {
		name := "Cliente"
		if c, ok := pools.CustomerByID(o.CustomerID); ok {
			name = c.Name
		}
		rec := Receivable{
			ID:                o.ID,
			TenantID:          o.TenantID,
			Number:            fmt.Sprintf("PV-%d-%06d", o.DocumentDate.Year(), o.ID),
			Series:            "A",
			DocumentType:      "fatura",
			Currency:          "BRL",
			CustomerID:        o.CustomerID,
			CustomerSnapshot:  name,
			DocumentDate:      o.DocumentDate,
			PostingDate:       o.PostingDate,
			DueDate:           o.DueDate,
			GrossValue:        o.Total,
			DiscountValue:     0,
			TaxValue:          0,
			NetValue:          o.Total,
			Status:            StatusPending,
			DepartmentID:      o.DepartmentID,
			BranchID:          o.BranchID,
			BusinessUnitID:    o.BusinessUnitID,
			ProfitCenterID:    o.ProfitCenterID,
			RevenueCategoryID: o.RevenueCategoryID,
			Note:              fmt.Sprintf("Gerado a partir do pedido %d.", o.ID),
			CreatedAt:         o.CreatedAt,
			UpdatedAt:         o.UpdatedAt,
		}
		recs = append(recs, rec)

		for _, l := range linesByOrder[o.ID] {
			gross := randgen.Round2(float64(l.Quantity) * l.UnitPrice)
			desc := fmt.Sprintf("Item pedido %d", o.ID)
			if it, ok := pools.ItemByProductID(l.ProductID); ok {
				desc = it.Name
			}
			recLines = append(recLines, ReceivableLine{
				ID:             lineID,
				ReceivableID:   rec.ID,
				LineType:       "servico",
				ProductID:      l.ProductID,
				ServiceID:      l.ServiceID,
				Description:    desc,
				Quantity:       l.Quantity,
				UnitValue:      l.UnitPrice,
				GrossValue:     gross,
				Discount:       l.Discount,
				Taxes:          0,
				NetValue:       l.Subtotal,
				DepartmentID:   o.DepartmentID,
				BusinessUnitID: o.BusinessUnitID,
				CreatedAt:      l.CreatedAt,
			})
			lineID++
		}
	}
	return recs, recLines
}

// DerivePayables produces exactly one payable per purchase order. The
// payable keeps the order number so both sides reconcile by document.
func DerivePayables(orders []documents.PurchaseOrder, lines []documents.PurchaseOrderLine, pools *refdata.Pools) ([]Payable, []PayableLine) {
	linesByOrder := make(map[int64][]documents.PurchaseOrderLine, len(orders))
	for _, l := range lines {
		linesByOrder[l.PurchaseOrderID] = append(linesByOrder[l.PurchaseOrderID], l)
	}

	pays := make([]Payable, 0, len(orders))
	var payLines []PayableLine
	lineID := int64(1)

	for _, o := range orders {
		name := "Fornecedor"
		if s, ok := pools.SupplierByID(o.SupplierID); ok {
			name = s.Name
		}
		pay := Payable{
			ID:                o.ID,
			TenantID:          o.TenantID,
			Number:            o.Number,
			Series:            "A",
			DocumentType:      "fatura",
			Currency:          "BRL",
			SupplierID:        o.SupplierID,
			SupplierSnapshot:  name,
			DocumentDate:      o.DocumentDate,
			PostingDate:       o.PostingDate,
			DueDate:           o.DueDate,
			GrossValue:        o.Total,
			DiscountValue:     0,
			TaxValue:          0,
			NetValue:          o.Total,
			Status:            StatusPending,
			CostCenterID:      o.CostCenterID,
			DepartmentID:      o.DepartmentID,
			BranchID:          o.BranchID,
			ExpenseCategoryID: o.ExpenseCategoryID,
			Note:              fmt.Sprintf("Gerado a partir da compra %d.", o.ID),
			CreatedAt:         o.CreatedAt,
			UpdatedAt:         o.UpdatedAt,
		}
		pays = append(pays, pay)

		for _, l := range linesByOrder[o.ID] {
			desc := fmt.Sprintf("Item compra %d", o.ID)
			if it, ok := pools.ItemByProductID(l.ProductID); ok {
				desc = it.Name
			}
			payLines = append(payLines, PayableLine{
				ID:                lineID,
				PayableID:         pay.ID,
				LineType:          "despesa",
				ProductID:         l.ProductID,
				Description:       desc,
				Quantity:          l.Quantity,
				UnitValue:         l.UnitPrice,
				GrossValue:        l.Total,
				Discount:          0,
				Taxes:             0,
				NetValue:          l.Total,
				CostCenterID:      l.CostCenterID,
				DepartmentID:      o.DepartmentID,
				ExpenseCategoryID: l.ExpenseCategoryID,
				CreatedAt:         l.CreatedAt,
			})
			lineID++
		}
	}
	return pays, payLines
}
