package documents

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aurora-erp/aurora-seed/internal/dates"
)

// Repository persists generated documents inside the caller's
// transaction. All inserts carry explicit ids; the sequence reconciler
// realigns the serial counters afterwards.
type Repository struct{}

// NewRepository constructs a repository.
func NewRepository() *Repository {
	return &Repository{}
}

// ownedTables are truncated at the start of a destructive regeneration,
// payments first so foreign keys never dangle mid-statement.
var ownedTables = []string{
	"financeiro.pagamentos_recebidos_linhas",
	"financeiro.pagamentos_recebidos",
	"financeiro.pagamentos_efetuados_linhas",
	"financeiro.pagamentos_efetuados",
	"financeiro.contas_receber_linhas",
	"financeiro.contas_receber",
	"financeiro.contas_pagar_linhas",
	"financeiro.contas_pagar",
	"vendas.pedidos_itens",
	"vendas.pedidos",
	"compras.compras_linhas",
	"compras.compras",
}

// Truncate clears every table owned by the regeneration cycle.
func (r *Repository) Truncate(ctx context.Context, tx pgx.Tx) error {
	stmt := "TRUNCATE TABLE "
	for i, t := range ownedTables {
		if i > 0 {
			stmt += ", "
		}
		stmt += t
	}
	stmt += " RESTART IDENTITY CASCADE"
	if _, err := tx.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("documents: truncate: %w", err)
	}
	return nil
}

// InsertPurchaseOrders bulk-inserts purchase headers.
func (r *Repository) InsertPurchaseOrders(ctx context.Context, tx pgx.Tx, orders []PurchaseOrder) error {
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"compras", "compras"},
		[]string{
			"id", "tenant_id", "fornecedor_id", "filial_id", "centro_custo_id",
			"numero_oc", "data_pedido", "data_entrega_prevista", "status", "valor_total",
			"observacoes", "criado_em", "atualizado_em", "categoria_despesa_id",
			"data_documento", "data_lancamento", "data_vencimento", "departamento_id",
		},
		pgx.CopyFromSlice(len(orders), func(i int) ([]any, error) {
			o := orders[i]
			return []any{
				o.ID, o.TenantID, o.SupplierID, o.BranchID, o.CostCenterID,
				o.Number, dates.ISO(o.OrderDate), dates.ISO(o.DeliveryForecast), o.Status, o.Total,
				o.Note, o.CreatedAt, o.UpdatedAt, o.ExpenseCategoryID,
				dates.ISO(o.DocumentDate), dates.ISO(o.PostingDate), dates.ISO(o.DueDate), o.DepartmentID,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("documents: insert compras.compras: %w", err)
	}
	return nil
}

// InsertPurchaseOrderLines bulk-inserts purchase lines.
func (r *Repository) InsertPurchaseOrderLines(ctx context.Context, tx pgx.Tx, lines []PurchaseOrderLine) error {
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"compras", "compras_linhas"},
		[]string{
			"id", "tenant_id", "compra_id", "produto_id", "quantidade",
			"quantidade_recebida", "unidade_medida", "preco_unitario", "total",
			"centro_custo_id", "criado_em", "categoria_despesa_id",
		},
		pgx.CopyFromSlice(len(lines), func(i int) ([]any, error) {
			l := lines[i]
			return []any{
				l.ID, l.TenantID, l.PurchaseOrderID, l.ProductID, l.Quantity,
				l.QuantityReceived, l.Unit, l.UnitPrice, l.Total,
				l.CostCenterID, l.CreatedAt, l.ExpenseCategoryID,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("documents: insert compras.compras_linhas: %w", err)
	}
	return nil
}

// InsertSalesOrders bulk-inserts sales headers.
func (r *Repository) InsertSalesOrders(ctx context.Context, tx pgx.Tx, orders []SalesOrder) error {
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"vendas", "pedidos"},
		[]string{
			"id", "tenant_id", "cliente_id", "vendedor_id", "territorio_id",
			"canal_venda_id", "data_pedido", "status", "subtotal", "desconto_total",
			"valor_total", "criado_em", "atualizado_em", "centro_lucro_id",
			"filial_id", "unidade_negocio_id", "observacoes", "descricao",
			"categoria_receita_id", "data_documento", "data_lancamento",
			"data_vencimento", "departamento_id",
		},
		pgx.CopyFromSlice(len(orders), func(i int) ([]any, error) {
			o := orders[i]
			return []any{
				o.ID, o.TenantID, o.CustomerID, o.SalespersonID, o.TerritoryID,
				o.ChannelID, o.OrderedAt, o.Status, o.Subtotal, o.DiscountTotal,
				o.Total, o.CreatedAt, o.UpdatedAt, o.ProfitCenterID,
				o.BranchID, o.BusinessUnitID, o.Note, o.Description,
				o.RevenueCategoryID, dates.ISO(o.DocumentDate), dates.ISO(o.PostingDate),
				dates.ISO(o.DueDate), o.DepartmentID,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("documents: insert vendas.pedidos: %w", err)
	}
	return nil
}

// InsertSalesOrderLines bulk-inserts sales lines.
func (r *Repository) InsertSalesOrderLines(ctx context.Context, tx pgx.Tx, lines []SalesOrderLine) error {
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"vendas", "pedidos_itens"},
		[]string{
			"id", "tenant_id", "pedido_id", "produto_id", "quantidade",
			"preco_unitario", "desconto", "subtotal", "criado_em", "atualizado_em",
			"servico_id",
		},
		pgx.CopyFromSlice(len(lines), func(i int) ([]any, error) {
			l := lines[i]
			return []any{
				l.ID, l.TenantID, l.SalesOrderID, l.ProductID, l.Quantity,
				l.UnitPrice, l.Discount, l.Subtotal, l.CreatedAt, l.UpdatedAt,
				l.ServiceID,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("documents: insert vendas.pedidos_itens: %w", err)
	}
	return nil
}
