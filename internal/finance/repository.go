package finance

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aurora-erp/aurora-seed/internal/dates"
)

// Repository is the pgx implementation of RepositoryPort plus the bulk
// derivation inserts. It is bound to one transaction.
type Repository struct {
	tx pgx.Tx
}

func NewRepository(tx pgx.Tx) *Repository {
	return &Repository{tx: tx}
}

// InsertReceivables bulk-inserts receivable headers with explicit ids.
func (r *Repository) InsertReceivables(ctx context.Context, recs []Receivable) error {
	_, err := r.tx.CopyFrom(ctx,
		pgx.Identifier{"financeiro", "contas_receber"},
		[]string{
			"id", "tenant_id", "numero_documento", "serie_documento", "tipo_documento",
			"moeda", "cliente_id", "nome_cliente_snapshot", "data_documento",
			"data_lancamento", "data_vencimento", "valor_bruto", "valor_desconto",
			"valor_impostos", "valor_liquido", "status", "categoria_financeira_id",
			"centro_custo_id", "departamento_id", "projeto_id", "filial_id",
			"unidade_negocio_id", "observacao", "lancamento_contabil_id", "criado_em",
			"atualizado_em", "criado_por", "centro_lucro_id", "categoria_receita_id",
		},
		pgx.CopyFromSlice(len(recs), func(i int) ([]any, error) {
			c := recs[i]
			return []any{
				c.ID, c.TenantID, c.Number, c.Series, c.DocumentType,
				c.Currency, c.CustomerID, c.CustomerSnapshot, dates.ISO(c.DocumentDate),
				dates.ISO(c.PostingDate), dates.ISO(c.DueDate), c.GrossValue, c.DiscountValue,
				c.TaxValue, c.NetValue, c.Status, nil,
				nil, c.DepartmentID, nil, c.BranchID,
				c.BusinessUnitID, c.Note, nil, c.CreatedAt,
				c.UpdatedAt, nil, c.ProfitCenterID, c.RevenueCategoryID,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("finance: insert contas_receber: %w", err)
	}
	return nil
}

// InsertReceivableLines bulk-inserts receivable lines.
func (r *Repository) InsertReceivableLines(ctx context.Context, lines []ReceivableLine) error {
	_, err := r.tx.CopyFrom(ctx,
		pgx.Identifier{"financeiro", "contas_receber_linhas"},
		[]string{
			"id", "conta_receber_id", "tipo_linha", "produto_id", "servico_id",
			"descricao", "quantidade", "valor_unitario", "valor_bruto", "desconto",
			"impostos", "valor_liquido", "categoria_financeira_id", "centro_custo_id",
			"departamento_id", "projeto_id", "unidade_negocio_id", "criado_em",
		},
		pgx.CopyFromSlice(len(lines), func(i int) ([]any, error) {
			l := lines[i]
			return []any{
				l.ID, l.ReceivableID, l.LineType, l.ProductID, l.ServiceID,
				l.Description, l.Quantity, l.UnitValue, l.GrossValue, l.Discount,
				l.Taxes, l.NetValue, nil, nil,
				l.DepartmentID, nil, l.BusinessUnitID, l.CreatedAt,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("finance: insert contas_receber_linhas: %w", err)
	}
	return nil
}

// InsertPayables bulk-inserts payable headers with explicit ids.
func (r *Repository) InsertPayables(ctx context.Context, pays []Payable) error {
	_, err := r.tx.CopyFrom(ctx,
		pgx.Identifier{"financeiro", "contas_pagar"},
		[]string{
			"id", "tenant_id", "numero_documento", "serie_documento", "tipo_documento",
			"moeda", "fornecedor_id", "nome_fornecedor_snapshot", "data_documento",
			"data_lancamento", "data_vencimento", "valor_bruto", "valor_desconto",
			"valor_impostos", "valor_liquido", "status", "categoria_financeira_id",
			"centro_custo_id", "departamento_id", "projeto_id", "filial_id",
			"unidade_negocio_id", "observacao", "criado_em", "atualizado_em",
			"criado_por", "categoria_despesa_id", "lancamento_contabil_id", "conta_financeira_id",
		},
		pgx.CopyFromSlice(len(pays), func(i int) ([]any, error) {
			c := pays[i]
			return []any{
				c.ID, c.TenantID, c.Number, c.Series, c.DocumentType,
				c.Currency, c.SupplierID, c.SupplierSnapshot, dates.ISO(c.DocumentDate),
				dates.ISO(c.PostingDate), dates.ISO(c.DueDate), c.GrossValue, c.DiscountValue,
				c.TaxValue, c.NetValue, c.Status, nil,
				c.CostCenterID, c.DepartmentID, nil, c.BranchID,
				nil, c.Note, c.CreatedAt, c.UpdatedAt,
				nil, c.ExpenseCategoryID, nil, nil,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("finance: insert contas_pagar: %w", err)
	}
	return nil
}

// InsertPayableLines bulk-inserts payable lines.
func (r *Repository) InsertPayableLines(ctx context.Context, lines []PayableLine) error {
	_, err := r.tx.CopyFrom(ctx,
		pgx.Identifier{"financeiro", "contas_pagar_linhas"},
		[]string{
			"id", "conta_pagar_id", "tipo_linha", "produto_id", "servico_id",
			"descricao", "quantidade", "valor_unitario", "valor_bruto", "desconto",
			"impostos", "valor_liquido", "categoria_financeira_id", "centro_custo_id",
			"departamento_id", "projeto_id", "criado_em", "categoria_despesa_id",
			"unidade_negocio_id",
		},
		pgx.CopyFromSlice(len(lines), func(i int) ([]any, error) {
			l := lines[i]
			return []any{
				l.ID, l.PayableID, l.LineType, l.ProductID, nil,
				l.Description, l.Quantity, l.UnitValue, l.GrossValue, l.Discount,
				l.Taxes, l.NetValue, nil, l.CostCenterID,
				l.DepartmentID, nil, l.CreatedAt, l.ExpenseCategoryID,
				nil,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("finance: insert contas_pagar_linhas: %w", err)
	}
	return nil
}

func (r *Repository) DeleteReceipts(ctx context.Context, tenantID int64) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM financeiro.pagamentos_recebidos_linhas
		WHERE pagamento_id IN (SELECT id FROM financeiro.pagamentos_recebidos WHERE tenant_id = $1)`, tenantID); err != nil {
		return fmt.Errorf("finance: delete receipt lines: %w", err)
	}
	if _, err := r.tx.Exec(ctx, `DELETE FROM financeiro.pagamentos_recebidos WHERE tenant_id = $1`, tenantID); err != nil {
		return fmt.Errorf("finance: delete receipts: %w", err)
	}
	return nil
}

func (r *Repository) DeletePaymentsMade(ctx context.Context, tenantID int64) error {
	if _, err := r.tx.Exec(ctx, `DELETE FROM financeiro.pagamentos_efetuados_linhas
		WHERE pagamento_id IN (SELECT id FROM financeiro.pagamentos_efetuados WHERE tenant_id = $1)`, tenantID); err != nil {
		return fmt.Errorf("finance: delete payment lines: %w", err)
	}
	if _, err := r.tx.Exec(ctx, `DELETE FROM financeiro.pagamentos_efetuados WHERE tenant_id = $1`, tenantID); err != nil {
		return fmt.Errorf("finance: delete payments: %w", err)
	}
	return nil
}

func (r *Repository) ListReceivables(ctx context.Context, tenantID int64) ([]OpenItem, error) {
	return r.listOpenItems(ctx, `SELECT id, numero_documento, cliente_id, data_documento, data_vencimento, valor_liquido
		FROM financeiro.contas_receber
		WHERE tenant_id = $1
		ORDER BY data_vencimento ASC, id ASC`, tenantID)
}

func (r *Repository) ListPayables(ctx context.Context, tenantID int64) ([]OpenItem, error) {
	return r.listOpenItems(ctx, `SELECT id, numero_documento, fornecedor_id, data_documento, data_vencimento, valor_liquido
		FROM financeiro.contas_pagar
		WHERE tenant_id = $1
		ORDER BY data_vencimento ASC, id ASC`, tenantID)
}

func (r *Repository) listOpenItems(ctx context.Context, query string, tenantID int64) ([]OpenItem, error) {
	rows, err := r.tx.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("finance: list open items: %w", err)
	}
	defer rows.Close()

	var items []OpenItem
	for rows.Next() {
		var it OpenItem
		if err := rows.Scan(&it.ID, &it.Number, &it.CounterpartyID, &it.DocumentDate, &it.DueDate, &it.NetValue); err != nil {
			return nil, fmt.Errorf("finance: scan open item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *Repository) ResetReceivables(ctx context.Context, tenantID int64) error {
	_, err := r.tx.Exec(ctx, `UPDATE financeiro.contas_receber SET status = 'pendente', atualizado_em = now() WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return fmt.Errorf("finance: reset receivables: %w", err)
	}
	return nil
}

func (r *Repository) ResetPayables(ctx context.Context, tenantID int64) error {
	_, err := r.tx.Exec(ctx, `UPDATE financeiro.contas_pagar SET status = 'pendente', atualizado_em = now() WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return fmt.Errorf("finance: reset payables: %w", err)
	}
	return nil
}

func (r *Repository) MarkReceivables(ctx context.Context, ids []int64, status string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.tx.Exec(ctx, `UPDATE financeiro.contas_receber
		SET status = $1, atualizado_em = now()
		WHERE id = ANY($2::bigint[])`, status, ids)
	if err != nil {
		return fmt.Errorf("finance: mark receivables %s: %w", status, err)
	}
	return nil
}

func (r *Repository) MarkPayables(ctx context.Context, ids []int64, status string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.tx.Exec(ctx, `UPDATE financeiro.contas_pagar
		SET status = $1, atualizado_em = now()
		WHERE id = ANY($2::bigint[])`, status, ids)
	if err != nil {
		return fmt.Errorf("finance: mark payables %s: %w", status, err)
	}
	return nil
}

func (r *Repository) MarkPayablesPaid(ctx context.Context, ids []int64, accountID int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.tx.Exec(ctx, `UPDATE financeiro.contas_pagar
		SET status = 'pago', conta_financeira_id = $1, atualizado_em = now()
		WHERE id = ANY($2::bigint[])`, accountID, ids)
	if err != nil {
		return fmt.Errorf("finance: mark payables paid: %w", err)
	}
	return nil
}

// InsertReceipts writes receipt headers and allocation lines in one batch.
func (r *Repository) InsertReceipts(ctx context.Context, payments []Payment, lines []PaymentLine) error {
	batch := &pgx.Batch{}
	for _, p := range payments {
		batch.Queue(`INSERT INTO financeiro.pagamentos_recebidos
			(id, tenant_id, numero_pagamento, data_recebimento, data_lancamento, conta_financeira_id, metodo_pagamento_id, valor_total_recebido, status, observacao, criado_em, atualizado_em)
			VALUES ($1, $2, $3, $4, $4, $5, $6, $7, $8, $9, now(), now())`,
			p.ID, p.TenantID, p.Number, dates.ISO(p.PaidAt), p.AccountID, p.MethodID, p.Amount, p.Status, p.Note)
	}
	for _, l := range lines {
		batch.Queue(`INSERT INTO financeiro.pagamentos_recebidos_linhas
			(id, pagamento_id, conta_receber_id, valor_original_documento, valor_recebido, saldo_apos_recebimento, desconto_financeiro, juros, multa, criado_em)
			VALUES ($1, $2, $3, $4, $5, 0, 0, 0, 0, now())`,
			l.ID, l.PaymentID, l.TargetID, l.OriginalAmount, l.SettledAmount)
	}
	if err := r.tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("finance: insert receipts: %w", err)
	}
	return nil
}

// InsertPaymentsMade writes payment headers and allocation lines in one batch.
func (r *Repository) InsertPaymentsMade(ctx context.Context, payments []Payment, lines []PaymentLine) error {
	batch := &pgx.Batch{}
	for _, p := range payments {
		batch.Queue(`INSERT INTO financeiro.pagamentos_efetuados
			(id, tenant_id, numero_pagamento, data_pagamento, data_lancamento, conta_financeira_id, metodo_pagamento_id, valor_total_pagamento, status, observacao, criado_em, atualizado_em)
			VALUES ($1, $2, $3, $4, $4, $5, $6, $7, $8, $9, now(), now())`,
			p.ID, p.TenantID, p.Number, dates.ISO(p.PaidAt), p.AccountID, p.MethodID, p.Amount, p.Status, p.Note)
	}
	for _, l := range lines {
		batch.Queue(`INSERT INTO financeiro.pagamentos_efetuados_linhas
			(id, pagamento_id, conta_pagar_id, valor_original_documento, valor_pago, saldo_apos_pagamento, desconto_financeiro, juros, multa, criado_em)
			VALUES ($1, $2, $3, $4, $5, 0, 0, 0, 0, now())`,
			l.ID, l.PaymentID, l.TargetID, l.OriginalAmount, l.SettledAmount)
	}
	if err := r.tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("finance: insert payments made: %w", err)
	}
	return nil
}

func (r *Repository) NextReceiptIDs(ctx context.Context) (int64, int64, error) {
	return r.nextIDs(ctx, "financeiro.pagamentos_recebidos", "financeiro.pagamentos_recebidos_linhas")
}

func (r *Repository) NextPaymentIDs(ctx context.Context) (int64, int64, error) {
	return r.nextIDs(ctx, "financeiro.pagamentos_efetuados", "financeiro.pagamentos_efetuados_linhas")
}

func (r *Repository) nextIDs(ctx context.Context, headTable, lineTable string) (int64, int64, error) {
	var headID, lineID int64
	if err := r.tx.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM `+headTable).Scan(&headID); err != nil {
		return 0, 0, fmt.Errorf("finance: next id for %s: %w", headTable, err)
	}
	if err := r.tx.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM `+lineTable).Scan(&lineID); err != nil {
		return 0, 0, fmt.Errorf("finance: next id for %s: %w", lineTable, err)
	}
	return headID, lineID, nil
}

func (r *Repository) ListAccountIDs(ctx context.Context, tenantID int64) ([]int64, error) {
	return r.listIDs(ctx, `SELECT id FROM financeiro.contas_financeiras WHERE tenant_id = $1 AND ativo ORDER BY id`, tenantID)
}

func (r *Repository) ListMethodIDs(ctx context.Context, tenantID int64) ([]int64, error) {
	return r.listIDs(ctx, `SELECT id FROM financeiro.metodos_pagamento WHERE tenant_id = $1 AND ativo ORDER BY id`, tenantID)
}

func (r *Repository) listIDs(ctx context.Context, query string, tenantID int64) ([]int64, error) {
	rows, err := r.tx.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("finance: list ids: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("finance: scan id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
