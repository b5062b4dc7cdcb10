// Package sequence realigns Postgres serial counters after bulk inserts
// that carry explicit ids. Without this, the next organic insert would
// collide with a seeded id.
package sequence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Querier is the slice of pgx needed by the reconciler. Both pgxpool.Pool
// and pgx.Tx satisfy it.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Result reports one table's alignment. Skipped means the id column has
// no backing sequence; a nil LastValue means the sequence could not be
// read back after setval, which still counts as success.
type Result struct {
	Table     string  `json:"table"`
	Column    string  `json:"column"`
	Sequence  *string `json:"sequence"`
	MaxID     *int64  `json:"max_id"`
	LastValue *int64  `json:"last_value"`
	OK        bool    `json:"ok"`
	Skipped   bool    `json:"skipped"`
}

// DefaultTables are the explicit-id tables realigned after a full
// regeneration, in insert order.
var DefaultTables = []string{
	"compras.compras",
	"compras.compras_linhas",
	"vendas.pedidos",
	"vendas.pedidos_itens",
	"financeiro.contas_pagar",
	"financeiro.contas_pagar_linhas",
	"financeiro.contas_receber",
	"financeiro.contas_receber_linhas",
}

// Align points a table's id sequence at the current max id. The sequence
// is set with is_called=true so the next nextval returns max id plus one.
func Align(ctx context.Context, q Querier, table, column string) (Result, error) {
	res := Result{Table: table, Column: column}

	var seq *string
	if err := q.QueryRow(ctx, `SELECT pg_get_serial_sequence($1, $2)`, table, column).Scan(&seq); err != nil {
		return res, fmt.Errorf("sequence: resolve for %s.%s: %w", table, column, err)
	}
	if seq == nil || *seq == "" {
		res.OK = true
		res.Skipped = true
		return res, nil
	}
	res.Sequence = seq

	var maxID int64
	if err := q.QueryRow(ctx, fmt.Sprintf(`SELECT COALESCE(MAX(%s), 0)::bigint FROM %s`, column, table)).Scan(&maxID); err != nil {
		return res, fmt.Errorf("sequence: max id for %s: %w", table, err)
	}
	res.MaxID = &maxID

	base := maxID
	if base < 1 {
		base = 1
	}
	var setTo int64
	if err := q.QueryRow(ctx, `SELECT setval($1, $2, true)`, *seq, base).Scan(&setTo); err != nil {
		return res, fmt.Errorf("sequence: setval %s: %w", *seq, err)
	}

	var lastValue int64
	if err := q.QueryRow(ctx, fmt.Sprintf(`SELECT last_value::bigint FROM %s`, *seq)).Scan(&lastValue); err != nil {
		// Restricted roles may not read the sequence relation directly;
		// setval already succeeded, so treat the sync as unverifiable.
		res.OK = true
		return res, nil
	}
	res.LastValue = &lastValue
	res.OK = lastValue >= maxID
	return res, nil
}

// AlignAll aligns every table, failing fast on hard errors and on any
// verifiably stale sequence.
func AlignAll(ctx context.Context, q Querier, tables []string) ([]Result, error) {
	results := make([]Result, 0, len(tables))
	for _, table := range tables {
		res, err := Align(ctx, q, table, "id")
		if err != nil {
			return results, err
		}
		results = append(results, res)
		if !res.OK {
			return results, fmt.Errorf("sequence: %s out of sync", table)
		}
	}
	return results, nil
}
