// Package engine drives the destructive regeneration cycle: wipe the
// owned document tables, rebuild two months of purchases and sales,
// derive the finance satellites and realign the id sequences, all inside
// one transaction.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurora-erp/aurora-seed/internal/documents"
	"github.com/aurora-erp/aurora-seed/internal/finance"
	"github.com/aurora-erp/aurora-seed/internal/platform/cache"
	"github.com/aurora-erp/aurora-seed/internal/platform/db"
	"github.com/aurora-erp/aurora-seed/internal/randgen"
	"github.com/aurora-erp/aurora-seed/internal/refdata"
	"github.com/aurora-erp/aurora-seed/internal/repair"
	"github.com/aurora-erp/aurora-seed/internal/sequence"
)

// Config bounds one regeneration run.
type Config struct {
	TenantID      int64
	Seed          uint32
	WindowStart   time.Time
	WindowEnd     time.Time
	SalesCount    int
	PurchaseCount int
}

// Engine owns the regeneration cycle. The lock is optional: without
// Redis the run proceeds unguarded. The runner, when present, finishes
// a regeneration with the finance master data and lifecycle passes so
// the rebuilt dataset carries payments instead of a wall of pendente.
type Engine struct {
	pool   *pgxpool.Pool
	log    *slog.Logger
	lock   *cache.RunLock
	runner *repair.Runner
	cfg    Config
}

func New(pool *pgxpool.Pool, log *slog.Logger, lock *cache.RunLock, cfg Config) *Engine {
	return &Engine{pool: pool, log: log, lock: lock, cfg: cfg}
}

// WithRunner attaches the repair runner used for the post-regeneration
// finance passes.
func (e *Engine) WithRunner(runner *repair.Runner) *Engine {
	e.runner = runner
	return e
}

// RunSteps executes a subset of the repair steps.
func (e *Engine) RunSteps(ctx context.Context, steps []string) (map[string]repair.StepResult, error) {
	if e.runner == nil {
		return nil, errors.New("engine: repair runner not configured")
	}
	return e.runner.Run(ctx, steps)
}

// Regenerate runs the full destructive cycle and returns the run summary.
// A concurrent run for the same tenant aborts with cache.ErrLockHeld; an
// unreachable lock backend only logs a warning.
func (e *Engine) Regenerate(ctx context.Context) (*Summary, error) {
	if e.lock != nil {
		err := e.lock.Acquire(ctx, e.cfg.TenantID)
		switch {
		case errors.Is(err, cache.ErrLockHeld):
			return nil, err
		case err != nil:
			e.log.Warn("regeneration lock unavailable, proceeding unguarded", slog.Any("error", err))
		default:
			defer func() {
				if err := e.lock.Release(context.WithoutCancel(ctx), e.cfg.TenantID); err != nil {
					e.log.Warn("release regeneration lock", slog.Any("error", err))
				}
			}()
		}
	}

	pools, err := refdata.NewRepository(e.pool).Load(ctx, e.cfg.TenantID)
	if err != nil {
		return nil, fmt.Errorf("engine: load reference data: %w", err)
	}

	src := randgen.New(e.cfg.Seed)
	pools.Catalog = refdata.PrepareCatalog(src, pools.RawProducts(), refdata.DefaultCostRules)

	buildCfg := documents.BuildConfig{
		TenantID:    e.cfg.TenantID,
		WindowStart: e.cfg.WindowStart,
		WindowEnd:   e.cfg.WindowEnd,
	}

	var summary *Summary
	err = db.WithTx(ctx, e.pool, func(tx pgx.Tx) error {
		docs := documents.NewRepository()
		if err := docs.Truncate(ctx, tx); err != nil {
			return err
		}

		purchaseCfg := buildCfg
		purchaseCfg.Count = e.cfg.PurchaseCount
		purchases, purchaseLines := documents.BuildPurchaseOrders(src, pools, purchaseCfg)
		if err := docs.InsertPurchaseOrders(ctx, tx, purchases); err != nil {
			return err
		}
		if err := docs.InsertPurchaseOrderLines(ctx, tx, purchaseLines); err != nil {
			return err
		}

		salesCfg := buildCfg
		salesCfg.Count = e.cfg.SalesCount
		sales, salesLines := documents.BuildSalesOrders(src, pools, salesCfg)
		if err := docs.InsertSalesOrders(ctx, tx, sales); err != nil {
			return err
		}
		if err := docs.InsertSalesOrderLines(ctx, tx, salesLines); err != nil {
			return err
		}

		fin := finance.NewRepository(tx)
		receivables, receivableLines := finance.DeriveReceivables(sales, salesLines, pools)
		if err := fin.InsertReceivables(ctx, receivables); err != nil {
			return err
		}
		if err := fin.InsertReceivableLines(ctx, receivableLines); err != nil {
			return err
		}
		payables, payableLines := finance.DerivePayables(purchases, purchaseLines, pools)
		if err := fin.InsertPayables(ctx, payables); err != nil {
			return err
		}
		if err := fin.InsertPayableLines(ctx, payableLines); err != nil {
			return err
		}

		seqResults, err := sequence.AlignAll(ctx, tx, sequence.DefaultTables)
		if err != nil {
			return err
		}

		summary = &Summary{
			OK:     true,
			Period: Period{Start: e.cfg.WindowStart, End: e.cfg.WindowEnd},
			Sales:  SalesCounts{Orders: len(sales), Lines: len(salesLines)},
			Purchases: PurchaseCounts{
				Orders: len(purchases), Lines: len(purchaseLines),
			},
			Finance: FinanceCounts{
				Receivables:     len(receivables),
				ReceivableLines: len(receivableLines),
				Payables:        len(payables),
				PayableLines:    len(payableLines),
			},
			SequenceSync: seqResults,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if e.runner != nil {
		steps, err := e.runner.Run(ctx, []string{repair.StepFinanceMaster, repair.StepFinanceLifecycle})
		if err != nil {
			return nil, err
		}
		summary.Steps = steps
	}

	e.log.Info("dataset regenerated",
		slog.Int("sales", summary.Sales.Orders),
		slog.Int("purchases", summary.Purchases.Orders),
		slog.String("window_start", e.cfg.WindowStart.Format("2006-01-02")),
		slog.String("window_end", e.cfg.WindowEnd.Format("2006-01-02")))
	return summary, nil
}
