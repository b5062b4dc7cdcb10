// Command auroraseed rebuilds and repairs the demo tenant's
// transactional dataset. The default run regenerates everything;
// -steps selects individual repair passes instead.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurora-erp/aurora-seed/internal/app"
	"github.com/aurora-erp/aurora-seed/internal/dates"
	"github.com/aurora-erp/aurora-seed/internal/engine"
	"github.com/aurora-erp/aurora-seed/internal/finance"
	"github.com/aurora-erp/aurora-seed/internal/platform/cache"
	"github.com/aurora-erp/aurora-seed/internal/platform/db"
	"github.com/aurora-erp/aurora-seed/internal/repair"
)

const stepRegenerate = "regenerate"

func main() {
	stepsFlag := flag.String("steps", stepRegenerate,
		"comma separated steps: regenerate, "+strings.Join(repair.AllSteps, ", "))
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.LoadEnvFiles()
	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	regenerate, repairSteps, err := splitSteps(*stepsFlag)
	if err != nil {
		logger.Error("parse steps", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	var lock *cache.RunLock
	if client, err := cache.New(ctx, cfg.RedisAddr); err != nil {
		logger.Warn("redis unavailable, running without lock", slog.Any("error", err))
	} else {
		defer client.Close()
		lock = cache.NewRunLock(client, 10*time.Minute)
	}

	today, err := dates.FromISO(cfg.Today)
	if err != nil {
		logger.Error("parse TODAY", slog.Any("error", err))
		os.Exit(1)
	}

	runner := repair.NewRunner(pool, logger, repair.RunnerConfig{
		TenantID: cfg.TenantID,
		Seed:     cfg.RepairSeed,
		Today:    today,
		AR:       finance.Ratios{Cancel: cfg.ARCancelRatio, Paid: cfg.ARPaidRatio, Overdue: cfg.AROverdueRatio},
		AP:       finance.Ratios{Cancel: cfg.APCancelRatio, Paid: cfg.APPaidRatio, Overdue: cfg.APOverdueRatio},
	})

	if regenerate {
		summary, err := runRegenerate(ctx, cfg, logger, pool, lock, runner)
		if err != nil {
			logger.Error("regenerate", slog.Any("error", err))
			os.Exit(1)
		}
		printJSON(summary)
	}

	if len(repairSteps) > 0 {
		results, err := runner.Run(ctx, repairSteps)
		if err != nil {
			logger.Error("repair", slog.Any("error", err))
			os.Exit(1)
		}
		printJSON(results)
	}
}

func runRegenerate(ctx context.Context, cfg *app.Config, logger *slog.Logger, pool *pgxpool.Pool, lock *cache.RunLock, runner *repair.Runner) (*engine.Summary, error) {
	start, err := dates.FromISO(cfg.DateStart)
	if err != nil {
		return nil, err
	}
	end, err := dates.FromISO(cfg.DateEnd)
	if err != nil {
		return nil, err
	}
	eng := engine.New(pool, logger, lock, engine.Config{
		TenantID:      cfg.TenantID,
		Seed:          cfg.Seed,
		WindowStart:   start,
		WindowEnd:     end,
		SalesCount:    cfg.SalesCount,
		PurchaseCount: cfg.PurchaseCount,
	}).WithRunner(runner)
	return eng.Regenerate(ctx)
}

// splitSteps separates the regenerate pseudo-step from the repair steps
// and rejects anything unknown.
func splitSteps(raw string) (bool, []string, error) {
	var regenerate bool
	var repairSteps []string
	for _, part := range strings.Split(raw, ",") {
		step := strings.TrimSpace(part)
		if step == "" {
			continue
		}
		if step == stepRegenerate {
			regenerate = true
			continue
		}
		repairSteps = append(repairSteps, step)
	}
	if err := repair.ValidateSteps(repairSteps); err != nil {
		return false, nil, err
	}
	if !regenerate && len(repairSteps) == 0 {
		return false, nil, fmt.Errorf("no steps selected")
	}
	return regenerate, repairSteps, nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		slog.Default().Error("encode summary", slog.Any("error", err))
	}
}
