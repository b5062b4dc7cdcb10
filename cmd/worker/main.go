// Command worker processes queued fixture runs. A nightly cron entry
// repairs the dataset so demo drift never survives past the morning.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/aurora-erp/aurora-seed/internal/app"
	"github.com/aurora-erp/aurora-seed/internal/dates"
	"github.com/aurora-erp/aurora-seed/internal/engine"
	"github.com/aurora-erp/aurora-seed/internal/finance"
	"github.com/aurora-erp/aurora-seed/internal/platform/cache"
	"github.com/aurora-erp/aurora-seed/internal/platform/db"
	"github.com/aurora-erp/aurora-seed/internal/repair"
	"github.com/aurora-erp/aurora-seed/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.LoadEnvFiles()
	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

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

	start, err := dates.FromISO(cfg.DateStart)
	if err != nil {
		logger.Error("parse DATE_START", slog.Any("error", err))
		os.Exit(1)
	}
	end, err := dates.FromISO(cfg.DateEnd)
	if err != nil {
		logger.Error("parse DATE_END", slog.Any("error", err))
		os.Exit(1)
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
	eng := engine.New(pool, logger, lock, engine.Config{
		TenantID:      cfg.TenantID,
		Seed:          cfg.Seed,
		WindowStart:   start,
		WindowEnd:     end,
		SalesCount:    cfg.SalesCount,
		PurchaseCount: cfg.PurchaseCount,
	}).WithRunner(runner)

	repairTask, err := jobs.NewRepairTask(jobs.RepairPayload{})
	if err != nil {
		logger.Error("build repair task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers:  jobs.NewFixtureHandlers(eng, runner, logger),
		Cron: []jobs.CronRegistration{
			{Spec: "0 5 * * *", Task: repairTask, Options: []asynq.Option{asynq.MaxRetry(2)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
