package repair

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurora-erp/aurora-seed/internal/finance"
	"github.com/aurora-erp/aurora-seed/internal/platform/db"
	"github.com/aurora-erp/aurora-seed/internal/randgen"
)

// Step names, in canonical execution order.
const (
	StepFinanceMaster    = "finance_master"
	StepFinanceLifecycle = "finance_lifecycle"
	StepCRMOrphans       = "crm_orphans"
	StepDriveCleanup     = "drive_cleanup"
	StepEmailSeed        = "email_seed"
)

// AllSteps lists every repair step in execution order.
var AllSteps = []string{
	StepFinanceMaster,
	StepFinanceLifecycle,
	StepCRMOrphans,
	StepDriveCleanup,
	StepEmailSeed,
}

// StepResult wraps one step's outcome for the run summary.
type StepResult struct {
	Success bool `json:"success"`
	Result  any  `json:"result"`
}

// RunnerConfig bounds one repair run.
type RunnerConfig struct {
	TenantID int64
	Seed     uint32
	Today    time.Time
	AR       finance.Ratios
	AP       finance.Ratios
}

// Runner executes repair steps, each in its own transaction so one
// failing step never poisons the others.
type Runner struct {
	pool *pgxpool.Pool
	log  *slog.Logger
	cfg  RunnerConfig
}

func NewRunner(pool *pgxpool.Pool, log *slog.Logger, cfg RunnerConfig) *Runner {
	return &Runner{pool: pool, log: log, cfg: cfg}
}

// ValidateSteps rejects unknown step names before any work starts.
func ValidateSteps(steps []string) error {
	known := make(map[string]bool, len(AllSteps))
	for _, s := range AllSteps {
		known[s] = true
	}
	for _, s := range steps {
		if !known[s] {
			return fmt.Errorf("repair: unknown step %q", s)
		}
	}
	return nil
}

// Run executes the named steps in the order given. A single shared
// deterministic source spans the whole run, so step order changes draws.
func (r *Runner) Run(ctx context.Context, steps []string) (map[string]StepResult, error) {
	if err := ValidateSteps(steps); err != nil {
		return nil, err
	}

	src := randgen.New(r.cfg.Seed)
	results := make(map[string]StepResult, len(steps))

	for _, step := range steps {
		start := time.Now()
		result, err := r.runStep(ctx, step, src)
		if err != nil {
			return results, fmt.Errorf("repair: step %s: %w", step, err)
		}
		results[step] = StepResult{Success: true, Result: result}
		r.log.Info("repair step done", slog.String("step", step), slog.Duration("took", time.Since(start)))
	}
	return results, nil
}

func (r *Runner) runStep(ctx context.Context, step string, src *randgen.Source) (any, error) {
	var result any
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		switch step {
		case StepFinanceMaster:
			result, err = EnsureFinanceMasterData(ctx, tx, r.cfg.TenantID)
		case StepFinanceLifecycle:
			// Master data is re-ensured inside the same transaction so the
			// lifecycle never sees a half-provisioned account set.
			if _, err = EnsureFinanceMasterData(ctx, tx, r.cfg.TenantID); err != nil {
				return err
			}
			svc := finance.NewService(finance.NewRepository(tx), r.log)
			result, err = svc.Run(ctx, src, finance.LifecycleConfig{
				TenantID: r.cfg.TenantID,
				Today:    r.cfg.Today,
				AR:       r.cfg.AR,
				AP:       r.cfg.AP,
			})
		case StepCRMOrphans:
			result, err = FixCRMOrphans(ctx, tx, r.cfg.TenantID)
		case StepDriveCleanup:
			result, err = CleanupDrive(ctx, tx, r.cfg.TenantID)
		case StepEmailSeed:
			result, err = SeedMailbox(ctx, tx, src, r.cfg.TenantID, r.cfg.Today)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
