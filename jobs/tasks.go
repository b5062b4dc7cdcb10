// Package jobs queues and processes background fixture runs through
// Asynq, so the dataset can be rebuilt on a schedule or on demand
// without holding an operator terminal open.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/aurora-erp/aurora-seed/internal/engine"
	"github.com/aurora-erp/aurora-seed/internal/repair"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeRegenerate rebuilds the full transactional dataset.
	TaskTypeRegenerate = "fixture:regenerate"
	// TaskTypeRepair runs a subset of the repair steps.
	TaskTypeRepair = "fixture:repair"
)

// RepairPayload selects which repair steps a queued run executes.
// An empty list means every step.
type RepairPayload struct {
	Steps []string `json:"steps"`
}

// NewRegenerateTask constructs the dataset regeneration task.
func NewRegenerateTask() *asynq.Task {
	return asynq.NewTask(TaskTypeRegenerate, nil)
}

// NewRepairTask constructs a repair task. Step names are validated at
// enqueue time so a typo fails fast instead of dead-lettering.
func NewRepairTask(payload RepairPayload) (*asynq.Task, error) {
	steps := payload.Steps
	if len(steps) == 0 {
		steps = repair.AllSteps
	}
	if err := repair.ValidateSteps(steps); err != nil {
		return nil, err
	}
	data, err := json.Marshal(RepairPayload{Steps: steps})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeRepair, data), nil
}

// FixtureHandlers processes the fixture task types.
type FixtureHandlers struct {
	engine *engine.Engine
	runner *repair.Runner
	logger *slog.Logger
}

func NewFixtureHandlers(eng *engine.Engine, runner *repair.Runner, logger *slog.Logger) *FixtureHandlers {
	return &FixtureHandlers{engine: eng, runner: runner, logger: logger}
}

// HandleRegenerate processes TaskTypeRegenerate tasks.
func (h *FixtureHandlers) HandleRegenerate(ctx context.Context, _ *asynq.Task) error {
	summary, err := h.engine.Regenerate(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	h.logger.Info("regeneration finished", slog.String("summary", string(raw)))
	return nil
}

// HandleRepair processes TaskTypeRepair tasks. Malformed or unknown
// payloads are not retried.
func (h *FixtureHandlers) HandleRepair(ctx context.Context, t *asynq.Task) error {
	var payload RepairPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	steps := payload.Steps
	if len(steps) == 0 {
		steps = repair.AllSteps
	}
	if err := repair.ValidateSteps(steps); err != nil {
		h.logger.Error("repair task rejected", slog.Any("error", err))
		return asynq.SkipRetry
	}
	results, err := h.runner.Run(ctx, steps)
	if err != nil {
		return err
	}
	h.logger.Info("repair finished", slog.Int("steps", len(results)))
	return nil
}
