package jobs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurora-erp/aurora-seed/internal/repair"
)

func TestNewRepairTaskDefaultsToAllSteps(t *testing.T) {
	task, err := NewRepairTask(RepairPayload{})
	require.NoError(t, err)
	require.Equal(t, TaskTypeRepair, task.Type())

	var payload RepairPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, repair.AllSteps, payload.Steps)
}

func TestNewRepairTaskKeepsExplicitSteps(t *testing.T) {
	task, err := NewRepairTask(RepairPayload{Steps: []string{repair.StepDriveCleanup, repair.StepEmailSeed}})
	require.NoError(t, err)

	var payload RepairPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	require.Equal(t, []string{repair.StepDriveCleanup, repair.StepEmailSeed}, payload.Steps)
}

func TestNewRepairTaskRejectsUnknownStep(t *testing.T) {
	_, err := NewRepairTask(RepairPayload{Steps: []string{"vacuum_full"}})
	require.Error(t, err)
}

func TestNewRegenerateTaskHasNoPayload(t *testing.T) {
	task := NewRegenerateTask()
	require.Equal(t, TaskTypeRegenerate, task.Type())
	require.Empty(t, task.Payload())
}
