package workflow

import (
	"testing"

	"github.com/actionsmith/actionsmith/internal/merging"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePlan_Expansion(t *testing.T) {
	cfg := &Config{
		Name:     "My Service",
		Schedule: "0 0 * * *",
		Branches: []string{"main", "develop"},
		Secrets:  map[string]string{"npm_token": "NPM_TOKEN"},
	}

	plan, err := GeneratePlan(cfg)
	require.NoError(t, err)

	assert.Equal(t, ".github/workflows/my_service_generate.yaml", plan.Path)
	assert.NotEmpty(t, plan.BaseTemplate)

	paths := lo.Map(plan.Instructions, func(i merging.Instruction, _ int) string { return i.Path })
	assert.Contains(t, paths, "on.push.branches")
	assert.Contains(t, paths, "on.schedule")
	assert.Contains(t, paths, "jobs.generate.secrets")
	assert.Contains(t, paths, "jobs.testing-section")

	for _, instr := range plan.Instructions {
		if instr.Path == "jobs.testing-section" {
			assert.Equal(t, merging.OperationPreserve, instr.Operation)
		}
		if instr.Path == "permissions" {
			assert.Equal(t, merging.OperationOverwrite, instr.Operation)
		}
	}
}

func TestGeneratePlan_NoScheduleNoScheduleInstruction(t *testing.T) {
	plan, err := GeneratePlan(&Config{Name: "svc"})
	require.NoError(t, err)

	paths := lo.Map(plan.Instructions, func(i merging.Instruction, _ int) string { return i.Path })
	assert.NotContains(t, paths, "on.schedule")
}

func TestPublishPlan_OnlyWithPublishingTargets(t *testing.T) {
	plan, err := PublishPlan(&Config{Name: "svc"})
	require.NoError(t, err)
	assert.Nil(t, plan)

	plan, err = PublishPlan(&Config{
		Name:    "svc",
		Targets: []Target{{Name: "api", Language: "go", Publish: true}},
	})
	require.NoError(t, err)
	require.NotNil(t, plan)
	assert.Equal(t, ".github/workflows/svc_publish.yaml", plan.Path)
}

func TestPlans_GenerationFirst(t *testing.T) {
	plans, err := Plans(&Config{
		Name:    "svc",
		Targets: []Target{{Name: "api", Language: "go", Publish: true}},
	})
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Contains(t, plans[0].Path, "generate")
	assert.Contains(t, plans[1].Path, "publish")
}
