package workflow

import (
	"sort"

	"github.com/actionsmith/actionsmith/internal/merging"
	"github.com/actionsmith/actionsmith/internal/yamlutil"
	"github.com/iancoleman/strcase"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Plan is the expansion of one workflow file: where it lives, what it starts
// from when absent, and the ordered merge instructions that shape it.
type Plan struct {
	// Path is relative to the repository root.
	Path         string
	BaseTemplate []byte
	Instructions []merging.Instruction
}

// GeneratePlan expands the pipeline config into the merge plan for the
// generation workflow.
func GeneratePlan(cfg *Config) (*Plan, error) {
	branches, err := yamlutil.FromValue(cfg.EffectiveBranches())
	if err != nil {
		return nil, err
	}

	secrets, err := generateSecrets(cfg)
	if err != nil {
		return nil, err
	}

	with, err := yamlutil.FromValue(map[string]any{
		"force": "${{ github.event.inputs.force }}",
		"mode":  cfg.EffectiveMode(),
	})
	if err != nil {
		return nil, err
	}

	permissions, err := yamlutil.FromValue(map[string]string{
		"checks":        githubWritePermission,
		"statuses":      githubWritePermission,
		"contents":      githubWritePermission,
		"pull-requests": githubWritePermission,
	})
	if err != nil {
		return nil, err
	}

	instructions := []merging.Instruction{
		{Path: "name", Operation: merging.OperationSet, Value: yamlutil.NewScalar("Generate"), Required: true},
		{Path: "on.push.branches", Operation: merging.OperationMerge, Value: branches, Required: true},
		{Path: "permissions", Operation: merging.OperationOverwrite, Value: permissions, Required: true},
		{Path: "jobs.generate.uses", Operation: merging.OperationSet, Value: yamlutil.NewScalar(generateActionRef), Required: true},
		{Path: "jobs.generate.with", Operation: merging.OperationMerge, Value: with, Required: true},
		{Path: "jobs.generate.secrets", Operation: merging.OperationMerge, Value: secrets, Required: true},
		// Seeded once, then owned by the user.
		{Path: "jobs.testing-section", Operation: merging.OperationPreserve, Value: yamlutil.NewMappingFromPairs("if", "false"), Required: true},
	}

	if cfg.Schedule != "" {
		schedule, err := yamlutil.FromValue([]map[string]string{{"cron": cfg.Schedule}})
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, merging.Instruction{
			Path: "on.schedule", Operation: merging.OperationMerge, Value: schedule, Required: true,
		})
	}

	return &Plan{
		Path:         workflowPath(cfg.Name, "generate"),
		BaseTemplate: []byte(defaultGenerateTemplate),
		Instructions: instructions,
	}, nil
}

// PublishPlan expands the pipeline config into the merge plan for the publish
// workflow, or nil when no target publishes.
func PublishPlan(cfg *Config) (*Plan, error) {
	targets := cfg.PublishingTargets()
	if len(targets) == 0 {
		return nil, nil
	}

	branches, err := yamlutil.FromValue(cfg.EffectiveBranches())
	if err != nil {
		return nil, err
	}

	paths, err := yamlutil.FromValue([]string{"RELEASES.md", "*/RELEASES.md"})
	if err != nil {
		return nil, err
	}

	secrets, err := generateSecrets(cfg)
	if err != nil {
		return nil, err
	}

	with, err := yamlutil.FromValue(map[string]any{
		"targets": lo.Map(targets, func(t Target, _ int) string { return t.Name }),
	})
	if err != nil {
		return nil, err
	}

	permissions, err := yamlutil.FromValue(map[string]string{
		"checks":        githubWritePermission,
		"statuses":      githubWritePermission,
		"contents":      githubWritePermission,
		"pull-requests": githubWritePermission,
	})
	if err != nil {
		return nil, err
	}

	instructions := []merging.Instruction{
		{Path: "name", Operation: merging.OperationSet, Value: yamlutil.NewScalar("Publish"), Required: true},
		{Path: "on.push.branches", Operation: merging.OperationMerge, Value: branches, Required: true},
		{Path: "on.push.paths", Operation: merging.OperationMerge, Value: paths, Required: true},
		{Path: "permissions", Operation: merging.OperationOverwrite, Value: permissions, Required: true},
		{Path: "jobs.publish.uses", Operation: merging.OperationSet, Value: yamlutil.NewScalar(publishActionRef), Required: true},
		{Path: "jobs.publish.with", Operation: merging.OperationMerge, Value: with, Required: true},
		{Path: "jobs.publish.secrets", Operation: merging.OperationMerge, Value: secrets, Required: true},
	}

	return &Plan{
		Path:         workflowPath(cfg.Name, "publish"),
		BaseTemplate: []byte(defaultPublishTemplate),
		Instructions: instructions,
	}, nil
}

// Plans returns every plan the config expands to, generation first.
func Plans(cfg *Config) ([]*Plan, error) {
	generate, err := GeneratePlan(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to expand generation plan")
	}

	publish, err := PublishPlan(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to expand publish plan")
	}

	plans := []*Plan{generate}
	if publish != nil {
		plans = append(plans, publish)
	}

	return plans, nil
}

// generateSecrets collects the workflow secret references: the fixed pair every
// workflow carries plus the user's configured ones, in deterministic order.
func generateSecrets(cfg *Config) (*yaml.Node, error) {
	names := map[string]string{
		"github_access_token": secretRef(githubTokenSecretName),
		"api_key":             secretRef(apiKeySecretName),
	}
	for name, secret := range cfg.Secrets {
		names[strcase.ToSnake(name)] = secretRef(secret)
	}

	keys := lo.Keys(names)
	sort.Strings(keys)

	keyVals := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		keyVals = append(keyVals, k, names[k])
	}

	return yamlutil.NewMappingFromPairs(keyVals...), nil
}

func secretRef(name string) string {
	return "${{ secrets." + name + " }}"
}

func workflowPath(name, kind string) string {
	return ".github/workflows/" + strcase.ToSnake(name) + "_" + kind + ".yaml"
}
