package workflow

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/actionsmith/actionsmith/internal/cache"
	"github.com/actionsmith/actionsmith/internal/log"
	"github.com/actionsmith/actionsmith/internal/merging"
	"github.com/actionsmith/actionsmith/internal/yamlutil"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// CacheNamespace keys the change-detection records.
	CacheNamespace = "generation"

	cacheTTL       = 30 * 24 * time.Hour
	maxConcurrency = 4
)

// FileResult reports the outcome for one workflow file.
type FileResult struct {
	Path     string
	Status   merging.MergeStatus
	Warnings []merging.Warning
	Skipped  bool
}

// Options controls a generation run.
type Options struct {
	// Force bypasses the change-detection cache.
	Force bool
}

// generationRecord is the cached fingerprint of the last successful run for
// one workflow file.
type generationRecord struct {
	InputHash string `json:"input_hash"`
}

// Generator applies the expanded merge plans to the files under a repository
// root. Each plan owns its file exclusively, so plans run concurrently.
type Generator struct {
	root string
}

func NewGenerator(root string) *Generator {
	return &Generator{root: root}
}

// Run executes every plan, concurrently but bounded. A failing plan does not
// stop the others; failures are aggregated and returned alongside the results
// that did complete. Merge-level problems are not failures, they surface as
// warnings on the FileResult.
func (g *Generator) Run(ctx context.Context, plans []*Plan, opts Options) ([]FileResult, error) {
	results := make([]FileResult, len(plans))
	planErrs := make([]error, len(plans))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrency)

	for i, plan := range plans {
		eg.Go(func() error {
			result, err := g.runPlan(ctx, plan, opts)
			if err != nil {
				planErrs[i] = errors.Wrapf(err, "failed to generate %s", plan.Path)
				return nil
			}
			results[i] = *result
			return nil
		})
	}

	_ = eg.Wait()

	var merr *multierror.Error
	for _, err := range planErrs {
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	return results, merr.ErrorOrNil()
}

func (g *Generator) runPlan(ctx context.Context, plan *Plan, opts Options) (*FileResult, error) {
	logger := log.From(ctx).WithAssociatedFile(plan.Path)

	path := filepath.Join(g.root, plan.Path)

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to read existing workflow file")
	}

	inputHash, err := planFingerprint(plan, existing)
	if err != nil {
		return nil, err
	}

	record, recordCache := lastGeneration(path)
	if !opts.Force && record != nil && record.InputHash == inputHash {
		logger.Info("unchanged, skipping", zap.String("file", plan.Path))
		return &FileResult{Path: plan.Path, Status: merging.MergeStatusMerged, Skipped: true}, nil
	}

	executor, err := merging.NewExecutor(merging.BuildInput{
		ExistingContent: existing,
		BaseTemplate:    plan.BaseTemplate,
	})
	if err != nil {
		return nil, err
	}

	executor.ApplyAll(plan.Instructions)

	merged, err := executor.Finalize()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create workflows directory")
	}
	if err := os.WriteFile(path, merged.Content, 0o644); err != nil {
		return nil, errors.Wrap(err, "failed to write workflow file")
	}

	// Record the fingerprint of the output we just wrote, so an immediate
	// rerun against an untouched file is a cache hit.
	outputHash, err := planFingerprint(plan, merged.Content)
	if err != nil {
		return nil, err
	}
	if err := recordCache.Store(&generationRecord{InputHash: outputHash}); err != nil {
		logger.Warn("failed to record generation", zap.Error(err))
	}

	return &FileResult{
		Path:     plan.Path,
		Status:   merged.Status,
		Warnings: merged.Warnings,
	}, nil
}

// planFingerprint hashes everything that determines a plan's output: the base
// template, the existing document, and each instruction.
func planFingerprint(plan *Plan, existing []byte) (string, error) {
	h := sha256.New()
	fmt.Fprintf(h, "%d:", len(plan.BaseTemplate))
	h.Write(plan.BaseTemplate)
	fmt.Fprintf(h, "%d:", len(existing))
	h.Write(existing)

	for _, instr := range plan.Instructions {
		fmt.Fprintf(h, "%s|%s|%t|", instr.Path, instr.Operation, instr.Required)
		value, err := yamlutil.Marshal(instr.Value)
		if err != nil {
			return "", errors.Wrapf(err, "failed to fingerprint instruction at %s", instr.Path)
		}
		h.Write(value)
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

func lastGeneration(path string) (*generationRecord, *cache.FileCache[generationRecord]) {
	recordCache, err := cache.New[generationRecord](cache.Settings{
		Key:       path,
		Namespace: CacheNamespace,
		Duration:  cacheTTL,
	})
	if err != nil {
		return nil, nil
	}

	record, err := recordCache.Get()
	if err != nil {
		return nil, recordCache
	}

	return record, recordCache
}
