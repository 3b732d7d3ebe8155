package merging

import (
	"github.com/actionsmith/actionsmith/internal/yamlutil"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// BuildInput carries the document sources for one executor run. ExistingContent
// takes precedence over ExistingTree when both are supplied; BaseTemplate is
// used only when neither is present.
type BuildInput struct {
	// ExistingContent is the raw text of a document already on disk.
	ExistingContent []byte
	// ExistingTree is an already-parsed representation (maps, slices, structs)
	// from a prior in-memory step. It is normalized into the same node tree the
	// text path produces, so downstream code never branches on input form.
	ExistingTree any
	// BaseTemplate synthesizes a fresh document when nothing exists yet.
	BaseTemplate []byte
}

// Executor owns one document tree from build to finalize and applies a merge
// plan against it sequentially. It is single-use: construct, apply, finalize.
type Executor struct {
	doc      *yaml.Node
	status   MergeStatus
	warnings []Warning
}

// NewExecutor builds the document tree and fixes the merge status. The status
// is captured here, before any instruction runs, so content introduced by
// instructions can never retroactively count as pre-existing.
func NewExecutor(in BuildInput) (*Executor, error) {
	doc, status, err := buildTree(in)
	if err != nil {
		return nil, err
	}

	return &Executor{doc: doc, status: status}, nil
}

func buildTree(in BuildInput) (*yaml.Node, MergeStatus, error) {
	switch {
	case len(in.ExistingContent) > 0:
		doc, err := yamlutil.Parse(in.ExistingContent)
		if err != nil {
			return nil, "", err
		}
		return doc, MergeStatusMerged, nil

	case in.ExistingTree != nil:
		doc, err := yamlutil.NormalizeValue(in.ExistingTree)
		if err != nil {
			return nil, "", errors.Wrap(err, "failed to normalize existing structure")
		}
		return doc, MergeStatusMerged, nil

	default:
		doc, err := yamlutil.Parse(in.BaseTemplate)
		if err != nil {
			return nil, "", err
		}
		return doc, MergeStatusOverwritten, nil
	}
}

// Apply executes a single instruction against the tree. Structural conflicts
// and unsupported merge shapes recover via template-wins and are recorded as
// warnings; only resolution against a broken root aborts the instruction.
func (e *Executor) Apply(instr Instruction) {
	location := Resolve(e.doc, instr.Path)

	existing, err := location.Get()
	if err != nil {
		// The path traverses a non-mapping node. Template wins for this
		// subtree: rebuild the intermediate containers over it. A non-required
		// instruction skips instead, before any mutation, so the skip is a
		// true no-op.
		e.warn(instr.Path, err.Error())
		if !instr.Required {
			return
		}
		if !replaceConflictingSegment(e.doc, location) {
			return
		}
		existing = nil
	}

	// The gate: required controls whether the instruction is evaluated at all,
	// never which operation semantics apply.
	if !instr.Required && existing == nil {
		return
	}

	parent, err := location.Ensure()
	if err != nil {
		e.warn(instr.Path, err.Error())
		return
	}

	result, warnings := applyOperation(existing, instr.Value, instr.Operation, instr.Path)
	e.warnings = append(e.warnings, warnings...)

	yamlutil.MapSet(parent, location.LeafKey(), result)
}

// ApplyAll executes the plan in order; later instructions observe structure
// created by earlier ones.
func (e *Executor) ApplyAll(instructions []Instruction) {
	for _, instr := range instructions {
		e.Apply(instr)
	}
}

// Finalize serializes the tree. The executor's tree is emitted with a fixed
// 2-space indent and deterministic (document) order, which is what makes
// repeated runs byte-stable.
func (e *Executor) Finalize() (*Result, error) {
	content, err := yamlutil.Marshal(e.doc)
	if err != nil {
		return nil, err
	}

	return &Result{
		Content:  content,
		Status:   e.status,
		Warnings: e.warnings,
	}, nil
}

// Warnings returns the warnings accumulated so far.
func (e *Executor) Warnings() []Warning {
	return e.warnings
}

func (e *Executor) warn(path, reason string) {
	e.warnings = append(e.warnings, Warning{Path: path, Reason: reason})
}

// replaceConflictingSegment clears the first non-mapping node along the
// location's path so Ensure can rebuild mapping containers beneath it. Returns
// false when the document root itself is not a mapping, which is unrecoverable
// per-instruction.
func replaceConflictingSegment(doc *yaml.Node, location *Location) bool {
	current := yamlutil.Root(doc)
	if current.Kind != yaml.MappingNode {
		return false
	}

	for _, segment := range location.segments[:len(location.segments)-1] {
		next := yamlutil.MapGet(current, segment)
		if next == nil {
			return true
		}
		if next.Kind != yaml.MappingNode {
			yamlutil.MapSet(current, segment, yamlutil.NewMapping())
			return true
		}
		current = next
	}

	return true
}
