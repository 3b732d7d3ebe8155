package merging

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Operation selects how a desired value is combined with the value already
// present at an instruction's path.
type Operation string

const (
	// OperationSet writes the desired value unconditionally.
	OperationSet Operation = "set"
	// OperationOverwrite writes the desired value unconditionally. Identical to
	// set at the leaf level; kept distinct so plans can state intent ("must
	// always match the template" vs "must be established").
	OperationOverwrite Operation = "overwrite"
	// OperationMerge structurally combines the desired value with an existing
	// one: sequences union, mappings merge key-wise, anything else is replaced.
	OperationMerge Operation = "merge"
	// OperationPreserve keeps an existing value untouched and only writes the
	// desired value when the path is absent.
	OperationPreserve Operation = "preserve"
)

// MergeStatus classifies whether a generation run had prior user content.
type MergeStatus string

const (
	// MergeStatusMerged indicates an existing document was supplied at build
	// time, whether as text or as a pre-parsed structure.
	MergeStatusMerged MergeStatus = "merged"
	// MergeStatusOverwritten indicates no existing document was supplied and
	// the output was synthesized from the base template.
	MergeStatusOverwritten MergeStatus = "overwritten"
)

// Instruction describes one desired effect on the document tree. Path segments
// are mapping keys separated by dots; sequence indices are not addressable,
// merges operate on whole sequences found at a mapping key.
type Instruction struct {
	Path      string
	Operation Operation
	Value     *yaml.Node
	Required  bool
}

// Warning records a recovered, non-fatal condition at a specific path.
type Warning struct {
	Path   string
	Reason string
}

// Result is the finalized output of executing a merge plan.
type Result struct {
	Content  []byte
	Status   MergeStatus
	Warnings []Warning
}

// StructuralConflictError reports a path traversal that hit a non-mapping node
// where a mapping was expected.
type StructuralConflictError struct {
	Path    string
	Segment string
	Kind    string
}

func (e *StructuralConflictError) Error() string {
	return fmt.Sprintf("structural conflict at %q: segment %q is a %s, expected a mapping", e.Path, e.Segment, e.Kind)
}
