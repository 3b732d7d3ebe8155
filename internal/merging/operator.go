package merging

import (
	"fmt"

	"github.com/actionsmith/actionsmith/internal/yamlutil"
	"gopkg.in/yaml.v3"
)

// applyOperation decides the resulting value for one instruction once the gate
// has already been evaluated. It is a single exhaustive case analysis with no
// early exits: the required flag never reaches this function, so a gating
// condition can only control whether this runs, never which branch runs.
//
// The returned warnings record every merge between incompatible shapes that
// was resolved by letting the template win.
func applyOperation(existing, desired *yaml.Node, op Operation, path string) (*yaml.Node, []Warning) {
	switch op {
	case OperationSet, OperationOverwrite:
		return desired, nil
	case OperationPreserve:
		if existing != nil {
			return existing, nil
		}
		return desired, nil
	case OperationMerge:
		if existing == nil {
			// Nothing to combine with; a direct write, same as set.
			return desired, nil
		}
		return structuralMerge(existing, desired, path)
	}

	// Unknown operations are treated as preserve-like no-ops on existing
	// content and surfaced to the caller.
	if existing != nil {
		return existing, []Warning{{Path: path, Reason: fmt.Sprintf("unknown operation %q, existing value kept", op)}}
	}
	return desired, []Warning{{Path: path, Reason: fmt.Sprintf("unknown operation %q, desired value written", op)}}
}

// structuralMerge combines an existing node with the template's desired node.
// Sequences union with user entries first, mappings merge key-wise and
// recursively, and any other shape pairing resolves in the template's favor
// with a warning.
func structuralMerge(existing, desired *yaml.Node, path string) (*yaml.Node, []Warning) {
	switch {
	case existing.Kind == yaml.SequenceNode && desired.Kind == yaml.SequenceNode:
		return mergeSequences(existing, desired), nil
	case existing.Kind == yaml.MappingNode && desired.Kind == yaml.MappingNode:
		return mergeMappings(existing, desired, path)
	default:
		return desired, []Warning{{
			Path: path,
			Reason: fmt.Sprintf("cannot merge %s with %s, template value used",
				yamlutil.KindName(existing), yamlutil.KindName(desired)),
		}}
	}
}

// mergeSequences unions two sequences: existing elements keep their relative
// order, then desired elements not already present are appended in template
// order. Membership is by deep value comparison, so each value appears at most
// once.
func mergeSequences(existing, desired *yaml.Node) *yaml.Node {
	for _, candidate := range desired.Content {
		present := false
		for _, have := range existing.Content {
			if yamlutil.NodesEqual(have, candidate) {
				present = true
				break
			}
		}
		if !present {
			existing.Content = append(existing.Content, candidate)
		}
	}

	return existing
}

// mergeMappings merges key-wise: keys in both recurse through structuralMerge,
// existing-only keys are kept, template-only keys are appended in template
// order. Every shape mismatch under the subtree is reported, one warning per
// conflicting path.
func mergeMappings(existing, desired *yaml.Node, path string) (*yaml.Node, []Warning) {
	var warnings []Warning

	for i := 0; i+1 < len(desired.Content); i += 2 {
		key := desired.Content[i].Value
		desiredValue := desired.Content[i+1]

		existingValue := yamlutil.MapGet(existing, key)
		if existingValue == nil {
			yamlutil.MapSet(existing, key, desiredValue)
			continue
		}

		merged, ws := structuralMerge(existingValue, desiredValue, path+"."+key)
		warnings = append(warnings, ws...)
		yamlutil.MapSet(existing, key, merged)
	}

	return existing, warnings
}
