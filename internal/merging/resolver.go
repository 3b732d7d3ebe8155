package merging

import (
	"strings"

	"github.com/actionsmith/actionsmith/internal/yamlutil"
	"gopkg.in/yaml.v3"
)

// Location is a navigable address inside a document tree. Get observes the
// value at the address without modifying the tree; Ensure materializes empty
// mapping containers for every missing intermediate segment and returns the
// leaf's parent mapping, ready to hold a value. The leaf itself is never
// created by resolution.
type Location struct {
	root     *yaml.Node
	path     string
	segments []string
}

// Resolve translates a dotted path into a Location over the given tree. The
// root may be a document node or a bare mapping.
func Resolve(root *yaml.Node, path string) *Location {
	return &Location{
		root:     yamlutil.Root(root),
		path:     path,
		segments: strings.Split(path, "."),
	}
}

// LeafKey returns the final path segment, the mapping key the instruction's
// value lives under.
func (l *Location) LeafKey() string {
	return l.segments[len(l.segments)-1]
}

// Get returns the existing value node at the location, or nil when any segment
// along the way is absent. A structural conflict is returned when an existing
// intermediate node is not a mapping.
func (l *Location) Get() (*yaml.Node, error) {
	current := l.root
	for i, segment := range l.segments[:len(l.segments)-1] {
		if current.Kind != yaml.MappingNode {
			return nil, l.conflict(i-1, current)
		}
		current = yamlutil.MapGet(current, segment)
		if current == nil {
			return nil, nil
		}
	}

	if current.Kind != yaml.MappingNode {
		return nil, l.conflict(len(l.segments)-2, current)
	}

	return yamlutil.MapGet(current, l.LeafKey()), nil
}

// Ensure returns the mapping that holds the leaf key, creating empty mappings
// for missing intermediates. Existing non-mapping intermediates are a
// structural conflict.
func (l *Location) Ensure() (*yaml.Node, error) {
	current := l.root
	for i, segment := range l.segments[:len(l.segments)-1] {
		if current.Kind != yaml.MappingNode {
			return nil, l.conflict(i-1, current)
		}
		next := yamlutil.MapGet(current, segment)
		if next == nil {
			next = yamlutil.NewMapping()
			yamlutil.MapSet(current, segment, next)
		}
		current = next
	}

	if current.Kind != yaml.MappingNode {
		return nil, l.conflict(len(l.segments)-2, current)
	}

	return current, nil
}

// conflict builds the error for a non-mapping node found at segment index i
// (-1 addresses the root itself).
func (l *Location) conflict(i int, node *yaml.Node) error {
	segment := "(root)"
	if i >= 0 {
		segment = l.segments[i]
	}

	return &StructuralConflictError{
		Path:    l.path,
		Segment: segment,
		Kind:    yamlutil.KindName(node),
	}
}
