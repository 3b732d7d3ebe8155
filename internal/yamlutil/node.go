package yamlutil

import (
	"bytes"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Parse decodes YAML text into a document node. Empty input yields a document
// wrapping an empty mapping so callers always have a container to work with.
func Parse(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse yaml document")
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		return &yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{NewMapping()},
		}, nil
	}

	return &doc, nil
}

// Root returns the top-level node of a document, unwrapping the DocumentNode.
func Root(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return doc
}

// Marshal serializes a node with the 2-space indent used across workflow files.
func Marshal(node *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(node); err != nil {
		return nil, errors.Wrap(err, "failed to encode yaml document")
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to finalize yaml document")
	}

	return buf.Bytes(), nil
}

// FromValue converts an arbitrary Go value (map, slice, struct, scalar) into a
// node tree. The result carries no comment metadata, which is a valid degenerate
// document tree.
func FromValue(v any) (*yaml.Node, error) {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return nil, errors.Wrap(err, "failed to convert value to yaml node")
	}
	return &node, nil
}

// NormalizeValue converts a pre-parsed structure into the exact document tree
// that parsing its serialized text produces. The encoder bakes quoting styles
// into some scalars (keys like "on" come out double-quoted); those are dropped
// before the round-trip so both input forms serialize identically, and
// scalars that genuinely need quoting get it back from the re-parse.
func NormalizeValue(v any) (*yaml.Node, error) {
	node, err := FromValue(v)
	if err != nil {
		return nil, err
	}
	clearStyles(node)

	text, err := Marshal(node)
	if err != nil {
		return nil, err
	}

	return Parse(text)
}

func clearStyles(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyles(c)
	}
}

func NewMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func NewSequence(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: items}
}

func NewScalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

// NewMappingFromPairs builds a block-style mapping of scalar values from
// alternating key/value strings.
func NewMappingFromPairs(keyVals ...string) *yaml.Node {
	m := NewMapping()
	for i := 0; i+1 < len(keyVals); i += 2 {
		m.Content = append(m.Content, NewScalar(keyVals[i]), NewScalar(keyVals[i+1]))
	}
	return m
}

// MapGet returns the value node for key in a mapping, or nil when absent.
func MapGet(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}

	return nil
}

// MapSet writes the value node for key in a mapping, replacing an existing
// entry in place (key node, and therefore its comments, untouched) or
// appending a new pair at the end.
func MapSet(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}

	m.Content = append(m.Content, NewScalar(key), value)
}

// MapKeys returns the mapping's keys in document order.
func MapKeys(m *yaml.Node) []string {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}

	keys := make([]string, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		keys = append(keys, m.Content[i].Value)
	}

	return keys
}

// NodesEqual reports deep value equality between two nodes, ignoring comments,
// styles and positions. Used for sequence-union membership checks.
func NodesEqual(a, b *yaml.Node) bool {
	if a == nil || b == nil {
		return a == b
	}

	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case yaml.ScalarNode:
		// Tags are only compared when both sides carry one; hand-built nodes
		// often have no explicit tag while parsed nodes are resolved.
		if a.Tag != "" && b.Tag != "" && a.Tag != b.Tag {
			return false
		}
		return a.Value == b.Value
	case yaml.SequenceNode:
		if len(a.Content) != len(b.Content) {
			return false
		}
		for i := range a.Content {
			if !NodesEqual(a.Content[i], b.Content[i]) {
				return false
			}
		}
		return true
	case yaml.MappingNode:
		if len(a.Content) != len(b.Content) {
			return false
		}
		for i := 0; i+1 < len(a.Content); i += 2 {
			other := MapGet(b, a.Content[i].Value)
			if other == nil || !NodesEqual(a.Content[i+1], other) {
				return false
			}
		}
		return true
	case yaml.AliasNode:
		return NodesEqual(a.Alias, b.Alias)
	}

	return false
}

// KindName renders a node kind for warnings and errors.
func KindName(n *yaml.Node) string {
	if n == nil {
		return "absent"
	}

	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}

	return "unknown"
}
