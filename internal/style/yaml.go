package style

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// PathSeparator joins the segments of a nested option path, matching the
// dotted-path convention clang-format documentation uses for grouped options
// ("BraceWrapping:AfterClass").
const PathSeparator = ":"

// Load parses a clang-format style document. Nested mappings are flattened
// into colon-joined paths and every scalar is kept as its literal text, so
// "80" and "true" survive as strings. Sequence-valued options (such as
// IncludeCategories) are not tunable and are rejected with an error.
func Load(r io.Reader) (*Settings, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading style document: %w", err)
	}
	return Parse(data)
}

// Parse is Load over an in-memory document.
func Parse(data []byte) (*Settings, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing style YAML: %w", err)
	}

	s := New()
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return s, nil // empty document
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Value == "" {
		return s, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("style document root must be a mapping, got %s", nodeKind(root))
	}
	if err := flattenInto(s, root, ""); err != nil {
		return nil, err
	}
	return s, nil
}

// flattenInto walks a mapping node, joining nested keys with PathSeparator.
func flattenInto(s *Settings, node *yaml.Node, prefix string) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		key := keyNode.Value
		if prefix != "" {
			key = prefix + PathSeparator + key
		}
		switch valNode.Kind {
		case yaml.ScalarNode:
			s.Set(key, valNode.Value)
		case yaml.MappingNode:
			if err := flattenInto(s, valNode, key); err != nil {
				return err
			}
		default:
			return fmt.Errorf("option %s: unsupported %s value (only scalars and mappings are tunable)", key, nodeKind(valNode))
		}
	}
	return nil
}

// Save writes the settings as a YAML document with explicit start and end
// markers, keys in insertion order, values as plain scalars.
func Save(w io.Writer, s *Settings) error {
	root := unflatten(s)

	var buf bytes.Buffer
	buf.WriteString("---\n")
	if root != nil {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(root); err != nil {
			return fmt.Errorf("encoding style YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding style YAML: %w", err)
		}
	}
	buf.WriteString("...\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing style document: %w", err)
	}
	return nil
}

// Marshal renders the settings to bytes in Save's format.
func Marshal(s *Settings) ([]byte, error) {
	var buf bytes.Buffer
	if err := Save(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unflatten rebuilds the nested mapping tree from colon-joined keys. The
// first appearance of a group decides its position. Returns nil for an empty
// settings.
func unflatten(s *Settings) *yaml.Node {
	if s.Len() == 0 {
		return nil
	}
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range s.Keys() {
		segments := strings.Split(key, PathSeparator)
		node := root
		for _, seg := range segments[:len(segments)-1] {
			node = childMapping(node, seg)
		}
		leaf := segments[len(segments)-1]
		node.Content = append(node.Content,
			scalarNode(leaf),
			scalarNode(s.Get(key)),
		)
	}
	return root
}

// childMapping finds or appends the mapping child named key under node.
func childMapping(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key && node.Content[i+1].Kind == yaml.MappingNode {
			return node.Content[i+1]
		}
	}
	child := &yaml.Node{Kind: yaml.MappingNode}
	node.Content = append(node.Content, scalarNode(key), child)
	return child
}

// scalarNode builds an untagged scalar so values emit as plain text
// ("true", "80") rather than quoted strings.
func scalarNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: v}
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}
