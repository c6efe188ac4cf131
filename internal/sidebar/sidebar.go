// Package sidebar loads the declarative navigation trees (sidebars.yaml)
// that arrange document ids into labeled categories. Parsing is permissive
// about shape: a leaf entry is either a plain string document id or a
// mapping {doc: id, label: override}, and a category is a mapping
// {label, position, items}. The file either declares a single bare list
// (the default sidebar) or a mapping of sidebar name to list.
package sidebar

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultName is the sidebar name assumed when the file declares a bare
// top-level list instead of named trees.
const DefaultName = "docs"

var (
	// ErrFileNotFound indicates the configured sidebar file does not exist.
	ErrFileNotFound = errors.New("sidebar file not found")

	// ErrInvalidSyntax indicates the file is not parseable YAML or its top
	// level is neither a list nor a mapping of names to lists.
	ErrInvalidSyntax = errors.New("invalid sidebar syntax")

	// ErrInvalidNode indicates an entry inside a tree has an unsupported
	// shape.
	ErrInvalidNode = errors.New("invalid sidebar node")
)

// Kind discriminates the two navigation node variants.
type Kind string

const (
	KindDoc      Kind = "doc"
	KindCategory Kind = "category"
)

// Node is a single entry in a sidebar tree: a reference to a document id
// or a labeled category holding ordered children.
type Node struct {
	Kind  Kind
	DocID string // set for KindDoc

	// Label is the category label, or an optional display override for a
	// document reference. Document references without a label render with
	// the target document's own navigation label.
	Label string

	// Position is an explicit ordering hint. Categories carry their own
	// hint here; for document references it overrides the target
	// document's sidebar_position when set.
	Position *int

	Items []Node // set for KindCategory

	// Line is the 1-based line in the source file, kept for diagnostics.
	Line int
}

// UnmarshalYAML decodes the permissive node union. yaml.v3 hands the raw
// node over so both the scalar and mapping shapes can be accepted.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	n.Line = value.Line

	switch value.Kind {
	case yaml.ScalarNode:
		var id string
		if err := value.Decode(&id); err != nil {
			return fmt.Errorf("%w: line %d: %w", ErrInvalidNode, value.Line, err)
		}
		id = strings.TrimSpace(id)
		if id == "" {
			return fmt.Errorf("%w: line %d: empty document reference", ErrInvalidNode, value.Line)
		}
		n.Kind = KindDoc
		n.DocID = id
		return nil

	case yaml.MappingNode:
		var raw struct {
			Doc      string `yaml:"doc"`
			Label    string `yaml:"label"`
			Position *int   `yaml:"position"`
			Items    []Node `yaml:"items"`
		}
		if err := value.Decode(&raw); err != nil {
			return fmt.Errorf("%w: line %d: %w", ErrInvalidNode, value.Line, err)
		}
		raw.Doc = strings.TrimSpace(raw.Doc)
		raw.Label = strings.TrimSpace(raw.Label)

		switch {
		case raw.Doc != "":
			if len(raw.Items) > 0 {
				return fmt.Errorf("%w: line %d: document reference %q cannot carry items", ErrInvalidNode, value.Line, raw.Doc)
			}
			n.Kind = KindDoc
			n.DocID = raw.Doc
			n.Label = raw.Label
			n.Position = raw.Position
		case raw.Label != "":
			n.Kind = KindCategory
			n.Label = raw.Label
			n.Position = raw.Position
			n.Items = raw.Items
		default:
			return fmt.Errorf("%w: line %d: mapping entry needs a doc or a label key", ErrInvalidNode, value.Line)
		}
		return nil

	default:
		return fmt.Errorf("%w: line %d: entry must be a string or a mapping", ErrInvalidNode, value.Line)
	}
}

// File is a parsed sidebars declaration: one or more named trees.
type File struct {
	Sidebars map[string][]Node

	// Order preserves the declaration order of sidebar names for
	// deterministic emission.
	Order []string
}

// Tree returns the named sidebar, or nil when it is not declared.
func (f *File) Tree(name string) []Node {
	if f == nil {
		return nil
	}
	return f.Sidebars[name]
}

// Refs collects every document id referenced anywhere in the file, in
// declaration order across sidebars. Ids referenced more than once appear
// more than once.
func (f *File) Refs() []string {
	if f == nil {
		return nil
	}
	var ids []string
	for _, name := range f.Order {
		Walk(f.Sidebars[name], func(node Node) {
			if node.Kind == KindDoc {
				ids = append(ids, node.DocID)
			}
		})
	}
	return ids
}

// Walk visits every node in the tree depth-first, parents before children,
// in declaration order.
func Walk(nodes []Node, fn func(Node)) {
	for _, node := range nodes {
		fn(node)
		if node.Kind == KindCategory {
			Walk(node.Items, fn)
		}
	}
}
