package sidebar

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/docwright/docwright/internal/logfields"
)

// Load reads and parses the sidebar file at path.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading sidebar file %s: %w", path, err)
	}

	file, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing sidebar file %s: %w", path, err)
	}

	slog.Debug("Loaded sidebar declaration",
		logfields.File(path),
		logfields.Count(len(file.Order)))
	return file, nil
}

// Parse decodes a sidebars declaration. The top level is either a bare
// list (declaring the default sidebar) or a mapping of sidebar names to
// lists.
func Parse(raw []byte) (*File, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSyntax, err)
	}

	file := &File{Sidebars: map[string][]Node{}}
	if root.Kind == 0 || len(root.Content) == 0 {
		// An empty file declares no navigation. Callers decide whether
		// that is acceptable.
		return file, nil
	}

	doc := root.Content[0]
	switch doc.Kind {
	case yaml.SequenceNode:
		var items []Node
		if err := doc.Decode(&items); err != nil {
			return nil, err
		}
		file.Sidebars[DefaultName] = items
		file.Order = []string{DefaultName}

	case yaml.MappingNode:
		for i := 0; i+1 < len(doc.Content); i += 2 {
			keyNode, valueNode := doc.Content[i], doc.Content[i+1]

			var name string
			if err := keyNode.Decode(&name); err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidSyntax, keyNode.Line, err)
			}
			if _, exists := file.Sidebars[name]; exists {
				return nil, fmt.Errorf("%w: line %d: sidebar %q declared twice", ErrInvalidSyntax, keyNode.Line, name)
			}

			var items []Node
			if err := valueNode.Decode(&items); err != nil {
				return nil, fmt.Errorf("sidebar %q: %w", name, err)
			}
			file.Sidebars[name] = items
			file.Order = append(file.Order, name)
		}

	default:
		return nil, fmt.Errorf("%w: line %d: top level must be a list or a mapping of sidebar names", ErrInvalidSyntax, doc.Line)
	}

	return file, nil
}
