// Package frontmatter splits, parses and rewrites YAML front-matter blocks.
//
// Splitting preserves the newline shape of the source file so that a
// Split/Join round trip reproduces the original bytes exactly.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// Style captures formatting details needed for stable rewriting.
//
// It intentionally focuses on newline/trailing newline shape and does not
// attempt to preserve original YAML formatting.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front-matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates YAML front-matter (`---` delimited) from the Markdown body.
//
// If the document does not start with a front-matter delimiter, had is false
// and body is the full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, style Style, err error) {
	style = detectStyle(content)

	nl := style.Newline
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, style, nil
	}

	rest := content[len(open):]

	// An immediately closed block is legal and means "no fields".
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], true, style, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		return nil, nil, false, style, ErrMissingClosingDelimiter
	}

	fmEnd := idx + len(nl)
	bodyStart := idx + len(closeSeq)
	return rest[:fmEnd], rest[bodyStart:], true, style, nil
}

// Join reassembles a document from raw front-matter and body.
//
// If had is false, Join returns body as-is. Otherwise it emits the
// front-matter between `---` delimiters using the captured newline style.
func Join(frontmatter []byte, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	delim := []byte("---" + nl)

	out := make([]byte, 0, 2*len(delim)+len(frontmatter)+len(body))
	out = append(out, delim...)
	out = append(out, frontmatter...)
	out = append(out, delim...)
	out = append(out, body...)
	return out
}

// ParseYAML parses raw YAML front-matter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(frontmatter) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Parse splits a document and decodes its front-matter in one step.
//
// A split failure or invalid YAML is reported through err; callers decide
// whether that is fatal or downgrades to a diagnostic.
func Parse(content []byte) (fields map[string]any, body []byte, had bool, style Style, err error) {
	raw, body, had, style, err := Split(content)
	if err != nil {
		return nil, nil, false, style, err
	}
	if !had {
		return map[string]any{}, body, false, style, nil
	}
	fields, err = ParseYAML(raw)
	if err != nil {
		return nil, body, true, style, err
	}
	return fields, body, true, style, nil
}

func detectStyle(content []byte) Style {
	newline := "\n"
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		newline = "\r\n"
	}

	hasTrailingNewline := len(content) > 0 && content[len(content)-1] == '\n'

	return Style{
		Newline:            newline,
		HasTrailingNewline: hasTrailingNewline,
	}
}
