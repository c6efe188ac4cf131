package markdown

import (
	"bytes"
	"strconv"
	"strings"
	"unicode"

	gmast "github.com/yuin/goldmark/ast"
)

// Heading is one document heading with its derived anchor id.
type Heading struct {
	Level  int
	Text   string
	Anchor string
}

// ExtractHeadings returns all headings in document order.
//
// Anchors follow the common hosted-renderer scheme: lowercase, punctuation
// stripped, spaces become hyphens, and repeated anchors get a numeric suffix
// ("setup", "setup-1", ...).
func ExtractHeadings(body []byte, opts Options) ([]Heading, error) {
	root, err := ParseBody(body, opts)
	if err != nil {
		return nil, err
	}

	seen := map[string]int{}
	var headings []Heading

	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}

		text := nodeText(h, body)
		anchor := anchorize(text)
		if c, dup := seen[anchor]; dup {
			seen[anchor] = c + 1
			anchor = anchor + "-" + strconv.Itoa(c)
		} else {
			seen[anchor] = 1
		}

		headings = append(headings, Heading{Level: h.Level, Text: text, Anchor: anchor})
		return gmast.WalkSkipChildren, nil
	})

	return headings, nil
}

// FirstHeading returns the text of the first heading, if any. Used as the
// title fallback for documents without a usable front-matter title.
func FirstHeading(body []byte, opts Options) (string, bool) {
	headings, err := ExtractHeadings(body, opts)
	if err != nil || len(headings) == 0 {
		return "", false
	}
	return headings[0].Text, true
}

func nodeText(n gmast.Node, body []byte) string {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			buf.Write(t.Segment.Value(body))
		case *gmast.String:
			buf.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

func anchorize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		case r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
