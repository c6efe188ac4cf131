package content

import (
	"fmt"
	"regexp"
	"strings"
)

// PathFilter decides whether a content-relative path participates in a scan.
// Exclusion wins over inclusion; an empty include list admits every path
// that is not excluded.
type PathFilter struct {
	include []*regexp.Regexp
	exclude []*regexp.Regexp
}

// NewPathFilter compiles shell-style glob patterns. `*` and `?` match within
// a path segment, `**` crosses segment boundaries. Paths are matched in
// slash form relative to the content directory.
func NewPathFilter(includeGlobs, excludeGlobs []string) (*PathFilter, error) {
	compile := func(globs []string) ([]*regexp.Regexp, error) {
		out := make([]*regexp.Regexp, 0, len(globs))
		for _, g := range globs {
			if strings.TrimSpace(g) == "" {
				continue
			}
			r, err := regexp.Compile(globToRegex(g))
			if err != nil {
				return nil, fmt.Errorf("compile glob %q: %w", g, err)
			}
			out = append(out, r)
		}
		return out, nil
	}
	incs, err := compile(includeGlobs)
	if err != nil {
		return nil, err
	}
	excs, err := compile(excludeGlobs)
	if err != nil {
		return nil, err
	}
	return &PathFilter{include: incs, exclude: excs}, nil
}

// Include reports whether relPath passes the filter, with a reason code when
// it does not.
func (f *PathFilter) Include(relPath string) (bool, string) {
	if f == nil {
		return true, ""
	}
	for _, rx := range f.exclude {
		if rx.MatchString(relPath) {
			return false, "excluded_by_pattern"
		}
	}
	if len(f.include) == 0 {
		return true, ""
	}
	for _, rx := range f.include {
		if rx.MatchString(relPath) {
			return true, ""
		}
	}
	return false, "not_in_includes"
}

// globToRegex converts a glob to an anchored regex string.
func globToRegex(glob string) string {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(glob); i++ {
		c := glob[i]
		switch c {
		case '*':
			if i+1 < len(glob) && glob[i+1] == '*' {
				b.WriteString(".*")
				i++
			} else {
				b.WriteString("[^/]*")
			}
		case '?':
			b.WriteString("[^/]")
		case '.', '+', '(', ')', '|', '[', ']', '{', '}', '^', '$', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteString("$")
	return b.String()
}
