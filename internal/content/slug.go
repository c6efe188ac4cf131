package content

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slugify converts one path segment into its canonical id form: accents are
// folded (NFKD, combining marks dropped), letters lowercase, spaces and dots
// become hyphens, anything outside [a-z0-9-_] is removed, hyphen runs
// collapse, and leading/trailing separators are trimmed.
func Slugify(segment string) string {
	decomposed := norm.NFKD.String(segment)

	var b strings.Builder
	b.Grow(len(segment))
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// Combining mark left over from decomposition.
			continue
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		case r == ' ' || r == '.' || r == '-':
			b.WriteByte('-')
		case r == '_':
			b.WriteByte('_')
		}
	}

	out := b.String()
	for strings.Contains(out, "--") {
		out = strings.ReplaceAll(out, "--", "-")
	}
	return strings.Trim(out, "-_")
}

// SlugifyPath slugifies every segment of a slash-separated relative path.
// Empty segments produced by slugification are dropped.
func SlugifyPath(relPath string) string {
	parts := strings.Split(relPath, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := Slugify(p); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}
