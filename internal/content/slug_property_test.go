//go:build property
// +build property

package content

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestSlugifyProperties checks the id-alphabet contract over arbitrary
// unicode input: idempotence, canonical alphabet, no separator runs or
// dangling separators.
func TestSlugifyProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	inAlphabet := func(s string) bool {
		for _, r := range s {
			switch {
			case r >= 'a' && r <= 'z':
			case r >= '0' && r <= '9':
			case r == '-' || r == '_':
			default:
				return false
			}
		}
		return true
	}

	properties.Property("idempotent", prop.ForAll(
		func(s string) bool {
			once := Slugify(s)
			return Slugify(once) == once
		},
		gen.AnyString(),
	))

	properties.Property("canonical alphabet, trimmed, no hyphen runs", prop.ForAll(
		func(s string) bool {
			out := Slugify(s)
			if out == "" {
				return true
			}
			if !inAlphabet(out) || strings.Contains(out, "--") {
				return false
			}
			return !strings.HasPrefix(out, "-") && !strings.HasSuffix(out, "-") &&
				!strings.HasPrefix(out, "_") && !strings.HasSuffix(out, "_")
		},
		gen.AnyString(),
	))

	properties.Property("path form drops empty segments", prop.ForAll(
		func(segments []string) bool {
			out := SlugifyPath(strings.Join(segments, "/"))
			if out == "" {
				return true
			}
			for _, part := range strings.Split(out, "/") {
				if part == "" {
					return false
				}
			}
			return SlugifyPath(out) == out
		},
		gen.SliceOf(gen.AnyString()).SuchThat(func(ss []string) bool {
			return len(ss) <= 12
		}),
	))

	properties.TestingRun(t)
}
