package frontmatter

import (
	"errors"
	"fmt"
	"strings"
)

// Well-known front-matter keys.
const (
	KeyTitle           = "title"
	KeySlug            = "slug"
	KeyDescription     = "description"
	KeySidebarPosition = "sidebar_position"
	KeySidebarLabel    = "sidebar_label"
	KeyDraft           = "draft"
	KeyTags            = "tags"
	KeyFingerprint     = "fingerprint"
	KeyLastmod         = "lastmod"
)

// ErrInvalidFieldType indicates a known front-matter key carried a value of
// the wrong YAML type.
var ErrInvalidFieldType = errors.New("invalid frontmatter field type")

// Fields is the typed view of the front-matter keys the pipeline interprets.
// Unknown keys are preserved in the raw map and pass through untouched.
type Fields struct {
	Title           string
	SidebarLabel    string
	Description     string
	Slug            string
	SidebarPosition *int
	Draft           bool
	Tags            []string
}

// DecodeFields extracts the typed view from a parsed front-matter map.
//
// Missing keys are not errors; they decode to zero values. Type mismatches
// on known keys are collected and returned joined, so a caller can surface
// every problem in one diagnostic.
func DecodeFields(raw map[string]any) (Fields, error) {
	var f Fields
	var errs []error

	f.Title, errs = decodeString(raw, KeyTitle, errs)
	f.SidebarLabel, errs = decodeString(raw, KeySidebarLabel, errs)
	f.Description, errs = decodeString(raw, KeyDescription, errs)
	f.Slug, errs = decodeString(raw, KeySlug, errs)

	if v, ok := raw[KeySidebarPosition]; ok && v != nil {
		if n, ok := coerceInt(v); ok {
			f.SidebarPosition = &n
		} else {
			errs = append(errs, fmt.Errorf("%w: %s: expected integer, got %T", ErrInvalidFieldType, KeySidebarPosition, v))
		}
	}

	if v, ok := raw[KeyDraft]; ok && v != nil {
		if b, ok := v.(bool); ok {
			f.Draft = b
		} else {
			errs = append(errs, fmt.Errorf("%w: %s: expected boolean, got %T", ErrInvalidFieldType, KeyDraft, v))
		}
	}

	if v, ok := raw[KeyTags]; ok && v != nil {
		tags, err := coerceStringSlice(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %v", ErrInvalidFieldType, KeyTags, err))
		} else {
			f.Tags = tags
		}
	}

	return f, errors.Join(errs...)
}

func decodeString(raw map[string]any, key string, errs []error) (string, []error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", errs
	}
	s, ok := v.(string)
	if !ok {
		return "", append(errs, fmt.Errorf("%w: %s: expected string, got %T", ErrInvalidFieldType, key, v))
	}
	return strings.TrimSpace(s), errs
}

// coerceInt accepts the integer shapes yaml.v3 produces, plus whole floats
// (a hand-edited "sidebar_position: 3.0" should not break a build).
func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func coerceStringSlice(v any) ([]string, error) {
	switch items := v.(type) {
	case []string:
		return items, nil
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string entries, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected sequence, got %T", v)
}
