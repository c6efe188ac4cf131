package frontmatter

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// Fingerprint computes the canonical content fingerprint for a document.
//
// Canonicalization rules:
//   - the fingerprint and lastmod keys are excluded from the hash
//   - remaining fields serialize with sorted keys and LF newlines
//   - a single trailing newline is trimmed from the serialized YAML
//   - the hash covers "<frontmatter>\n<body>"
//
// The result is a lowercase hex sha256 digest.
func Fingerprint(fields map[string]any, body []byte) (string, error) {
	if fields == nil {
		return "", errors.New("fields map is nil")
	}

	hashed := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == KeyFingerprint || k == KeyLastmod {
			continue
		}
		hashed[k] = v
	}

	canonical := ""
	if len(hashed) > 0 {
		serialized, err := SerializeYAML(hashed, Style{Newline: "\n"})
		if err != nil {
			return "", err
		}
		canonical = trimSingleTrailingNewline(string(serialized))
	}

	h := sha256.New()
	h.Write([]byte(canonical))
	h.Write([]byte{'\n'})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil)), nil
}

func trimSingleTrailingNewline(s string) string {
	if before, ok := strings.CutSuffix(s, "\r\n"); ok {
		return before
	}
	if before, ok := strings.CutSuffix(s, "\n"); ok {
		return before
	}
	return s
}
