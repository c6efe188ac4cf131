package lint

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/docwright/docwright/internal/content"
)

// FilenameRule validates that filenames produce clean, stable document ids
// and routes.
type FilenameRule struct{}

func (r *FilenameRule) Name() string {
	return "filename-conventions"
}

// AppliesTo returns true for documentation and asset files.
func (r *FilenameRule) AppliesTo(filePath string) bool {
	return IsDocFile(filePath) || IsAssetFile(filePath)
}

// Check validates filename conventions. The id derivation slugifies
// whatever it is given, so none of these findings block a build; they
// exist because the slugified id then differs from the name on disk,
// which makes cross-references hard to write.
func (r *FilenameRule) Check(filePath string) ([]Issue, error) {
	filename := filepath.Base(filePath)
	var issues []Issue

	if isWhitelistedDoubleExtension(filename) {
		issues = append(issues, Issue{
			FilePath:    filePath,
			Severity:    SeverityInfo,
			Rule:        r.Name(),
			Message:     "Whitelisted double extension",
			Explanation: "Embedded diagram files (.drawio.png, .drawio.svg) are allowed.",
		})
		return issues, nil
	}

	if hasDoubleExtension(filename) {
		issues = append(issues, Issue{
			FilePath:    filePath,
			Severity:    SeverityError,
			Rule:        r.Name(),
			Message:     "Double extension detected",
			Explanation: "Files like page.md.bak or image.png.tmp are usually editor leftovers and end up in the published model.",
			Fix:         "Remove the backup file or move it out of the content directory",
		})
		return issues, nil
	}

	if hasUppercase(filename) {
		issues = append(issues, Issue{
			FilePath:    filePath,
			Severity:    SeverityWarning,
			Rule:        r.Name(),
			Message:     "Filename contains uppercase letters",
			Explanation: "The derived id is lowercase, so the id no longer matches the name on disk and sidebar references become guesswork.",
			Fix:         "Rename to " + suggestFilename(filename),
		})
	}

	if strings.Contains(filename, " ") {
		issues = append(issues, Issue{
			FilePath:    filePath,
			Severity:    SeverityWarning,
			Rule:        r.Name(),
			Message:     "Filename contains spaces",
			Explanation: "Spaces turn into hyphens in the derived id and into %20 in raw links.",
			Fix:         "Rename to " + suggestFilename(filename),
		})
	}

	if chars := findSpecialChars(filename); len(chars) > 0 {
		issues = append(issues, Issue{
			FilePath:    filePath,
			Severity:    SeverityWarning,
			Rule:        r.Name(),
			Message:     "Filename contains special characters: " + strings.Join(chars, ", "),
			Explanation: "Characters outside [a-z0-9-_.] are dropped from the derived id.",
			Fix:         "Rename to " + suggestFilename(filename),
		})
	}

	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	if trimmed := strings.Trim(stem, "-_"); trimmed != stem {
		issues = append(issues, Issue{
			FilePath:    filePath,
			Severity:    SeverityWarning,
			Rule:        r.Name(),
			Message:     "Filename has leading or trailing separators",
			Explanation: "Leading or trailing hyphens/underscores disappear from the derived id.",
			Fix:         "Rename to " + suggestFilename(filename),
		})
	}

	return issues, nil
}

func isWhitelistedDoubleExtension(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".drawio.png") || strings.HasSuffix(lower, ".drawio.svg")
}

// hasDoubleExtension reports stacked extensions such as page.md.bak.
func hasDoubleExtension(filename string) bool {
	parts := strings.Split(filename, ".")
	if len(parts) < 3 {
		return false
	}
	inner := "." + strings.ToLower(parts[len(parts)-2])
	switch inner {
	case ".md", ".markdown", ".mdx",
		".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp",
		".tmp", ".bak", ".backup", ".old",
		".yaml", ".yml", ".json", ".toml":
		return true
	}
	return false
}

func hasUppercase(filename string) bool {
	for _, r := range filename {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// findSpecialChars returns the distinct characters outside [a-z0-9-_.],
// ignoring case (uppercase has its own finding).
func findSpecialChars(filename string) []string {
	seen := make(map[rune]bool)
	var chars []string
	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		case unicode.IsUpper(r):
		case r == ' ':
		default:
			if !seen[r] {
				chars = append(chars, string(r))
				seen[r] = true
			}
		}
	}
	return chars
}

// suggestFilename returns the conventional form of a filename: the stem
// slugified the same way document ids are derived, extension lowercased.
func suggestFilename(filename string) string {
	if isWhitelistedDoubleExtension(filename) {
		return filename
	}
	ext := strings.ToLower(filepath.Ext(filename))
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	return content.Slugify(stem) + ext
}
