// Package lint applies per-file convention rules to a content tree:
// filename shape and front-matter completeness. Findings are suggestions;
// fixes are printed, never applied.
package lint

import "path/filepath"

// Severity indicates the importance level of a linting issue.
type Severity int

const (
	// SeverityInfo marks informational findings (explicitly allowed patterns).
	SeverityInfo Severity = iota
	// SeverityWarning marks issues worth fixing that do not block a build.
	SeverityWarning
	// SeverityError marks issues that break routing or resolution.
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue is a single finding in a file.
type Issue struct {
	FilePath    string
	Severity    Severity
	Rule        string
	Message     string
	Explanation string
	Fix         string
	Line        int // 0 for file-level issues
}

// Result aggregates one lint run.
type Result struct {
	Issues     []Issue
	FilesTotal int
}

// HasErrors reports whether any error-level issue exists.
func (r *Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any warning-level issue exists.
func (r *Result) HasWarnings() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			n++
		}
	}
	return n
}

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

// Rule is one convention check.
type Rule interface {
	// Name returns the unique identifier for this rule.
	Name() string

	// Check validates a file and returns any issues found.
	Check(filePath string) ([]Issue, error)

	// AppliesTo reports whether the rule covers the given file.
	AppliesTo(filePath string) bool
}

// Config controls a lint run.
type Config struct {
	// Quiet suppresses everything below error severity.
	Quiet bool

	// Format selects the output format (text, json).
	Format string
}

// IsDocFile reports whether the file is a documentation source.
func IsDocFile(path string) bool {
	switch filepath.Ext(path) {
	case ".md", ".markdown", ".mdx":
		return true
	}
	return false
}

// IsAssetFile reports whether the file is an image asset.
func IsAssetFile(path string) bool {
	switch filepath.Ext(path) {
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp":
		return true
	}
	return false
}
