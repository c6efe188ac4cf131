package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Formatter renders a lint result.
type Formatter interface {
	Format(w io.Writer, result *Result, path string) error
}

// NewFormatter selects a formatter by name; anything unknown falls back to
// text.
func NewFormatter(format string) Formatter {
	if format == "json" {
		return &JSONFormatter{}
	}
	return &TextFormatter{}
}

// TextFormatter renders human-readable output.
type TextFormatter struct{}

func (f *TextFormatter) Format(w io.Writer, result *Result, path string) error {
	fmt.Fprintf(w, "Linting documentation in: %s\n", path)
	fmt.Fprintln(w, strings.Repeat("-", 60))

	// Stable per-file grouping.
	byFile := make(map[string][]Issue)
	var files []string
	for _, issue := range result.Issues {
		if _, ok := byFile[issue.FilePath]; !ok {
			files = append(files, issue.FilePath)
		}
		byFile[issue.FilePath] = append(byFile[issue.FilePath], issue)
	}
	sort.Strings(files)

	for _, file := range files {
		fmt.Fprintln(w)
		for _, issue := range byFile[file] {
			f.formatIssue(w, issue)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "%d files scanned\n", result.FilesTotal)
	if n := result.ErrorCount(); n > 0 {
		fmt.Fprintf(w, "%d error%s\n", n, pluralize(n))
	}
	if n := result.WarningCount(); n > 0 {
		fmt.Fprintf(w, "%d warning%s\n", n, pluralize(n))
	}

	switch {
	case result.HasErrors():
		fmt.Fprintln(w, "Documentation has errors.")
	case result.HasWarnings():
		fmt.Fprintln(w, "Documentation has warnings; suggested fixes are listed above.")
	case len(result.Issues) > 0:
		fmt.Fprintln(w, "All findings are informational.")
	default:
		fmt.Fprintln(w, "All documentation passes linting.")
	}
	return nil
}

func (f *TextFormatter) formatIssue(w io.Writer, issue Issue) {
	fmt.Fprintf(w, "%s %s\n", marker(issue.Severity), issue.FilePath)
	fmt.Fprintf(w, "  %s: %s\n", issue.Severity, issue.Message)
	if issue.Explanation != "" {
		for _, line := range strings.Split(strings.TrimSpace(issue.Explanation), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	if issue.Fix != "" {
		fmt.Fprintf(w, "  Fix: %s\n", issue.Fix)
	}
}

func marker(s Severity) string {
	switch s {
	case SeverityError:
		return "✗"
	case SeverityWarning:
		return "!"
	default:
		return "i"
	}
}

// JSONFormatter renders machine-readable output.
type JSONFormatter struct{}

type jsonOutput struct {
	Path         string      `json:"path"`
	FilesTotal   int         `json:"files_total"`
	ErrorCount   int         `json:"error_count"`
	WarningCount int         `json:"warning_count"`
	Issues       []jsonIssue `json:"issues"`
}

type jsonIssue struct {
	FilePath    string `json:"file_path"`
	Severity    string `json:"severity"`
	Rule        string `json:"rule"`
	Message     string `json:"message"`
	Explanation string `json:"explanation,omitempty"`
	Fix         string `json:"fix,omitempty"`
	Line        int    `json:"line,omitempty"`
}

func (f *JSONFormatter) Format(w io.Writer, result *Result, path string) error {
	out := jsonOutput{
		Path:         path,
		FilesTotal:   result.FilesTotal,
		ErrorCount:   result.ErrorCount(),
		WarningCount: result.WarningCount(),
		Issues:       make([]jsonIssue, 0, len(result.Issues)),
	}
	for _, issue := range result.Issues {
		out.Issues = append(out.Issues, jsonIssue{
			FilePath:    issue.FilePath,
			Severity:    issue.Severity.String(),
			Rule:        issue.Rule,
			Message:     issue.Message,
			Explanation: issue.Explanation,
			Fix:         issue.Fix,
			Line:        issue.Line,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
