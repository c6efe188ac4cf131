package lint

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Linter runs every registered rule over a content tree.
type Linter struct {
	cfg   *Config
	rules []Rule
}

// NewLinter creates a linter with the default rule set.
func NewLinter(cfg *Config) *Linter {
	if cfg == nil {
		cfg = &Config{Format: "text"}
	}
	return &Linter{
		cfg: cfg,
		rules: []Rule{
			&FilenameRule{},
			&FrontmatterRule{},
		},
	}
}

// LintPath lints a file or a directory tree.
func (l *Linter) LintPath(path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	result := &Result{Issues: []Issue{}}
	if info.IsDir() {
		err = l.lintDirectory(path, result)
	} else {
		result.FilesTotal = 1
		err = l.lintFile(path, result)
	}
	return result, err
}

// LintFiles lints an explicit file list (git hooks hand these over).
func (l *Linter) LintFiles(files []string) (*Result, error) {
	result := &Result{Issues: []Issue{}}
	for _, file := range files {
		if isIgnoredFile(filepath.Base(file)) {
			continue
		}
		if !IsDocFile(file) && !IsAssetFile(file) {
			continue
		}
		if _, err := os.Stat(file); os.IsNotExist(err) {
			continue
		}
		result.FilesTotal++
		if err := l.lintFile(file, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (l *Linter) lintDirectory(dirPath string, result *Result) error {
	return filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && name != "." {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(name, "_") {
				return fs.SkipDir
			}
			return nil
		}
		if isIgnoredFile(name) {
			return nil
		}
		if !IsDocFile(path) && !IsAssetFile(path) {
			return nil
		}
		result.FilesTotal++
		return l.lintFile(path, result)
	})
}

func (l *Linter) lintFile(filePath string, result *Result) error {
	for _, rule := range l.rules {
		if !rule.AppliesTo(filePath) {
			continue
		}
		issues, err := rule.Check(filePath)
		if err != nil {
			return err
		}
		for _, issue := range issues {
			if l.cfg.Quiet && issue.Severity != SeverityError {
				continue
			}
			result.Issues = append(result.Issues, issue)
		}
	}
	return nil
}

// isIgnoredFile skips conventional all-caps repository files; they live by
// their own naming rules.
func isIgnoredFile(filename string) bool {
	switch strings.ToUpper(filename) {
	case "README.MD", "CONTRIBUTING.MD", "CHANGELOG.MD",
		"LICENSE.MD", "CODE_OF_CONDUCT.MD", "SECURITY.MD":
		return true
	}
	return false
}
