package content

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	cerrors "github.com/docwright/docwright/internal/content/errors"
	"github.com/docwright/docwright/internal/frontmatter"
	"github.com/docwright/docwright/internal/logfields"
	"github.com/docwright/docwright/internal/markdown"
)

// Severity classifies scan issues.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue codes emitted during scanning.
const (
	CodeMalformedFrontmatter = "MALFORMED_FRONTMATTER"
	CodeMissingTitle         = "MISSING_TITLE"
	CodeIDCollision          = "ID_COLLISION"
)

// Issue is a non-fatal problem found while scanning content.
type Issue struct {
	Code     string
	Severity Severity
	Path     string // content-dir-relative source path
	DocID    string
	Message  string
}

// Asset is a non-Markdown file (image, attachment) documents may reference.
type Asset struct {
	Path    string // absolute path
	RelPath string // slash-separated path relative to the content dir
}

// ScanResult is everything a content scan produced.
type ScanResult struct {
	Documents []*Document
	Assets    []Asset
	Issues    []Issue
}

// Discovery walks a content directory and loads every document.
//
// Hidden and underscore-prefixed files and directories are skipped
// (underscore names are reserved for shared partials).
type Discovery struct {
	contentDir string
	filter     *PathFilter
}

// NewDiscovery creates a discovery rooted at contentDir.
func NewDiscovery(contentDir string) *Discovery {
	return &Discovery{contentDir: contentDir}
}

// WithFilter restricts the scan to paths the filter admits. Returns the
// discovery for chaining.
func (d *Discovery) WithFilter(f *PathFilter) *Discovery {
	d.filter = f
	return d
}

// Scan walks the content directory and returns documents, assets and any
// per-file issues. Malformed front-matter does not abort the scan: the
// document stays available under a fallback title so siblings still resolve.
func (d *Discovery) Scan() (*ScanResult, error) {
	info, err := os.Stat(d.contentDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", cerrors.ErrContentDirNotFound, d.contentDir)
	}

	res := &ScanResult{}
	byID := map[string]string{}

	walkErr := filepath.WalkDir(d.contentDir, func(p string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := de.Name()
		if de.IsDir() {
			if p != d.contentDir && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			return nil
		}

		rel, err := filepath.Rel(d.contentDir, p)
		if err != nil {
			return fmt.Errorf("%w: %w", cerrors.ErrInvalidRelativePath, err)
		}
		rel = filepath.ToSlash(rel)

		if ok, reason := d.filter.Include(rel); !ok {
			slog.Debug("Skipping filtered path", logfields.File(rel), slog.String("reason", reason))
			return nil
		}

		switch {
		case isMarkdownFile(name):
			doc, issues, err := d.loadDocument(p, rel)
			if err != nil {
				return err
			}
			res.Issues = append(res.Issues, issues...)

			if prev, dup := byID[doc.ID]; dup {
				res.Issues = append(res.Issues, Issue{
					Code:     CodeIDCollision,
					Severity: SeverityError,
					Path:     rel,
					DocID:    doc.ID,
					Message:  fmt.Sprintf("document id %q already produced by %s", doc.ID, prev),
				})
				return nil
			}
			byID[doc.ID] = rel
			res.Documents = append(res.Documents, doc)

			slog.Debug("Discovered document", logfields.File(rel), logfields.DocID(doc.ID), logfields.Section(doc.Section))

		case isAsset(name):
			res.Assets = append(res.Assets, Asset{Path: p, RelPath: rel})
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("%w: %s: %w", cerrors.ErrContentWalkFailed, d.contentDir, walkErr)
	}

	if len(res.Documents) == 0 {
		return nil, fmt.Errorf("%w: %s", cerrors.ErrNoDocumentsFound, d.contentDir)
	}

	slog.Info("Content scanned",
		logfields.Path(d.contentDir),
		slog.Int("documents", len(res.Documents)),
		slog.Int("assets", len(res.Assets)),
		slog.Int("issues", len(res.Issues)))

	return res, nil
}

func (d *Discovery) loadDocument(absPath, relPath string) (*Document, []Issue, error) {
	raw, err := os.ReadFile(absPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", cerrors.ErrFileReadFailed, relPath, err)
	}

	id := DeriveID(relPath)
	section, docName := splitID(id)

	doc := &Document{
		Path:      absPath,
		RelPath:   relPath,
		ID:        id,
		Section:   section,
		Name:      docName,
		Extension: strings.ToLower(filepath.Ext(relPath)),
	}

	var issues []Issue

	fields, body, had, style, parseErr := frontmatter.Parse(raw)
	if parseErr != nil {
		issues = append(issues, Issue{
			Code:     CodeMalformedFrontmatter,
			Severity: SeverityWarning,
			Path:     relPath,
			DocID:    id,
			Message:  parseErr.Error(),
		})
		if body == nil {
			// No closing delimiter: treat the whole file as body so the
			// document still participates in resolution.
			body = raw
		}
		fields = map[string]any{}
	}

	typed, decodeErr := frontmatter.DecodeFields(fields)
	if decodeErr != nil {
		issues = append(issues, Issue{
			Code:     CodeMalformedFrontmatter,
			Severity: SeverityWarning,
			Path:     relPath,
			DocID:    id,
			Message:  decodeErr.Error(),
		})
	}

	doc.Fields = fields
	doc.Body = body
	doc.Style = style
	doc.HasFrontmatter = had && parseErr == nil
	doc.Description = typed.Description
	doc.SidebarLabel = typed.SidebarLabel
	doc.SidebarPosition = typed.SidebarPosition
	doc.Slug = typed.Slug
	doc.Draft = typed.Draft
	doc.Tags = typed.Tags

	doc.Title = typed.Title
	doc.TitleSource = TitleFromFrontmatter
	if doc.Title == "" {
		if h, ok := markdown.FirstHeading(body, markdown.Options{}); ok {
			doc.Title = h
			doc.TitleSource = TitleFromHeading
		} else {
			doc.Title = docName
			doc.TitleSource = TitleFromFilename
		}
		issues = append(issues, Issue{
			Code:     CodeMissingTitle,
			Severity: SeverityWarning,
			Path:     relPath,
			DocID:    id,
			Message:  fmt.Sprintf("no title in frontmatter, falling back to %s", doc.TitleSource),
		})
	}

	headings, err := markdown.ExtractHeadings(body, markdown.Options{})
	if err == nil {
		doc.Headings = headings
	}

	if fp, err := frontmatter.Fingerprint(fields, body); err == nil {
		doc.Fingerprint = fp
	}

	return doc, issues, nil
}

func splitID(id string) (section, name string) {
	idx := strings.LastIndexByte(id, '/')
	if idx < 0 {
		return "", id
	}
	return id[:idx], id[idx+1:]
}

// isMarkdownFile checks if a file is a Markdown or MDX document.
func isMarkdownFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".md" || ext == ".markdown" || ext == ".mdx"
}

// isAsset checks if a file is an asset (image, attachment, data file).
func isAsset(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".bmp", ".ico",
		".pdf",
		".mp4", ".webm", ".ogv",
		".csv", ".json", ".yaml", ".yml", ".xml":
		return true
	}
	return false
}
