package content

import (
	"path"
	"strings"
	"time"

	"github.com/docwright/docwright/internal/frontmatter"
	"github.com/docwright/docwright/internal/markdown"
)

// TitleSource records where a document's effective title came from.
type TitleSource string

const (
	TitleFromFrontmatter TitleSource = "frontmatter"
	TitleFromHeading     TitleSource = "heading"
	TitleFromFilename    TitleSource = "filename"
)

// LastUpdate carries optional source-control metadata for a document.
type LastUpdate struct {
	At time.Time
	By string
}

// Document is one Markdown/MDX source file with its interpreted front-matter.
//
// The ID is derived from the file's path relative to the content directory:
// each segment slugified, extension stripped. "docs/Principles/SOLID/Intro.md"
// under content dir "docs" becomes "principles/solid/intro". IDs are what
// navigation trees and cross-references resolve against; they never change
// when a slug override alters the route.
type Document struct {
	Path      string // absolute source path
	RelPath   string // slash-separated path relative to the content dir
	ID        string
	Section   string // id prefix without the final segment ("" at root)
	Name      string // final id segment
	Extension string

	Title       string
	TitleSource TitleSource
	Description string

	SidebarLabel    string
	SidebarPosition *int
	Slug            string // route override for the final segment
	Draft           bool
	Tags            []string

	Fields         map[string]any // full raw front-matter, unknown keys included
	Body           []byte
	Style          frontmatter.Style
	HasFrontmatter bool // true only when a block was present and parsed

	Headings    []markdown.Heading
	Fingerprint string

	LastUpdated *LastUpdate
}

// Position returns the sidebar position hint, if one was declared.
func (d *Document) Position() (int, bool) {
	if d.SidebarPosition == nil {
		return 0, false
	}
	return *d.SidebarPosition, true
}

// NavLabel is the text a navigation entry shows for this document when the
// tree does not override it: sidebar_label wins over title.
func (d *Document) NavLabel() string {
	if d.SidebarLabel != "" {
		return d.SidebarLabel
	}
	return d.Title
}

// RoutePath is the site-relative route for this document, without the
// route base prefix. A slug override replaces the final segment; an "index"
// document collapses onto its section path.
func (d *Document) RoutePath() string {
	last := d.Name
	if d.Slug != "" {
		last = Slugify(d.Slug)
	} else if d.Name == "index" || d.Name == "readme" {
		return d.Section
	}
	return path.Join(d.Section, last)
}

// Anchors returns the set of valid fragment targets in this document.
func (d *Document) Anchors() map[string]struct{} {
	set := make(map[string]struct{}, len(d.Headings))
	for _, h := range d.Headings {
		set[h.Anchor] = struct{}{}
	}
	return set
}

// DeriveID computes the document id for a content-dir-relative file path.
func DeriveID(relPath string) string {
	noExt := strings.TrimSuffix(relPath, path.Ext(relPath))
	return SlugifyPath(noExt)
}
