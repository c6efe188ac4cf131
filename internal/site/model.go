package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/docwright/docwright/internal/config"
	"github.com/docwright/docwright/internal/content"
	"github.com/docwright/docwright/internal/linkcheck"
	"github.com/docwright/docwright/internal/nav"
)

// DiagnosticSource names the pipeline phase a diagnostic came from.
type DiagnosticSource string

const (
	SourceContent    DiagnosticSource = "content"
	SourceNavigation DiagnosticSource = "navigation"
	SourceLinks      DiagnosticSource = "links"
)

// DiagnosticSeverity grades a unified diagnostic.
type DiagnosticSeverity string

const (
	DiagnosticWarning DiagnosticSeverity = "warning"
	DiagnosticError   DiagnosticSeverity = "error"
)

// Diagnostic is the unified shape content issues, navigation diagnostics and
// link findings are flattened into for diagnostics.json. Codes pass through
// from the producing package unchanged.
type Diagnostic struct {
	Source   DiagnosticSource   `json:"source"`
	Code     string             `json:"code"`
	Severity DiagnosticSeverity `json:"severity"`
	DocID    string             `json:"doc_id,omitempty"`
	Path     string             `json:"path,omitempty"`
	Sidebar  string             `json:"sidebar,omitempty"`
	Line     int                `json:"line,omitempty"`
	Message  string             `json:"message"`
}

func fromScanIssues(issues []content.Issue) []Diagnostic {
	out := make([]Diagnostic, 0, len(issues))
	for _, is := range issues {
		out = append(out, Diagnostic{
			Source:   SourceContent,
			Code:     is.Code,
			Severity: DiagnosticSeverity(is.Severity),
			DocID:    is.DocID,
			Path:     is.Path,
			Message:  is.Message,
		})
	}
	return out
}

func fromNavDiagnostics(ds []nav.Diagnostic) []Diagnostic {
	out := make([]Diagnostic, 0, len(ds))
	for _, d := range ds {
		out = append(out, Diagnostic{
			Source:   SourceNavigation,
			Code:     d.Code,
			Severity: DiagnosticSeverity(d.Severity),
			DocID:    d.DocID,
			Sidebar:  d.Sidebar,
			Line:     d.Line,
			Message:  d.Message,
		})
	}
	return out
}

func fromLinkFindings(fs []linkcheck.Finding) []Diagnostic {
	out := make([]Diagnostic, 0, len(fs))
	for _, f := range fs {
		out = append(out, Diagnostic{
			Source:   SourceLinks,
			Code:     f.Code,
			Severity: DiagnosticSeverity(f.Severity),
			DocID:    f.DocID,
			Path:     f.Path,
			Message:  fmt.Sprintf("%s: %s", f.Link, f.Message),
		})
	}
	return out
}

// SiteInfo is the JSON projection of the site configuration carried in the
// emitted manifest. It mirrors config.SiteConfig so the emitted contract
// stays stable when config parsing evolves.
type SiteInfo struct {
	Title              string            `json:"title"`
	Tagline            string            `json:"tagline,omitempty"`
	BaseURL            string            `json:"base_url,omitempty"`
	Locales            []string          `json:"locales,omitempty"`
	DefaultLocale      string            `json:"default_locale,omitempty"`
	ColorMode          *ColorModeInfo    `json:"color_mode,omitempty"`
	Palette            map[string]string `json:"palette,omitempty"`
	Navbar             []NavbarInfo      `json:"navbar,omitempty"`
	Footer             *FooterInfo       `json:"footer,omitempty"`
	HighlightLanguages []string          `json:"highlight_languages,omitempty"`
	RouteBase          string            `json:"route_base,omitempty"`
}

// ColorModeInfo mirrors config.ColorModeConfig.
type ColorModeInfo struct {
	Default       string `json:"default,omitempty"`
	Switchable    *bool  `json:"switchable,omitempty"`
	RespectSystem bool   `json:"respect_system,omitempty"`
}

// NavbarInfo mirrors config.NavbarItem.
type NavbarInfo struct {
	Label    string `json:"label"`
	To       string `json:"to,omitempty"`
	Href     string `json:"href,omitempty"`
	Position string `json:"position,omitempty"`
}

// FooterInfo mirrors config.FooterConfig.
type FooterInfo struct {
	Style     string            `json:"style,omitempty"`
	Links     []FooterGroupInfo `json:"links,omitempty"`
	Copyright string            `json:"copyright,omitempty"`
}

// FooterGroupInfo mirrors config.FooterGroup.
type FooterGroupInfo struct {
	Title string           `json:"title"`
	Items []FooterItemInfo `json:"items,omitempty"`
}

// FooterItemInfo mirrors config.FooterItem.
type FooterItemInfo struct {
	Label string `json:"label"`
	To    string `json:"to,omitempty"`
	Href  string `json:"href,omitempty"`
}

func siteInfoFromConfig(cfg *config.Config) SiteInfo {
	s := cfg.Site
	info := SiteInfo{
		Title:              s.Title,
		Tagline:            s.Tagline,
		BaseURL:            s.BaseURL,
		Locales:            s.Locales,
		Palette:            s.Palette,
		HighlightLanguages: s.HighlightLanguages,
		RouteBase:          cfg.Content.RouteBase,
	}
	if len(s.Locales) > 0 {
		info.DefaultLocale = s.Locales[0]
	}
	cm := s.ColorMode
	if cm.Default != "" || cm.Switchable != nil || cm.RespectSystem {
		info.ColorMode = &ColorModeInfo{
			Default:       cm.Default,
			Switchable:    cm.Switchable,
			RespectSystem: cm.RespectSystem,
		}
	}
	for _, item := range s.Navbar {
		info.Navbar = append(info.Navbar, NavbarInfo{
			Label:    item.Label,
			To:       item.To,
			Href:     item.Href,
			Position: item.Position,
		})
	}
	f := s.Footer
	if f.Style != "" || f.Copyright != "" || len(f.Links) > 0 {
		fi := &FooterInfo{Style: f.Style, Copyright: f.Copyright}
		for _, g := range f.Links {
			gi := FooterGroupInfo{Title: g.Title}
			for _, it := range g.Items {
				gi.Items = append(gi.Items, FooterItemInfo{Label: it.Label, To: it.To, Href: it.Href})
			}
			fi.Links = append(fi.Links, gi)
		}
		info.Footer = fi
	}
	return info
}

// DocModel is one published document in docs.json.
type DocModel struct {
	ID              string            `json:"id"`
	Section         string            `json:"section,omitempty"`
	Name            string            `json:"name"`
	Title           string            `json:"title"`
	TitleSource     string            `json:"title_source"`
	Description     string            `json:"description,omitempty"`
	SidebarLabel    string            `json:"sidebar_label,omitempty"`
	SidebarPosition *int              `json:"sidebar_position,omitempty"`
	Slug            string            `json:"slug,omitempty"`
	Tags            []string          `json:"tags,omitempty"`
	Draft           bool              `json:"draft,omitempty"`
	Route           string            `json:"route"`
	SourcePath      string            `json:"source_path"`
	Fingerprint     string            `json:"fingerprint"`
	Headings        []HeadingModel    `json:"headings,omitempty"`
	LastUpdated     *LastUpdatedModel `json:"last_updated,omitempty"`
}

// HeadingModel is one TOC entry.
type HeadingModel struct {
	Level  int    `json:"level"`
	Text   string `json:"text"`
	Anchor string `json:"anchor"`
}

// LastUpdatedModel carries git enrichment when available.
type LastUpdatedModel struct {
	At time.Time `json:"at"`
	By string    `json:"by,omitempty"`
}

// Route is one entry in routes.json.
type Route struct {
	Route string `json:"route"`
	DocID string `json:"doc_id"`
	Title string `json:"title"`
}

func docModel(doc *content.Document, route string) DocModel {
	m := DocModel{
		ID:              doc.ID,
		Section:         doc.Section,
		Name:            doc.Name,
		Title:           doc.Title,
		TitleSource:     string(doc.TitleSource),
		Description:     doc.Description,
		SidebarLabel:    doc.SidebarLabel,
		SidebarPosition: doc.SidebarPosition,
		Slug:            doc.Slug,
		Tags:            doc.Tags,
		Draft:           doc.Draft,
		Route:           route,
		SourcePath:      doc.RelPath,
		Fingerprint:     doc.Fingerprint,
	}
	for _, h := range doc.Headings {
		m.Headings = append(m.Headings, HeadingModel{Level: h.Level, Text: h.Text, Anchor: h.Anchor})
	}
	if doc.LastUpdated != nil {
		m.LastUpdated = &LastUpdatedModel{At: doc.LastUpdated.At, By: doc.LastUpdated.By}
	}
	return m
}

// routeFor prefixes a document's route path with the configured route base.
func routeFor(doc *content.Document, routeBase string) string {
	return path.Join("/", routeBase, doc.RoutePath())
}

// siteManifest is the top-level site.json document.
type siteManifest struct {
	SchemaVersion int         `json:"schema_version"`
	BuildID       string      `json:"build_id"`
	GeneratedAt   time.Time   `json:"generated_at"`
	ToolVersion   string      `json:"tool_version,omitempty"`
	ContentCommit string      `json:"content_commit,omitempty"`
	Site          SiteInfo    `json:"site"`
	Counts        modelCounts `json:"counts"`
}

type modelCounts struct {
	Documents   int `json:"documents"`
	Assets      int `json:"assets"`
	Sidebars    int `json:"sidebars"`
	Routes      int `json:"routes"`
	Diagnostics int `json:"diagnostics"`
}

// Per-file wrapper objects keep every emitted document self-describing.
type docsFile struct {
	Documents []DocModel `json:"documents"`
}

type sidebarFile struct {
	Sidebars []nav.Sidebar `json:"sidebars"`
}

type routesFile struct {
	Routes []Route `json:"routes"`
}

type diagnosticsFile struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// writeJSON marshals v and writes it atomically (tmp + rename).
func writeJSON(dest string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(dest), err)
	}
	data = append(data, '\n')
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp %s: %w", filepath.Base(dest), err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		return fmt.Errorf("atomic rename %s: %w", filepath.Base(dest), err)
	}
	return nil
}
