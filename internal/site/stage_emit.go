package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/docwright/docwright/internal/content"
	"github.com/docwright/docwright/internal/frontmatter"
	"github.com/docwright/docwright/internal/nav"
	"github.com/docwright/docwright/internal/version"
)

// stageEmitModel writes the machine-readable site model: site.json manifest,
// docs.json, sidebar.json, routes.json, diagnostics.json, plus the published
// document sources and assets under content/.
func stageEmitModel(ctx context.Context, bs *BuildState) error {
	cfg := bs.Generator.cfg
	root := bs.root()

	docs := make([]DocModel, 0, bs.Store.Len())
	routes := make([]Route, 0, bs.Store.Len())
	claimed := map[string]bool{}
	for _, doc := range bs.Store.All() {
		if doc.Draft && !cfg.Content.IncludeDrafts {
			continue
		}
		route := routeFor(doc, cfg.Content.RouteBase)
		docs = append(docs, docModel(doc, route))
		if !claimed[route] {
			// Collisions were already diagnosed during scan; first claimant
			// keeps the route.
			claimed[route] = true
			routes = append(routes, Route{Route: route, DocID: doc.ID, Title: doc.Title})
		}
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Route < routes[j].Route })

	sidebars := bs.Nav.Sidebars
	if sidebars == nil {
		sidebars = []nav.Sidebar{}
	}
	diagnostics := bs.Diagnostics
	if diagnostics == nil {
		diagnostics = []Diagnostic{}
	}

	manifest := siteManifest{
		SchemaVersion: 1,
		BuildID:       bs.Report.BuildID,
		GeneratedAt:   time.Now().UTC(),
		ToolVersion:   version.Version,
		ContentCommit: bs.Report.ContentCommit,
		Site:          siteInfoFromConfig(cfg),
		Counts: modelCounts{
			Documents:   len(docs),
			Assets:      len(bs.Scan.Assets),
			Sidebars:    len(sidebars),
			Routes:      len(routes),
			Diagnostics: len(diagnostics),
		},
	}

	files := []struct {
		name string
		v    any
	}{
		{"site.json", manifest},
		{"docs.json", docsFile{Documents: docs}},
		{"sidebar.json", sidebarFile{Sidebars: sidebars}},
		{"routes.json", routesFile{Routes: routes}},
		{"diagnostics.json", diagnosticsFile{Diagnostics: diagnostics}},
	}
	for _, f := range files {
		if err := writeJSON(filepath.Join(root, f.name), f.v); err != nil {
			return NewFatalStageError(StageEmitModel, fmt.Errorf("%w: %w", ErrEmit, err))
		}
	}

	if err := copyContentTree(ctx, bs); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return NewCanceledStageError(StageEmitModel, err)
		}
		return NewFatalStageError(StageEmitModel, fmt.Errorf("%w: %w", ErrEmit, err))
	}

	bs.Report.Routes = len(routes)
	bs.Generator.recorder.SetRoutesEmitted(len(routes))
	return nil
}

// copyContentTree mirrors published document sources and all assets into
// <root>/content/, preserving the content-relative layout so relative links
// and image references keep working in preview.
func copyContentTree(ctx context.Context, bs *BuildState) error {
	cfg := bs.Generator.cfg
	dest := filepath.Join(bs.root(), "content")

	for _, doc := range bs.Store.All() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if doc.Draft && !cfg.Content.IncludeDrafts {
			continue
		}
		if err := publishDocument(doc, filepath.Join(dest, filepath.FromSlash(doc.RelPath))); err != nil {
			return fmt.Errorf("publish document %s: %w", doc.RelPath, err)
		}
	}
	for _, asset := range bs.Scan.Assets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := copyFile(asset.Path, filepath.Join(dest, filepath.FromSlash(asset.RelPath))); err != nil {
			return fmt.Errorf("copy asset %s: %w", asset.RelPath, err)
		}
	}
	return nil
}

// publishDocument writes the published copy of one document. A document with
// clean front matter gets the computed fingerprint and the git last-update
// stamped into the copy, keys sorted, newline style preserved; anything else
// is copied byte for byte. The source tree is never written to.
func publishDocument(doc *content.Document, dst string) error {
	if !doc.HasFrontmatter || doc.Fingerprint == "" {
		return copyFile(doc.Path, dst)
	}

	fields := make(map[string]any, len(doc.Fields)+2)
	for k, v := range doc.Fields {
		fields[k] = v
	}
	fields[frontmatter.KeyFingerprint] = doc.Fingerprint
	if doc.LastUpdated != nil {
		fields[frontmatter.KeyLastmod] = doc.LastUpdated.At.UTC().Format(time.RFC3339)
	}

	fm, err := frontmatter.SerializeYAML(fields, doc.Style)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}
	return os.WriteFile(dst, frontmatter.Join(fm, doc.Body, true, doc.Style), 0o600)
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
