// Package linkcheck verifies in-body references between documents against
// the content store: relative file links, absolute route links, anchor
// fragments, and asset references. External URLs are recorded, never
// fetched.
package linkcheck

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/docwright/docwright/internal/config"
	"github.com/docwright/docwright/internal/content"
	"github.com/docwright/docwright/internal/logfields"
	"github.com/docwright/docwright/internal/markdown"
)

// Options control scope and severity of the verification pass.
type Options struct {
	// RouteBase is the leading route segment documents are served under
	// (e.g. "docs" for /docs/...). Absolute links outside it cannot be
	// verified against the store and are skipped.
	RouteBase string

	// LinkPolicy decides the severity of broken link findings.
	LinkPolicy config.RefPolicy

	// AnchorPolicy decides the severity of broken anchor findings.
	AnchorPolicy config.RefPolicy

	// IncludeDrafts treats draft documents as published: their bodies are
	// checked and links targeting them resolve.
	IncludeDrafts bool
}

// Checker verifies one content store.
type Checker struct {
	store  *content.Store
	opts   Options
	routes map[string]*content.Document
}

// NewChecker indexes the store's routes for absolute-link resolution.
func NewChecker(store *content.Store, opts Options) *Checker {
	routes := make(map[string]*content.Document, store.Len())
	for _, doc := range store.All() {
		routes[doc.RoutePath()] = doc
	}
	return &Checker{store: store, opts: opts, routes: routes}
}

// Check walks every published document's body links. One unresolvable
// destination never stops the pass; it becomes a finding and the walk
// moves on.
func (c *Checker) Check(ctx context.Context) (*Result, error) {
	res := &Result{}
	for _, doc := range c.store.All() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if doc.Draft && !c.opts.IncludeDrafts {
			continue
		}

		links, err := markdown.ExtractLinks(doc.Body, markdown.Options{})
		if err != nil {
			slog.Warn("Skipping link extraction for document",
				logfields.DocID(doc.ID),
				logfields.Error(err))
			continue
		}
		for _, link := range links {
			c.checkLink(doc, link, res)
		}
	}
	return res, nil
}

func (c *Checker) checkLink(doc *content.Document, link markdown.Link, res *Result) {
	dest := strings.TrimSpace(link.Destination)
	if dest == "" {
		return
	}

	u, err := url.Parse(dest)
	if err != nil {
		c.addFinding(res, c.opts.LinkPolicy, Finding{
			Code:    CodeBrokenLink,
			DocID:   doc.ID,
			Path:    doc.RelPath,
			Link:    dest,
			Message: fmt.Sprintf("unparsable destination: %v", err),
		})
		return
	}

	switch {
	case u.Scheme == "mailto" || u.Scheme == "tel":
		res.Skipped++
		return
	case u.Scheme != "" || u.Host != "":
		res.External = append(res.External, ExternalLink{DocID: doc.ID, URL: dest})
		return
	}

	if u.Path == "" {
		// Fragment-only link targets the same document.
		res.Checked++
		c.checkAnchor(doc, doc, dest, u.Fragment, res)
		return
	}

	if strings.HasPrefix(u.Path, "/") {
		c.checkAbsolute(doc, dest, u, res)
		return
	}
	c.checkRelative(doc, dest, u, res)
}

// checkAbsolute resolves a site-absolute path through the route table.
func (c *Checker) checkAbsolute(doc *content.Document, dest string, u *url.URL, res *Result) {
	rel := strings.Trim(u.Path, "/")
	if c.opts.RouteBase != "" {
		base := c.opts.RouteBase + "/"
		switch {
		case rel == c.opts.RouteBase:
			rel = ""
		case strings.HasPrefix(rel, base):
			rel = strings.TrimPrefix(rel, base)
		default:
			// Outside the documented route space (e.g. /img/logo.png
			// served from a static dir); nothing to verify against.
			res.Skipped++
			return
		}
	}

	res.Checked++
	target, ok := c.routes[rel]
	if !ok {
		c.addFinding(res, c.opts.LinkPolicy, Finding{
			Code:    CodeBrokenLink,
			DocID:   doc.ID,
			Path:    doc.RelPath,
			Link:    dest,
			Message: fmt.Sprintf("no document served at route %q", u.Path),
		})
		return
	}
	if c.targetUnpublished(target) {
		c.addFinding(res, c.opts.LinkPolicy, Finding{
			Code:    CodeBrokenLink,
			DocID:   doc.ID,
			Path:    doc.RelPath,
			Link:    dest,
			Message: fmt.Sprintf("route %q resolves to draft document %q", u.Path, target.ID),
		})
		return
	}
	c.checkAnchor(doc, target, dest, u.Fragment, res)
}

// checkRelative resolves a source-relative path against the content tree.
func (c *Checker) checkRelative(doc *content.Document, dest string, u *url.URL, res *Result) {
	res.Checked++

	joined := path.Join(path.Dir(doc.RelPath), u.Path)
	if joined == ".." || strings.HasPrefix(joined, "../") {
		c.addFinding(res, c.opts.LinkPolicy, Finding{
			Code:    CodeBrokenLink,
			DocID:   doc.ID,
			Path:    doc.RelPath,
			Link:    dest,
			Message: "destination escapes the content directory",
		})
		return
	}

	ext := strings.ToLower(path.Ext(joined))
	if ext != "" && !isMarkdownExt(ext) {
		if !c.store.HasAsset(joined) {
			c.addFinding(res, c.opts.LinkPolicy, Finding{
				Code:    CodeBrokenLink,
				DocID:   doc.ID,
				Path:    doc.RelPath,
				Link:    dest,
				Message: fmt.Sprintf("no asset at %q", joined),
			})
		}
		return
	}

	target, ok := c.store.Get(content.DeriveID(joined))
	if !ok {
		c.addFinding(res, c.opts.LinkPolicy, Finding{
			Code:    CodeBrokenLink,
			DocID:   doc.ID,
			Path:    doc.RelPath,
			Link:    dest,
			Message: fmt.Sprintf("no document for %q", joined),
		})
		return
	}
	if c.targetUnpublished(target) {
		c.addFinding(res, c.opts.LinkPolicy, Finding{
			Code:    CodeBrokenLink,
			DocID:   doc.ID,
			Path:    doc.RelPath,
			Link:    dest,
			Message: fmt.Sprintf("%q resolves to draft document %q", joined, target.ID),
		})
		return
	}
	c.checkAnchor(doc, target, dest, u.Fragment, res)
}

func (c *Checker) checkAnchor(doc, target *content.Document, dest, fragment string, res *Result) {
	if fragment == "" {
		return
	}
	if _, ok := target.Anchors()[fragment]; ok {
		return
	}
	c.addFinding(res, c.opts.AnchorPolicy, Finding{
		Code:    CodeBrokenAnchor,
		DocID:   doc.ID,
		Path:    doc.RelPath,
		Link:    dest,
		Message: fmt.Sprintf("document %q has no heading anchor %q", target.ID, fragment),
	})
}

func (c *Checker) targetUnpublished(target *content.Document) bool {
	return target.Draft && !c.opts.IncludeDrafts
}

func (c *Checker) addFinding(res *Result, policy config.RefPolicy, f Finding) {
	severity, report := severityFor(policy)
	if !report {
		return
	}
	f.Severity = severity
	res.Findings = append(res.Findings, f)
}

func isMarkdownExt(ext string) bool {
	switch ext {
	case ".md", ".markdown", ".mdx":
		return true
	}
	return false
}
