// Package nav resolves declared sidebar trees against the content store.
// Resolution is a pure single pass: every document reference is looked up,
// categories keep their children in effective-position order, and anything
// that does not hold up (dangling ids, duplicates, draft references) comes
// back as a diagnostic instead of aborting the run.
package nav

import (
	"fmt"
	"math"
	"sort"

	"github.com/docwright/docwright/internal/config"
	"github.com/docwright/docwright/internal/content"
	"github.com/docwright/docwright/internal/sidebar"
)

// Entry is one resolved navigation node.
type Entry struct {
	Kind  sidebar.Kind `json:"kind"`
	Label string       `json:"label"`

	// Document entries only.
	DocID string `json:"doc_id,omitempty"`
	Route string `json:"route,omitempty"` // route-base-relative

	// Category entries only.
	Items []Entry `json:"items,omitempty"`
}

// Sidebar is one fully resolved tree.
type Sidebar struct {
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
}

// Result is the outcome of resolving a sidebar declaration.
type Result struct {
	Sidebars    []Sidebar
	Diagnostics []Diagnostic
}

// HasErrors reports whether any diagnostic carries error severity.
func (r *Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Entries returns the resolved entries of the named sidebar, or nil.
func (r *Result) Entries(name string) []Entry {
	for _, sb := range r.Sidebars {
		if sb.Name == name {
			return sb.Entries
		}
	}
	return nil
}

// Options control reference handling during resolution.
type Options struct {
	// Policy decides the severity of dangling references: warn (default),
	// fail (error severity), or ignore.
	Policy config.RefPolicy

	// IncludeDrafts permits references to draft documents. When false a
	// reference to a draft is dropped with a diagnostic, matching the
	// document's absence from the emitted model.
	IncludeDrafts bool

	// WarnOrphans reports store documents that no sidebar references.
	WarnOrphans bool
}

// Resolver validates a sidebar declaration against a content store and
// produces the ordered navigation model.
type Resolver struct {
	store *content.Store
	opts  Options
}

// NewResolver builds a resolver over the given store.
func NewResolver(store *content.Store, opts Options) *Resolver {
	return &Resolver{store: store, opts: opts}
}

// firstRef remembers where a document id was first referenced.
type firstRef struct {
	sidebar string
	line    int
}

// Resolve walks every declared sidebar in order. A dangling or draft
// reference never aborts resolution: the entry is dropped, a diagnostic is
// recorded, and sibling entries still resolve.
func (r *Resolver) Resolve(file *sidebar.File) *Result {
	res := &Result{}
	if file == nil {
		return res
	}

	seen := make(map[string]firstRef)
	for _, name := range file.Order {
		walk := &treeWalk{
			resolver: r,
			sidebar:  name,
			seen:     seen,
			result:   res,
		}
		res.Sidebars = append(res.Sidebars, Sidebar{
			Name:    name,
			Entries: walk.resolveLevel(file.Sidebars[name]),
		})
	}

	if r.opts.WarnOrphans {
		r.reportOrphans(seen, res)
	}
	return res
}

// treeWalk carries the per-file resolution state through one sidebar.
type treeWalk struct {
	resolver *Resolver
	sidebar  string
	seen     map[string]firstRef
	result   *Result
}

// levelEntry pairs a resolved entry with its ordering key. seq is implicit
// in slice order; the stable sort keeps declaration order for equal
// positions.
type levelEntry struct {
	entry    Entry
	position int
}

// unsetPosition sorts entries without a hint after every hinted entry.
const unsetPosition = math.MaxInt

func (w *treeWalk) resolveLevel(nodes []sidebar.Node) []Entry {
	level := make([]levelEntry, 0, len(nodes))
	for _, node := range nodes {
		switch node.Kind {
		case sidebar.KindDoc:
			entry, pos, ok := w.resolveDoc(node)
			if ok {
				level = append(level, levelEntry{entry: entry, position: pos})
			}
		case sidebar.KindCategory:
			items := w.resolveLevel(node.Items)
			if len(items) == 0 {
				w.diag(Diagnostic{
					Code:     CodeEmptyCategory,
					Severity: SeverityWarning,
					Sidebar:  w.sidebar,
					Line:     node.Line,
					Message:  fmt.Sprintf("category %q has no resolvable entries", node.Label),
				})
				continue
			}
			level = append(level, levelEntry{
				entry:    Entry{Kind: sidebar.KindCategory, Label: node.Label, Items: items},
				position: positionOrUnset(node.Position),
			})
		}
	}

	sort.SliceStable(level, func(i, j int) bool {
		return level[i].position < level[j].position
	})

	entries := make([]Entry, len(level))
	for i, le := range level {
		entries[i] = le.entry
	}
	return entries
}

func (w *treeWalk) resolveDoc(node sidebar.Node) (Entry, int, bool) {
	r := w.resolver

	doc, ok := r.store.Get(node.DocID)
	if !ok {
		if severity, report := danglingSeverity(r.opts.Policy); report {
			w.diag(Diagnostic{
				Code:     CodeDanglingRef,
				Severity: severity,
				Sidebar:  w.sidebar,
				DocID:    node.DocID,
				Line:     node.Line,
				Message:  fmt.Sprintf("no document with id %q", node.DocID),
			})
		}
		return Entry{}, 0, false
	}

	if first, dup := w.seen[node.DocID]; dup {
		w.diag(Diagnostic{
			Code:     CodeDuplicateRef,
			Severity: SeverityWarning,
			Sidebar:  w.sidebar,
			DocID:    node.DocID,
			Line:     node.Line,
			Message:  fmt.Sprintf("document %q already referenced in sidebar %q (line %d)", node.DocID, first.sidebar, first.line),
		})
	} else {
		w.seen[node.DocID] = firstRef{sidebar: w.sidebar, line: node.Line}
	}

	if doc.Draft && !r.opts.IncludeDrafts {
		w.diag(Diagnostic{
			Code:     CodeDraftRef,
			Severity: SeverityWarning,
			Sidebar:  w.sidebar,
			DocID:    node.DocID,
			Line:     node.Line,
			Message:  fmt.Sprintf("document %q is a draft and is excluded from the build", node.DocID),
		})
		return Entry{}, 0, false
	}

	label := node.Label
	if label == "" {
		label = doc.NavLabel()
	}

	pos := unsetPosition
	if node.Position != nil {
		pos = *node.Position
	} else if p, hinted := doc.Position(); hinted {
		pos = p
	}

	entry := Entry{
		Kind:  sidebar.KindDoc,
		Label: label,
		DocID: doc.ID,
		Route: doc.RoutePath(),
	}
	return entry, pos, true
}

func (w *treeWalk) diag(d Diagnostic) {
	w.result.Diagnostics = append(w.result.Diagnostics, d)
}

func positionOrUnset(p *int) int {
	if p == nil {
		return unsetPosition
	}
	return *p
}

// reportOrphans emits a warning for every non-draft document the sidebars
// never mention, in scan order.
func (r *Resolver) reportOrphans(seen map[string]firstRef, res *Result) {
	for _, doc := range r.store.All() {
		if doc.Draft {
			continue
		}
		if _, ok := seen[doc.ID]; ok {
			continue
		}
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Code:     CodeOrphanedDoc,
			Severity: SeverityWarning,
			DocID:    doc.ID,
			Message:  fmt.Sprintf("document %q is not referenced by any sidebar", doc.ID),
		})
	}
}
