package site

import (
	"context"
	"errors"
	"fmt"

	"github.com/docwright/docwright/internal/content"
	cerrors "github.com/docwright/docwright/internal/content/errors"
)

// CodeRouteCollision marks two published documents whose routes resolve to
// the same path (e.g. guides/setup.md next to guides/setup/index.md).
const CodeRouteCollision = "ROUTE_COLLISION"

// stageScanContent discovers the document tree and builds the content store.
// Per-file issues (malformed front-matter, missing titles, id collisions)
// become diagnostics; only an unreadable content dir aborts the build.
func stageScanContent(_ context.Context, bs *BuildState) error {
	cfg := bs.Generator.cfg

	filter, err := content.NewPathFilter(cfg.Content.Include, cfg.Content.Exclude)
	if err != nil {
		return NewFatalStageError(StageScanContent, fmt.Errorf("%w: %w", ErrScan, err))
	}

	scan, err := content.NewDiscovery(cfg.Content.Dir).WithFilter(filter).Scan()
	if err != nil {
		if errors.Is(err, cerrors.ErrNoDocumentsFound) {
			// An empty tree still produces a (vacuous) model; downstream
			// stages run against an empty store.
			bs.Scan = &content.ScanResult{}
			bs.Store = content.NewStore(bs.Scan)
			return NewWarnStageError(StageScanContent, fmt.Errorf("%w: %w", ErrScan, err))
		}
		return NewFatalStageError(StageScanContent, fmt.Errorf("%w: %w", ErrScan, err))
	}

	bs.Scan = scan
	bs.Store = content.NewStore(scan)
	bs.addDiagnostics(fromScanIssues(scan.Issues)...)

	collisions := routeCollisions(bs.Store, cfg.Content.IncludeDrafts)
	bs.addDiagnostics(collisions...)

	published := 0
	for _, doc := range scan.Documents {
		if doc.Draft && !cfg.Content.IncludeDrafts {
			continue
		}
		published++
	}
	bs.Report.Documents = published
	bs.Report.Assets = len(scan.Assets)
	bs.Generator.recorder.SetDocumentsScanned(bs.Store.Len())

	if n := len(scan.Issues) + len(collisions); n > 0 {
		return NewWarnStageError(StageScanContent, fmt.Errorf("%w: %d content issue(s)", ErrScan, n))
	}
	return nil
}

// routeCollisions reports published documents whose route path was already
// claimed by an earlier document. The first claimant keeps the route.
func routeCollisions(store *content.Store, includeDrafts bool) []Diagnostic {
	var out []Diagnostic
	claimed := map[string]string{} // route path -> doc id
	for _, doc := range store.All() {
		if doc.Draft && !includeDrafts {
			continue
		}
		rp := doc.RoutePath()
		if first, dup := claimed[rp]; dup {
			out = append(out, Diagnostic{
				Source:   SourceContent,
				Code:     CodeRouteCollision,
				Severity: DiagnosticWarning,
				DocID:    doc.ID,
				Path:     doc.RelPath,
				Message:  fmt.Sprintf("route %q already emitted for %s", rp, first),
			})
			continue
		}
		claimed[rp] = doc.ID
	}
	return out
}
