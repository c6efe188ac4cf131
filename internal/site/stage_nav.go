package site

import (
	"context"
	"fmt"

	"github.com/docwright/docwright/internal/nav"
)

// stageResolveNav runs the navigation resolver against the content store.
// Dangling and duplicate references surface as diagnostics; the stage warns
// but never aborts, so the emitted model always reflects what did resolve.
func stageResolveNav(_ context.Context, bs *BuildState) error {
	cfg := bs.Generator.cfg
	res := nav.NewResolver(bs.Store, nav.Options{
		Policy:        cfg.Navigation.BrokenReferences,
		IncludeDrafts: cfg.Content.IncludeDrafts,
		WarnOrphans:   cfg.Navigation.WarnOrphans,
	}).Resolve(bs.Sidebars)

	bs.Nav = res
	bs.Report.Sidebars = len(res.Sidebars)
	bs.addDiagnostics(fromNavDiagnostics(res.Diagnostics)...)

	if n := len(res.Diagnostics); n > 0 {
		return NewWarnStageError(StageResolveNav, fmt.Errorf("%w: %d diagnostic(s)", ErrNavigation, n))
	}
	return nil
}
