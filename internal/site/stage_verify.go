package site

import (
	"context"
	"fmt"

	"github.com/docwright/docwright/internal/linkcheck"
)

// stageVerifyRefs checks every in-body reference against the store. External
// URLs are recorded, never fetched.
func stageVerifyRefs(ctx context.Context, bs *BuildState) error {
	cfg := bs.Generator.cfg
	checker := linkcheck.NewChecker(bs.Store, linkcheck.Options{
		RouteBase:     cfg.Content.RouteBase,
		LinkPolicy:    cfg.Navigation.BrokenLinks,
		AnchorPolicy:  cfg.Navigation.BrokenAnchors,
		IncludeDrafts: cfg.Content.IncludeDrafts,
	})

	res, err := checker.Check(ctx)
	if err != nil {
		return NewCanceledStageError(StageVerifyRefs, err)
	}

	bs.Links = res
	bs.addDiagnostics(fromLinkFindings(res.Findings)...)

	if n := len(res.Findings); n > 0 {
		return NewWarnStageError(StageVerifyRefs, fmt.Errorf("%w: %d finding(s)", ErrLinks, n))
	}
	return nil
}
