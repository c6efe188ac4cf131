package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/docwright/docwright/internal/gitmeta"
	"github.com/docwright/docwright/internal/logfields"
)

// stageEnrichGit annotates documents with last-update metadata from the
// content repository log. Enrichment is best-effort: a content dir outside
// any repository degrades to a warning, never an abort.
func stageEnrichGit(ctx context.Context, bs *BuildState) error {
	ann, err := gitmeta.Open(bs.Generator.cfg.Content.Dir)
	if err != nil {
		return NewWarnStageError(StageEnrichGit, fmt.Errorf("git metadata unavailable: %w", err))
	}

	n, err := ann.Annotate(ctx, bs.Scan.Documents)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return NewCanceledStageError(StageEnrichGit, err)
		}
		return NewWarnStageError(StageEnrichGit, fmt.Errorf("git metadata incomplete: %w", err))
	}

	if head, err := ann.HeadCommit(); err == nil {
		bs.Report.ContentCommit = head
	}

	slog.Debug("Annotated documents from git log", logfields.Count(n))
	return nil
}
