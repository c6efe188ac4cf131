package site

import (
	"context"
	"fmt"
)

// stageRecordBuild appends the build to the history store. The outcome known
// so far is persisted; a failing history write degrades to a warning and is
// the one stage error the daemon treats as retryable.
func stageRecordBuild(ctx context.Context, bs *BuildState) error {
	bs.Report.Outcome = bs.Report.outcomeSoFar()
	if err := bs.Generator.history.RecordBuild(ctx, bs.Report, bs.Diagnostics); err != nil {
		return NewWarnStageError(StageRecordBuild, fmt.Errorf("%w: %w", ErrHistory, err))
	}
	return nil
}
