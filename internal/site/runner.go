package site

import (
	"context"
	"fmt"
	"time"

	"github.com/docwright/docwright/internal/logfields"
	"github.com/docwright/docwright/internal/observability"
)

// runStages executes stages in order, recording timing and stopping on the
// first fatal error. The generator guarantees a non-nil recorder and observer
// on the build state, so no nil checks are needed here.
func runStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := NewCanceledStageError(st.Name, ctx.Err())
			bs.Report.StageErrorKinds[st.Name] = se.Kind
			bs.Report.AddIssue(IssueCanceled, st.Name, SeverityError, se.Error(), false, se)
			bs.Report.RecordStageResult(st.Name, StageResultCanceled, bs.Generator.recorder)
			bs.Generator.observer.OnStageComplete(st.Name, 0, StageResultCanceled)
			return se
		default:
		}

		stageCtx := observability.WithStage(ctx, string(st.Name))
		bs.Generator.observer.OnStageStart(st.Name)
		t0 := time.Now()
		err := st.Fn(stageCtx, bs)
		dur := time.Since(t0)
		bs.Report.StageDurations[string(st.Name)] = dur
		bs.Generator.recorder.ObserveStageDuration(string(st.Name), dur)

		out := classifyStageResult(st.Name, err)
		if out.Error != nil {
			bs.Report.StageErrorKinds[st.Name] = out.Error.Kind
			bs.Report.AddIssue(out.IssueCode, out.Stage, out.Severity, out.Error.Error(), out.Transient, out.Error)
			if out.Abort {
				observability.ErrorContext(stageCtx, "Stage failed", logfields.Error(out.Error))
			} else {
				observability.WarnContext(stageCtx, "Stage completed with problems", logfields.Error(out.Error))
			}
		} else {
			observability.DebugContext(stageCtx, "Stage completed",
				logfields.DurationMS(float64(dur.Milliseconds())))
		}
		bs.Report.RecordStageResult(st.Name, out.Result, bs.Generator.recorder)
		bs.Generator.observer.OnStageComplete(st.Name, dur, out.Result)

		if out.Abort {
			if out.Error != nil {
				return out.Error
			}
			return fmt.Errorf("stage %s aborted", st.Name)
		}
	}
	return nil
}
