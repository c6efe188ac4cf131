package site

import "time"

// BuildObserver receives lifecycle notifications during a build. Implementations
// must be safe for use from the goroutine running the build.
type BuildObserver interface {
	// OnStageStart fires immediately before a stage executes.
	OnStageStart(stage StageName)

	// OnStageComplete fires after a stage finishes, with its duration and
	// classified result.
	OnStageComplete(stage StageName, d time.Duration, result StageResult)

	// OnBuildComplete fires once after the pipeline stops, whether it ran to
	// completion or aborted.
	OnBuildComplete(report *BuildReport)
}

// NoopObserver ignores all notifications. The generator installs it by
// default so stage code never has to nil-check the observer.
type NoopObserver struct{}

func (NoopObserver) OnStageStart(StageName) {}

func (NoopObserver) OnStageComplete(StageName, time.Duration, StageResult) {}

func (NoopObserver) OnBuildComplete(*BuildReport) {}
