package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for build and stage metrics.
// Implementations must tolerate being called from multiple goroutines.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome string) // outcome: success|warning|failed|canceled
	SetDocumentsScanned(n int)
	SetRoutesEmitted(n int)
	IncDiagnostic(code, severity string)
	ObserveHTTPRequest(method, path string, status int, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)            {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)                    {}
func (NoopRecorder) IncStageResult(string, ResultLabel)                    {}
func (NoopRecorder) IncBuildOutcome(string)                                {}
func (NoopRecorder) SetDocumentsScanned(int)                               {}
func (NoopRecorder) SetRoutesEmitted(int)                                  {}
func (NoopRecorder) IncDiagnostic(string, string)                          {}
func (NoopRecorder) ObserveHTTPRequest(string, string, int, time.Duration) {}
