package site

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/docwright/docwright/internal/metrics"
	"github.com/docwright/docwright/internal/version"
)

// NewBuildReport constructs a report for a fresh build run.
func NewBuildReport() *BuildReport {
	return &BuildReport{
		SchemaVersion:   1,
		BuildID:         uuid.NewString(),
		Start:           time.Now(),
		StageDurations:  make(map[string]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
		ToolVersion:     version.Version,
	}
}

// BuildOutcome is the typed enumeration of final build result states.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// BuildReport captures high-level metrics about a site model build.
type BuildReport struct {
	SchemaVersion   int    // schema version for external consumers
	BuildID         string // unique id, shared with history and notifications
	Documents       int    // published documents in the emitted model
	Assets          int    // referenced static assets discovered alongside documents
	Sidebars        int    // sidebar trees resolved
	Routes          int    // routes emitted
	Start           time.Time
	End             time.Time
	Errors          []error // fatal errors causing build abortion (at most one today)
	Warnings        []error // non-fatal issues (diagnostics, degraded enrichment)
	StageDurations  map[string]time.Duration
	StageErrorKinds map[StageName]StageErrorKind // stage -> error kind (fatal|warning|canceled)
	StageCounts     map[StageName]StageCount     // per-stage classification counts (typed keys; serialize as strings)

	// DiagnosticWarnings and DiagnosticErrors count unified diagnostics
	// (content issues, navigation diagnostics, link findings) by severity.
	DiagnosticWarnings int
	DiagnosticErrors   int

	Outcome BuildOutcome // single source of truth outcome (typed)

	// Issues captures structured machine-parsable issue taxonomy entries
	// (warnings & errors) for automation on top of build history.
	Issues []ReportIssue

	// ContentCommit is the HEAD commit of the content repository, when git
	// metadata enrichment is enabled and the content dir is tracked.
	ContentCommit string

	// ConfigHash is a stable hash of the effective configuration, for change
	// detection across recorded builds.
	ConfigHash string

	// ToolVersion is the docwright version that produced this build.
	ToolVersion string
}

// AddIssue appends a structured issue and mirrors severity into Errors/Warnings slices.
func (r *BuildReport) AddIssue(code ReportIssueCode, stage StageName, severity IssueSeverity, msg string, transient bool, err error) {
	issue := ReportIssue{Code: code, Stage: stage, Severity: severity, Message: msg, Transient: transient}
	r.Issues = append(r.Issues, issue)
	if err != nil {
		switch severity {
		case SeverityError:
			r.Errors = append(r.Errors, err)
		case SeverityWarning:
			r.Warnings = append(r.Warnings, err)
		}
	}
}

// ReportIssueCode enumerates machine-parseable issue identifiers.
// These codes are stable contract and should only be appended (no reuse on removal).
type ReportIssueCode string

const (
	IssueScanFailure       ReportIssueCode = "SCAN_FAILURE"
	IssueNoDocuments       ReportIssueCode = "NO_DOCUMENTS"
	IssueContentIssues     ReportIssueCode = "CONTENT_ISSUES"
	IssueSidebarFailure    ReportIssueCode = "SIDEBAR_FAILURE"
	IssueNavDiagnostics    ReportIssueCode = "NAV_DIAGNOSTICS"
	IssueLinkDiagnostics   ReportIssueCode = "LINK_DIAGNOSTICS"
	IssueGitMetadata       ReportIssueCode = "GIT_METADATA"
	IssueEmitFailure       ReportIssueCode = "EMIT_FAILURE"
	IssueHistoryFailure    ReportIssueCode = "HISTORY_FAILURE"
	IssueCanceled          ReportIssueCode = "BUILD_CANCELED"
	IssueGenericStageError ReportIssueCode = "GENERIC_STAGE_ERROR"
)

// IssueSeverity represents normalized severity levels.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// ReportIssue is a structured taxonomy entry describing a discrete problem encountered.
type ReportIssue struct {
	Code      ReportIssueCode `json:"code"`
	Stage     StageName       `json:"stage"`
	Severity  IssueSeverity   `json:"severity"`
	Message   string          `json:"message"`
	Transient bool            `json:"transient"`
}

// StageCount aggregates counts of outcomes for a stage.
type StageCount struct {
	Success  int
	Warning  int
	Fatal    int
	Canceled int
}

// Finish sets the end time of the report.
func (r *BuildReport) Finish() { r.End = time.Now() }

// RecordStageResult updates BuildReport counters and emits metrics (if recorder non-nil).
func (r *BuildReport) RecordStageResult(stage StageName, res StageResult, recorder metrics.Recorder) {
	if r.StageCounts == nil {
		r.StageCounts = make(map[StageName]StageCount)
	}
	sc := r.StageCounts[stage]
	switch res {
	case StageResultSuccess:
		sc.Success++
		if recorder != nil {
			recorder.IncStageResult(string(stage), metrics.ResultSuccess)
		}
	case StageResultWarning:
		sc.Warning++
		if recorder != nil {
			recorder.IncStageResult(string(stage), metrics.ResultWarning)
		}
	case StageResultFatal:
		sc.Fatal++
		if recorder != nil {
			recorder.IncStageResult(string(stage), metrics.ResultFatal)
		}
	case StageResultCanceled:
		sc.Canceled++
		if recorder != nil {
			recorder.IncStageResult(string(stage), metrics.ResultCanceled)
		}
	case StageResultSkipped:
		// No counters for skipped yet
	}
	r.StageCounts[stage] = sc
}

// Summary returns a human-readable single-line summary.
func (r *BuildReport) Summary() string {
	dur := r.End.Sub(r.Start)
	return fmt.Sprintf("docs=%d assets=%d sidebars=%d routes=%d duration=%s errors=%d warnings=%d diagnostics=%d/%d outcome=%s",
		r.Documents, r.Assets, r.Sidebars, r.Routes, dur.Truncate(time.Millisecond),
		len(r.Errors), len(r.Warnings), r.DiagnosticErrors, r.DiagnosticWarnings, string(r.Outcome))
}

// outcomeSoFar derives the outcome from recorded errors/warnings without
// mutating the report. The record_build stage uses it to persist the outcome
// before DeriveOutcome runs.
func (r *BuildReport) outcomeSoFar() BuildOutcome {
	if len(r.Errors) > 0 {
		for _, e := range r.Errors {
			var se *StageError
			if errors.As(e, &se) && se.Kind == StageErrorCanceled {
				return OutcomeCanceled
			}
		}
		return OutcomeFailed
	}
	if len(r.Warnings) > 0 {
		return OutcomeWarning
	}
	return OutcomeSuccess
}

// DeriveOutcome sets the Outcome field based on recorded errors/warnings.
func (r *BuildReport) DeriveOutcome() { r.Outcome = r.outcomeSoFar() }

// HasTransientIssue reports whether any recorded issue is worth retrying.
func (r *BuildReport) HasTransientIssue() bool {
	for _, issue := range r.Issues {
		if issue.Transient {
			return true
		}
	}
	return false
}

// Persist writes the report atomically into the provided root directory.
func (r *BuildReport) Persist(root string) error {
	if r.End.IsZero() {
		r.Finish()
		r.DeriveOutcome()
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return fmt.Errorf("ensure root for report: %w", err)
	}
	jb, err := json.MarshalIndent(r.SanitizedCopy(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	jsonPath := filepath.Join(root, "build-report.json")
	tmpJSON := jsonPath + ".tmp"
	if err := os.WriteFile(tmpJSON, jb, 0o600); err != nil {
		return fmt.Errorf("write temp report json: %w", err)
	}
	if err := os.Rename(tmpJSON, jsonPath); err != nil {
		return fmt.Errorf("atomic rename json: %w", err)
	}
	summaryPath := filepath.Join(root, "build-report.txt")
	tmpTxt := summaryPath + ".tmp"
	if err := os.WriteFile(tmpTxt, []byte(r.Summary()+"\n"), 0o600); err != nil {
		return fmt.Errorf("write temp report summary: %w", err)
	}
	if err := os.Rename(tmpTxt, summaryPath); err != nil {
		return fmt.Errorf("atomic rename summary: %w", err)
	}
	return nil
}

// SanitizedCopy returns a shallow copy with error fields converted to strings for JSON friendliness.
func (r *BuildReport) SanitizedCopy() *BuildReportSerializable {
	stageCounts := make(map[string]StageCount, len(r.StageCounts))
	for k, v := range r.StageCounts {
		stageCounts[string(k)] = v
	}
	sek := make(map[string]string, len(r.StageErrorKinds))
	for k, v := range r.StageErrorKinds {
		sek[string(k)] = string(v)
	}

	if r.StageDurations == nil {
		r.StageDurations = map[string]time.Duration{}
	}
	if r.Issues == nil {
		r.Issues = []ReportIssue{}
	}

	s := &BuildReportSerializable{
		SchemaVersion:      r.SchemaVersion,
		BuildID:            r.BuildID,
		Documents:          r.Documents,
		Assets:             r.Assets,
		Sidebars:           r.Sidebars,
		Routes:             r.Routes,
		Start:              r.Start,
		End:                r.End,
		Errors:             make([]string, len(r.Errors)),
		Warnings:           make([]string, len(r.Warnings)),
		StageDurations:     r.StageDurations,
		StageErrorKinds:    sek,
		StageCounts:        stageCounts,
		DiagnosticWarnings: r.DiagnosticWarnings,
		DiagnosticErrors:   r.DiagnosticErrors,
		Outcome:            string(r.Outcome),
		Issues:             r.Issues,
		ContentCommit:      r.ContentCommit,
		ConfigHash:         r.ConfigHash,
		ToolVersion:        r.ToolVersion,
	}
	for i, e := range r.Errors {
		s.Errors[i] = e.Error()
	}
	for i, w := range r.Warnings {
		s.Warnings[i] = w.Error()
	}
	return s
}

// BuildReportSerializable mirrors BuildReport but with string errors for JSON output.
type BuildReportSerializable struct {
	SchemaVersion      int                      `json:"schema_version"`
	BuildID            string                   `json:"build_id"`
	Documents          int                      `json:"documents"`
	Assets             int                      `json:"assets"`
	Sidebars           int                      `json:"sidebars"`
	Routes             int                      `json:"routes"`
	Start              time.Time                `json:"start"`
	End                time.Time                `json:"end"`
	Errors             []string                 `json:"errors"`
	Warnings           []string                 `json:"warnings"`
	StageDurations     map[string]time.Duration `json:"stage_durations"`
	StageErrorKinds    map[string]string        `json:"stage_error_kinds"`
	StageCounts        map[string]StageCount    `json:"stage_counts"`
	DiagnosticWarnings int                      `json:"diagnostic_warnings"`
	DiagnosticErrors   int                      `json:"diagnostic_errors"`
	Outcome            string                   `json:"outcome"`
	Issues             []ReportIssue            `json:"issues"`
	ContentCommit      string                   `json:"content_commit,omitempty"`
	ConfigHash         string                   `json:"config_hash,omitempty"`
	ToolVersion        string                   `json:"tool_version,omitempty"`
}
