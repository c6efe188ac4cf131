// Package history persists completed builds in an append-only sqlite event
// log. Each build records one build_recorded event plus, when diagnostics
// were emitted, one diagnostics_recorded event; read models are projected
// from the log rather than kept in mutable rows.
package history

import (
	"time"

	"github.com/docwright/docwright/internal/site"
)

// Event type names; stable contract, append-only.
const (
	EventBuildRecorded       = "build_recorded"
	EventDiagnosticsRecorded = "diagnostics_recorded"
)

// Event is one append-only row in the history log.
type Event struct {
	ID        int64
	BuildID   string
	Type      string
	Timestamp time.Time
	Payload   []byte
}

// BuildRecord is the payload of a build_recorded event and the unit the
// status endpoints page through.
type BuildRecord struct {
	BuildID            string    `json:"build_id"`
	Outcome            string    `json:"outcome"`
	Trigger            string    `json:"trigger,omitempty"` // cli|watch|schedule
	Start              time.Time `json:"start"`
	End                time.Time `json:"end"`
	DurationMS         int64     `json:"duration_ms"`
	Documents          int       `json:"documents"`
	Assets             int       `json:"assets"`
	Sidebars           int       `json:"sidebars"`
	Routes             int       `json:"routes"`
	DiagnosticErrors   int       `json:"diagnostic_errors"`
	DiagnosticWarnings int       `json:"diagnostic_warnings"`
	ContentCommit      string    `json:"content_commit,omitempty"`
	ConfigHash         string    `json:"config_hash,omitempty"`
	ToolVersion        string    `json:"tool_version,omitempty"`
}

// DiagnosticsRecord is the payload of a diagnostics_recorded event.
type DiagnosticsRecord struct {
	BuildID     string            `json:"build_id"`
	Diagnostics []site.Diagnostic `json:"diagnostics"`
}

// recordFromReport flattens a build report into the persisted record shape.
// The record stage runs before the report is finalized, so a zero end time
// is filled with the current time.
func recordFromReport(report *site.BuildReport, trigger string) BuildRecord {
	end := report.End
	if end.IsZero() {
		end = time.Now()
	}
	return BuildRecord{
		BuildID:            report.BuildID,
		Outcome:            string(report.Outcome),
		Trigger:            trigger,
		Start:              report.Start,
		End:                end,
		DurationMS:         end.Sub(report.Start).Milliseconds(),
		Documents:          report.Documents,
		Assets:             report.Assets,
		Sidebars:           report.Sidebars,
		Routes:             report.Routes,
		DiagnosticErrors:   report.DiagnosticErrors,
		DiagnosticWarnings: report.DiagnosticWarnings,
		ContentCommit:      report.ContentCommit,
		ConfigHash:         report.ConfigHash,
		ToolVersion:        report.ToolVersion,
	}
}
