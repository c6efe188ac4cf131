package site

import (
	"time"

	"github.com/docwright/docwright/internal/content"
	"github.com/docwright/docwright/internal/linkcheck"
	"github.com/docwright/docwright/internal/nav"
	"github.com/docwright/docwright/internal/sidebar"
)

// BuildState carries mutable state across stages. Each stage reads what
// earlier stages produced and fills in its own slot.
type BuildState struct {
	Generator *Generator
	Report    *BuildReport

	// Scan holds the raw discovery result; Store indexes its documents.
	Scan  *content.ScanResult
	Store *content.Store

	// Sidebars is the parsed declaration; Nav the resolved trees.
	Sidebars *sidebar.File
	Nav      *nav.Result

	// Links is the in-body reference verification result.
	Links *linkcheck.Result

	// Diagnostics accumulates the unified stream emitted to diagnostics.json.
	Diagnostics []Diagnostic

	start time.Time
}

// newBuildState constructs a BuildState.
func newBuildState(g *Generator, report *BuildReport) *BuildState {
	return &BuildState{Generator: g, Report: report, start: time.Now()}
}

// root returns the directory stages write into. During a staged build this
// is the staging dir; in-place builds write straight to the output dir.
func (bs *BuildState) root() string { return bs.Generator.stageDir }

// addDiagnostics appends to the unified stream, updates report counters, and
// feeds the metrics recorder.
func (bs *BuildState) addDiagnostics(ds ...Diagnostic) {
	for _, d := range ds {
		bs.Diagnostics = append(bs.Diagnostics, d)
		switch d.Severity {
		case DiagnosticError:
			bs.Report.DiagnosticErrors++
		case DiagnosticWarning:
			bs.Report.DiagnosticWarnings++
		}
		bs.Generator.recorder.IncDiagnostic(d.Code, string(d.Severity))
	}
}
