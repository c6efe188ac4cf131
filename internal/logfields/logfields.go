package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyDocID      = "doc_id"
	KeySection    = "section"
	KeySidebar    = "sidebar"
	KeyCount      = "count"
	KeyCode       = "code"
	KeySeverity   = "severity"
	KeyOutcome    = "outcome"
	KeyAddr       = "addr"
	KeySubject    = "subject"
	KeySchedule   = "schedule_name"
	KeyTrigger    = "trigger"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func DocID(id string) slog.Attr       { return slog.String(KeyDocID, id) }
func Section(s string) slog.Attr      { return slog.String(KeySection, s) }
func Sidebar(name string) slog.Attr   { return slog.String(KeySidebar, name) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Code(c string) slog.Attr         { return slog.String(KeyCode, c) }
func Severity(s string) slog.Attr     { return slog.String(KeySeverity, s) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func Subject(s string) slog.Attr      { return slog.String(KeySubject, s) }
func ScheduleName(n string) slog.Attr { return slog.String(KeySchedule, n) }
func Trigger(t string) slog.Attr      { return slog.String(KeyTrigger, t) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
