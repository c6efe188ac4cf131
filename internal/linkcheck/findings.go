package linkcheck

import "github.com/docwright/docwright/internal/config"

// Severity grades a link finding.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Finding codes; stable contract, append-only.
const (
	// CodeBrokenLink marks an internal destination that resolves to no
	// document, route, or asset.
	CodeBrokenLink = "BROKEN_LINK"

	// CodeBrokenAnchor marks a fragment that names no heading anchor in
	// the target document.
	CodeBrokenAnchor = "BROKEN_ANCHOR"
)

// Finding describes one unverifiable in-body reference.
type Finding struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	DocID    string   `json:"doc_id"`
	Path     string   `json:"path"`
	Link     string   `json:"link"`
	Message  string   `json:"message"`
}

// ExternalLink is an http(s) or otherwise schemed destination. These are
// recorded for reporting and never fetched.
type ExternalLink struct {
	DocID string `json:"doc_id"`
	URL   string `json:"url"`
}

// Result aggregates one verification pass over the store.
type Result struct {
	Findings []Finding
	External []ExternalLink

	// Checked counts internal destinations that were actually resolved.
	Checked int

	// Skipped counts destinations out of verification scope: mailto/tel
	// links and absolute paths outside the route base (host-level static
	// files the store knows nothing about).
	Skipped int
}

// HasErrors reports whether any finding carries error severity.
func (r *Result) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// severityFor maps a policy onto a finding severity; the second return is
// false when the policy silences the finding.
func severityFor(policy config.RefPolicy) (Severity, bool) {
	switch policy {
	case config.PolicyIgnore:
		return "", false
	case config.PolicyFail:
		return SeverityError, true
	default:
		return SeverityWarning, true
	}
}
