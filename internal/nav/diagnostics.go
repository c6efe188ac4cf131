package nav

import "github.com/docwright/docwright/internal/config"

// Severity grades a resolution diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic codes are a stable contract for machine consumers; append
// new ones, never reuse removed ones.
const (
	// CodeDanglingRef marks a document reference whose id has no document
	// in the store.
	CodeDanglingRef = "DANGLING_REF"

	// CodeDuplicateRef marks a document id referenced more than once
	// across the declared sidebars.
	CodeDuplicateRef = "DUPLICATE_REF"

	// CodeDraftRef marks a reference to a draft document while drafts are
	// excluded from the build.
	CodeDraftRef = "DRAFT_REF"

	// CodeEmptyCategory marks a category left without any resolvable
	// entries.
	CodeEmptyCategory = "EMPTY_CATEGORY"

	// CodeOrphanedDoc marks a store document that no sidebar references.
	CodeOrphanedDoc = "ORPHANED_DOC"
)

// Diagnostic describes one problem found while resolving the navigation
// declaration against the content store.
type Diagnostic struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Sidebar  string   `json:"sidebar,omitempty"`
	DocID    string   `json:"doc_id,omitempty"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
}

// danglingSeverity maps the configured broken-reference policy onto a
// diagnostic severity. The second return is false when the policy is
// ignore and no diagnostic should be emitted at all.
func danglingSeverity(policy config.RefPolicy) (Severity, bool) {
	switch policy {
	case config.PolicyIgnore:
		return "", false
	case config.PolicyFail:
		return SeverityError, true
	default:
		return SeverityWarning, true
	}
}
