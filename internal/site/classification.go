package site

import (
	"errors"

	cerrors "github.com/docwright/docwright/internal/content/errors"
)

// StageOutcome normalized result of stage execution.
type StageOutcome struct {
	Stage     StageName
	Error     *StageError
	Result    StageResult
	IssueCode ReportIssueCode
	Severity  IssueSeverity
	Transient bool
	Abort     bool
}

// resultFromStageErrorKind maps a StageErrorKind to a StageResult.
func resultFromStageErrorKind(k StageErrorKind) StageResult {
	switch k {
	case StageErrorWarning:
		return StageResultWarning
	case StageErrorCanceled:
		return StageResultCanceled
	case StageErrorFatal:
		return StageResultFatal
	default:
		return StageResultFatal
	}
}

// severityFromStageErrorKind maps StageErrorKind to IssueSeverity.
func severityFromStageErrorKind(k StageErrorKind) IssueSeverity {
	if k == StageErrorWarning {
		return SeverityWarning
	}
	return SeverityError
}

// classifyStageResult converts a raw error from a stage into a StageOutcome.
func classifyStageResult(stage StageName, err error) StageOutcome {
	if err == nil {
		return StageOutcome{Stage: stage, Result: StageResultSuccess}
	}

	var se *StageError
	if !errors.As(err, &se) {
		// Not a StageError - treat as fatal
		se = NewFatalStageError(stage, err)
		return buildFatalOutcome(stage, se)
	}

	// Check for cancellation first - applies to all stages
	if se.Kind == StageErrorCanceled {
		return buildCanceledOutcome(stage, se)
	}

	code := classifyIssueCode(se)

	return StageOutcome{
		Stage:     stage,
		Error:     se,
		Result:    resultFromStageErrorKind(se.Kind),
		IssueCode: code,
		Severity:  severityFromStageErrorKind(se.Kind),
		Transient: se.Transient(),
		Abort:     se.Kind == StageErrorFatal || se.Kind == StageErrorCanceled,
	}
}

// classifyIssueCode determines the issue code based on stage type and error.
func classifyIssueCode(se *StageError) ReportIssueCode {
	switch se.Stage {
	case StageScanContent:
		return classifyScanIssue(se)
	case StageEnrichGit:
		return IssueGitMetadata
	case StageLoadSidebars:
		return IssueSidebarFailure
	case StageResolveNav:
		return IssueNavDiagnostics
	case StageVerifyRefs:
		return IssueLinkDiagnostics
	case StageEmitModel:
		return IssueEmitFailure
	case StageRecordBuild:
		return IssueHistoryFailure
	default:
		return IssueGenericStageError
	}
}

// classifyScanIssue classifies content scan stage errors.
func classifyScanIssue(se *StageError) ReportIssueCode {
	if errors.Is(se.Err, cerrors.ErrNoDocumentsFound) {
		return IssueNoDocuments
	}
	if se.Kind == StageErrorWarning {
		return IssueContentIssues
	}
	return IssueScanFailure
}

// buildFatalOutcome creates an outcome for fatal errors.
func buildFatalOutcome(stage StageName, se *StageError) StageOutcome {
	return StageOutcome{
		Stage:     stage,
		Error:     se,
		Result:    StageResultFatal,
		IssueCode: IssueGenericStageError,
		Severity:  SeverityError,
		Transient: false,
		Abort:     true,
	}
}

// buildCanceledOutcome creates an outcome for canceled stages.
func buildCanceledOutcome(stage StageName, se *StageError) StageOutcome {
	return StageOutcome{
		Stage:     stage,
		Error:     se,
		Result:    resultFromStageErrorKind(se.Kind),
		IssueCode: IssueCanceled,
		Severity:  severityFromStageErrorKind(se.Kind),
		Transient: se.Transient(),
		Abort:     true,
	}
}
