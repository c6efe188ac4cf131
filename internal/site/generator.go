// Package site orchestrates the build pipeline: scan content, resolve
// navigation, verify references, and emit the machine-readable site model a
// hosting renderer consumes. Rendering itself (Markdown to HTML, theming)
// is the renderer's job and never happens here.
package site

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/docwright/docwright/internal/config"
	"github.com/docwright/docwright/internal/logfields"
	"github.com/docwright/docwright/internal/metrics"
	"github.com/docwright/docwright/internal/observability"
)

// HistorySink records completed builds. Implementations live outside this
// package (the sqlite history store); the generator only needs the hook.
type HistorySink interface {
	RecordBuild(ctx context.Context, report *BuildReport, diagnostics []Diagnostic) error
}

// Generator runs the build pipeline for one site configuration.
type Generator struct {
	cfg       *config.Config
	outputDir string
	stageDir  string // staging dir during a clean build; == outputDir for in-place builds
	recorder  metrics.Recorder
	observer  BuildObserver
	history   HistorySink
}

// NewGenerator creates a generator writing into outputDir.
func NewGenerator(cfg *config.Config, outputDir string) *Generator {
	return &Generator{
		cfg:       cfg,
		outputDir: filepath.Clean(outputDir),
		recorder:  metrics.NoopRecorder{},
		observer:  NoopObserver{},
	}
}

// Config exposes the underlying configuration (read-only use by stages).
func (g *Generator) Config() *config.Config { return g.cfg }

// OutputDir returns the final output directory.
func (g *Generator) OutputDir() string { return g.outputDir }

// SetRecorder injects a metrics recorder. Returns the generator for chaining.
func (g *Generator) SetRecorder(r metrics.Recorder) *Generator {
	if r == nil {
		g.recorder = metrics.NoopRecorder{}
		return g
	}
	g.recorder = r
	return g
}

// SetObserver injects a build observer. Returns the generator for chaining.
func (g *Generator) SetObserver(o BuildObserver) *Generator {
	if o == nil {
		g.observer = NoopObserver{}
		return g
	}
	g.observer = o
	return g
}

// SetHistory injects the build history sink; nil disables the record stage.
func (g *Generator) SetHistory(h HistorySink) *Generator {
	g.history = h
	return g
}

// Build runs the full pipeline and emits the site model. The returned report
// is non-nil even when the build fails, so callers can log and record what
// happened up to the abort.
func (g *Generator) Build(ctx context.Context) (*BuildReport, error) {
	report := NewBuildReport()
	report.ConfigHash = g.configHash()
	ctx = observability.WithBuildID(ctx, report.BuildID)

	observability.InfoContext(ctx, "Starting site model build", logfields.Path(g.outputDir))

	if err := g.beginStaging(); err != nil {
		report.AddIssue(IssueEmitFailure, StagePrepareOutput, SeverityError, err.Error(), false, err)
		report.Finish()
		report.DeriveOutcome()
		return report, err
	}

	bs := newBuildState(g, report)

	stages := NewPipeline().
		Add(StagePrepareOutput, stagePrepareOutput).
		Add(StageScanContent, stageScanContent).
		AddIf(g.cfg.Content.GitMetadata, StageEnrichGit, stageEnrichGit).
		Add(StageLoadSidebars, stageLoadSidebars).
		Add(StageResolveNav, stageResolveNav).
		Add(StageVerifyRefs, stageVerifyRefs).
		Add(StageEmitModel, stageEmitModel).
		AddIf(g.history != nil, StageRecordBuild, stageRecordBuild).
		Build()

	if err := runStages(ctx, bs, stages); err != nil {
		g.abortStaging()
		report.Finish()
		report.DeriveOutcome()
		g.finishMetrics(report)
		g.observer.OnBuildComplete(report)
		return report, err
	}

	report.Finish()
	report.DeriveOutcome()

	if err := g.finalizeStaging(); err != nil {
		report.AddIssue(IssueEmitFailure, StageEmitModel, SeverityError, err.Error(), false, err)
		report.DeriveOutcome()
		g.finishMetrics(report)
		g.observer.OnBuildComplete(report)
		return report, fmt.Errorf("%w: finalize staging: %w", ErrEmit, err)
	}

	if err := report.Persist(g.outputDir); err != nil {
		slog.Warn("Failed to persist build report", logfields.Error(err))
	}

	g.finishMetrics(report)
	g.observer.OnBuildComplete(report)

	observability.InfoContext(ctx, "Site model build completed",
		logfields.Outcome(string(report.Outcome)),
		slog.Int("documents", report.Documents),
		slog.Int("routes", report.Routes),
		slog.Int("diagnostics", report.DiagnosticErrors+report.DiagnosticWarnings))
	return report, nil
}

// Check runs the validating prefix of the pipeline (scan through verify)
// without touching the output directory. The returned diagnostics are the
// unified stream a build would have emitted to diagnostics.json.
func (g *Generator) Check(ctx context.Context) (*BuildReport, []Diagnostic, error) {
	report := NewBuildReport()
	report.ConfigHash = g.configHash()
	ctx = observability.WithBuildID(ctx, report.BuildID)

	bs := newBuildState(g, report)

	stages := NewPipeline().
		Add(StageScanContent, stageScanContent).
		Add(StageLoadSidebars, stageLoadSidebars).
		Add(StageResolveNav, stageResolveNav).
		Add(StageVerifyRefs, stageVerifyRefs).
		Build()

	err := runStages(ctx, bs, stages)
	report.Finish()
	report.DeriveOutcome()
	g.observer.OnBuildComplete(report)
	return report, bs.Diagnostics, err
}

func (g *Generator) finishMetrics(report *BuildReport) {
	g.recorder.ObserveBuildDuration(report.End.Sub(report.Start))
	g.recorder.IncBuildOutcome(string(report.Outcome))
}

// beginStaging prepares the directory stages write into. Clean builds stage
// into a sibling directory and promote atomically; in-place builds write
// straight into the output directory.
func (g *Generator) beginStaging() error {
	if !g.cfg.Output.CleanEnabled() {
		if err := os.MkdirAll(g.outputDir, 0o750); err != nil {
			return fmt.Errorf("%w: create output dir: %w", ErrEmit, err)
		}
		g.stageDir = g.outputDir
		return nil
	}
	stage := g.outputDir + ".stage"
	if err := os.RemoveAll(stage); err != nil {
		return fmt.Errorf("%w: clear stale staging dir: %w", ErrEmit, err)
	}
	if err := os.MkdirAll(stage, 0o750); err != nil {
		return fmt.Errorf("%w: create staging dir: %w", ErrEmit, err)
	}
	g.stageDir = stage
	slog.Debug("Initialized staging directory", slog.String("staging", stage), slog.String("final", g.outputDir))
	return nil
}

// finalizeStaging promotes the staging directory over the output directory:
// the previous output moves to <output>.prev, staging renames into place,
// and the backup is removed best-effort.
func (g *Generator) finalizeStaging() error {
	if g.stageDir == "" {
		return fmt.Errorf("no staging directory initialized")
	}
	if g.stageDir == g.outputDir {
		// In-place build; nothing to promote.
		g.stageDir = ""
		return nil
	}

	prev := g.outputDir + ".prev"
	if err := os.RemoveAll(prev); err != nil {
		return fmt.Errorf("remove stale backup: %w", err)
	}
	if _, err := os.Stat(g.outputDir); err == nil {
		if err := os.Rename(g.outputDir, prev); err != nil {
			return fmt.Errorf("backup existing output: %w", err)
		}
	}
	if err := os.Rename(g.stageDir, g.outputDir); err != nil {
		return fmt.Errorf("promote staging: %w", err)
	}
	g.stageDir = ""
	if err := os.RemoveAll(prev); err != nil {
		slog.Warn("Failed to remove previous output backup", logfields.Path(prev), logfields.Error(err))
	}
	slog.Debug("Promoted staging directory", logfields.Path(g.outputDir))
	return nil
}

// abortStaging removes the staging directory after a failed build so no
// orphaned temp trees accumulate. In-place builds keep what was written.
func (g *Generator) abortStaging() {
	if g.stageDir == "" || g.stageDir == g.outputDir {
		g.stageDir = ""
		return
	}
	dir := g.stageDir
	g.stageDir = ""
	if err := os.RemoveAll(dir); err != nil {
		slog.Warn("Failed to remove staging directory after abort", slog.String("staging", dir), logfields.Error(err))
	}
}

// configHash fingerprints the effective configuration so recorded builds can
// tell config-driven rebuilds from content changes.
func (g *Generator) configHash() string {
	data, err := yaml.Marshal(g.cfg)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
