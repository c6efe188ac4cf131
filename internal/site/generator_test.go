package site

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/docwright/docwright/internal/config"
	"github.com/docwright/docwright/internal/frontmatter"
	"github.com/docwright/docwright/internal/nav"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(body), 0o644))
	}
}

// fixture lays out a content tree plus sidebar declaration in a temp dir and
// returns a ready configuration writing into <tmp>/site.
func fixture(t *testing.T, content map[string]string, sidebars string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	contentDir := filepath.Join(dir, "docs")
	writeTree(t, contentDir, content)

	sidebarPath := filepath.Join(dir, "sidebars.yaml")
	require.NoError(t, os.WriteFile(sidebarPath, []byte(sidebars), 0o644))

	return &config.Config{
		Site:       config.SiteConfig{Title: "Test Site"},
		Content:    config.ContentConfig{Dir: contentDir, RouteBase: "docs"},
		Navigation: config.NavigationConfig{File: sidebarPath},
		Output:     config.OutputConfig{Directory: filepath.Join(dir, "site")},
	}
}

func decodeJSON(t *testing.T, path string, v any) {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v))
}

var solidContent = map[string]string{
	"principles/solid/introduction.md": "---\ntitle: Introduction\nsidebar_position: 1\n---\nIntro body.\n",
	"principles/solid/open-closed.md":  "---\ntitle: Open-Closed\nsidebar_position: 2\n---\nOCP body.\n",
}

const solidSidebar = `
- label: SOLID
  items:
    - principles/solid/open-closed
    - principles/solid/introduction
`

func TestBuild_EmitsModelBundle(t *testing.T) {
	cfg := fixture(t, map[string]string{
		"intro.md":        "---\ntitle: Intro\nsidebar_position: 1\n---\nSee [setup](guides/setup.md).\n",
		"guides/setup.md": "---\ntitle: Setup\n---\nBody.\n",
		"img/logo.png":    "png-bytes",
	}, "- intro\n- guides/setup\n")

	report, err := NewGenerator(cfg, cfg.Output.Directory).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeSuccess, report.Outcome)
	require.Equal(t, 2, report.Documents)
	require.Equal(t, 1, report.Assets)
	require.Equal(t, 1, report.Sidebars)
	require.Equal(t, 2, report.Routes)
	require.Zero(t, report.DiagnosticErrors)
	require.Zero(t, report.DiagnosticWarnings)

	out := cfg.Output.Directory
	for _, name := range []string{
		"site.json", "docs.json", "sidebar.json", "routes.json",
		"diagnostics.json", "build-report.json", "build-report.txt",
	} {
		_, err := os.Stat(filepath.Join(out, name))
		require.NoError(t, err, name)
	}

	var manifest siteManifest
	decodeJSON(t, filepath.Join(out, "site.json"), &manifest)
	require.Equal(t, report.BuildID, manifest.BuildID)
	require.Equal(t, "Test Site", manifest.Site.Title)
	require.Equal(t, 2, manifest.Counts.Documents)
	require.Equal(t, 2, manifest.Counts.Routes)

	var routes routesFile
	decodeJSON(t, filepath.Join(out, "routes.json"), &routes)
	require.Equal(t, []Route{
		{Route: "/docs/guides/setup", DocID: "guides/setup", Title: "Setup"},
		{Route: "/docs/intro", DocID: "intro", Title: "Intro"},
	}, routes.Routes)

	// Sources and assets are mirrored for preview.
	for _, rel := range []string{"intro.md", "guides/setup.md", "img/logo.png"} {
		_, err := os.Stat(filepath.Join(out, "content", filepath.FromSlash(rel)))
		require.NoError(t, err, rel)
	}
}

func TestBuild_SolidCategoryOrdersByPosition(t *testing.T) {
	cfg := fixture(t, solidContent, solidSidebar)

	report, err := NewGenerator(cfg, cfg.Output.Directory).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeSuccess, report.Outcome)

	var sidebars sidebarFile
	decodeJSON(t, filepath.Join(cfg.Output.Directory, "sidebar.json"), &sidebars)
	require.Len(t, sidebars.Sidebars, 1)
	require.Len(t, sidebars.Sidebars[0].Entries, 1)

	category := sidebars.Sidebars[0].Entries[0]
	require.Equal(t, "SOLID", category.Label)
	require.Len(t, category.Items, 2)
	require.Equal(t, "principles/solid/introduction", category.Items[0].DocID)
	require.Equal(t, "principles/solid/open-closed", category.Items[1].DocID)
}

func TestBuild_DanglingReferenceWarnsAndSiblingsResolve(t *testing.T) {
	cfg := fixture(t, map[string]string{
		"java/functional/streams.md": "---\ntitle: Streams\n---\nBody.\n",
	}, "- label: Functional\n  items:\n    - java/functional/streams\n    - java/functional/lambdas\n")

	report, err := NewGenerator(cfg, cfg.Output.Directory).Build(context.Background())
	require.NoError(t, err, "a dangling reference must not abort the build")
	require.Equal(t, OutcomeWarning, report.Outcome)
	require.Equal(t, 1, report.DiagnosticWarnings)
	require.Zero(t, report.DiagnosticErrors)

	var diags diagnosticsFile
	decodeJSON(t, filepath.Join(cfg.Output.Directory, "diagnostics.json"), &diags)
	require.Len(t, diags.Diagnostics, 1)
	d := diags.Diagnostics[0]
	require.Equal(t, nav.CodeDanglingRef, d.Code)
	require.Equal(t, "java/functional/lambdas", d.DocID)
	require.Equal(t, DiagnosticWarning, d.Severity)
	require.Contains(t, d.Message, "java/functional/lambdas")

	var sidebars sidebarFile
	decodeJSON(t, filepath.Join(cfg.Output.Directory, "sidebar.json"), &sidebars)
	category := sidebars.Sidebars[0].Entries[0]
	require.Len(t, category.Items, 1, "the resolvable sibling still renders")
	require.Equal(t, "java/functional/streams", category.Items[0].DocID)
}

func TestBuild_FailPolicyEscalatesDiagnostics(t *testing.T) {
	cfg := fixture(t, map[string]string{
		"intro.md": "---\ntitle: Intro\n---\nBody.\n",
	}, "- intro\n- missing/doc\n")
	cfg.Navigation.BrokenReferences = config.PolicyFail

	report, err := NewGenerator(cfg, cfg.Output.Directory).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.DiagnosticErrors)
	require.Zero(t, report.DiagnosticWarnings)

	var diags diagnosticsFile
	decodeJSON(t, filepath.Join(cfg.Output.Directory, "diagnostics.json"), &diags)
	require.Equal(t, DiagnosticError, diags.Diagnostics[0].Severity)
}

func TestBuild_IgnorePolicySilencesDanglingRefs(t *testing.T) {
	cfg := fixture(t, map[string]string{
		"intro.md": "---\ntitle: Intro\n---\nBody.\n",
	}, "- intro\n- missing/doc\n")
	cfg.Navigation.BrokenReferences = config.PolicyIgnore

	report, err := NewGenerator(cfg, cfg.Output.Directory).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeSuccess, report.Outcome)
	require.Zero(t, report.DiagnosticWarnings+report.DiagnosticErrors)
}

func TestBuild_CleanBuildReplacesStaleOutput(t *testing.T) {
	cfg := fixture(t, map[string]string{
		"intro.md": "---\ntitle: Intro\n---\nBody.\n",
	}, "- intro\n")
	out := cfg.Output.Directory
	writeTree(t, out, map[string]string{"stale.txt": "left over"})

	_, err := NewGenerator(cfg, out).Build(context.Background())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(out, "stale.txt"))
	require.True(t, os.IsNotExist(err), "stale output must be replaced")
	_, err = os.Stat(out + ".stage")
	require.True(t, os.IsNotExist(err), "staging dir must be gone after promote")
	_, err = os.Stat(out + ".prev")
	require.True(t, os.IsNotExist(err), "backup dir must be removed")
}

func TestBuild_InPlaceKeepsExistingFiles(t *testing.T) {
	cfg := fixture(t, map[string]string{
		"intro.md": "---\ntitle: Intro\n---\nBody.\n",
	}, "- intro\n")
	clean := false
	cfg.Output.Clean = &clean
	out := cfg.Output.Directory
	writeTree(t, out, map[string]string{"keep.txt": "precious"})

	_, err := NewGenerator(cfg, out).Build(context.Background())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(out, "keep.txt"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "site.json"))
	require.NoError(t, err)
}

func TestBuild_CanceledContextAbortsAndCleansStaging(t *testing.T) {
	cfg := fixture(t, map[string]string{
		"intro.md": "---\ntitle: Intro\n---\nBody.\n",
	}, "- intro\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewGenerator(cfg, cfg.Output.Directory).Build(ctx)
	require.Error(t, err)
	require.Equal(t, OutcomeCanceled, report.Outcome)

	_, err = os.Stat(cfg.Output.Directory + ".stage")
	require.True(t, os.IsNotExist(err))
}

func TestBuild_MissingSidebarFileFails(t *testing.T) {
	cfg := fixture(t, map[string]string{
		"intro.md": "---\ntitle: Intro\n---\nBody.\n",
	}, "- intro\n")
	cfg.Navigation.File = filepath.Join(t.TempDir(), "nope.yaml")

	report, err := NewGenerator(cfg, cfg.Output.Directory).Build(context.Background())
	require.Error(t, err)
	require.Equal(t, OutcomeFailed, report.Outcome)
	require.Equal(t, StageErrorFatal, report.StageErrorKinds[StageLoadSidebars])

	_, err = os.Stat(filepath.Join(cfg.Output.Directory, "site.json"))
	require.True(t, os.IsNotExist(err), "no model may be promoted on a failed build")
}

func TestBuild_GitMetadataOutsideRepoDegrades(t *testing.T) {
	cfg := fixture(t, map[string]string{
		"intro.md": "---\ntitle: Intro\n---\nBody.\n",
	}, "- intro\n")
	cfg.Content.GitMetadata = true

	report, err := NewGenerator(cfg, cfg.Output.Directory).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeWarning, report.Outcome)

	var found bool
	for _, issue := range report.Issues {
		if issue.Code == IssueGitMetadata {
			found = true
			require.Equal(t, SeverityWarning, issue.Severity)
		}
	}
	require.True(t, found, "expected a GIT_METADATA issue")

	_, err = os.Stat(filepath.Join(cfg.Output.Directory, "site.json"))
	require.NoError(t, err, "build output still promoted")
}

func TestBuild_DraftsExcludedFromModelAndCopy(t *testing.T) {
	contents := map[string]string{
		"intro.md": "---\ntitle: Intro\n---\nBody.\n",
		"wip.md":   "---\ntitle: WIP\ndraft: true\n---\nBody.\n",
	}
	cfg := fixture(t, contents, "- intro\n")

	report, err := NewGenerator(cfg, cfg.Output.Directory).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.Documents)

	var docs docsFile
	decodeJSON(t, filepath.Join(cfg.Output.Directory, "docs.json"), &docs)
	require.Len(t, docs.Documents, 1)
	require.Equal(t, "intro", docs.Documents[0].ID)

	_, err = os.Stat(filepath.Join(cfg.Output.Directory, "content", "wip.md"))
	require.True(t, os.IsNotExist(err), "draft sources are not mirrored")

	cfg2 := fixture(t, contents, "- intro\n- wip\n")
	cfg2.Content.IncludeDrafts = true
	report2, err := NewGenerator(cfg2, cfg2.Output.Directory).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, report2.Documents)
	_, err = os.Stat(filepath.Join(cfg2.Output.Directory, "content", "wip.md"))
	require.NoError(t, err)
}

func TestBuild_PublishedCopiesCarryFingerprint(t *testing.T) {
	cfg := fixture(t, map[string]string{
		"intro.md": "---\ntitle: Intro\n---\nBody text.\n",
		"notes.md": "# Notes\n\nNo front matter here.\n",
	}, "- intro\n- notes\n")

	_, err := NewGenerator(cfg, cfg.Output.Directory).Build(context.Background())
	require.NoError(t, err)

	published, err := os.ReadFile(filepath.Join(cfg.Output.Directory, "content", "intro.md"))
	require.NoError(t, err)
	fields, body, had, _, err := frontmatter.Parse(published)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "Intro", fields[frontmatter.KeyTitle])
	require.NotEmpty(t, fields[frontmatter.KeyFingerprint])
	require.Equal(t, "Body text.\n", string(body))

	source, err := os.ReadFile(filepath.Join(cfg.Content.Dir, "intro.md"))
	require.NoError(t, err)
	require.NotContains(t, string(source), "fingerprint", "source tree stays untouched")

	// Documents without front matter pass through byte for byte.
	bare, err := os.ReadFile(filepath.Join(cfg.Content.Dir, "notes.md"))
	require.NoError(t, err)
	copied, err := os.ReadFile(filepath.Join(cfg.Output.Directory, "content", "notes.md"))
	require.NoError(t, err)
	require.Equal(t, bare, copied)
}

func TestBuild_RouteCollisionDiagnosed(t *testing.T) {
	cfg := fixture(t, map[string]string{
		"guides/setup.md":       "---\ntitle: Setup\n---\nBody.\n",
		"guides/setup/index.md": "---\ntitle: Setup Overview\n---\nBody.\n",
	}, "- guides/setup\n- guides/setup/index\n")

	report, err := NewGenerator(cfg, cfg.Output.Directory).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeWarning, report.Outcome)

	var diags diagnosticsFile
	decodeJSON(t, filepath.Join(cfg.Output.Directory, "diagnostics.json"), &diags)
	var collisions []Diagnostic
	for _, d := range diags.Diagnostics {
		if d.Code == CodeRouteCollision {
			collisions = append(collisions, d)
		}
	}
	require.Len(t, collisions, 1)

	var routes routesFile
	decodeJSON(t, filepath.Join(cfg.Output.Directory, "routes.json"), &routes)
	seen := map[string]int{}
	for _, r := range routes.Routes {
		seen[r.Route]++
	}
	require.Equal(t, 1, seen["/docs/guides/setup"], "first claimant keeps the route")
}

type sinkCall struct {
	report      *BuildReport
	diagnostics []Diagnostic
}

type captureSink struct {
	mu    sync.Mutex
	calls []sinkCall
}

func (c *captureSink) RecordBuild(_ context.Context, report *BuildReport, diagnostics []Diagnostic) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, sinkCall{report: report, diagnostics: diagnostics})
	return nil
}

func TestBuild_RecordsIntoHistorySink(t *testing.T) {
	cfg := fixture(t, map[string]string{
		"intro.md": "---\ntitle: Intro\n---\nSee [gone](missing.md).\n",
	}, "- intro\n")

	sink := &captureSink{}
	report, err := NewGenerator(cfg, cfg.Output.Directory).SetHistory(sink).Build(context.Background())
	require.NoError(t, err)

	require.Len(t, sink.calls, 1)
	call := sink.calls[0]
	require.Equal(t, report.BuildID, call.report.BuildID)
	require.Equal(t, OutcomeWarning, call.report.Outcome, "outcome so far is persisted with the record")
	require.Len(t, call.diagnostics, 1)
}

type stageLog struct {
	mu     sync.Mutex
	stages []StageName
	builds int
}

func (s *stageLog) OnStageStart(stage StageName) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stages = append(s.stages, stage)
}

func (s *stageLog) OnStageComplete(StageName, time.Duration, StageResult) {}

func (s *stageLog) OnBuildComplete(*BuildReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builds++
}

func TestBuild_ObserverSeesStagesInOrder(t *testing.T) {
	cfg := fixture(t, map[string]string{
		"intro.md": "---\ntitle: Intro\n---\nBody.\n",
	}, "- intro\n")

	obs := &stageLog{}
	_, err := NewGenerator(cfg, cfg.Output.Directory).SetObserver(obs).Build(context.Background())
	require.NoError(t, err)

	require.Equal(t, []StageName{
		StagePrepareOutput, StageScanContent, StageLoadSidebars,
		StageResolveNav, StageVerifyRefs, StageEmitModel,
	}, obs.stages)
	require.Equal(t, 1, obs.builds)
}

func TestCheck_ReportsWithoutEmitting(t *testing.T) {
	cfg := fixture(t, map[string]string{
		"intro.md": "---\ntitle: Intro\n---\nBody.\n",
	}, "- intro\n- missing/doc\n")

	report, diags, err := NewGenerator(cfg, cfg.Output.Directory).Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, OutcomeWarning, report.Outcome)
	require.Len(t, diags, 1)
	require.Equal(t, nav.CodeDanglingRef, diags[0].Code)

	_, err = os.Stat(cfg.Output.Directory)
	require.True(t, os.IsNotExist(err), "check must not create the output dir")
}

func TestBuild_ReportSummaryPersisted(t *testing.T) {
	cfg := fixture(t, map[string]string{
		"intro.md": "---\ntitle: Intro\n---\nBody.\n",
	}, "- intro\n")

	report, err := NewGenerator(cfg, cfg.Output.Directory).Build(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, report.ConfigHash)
	require.Contains(t, report.StageDurations, string(StageScanContent))

	raw, err := os.ReadFile(filepath.Join(cfg.Output.Directory, "build-report.txt"))
	require.NoError(t, err)
	require.Contains(t, string(raw), "outcome=success")

	var persisted BuildReportSerializable
	decodeJSON(t, filepath.Join(cfg.Output.Directory, "build-report.json"), &persisted)
	require.Equal(t, report.BuildID, persisted.BuildID)
	require.Equal(t, string(OutcomeSuccess), persisted.Outcome)
}
