// Command docwright builds and serves the machine-readable site model for a
// documentation website: scanned Markdown/MDX content, resolved navigation
// trees and routes. Rendering the model into HTML is the hosting renderer's
// job; docwright owns everything up to that handoff.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/docwright/docwright/internal/config"
	"github.com/docwright/docwright/internal/content"
	"github.com/docwright/docwright/internal/history"
	"github.com/docwright/docwright/internal/lint"
	"github.com/docwright/docwright/internal/logfields"
	"github.com/docwright/docwright/internal/observability"
	"github.com/docwright/docwright/internal/site"
	"github.com/docwright/docwright/internal/version"
)

var cli struct {
	Config  string `short:"c" help:"Configuration file path" default:"docwright.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Init struct {
		Force bool `help:"Overwrite existing files"`
	} `cmd:"" help:"Scaffold a new site configuration"`

	Scan struct{} `cmd:"" help:"Discover documents and print their identity summary"`

	Check struct{} `cmd:"" help:"Validate content and navigation without emitting the model"`

	Lint struct {
		Format string `short:"f" default:"text" enum:"text,json" help:"Output format (text or json)"`
		Quiet  bool   `short:"q" help:"Only show errors"`
	} `cmd:"" help:"Check file naming and front-matter conventions"`

	Build struct {
		Out string `short:"o" help:"Output directory (overrides config)"`
	} `cmd:"" help:"Build the site model bundle"`

	Serve struct {
		Addr string `help:"Listen address (overrides config)"`
	} `cmd:"" help:"Build, then watch, rebuild and serve the model with live reload"`

	Daemon struct{} `cmd:"" help:"Run continuous builds with schedules and admin endpoints"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("docwright"),
		kong.Description("Docs-as-code toolchain: content, navigation and site model."),
		kong.UsageOnError(),
	)

	configureLogging(nil)

	var err error
	switch ctx.Command() {
	case "init":
		err = runInit()
	case "scan":
		err = runScan()
	case "check":
		err = runCheck()
	case "lint":
		err = runLint()
	case "build":
		err = runBuild()
	case "serve":
		err = runServe()
	case "daemon":
		err = runDaemon()
	case "version":
		err = runVersion()
	default:
		err = fmt.Errorf("unknown command %q", ctx.Command())
	}
	if err != nil {
		slog.Error("Command failed", logfields.Error(err))
		os.Exit(1)
	}
}

// configureLogging installs the process logger. Called once with defaults
// before the config is loaded, and again when the config says otherwise.
// --verbose always wins.
func configureLogging(cfg *config.Config) {
	level := slog.LevelInfo
	format := config.LogFormatText
	if cfg != nil {
		switch cfg.Logging.Level {
		case config.LogLevelDebug:
			level = slog.LevelDebug
		case config.LogLevelWarn:
			level = slog.LevelWarn
		case config.LogLevelError:
			level = slog.LevelError
		}
		format = cfg.Logging.Format
	}
	if cli.Verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}
	configureLogging(cfg)
	return cfg, nil
}

func runInit() error {
	if err := config.Init(cli.Config, cli.Init.Force); err != nil {
		return err
	}
	slog.Info("Created configuration", logfields.Path(cli.Config))

	// Companion scaffolding so the first build succeeds out of the box.
	scaffold := []struct{ path, body string }{
		{"sidebars.yaml", "- intro\n"},
		{filepath.Join("docs", "intro.md"),
			"---\ntitle: Introduction\nsidebar_position: 1\n---\n\nWelcome to your new documentation site.\n"},
	}
	for _, f := range scaffold {
		if _, err := os.Stat(f.path); err == nil && !cli.Init.Force {
			slog.Info("Keeping existing file", logfields.Path(f.path))
			continue
		}
		if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(f.path, []byte(f.body), 0o644); err != nil {
			return err
		}
		slog.Info("Created file", logfields.Path(f.path))
	}
	return nil
}

func runScan() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	filter, err := content.NewPathFilter(cfg.Content.Include, cfg.Content.Exclude)
	if err != nil {
		return err
	}
	scan, err := content.NewDiscovery(cfg.Content.Dir).WithFilter(filter).Scan()
	if err != nil {
		return err
	}
	store := content.NewStore(scan)

	fmt.Printf("%-44s %-32s %4s  %s\n", "ID", "TITLE", "POS", "SECTION")
	for _, doc := range store.All() {
		pos := "-"
		if p, ok := doc.Position(); ok {
			pos = strconv.Itoa(p)
		}
		title := doc.Title
		if doc.Draft {
			title += " (draft)"
		}
		fmt.Printf("%-44s %-32s %4s  %s\n", doc.ID, title, pos, doc.Section)
	}
	for _, issue := range scan.Issues {
		slog.Warn("Content issue",
			logfields.Path(issue.Path),
			logfields.Code(issue.Code),
			slog.String("detail", issue.Message))
	}
	fmt.Printf("\n%d document(s), %d asset(s), %d issue(s)\n",
		store.Len(), len(scan.Assets), len(scan.Issues))
	return nil
}

func runCheck() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	report, diags, err := site.NewGenerator(cfg, cfg.Output.Directory).Check(context.Background())
	if err != nil {
		return err
	}

	for _, d := range diags {
		target := d.DocID
		if target == "" {
			target = d.Path
		}
		fmt.Printf("%-7s %-22s %-40s %s\n", d.Severity, d.Code, target, d.Message)
	}
	fmt.Println(report.Summary())

	if report.DiagnosticErrors > 0 {
		return fmt.Errorf("check found %d diagnostic error(s)", report.DiagnosticErrors)
	}
	return nil
}

func runLint() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	linter := lint.NewLinter(&lint.Config{Quiet: cli.Lint.Quiet, Format: cli.Lint.Format})
	result, err := linter.LintPath(cfg.Content.Dir)
	if err != nil {
		return err
	}

	if err := lint.NewFormatter(cli.Lint.Format).Format(os.Stdout, result, cfg.Content.Dir); err != nil {
		return err
	}
	if result.HasErrors() {
		return fmt.Errorf("lint found %d error(s)", result.ErrorCount())
	}
	return nil
}

func runBuild() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	outDir := cfg.Output.Directory
	if cli.Build.Out != "" {
		outDir = cli.Build.Out
	}

	gen := site.NewGenerator(cfg, outDir)

	if cfg.History.Enabled {
		store, err := history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		gen.SetHistory(history.NewRecorder(store, cfg.History.MaxBuilds))
	}

	report, err := gen.Build(observability.WithTrigger(context.Background(), "cli"))
	if err != nil {
		return err
	}
	fmt.Println(report.Summary())

	if report.DiagnosticErrors > 0 {
		return fmt.Errorf("build completed with %d diagnostic error(s)", report.DiagnosticErrors)
	}
	return nil
}

func runVersion() error {
	fmt.Printf("docwright %s (commit %s, built %s)\n",
		version.Version, version.GitCommit, version.BuildTime)
	return nil
}
