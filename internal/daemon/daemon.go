// Package daemon runs docwright continuously: it rebuilds the site model
// when content changes, on a cron schedule, and on demand, while serving the
// admin and preview HTTP surface. One build runs at a time; triggers that
// arrive mid-build coalesce into at most one queued follow-up.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/docwright/docwright/internal/config"
	"github.com/docwright/docwright/internal/logfields"
	"github.com/docwright/docwright/internal/metrics"
	"github.com/docwright/docwright/internal/notify"
	"github.com/docwright/docwright/internal/observability"
	"github.com/docwright/docwright/internal/retry"
	"github.com/docwright/docwright/internal/server"
	"github.com/docwright/docwright/internal/site"
	"github.com/docwright/docwright/internal/watch"
)

// Build trigger names, recorded in history and logs.
const (
	TriggerCLI      = "cli"
	TriggerWatch    = "watch"
	TriggerSchedule = "schedule"
)

// BuildHistory persists finished builds and answers the history endpoints.
// history.Recorder satisfies it.
type BuildHistory interface {
	site.HistorySink
	server.BuildLog
}

// buildRequest asks the run loop for one build.
type buildRequest struct {
	trigger string
	paths   []string // changed paths for watch triggers
	retry   int      // 0 for fresh requests
}

func (r buildRequest) touchesConfig(configPath string) bool {
	for _, p := range r.paths {
		if p == configPath {
			return true
		}
	}
	return false
}

// Daemon owns the continuous build loop. Configure with the chaining
// setters, then Run.
type Daemon struct {
	configPath string
	outputDir  string
	addr       string

	recorder    metrics.Recorder
	metricsH    http.Handler
	publisher   *notify.Publisher
	history     BuildHistory
	reload      *server.ReloadHub
	policy      retry.Policy
	serveStatic bool

	// requests has capacity one: whatever build is queued next will pick up
	// all changes accumulated so far, so extra triggers carry no information.
	requests chan buildRequest

	mu        sync.RWMutex
	cfg       *config.Config
	srv       *server.Server
	building  bool
	watching  bool
	startedAt time.Time
	buildsRun int
	lastBuild *server.BuildInfo
}

// New creates a daemon for the given configuration. The config file at
// configPath is watched and reloaded between builds; the output directory
// and listen address are fixed for the process lifetime, changing those
// takes a restart.
func New(cfg *config.Config, configPath string) (*Daemon, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	return &Daemon{
		cfg:        cfg,
		configPath: abs,
		outputDir:  cfg.Output.Directory,
		addr:       cfg.Daemon.HTTPAddr,
		recorder:   metrics.NoopRecorder{},
		policy: retry.NewPolicy(
			cfg.Daemon.RetryBackoff,
			time.Duration(cfg.Daemon.RetryInitialMS)*time.Millisecond,
			time.Duration(cfg.Daemon.RetryMaxMS)*time.Millisecond,
			cfg.Daemon.MaxRetries,
		),
		requests: make(chan buildRequest, 1),
	}, nil
}

// SetRecorder wires build and HTTP metrics. Returns the daemon for chaining.
func (d *Daemon) SetRecorder(rec metrics.Recorder) *Daemon {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	d.recorder = rec
	return d
}

// SetMetricsHandler exposes h at /metrics on the admin server.
func (d *Daemon) SetMetricsHandler(h http.Handler) *Daemon {
	d.metricsH = h
	return d
}

// SetPublisher wires diagnostic event publishing.
func (d *Daemon) SetPublisher(p *notify.Publisher) *Daemon {
	d.publisher = p
	return d
}

// SetHistory wires the build history store.
func (d *Daemon) SetHistory(h BuildHistory) *Daemon {
	d.history = h
	return d
}

// SetReloadHub wires live reload broadcasting.
func (d *Daemon) SetReloadHub(hub *server.ReloadHub) *Daemon {
	d.reload = hub
	return d
}

// SetAddr overrides the listen address from the daemon config. Empty
// disables the HTTP server entirely.
func (d *Daemon) SetAddr(addr string) *Daemon {
	d.addr = addr
	return d
}

// ServeStatic makes the HTTP server also serve the emitted model files,
// turning the daemon into a preview server.
func (d *Daemon) ServeStatic() *Daemon {
	d.serveStatic = true
	return d
}

// Run blocks until ctx is canceled. The initial build runs before the watch
// and schedule sources attach, so a freshly started daemon has a model to
// serve as soon as possible. Cancellation is the normal way to stop and is
// not reported as an error.
func (d *Daemon) Run(ctx context.Context) error {
	d.mu.Lock()
	d.startedAt = time.Now()
	d.mu.Unlock()

	if d.addr != "" {
		if err := d.startServer(ctx); err != nil {
			return err
		}
		defer d.stopServer()
	}

	d.executeBuild(ctx, buildRequest{trigger: TriggerCLI})

	cfg := d.currentConfig()
	var wg sync.WaitGroup

	if cfg.Daemon.Watch {
		w, err := d.startWatch(ctx, cfg, &wg)
		if err != nil {
			return err
		}
		defer func() { _ = w.Close() }()
	}

	if cfg.Daemon.Schedule != "" {
		sched, err := newScheduler()
		if err != nil {
			return err
		}
		err = sched.AddCron(cfg.Daemon.Schedule, "rebuild", func() {
			d.enqueue(buildRequest{trigger: TriggerSchedule})
		})
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	slog.Info("Daemon running",
		slog.Bool("watch", cfg.Daemon.Watch),
		slog.String("schedule", cfg.Daemon.Schedule),
		logfields.Path(d.outputDir))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Daemon stopping")
			wg.Wait()
			return nil
		case req := <-d.requests:
			d.executeBuild(ctx, req)
		}
	}
}

// enqueue hands a request to the run loop without blocking. When a request
// is already waiting the new one is absorbed into it.
func (d *Daemon) enqueue(req buildRequest) {
	select {
	case d.requests <- req:
	default:
		slog.Debug("Build already pending, coalescing trigger", logfields.Trigger(req.trigger))
	}
}

func (d *Daemon) executeBuild(ctx context.Context, req buildRequest) {
	if ctx.Err() != nil {
		return
	}

	d.setBuilding(true)
	defer d.setBuilding(false)

	// Config edits take effect on the build they triggered.
	if req.touchesConfig(d.configPath) {
		d.reloadConfig()
	}
	cfg := d.currentConfig()

	// The capture sink keeps the diagnostics of this build in hand for
	// publishing; the history store, when wired, persists them as usual.
	capture := &captureSink{next: d.history}
	gen := site.NewGenerator(cfg, d.outputDir).
		SetRecorder(d.recorder).
		SetHistory(capture)

	report, err := gen.Build(observability.WithTrigger(ctx, req.trigger))
	if err != nil {
		slog.Error("Build failed",
			logfields.BuildID(report.BuildID),
			logfields.Trigger(req.trigger),
			logfields.Error(err))
	}

	d.recordResult(report, req.trigger)

	// A failed build left the previous model in place, so there is nothing
	// for connected pages to reload.
	if d.reload != nil && (report.Outcome == site.OutcomeSuccess || report.Outcome == site.OutcomeWarning) {
		d.reload.Broadcast(report.BuildID, string(report.Outcome))
	}

	if d.publisher != nil && len(capture.diagnostics) > 0 {
		if perr := d.publisher.PublishDiagnostics(ctx, report.BuildID, capture.diagnostics); perr != nil {
			slog.Warn("Failed to publish diagnostics",
				logfields.BuildID(report.BuildID),
				logfields.Error(perr))
		}
	}

	if report.HasTransientIssue() {
		d.scheduleRetry(ctx, req)
	}
}

// scheduleRetry re-queues a build that hit a transient condition, after the
// backoff delay. Exhausted attempts are dropped; the next watch or schedule
// trigger tries again anyway.
func (d *Daemon) scheduleRetry(ctx context.Context, req buildRequest) {
	if d.policy.MaxRetries <= 0 {
		return
	}
	attempt := req.retry + 1
	if attempt > d.policy.MaxRetries {
		slog.Warn("Transient build failure persists, giving up",
			logfields.Trigger(req.trigger),
			slog.Int("attempts", req.retry))
		return
	}
	delay := d.policy.Delay(attempt)
	slog.Info("Scheduling build retry",
		slog.Int("attempt", attempt),
		slog.Duration("delay", delay))
	go func() {
		select {
		case <-ctx.Done():
		case <-time.After(delay):
			d.enqueue(buildRequest{trigger: req.trigger, retry: attempt})
		}
	}()
}

// startWatch wires the filesystem watcher and debouncer to the build queue.
func (d *Daemon) startWatch(ctx context.Context, cfg *config.Config, wg *sync.WaitGroup) (*watch.Watcher, error) {
	w, err := watch.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	// The build rewrites the output tree; watching it would rebuild forever.
	w.Ignore(d.outputDir)
	w.Ignore(d.outputDir + ".stage")
	w.Ignore(d.outputDir + ".prev")

	if err := w.AddTree(cfg.Content.Dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch content dir: %w", err)
	}
	if err := w.AddFile(d.configPath); err != nil {
		slog.Warn("Config file not watchable", logfields.Path(d.configPath), logfields.Error(err))
	}
	if cfg.Navigation.File != "" {
		if err := w.AddFile(cfg.Navigation.File); err != nil {
			slog.Warn("Sidebar file not watchable", logfields.Path(cfg.Navigation.File), logfields.Error(err))
		}
	}

	w.Start(ctx)

	deb := watch.NewDebouncer(time.Duration(cfg.Daemon.DebounceMS) * time.Millisecond)
	wg.Add(1)
	go func() {
		defer wg.Done()
		deb.Run(ctx, w.Events(), func(change watch.Change) {
			slog.Debug("Change batch ready",
				logfields.Count(change.Count),
				slog.String("cause", change.Cause))
			d.enqueue(buildRequest{trigger: TriggerWatch, paths: change.Paths})
		})
	}()

	d.mu.Lock()
	d.watching = true
	d.mu.Unlock()

	slog.Info("Watching for changes", logfields.Path(cfg.Content.Dir))
	return w, nil
}

func (d *Daemon) startServer(ctx context.Context) error {
	srv := server.New(d.addr, d.outputDir).
		SetStatusSource(d).
		SetRecorder(d.recorder)
	if d.history != nil {
		srv.SetBuildLog(d.history)
	}
	if d.metricsH != nil {
		srv.SetMetricsHandler(d.metricsH)
	}
	if d.reload != nil {
		srv.SetReloadHub(d.reload)
	}
	if !d.serveStatic {
		srv.APIOnly()
	}
	if err := srv.Start(ctx); err != nil {
		return err
	}

	d.mu.Lock()
	d.srv = srv
	d.mu.Unlock()
	return nil
}

func (d *Daemon) stopServer() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.srv.Shutdown(ctx); err != nil {
		slog.Warn("Server shutdown", logfields.Error(err))
	}
}

// reloadConfig re-reads the config file. The previous config stays in effect
// when the new one fails to load.
func (d *Daemon) reloadConfig() {
	cfg, err := config.Load(d.configPath)
	if err != nil {
		slog.Warn("Config reload failed, keeping previous configuration",
			logfields.Path(d.configPath),
			logfields.Error(err))
		return
	}
	d.mu.Lock()
	d.cfg = cfg
	d.mu.Unlock()
	slog.Info("Configuration reloaded", logfields.Path(d.configPath))
}

func (d *Daemon) currentConfig() *config.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

func (d *Daemon) setBuilding(b bool) {
	d.mu.Lock()
	d.building = b
	d.mu.Unlock()
}

func (d *Daemon) recordResult(report *site.BuildReport, trigger string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buildsRun++
	d.lastBuild = &server.BuildInfo{
		BuildID:     report.BuildID,
		Outcome:     string(report.Outcome),
		Trigger:     trigger,
		FinishedAt:  report.End,
		DurationMS:  report.End.Sub(report.Start).Milliseconds(),
		Documents:   report.Documents,
		Routes:      report.Routes,
		Diagnostics: report.DiagnosticErrors + report.DiagnosticWarnings,
	}
}

// Status implements server.StatusSource.
func (d *Daemon) Status() server.Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	state := "idle"
	if d.building {
		state = "building"
	}
	return server.Status{
		State:     state,
		StartedAt: d.startedAt,
		BuildsRun: d.buildsRun,
		Watching:  d.watching,
		Schedule:  d.cfg.Daemon.Schedule,
		LastBuild: d.lastBuild,
	}
}

// ServerAddr returns the bound admin address, or "" when no server runs.
// Useful when the configured port is 0.
func (d *Daemon) ServerAddr() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.srv == nil {
		return ""
	}
	return d.srv.Addr()
}

// BuildsRun reports how many builds have completed since startup.
func (d *Daemon) BuildsRun() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.buildsRun
}
