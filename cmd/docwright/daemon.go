package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/docwright/docwright/internal/config"
	"github.com/docwright/docwright/internal/daemon"
	"github.com/docwright/docwright/internal/history"
	"github.com/docwright/docwright/internal/logfields"
	"github.com/docwright/docwright/internal/metrics"
	"github.com/docwright/docwright/internal/notify"
	"github.com/docwright/docwright/internal/server"
)

// runServe is the preview loop: watch, rebuild, live-reload, serve the
// model. Scheduled revalidation stays a daemon concern.
func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Daemon.Watch = true
	cfg.Daemon.Schedule = ""

	d, cleanup, err := newDaemon(cfg, true)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return d.Run(ctx)
}

func runDaemon() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	d, cleanup, err := newDaemon(cfg, false)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return d.Run(ctx)
}

// newDaemon wires a daemon from the configuration: history store, metrics,
// NATS publisher, and in serve mode the static preview with live reload.
// The returned cleanup closes whatever was opened.
func newDaemon(cfg *config.Config, serveMode bool) (*daemon.Daemon, func(), error) {
	d, err := daemon.New(cfg, cli.Config)
	if err != nil {
		return nil, nil, err
	}

	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	if cfg.History.Enabled {
		store, err := history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		cleanups = append(cleanups, func() { _ = store.Close() })

		// Status endpoints read builds often; project the log into memory
		// so they never contend with the build's history writes.
		projection := history.NewProjection(store, cfg.History.MaxBuilds)
		if err := projection.Rebuild(context.Background()); err != nil {
			slog.Warn("Could not project existing build history", logfields.Error(err))
		} else if last, ok := projection.Latest(); ok {
			slog.Info("Resuming build history",
				logfields.BuildID(last.BuildID),
				logfields.Outcome(last.Outcome))
		}
		d.SetHistory(history.NewRecorder(store, cfg.History.MaxBuilds).WithProjection(projection))
	}

	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		d.SetRecorder(metrics.NewPrometheusRecorder(reg))
		d.SetMetricsHandler(metrics.HTTPHandler(reg))
	}

	if cfg.Notify.Enabled {
		pub, err := notify.NewPublisher(cfg.Notify)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		cleanups = append(cleanups, func() { _ = pub.Close() })
		d.SetPublisher(pub)
	}

	if serveMode {
		d.ServeStatic()
		d.SetAddr(cfg.Serve.Addr)
		if cli.Serve.Addr != "" {
			d.SetAddr(cli.Serve.Addr)
		}
		if cfg.Serve.LiveReload == nil || *cfg.Serve.LiveReload {
			d.SetReloadHub(server.NewReloadHub())
		}
	}

	return d, cleanup, nil
}
