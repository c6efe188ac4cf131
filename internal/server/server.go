// Package server serves the emitted site model over HTTP for preview and
// operations: static model files, health and status endpoints, build history,
// metrics and a live-reload socket. It never renders documents.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/docwright/docwright/internal/history"
	"github.com/docwright/docwright/internal/logfields"
	"github.com/docwright/docwright/internal/metrics"
	"github.com/docwright/docwright/internal/site"
)

// BuildLog answers the build history endpoints. Implemented by
// history.Recorder; nil disables the endpoints.
type BuildLog interface {
	RecentBuilds(ctx context.Context, limit int) ([]history.BuildRecord, error)
	Diagnostics(ctx context.Context, buildID string) ([]site.Diagnostic, error)
}

// StatusSource reports the current state of the owning loop.
type StatusSource interface {
	Status() Status
}

// Server is the preview/admin HTTP server. Configure with the chaining
// setters, then Start.
type Server struct {
	modelDir string
	addr     string

	status   StatusSource
	log      BuildLog
	recorder metrics.Recorder
	metricsH http.Handler
	reload   *ReloadHub
	apiOnly  bool

	httpSrv *http.Server
	ln      net.Listener
}

// New creates a server for the model emitted into modelDir.
func New(addr, modelDir string) *Server {
	return &Server{
		modelDir: modelDir,
		addr:     addr,
		recorder: metrics.NoopRecorder{},
	}
}

// SetStatusSource wires the /api/status payload. Returns the server for
// chaining.
func (s *Server) SetStatusSource(src StatusSource) *Server {
	s.status = src
	return s
}

// SetBuildLog wires /api/builds and /api/diagnostics.
func (s *Server) SetBuildLog(log BuildLog) *Server {
	s.log = log
	return s
}

// SetRecorder wires HTTP request metrics.
func (s *Server) SetRecorder(rec metrics.Recorder) *Server {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	s.recorder = rec
	return s
}

// SetMetricsHandler exposes h at /metrics.
func (s *Server) SetMetricsHandler(h http.Handler) *Server {
	s.metricsH = h
	return s
}

// SetReloadHub exposes the hub at /livereload.
func (s *Server) SetReloadHub(hub *ReloadHub) *Server {
	s.reload = hub
	return s
}

// APIOnly drops the static model file server, leaving just the operational
// endpoints. Daemon admin servers run this way.
func (s *Server) APIOnly() *Server {
	s.apiOnly = true
	return s
}

// Addr returns the bound address once Start has succeeded. Useful when the
// configured port is 0.
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.addr
	}
	return s.ln.Addr().String()
}

// Handler builds the full route tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/builds", s.handleBuilds)
	mux.HandleFunc("/api/diagnostics", s.handleDiagnostics)
	if s.metricsH != nil {
		mux.Handle("/metrics", s.metricsH)
	}
	if !s.apiOnly {
		mux.Handle("/", http.FileServer(http.Dir(s.modelDir)))
	}

	// The reload socket bypasses the middleware chain: the wrapped response
	// writer would hide the hijacker the websocket accept needs.
	root := http.NewServeMux()
	if s.reload != nil {
		root.Handle("/livereload", s.reload)
	}
	root.Handle("/", chain(slog.Default(), s.recorder)(mux))
	return root
}

// Start binds the listener and serves in the background. Binding failures
// surface here so callers can fail fast instead of logging from a goroutine.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.addr, err)
	}
	s.ln = ln

	s.httpSrv = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // streaming endpoints hold the connection
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", logfields.Error(err))
		}
	}()

	slog.Info("Preview server started",
		logfields.Addr(s.Addr()),
		logfields.Path(s.modelDir))
	return nil
}

// Shutdown drains connections and closes the reload hub.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.reload != nil {
		s.reload.Shutdown()
	}
	if s.httpSrv == nil {
		return nil
	}
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("Preview server stopped")
	return nil
}
