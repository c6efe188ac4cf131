package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/docwright/docwright/internal/site"
	"github.com/docwright/docwright/internal/version"
)

// Status is the payload served at /api/status.
type Status struct {
	State         string     `json:"state"` // serving|building|idle
	StartedAt     time.Time  `json:"started_at"`
	UptimeSeconds float64    `json:"uptime_seconds"`
	BuildsRun     int        `json:"builds_run"`
	Watching      bool       `json:"watching"`
	Schedule      string     `json:"schedule,omitempty"`
	LastBuild     *BuildInfo `json:"last_build,omitempty"`
}

// BuildInfo summarizes the most recent build for the status payload.
type BuildInfo struct {
	BuildID     string    `json:"build_id"`
	Outcome     string    `json:"outcome"`
	Trigger     string    `json:"trigger,omitempty"`
	FinishedAt  time.Time `json:"finished_at"`
	DurationMS  int64     `json:"duration_ms"`
	Documents   int       `json:"documents"`
	Routes      int       `json:"routes"`
	Diagnostics int       `json:"diagnostics"`
}

type healthResponse struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	ModelReady bool      `json:"model_ready"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	_, err := os.Stat(filepath.Join(s.modelDir, "site.json"))
	health := healthResponse{
		Status:     "healthy",
		Timestamp:  time.Now().UTC(),
		Version:    version.Version,
		ModelReady: err == nil,
	}
	_ = writeJSONPretty(w, r, http.StatusOK, health)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.status == nil {
		_ = writeJSONPretty(w, r, http.StatusOK, Status{State: "serving"})
		return
	}

	status := s.status.Status()
	if !status.StartedAt.IsZero() {
		status.UptimeSeconds = time.Since(status.StartedAt).Seconds()
	}
	_ = writeJSONPretty(w, r, http.StatusOK, status)
}

func (s *Server) handleBuilds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.log == nil {
		writeError(w, http.StatusNotFound, "build history disabled")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and 500")
			return
		}
		limit = n
	}

	builds, err := s.log.RecentBuilds(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read build history")
		return
	}
	_ = writeJSONPretty(w, r, http.StatusOK, builds)
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.log == nil {
		writeError(w, http.StatusNotFound, "build history disabled")
		return
	}

	buildID := r.URL.Query().Get("build_id")
	if buildID == "" {
		writeError(w, http.StatusBadRequest, "build_id query parameter required")
		return
	}

	diagnostics, err := s.log.Diagnostics(r.Context(), buildID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read diagnostics")
		return
	}
	if diagnostics == nil {
		diagnostics = []site.Diagnostic{}
	}
	_ = writeJSONPretty(w, r, http.StatusOK, diagnostics)
}
