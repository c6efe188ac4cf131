package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration *prom.HistogramVec
	buildDuration prom.Histogram
	stageResults  *prom.CounterVec
	buildOutcome  *prom.CounterVec
	documents     prom.Gauge
	routes        prom.Gauge
	diagnostics   *prom.CounterVec
	httpRequests  *prom.CounterVec
	httpDuration  *prom.HistogramVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics. Each
// recorder must be given its own registry; registering two recorders on one
// registry panics on duplicate collector names.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docwright",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docwright",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docwright",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docwright",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		documents: prom.NewGauge(prom.GaugeOpts{
			Namespace: "docwright",
			Name:      "documents_scanned",
			Help:      "Documents discovered by the most recent content scan",
		}),
		routes: prom.NewGauge(prom.GaugeOpts{
			Namespace: "docwright",
			Name:      "routes_emitted",
			Help:      "Routes emitted into the site model by the most recent build",
		}),
		diagnostics: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docwright",
			Name:      "diagnostics_total",
			Help:      "Diagnostics reported during builds, by code and severity",
		}, []string{"code", "severity"}),
		httpRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docwright",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, path and status",
		}, []string{"method", "path", "status"}),
		httpDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docwright",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request handling duration",
			Buckets:   prom.DefBuckets,
		}, []string{"path"}),
	}
	reg.MustRegister(
		pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome,
		pr.documents, pr.routes, pr.diagnostics,
		pr.httpRequests, pr.httpDuration,
	)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetDocumentsScanned(n int) {
	if p == nil || p.documents == nil {
		return
	}
	p.documents.Set(float64(n))
}

func (p *PrometheusRecorder) SetRoutesEmitted(n int) {
	if p == nil || p.routes == nil {
		return
	}
	p.routes.Set(float64(n))
}

func (p *PrometheusRecorder) IncDiagnostic(code, severity string) {
	if p == nil || p.diagnostics == nil {
		return
	}
	p.diagnostics.WithLabelValues(code, severity).Inc()
}

func (p *PrometheusRecorder) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	if p == nil || p.httpRequests == nil {
		return
	}
	p.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(path).Observe(d.Seconds())
}
