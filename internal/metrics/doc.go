// Package metrics provides observability hooks for build and serve metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never requires nil checks at call
// sites. When the metrics endpoint is enabled in configuration, the noop is
// swapped for PrometheusRecorder and the /metrics handler exposes the
// registry.
package metrics
