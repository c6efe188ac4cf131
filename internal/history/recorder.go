package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/docwright/docwright/internal/logfields"
	"github.com/docwright/docwright/internal/observability"
	"github.com/docwright/docwright/internal/site"
)

// Recorder persists completed builds through a Store and keeps the log
// bounded. It satisfies the build pipeline's history sink.
type Recorder struct {
	store      Store
	keep       int
	projection *Projection
}

// NewRecorder creates a recorder keeping at most maxBuilds builds.
func NewRecorder(store Store, maxBuilds int) *Recorder {
	if maxBuilds <= 0 {
		maxBuilds = 100
	}
	return &Recorder{store: store, keep: maxBuilds}
}

// WithProjection also applies every recorded build to the in-memory
// projection. Returns the recorder for chaining.
func (r *Recorder) WithProjection(p *Projection) *Recorder {
	r.projection = p
	return r
}

// RecordBuild appends the build and its diagnostics to the log, then prunes
// past the retention limit. The trigger is read from the build context.
func (r *Recorder) RecordBuild(ctx context.Context, report *site.BuildReport, diagnostics []site.Diagnostic) error {
	rec := recordFromReport(report, observability.GetContext(ctx).Trigger)

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: marshal record: %w", ErrAppend, err)
	}
	if err := r.store.Append(ctx, report.BuildID, EventBuildRecorded, payload); err != nil {
		return err
	}

	if len(diagnostics) > 0 {
		dp, err := json.Marshal(DiagnosticsRecord{BuildID: report.BuildID, Diagnostics: diagnostics})
		if err != nil {
			return fmt.Errorf("%w: marshal diagnostics: %w", ErrAppend, err)
		}
		if err := r.store.Append(ctx, report.BuildID, EventDiagnosticsRecorded, dp); err != nil {
			return err
		}
	}

	if r.projection != nil {
		r.projection.Apply(rec)
	}

	// Retention is best-effort; a failed prune never fails the record.
	if err := r.store.Prune(ctx, r.keep); err != nil {
		slog.Warn("Failed to prune build history", logfields.Error(err))
	}
	return nil
}

// RecentBuilds returns the newest recorded builds, newest first. With a
// projection attached the answer comes from memory; otherwise the store is
// queried.
func (r *Recorder) RecentBuilds(ctx context.Context, limit int) ([]BuildRecord, error) {
	if limit <= 0 {
		limit = r.keep
	}
	if r.projection != nil {
		records := r.projection.Recent()
		if len(records) > limit {
			records = records[:limit]
		}
		return records, nil
	}
	events, err := r.store.Recent(ctx, EventBuildRecorded, limit)
	if err != nil {
		return nil, err
	}
	records := make([]BuildRecord, 0, len(events))
	for _, e := range events {
		var rec BuildRecord
		if err := json.Unmarshal(e.Payload, &rec); err != nil {
			return nil, fmt.Errorf("%w: decode record %d: %w", ErrQuery, e.ID, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Diagnostics returns the diagnostics recorded with one build, or nil when
// the build recorded none.
func (r *Recorder) Diagnostics(ctx context.Context, buildID string) ([]site.Diagnostic, error) {
	events, err := r.store.ByBuild(ctx, buildID)
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		if e.Type != EventDiagnosticsRecorded {
			continue
		}
		var rec DiagnosticsRecord
		if err := json.Unmarshal(e.Payload, &rec); err != nil {
			return nil, fmt.Errorf("%w: decode diagnostics %d: %w", ErrQuery, e.ID, err)
		}
		return rec.Diagnostics, nil
	}
	return nil, nil
}
