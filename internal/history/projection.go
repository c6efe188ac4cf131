package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Projection keeps the most recent builds in memory, newest first, so status
// endpoints can answer without touching the store.
type Projection struct {
	mu      sync.RWMutex
	store   Store
	maxSize int
	builds  []BuildRecord
}

// NewProjection creates a projection holding at most maxSize builds.
func NewProjection(store Store, maxSize int) *Projection {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &Projection{store: store, maxSize: maxSize}
}

// Rebuild replaces the in-memory state from the store.
func (p *Projection) Rebuild(ctx context.Context) error {
	events, err := p.store.Recent(ctx, EventBuildRecorded, p.maxSize)
	if err != nil {
		return err
	}
	builds := make([]BuildRecord, 0, len(events))
	for _, e := range events {
		var rec BuildRecord
		if err := json.Unmarshal(e.Payload, &rec); err != nil {
			return fmt.Errorf("%w: decode record %d: %w", ErrQuery, e.ID, err)
		}
		builds = append(builds, rec)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.builds = builds
	return nil
}

// Apply prepends a freshly recorded build.
func (p *Projection) Apply(rec BuildRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.builds = append([]BuildRecord{rec}, p.builds...)
	if len(p.builds) > p.maxSize {
		p.builds = p.builds[:p.maxSize]
	}
}

// Recent returns a copy of the projected builds, newest first.
func (p *Projection) Recent() []BuildRecord {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]BuildRecord, len(p.builds))
	copy(out, p.builds)
	return out
}

// Latest returns the most recent build, if any.
func (p *Projection) Latest() (BuildRecord, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.builds) == 0 {
		return BuildRecord{}, false
	}
	return p.builds[0], true
}
