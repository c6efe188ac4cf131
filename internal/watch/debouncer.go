package watch

import (
	"context"
	"time"
)

// Change is one coalesced burst of filesystem events.
type Change struct {
	Paths []string // unique paths, in first-seen order
	Count int      // raw event count
	First time.Time
	Last  time.Time
	Cause string // quiet|max_delay|flush
}

// Debouncer coalesces bursts of change events into single build triggers.
// A build fires after the quiet window passes without new events; the max
// delay caps how long a steady stream of edits can postpone it.
type Debouncer struct {
	quiet time.Duration
	max   time.Duration
}

const defaultQuietWindow = 400 * time.Millisecond

// NewDebouncer creates a debouncer with the given quiet window. The max
// delay defaults to ten quiet windows.
func NewDebouncer(quiet time.Duration) *Debouncer {
	if quiet <= 0 {
		quiet = defaultQuietWindow
	}
	return &Debouncer{quiet: quiet, max: 10 * quiet}
}

// WithMaxDelay overrides the postponement cap. Returns the debouncer for
// chaining.
func (d *Debouncer) WithMaxDelay(max time.Duration) *Debouncer {
	if max > 0 {
		d.max = max
	}
	return d
}

// Run consumes events until ctx is done or in closes, calling fire once per
// coalesced burst. A pending burst is flushed when in closes.
func (d *Debouncer) Run(ctx context.Context, in <-chan Event, fire func(Change)) {
	quietTimer := time.NewTimer(time.Hour)
	stopTimer(quietTimer)
	maxTimer := time.NewTimer(time.Hour)
	stopTimer(maxTimer)
	defer quietTimer.Stop()
	defer maxTimer.Stop()

	var (
		quietC  <-chan time.Time
		maxC    <-chan time.Time
		pending Change
		seen    map[string]struct{}
	)

	emit := func(cause string) {
		pending.Cause = cause
		fire(pending)
		pending = Change{}
		seen = nil
		quietC, maxC = nil, nil
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-in:
			if !ok {
				if pending.Count > 0 {
					emit("flush")
				}
				return
			}
			if pending.Count == 0 {
				pending.First = ev.At
				seen = make(map[string]struct{})
				resetTimer(maxTimer, d.max)
				maxC = maxTimer.C
			}
			pending.Count++
			pending.Last = ev.At
			if _, dup := seen[ev.Path]; !dup {
				seen[ev.Path] = struct{}{}
				pending.Paths = append(pending.Paths, ev.Path)
			}
			resetTimer(quietTimer, d.quiet)
			quietC = quietTimer.C
		case <-quietC:
			emit("quiet")
		case <-maxC:
			emit("max_delay")
		}
	}
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

func resetTimer(t *time.Timer, after time.Duration) {
	stopTimer(t)
	t.Reset(after)
}
