package history

import "context"

// Store is the append-only event log behind the build history.
type Store interface {
	// Append adds one event to the log.
	Append(ctx context.Context, buildID, eventType string, payload []byte) error

	// ByBuild returns all events for one build in append order.
	ByBuild(ctx context.Context, buildID string) ([]Event, error)

	// Recent returns the newest events of one type, newest first.
	Recent(ctx context.Context, eventType string, limit int) ([]Event, error)

	// Prune drops events of all builds older than the newest keep builds.
	Prune(ctx context.Context, keep int) error

	// Close releases the underlying resources.
	Close() error
}
