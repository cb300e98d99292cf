package eventstore

import (
	"context"
	"time"
)

// Store defines the interface for persisting and retrieving events.
type Store interface {
	// Append adds a new event to the store.
	Append(ctx context.Context, buildID, eventType string, payload []byte, metadata map[string]string) error

	// GetByBuildID retrieves all events for a specific build.
	GetByBuildID(ctx context.Context, buildID string) ([]Event, error)

	// GetRange retrieves events within a time range.
	GetRange(ctx context.Context, start, end time.Time) ([]Event, error)

	// RecentBuilds returns the newest build IDs first.
	RecentBuilds(ctx context.Context, limit int) ([]string, error)

	// Close closes the store and releases resources.
	Close() error
}

// Emit appends ev to store. A nil store drops the event.
func Emit(ctx context.Context, store Store, ev Event) error {
	if store == nil {
		return nil
	}
	return store.Append(ctx, ev.BuildID(), ev.Type(), ev.Payload(), ev.Metadata())
}
