// Package history keeps a local ledger of build runs as an append-only event log.
package history

import (
	"context"
	"time"
)

// Store defines the interface for persisting and retrieving build events.
type Store interface {
	// Append adds a new event to the store.
	Append(ctx context.Context, buildID, eventType string, payload []byte, metadata map[string]string) error

	// GetByBuildID retrieves all events for a specific build.
	GetByBuildID(ctx context.Context, buildID string) ([]Event, error)

	// Recent returns the latest builds, newest first.
	Recent(ctx context.Context, limit int) ([]BuildSummary, error)

	// Close closes the store and releases resources.
	Close() error
}

// BuildSummary condenses the events of one build.
type BuildSummary struct {
	BuildID   string
	Version   string
	Started   time.Time
	LastEvent string
}

// NoopStore discards events; used when no history file is configured.
type NoopStore struct{}

func (NoopStore) Append(context.Context, string, string, []byte, map[string]string) error {
	return nil
}
func (NoopStore) GetByBuildID(context.Context, string) ([]Event, error)  { return nil, nil }
func (NoopStore) Recent(context.Context, int) ([]BuildSummary, error) { return nil, nil }
func (NoopStore) Close() error                                          { return nil }
