package sagalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned by GetLatest when a saga has never been logged.
var ErrNotFound = errors.New("saga log: not found")

// Repository is the port (interface) for persisting saga log entries.
// The coordinator depends on this abstraction, not on SQLite directly,
// so you can swap the implementation for Postgres, in-memory (tests), etc.
type Repository interface {
	// Save persists a new log entry. Each call appends a row; the table is
	// an append-only audit log, not an upsert.
	Save(ctx context.Context, entry *SagaLog) error

	// GetLatest returns the most recent entry for a saga, or ErrNotFound if
	// the saga has never been logged.
	GetLatest(ctx context.Context, sagaID string) (*SagaLog, error)
}
