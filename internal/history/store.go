// Package history persists a summary of every export invocation.
package history

import (
	"context"
	"time"
)

// Entry summarizes one export.
type Entry struct {
	ID             string
	Site           string
	Target         string
	Platform       string
	Outcome        string
	Started        time.Time
	Duration       time.Duration
	Pages          int
	Files          int
	Assets         int
	OriginalBytes  int64
	OptimizedBytes int64
	Warnings       int
	Error          string
	Report         []byte // export report JSON
}

// Store records and lists export history.
type Store interface {
	// Record inserts e, replacing an entry with the same ID.
	Record(ctx context.Context, e Entry) error

	// List returns up to limit entries, newest first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]Entry, error)

	// Get returns the entry with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Entry, error)

	// Close releases resources.
	Close() error
}
