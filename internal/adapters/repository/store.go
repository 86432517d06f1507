// Package repository persists timelines. Three engines share one
// interface: in-memory, a JSON file, and SQLite.
package repository

import (
	"context"
	"sort"

	"github.com/okian/ivtrack/internal/domain/timeline"
	"github.com/okian/ivtrack/pkg/metrics"
)

// Store provides read/write access to tracked timelines. Implementations
// hand out copies; mutating a returned timeline does not change the store.
type Store interface {
	// Save inserts or replaces t by ID.
	Save(ctx context.Context, t *timeline.Timeline) error
	// Get returns the timeline with id, or ErrNotFound.
	Get(ctx context.Context, id string) (*timeline.Timeline, error)
	// List returns every timeline, oldest capture first.
	List(ctx context.Context) ([]*timeline.Timeline, error)
	// Delete removes id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	// Count returns the number of stored timelines.
	Count(ctx context.Context) int
	// Close releases the underlying resources.
	Close() error
}

// Store operation names used as metric labels.
const (
	opSave   = "save"
	opGet    = "get"
	opList   = "list"
	opDelete = "delete"
)

func observe(op string, err error) {
	status := metrics.StatusOK
	if err != nil {
		status = metrics.StatusError
	}
	metrics.RecordStoreOperation(op, status)
}

func sortTimelines(ts []*timeline.Timeline) {
	sort.Slice(ts, func(i, j int) bool {
		if !ts[i].CreatedAt.Equal(ts[j].CreatedAt) {
			return ts[i].CreatedAt.Before(ts[j].CreatedAt)
		}
		return ts[i].ID < ts[j].ID
	})
}
