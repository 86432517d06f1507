package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/ivtrack/internal/domain/timeline"
	"github.com/okian/ivtrack/pkg/metrics"
)

// MemoryStore keeps timelines in a map guarded by a RWMutex.
type MemoryStore struct {
	mu        sync.RWMutex
	timelines map[string]*timeline.Timeline
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{timelines: make(map[string]*timeline.Timeline)}
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, t *timeline.Timeline) (err error) {
	defer func() { observe(opSave, err) }()
	if err := checkTimeline(t); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timelines[t.ID] = t.Clone()
	metrics.UpdateTimelinesStored(len(s.timelines))
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (_ *timeline.Timeline, err error) {
	defer func() { observe(opGet, err) }()
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.timelines[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return t.Clone(), nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context) ([]*timeline.Timeline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*timeline.Timeline, 0, len(s.timelines))
	for _, t := range s.timelines {
		out = append(out, t.Clone())
	}
	sortTimelines(out)
	observe(opList, nil)
	return out, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) (err error) {
	defer func() { observe(opDelete, err) }()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.timelines[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.timelines, id)
	metrics.UpdateTimelinesStored(len(s.timelines))
	return nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.timelines)
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }

func checkTimeline(t *timeline.Timeline) error {
	if t == nil || t.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidTimeline)
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeline, err)
	}
	return nil
}
