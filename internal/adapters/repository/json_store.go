package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okian/ivtrack/internal/adapters/codec"
	"github.com/okian/ivtrack/internal/domain/timeline"
	"github.com/okian/ivtrack/pkg/metrics"
)

// JSONStore keeps every timeline in memory and rewrites one JSON file on
// each change. The file is replaced atomically through a temp file.
type JSONStore struct {
	mem      *MemoryStore
	filePath string
}

// NewJSONStore opens filePath, loading it when it exists.
func NewJSONStore(filePath string) (*JSONStore, error) {
	s := &JSONStore{mem: NewMemoryStore(), filePath: filePath}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save implements Store.
func (s *JSONStore) Save(_ context.Context, t *timeline.Timeline) (err error) {
	defer func() { observe(opSave, err) }()
	if err := checkTimeline(t); err != nil {
		return err
	}
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	prev, had := s.mem.timelines[t.ID]
	s.mem.timelines[t.ID] = t.Clone()
	if err := s.persistLocked(); err != nil {
		if had {
			s.mem.timelines[t.ID] = prev
		} else {
			delete(s.mem.timelines, t.ID)
		}
		return err
	}
	metrics.UpdateTimelinesStored(len(s.mem.timelines))
	return nil
}

// Get implements Store.
func (s *JSONStore) Get(ctx context.Context, id string) (*timeline.Timeline, error) {
	return s.mem.Get(ctx, id)
}

// List implements Store.
func (s *JSONStore) List(ctx context.Context) ([]*timeline.Timeline, error) {
	return s.mem.List(ctx)
}

// Delete implements Store.
func (s *JSONStore) Delete(_ context.Context, id string) (err error) {
	defer func() { observe(opDelete, err) }()
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	prev, ok := s.mem.timelines[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.mem.timelines, id)
	if err := s.persistLocked(); err != nil {
		s.mem.timelines[id] = prev
		return err
	}
	metrics.UpdateTimelinesStored(len(s.mem.timelines))
	return nil
}

// Count implements Store.
func (s *JSONStore) Count(ctx context.Context) int { return s.mem.Count(ctx) }

// Close implements Store.
func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	ts, err := codec.DecodeCollection(data)
	if err != nil {
		return fmt.Errorf("load %s: %w", s.filePath, err)
	}
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	for _, t := range ts {
		s.mem.timelines[t.ID] = t
	}
	metrics.UpdateTimelinesStored(len(s.mem.timelines))
	return nil
}

func (s *JSONStore) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o755); err != nil {
		return err
	}
	ts := make([]*timeline.Timeline, 0, len(s.mem.timelines))
	for _, t := range s.mem.timelines {
		ts = append(ts, t)
	}
	sortTimelines(ts)
	data, err := codec.EncodeCollection(ts)
	if err != nil {
		return err
	}
	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.filePath)
}
