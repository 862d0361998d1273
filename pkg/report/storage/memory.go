package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"mercator-hq/preload/pkg/report"
)

const backendMemory = "memory"

// MemoryStorage keeps reports in memory for the life of the process.
type MemoryStorage struct {
	mu      sync.RWMutex
	reports map[string][]byte
	index   map[string]Summary
	closed  bool
}

// NewMemoryStorage creates an empty in-memory backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		reports: make(map[string][]byte),
		index:   make(map[string]Summary),
	}
}

var errClosed = errors.New("storage is closed")

// Store keeps an encoded copy of r so later mutation of r is not seen.
func (s *MemoryStorage) Store(_ context.Context, r *report.Report) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return NewStorageError(backendMemory, "marshal", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return NewStorageError(backendMemory, "store", errClosed)
	}
	s.reports[r.ID] = payload
	s.index[r.ID] = Summarize(r)
	return nil
}

// Get returns a fresh copy of the report with the given id.
func (s *MemoryStorage) Get(_ context.Context, id string) (*report.Report, error) {
	s.mu.RLock()
	payload, ok := s.reports[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	var r report.Report
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, NewStorageError(backendMemory, "unmarshal", err)
	}
	return &r, nil
}

// List returns matching summaries, newest first.
func (s *MemoryStorage) List(_ context.Context, filter Filter) ([]Summary, error) {
	sorted := s.sorted()

	out := make([]Summary, 0, len(sorted))
	for _, sum := range sorted {
		if filter.matches(sum) {
			out = append(out, sum)
		}
	}

	if filter.Offset > len(out) {
		return []Summary{}, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Count returns the number of stored reports.
func (s *MemoryStorage) Count(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.index)), nil
}

// DeleteOlderThan removes reports created before cutoff.
func (s *MemoryStorage) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, sum := range s.index {
		if sum.CreatedAt.Before(cutoff) {
			delete(s.index, id)
			delete(s.reports, id)
			n++
		}
	}
	return n, nil
}

// DeleteOldest removes all but the newest keep reports.
func (s *MemoryStorage) DeleteOldest(_ context.Context, keep int) (int64, error) {
	sorted := s.sorted()
	if keep < 0 {
		keep = 0
	}
	if len(sorted) <= keep {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, sum := range sorted[keep:] {
		if _, ok := s.index[sum.ID]; ok {
			delete(s.index, sum.ID)
			delete(s.reports, sum.ID)
			n++
		}
	}
	return n, nil
}

// Ping fails only after Close.
func (s *MemoryStorage) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return NewStorageError(backendMemory, "ping", errClosed)
	}
	return nil
}

// Close discards all reports.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.reports = make(map[string][]byte)
	s.index = make(map[string]Summary)
	return nil
}

// sorted returns all summaries newest first, ties broken by id descending
// to match SQLiteStorage.
func (s *MemoryStorage) sorted() []Summary {
	s.mu.RLock()
	out := make([]Summary, 0, len(s.index))
	for _, sum := range s.index {
		out = append(out, sum)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

var _ Storage = (*MemoryStorage)(nil)
