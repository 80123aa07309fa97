package balance

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a ReportStore that keeps reports in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]Report
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[uuid.UUID]Report)}
}

// Save stores a copy of r, replacing any report with the same ID.
func (m *MemoryStore) Save(_ context.Context, r *Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[r.ID] = *r
	return nil
}

// Get returns a copy of the report with id.
func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, ErrReportNotFound
	}
	return &r, nil
}

// List returns up to limit reports, newest first. limit <= 0 returns all.
func (m *MemoryStore) List(_ context.Context, limit int) ([]*Report, error) {
	m.mu.RLock()
	out := make([]*Report, 0, len(m.reports))
	for _, r := range m.reports {
		r := r
		out = append(out, &r)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
