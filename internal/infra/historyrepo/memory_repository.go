package historyrepo

import (
	"context"
	"sync"

	"github.com/yanqian/ppgi-advisor/internal/domain/prediction"
)

// MemoryRepository is an in-memory HistoryRepository used for tests/dev.
type MemoryRepository struct {
	mu      sync.RWMutex
	records []prediction.Record
	byID    map[string]int
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: make(map[string]int)}
}

// Save implements prediction.HistoryRepository. Saving an existing ID replaces it.
func (r *MemoryRepository) Save(_ context.Context, record prediction.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx, ok := r.byID[record.ID]; ok {
		r.records[idx] = record
		return nil
	}
	r.byID[record.ID] = len(r.records)
	r.records = append(r.records, record)
	return nil
}

// Get implements prediction.HistoryRepository.
func (r *MemoryRepository) Get(_ context.Context, id string) (prediction.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byID[id]
	if !ok {
		return prediction.Record{}, false, nil
	}
	return r.records[idx], true, nil
}

// Recent returns up to limit records, newest first.
func (r *MemoryRepository) Recent(_ context.Context, limit int) ([]prediction.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.records) {
		limit = len(r.records)
	}
	out := make([]prediction.Record, 0, limit)
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.records[i])
	}
	return out, nil
}

var _ prediction.HistoryRepository = (*MemoryRepository)(nil)
