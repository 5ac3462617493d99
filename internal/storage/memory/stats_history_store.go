package memory

import (
	"context"
	"sort"
	"sync"

	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/storage"
)

// StatsHistoryStore is an in-memory implementation of storage.StatsHistoryStore.
type StatsHistoryStore struct {
	mu   sync.RWMutex
	data []*domain.StatsSnapshot
}

// NewStatsHistoryStore creates a new in-memory stats history store.
func NewStatsHistoryStore() *StatsHistoryStore {
	return &StatsHistoryStore{}
}

// Insert appends a snapshot.
func (s *StatsHistoryStore) Insert(_ context.Context, snap *domain.StatsSnapshot) error {
	if snap == nil || snap.TakenAt <= 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *snap
	s.data = append(s.data, &copy)
	return nil
}

// List retrieves all snapshots ordered by TakenAt ASC.
func (s *StatsHistoryStore) List(_ context.Context) ([]*domain.StatsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.StatsSnapshot, 0, len(s.data))
	for _, snap := range s.data {
		copy := *snap
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TakenAt < result[j].TakenAt
	})

	return result, nil
}

// GetRange retrieves snapshots taken within [start, end] (inclusive, ms).
func (s *StatsHistoryStore) GetRange(_ context.Context, start, end int64) ([]*domain.StatsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.StatsSnapshot
	for _, snap := range s.data {
		if snap.TakenAt >= start && snap.TakenAt <= end {
			copy := *snap
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TakenAt < result[j].TakenAt
	})

	return result, nil
}

// Latest retrieves the most recent snapshot with TakenAt <= upTo (ms).
func (s *StatsHistoryStore) Latest(_ context.Context, upTo int64) (*domain.StatsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *domain.StatsSnapshot
	for _, snap := range s.data {
		if snap.TakenAt > upTo {
			continue
		}
		if best == nil || snap.TakenAt > best.TakenAt {
			best = snap
		}
	}
	if best == nil {
		return nil, storage.ErrNotFound
	}

	copy := *best
	return &copy, nil
}

var _ storage.StatsHistoryStore = (*StatsHistoryStore)(nil)
