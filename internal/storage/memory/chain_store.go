package memory

import (
	"context"
	"sort"
	"sync"

	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/storage"
)

// ChainStore is an in-memory implementation of storage.ChainStore.
type ChainStore struct {
	mu      sync.RWMutex
	data    map[string]*domain.Chain // keyed by chain_id
	byName  map[string]string        // name -> chain_id
	nextSeq int64
}

// NewChainStore creates a new in-memory chain store.
func NewChainStore() *ChainStore {
	return &ChainStore{
		data:   make(map[string]*domain.Chain),
		byName: make(map[string]string),
	}
}

// Insert adds a new chain and assigns its insertion sequence.
// Returns ErrDuplicateKey if chain_id or name exists.
func (s *ChainStore) Insert(_ context.Context, c *domain.Chain) error {
	if c == nil || c.ChainID == "" || c.Name == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[c.ChainID]; exists {
		return storage.ErrDuplicateKey
	}
	if _, exists := s.byName[c.Name]; exists {
		return storage.ErrDuplicateKey
	}

	s.nextSeq++
	c.Seq = s.nextSeq

	copy := *c
	s.data[c.ChainID] = &copy
	s.byName[c.Name] = c.ChainID
	return nil
}

// GetByID retrieves a chain by its ID. Returns ErrNotFound if not exists.
func (s *ChainStore) GetByID(_ context.Context, chainID string) (*domain.Chain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.data[chainID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *c
	return &copy, nil
}

// GetByName retrieves a chain by its unique name. Returns ErrNotFound if not exists.
func (s *ChainStore) GetByName(_ context.Context, name string) (*domain.Chain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byName[name]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *s.data[id]
	return &copy, nil
}

// List retrieves all chains in insertion order.
func (s *ChainStore) List(_ context.Context) ([]*domain.Chain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Chain, 0, len(s.data))
	for _, c := range s.data {
		copy := *c
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Seq < result[j].Seq
	})

	return result, nil
}

// Delete removes a chain by ID. Returns ErrNotFound if not exists.
func (s *ChainStore) Delete(_ context.Context, chainID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.data[chainID]
	if !exists {
		return storage.ErrNotFound
	}

	delete(s.byName, c.Name)
	delete(s.data, chainID)
	return nil
}

var _ storage.ChainStore = (*ChainStore)(nil)
