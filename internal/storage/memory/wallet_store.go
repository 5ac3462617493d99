package memory

import (
	"context"
	"sort"
	"sync"

	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/storage"
)

// WalletStore is an in-memory implementation of storage.WalletStore.
type WalletStore struct {
	mu      sync.RWMutex
	data    map[string]*domain.Wallet // keyed by wallet_id
	byName  map[string]string         // name -> wallet_id
	nextSeq int64
}

// NewWalletStore creates a new in-memory wallet store.
func NewWalletStore() *WalletStore {
	return &WalletStore{
		data:   make(map[string]*domain.Wallet),
		byName: make(map[string]string),
	}
}

// Insert adds a new wallet and assigns its insertion sequence.
// Returns ErrDuplicateKey if wallet_id or name exists.
func (s *WalletStore) Insert(_ context.Context, w *domain.Wallet) error {
	if w == nil || w.WalletID == "" || w.Name == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[w.WalletID]; exists {
		return storage.ErrDuplicateKey
	}
	if _, exists := s.byName[w.Name]; exists {
		return storage.ErrDuplicateKey
	}

	s.nextSeq++
	w.Seq = s.nextSeq

	copy := *w
	s.data[w.WalletID] = &copy
	s.byName[w.Name] = w.WalletID
	return nil
}

// GetByID retrieves a wallet by its ID. Returns ErrNotFound if not exists.
func (s *WalletStore) GetByID(_ context.Context, walletID string) (*domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, exists := s.data[walletID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *w
	return &copy, nil
}

// GetByName retrieves a wallet by its unique name. Returns ErrNotFound if not exists.
func (s *WalletStore) GetByName(_ context.Context, name string) (*domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byName[name]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *s.data[id]
	return &copy, nil
}

// List retrieves all wallets in insertion order.
func (s *WalletStore) List(_ context.Context) ([]*domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Wallet, 0, len(s.data))
	for _, w := range s.data {
		copy := *w
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Seq < result[j].Seq
	})

	return result, nil
}

// Delete removes a wallet by ID. Returns ErrNotFound if not exists.
func (s *WalletStore) Delete(_ context.Context, walletID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, exists := s.data[walletID]
	if !exists {
		return storage.ErrNotFound
	}

	delete(s.byName, w.Name)
	delete(s.data, walletID)
	return nil
}

var _ storage.WalletStore = (*WalletStore)(nil)
