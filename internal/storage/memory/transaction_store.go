package memory

import (
	"context"
	"sort"
	"sync"

	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/storage"
)

// TransactionStore is an in-memory implementation of storage.TransactionStore.
type TransactionStore struct {
	mu      sync.RWMutex
	data    map[string]*domain.Transaction // keyed by transaction_id
	nextSeq int64
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		data: make(map[string]*domain.Transaction),
	}
}

// Insert adds a new transaction and assigns its insertion sequence.
// Returns ErrDuplicateKey if transaction_id exists.
func (s *TransactionStore) Insert(_ context.Context, t *domain.Transaction) error {
	if t == nil || t.TransactionID == "" || t.WalletID == "" || t.ChainID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.TransactionID]; exists {
		return storage.ErrDuplicateKey
	}

	s.nextSeq++
	t.Seq = s.nextSeq

	copy := *t
	s.data[t.TransactionID] = &copy
	return nil
}

// GetByID retrieves a transaction by its ID. Returns ErrNotFound if not exists.
func (s *TransactionStore) GetByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[transactionID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *t
	return &copy, nil
}

// List retrieves the full log in insertion order.
func (s *TransactionStore) List(_ context.Context) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Transaction, 0, len(s.data))
	for _, t := range s.data {
		copy := *t
		result = append(result, &copy)
	}

	sortBySeq(result)
	return result, nil
}

// ListByWallet retrieves one wallet's transactions in insertion order.
func (s *TransactionStore) ListByWallet(_ context.Context, walletID string) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Transaction
	for _, t := range s.data {
		if t.WalletID == walletID {
			copy := *t
			result = append(result, &copy)
		}
	}

	sortBySeq(result)
	return result, nil
}

// ListByChain retrieves one chain's transactions in insertion order.
func (s *TransactionStore) ListByChain(_ context.Context, chainID string) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Transaction
	for _, t := range s.data {
		if t.ChainID == chainID {
			copy := *t
			result = append(result, &copy)
		}
	}

	sortBySeq(result)
	return result, nil
}

// CountByWallet returns the number of transactions referencing a wallet.
func (s *TransactionStore) CountByWallet(_ context.Context, walletID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, t := range s.data {
		if t.WalletID == walletID {
			count++
		}
	}
	return count, nil
}

// CountByChain returns the number of transactions referencing a chain.
func (s *TransactionStore) CountByChain(_ context.Context, chainID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, t := range s.data {
		if t.ChainID == chainID {
			count++
		}
	}
	return count, nil
}

// Delete removes a transaction by ID. Returns ErrNotFound if not exists.
func (s *TransactionStore) Delete(_ context.Context, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[transactionID]; !exists {
		return storage.ErrNotFound
	}

	delete(s.data, transactionID)
	return nil
}

func sortBySeq(txs []*domain.Transaction) {
	sort.Slice(txs, func(i, j int) bool {
		return txs[i].Seq < txs[j].Seq
	})
}

var _ storage.TransactionStore = (*TransactionStore)(nil)
