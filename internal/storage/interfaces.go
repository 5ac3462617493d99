package storage

import (
	"context"

	"airdrop-tracker/internal/domain"
)

// WalletStore provides access to wallets storage.
// List order is insertion order (Seq ASC); it defines matrix row order.
type WalletStore interface {
	// Insert adds a new wallet and assigns its insertion sequence.
	// Returns ErrDuplicateKey if wallet_id or name exists.
	Insert(ctx context.Context, w *domain.Wallet) error

	// GetByID retrieves a wallet by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, walletID string) (*domain.Wallet, error)

	// GetByName retrieves a wallet by its unique name. Returns ErrNotFound if not exists.
	GetByName(ctx context.Context, name string) (*domain.Wallet, error)

	// List retrieves all wallets in insertion order.
	List(ctx context.Context) ([]*domain.Wallet, error)

	// Delete removes a wallet by ID. Returns ErrNotFound if not exists.
	// The service layer rejects deletes while transactions reference the
	// wallet; relational backends additionally back this with a RESTRICT
	// constraint surfaced as ErrReferenced.
	Delete(ctx context.Context, walletID string) error
}

// ChainStore provides access to chains storage.
// List order is insertion order (Seq ASC); it defines matrix column order.
type ChainStore interface {
	// Insert adds a new chain and assigns its insertion sequence.
	// Returns ErrDuplicateKey if chain_id or name exists.
	Insert(ctx context.Context, c *domain.Chain) error

	// GetByID retrieves a chain by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, chainID string) (*domain.Chain, error)

	// GetByName retrieves a chain by its unique name. Returns ErrNotFound if not exists.
	GetByName(ctx context.Context, name string) (*domain.Chain, error)

	// List retrieves all chains in insertion order.
	List(ctx context.Context) ([]*domain.Chain, error)

	// Delete removes a chain by ID. Returns ErrNotFound if not exists,
	// ErrReferenced from relational backends while transactions reference it.
	Delete(ctx context.Context, chainID string) error
}

// TransactionStore provides access to transactions storage.
// Records are append-only: inserted, deleted by ID, never updated.
type TransactionStore interface {
	// Insert adds a new transaction and assigns its insertion sequence.
	// Returns ErrDuplicateKey if transaction_id exists.
	Insert(ctx context.Context, t *domain.Transaction) error

	// GetByID retrieves a transaction by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// List retrieves the full log in insertion order. The returned slice is
	// a consistent snapshot safe to hand to the aggregation engine.
	List(ctx context.Context) ([]*domain.Transaction, error)

	// ListByWallet retrieves one wallet's transactions in insertion order.
	ListByWallet(ctx context.Context, walletID string) ([]*domain.Transaction, error)

	// ListByChain retrieves one chain's transactions in insertion order.
	ListByChain(ctx context.Context, chainID string) ([]*domain.Transaction, error)

	// CountByWallet returns the number of transactions referencing a wallet.
	CountByWallet(ctx context.Context, walletID string) (int, error)

	// CountByChain returns the number of transactions referencing a chain.
	CountByChain(ctx context.Context, chainID string) (int, error)

	// Delete removes a transaction by ID. Returns ErrNotFound if not exists.
	Delete(ctx context.Context, transactionID string) error
}

// StatsHistoryStore provides access to global-stats snapshot history.
type StatsHistoryStore interface {
	// Insert appends a snapshot.
	Insert(ctx context.Context, s *domain.StatsSnapshot) error

	// List retrieves all snapshots ordered by TakenAt ASC.
	List(ctx context.Context) ([]*domain.StatsSnapshot, error)

	// GetRange retrieves snapshots taken within [start, end] (inclusive, ms).
	GetRange(ctx context.Context, start, end int64) ([]*domain.StatsSnapshot, error)

	// Latest retrieves the most recent snapshot with TakenAt <= upTo (ms).
	// Returns ErrNotFound when no snapshot is that old.
	Latest(ctx context.Context, upTo int64) (*domain.StatsSnapshot, error)
}
