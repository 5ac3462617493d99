package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/storage"
)

// WalletStore implements storage.WalletStore using PostgreSQL.
type WalletStore struct {
	pool *Pool
}

// NewWalletStore creates a new WalletStore.
func NewWalletStore(pool *Pool) *WalletStore {
	return &WalletStore{pool: pool}
}

// Compile-time interface check.
var _ storage.WalletStore = (*WalletStore)(nil)

// Insert adds a new wallet and assigns its insertion sequence.
// Returns ErrDuplicateKey if wallet_id or name exists.
func (s *WalletStore) Insert(ctx context.Context, w *domain.Wallet) error {
	if w == nil || w.WalletID == "" || w.Name == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO wallets (wallet_id, name, address, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING seq
	`

	err := s.pool.QueryRow(ctx, query, w.WalletID, w.Name, w.Address, w.CreatedAt).Scan(&w.Seq)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByID retrieves a wallet by its ID. Returns ErrNotFound if not exists.
func (s *WalletStore) GetByID(ctx context.Context, walletID string) (*domain.Wallet, error) {
	query := `
		SELECT wallet_id, name, address, seq, created_at
		FROM wallets
		WHERE wallet_id = $1
	`

	row := s.pool.QueryRow(ctx, query, walletID)
	w, err := scanWallet(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get wallet by id: %w", err)
	}
	return w, nil
}

// GetByName retrieves a wallet by its unique name. Returns ErrNotFound if not exists.
func (s *WalletStore) GetByName(ctx context.Context, name string) (*domain.Wallet, error) {
	query := `
		SELECT wallet_id, name, address, seq, created_at
		FROM wallets
		WHERE name = $1
	`

	row := s.pool.QueryRow(ctx, query, name)
	w, err := scanWallet(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get wallet by name: %w", err)
	}
	return w, nil
}

// List retrieves all wallets in insertion order.
func (s *WalletStore) List(ctx context.Context) ([]*domain.Wallet, error) {
	query := `
		SELECT wallet_id, name, address, seq, created_at
		FROM wallets
		ORDER BY seq ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	return scanWallets(rows)
}

// Delete removes a wallet by ID. Returns ErrNotFound if not exists,
// ErrReferenced while transactions still reference the wallet.
func (s *WalletStore) Delete(ctx context.Context, walletID string) error {
	query := `DELETE FROM wallets WHERE wallet_id = $1`

	tag, err := s.pool.Exec(ctx, query, walletID)
	if err != nil {
		if isForeignKeyError(err) {
			return storage.ErrReferenced
		}
		return fmt.Errorf("delete wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanWallet scans a single row into a Wallet.
func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var w domain.Wallet

	err := row.Scan(&w.WalletID, &w.Name, &w.Address, &w.Seq, &w.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &w, nil
}

// scanWallets scans multiple rows into a slice of Wallet.
func scanWallets(rows pgx.Rows) ([]*domain.Wallet, error) {
	var wallets []*domain.Wallet

	for rows.Next() {
		var w domain.Wallet

		if err := rows.Scan(&w.WalletID, &w.Name, &w.Address, &w.Seq, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wallet row: %w", err)
		}

		wallets = append(wallets, &w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallet rows: %w", err)
	}

	return wallets, nil
}
