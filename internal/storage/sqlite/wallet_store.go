package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/storage"
)

// WalletStore implements storage.WalletStore using SQLite.
type WalletStore struct {
	db *DB
}

// NewWalletStore creates a new WalletStore.
func NewWalletStore(db *DB) *WalletStore {
	return &WalletStore{db: db}
}

// Compile-time interface check.
var _ storage.WalletStore = (*WalletStore)(nil)

// Insert adds a new wallet and assigns its insertion sequence.
// Returns ErrDuplicateKey if wallet_id or name exists.
func (s *WalletStore) Insert(ctx context.Context, w *domain.Wallet) error {
	if w == nil || w.WalletID == "" || w.Name == "" {
		return storage.ErrInvalidInput
	}

	// The embedded subselect assigns the next sequence atomically; SQLite
	// runs one writer at a time so it cannot race.
	query := `
		INSERT INTO wallets (wallet_id, name, address, seq, created_at)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM wallets), ?)
	`

	_, err := s.db.ExecContext(ctx, query, w.WalletID, w.Name, w.Address, w.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert wallet: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `SELECT seq FROM wallets WHERE wallet_id = ?`, w.WalletID).Scan(&w.Seq)
	if err != nil {
		return fmt.Errorf("read back wallet seq: %w", err)
	}
	return nil
}

// GetByID retrieves a wallet by its ID. Returns ErrNotFound if not exists.
func (s *WalletStore) GetByID(ctx context.Context, walletID string) (*domain.Wallet, error) {
	query := `
		SELECT wallet_id, name, address, seq, created_at
		FROM wallets
		WHERE wallet_id = ?
	`

	w, err := scanWallet(s.db.QueryRowContext(ctx, query, walletID))
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
		WHERE name = ?
	`

	w, err := scanWallet(s.db.QueryRowContext(ctx, query, name))
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

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

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

// Delete removes a wallet by ID. Returns ErrNotFound if not exists,
// ErrReferenced while transactions still reference the wallet.
func (s *WalletStore) Delete(ctx context.Context, walletID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM wallets WHERE wallet_id = ?`, walletID)
	if err != nil {
		if isForeignKeyError(err) {
			return storage.ErrReferenced
		}
		return fmt.Errorf("delete wallet: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete wallet rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanWallet(row *sql.Row) (*domain.Wallet, error) {
	var w domain.Wallet
	if err := row.Scan(&w.WalletID, &w.Name, &w.Address, &w.Seq, &w.CreatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}
