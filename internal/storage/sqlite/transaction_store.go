package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/storage"
)

// TransactionStore implements storage.TransactionStore using SQLite.
type TransactionStore struct {
	db *DB
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(db *DB) *TransactionStore {
	return &TransactionStore{db: db}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

// Insert adds a new transaction and assigns its insertion sequence.
// Returns ErrDuplicateKey if transaction_id exists.
func (s *TransactionStore) Insert(ctx context.Context, t *domain.Transaction) error {
	if t == nil || t.TransactionID == "" || t.WalletID == "" || t.ChainID == "" {
		return storage.ErrInvalidInput
	}

	zeroVolume := 0
	if t.ZeroVolume {
		zeroVolume = 1
	}

	query := `
		INSERT INTO transactions (
			transaction_id, wallet_id, chain_id, timestamp_ms,
			zero_volume, volume, gas, comment, seq, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM transactions), ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		t.TransactionID, t.WalletID, t.ChainID, t.Timestamp,
		zeroVolume, t.Volume, t.Gas, t.Comment, t.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert transaction: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `SELECT seq FROM transactions WHERE transaction_id = ?`, t.TransactionID).Scan(&t.Seq)
	if err != nil {
		return fmt.Errorf("read back transaction seq: %w", err)
	}
	return nil
}

// GetByID retrieves a transaction by its ID. Returns ErrNotFound if not exists.
func (s *TransactionStore) GetByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT
			transaction_id, wallet_id, chain_id, timestamp_ms,
			zero_volume, volume, gas, comment, seq, created_at
		FROM transactions
		WHERE transaction_id = ?
	`

	t, err := scanTransactionRow(s.db.QueryRowContext(ctx, query, transactionID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get transaction by id: %w", err)
	}
	return t, nil
}

// List retrieves the full log in insertion order.
func (s *TransactionStore) List(ctx context.Context) ([]*domain.Transaction, error) {
	query := `
		SELECT
			transaction_id, wallet_id, chain_id, timestamp_ms,
			zero_volume, volume, gas, comment, seq, created_at
		FROM transactions
		ORDER BY seq ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactionRows(rows)
}

// ListByWallet retrieves one wallet's transactions in insertion order.
func (s *TransactionStore) ListByWallet(ctx context.Context, walletID string) ([]*domain.Transaction, error) {
	query := `
		SELECT
			transaction_id, wallet_id, chain_id, timestamp_ms,
			zero_volume, volume, gas, comment, seq, created_at
		FROM transactions
		WHERE wallet_id = ?
		ORDER BY seq ASC
	`

	rows, err := s.db.QueryContext(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("list transactions by wallet: %w", err)
	}
	defer rows.Close()

	return scanTransactionRows(rows)
}

// ListByChain retrieves one chain's transactions in insertion order.
func (s *TransactionStore) ListByChain(ctx context.Context, chainID string) ([]*domain.Transaction, error) {
	query := `
		SELECT
			transaction_id, wallet_id, chain_id, timestamp_ms,
			zero_volume, volume, gas, comment, seq, created_at
		FROM transactions
		WHERE chain_id = ?
		ORDER BY seq ASC
	`

	rows, err := s.db.QueryContext(ctx, query, chainID)
	if err != nil {
		return nil, fmt.Errorf("list transactions by chain: %w", err)
	}
	defer rows.Close()

	return scanTransactionRows(rows)
}

// CountByWallet returns the number of transactions referencing a wallet.
func (s *TransactionStore) CountByWallet(ctx context.Context, walletID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM transactions WHERE wallet_id = ?`, walletID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count transactions by wallet: %w", err)
	}
	return count, nil
}

// CountByChain returns the number of transactions referencing a chain.
func (s *TransactionStore) CountByChain(ctx context.Context, chainID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM transactions WHERE chain_id = ?`, chainID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count transactions by chain: %w", err)
	}
	return count, nil
}

// Delete removes a transaction by ID. Returns ErrNotFound if not exists.
func (s *TransactionStore) Delete(ctx context.Context, transactionID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE transaction_id = ?`, transactionID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanTransactionRow(row *sql.Row) (*domain.Transaction, error) {
	var (
		t          domain.Transaction
		zeroVolume int
	)
	err := row.Scan(
		&t.TransactionID, &t.WalletID, &t.ChainID, &t.Timestamp,
		&zeroVolume, &t.Volume, &t.Gas, &t.Comment, &t.Seq, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.ZeroVolume = zeroVolume != 0
	return &t, nil
}

func scanTransactionRows(rows *sql.Rows) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction

	for rows.Next() {
		var (
			t          domain.Transaction
			zeroVolume int
		)
		err := rows.Scan(
			&t.TransactionID, &t.WalletID, &t.ChainID, &t.Timestamp,
			&zeroVolume, &t.Volume, &t.Gas, &t.Comment, &t.Seq, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		t.ZeroVolume = zeroVolume != 0
		txs = append(txs, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}

	return txs, nil
}
