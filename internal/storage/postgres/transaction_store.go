package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/storage"
)

// TransactionStore implements storage.TransactionStore using PostgreSQL.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

// Insert adds a new transaction and assigns its insertion sequence.
// Returns ErrDuplicateKey if transaction_id exists.
func (s *TransactionStore) Insert(ctx context.Context, t *domain.Transaction) error {
	if t == nil || t.TransactionID == "" || t.WalletID == "" || t.ChainID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO transactions (
			transaction_id, wallet_id, chain_id, timestamp_ms,
			zero_volume, volume, gas, comment, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING seq
	`

	err := s.pool.QueryRow(ctx, query,
		t.TransactionID, t.WalletID, t.ChainID, t.Timestamp,
		t.ZeroVolume, t.Volume, t.Gas, t.Comment, t.CreatedAt,
	).Scan(&t.Seq)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert transaction: %w", err)
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
		WHERE transaction_id = $1
	`

	row := s.pool.QueryRow(ctx, query, transactionID)
	t, err := scanTransaction(row)
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

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ListByWallet retrieves one wallet's transactions in insertion order.
func (s *TransactionStore) ListByWallet(ctx context.Context, walletID string) ([]*domain.Transaction, error) {
	query := `
		SELECT
			transaction_id, wallet_id, chain_id, timestamp_ms,
			zero_volume, volume, gas, comment, seq, created_at
		FROM transactions
		WHERE wallet_id = $1
		ORDER BY seq ASC
	`

	rows, err := s.pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("list transactions by wallet: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ListByChain retrieves one chain's transactions in insertion order.
func (s *TransactionStore) ListByChain(ctx context.Context, chainID string) ([]*domain.Transaction, error) {
	query := `
		SELECT
			transaction_id, wallet_id, chain_id, timestamp_ms,
			zero_volume, volume, gas, comment, seq, created_at
		FROM transactions
		WHERE chain_id = $1
		ORDER BY seq ASC
	`

	rows, err := s.pool.Query(ctx, query, chainID)
	if err != nil {
		return nil, fmt.Errorf("list transactions by chain: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// CountByWallet returns the number of transactions referencing a wallet.
func (s *TransactionStore) CountByWallet(ctx context.Context, walletID string) (int, error) {
	query := `SELECT count(*) FROM transactions WHERE wallet_id = $1`

	var count int
	if err := s.pool.QueryRow(ctx, query, walletID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count transactions by wallet: %w", err)
	}
	return count, nil
}

// CountByChain returns the number of transactions referencing a chain.
func (s *TransactionStore) CountByChain(ctx context.Context, chainID string) (int, error) {
	query := `SELECT count(*) FROM transactions WHERE chain_id = $1`

	var count int
	if err := s.pool.QueryRow(ctx, query, chainID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count transactions by chain: %w", err)
	}
	return count, nil
}

// Delete removes a transaction by ID. Returns ErrNotFound if not exists.
func (s *TransactionStore) Delete(ctx context.Context, transactionID string) error {
	query := `DELETE FROM transactions WHERE transaction_id = $1`

	tag, err := s.pool.Exec(ctx, query, transactionID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanTransaction scans a single row into a Transaction.
func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction

	err := row.Scan(
		&t.TransactionID, &t.WalletID, &t.ChainID, &t.Timestamp,
		&t.ZeroVolume, &t.Volume, &t.Gas, &t.Comment, &t.Seq, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// scanTransactions scans multiple rows into a slice of Transaction.
func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction

	for rows.Next() {
		var t domain.Transaction

		err := rows.Scan(
			&t.TransactionID, &t.WalletID, &t.ChainID, &t.Timestamp,
			&t.ZeroVolume, &t.Volume, &t.Gas, &t.Comment, &t.Seq, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}

		txs = append(txs, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}

	return txs, nil
}
