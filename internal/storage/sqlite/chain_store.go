package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/storage"
)

// ChainStore implements storage.ChainStore using SQLite.
type ChainStore struct {
	db *DB
}

// NewChainStore creates a new ChainStore.
func NewChainStore(db *DB) *ChainStore {
	return &ChainStore{db: db}
}

// Compile-time interface check.
var _ storage.ChainStore = (*ChainStore)(nil)

// Insert adds a new chain and assigns its insertion sequence.
// Returns ErrDuplicateKey if chain_id or name exists.
func (s *ChainStore) Insert(ctx context.Context, c *domain.Chain) error {
	if c == nil || c.ChainID == "" || c.Name == "" {
		return storage.ErrInvalidInput
	}

	isEVM := 0
	if c.IsEVM {
		isEVM = 1
	}

	query := `
		INSERT INTO chains (chain_id, name, is_evm, seq, created_at)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM chains), ?)
	`

	_, err := s.db.ExecContext(ctx, query, c.ChainID, c.Name, isEVM, c.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert chain: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `SELECT seq FROM chains WHERE chain_id = ?`, c.ChainID).Scan(&c.Seq)
	if err != nil {
		return fmt.Errorf("read back chain seq: %w", err)
	}
	return nil
}

// GetByID retrieves a chain by its ID. Returns ErrNotFound if not exists.
func (s *ChainStore) GetByID(ctx context.Context, chainID string) (*domain.Chain, error) {
	query := `
		SELECT chain_id, name, is_evm, seq, created_at
		FROM chains
		WHERE chain_id = ?
	`

	c, err := scanChain(s.db.QueryRowContext(ctx, query, chainID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get chain by id: %w", err)
	}
	return c, nil
}

// GetByName retrieves a chain by its unique name. Returns ErrNotFound if not exists.
func (s *ChainStore) GetByName(ctx context.Context, name string) (*domain.Chain, error) {
	query := `
		SELECT chain_id, name, is_evm, seq, created_at
		FROM chains
		WHERE name = ?
	`

	c, err := scanChain(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get chain by name: %w", err)
	}
	return c, nil
}

// List retrieves all chains in insertion order.
func (s *ChainStore) List(ctx context.Context) ([]*domain.Chain, error) {
	query := `
		SELECT chain_id, name, is_evm, seq, created_at
		FROM chains
		ORDER BY seq ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list chains: %w", err)
	}
	defer rows.Close()

	var chains []*domain.Chain
	for rows.Next() {
		var (
			c     domain.Chain
			isEVM int
		)
		if err := rows.Scan(&c.ChainID, &c.Name, &isEVM, &c.Seq, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chain row: %w", err)
		}
		c.IsEVM = isEVM != 0
		chains = append(chains, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chain rows: %w", err)
	}
	return chains, nil
}

// Delete removes a chain by ID. Returns ErrNotFound if not exists,
// ErrReferenced while transactions still reference the chain.
func (s *ChainStore) Delete(ctx context.Context, chainID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM chains WHERE chain_id = ?`, chainID)
	if err != nil {
		if isForeignKeyError(err) {
			return storage.ErrReferenced
		}
		return fmt.Errorf("delete chain: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete chain rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanChain(row *sql.Row) (*domain.Chain, error) {
	var (
		c     domain.Chain
		isEVM int
	)
	if err := row.Scan(&c.ChainID, &c.Name, &isEVM, &c.Seq, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.IsEVM = isEVM != 0
	return &c, nil
}
