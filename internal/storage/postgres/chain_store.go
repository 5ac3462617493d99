package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/storage"
)

// ChainStore implements storage.ChainStore using PostgreSQL.
type ChainStore struct {
	pool *Pool
}

// NewChainStore creates a new ChainStore.
func NewChainStore(pool *Pool) *ChainStore {
	return &ChainStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ChainStore = (*ChainStore)(nil)

// Insert adds a new chain and assigns its insertion sequence.
// Returns ErrDuplicateKey if chain_id or name exists.
func (s *ChainStore) Insert(ctx context.Context, c *domain.Chain) error {
	if c == nil || c.ChainID == "" || c.Name == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO chains (chain_id, name, is_evm, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING seq
	`

	err := s.pool.QueryRow(ctx, query, c.ChainID, c.Name, c.IsEVM, c.CreatedAt).Scan(&c.Seq)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert chain: %w", err)
	}
	return nil
}

// GetByID retrieves a chain by its ID. Returns ErrNotFound if not exists.
func (s *ChainStore) GetByID(ctx context.Context, chainID string) (*domain.Chain, error) {
	query := `
		SELECT chain_id, name, is_evm, seq, created_at
		FROM chains
		WHERE chain_id = $1
	`

	row := s.pool.QueryRow(ctx, query, chainID)
	c, err := scanChain(row)
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
		WHERE name = $1
	`

	row := s.pool.QueryRow(ctx, query, name)
	c, err := scanChain(row)
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

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list chains: %w", err)
	}
	defer rows.Close()

	return scanChains(rows)
}

// Delete removes a chain by ID. Returns ErrNotFound if not exists,
// ErrReferenced while transactions still reference the chain.
func (s *ChainStore) Delete(ctx context.Context, chainID string) error {
	query := `DELETE FROM chains WHERE chain_id = $1`

	tag, err := s.pool.Exec(ctx, query, chainID)
	if err != nil {
		if isForeignKeyError(err) {
			return storage.ErrReferenced
		}
		return fmt.Errorf("delete chain: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanChain scans a single row into a Chain.
func scanChain(row pgx.Row) (*domain.Chain, error) {
	var c domain.Chain

	err := row.Scan(&c.ChainID, &c.Name, &c.IsEVM, &c.Seq, &c.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// scanChains scans multiple rows into a slice of Chain.
func scanChains(rows pgx.Rows) ([]*domain.Chain, error) {
	var chains []*domain.Chain

	for rows.Next() {
		var c domain.Chain

		if err := rows.Scan(&c.ChainID, &c.Name, &c.IsEVM, &c.Seq, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chain row: %w", err)
		}

		chains = append(chains, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chain rows: %w", err)
	}

	return chains, nil
}
