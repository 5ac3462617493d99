package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/storage"
)

// StatsHistoryStore implements storage.StatsHistoryStore using PostgreSQL.
// It is the snapshot history backend when ClickHouse is not configured.
type StatsHistoryStore struct {
	pool *Pool
}

// NewStatsHistoryStore creates a new StatsHistoryStore.
func NewStatsHistoryStore(pool *Pool) *StatsHistoryStore {
	return &StatsHistoryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.StatsHistoryStore = (*StatsHistoryStore)(nil)

// Insert appends a snapshot.
func (s *StatsHistoryStore) Insert(ctx context.Context, snap *domain.StatsSnapshot) error {
	if snap == nil || snap.TakenAt <= 0 {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO stats_snapshots (
			taken_at, total_volume, total_gas, total_transactions,
			potential_airdrops, unique_active_days
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		snap.TakenAt, snap.Stats.TotalVolume, snap.Stats.TotalGas, snap.Stats.TotalTransactions,
		snap.Stats.PotentialAirdrops, snap.Stats.UniqueActiveDays,
	)
	if err != nil {
		return fmt.Errorf("insert stats snapshot: %w", err)
	}
	return nil
}

// List retrieves all snapshots ordered by TakenAt ASC.
func (s *StatsHistoryStore) List(ctx context.Context) ([]*domain.StatsSnapshot, error) {
	query := `
		SELECT
			taken_at, total_volume, total_gas, total_transactions,
			potential_airdrops, unique_active_days
		FROM stats_snapshots
		ORDER BY taken_at ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stats snapshots: %w", err)
	}
	defer rows.Close()

	return scanStatsSnapshots(rows)
}

// GetRange retrieves snapshots taken within [start, end] (inclusive, ms).
func (s *StatsHistoryStore) GetRange(ctx context.Context, start, end int64) ([]*domain.StatsSnapshot, error) {
	query := `
		SELECT
			taken_at, total_volume, total_gas, total_transactions,
			potential_airdrops, unique_active_days
		FROM stats_snapshots
		WHERE taken_at >= $1 AND taken_at <= $2
		ORDER BY taken_at ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get stats snapshots by range: %w", err)
	}
	defer rows.Close()

	return scanStatsSnapshots(rows)
}

// Latest retrieves the most recent snapshot with TakenAt <= upTo (ms).
// Returns ErrNotFound when no snapshot is that old.
func (s *StatsHistoryStore) Latest(ctx context.Context, upTo int64) (*domain.StatsSnapshot, error) {
	query := `
		SELECT
			taken_at, total_volume, total_gas, total_transactions,
			potential_airdrops, unique_active_days
		FROM stats_snapshots
		WHERE taken_at <= $1
		ORDER BY taken_at DESC
		LIMIT 1
	`

	row := s.pool.QueryRow(ctx, query, upTo)
	snap, err := scanStatsSnapshot(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest stats snapshot: %w", err)
	}
	return snap, nil
}

// scanStatsSnapshot scans a single row into a StatsSnapshot.
func scanStatsSnapshot(row pgx.Row) (*domain.StatsSnapshot, error) {
	var snap domain.StatsSnapshot

	err := row.Scan(
		&snap.TakenAt, &snap.Stats.TotalVolume, &snap.Stats.TotalGas, &snap.Stats.TotalTransactions,
		&snap.Stats.PotentialAirdrops, &snap.Stats.UniqueActiveDays,
	)
	if err != nil {
		return nil, err
	}

	return &snap, nil
}

// scanStatsSnapshots scans multiple rows into a slice of StatsSnapshot.
func scanStatsSnapshots(rows pgx.Rows) ([]*domain.StatsSnapshot, error) {
	var snaps []*domain.StatsSnapshot

	for rows.Next() {
		var snap domain.StatsSnapshot

		err := rows.Scan(
			&snap.TakenAt, &snap.Stats.TotalVolume, &snap.Stats.TotalGas, &snap.Stats.TotalTransactions,
			&snap.Stats.PotentialAirdrops, &snap.Stats.UniqueActiveDays,
		)
		if err != nil {
			return nil, fmt.Errorf("scan stats snapshot row: %w", err)
		}

		snaps = append(snaps, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats snapshot rows: %w", err)
	}

	return snaps, nil
}
