package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/storage"
)

// StatsHistoryStore implements storage.StatsHistoryStore using SQLite.
type StatsHistoryStore struct {
	db *DB
}

// NewStatsHistoryStore creates a new StatsHistoryStore.
func NewStatsHistoryStore(db *DB) *StatsHistoryStore {
	return &StatsHistoryStore{db: db}
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
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
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

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stats snapshots: %w", err)
	}
	defer rows.Close()

	return scanSnapshotRows(rows)
}

// GetRange retrieves snapshots taken within [start, end] (inclusive, ms).
func (s *StatsHistoryStore) GetRange(ctx context.Context, start, end int64) ([]*domain.StatsSnapshot, error) {
	query := `
		SELECT
			taken_at, total_volume, total_gas, total_transactions,
			potential_airdrops, unique_active_days
		FROM stats_snapshots
		WHERE taken_at >= ? AND taken_at <= ?
		ORDER BY taken_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get stats snapshots by range: %w", err)
	}
	defer rows.Close()

	return scanSnapshotRows(rows)
}

// Latest retrieves the most recent snapshot with TakenAt <= upTo (ms).
// Returns ErrNotFound when no snapshot is that old.
func (s *StatsHistoryStore) Latest(ctx context.Context, upTo int64) (*domain.StatsSnapshot, error) {
	query := `
		SELECT
			taken_at, total_volume, total_gas, total_transactions,
			potential_airdrops, unique_active_days
		FROM stats_snapshots
		WHERE taken_at <= ?
		ORDER BY taken_at DESC
		LIMIT 1
	`

	var snap domain.StatsSnapshot
	err := s.db.QueryRowContext(ctx, query, upTo).Scan(
		&snap.TakenAt, &snap.Stats.TotalVolume, &snap.Stats.TotalGas, &snap.Stats.TotalTransactions,
		&snap.Stats.PotentialAirdrops, &snap.Stats.UniqueActiveDays,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest stats snapshot: %w", err)
	}
	return &snap, nil
}

func scanSnapshotRows(rows *sql.Rows) ([]*domain.StatsSnapshot, error) {
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
