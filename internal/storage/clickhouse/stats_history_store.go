package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/storage"
)

// StatsHistoryStore implements storage.StatsHistoryStore using ClickHouse.
// Snapshots are append-only, which fits MergeTree exactly: no updates, no
// deletes, reads ordered by capture time.
type StatsHistoryStore struct {
	conn *Conn
}

// NewStatsHistoryStore creates a new StatsHistoryStore.
func NewStatsHistoryStore(conn *Conn) *StatsHistoryStore {
	return &StatsHistoryStore{conn: conn}
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

	err := s.conn.Exec(ctx, query,
		snap.TakenAt, snap.Stats.TotalVolume, snap.Stats.TotalGas,
		int32(snap.Stats.TotalTransactions), int32(snap.Stats.PotentialAirdrops),
		int32(snap.Stats.UniqueActiveDays),
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

	rows, err := s.conn.Query(ctx, query)
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
		WHERE taken_at >= ? AND taken_at <= ?
		ORDER BY taken_at ASC
	`

	rows, err := s.conn.Query(ctx, query, start, end)
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
		WHERE taken_at <= ?
		ORDER BY taken_at DESC
		LIMIT 1
	`

	row := s.conn.QueryRow(ctx, query, upTo)
	snap, err := scanSnapshotRow(row.Scan)
	if err != nil {
		// The native driver surfaces an empty result as a scan error.
		return nil, storage.ErrNotFound
	}
	return snap, nil
}

// scanSnapshotRow scans one row through the given Scan func, converting the
// Int32 count columns back to the int fields of GlobalStats.
func scanSnapshotRow(scan func(dest ...any) error) (*domain.StatsSnapshot, error) {
	var (
		snap   domain.StatsSnapshot
		txs    int32
		drops  int32
		active int32
	)

	err := scan(
		&snap.TakenAt, &snap.Stats.TotalVolume, &snap.Stats.TotalGas,
		&txs, &drops, &active,
	)
	if err != nil {
		return nil, err
	}

	snap.Stats.TotalTransactions = int(txs)
	snap.Stats.PotentialAirdrops = int(drops)
	snap.Stats.UniqueActiveDays = int(active)
	return &snap, nil
}

// scanStatsSnapshots scans multiple rows into a slice of StatsSnapshot.
func scanStatsSnapshots(rows driver.Rows) ([]*domain.StatsSnapshot, error) {
	var snaps []*domain.StatsSnapshot

	for rows.Next() {
		snap, err := scanSnapshotRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan stats snapshot row: %w", err)
		}
		snaps = append(snaps, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stats snapshot rows: %w", err)
	}

	return snaps, nil
}
