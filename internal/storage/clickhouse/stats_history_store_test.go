package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/storage"
)

func snapshotAt(takenAt int64, volume float64, txs int) *domain.StatsSnapshot {
	return &domain.StatsSnapshot{
		TakenAt: takenAt,
		Stats: domain.GlobalStats{
			TotalVolume:       volume,
			TotalGas:          volume / 100,
			TotalTransactions: txs,
			PotentialAirdrops: txs / 2,
			UniqueActiveDays:  txs,
		},
	}
}

func TestStatsHistoryStore_InsertAndList(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStatsHistoryStore(conn)
	ctx := context.Background()

	// Insert out of order; List must come back sorted by taken_at.
	require.NoError(t, store.Insert(ctx, snapshotAt(3000, 300, 6)))
	require.NoError(t, store.Insert(ctx, snapshotAt(1000, 100, 2)))
	require.NoError(t, store.Insert(ctx, snapshotAt(2000, 200, 4)))

	snaps, err := store.List(ctx)
	require.NoError(t, err)

	require.Len(t, snaps, 3)
	assert.Equal(t, int64(1000), snaps[0].TakenAt)
	assert.Equal(t, int64(2000), snaps[1].TakenAt)
	assert.Equal(t, int64(3000), snaps[2].TakenAt)

	assert.Equal(t, 100.0, snaps[0].Stats.TotalVolume)
	assert.Equal(t, 1.0, snaps[0].Stats.TotalGas)
	assert.Equal(t, 2, snaps[0].Stats.TotalTransactions)
	assert.Equal(t, 1, snaps[0].Stats.PotentialAirdrops)
	assert.Equal(t, 2, snaps[0].Stats.UniqueActiveDays)
}

func TestStatsHistoryStore_GetRange(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStatsHistoryStore(conn)
	ctx := context.Background()

	for _, takenAt := range []int64{1000, 2000, 3000, 4000} {
		require.NoError(t, store.Insert(ctx, snapshotAt(takenAt, float64(takenAt), 1)))
	}

	// Bounds are inclusive on both ends.
	snaps, err := store.GetRange(ctx, 2000, 3000)
	require.NoError(t, err)

	require.Len(t, snaps, 2)
	assert.Equal(t, int64(2000), snaps[0].TakenAt)
	assert.Equal(t, int64(3000), snaps[1].TakenAt)
}

func TestStatsHistoryStore_Latest(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewStatsHistoryStore(conn)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, snapshotAt(1000, 100, 2)))
	require.NoError(t, store.Insert(ctx, snapshotAt(2000, 200, 4)))

	// Floor lookup: 2500 resolves to the 2000 snapshot.
	snap, err := store.Latest(ctx, 2500)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), snap.TakenAt)
	assert.Equal(t, 200.0, snap.Stats.TotalVolume)

	// Exact match counts.
	snap, err = store.Latest(ctx, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), snap.TakenAt)

	// Nothing at or before 999.
	_, err = store.Latest(ctx, 999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
