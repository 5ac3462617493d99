package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"airdrop-tracker/internal/domain"
)

// setupTestDB opens a throwaway database under t.TempDir. No container
// needed; the file is removed with the test directory.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "tracker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

// seedRefs inserts the wallets and chains the transaction fixtures reference.
func seedRefs(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()

	wallets := NewWalletStore(db)
	chains := NewChainStore(db)

	for _, w := range []*domain.Wallet{
		{WalletID: "wallet-1", Name: "First", CreatedAt: 1700000000000},
		{WalletID: "wallet-2", Name: "Second", CreatedAt: 1700000000000},
	} {
		require.NoError(t, wallets.Insert(ctx, w))
	}
	for _, c := range []*domain.Chain{
		{ChainID: "chain-eth", Name: "ethereum", IsEVM: true, CreatedAt: 1700000000000},
		{ChainID: "chain-sol", Name: "solana", CreatedAt: 1700000000000},
	} {
		require.NoError(t, chains.Insert(ctx, c))
	}
}
