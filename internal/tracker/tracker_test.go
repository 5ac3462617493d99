package tracker

import (
	"context"
	"testing"
	"time"

	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/events"
	"airdrop-tracker/internal/storage/memory"
)

// testClock is a movable time source for deterministic tests.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestTracker(t *testing.T) (*Tracker, *events.Recorder, *testClock) {
	t.Helper()

	recorder := events.NewRecorder()
	trk := New(Options{
		WalletStore:       memory.NewWalletStore(),
		ChainStore:        memory.NewChainStore(),
		TransactionStore:  memory.NewTransactionStore(),
		StatsHistoryStore: memory.NewStatsHistoryStore(),
		Emitter:           recorder,
	})

	clock := &testClock{now: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)}
	trk.WithClock(clock.Now)
	return trk, recorder, clock
}

// seedPair registers one wallet and one chain and returns their IDs.
func seedPair(t *testing.T, trk *Tracker) (string, string) {
	t.Helper()
	ctx := context.Background()

	w, err := trk.AddWallet(ctx, "Main", "")
	if err != nil {
		t.Fatalf("AddWallet failed: %v", err)
	}
	c, err := trk.AddChain(ctx, "Ethereum", true)
	if err != nil {
		t.Fatalf("AddChain failed: %v", err)
	}
	return w.WalletID, c.ChainID
}

func logTx(t *testing.T, trk *Tracker, in TransactionInput) *domain.Transaction {
	t.Helper()
	tx, err := trk.LogTransaction(context.Background(), in)
	if err != nil {
		t.Fatalf("LogTransaction failed: %v", err)
	}
	return tx
}
