package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"airdrop-tracker/internal/events"
	"airdrop-tracker/internal/heuristic"
	"airdrop-tracker/internal/storage"
	"airdrop-tracker/internal/storage/memory"
)

func TestDashboard(t *testing.T) {
	trk, _, clock := newTestTracker(t)
	ctx := context.Background()

	walletID, ethID := seedPair(t, trk)
	sol, err := trk.AddChain(ctx, "Solana", false)
	if err != nil {
		t.Fatalf("AddChain failed: %v", err)
	}

	logTx(t, trk, TransactionInput{
		WalletID:  walletID,
		ChainID:   ethID,
		Timestamp: clock.Now().Add(-2 * time.Hour).UnixMilli(),
		Volume:    100,
		Gas:       0.01,
	})
	logTx(t, trk, TransactionInput{
		WalletID:   walletID,
		ChainID:    sol.ChainID,
		Timestamp:  clock.Now().Add(-time.Hour).UnixMilli(),
		ZeroVolume: true,
	})

	dash, err := trk.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}

	if dash.Result.Stats.TotalVolume != 100 || dash.Result.Stats.TotalTransactions != 2 {
		t.Errorf("Stats = %+v", dash.Result.Stats)
	}
	if dash.Result.Stats.PotentialAirdrops != 1 {
		t.Errorf("PotentialAirdrops = %d, want 1", dash.Result.Stats.PotentialAirdrops)
	}
	if len(dash.Result.EVM.Chains) != 1 || len(dash.Result.NonEVM) != 1 {
		t.Errorf("Matrices: %d EVM columns, %d non-EVM", len(dash.Result.EVM.Chains), len(dash.Result.NonEVM))
	}
	if len(dash.Verdicts) != 1 {
		t.Fatalf("Got %d verdicts, want one per wallet", len(dash.Verdicts))
	}
	// One wallet active on two chains within the last month, but with only
	// one active month and two transactions.
	if dash.Verdicts[0].Verdict != heuristic.VerdictCasual {
		t.Errorf("Verdict = %s, want CASUAL", dash.Verdicts[0].Verdict)
	}
	if dash.Growth == nil {
		t.Fatal("Growth missing")
	}
	if dash.Growth.From != nil {
		t.Error("No snapshot recorded yet: Growth.From should be nil")
	}
}

func TestDashboard_GrowthAgainstYesterday(t *testing.T) {
	trk, _, clock := newTestTracker(t)
	ctx := context.Background()

	walletID, chainID := seedPair(t, trk)
	logTx(t, trk, TransactionInput{
		WalletID:  walletID,
		ChainID:   chainID,
		Timestamp: clock.Now().UnixMilli(),
		Volume:    100,
	})

	if _, err := trk.RecordSnapshot(ctx); err != nil {
		t.Fatalf("RecordSnapshot failed: %v", err)
	}

	// A day later another 50 of volume arrives.
	clock.Advance(25 * time.Hour)
	logTx(t, trk, TransactionInput{
		WalletID:  walletID,
		ChainID:   chainID,
		Timestamp: clock.Now().UnixMilli(),
		Volume:    50,
	})

	dash, err := trk.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}

	if dash.Growth.From == nil {
		t.Fatal("Growth baseline missing")
	}
	if dash.Growth.VolumeChange != 50 {
		t.Errorf("VolumeChange = %v, want 50", dash.Growth.VolumeChange)
	}
	if dash.Growth.VolumeChangePct != 50 {
		t.Errorf("VolumeChangePct = %v, want 50", dash.Growth.VolumeChangePct)
	}
	if dash.Growth.TransactionsChange != 1 {
		t.Errorf("TransactionsChange = %d, want 1", dash.Growth.TransactionsChange)
	}
}

func TestWalletDetail(t *testing.T) {
	trk, _, clock := newTestTracker(t)
	ctx := context.Background()

	walletID, ethID := seedPair(t, trk)
	arb, err := trk.AddChain(ctx, "Arbitrum", true)
	if err != nil {
		t.Fatalf("AddChain failed: %v", err)
	}

	// Activity on Arbitrum first, then Ethereum; detail order still
	// follows chain insertion order (Ethereum before Arbitrum).
	logTx(t, trk, TransactionInput{
		WalletID:  walletID,
		ChainID:   arb.ChainID,
		Timestamp: clock.Now().Add(-2 * time.Hour).UnixMilli(),
		Volume:    5,
	})
	logTx(t, trk, TransactionInput{
		WalletID:  walletID,
		ChainID:   ethID,
		Timestamp: clock.Now().Add(-time.Hour).UnixMilli(),
		Volume:    10,
	})

	detail, err := trk.WalletDetail(ctx, walletID)
	if err != nil {
		t.Fatalf("WalletDetail failed: %v", err)
	}

	if detail.Wallet.WalletID != walletID {
		t.Errorf("Wallet = %+v", detail.Wallet)
	}
	if len(detail.Summaries) != 2 {
		t.Fatalf("Got %d summaries, want 2", len(detail.Summaries))
	}
	if detail.Summaries[0].ChainID != ethID || detail.Summaries[1].ChainID != arb.ChainID {
		t.Error("Summaries must follow chain insertion order")
	}
	if detail.Verdict == nil || detail.Verdict.WalletID != walletID {
		t.Errorf("Verdict = %+v", detail.Verdict)
	}
}

func TestWalletDetail_NotFound(t *testing.T) {
	trk, _, _ := newTestTracker(t)

	if _, err := trk.WalletDetail(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Got %v, want ErrNotFound", err)
	}
}

func TestPageTransactions(t *testing.T) {
	trk, _, clock := newTestTracker(t)

	walletID, chainID := seedPair(t, trk)
	for i := 0; i < 5; i++ {
		logTx(t, trk, TransactionInput{
			WalletID:  walletID,
			ChainID:   chainID,
			Timestamp: clock.Now().Add(-time.Duration(i) * time.Hour).UnixMilli(),
			Volume:    float64(i + 1),
		})
	}

	page, err := trk.PageTransactions(context.Background(), walletID, 1, 2)
	if err != nil {
		t.Fatalf("PageTransactions failed: %v", err)
	}

	if page.TotalCount != 5 || page.TotalPages != 3 || len(page.Items) != 2 {
		t.Errorf("Page = count %d pages %d items %d", page.TotalCount, page.TotalPages, len(page.Items))
	}
	// Newest first: page 1 holds the 3rd and 4th newest.
	if page.Items[0].Volume != 3 || page.Items[1].Volume != 4 {
		t.Errorf("Items = %v, %v, want volumes 3, 4", page.Items[0].Volume, page.Items[1].Volume)
	}
}

func TestRecordSnapshot(t *testing.T) {
	trk, recorder, clock := newTestTracker(t)
	ctx := context.Background()

	walletID, chainID := seedPair(t, trk)
	logTx(t, trk, TransactionInput{
		WalletID:  walletID,
		ChainID:   chainID,
		Timestamp: clock.Now().UnixMilli(),
		Volume:    42,
	})

	snap, err := trk.RecordSnapshot(ctx)
	if err != nil {
		t.Fatalf("RecordSnapshot failed: %v", err)
	}
	if snap.TakenAt != clock.Now().UnixMilli() || snap.Stats.TotalVolume != 42 {
		t.Errorf("Snapshot = %+v", snap)
	}

	evts := recorder.Events()
	last := evts[len(evts)-1]
	if last.Type != events.TypeSnapshotRecorded {
		t.Errorf("Expected SNAPSHOT_RECORDED, got %s", last.Type)
	}

	hist, err := trk.History(ctx, clock.Now().Add(-time.Minute), clock.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(hist) != 1 {
		t.Errorf("History holds %d snapshots, want 1", len(hist))
	}
}

func TestStats_UsesConfiguredRule(t *testing.T) {
	recorder := events.NewRecorder()
	trk := New(Options{
		WalletStore:       memory.NewWalletStore(),
		ChainStore:        memory.NewChainStore(),
		TransactionStore:  memory.NewTransactionStore(),
		StatsHistoryStore: memory.NewStatsHistoryStore(),
		Rule:              heuristic.RuleZeroVolumeWithGas,
		Emitter:           recorder,
	})
	clock := &testClock{now: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)}
	trk.WithClock(clock.Now)

	walletID, chainID := seedPair(t, trk)
	logTx(t, trk, TransactionInput{
		WalletID:   walletID,
		ChainID:    chainID,
		Timestamp:  clock.Now().UnixMilli(),
		ZeroVolume: true,
		// no gas: the stricter rule does not count it
	})

	stats, err := trk.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.PotentialAirdrops != 0 {
		t.Errorf("PotentialAirdrops = %d, want 0 under the gas rule", stats.PotentialAirdrops)
	}
}
