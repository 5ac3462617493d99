package aggregate

import (
	"context"
	"fmt"
	"time"

	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/storage"
)

// Snapshot is one consistent view of the record store, loaded once and
// handed to the pure functions. The engine never reads the stores mid
// computation.
type Snapshot struct {
	Wallets      []*domain.Wallet
	Chains       []*domain.Chain
	Transactions []*domain.Transaction
}

// Aggregator loads snapshots from the record store and runs the pure
// aggregation functions over them. The clock is injectable so recency
// flags are deterministic under test.
type Aggregator struct {
	walletStore      storage.WalletStore
	chainStore       storage.ChainStore
	transactionStore storage.TransactionStore

	classify Classifier
	now      func() time.Time
}

// NewAggregator creates an aggregator over the given stores with the
// default zero-volume airdrop classifier and the wall clock.
func NewAggregator(ws storage.WalletStore, cs storage.ChainStore, ts storage.TransactionStore) *Aggregator {
	return &Aggregator{
		walletStore:      ws,
		chainStore:       cs,
		transactionStore: ts,
		now:              time.Now,
	}
}

// WithClock overrides the time source. Returns the aggregator for chaining.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// WithClassifier overrides the potential-airdrop rule. Returns the
// aggregator for chaining.
func (a *Aggregator) WithClassifier(classify Classifier) *Aggregator {
	a.classify = classify
	return a
}

// LoadSnapshot reads all three record lists.
func (a *Aggregator) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	wallets, err := a.walletStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	chains, err := a.chainStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list chains: %w", err)
	}
	txs, err := a.transactionStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return &Snapshot{Wallets: wallets, Chains: chains, Transactions: txs}, nil
}

// Result bundles everything the engine derives from one snapshot.
type Result struct {
	Snapshot  *Snapshot
	Summaries map[PairKey]*domain.WalletChainSummary
	Stats     *domain.GlobalStats
	EVM       *Matrix
	NonEVM    []*Matrix
	Now       time.Time
}

// Compute loads one snapshot and derives summaries, global stats and the
// display matrices from it.
func (a *Aggregator) Compute(ctx context.Context) (*Result, error) {
	snap, err := a.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return a.ComputeFromSnapshot(snap)
}

// ComputeFromSnapshot derives summaries, global stats and matrices from an
// already loaded snapshot.
func (a *Aggregator) ComputeFromSnapshot(snap *Snapshot) (*Result, error) {
	now := a.now()

	summaries, err := Summarize(snap.Transactions, snap.Wallets, snap.Chains, now)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	stats, err := ComputeStats(snap.Transactions, a.classify)
	if err != nil {
		return nil, fmt.Errorf("compute stats: %w", err)
	}

	evm, nonEVM := BuildMatrices(summaries, snap.Wallets, snap.Chains)

	return &Result{
		Snapshot:  snap,
		Summaries: summaries,
		Stats:     stats,
		EVM:       evm,
		NonEVM:    nonEVM,
		Now:       now,
	}, nil
}
