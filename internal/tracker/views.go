package tracker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"airdrop-tracker/internal/aggregate"
	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/events"
	"airdrop-tracker/internal/heuristic"
	"airdrop-tracker/internal/history"
	"airdrop-tracker/internal/observability"
)

// Dashboard growth is measured against the snapshot in effect this long ago.
const growthWindow = 24 * time.Hour

// Dashboard is the full tracker view: matrices, stats, wallet verdicts
// and growth since yesterday's snapshot.
type Dashboard struct {
	Result   *aggregate.Result
	Verdicts []*heuristic.WalletVerdict
	Growth   *history.Delta
}

// WalletDetail is one wallet's view: its per-chain summaries in chain
// insertion order and its farming verdict.
type WalletDetail struct {
	Wallet    *domain.Wallet
	Summaries []*domain.WalletChainSummary
	Verdict   *heuristic.WalletVerdict
}

// Dashboard computes the dashboard from the current log.
func (t *Tracker) Dashboard(ctx context.Context) (*Dashboard, error) {
	start := time.Now()
	result, err := t.agg.Compute(ctx)
	if err != nil {
		return nil, fmt.Errorf("compute dashboard: %w", err)
	}
	observability.RecordAggregation("dashboard", time.Since(start).Seconds())
	observability.UpdateTrackedRecords(
		len(result.Snapshot.Wallets), len(result.Snapshot.Chains), len(result.Snapshot.Transactions))

	verdicts := t.eval.EvaluateAll(result.Snapshot.Wallets, flattenSummaries(result))

	growth, err := t.history.DeltaSince(ctx, *result.Stats, t.now().Add(-growthWindow))
	if err != nil {
		return nil, fmt.Errorf("compute growth: %w", err)
	}

	return &Dashboard{
		Result:   result,
		Verdicts: verdicts,
		Growth:   growth,
	}, nil
}

// WalletDetail computes one wallet's summaries and verdict.
func (t *Tracker) WalletDetail(ctx context.Context, walletID string) (*WalletDetail, error) {
	w, err := t.wallets.GetByID(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("wallet %s: %w", walletID, err)
	}

	start := time.Now()
	result, err := t.agg.Compute(ctx)
	if err != nil {
		return nil, fmt.Errorf("compute wallet detail: %w", err)
	}
	observability.RecordAggregation("wallet_detail", time.Since(start).Seconds())

	var summaries []*domain.WalletChainSummary
	for _, c := range result.Snapshot.Chains {
		if s, ok := result.Summaries[aggregate.PairKey{WalletID: walletID, ChainID: c.ChainID}]; ok {
			summaries = append(summaries, s)
		}
	}

	return &WalletDetail{
		Wallet:    w,
		Summaries: summaries,
		Verdict:   t.eval.Evaluate(heuristic.BuildInput(w, summaries)),
	}, nil
}

// PageTransactions returns one page of the reverse-chronological log.
// An empty walletID pages the whole log.
func (t *Tracker) PageTransactions(ctx context.Context, walletID string, pageIndex, pageSize int) (*aggregate.TransactionPage, error) {
	txs, err := t.txs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	page, err := aggregate.Page(txs, walletID, pageIndex, pageSize)
	if err != nil {
		return nil, err
	}
	observability.RecordPageServed()
	return page, nil
}

// Stats computes the current global stats.
func (t *Tracker) Stats(ctx context.Context) (domain.GlobalStats, error) {
	txs, err := t.txs.List(ctx)
	if err != nil {
		return domain.GlobalStats{}, fmt.Errorf("load transactions: %w", err)
	}
	stats, err := aggregate.ComputeStats(txs, t.rule.Matches)
	if err != nil {
		return domain.GlobalStats{}, fmt.Errorf("compute stats: %w", err)
	}
	return *stats, nil
}

// RecordSnapshot appends the current global stats to the history.
func (t *Tracker) RecordSnapshot(ctx context.Context) (*domain.StatsSnapshot, error) {
	stats, err := t.Stats(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := t.history.Record(ctx, stats)
	if err != nil {
		return nil, err
	}

	t.log.Info().Int64("takenAt", snap.TakenAt).Msg("Stats snapshot recorded")
	observability.RecordSnapshot(float64(snap.TakenAt) / 1000)
	t.emit(events.TypeSnapshotRecorded, strconv.FormatInt(snap.TakenAt, 10), snap)
	return snap, nil
}

// GrowthSince compares current stats against the snapshot in effect at
// the given time.
func (t *Tracker) GrowthSince(ctx context.Context, since time.Time) (*history.Delta, error) {
	stats, err := t.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return t.history.DeltaSince(ctx, stats, since)
}

// History returns the stats snapshots taken within [from, to].
func (t *Tracker) History(ctx context.Context, from, to time.Time) ([]*domain.StatsSnapshot, error) {
	return t.history.Range(ctx, from, to)
}

// Wallets lists wallets in insertion order.
func (t *Tracker) Wallets(ctx context.Context) ([]*domain.Wallet, error) {
	return t.wallets.List(ctx)
}

// Chains lists chains in insertion order.
func (t *Tracker) Chains(ctx context.Context) ([]*domain.Chain, error) {
	return t.chains.List(ctx)
}

// GetWallet retrieves one wallet.
func (t *Tracker) GetWallet(ctx context.Context, walletID string) (*domain.Wallet, error) {
	return t.wallets.GetByID(ctx, walletID)
}

// GetChain retrieves one chain.
func (t *Tracker) GetChain(ctx context.Context, chainID string) (*domain.Chain, error) {
	return t.chains.GetByID(ctx, chainID)
}

// GetTransaction retrieves one transaction.
func (t *Tracker) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return t.txs.GetByID(ctx, transactionID)
}

// flattenSummaries orders the summary map by wallet then chain insertion
// order so downstream consumers see a stable sequence.
func flattenSummaries(result *aggregate.Result) []*domain.WalletChainSummary {
	var out []*domain.WalletChainSummary
	for _, w := range result.Snapshot.Wallets {
		for _, c := range result.Snapshot.Chains {
			if s, ok := result.Summaries[aggregate.PairKey{WalletID: w.WalletID, ChainID: c.ChainID}]; ok {
				out = append(out, s)
			}
		}
	}
	return out
}
