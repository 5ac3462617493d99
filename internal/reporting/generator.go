package reporting

import (
	"context"
	"time"

	"airdrop-tracker/internal/aggregate"
	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/heuristic"
	"airdrop-tracker/internal/storage"
)

// Generator produces reports from stored data.
type Generator struct {
	agg  *aggregate.Aggregator
	eval *heuristic.Evaluator
	now  func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator over the record stores.
func NewGenerator(
	walletStore storage.WalletStore,
	chainStore storage.ChainStore,
	transactionStore storage.TransactionStore,
) *Generator {
	return &Generator{
		agg:  aggregate.NewAggregator(walletStore, chainStore, transactionStore),
		eval: heuristic.NewEvaluator(),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output. The same
// clock drives the recency flags inside the aggregation.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	g.agg.WithClock(now)
	return g
}

// Generate produces a complete activity report.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	result, err := g.agg.Compute(ctx)
	if err != nil {
		return nil, err
	}

	verdicts := g.eval.EvaluateAll(result.Snapshot.Wallets, flattenSummaries(result))

	return &Report{
		GeneratedAt: g.now(),
		WalletCount: len(result.Snapshot.Wallets),
		ChainCount:  len(result.Snapshot.Chains),
		Stats:       *result.Stats,
		EVM:         result.EVM,
		NonEVM:      result.NonEVM,
		Verdicts:    verdicts,
		Rows:        buildSummaryRows(result),
	}, nil
}

// buildSummaryRows flattens the per-pair summaries into export rows, wallet
// insertion order outer, chain insertion order inner.
func buildSummaryRows(result *aggregate.Result) []SummaryRow {
	var rows []SummaryRow
	for _, w := range result.Snapshot.Wallets {
		for _, c := range result.Snapshot.Chains {
			s, ok := result.Summaries[aggregate.PairKey{WalletID: w.WalletID, ChainID: c.ChainID}]
			if !ok {
				continue
			}
			rows = append(rows, SummaryRow{
				WalletName:   w.Name,
				Address:      w.Address,
				ChainName:    c.Name,
				GroupID:      aggregate.DefaultGrouping(c),
				TotalVolume:  s.TotalVolume,
				TotalGas:     s.TotalGas,
				Transactions: s.Count,
				ActiveMonths: s.ActiveMonths,
				LastActivity: s.LastTimestamp,
			})
		}
	}
	return rows
}

// flattenSummaries lists the active-pair summaries in wallet-then-chain
// order for verdict evaluation.
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
