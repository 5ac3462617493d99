package aggregate

import (
	"airdrop-tracker/internal/domain"
)

// Classifier decides whether a transaction counts as a potential airdrop.
// The rule is pinned configuration supplied by the caller (see the
// heuristic package); it is never hardcoded into the calculation.
type Classifier func(*domain.Transaction) bool

// ComputeStats produces process-wide totals in a single pass over the
// transaction log. A nil classifier falls back to counting transactions
// with the ZeroVolume flag set.
//
// Dangling wallet/chain references are Summarize's concern; ComputeStats
// takes no entity lists and validates only the intrinsic field invariants.
func ComputeStats(txs []*domain.Transaction, classify Classifier) (*domain.GlobalStats, error) {
	if classify == nil {
		classify = func(t *domain.Transaction) bool { return t.ZeroVolume }
	}

	stats := &domain.GlobalStats{}
	days := make(map[string]struct{})

	for _, t := range txs {
		if err := validateTransaction(t); err != nil {
			return nil, err
		}

		stats.TotalVolume += t.EffectiveVolume()
		stats.TotalGas += t.Gas
		stats.TotalTransactions++
		if classify(t) {
			stats.PotentialAirdrops++
		}
		days[dayKey(t.Timestamp)] = struct{}{}
	}

	stats.UniqueActiveDays = len(days)
	return stats, nil
}
