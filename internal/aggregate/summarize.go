// Package aggregate implements the transaction aggregation engine: per
// (wallet, chain) summaries, global statistics, matrix presentation and
// pagination. Every function is a pure, synchronous transformation of the
// snapshot it receives; "now" is always injected, never read from the
// process clock.
package aggregate

import (
	"fmt"
	"time"

	"airdrop-tracker/internal/domain"
)

// PairKey identifies one (wallet, chain) group in a summary map.
type PairKey struct {
	WalletID string
	ChainID  string
}

// Recency windows are fixed-width, not calendar-aware.
const (
	dayWindowMs   = int64(24 * time.Hour / time.Millisecond)
	weekWindowMs  = 7 * dayWindowMs
	monthWindowMs = 30 * dayWindowMs
)

// Summarize walks the transaction log once and produces one summary per
// (wallet, chain) pair that has at least one transaction. Pairs without
// activity are absent from the map; the matrix presenter renders those as
// empty cells, not zero-filled ones.
//
// Input order does not affect the result: all per-group metrics are sums,
// counts, max-timestamp and distinct-month cardinality.
//
// Returns ErrInvalidTransaction (wrapped with context) when a transaction
// references a wallet or chain missing from the supplied lists, carries a
// negative volume or gas, or has a non-positive timestamp. Invalid input
// fails the whole call; nothing is silently dropped.
func Summarize(
	txs []*domain.Transaction,
	wallets []*domain.Wallet,
	chains []*domain.Chain,
	now time.Time,
) (map[PairKey]*domain.WalletChainSummary, error) {
	walletIDs := make(map[string]struct{}, len(wallets))
	for _, w := range wallets {
		walletIDs[w.WalletID] = struct{}{}
	}
	chainIDs := make(map[string]struct{}, len(chains))
	for _, c := range chains {
		chainIDs[c.ChainID] = struct{}{}
	}

	summaries := make(map[PairKey]*domain.WalletChainSummary)
	months := make(map[PairKey]map[string]struct{})

	for _, t := range txs {
		if err := validateTransaction(t); err != nil {
			return nil, err
		}
		if _, ok := walletIDs[t.WalletID]; !ok {
			return nil, fmt.Errorf("transaction %s references unknown wallet %s: %w",
				t.TransactionID, t.WalletID, ErrInvalidTransaction)
		}
		if _, ok := chainIDs[t.ChainID]; !ok {
			return nil, fmt.Errorf("transaction %s references unknown chain %s: %w",
				t.TransactionID, t.ChainID, ErrInvalidTransaction)
		}

		key := PairKey{WalletID: t.WalletID, ChainID: t.ChainID}
		s, ok := summaries[key]
		if !ok {
			s = &domain.WalletChainSummary{
				WalletID: t.WalletID,
				ChainID:  t.ChainID,
			}
			summaries[key] = s
			months[key] = make(map[string]struct{})
		}

		s.TotalVolume += t.EffectiveVolume()
		s.TotalGas += t.Gas
		s.Count++
		if t.Timestamp > s.LastTimestamp {
			s.LastTimestamp = t.Timestamp
		}
		months[key][monthKey(t.Timestamp)] = struct{}{}
	}

	nowMs := now.UnixMilli()
	for key, s := range summaries {
		s.ActiveMonths = len(months[key])

		age := nowMs - s.LastTimestamp
		s.LastDay = age < dayWindowMs
		s.LastWeek = age < weekWindowMs
		s.LastMonth = age < monthWindowMs
	}

	return summaries, nil
}

// validateTransaction checks the intrinsic field invariants shared by
// Summarize and ComputeStats.
func validateTransaction(t *domain.Transaction) error {
	if t == nil {
		return fmt.Errorf("nil transaction: %w", ErrInvalidTransaction)
	}
	if t.Timestamp <= 0 {
		return fmt.Errorf("transaction %s has malformed timestamp %d: %w",
			t.TransactionID, t.Timestamp, ErrInvalidTransaction)
	}
	if t.Volume < 0 {
		return fmt.Errorf("transaction %s has negative volume %v: %w",
			t.TransactionID, t.Volume, ErrInvalidTransaction)
	}
	if t.Gas < 0 {
		return fmt.Errorf("transaction %s has negative gas %v: %w",
			t.TransactionID, t.Gas, ErrInvalidTransaction)
	}
	return nil
}

// monthKey buckets a timestamp into its UTC calendar month.
func monthKey(tsMs int64) string {
	return time.UnixMilli(tsMs).UTC().Format("2006-01")
}

// dayKey buckets a timestamp into its UTC calendar date.
func dayKey(tsMs int64) string {
	return time.UnixMilli(tsMs).UTC().Format("2006-01-02")
}
