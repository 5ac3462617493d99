// Package audit runs cross-store invariant checks against live data.
// It re-derives what the aggregation layer derives and flags any record
// or total the two computations disagree on.
package audit

import (
	"context"
	"fmt"
	"math"
	"time"

	"airdrop-tracker/internal/aggregate"
	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/storage"
)

// FloatTolerance bounds the drift allowed between independently computed
// volume totals.
const FloatTolerance = 1e-9

// maxViolations caps how many violation lines one check keeps. The
// violation count stays exact; only the listing is truncated.
const maxViolations = 20

// auditPageSize is the window used by the pagination walk.
const auditPageSize = 7

// CheckResult is one pass/fail row of the audit table.
type CheckResult struct {
	Name       string
	Pass       bool
	Checked    int      // records inspected
	Violations []string // descriptive, listing capped at maxViolations
}

// Report contains the results of one audit run.
type Report struct {
	RanAt        time.Time
	Results      []CheckResult
	FailedChecks int
	AllPassed    bool
}

// Checker runs the invariant checks against the record stores.
type Checker struct {
	walletStore      storage.WalletStore
	chainStore       storage.ChainStore
	transactionStore storage.TransactionStore
	now              func() time.Time
}

// NewChecker creates a checker over the given stores with the wall clock.
func NewChecker(
	walletStore storage.WalletStore,
	chainStore storage.ChainStore,
	transactionStore storage.TransactionStore,
) *Checker {
	return &Checker{
		walletStore:      walletStore,
		chainStore:       chainStore,
		transactionStore: transactionStore,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (c *Checker) WithClock(now func() time.Time) *Checker {
	c.now = now
	return c
}

// Run loads one snapshot of the stores and executes every check against
// it. A failed check never aborts the run; it becomes a FAIL row.
func (c *Checker) Run(ctx context.Context) (*Report, error) {
	wallets, err := c.walletStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	chains, err := c.chainStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list chains: %w", err)
	}
	txs, err := c.transactionStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	now := c.now()
	report := &Report{
		RanAt: now,
		Results: []CheckResult{
			checkReferences(wallets, chains, txs),
			checkFieldBounds(txs),
			checkZeroVolume(txs),
			checkVolumeSum(wallets, chains, txs, now),
			checkRecency(wallets, chains, txs, now),
			checkPagination(wallets, txs),
		},
	}

	for _, r := range report.Results {
		if !r.Pass {
			report.FailedChecks++
		}
	}
	report.AllPassed = report.FailedChecks == 0

	return report, nil
}

// fail marks the result failed and records one violation line.
func fail(r *CheckResult, format string, args ...interface{}) {
	r.Pass = false
	if len(r.Violations) < maxViolations {
		r.Violations = append(r.Violations, fmt.Sprintf(format, args...))
	}
}

// checkReferences verifies every transaction points at a known wallet and
// a known chain.
func checkReferences(wallets []*domain.Wallet, chains []*domain.Chain, txs []*domain.Transaction) CheckResult {
	r := CheckResult{Name: "referential integrity", Pass: true, Checked: len(txs)}

	walletIDs := make(map[string]struct{}, len(wallets))
	for _, w := range wallets {
		walletIDs[w.WalletID] = struct{}{}
	}
	chainIDs := make(map[string]struct{}, len(chains))
	for _, c := range chains {
		chainIDs[c.ChainID] = struct{}{}
	}

	for _, t := range txs {
		if _, ok := walletIDs[t.WalletID]; !ok {
			fail(&r, "transaction %s references unknown wallet %s", t.TransactionID, t.WalletID)
		}
		if _, ok := chainIDs[t.ChainID]; !ok {
			fail(&r, "transaction %s references unknown chain %s", t.TransactionID, t.ChainID)
		}
	}
	return r
}

// checkFieldBounds verifies amounts are non-negative and timestamps
// positive.
func checkFieldBounds(txs []*domain.Transaction) CheckResult {
	r := CheckResult{Name: "field bounds", Pass: true, Checked: len(txs)}

	for _, t := range txs {
		if t.Volume < 0 {
			fail(&r, "transaction %s has negative volume %v", t.TransactionID, t.Volume)
		}
		if t.Gas < 0 {
			fail(&r, "transaction %s has negative gas %v", t.TransactionID, t.Gas)
		}
		if t.Timestamp <= 0 {
			fail(&r, "transaction %s has non-positive timestamp %d", t.TransactionID, t.Timestamp)
		}
	}
	return r
}

// checkZeroVolume verifies the insert-time normalization held: a
// zero-volume transaction stores volume 0.
func checkZeroVolume(txs []*domain.Transaction) CheckResult {
	r := CheckResult{Name: "zero-volume normalization", Pass: true, Checked: len(txs)}

	for _, t := range txs {
		if t.ZeroVolume && t.Volume != 0 {
			fail(&r, "zero-volume transaction %s stores volume %v", t.TransactionID, t.Volume)
		}
	}
	return r
}

// checkVolumeSum verifies the per-pair summaries and the global stats
// agree on total volume.
func checkVolumeSum(wallets []*domain.Wallet, chains []*domain.Chain, txs []*domain.Transaction, now time.Time) CheckResult {
	r := CheckResult{Name: "volume sum consistency", Pass: true, Checked: len(txs)}

	summaries, err := aggregate.Summarize(txs, wallets, chains, now)
	if err != nil {
		fail(&r, "summarize failed: %v", err)
		return r
	}
	stats, err := aggregate.ComputeStats(txs, nil)
	if err != nil {
		fail(&r, "compute stats failed: %v", err)
		return r
	}

	var pairTotal float64
	for _, s := range summaries {
		pairTotal += s.TotalVolume
	}
	if math.Abs(pairTotal-stats.TotalVolume) > FloatTolerance {
		fail(&r, "pair volumes sum to %v but global stats report %v", pairTotal, stats.TotalVolume)
	}
	return r
}

// checkRecency verifies the recency flags widen monotonically: activity
// in the last day implies the last week, which implies the last month.
func checkRecency(wallets []*domain.Wallet, chains []*domain.Chain, txs []*domain.Transaction, now time.Time) CheckResult {
	r := CheckResult{Name: "recency monotonicity", Pass: true}

	summaries, err := aggregate.Summarize(txs, wallets, chains, now)
	if err != nil {
		fail(&r, "summarize failed: %v", err)
		return r
	}
	r.Checked = len(summaries)

	for key, s := range summaries {
		if s.LastDay && !s.LastWeek {
			fail(&r, "pair (%s, %s) is flagged last-day but not last-week", key.WalletID, key.ChainID)
		}
		if s.LastWeek && !s.LastMonth {
			fail(&r, "pair (%s, %s) is flagged last-week but not last-month", key.WalletID, key.ChainID)
		}
	}
	return r
}

// checkPagination walks every wallet's pages and verifies they
// concatenate to exactly the wallet's transaction set, no record dropped
// or repeated.
func checkPagination(wallets []*domain.Wallet, txs []*domain.Transaction) CheckResult {
	r := CheckResult{Name: "pagination completeness", Pass: true, Checked: len(wallets)}

	perWallet := make(map[string]map[string]struct{}, len(wallets))
	for _, t := range txs {
		if perWallet[t.WalletID] == nil {
			perWallet[t.WalletID] = make(map[string]struct{})
		}
		perWallet[t.WalletID][t.TransactionID] = struct{}{}
	}

	for _, w := range wallets {
		want := perWallet[w.WalletID]

		first, err := aggregate.Page(txs, w.WalletID, 0, auditPageSize)
		if err != nil {
			fail(&r, "wallet %s: page 0 failed: %v", w.WalletID, err)
			continue
		}
		if first.TotalCount != len(want) {
			fail(&r, "wallet %s: paginator reports %d transactions, log holds %d", w.WalletID, first.TotalCount, len(want))
		}

		seen := make(map[string]struct{}, len(want))
		for i := 0; i < first.TotalPages; i++ {
			page, err := aggregate.Page(txs, w.WalletID, i, auditPageSize)
			if err != nil {
				fail(&r, "wallet %s: page %d failed: %v", w.WalletID, i, err)
				break
			}
			for _, item := range page.Items {
				if _, dup := seen[item.TransactionID]; dup {
					fail(&r, "wallet %s: transaction %s appears on more than one page", w.WalletID, item.TransactionID)
				}
				seen[item.TransactionID] = struct{}{}
				if _, ok := want[item.TransactionID]; !ok {
					fail(&r, "wallet %s: page %d lists foreign transaction %s", w.WalletID, i, item.TransactionID)
				}
			}
		}
		for id := range want {
			if _, ok := seen[id]; !ok {
				fail(&r, "wallet %s: transaction %s missing from every page", w.WalletID, id)
			}
		}
	}
	return r
}
