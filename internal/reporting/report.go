package reporting

import (
	"time"

	"airdrop-tracker/internal/aggregate"
	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/heuristic"
)

// Report represents the activity report structure.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	WalletCount int
	ChainCount  int

	// Global totals over the full transaction log
	Stats domain.GlobalStats

	// Display matrices: the shared EVM table plus one table per non-EVM chain
	EVM    *aggregate.Matrix
	NonEVM []*aggregate.Matrix

	// Per-wallet FARMING/CASUAL verdicts, wallet insertion order
	Verdicts []*heuristic.WalletVerdict

	// Flat per-pair rows for the CSV export (wallet order outer, chain
	// order inner; absent pairs produce no row)
	Rows []SummaryRow
}

// SummaryRow represents one (wallet, chain) pair in the flat export.
type SummaryRow struct {
	WalletName   string
	Address      string
	ChainName    string
	GroupID      string
	TotalVolume  float64
	TotalGas     float64
	Transactions int
	ActiveMonths int
	LastActivity int64 // Unix ms
}
