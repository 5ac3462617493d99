package domain

// GlobalStats holds process-wide totals over the full transaction log.
type GlobalStats struct {
	TotalVolume       float64 // sum of effective volumes across all transactions
	TotalGas          float64 // sum of gas costs
	TotalTransactions int     // total transaction count
	PotentialAirdrops int     // transactions matching the pinned airdrop rule
	UniqueActiveDays  int     // distinct UTC calendar dates with >=1 transaction
}

// StatsSnapshot is one point of the global-stats history.
// Corresponds to stats_snapshots table in ClickHouse.
type StatsSnapshot struct {
	TakenAt int64 // snapshot timestamp (ms)
	Stats   GlobalStats
}
