package domain

// WalletChainSummary holds the derived activity metrics for one
// (wallet, chain) pair. Never persisted: recomputed from the transaction
// log on every query.
type WalletChainSummary struct {
	WalletID string
	ChainID  string

	TotalVolume   float64 // sum of effective volumes
	TotalGas      float64 // sum of gas costs
	Count         int     // number of transactions
	LastTimestamp int64   // most recent transaction timestamp (ms)

	// Recency flags computed against an injected "now" with fixed-width
	// windows (24h / 7*24h / 30*24h). Multiple flags may be true at once.
	LastDay   bool
	LastWeek  bool
	LastMonth bool

	ActiveMonths int // distinct UTC (year, month) pairs with >=1 transaction
}
