package domain

// Wallet represents a tracked wallet.
// Corresponds to wallets table in PostgreSQL.
type Wallet struct {
	WalletID  string // PRIMARY KEY, deterministic hash of the name
	Name      string // user-chosen label, unique
	Address   string // optional on-chain address, empty when not supplied
	Seq       int64  // store-assigned insertion sequence, defines row order
	CreatedAt int64  // record creation timestamp (ms)
}
