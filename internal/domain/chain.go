package domain

// Chain represents a blockchain or protocol transactions are recorded against.
// Corresponds to chains table in PostgreSQL.
type Chain struct {
	ChainID   string // PRIMARY KEY, deterministic hash of the name
	Name      string // unique chain/protocol name
	IsEVM     bool   // true groups the chain into the shared EVM matrix
	Seq       int64  // store-assigned insertion sequence, defines column order
	CreatedAt int64  // record creation timestamp (ms)
}
