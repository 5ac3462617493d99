package domain

// Transaction represents one recorded interaction of a wallet with a chain.
// Corresponds to transactions table in PostgreSQL. Append-only: records are
// never mutated in place, only inserted and deleted by ID.
type Transaction struct {
	TransactionID string // PRIMARY KEY, deterministic hash
	WalletID      string // owning wallet
	ChainID       string // chain the interaction happened on
	Timestamp     int64  // transaction date-time (ms), required

	ZeroVolume bool    // approval / free mint, moves no meaningful value
	Volume     float64 // transferred value; 0 when ZeroVolume
	Gas        float64 // gas cost, 0 when unknown
	Comment    string  // optional free text

	Seq       int64 // store-assigned insertion sequence, pagination tie-break
	CreatedAt int64 // record creation timestamp (ms)
}

// EffectiveVolume returns the volume the aggregation layer counts:
// zero-volume transactions contribute 0 regardless of the Volume field.
func (t *Transaction) EffectiveVolume() float64 {
	if t.ZeroVolume {
		return 0
	}
	return t.Volume
}
