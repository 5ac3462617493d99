package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
)

// ComputeWalletID computes a deterministic wallet_id using SHA256.
// Formula: SHA256(wallet|name)
// Returns hex-encoded hash (64 characters).
func ComputeWalletID(name string) string {
	data := fmt.Sprintf("wallet|%s", name)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ComputeChainID computes a deterministic chain_id using SHA256.
// Formula: SHA256(chain|name)
// Returns hex-encoded hash (64 characters).
func ComputeChainID(name string) string {
	data := fmt.Sprintf("chain|%s", name)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ComputeTransactionID computes a deterministic transaction_id using SHA256.
// Formula: SHA256(tx|wallet_id|chain_id|timestamp|zero_volume|volume|gas|comment)
// Returns hex-encoded hash (64 characters).
// Two byte-identical transactions hash to the same ID, so re-recording the
// exact same interaction surfaces as a duplicate-key error instead of a
// silent double count.
func ComputeTransactionID(
	walletID string,
	chainID string,
	timestamp int64,
	zeroVolume bool,
	volume float64,
	gas float64,
	comment string,
) string {
	data := fmt.Sprintf("tx|%s|%s|%d|%t|%s|%s|%s",
		walletID,
		chainID,
		timestamp,
		zeroVolume,
		strconv.FormatFloat(volume, 'f', -1, 64),
		strconv.FormatFloat(gas, 'f', -1, 64),
		comment,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
