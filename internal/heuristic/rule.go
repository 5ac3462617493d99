// Package heuristic classifies airdrop-hunting activity: which transactions
// look like airdrop claims and which wallets look like systematic farmers.
package heuristic

import "airdrop-tracker/internal/domain"

// Rule decides whether a single transaction counts as a potential airdrop.
type Rule struct {
	RuleID string
	// RequireGas narrows the match to claims that paid a fee themselves,
	// excluding pure balance-change records.
	RequireGas bool
}

// Rule ID constants
const (
	RuleZeroVolumeID        = "zero-volume"
	RuleZeroVolumeWithGasID = "zero-volume-with-gas"
)

// Predefined airdrop rules. RuleZeroVolume is the default: every
// zero-volume transaction is treated as a potential claim.
var (
	RuleZeroVolume = Rule{
		RuleID: RuleZeroVolumeID,
	}

	RuleZeroVolumeWithGas = Rule{
		RuleID:     RuleZeroVolumeWithGasID,
		RequireGas: true,
	}
)

// RuleByID resolves a rule ID to its predefined configuration.
func RuleByID(id string) (Rule, bool) {
	switch id {
	case RuleZeroVolumeID:
		return RuleZeroVolume, true
	case RuleZeroVolumeWithGasID:
		return RuleZeroVolumeWithGas, true
	}
	return Rule{}, false
}

// Matches reports whether tx counts as a potential airdrop under the rule.
func (r Rule) Matches(tx *domain.Transaction) bool {
	if tx == nil || !tx.ZeroVolume {
		return false
	}
	if r.RequireGas && tx.Gas <= 0 {
		return false
	}
	return true
}
