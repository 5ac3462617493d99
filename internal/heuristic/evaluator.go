package heuristic

import (
	"fmt"

	"airdrop-tracker/internal/domain"
)

// Verdict represents the final FARMING/CASUAL call for a wallet.
type Verdict string

const (
	VerdictFarming Verdict = "FARMING"
	VerdictCasual  Verdict = "CASUAL"
)

// WalletInput contains the per-wallet numbers the verdict is based on.
type WalletInput struct {
	WalletID string
	Name     string

	// Distinct chains with at least one transaction
	ChainsActive int

	// Totals across all chains
	TotalVolume       float64
	TotalTransactions int

	// Highest ActiveMonths across the wallet's chains
	MaxActiveMonths int

	// Any activity within the trailing month window
	ActiveLastMonth bool
}

// CriterionResult represents pass/fail for one criterion.
type CriterionResult struct {
	Name      string
	Threshold string
	Actual    string
	Pass      bool
}

// WalletVerdict contains the final verdict with its checklist.
type WalletVerdict struct {
	WalletID    string
	Name        string
	Verdict     Verdict
	TotalVolume float64
	Criteria    []CriterionResult
	// Disqualifiers use Pass=false to mean triggered
	Disqualifiers []CriterionResult
}

// Evaluator evaluates farming criteria against wallet activity.
type Evaluator struct {
	minChains       int
	minActiveMonths int
	minTransactions int
}

// NewEvaluator creates an evaluator with the default thresholds: activity
// on 2+ chains, sustained over 3+ months, with 10+ transactions.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		minChains:       2,
		minActiveMonths: 3,
		minTransactions: 10,
	}
}

// Evaluate produces a WalletVerdict from WalletInput.
// FARMING if ALL criteria pass and NO disqualifier fires.
func (e *Evaluator) Evaluate(input WalletInput) *WalletVerdict {
	criteria := e.evaluateCriteria(input)
	disqualifiers := e.evaluateDisqualifiers(input)

	allPass := true
	for _, c := range criteria {
		if !c.Pass {
			allPass = false
			break
		}
	}

	anyTriggered := false
	for _, c := range disqualifiers {
		if !c.Pass { // Pass=false means triggered
			anyTriggered = true
			break
		}
	}

	verdict := VerdictFarming
	if !allPass || anyTriggered {
		verdict = VerdictCasual
	}

	return &WalletVerdict{
		WalletID:      input.WalletID,
		Name:          input.Name,
		Verdict:       verdict,
		TotalVolume:   input.TotalVolume,
		Criteria:      criteria,
		Disqualifiers: disqualifiers,
	}
}

// EvaluateAll builds inputs from per-chain summaries and evaluates every
// wallet, preserving wallet order.
func (e *Evaluator) EvaluateAll(wallets []*domain.Wallet, summaries []*domain.WalletChainSummary) []*WalletVerdict {
	byWallet := make(map[string][]*domain.WalletChainSummary)
	for _, s := range summaries {
		byWallet[s.WalletID] = append(byWallet[s.WalletID], s)
	}

	verdicts := make([]*WalletVerdict, 0, len(wallets))
	for _, w := range wallets {
		verdicts = append(verdicts, e.Evaluate(BuildInput(w, byWallet[w.WalletID])))
	}
	return verdicts
}

// BuildInput condenses a wallet's per-chain summaries into evaluator input.
func BuildInput(wallet *domain.Wallet, summaries []*domain.WalletChainSummary) WalletInput {
	input := WalletInput{
		WalletID: wallet.WalletID,
		Name:     wallet.Name,
	}

	for _, s := range summaries {
		input.ChainsActive++
		input.TotalVolume += s.TotalVolume
		input.TotalTransactions += s.Count
		if s.ActiveMonths > input.MaxActiveMonths {
			input.MaxActiveMonths = s.ActiveMonths
		}
		if s.LastMonth {
			input.ActiveLastMonth = true
		}
	}
	return input
}

func (e *Evaluator) evaluateCriteria(input WalletInput) []CriterionResult {
	criteria := make([]CriterionResult, 3)

	criteria[0] = CriterionResult{
		Name:      "Multi-chain activity",
		Threshold: fmt.Sprintf(">= %d chains", e.minChains),
		Actual:    fmt.Sprintf("%d", input.ChainsActive),
		Pass:      input.ChainsActive >= e.minChains,
	}

	criteria[1] = CriterionResult{
		Name:      "Sustained activity",
		Threshold: fmt.Sprintf(">= %d months", e.minActiveMonths),
		Actual:    fmt.Sprintf("%d", input.MaxActiveMonths),
		Pass:      input.MaxActiveMonths >= e.minActiveMonths,
	}

	criteria[2] = CriterionResult{
		Name:      "Transaction throughput",
		Threshold: fmt.Sprintf(">= %d transactions", e.minTransactions),
		Actual:    fmt.Sprintf("%d", input.TotalTransactions),
		Pass:      input.TotalTransactions >= e.minTransactions,
	}

	return criteria
}

// evaluateDisqualifiers evaluates conditions that force CASUAL regardless
// of the criteria. Pass=true means NOT triggered.
func (e *Evaluator) evaluateDisqualifiers(input WalletInput) []CriterionResult {
	checks := make([]CriterionResult, 1)

	// A wallet with no activity in the trailing month stopped farming.
	triggered := !input.ActiveLastMonth
	checks[0] = CriterionResult{
		Name:      "Dormant",
		Threshold: "no activity in last month",
		Actual:    fmt.Sprintf("activeLastMonth=%t", input.ActiveLastMonth),
		Pass:      !triggered,
	}

	return checks
}
