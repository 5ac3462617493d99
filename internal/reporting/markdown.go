package reporting

import (
	"fmt"
	"strings"
	"time"

	"airdrop-tracker/internal/aggregate"
	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/heuristic"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Airdrop Activity Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Wallets: %d | Chains: %d | Transactions: %d\n\n",
		r.WalletCount, r.ChainCount, r.Stats.TotalTransactions))

	// Global Stats
	sb.WriteString("## Global Stats\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Volume | %.2f |\n", r.Stats.TotalVolume))
	sb.WriteString(fmt.Sprintf("| Total Gas | %.2f |\n", r.Stats.TotalGas))
	sb.WriteString(fmt.Sprintf("| Transactions | %d |\n", r.Stats.TotalTransactions))
	sb.WriteString(fmt.Sprintf("| Potential Airdrops | %d |\n", r.Stats.PotentialAirdrops))
	sb.WriteString(fmt.Sprintf("| Unique Active Days | %d |\n", r.Stats.UniqueActiveDays))
	sb.WriteString("\n")

	// EVM matrix
	sb.WriteString("## EVM Activity\n\n")
	if r.EVM == nil || len(r.EVM.Chains) == 0 {
		sb.WriteString("No EVM chains registered.\n")
	} else {
		renderMatrix(&sb, r.EVM)
	}
	sb.WriteString("\n")

	// One section per non-EVM chain
	for _, m := range r.NonEVM {
		title := m.GroupID
		if len(m.Chains) > 0 {
			title = m.Chains[0].Name
		}
		sb.WriteString(fmt.Sprintf("## %s Activity\n\n", title))
		renderMatrix(&sb, m)
		sb.WriteString("\n")
	}
	if len(r.NonEVM) == 0 {
		sb.WriteString("## Non-EVM Activity\n\n")
		sb.WriteString("No non-EVM chains registered.\n\n")
	}

	// Wallet Verdicts
	sb.WriteString("## Wallet Verdicts\n\n")
	if len(r.Verdicts) > 0 {
		sb.WriteString("| Wallet | Verdict | Total Volume | Criteria Passed | Disqualifiers Triggered |\n")
		sb.WriteString("|--------|---------|--------------|-----------------|-------------------------|\n")
		for _, v := range r.Verdicts {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.2f | %d/%d | %d/%d |\n",
				v.Name, v.Verdict, v.TotalVolume,
				countPassed(v.Criteria), len(v.Criteria),
				countTriggered(v.Disqualifiers), len(v.Disqualifiers)))
		}
		sb.WriteString("\n")

		for _, v := range r.Verdicts {
			renderVerdictDetail(&sb, v)
		}
	} else {
		sb.WriteString("No wallet verdicts available.\n\n")
	}

	return sb.String()
}

// renderMatrix writes one wallet x chain table. Absent cells stay empty so
// "never touched" is distinguishable from "touched with zero totals".
func renderMatrix(sb *strings.Builder, m *aggregate.Matrix) {
	if len(m.Wallets) == 0 {
		sb.WriteString("No wallets registered.\n")
		return
	}

	sb.WriteString("Cell format: volume / gas / transactions / active months / last activity.\n\n")

	sb.WriteString("| Wallet |")
	for _, c := range m.Chains {
		sb.WriteString(fmt.Sprintf(" %s |", c.Name))
	}
	sb.WriteString("\n")

	sb.WriteString("|--------|")
	for range m.Chains {
		sb.WriteString("--------|")
	}
	sb.WriteString("\n")

	for i, w := range m.Wallets {
		sb.WriteString(fmt.Sprintf("| %s |", w.Name))
		for j := range m.Chains {
			cell := formatCell(m.Cells[i][j])
			if cell == "" {
				sb.WriteString("  |")
			} else {
				sb.WriteString(fmt.Sprintf(" %s |", cell))
			}
		}
		sb.WriteString("\n")
	}
}

// formatCell renders one pair summary, or "" for an absent pair.
func formatCell(s *domain.WalletChainSummary) string {
	if s == nil {
		return ""
	}
	last := time.UnixMilli(s.LastTimestamp).UTC().Format("2006-01-02")
	return fmt.Sprintf("%.2f / %.2f / %d / %d / %s",
		s.TotalVolume, s.TotalGas, s.Count, s.ActiveMonths, last)
}

// renderVerdictDetail writes the per-wallet criteria and disqualifier tables.
func renderVerdictDetail(sb *strings.Builder, v *heuristic.WalletVerdict) {
	sb.WriteString(fmt.Sprintf("### %s\n\n", v.Name))

	sb.WriteString("| # | Criterion | Threshold | Actual | Pass |\n")
	sb.WriteString("|---|-----------|-----------|--------|------|\n")
	for i, c := range v.Criteria {
		passStr := "PASS"
		if !c.Pass {
			passStr = "FAIL"
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			i+1, c.Name, c.Threshold, c.Actual, passStr))
	}
	sb.WriteString("\n")

	sb.WriteString("| # | Disqualifier | Condition | Actual | Status |\n")
	sb.WriteString("|---|--------------|-----------|--------|--------|\n")
	for i, c := range v.Disqualifiers {
		statusStr := "NOT TRIGGERED"
		if !c.Pass { // Pass=false means triggered
			statusStr = "TRIGGERED"
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			i+1, c.Name, c.Threshold, c.Actual, statusStr))
	}
	sb.WriteString("\n")
}

func countPassed(criteria []heuristic.CriterionResult) int {
	n := 0
	for _, c := range criteria {
		if c.Pass {
			n++
		}
	}
	return n
}

func countTriggered(checks []heuristic.CriterionResult) int {
	n := 0
	for _, c := range checks {
		if !c.Pass {
			n++
		}
	}
	return n
}
