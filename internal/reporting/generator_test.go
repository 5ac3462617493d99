package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/heuristic"
	"airdrop-tracker/internal/idhash"
	"airdrop-tracker/internal/storage/memory"
)

func msAt(year int, month time.Month, day int) int64 {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).UnixMilli()
}

// setupTestData seeds two wallets and three chains. Main farms across all
// three chains with 10 transactions over 3 months; Degen made a single
// transfer back in October and went quiet.
func setupTestData(t *testing.T) (*memory.WalletStore, *memory.ChainStore, *memory.TransactionStore) {
	t.Helper()
	ctx := context.Background()

	walletStore := memory.NewWalletStore()
	chainStore := memory.NewChainStore()
	txStore := memory.NewTransactionStore()

	wallets := []*domain.Wallet{
		{WalletID: idhash.ComputeWalletID("Main"), Name: "Main", Address: "0x6887246668a3b87F54DeB3b94Ba47a6f63F32985"},
		{WalletID: idhash.ComputeWalletID("Degen"), Name: "Degen"},
	}
	for _, w := range wallets {
		if err := walletStore.Insert(ctx, w); err != nil {
			t.Fatalf("Insert wallet failed: %v", err)
		}
	}

	chains := []*domain.Chain{
		{ChainID: idhash.ComputeChainID("ethereum"), Name: "ethereum", IsEVM: true},
		{ChainID: idhash.ComputeChainID("arbitrum"), Name: "arbitrum", IsEVM: true},
		{ChainID: idhash.ComputeChainID("solana"), Name: "solana", IsEVM: false},
	}
	for _, c := range chains {
		if err := chainStore.Insert(ctx, c); err != nil {
			t.Fatalf("Insert chain failed: %v", err)
		}
	}

	type row struct {
		wallet string
		chain  string
		at     int64
		volume float64
		gas    float64
	}
	rows := []row{
		{wallet: "Main", chain: "ethereum", at: msAt(2023, time.November, 10), volume: 1000, gas: 10},
		{wallet: "Main", chain: "ethereum", at: msAt(2023, time.December, 5), volume: 500, gas: 5},
		{wallet: "Main", chain: "ethereum", at: msAt(2024, time.January, 5), volume: 250, gas: 2.5},
		{wallet: "Main", chain: "arbitrum", at: msAt(2024, time.January, 10), volume: 100, gas: 1},
		{wallet: "Main", chain: "arbitrum", at: msAt(2024, time.January, 12), volume: 100, gas: 1},
		{wallet: "Main", chain: "arbitrum", at: msAt(2024, time.January, 15), volume: 100, gas: 1},
		{wallet: "Main", chain: "arbitrum", at: msAt(2024, time.January, 18), volume: 100, gas: 1},
		{wallet: "Main", chain: "solana", at: msAt(2024, time.January, 20), volume: 50, gas: 0.5},
		{wallet: "Main", chain: "solana", at: msAt(2024, time.January, 22), volume: 50, gas: 0.5},
		{wallet: "Main", chain: "solana", at: msAt(2024, time.January, 25), volume: 50, gas: 0.5},
		{wallet: "Degen", chain: "ethereum", at: msAt(2023, time.October, 15), volume: 75, gas: 3},
	}
	for _, r := range rows {
		walletID := idhash.ComputeWalletID(r.wallet)
		chainID := idhash.ComputeChainID(r.chain)
		tx := &domain.Transaction{
			TransactionID: idhash.ComputeTransactionID(walletID, chainID, r.at, false, r.volume, r.gas, ""),
			WalletID:      walletID,
			ChainID:       chainID,
			Timestamp:     r.at,
			Volume:        r.volume,
			Gas:           r.gas,
		}
		if err := txStore.Insert(ctx, tx); err != nil {
			t.Fatalf("Insert transaction failed: %v", err)
		}
	}

	return walletStore, chainStore, txStore
}

// reportClock keeps recency windows stable: one week after the last fixture
// transaction.
func reportClock() func() time.Time {
	fixed := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time { return fixed }
}

func TestGenerate_Deterministic(t *testing.T) {
	ctx := context.Background()

	var firstReport *Report
	for run := 0; run < 5; run++ {
		walletStore, chainStore, txStore := setupTestData(t)
		generator := NewGenerator(walletStore, chainStore, txStore).WithClock(reportClock())

		report, err := generator.Generate(ctx)
		if err != nil {
			t.Fatalf("Run %d: Generate failed: %v", run, err)
		}

		if firstReport == nil {
			firstReport = report
			continue
		}

		if !report.GeneratedAt.Equal(firstReport.GeneratedAt) {
			t.Errorf("Run %d: GeneratedAt mismatch: got %v, want %v", run, report.GeneratedAt, firstReport.GeneratedAt)
		}
		if report.Stats != firstReport.Stats {
			t.Errorf("Run %d: Stats mismatch: got %+v, want %+v", run, report.Stats, firstReport.Stats)
		}
		if len(report.Rows) != len(firstReport.Rows) {
			t.Fatalf("Run %d: Rows length mismatch", run)
		}
		for i := range report.Rows {
			if report.Rows[i] != firstReport.Rows[i] {
				t.Errorf("Run %d: Rows[%d] mismatch: got %+v, want %+v", run, i, report.Rows[i], firstReport.Rows[i])
			}
		}
		for i := range report.Verdicts {
			if report.Verdicts[i].WalletID != firstReport.Verdicts[i].WalletID {
				t.Errorf("Run %d: Verdicts[%d] WalletID mismatch", run, i)
			}
			if report.Verdicts[i].Verdict != firstReport.Verdicts[i].Verdict {
				t.Errorf("Run %d: Verdicts[%d] Verdict mismatch", run, i)
			}
		}
	}
}

func TestGenerate_WithClock(t *testing.T) {
	ctx := context.Background()
	walletStore, chainStore, txStore := setupTestData(t)

	fixedTime := time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)
	generator := NewGenerator(walletStore, chainStore, txStore).WithClock(func() time.Time {
		return fixedTime
	})

	report, err := generator.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !report.GeneratedAt.Equal(fixedTime) {
		t.Errorf("Expected GeneratedAt %v, got %v", fixedTime, report.GeneratedAt)
	}
}

func TestGenerate_ContainsRequiredSections(t *testing.T) {
	ctx := context.Background()
	walletStore, chainStore, txStore := setupTestData(t)
	generator := NewGenerator(walletStore, chainStore, txStore).WithClock(reportClock())

	report, err := generator.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if report.WalletCount != 2 {
		t.Errorf("WalletCount = %d, want 2", report.WalletCount)
	}
	if report.ChainCount != 3 {
		t.Errorf("ChainCount = %d, want 3", report.ChainCount)
	}
	if report.Stats.TotalTransactions != 11 {
		t.Errorf("TotalTransactions = %d, want 11", report.Stats.TotalTransactions)
	}
	if report.Stats.TotalVolume != 2375 {
		t.Errorf("TotalVolume = %v, want 2375", report.Stats.TotalVolume)
	}
	if report.EVM == nil || len(report.EVM.Chains) != 2 {
		t.Fatalf("EVM matrix should have 2 chains, got %+v", report.EVM)
	}
	if len(report.NonEVM) != 1 {
		t.Fatalf("Expected 1 non-EVM matrix, got %d", len(report.NonEVM))
	}
	if len(report.Verdicts) != 2 {
		t.Fatalf("Expected 2 verdicts, got %d", len(report.Verdicts))
	}
	// 4 active pairs: Main x 3 chains, Degen x ethereum
	if len(report.Rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(report.Rows))
	}
}

func TestGenerate_VerdictsMatchActivity(t *testing.T) {
	ctx := context.Background()
	walletStore, chainStore, txStore := setupTestData(t)
	generator := NewGenerator(walletStore, chainStore, txStore).WithClock(reportClock())

	report, err := generator.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	byName := make(map[string]*heuristic.WalletVerdict)
	for _, v := range report.Verdicts {
		byName[v.Name] = v
	}

	main := byName["Main"]
	if main == nil {
		t.Fatal("Missing verdict for Main")
	}
	if main.Verdict != heuristic.VerdictFarming {
		t.Errorf("Main verdict = %s, want FARMING", main.Verdict)
	}

	degen := byName["Degen"]
	if degen == nil {
		t.Fatal("Missing verdict for Degen")
	}
	if degen.Verdict != heuristic.VerdictCasual {
		t.Errorf("Degen verdict = %s, want CASUAL", degen.Verdict)
	}
}

func TestGenerate_RowOrder(t *testing.T) {
	ctx := context.Background()
	walletStore, chainStore, txStore := setupTestData(t)
	generator := NewGenerator(walletStore, chainStore, txStore).WithClock(reportClock())

	report, err := generator.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// Wallet insertion order outer, chain insertion order inner.
	want := []struct {
		wallet string
		chain  string
	}{
		{"Main", "ethereum"},
		{"Main", "arbitrum"},
		{"Main", "solana"},
		{"Degen", "ethereum"},
	}
	if len(report.Rows) != len(want) {
		t.Fatalf("Expected %d rows, got %d", len(want), len(report.Rows))
	}
	for i, w := range want {
		if report.Rows[i].WalletName != w.wallet || report.Rows[i].ChainName != w.chain {
			t.Errorf("Rows[%d] = (%s, %s), want (%s, %s)",
				i, report.Rows[i].WalletName, report.Rows[i].ChainName, w.wallet, w.chain)
		}
	}

	first := report.Rows[0]
	if first.TotalVolume != 1750 {
		t.Errorf("Main/ethereum TotalVolume = %v, want 1750", first.TotalVolume)
	}
	if first.Transactions != 3 {
		t.Errorf("Main/ethereum Transactions = %d, want 3", first.Transactions)
	}
	if first.ActiveMonths != 3 {
		t.Errorf("Main/ethereum ActiveMonths = %d, want 3", first.ActiveMonths)
	}
	if first.GroupID != "evm" {
		t.Errorf("Main/ethereum GroupID = %s, want evm", first.GroupID)
	}
}

func TestRenderMarkdown_Format(t *testing.T) {
	ctx := context.Background()
	walletStore, chainStore, txStore := setupTestData(t)
	generator := NewGenerator(walletStore, chainStore, txStore).WithClock(reportClock())

	report, err := generator.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	md := RenderMarkdown(report)

	requiredSections := []string{
		"# Airdrop Activity Report",
		"Generated: 2024-02-01T00:00:00Z",
		"## Global Stats",
		"## EVM Activity",
		"## solana Activity",
		"## Wallet Verdicts",
		"### Main",
		"### Degen",
	}
	for _, section := range requiredSections {
		if !strings.Contains(md, section) {
			t.Errorf("Markdown missing section: %s", section)
		}
	}

	if !strings.Contains(md, "| Main | FARMING |") {
		t.Error("Markdown missing FARMING verdict row for Main")
	}
	if !strings.Contains(md, "| Degen | CASUAL |") {
		t.Error("Markdown missing CASUAL verdict row for Degen")
	}
	// Main/ethereum cell: volume / gas / count / months / last activity
	if !strings.Contains(md, "1750.00 / 17.50 / 3 / 3 / 2024-01-05") {
		t.Error("Markdown missing Main/ethereum cell")
	}
	// Degen has no arbitrum activity: its EVM row ends with an empty cell
	if !strings.Contains(md, "| Degen | 75.00 / 3.00 / 1 / 1 / 2023-10-15 |  |") {
		t.Error("Markdown missing empty cell for Degen/arbitrum")
	}
}

func TestRenderMarkdown_EmptyReport(t *testing.T) {
	report := &Report{GeneratedAt: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)}

	md := RenderMarkdown(report)

	fallbacks := []string{
		"No EVM chains registered.",
		"No non-EVM chains registered.",
		"No wallet verdicts available.",
	}
	for _, f := range fallbacks {
		if !strings.Contains(md, f) {
			t.Errorf("Markdown missing fallback: %s", f)
		}
	}
}

func TestRenderCSV_Format(t *testing.T) {
	ctx := context.Background()
	walletStore, chainStore, txStore := setupTestData(t)
	generator := NewGenerator(walletStore, chainStore, txStore).WithClock(reportClock())

	report, err := generator.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	csv := RenderCSV(report.Rows)
	lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")

	// Header + 4 data rows
	if len(lines) != 5 {
		t.Fatalf("Expected 5 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "wallet,address,chain,group,total_volume") {
		t.Errorf("CSV header is incorrect: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Main,0x6887246668a3b87F54DeB3b94Ba47a6f63F32985,ethereum,evm,1750.000000,17.500000,3,3,") {
		t.Errorf("First CSV row is incorrect: %s", lines[1])
	}
	if !strings.HasPrefix(lines[4], "Degen,,ethereum,evm,75.000000,3.000000,1,1,") {
		t.Errorf("Last CSV row is incorrect: %s", lines[4])
	}
}
