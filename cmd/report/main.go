// Binary report renders the activity report from a store: a markdown
// summary plus a CSV of per-pair activity rows.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"airdrop-tracker/internal/config"
	"airdrop-tracker/internal/dataset"
	"airdrop-tracker/internal/reporting"
	"airdrop-tracker/internal/storage"
	"airdrop-tracker/internal/storage/memory"
	"airdrop-tracker/internal/storage/migrations"
	pgstore "airdrop-tracker/internal/storage/postgres"
	sqlstore "airdrop-tracker/internal/storage/sqlite"
)

const (
	markdownFile = "ACTIVITY_REPORT.md"
	csvFile      = "PAIR_SUMMARIES.csv"
)

func main() {
	outputDir := flag.String("output-dir", "docs", "Output directory for generated files")
	useFixtures := flag.Bool("use-fixtures", false, "Render from the demo fixture dataset instead of the configured store")
	flag.Parse()

	ctx := context.Background()

	var gen *reporting.Generator
	if *useFixtures {
		wallets := memory.NewWalletStore()
		chains := memory.NewChainStore()
		transactions := memory.NewTransactionStore()
		if _, err := dataset.Import(ctx, dataset.Fixtures(), wallets, chains, transactions); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading fixtures: %v\n", err)
			os.Exit(1)
		}
		// Fixed clock keeps fixture output reproducible.
		fixedTime := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		gen = reporting.NewGenerator(wallets, chains, transactions).
			WithClock(func() time.Time { return fixedTime })
	} else {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		wallets, chains, transactions, cleanup, err := openStores(ctx, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening stores: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()
		gen = reporting.NewGenerator(wallets, chains, transactions)
	}

	report, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	mdPath := filepath.Join(*outputDir, markdownFile)
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", mdPath, err)
		os.Exit(1)
	}

	csvPath := filepath.Join(*outputDir, csvFile)
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.Rows)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", csvPath, err)
		os.Exit(1)
	}

	fmt.Println("Activity report generated successfully:")
	fmt.Printf("  - %s\n", mdPath)
	fmt.Printf("  - %s\n", csvPath)
}

// openStores opens the wallet, chain and transaction stores for the
// configured backend.
func openStores(ctx context.Context, cfg *config.Config) (storage.WalletStore, storage.ChainStore, storage.TransactionStore, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return memory.NewWalletStore(), memory.NewChainStore(), memory.NewTransactionStore(), func() {}, nil
	case config.BackendSQLite:
		db, err := sqlstore.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return sqlstore.NewWalletStore(db), sqlstore.NewChainStore(db), sqlstore.NewTransactionStore(db), func() { db.Close() }, nil
	case config.BackendPostgres:
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, nil, fmt.Errorf("run postgres migrations: %w", err)
		}
		return pgstore.NewWalletStore(pool), pgstore.NewChainStore(pool), pgstore.NewTransactionStore(pool), pool.Close, nil
	default:
		return nil, nil, nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
