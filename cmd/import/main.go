// Binary import loads a dataset file into the configured store. JSON
// files come from the export binary or are written by hand; sqlite
// files are database files produced with the sqlite backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"airdrop-tracker/internal/config"
	"airdrop-tracker/internal/dataset"
	"airdrop-tracker/internal/storage"
	"airdrop-tracker/internal/storage/memory"
	"airdrop-tracker/internal/storage/migrations"
	pgstore "airdrop-tracker/internal/storage/postgres"
	sqlstore "airdrop-tracker/internal/storage/sqlite"
)

func main() {
	input := flag.String("input", "", "Dataset file to load (required)")
	format := flag.String("format", "json", "Input format: json or sqlite")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: -input is required")
		flag.Usage()
		os.Exit(1)
	}

	ctx := context.Background()

	ds, err := readDataset(ctx, *input, *format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading dataset: %v\n", err)
		os.Exit(1)
	}

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

	res, err := dataset.Import(ctx, ds, wallets, chains, transactions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Import complete: %d wallets, %d chains, %d transactions added\n",
		res.WalletsAdded, res.ChainsAdded, res.TransactionsAdded)
	if skipped := res.WalletsSkipped + res.ChainsSkipped + res.TransactionsSkipped; skipped > 0 {
		fmt.Printf("Skipped %d records already present\n", skipped)
	}
}

// readDataset loads a dataset from a JSON file or a sqlite database
// file.
func readDataset(ctx context.Context, path, format string) (*dataset.Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	switch format {
	case "json":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return dataset.ReadJSON(f)
	case "sqlite":
		db, err := sqlstore.Open(path)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return dataset.Export(ctx, sqlstore.NewWalletStore(db), sqlstore.NewChainStore(db), sqlstore.NewTransactionStore(db))
	default:
		return nil, fmt.Errorf("unknown format %q (want json or sqlite)", format)
	}
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
