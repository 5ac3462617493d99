// Binary export dumps the configured store into a dataset file, either
// JSON or a standalone sqlite database.
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
	output := flag.String("output", "", "Destination file (required)")
	format := flag.String("format", "json", "Output format: json or sqlite")
	flag.Parse()

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: -output is required")
		flag.Usage()
		os.Exit(1)
	}

	ctx := context.Background()

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

	ds, err := dataset.Export(ctx, wallets, chains, transactions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting store: %v\n", err)
		os.Exit(1)
	}

	if err := writeDataset(ctx, ds, *output, *format); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Exported %d wallets, %d chains, %d transactions to %s\n",
		len(ds.Wallets), len(ds.Chains), len(ds.Transactions), *output)
}

// writeDataset writes the dataset as JSON or as a fresh sqlite database
// file. The sqlite form refuses to touch an existing file so an export
// never merges into stale data.
func writeDataset(ctx context.Context, ds *dataset.Dataset, path, format string) error {
	switch format {
	case "json":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return dataset.WriteJSON(f, ds)
	case "sqlite":
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("refusing to overwrite existing file %s", path)
		}
		db, err := sqlstore.Open(path)
		if err != nil {
			return err
		}
		defer db.Close()
		_, err = dataset.Import(ctx, ds, sqlstore.NewWalletStore(db), sqlstore.NewChainStore(db), sqlstore.NewTransactionStore(db))
		return err
	default:
		return fmt.Errorf("unknown format %q (want json or sqlite)", format)
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
