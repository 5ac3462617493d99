// Binary seed loads the demo fixture dataset into the configured
// store. Running it twice is safe: records already present are
// skipped.
package main

import (
	"context"
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

	res, err := dataset.Import(ctx, dataset.Fixtures(), wallets, chains, transactions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error seeding fixtures: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seeded demo dataset into %s backend: %d wallets, %d chains, %d transactions added\n",
		cfg.Storage.Backend, res.WalletsAdded, res.ChainsAdded, res.TransactionsAdded)
	if skipped := res.WalletsSkipped + res.ChainsSkipped + res.TransactionsSkipped; skipped > 0 {
		fmt.Printf("Skipped %d records already present\n", skipped)
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
