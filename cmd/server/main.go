// Binary server runs the airdrop tracker API: REST endpoints, the
// WebSocket live feed, Prometheus metrics, and the periodic stats
// snapshot scheduler.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"airdrop-tracker/internal/config"
	"airdrop-tracker/internal/events"
	"airdrop-tracker/internal/heuristic"
	"airdrop-tracker/internal/httpapi"
	"airdrop-tracker/internal/live"
	"airdrop-tracker/internal/logger"
	"airdrop-tracker/internal/storage"
	chstore "airdrop-tracker/internal/storage/clickhouse"
	"airdrop-tracker/internal/storage/memory"
	"airdrop-tracker/internal/storage/migrations"
	pgstore "airdrop-tracker/internal/storage/postgres"
	sqlstore "airdrop-tracker/internal/storage/sqlite"
	"airdrop-tracker/internal/tracker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)
	log := logger.Component("server")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	stores, cleanup, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open stores")
	}
	defer cleanup()

	rule, ok := heuristic.RuleByID(cfg.Airdrop.RuleID)
	if !ok {
		log.Fatal().Str("rule", cfg.Airdrop.RuleID).Msg("Unknown airdrop rule")
	}

	var emitter events.Emitter = events.NewLogEmitter()
	if cfg.Kafka.Enabled {
		emitter = events.NewKafkaEmitter(cfg.Kafka.BrokerAddress, cfg.Kafka.Topic)
		log.Info().Str("broker", cfg.Kafka.BrokerAddress).Str("topic", cfg.Kafka.Topic).Msg("Kafka event emitter enabled")
	}

	hub := live.NewHub()
	go hub.Run(ctx)

	trk := tracker.New(tracker.Options{
		WalletStore:       stores.wallets,
		ChainStore:        stores.chains,
		TransactionStore:  stores.transactions,
		StatsHistoryStore: stores.history,
		Rule:              rule,
		Emitter:           events.NewFanOut(emitter, hub),
	})
	defer trk.Close()

	if cfg.Snapshot.Interval > 0 {
		go runSnapshotScheduler(ctx, trk, cfg.Snapshot.Interval, log)
	}

	api, err := httpapi.NewServer(trk, hub)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build API server")
	}

	log.Info().
		Str("addr", cfg.HTTP.Addr).
		Str("backend", cfg.Storage.Backend).
		Str("rule", rule.RuleID).
		Msg("Server starting")

	if err := api.ListenAndServe(ctx, cfg.HTTP); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("Server failed")
	}

	log.Info().Msg("Shutdown complete")
}

// trackerStores bundles the four stores the tracker needs.
type trackerStores struct {
	wallets      storage.WalletStore
	chains       storage.ChainStore
	transactions storage.TransactionStore
	history      storage.StatsHistoryStore
}

// openStores builds the stores for the configured backend. When
// ClickHouse is enabled the stats history store is pointed there
// instead of the primary backend.
func openStores(ctx context.Context, cfg *config.Config) (*trackerStores, func(), error) {
	stores := &trackerStores{}
	var closers []func()

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		stores.wallets = memory.NewWalletStore()
		stores.chains = memory.NewChainStore()
		stores.transactions = memory.NewTransactionStore()
		stores.history = memory.NewStatsHistoryStore()
	case config.BackendSQLite:
		db, err := sqlstore.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		closers = append(closers, func() { db.Close() })
		stores.wallets = sqlstore.NewWalletStore(db)
		stores.chains = sqlstore.NewChainStore(db)
		stores.transactions = sqlstore.NewTransactionStore(db)
		stores.history = sqlstore.NewStatsHistoryStore(db)
	case config.BackendPostgres:
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		closers = append(closers, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
		}
		stores.wallets = pgstore.NewWalletStore(pool)
		stores.chains = pgstore.NewChainStore(pool)
		stores.transactions = pgstore.NewTransactionStore(pool)
		stores.history = pgstore.NewStatsHistoryStore(pool)
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	if cfg.ClickHouse.Enabled {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickHouse.DSN())
		if err != nil {
			runClosers(closers)
			return nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
		}
		closers = append(closers, func() { conn.Close() })
		stores.history = chstore.NewStatsHistoryStore(conn)
	}

	return stores, func() { runClosers(closers) }, nil
}

func runClosers(closers []func()) {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
}

// runSnapshotScheduler records a stats snapshot on a fixed interval
// until the context is cancelled.
func runSnapshotScheduler(ctx context.Context, trk *tracker.Tracker, interval time.Duration, log zerolog.Logger) {
	log.Info().Dur("interval", interval).Msg("Snapshot scheduler started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap, err := trk.RecordSnapshot(ctx)
			if err != nil {
				log.Error().Err(err).Msg("Scheduled snapshot failed")
				continue
			}
			log.Info().
				Int64("taken_at", snap.TakenAt).
				Float64("total_volume", snap.Stats.TotalVolume).
				Msg("Stats snapshot recorded")
		}
	}
}
