// Package tracker provides the application service: it wires stores, the
// aggregation engine, the airdrop heuristic and event publishing.
package tracker

import (
	"time"

	"github.com/rs/zerolog"

	"airdrop-tracker/internal/aggregate"
	"airdrop-tracker/internal/events"
	"airdrop-tracker/internal/heuristic"
	"airdrop-tracker/internal/history"
	"airdrop-tracker/internal/logger"
	"airdrop-tracker/internal/storage"
)

// Tracker coordinates mutations and views over the transaction log.
type Tracker struct {
	wallets storage.WalletStore
	chains  storage.ChainStore
	txs     storage.TransactionStore

	agg     *aggregate.Aggregator
	history *history.Service
	eval    *heuristic.Evaluator
	rule    heuristic.Rule
	emitter events.Emitter

	now func() time.Time
	log zerolog.Logger
}

// Options for creating a Tracker.
type Options struct {
	// Required stores
	WalletStore       storage.WalletStore
	ChainStore        storage.ChainStore
	TransactionStore  storage.TransactionStore
	StatsHistoryStore storage.StatsHistoryStore

	// Rule used to count potential airdrops. Zero value means the
	// default zero-volume rule.
	Rule heuristic.Rule

	// Emitter for mutation events; nil falls back to the log emitter.
	Emitter events.Emitter
}

// New creates a Tracker.
func New(opts Options) *Tracker {
	rule := opts.Rule
	if rule.RuleID == "" {
		rule = heuristic.RuleZeroVolume
	}

	emitter := opts.Emitter
	if emitter == nil {
		emitter = events.NewLogEmitter()
	}

	t := &Tracker{
		wallets: opts.WalletStore,
		chains:  opts.ChainStore,
		txs:     opts.TransactionStore,
		history: history.NewService(opts.StatsHistoryStore),
		eval:    heuristic.NewEvaluator(),
		rule:    rule,
		emitter: emitter,
		now:     time.Now,
		log:     logger.Component("tracker"),
	}
	t.agg = aggregate.NewAggregator(opts.WalletStore, opts.ChainStore, opts.TransactionStore).
		WithClassifier(rule.Matches)
	return t
}

// WithClock replaces the time source everywhere the tracker tells time.
// Used in tests.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	t.agg.WithClock(now)
	t.history.WithClock(now)
	return t
}

// Rule returns the pinned airdrop rule.
func (t *Tracker) Rule() heuristic.Rule {
	return t.rule
}

// Close releases the event emitter.
func (t *Tracker) Close() error {
	return t.emitter.Close()
}

func (t *Tracker) emit(eventType events.Type, recordID string, payload any) {
	err := t.emitter.Emit(events.Event{
		Type:      eventType,
		RecordID:  recordID,
		Timestamp: t.now().UnixMilli(),
		Payload:   payload,
	})
	if err != nil {
		// Mutations are already committed when events go out; a failed
		// emit must not roll them back.
		t.log.Warn().Err(err).Str("type", string(eventType)).Msg("Event emit failed")
	}
}
