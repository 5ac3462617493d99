// Package history records global-stats snapshots and computes growth
// against earlier points of the history.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/storage"
)

// Delta describes how the global stats moved since a baseline snapshot.
type Delta struct {
	// Baseline snapshot; nil when the history holds nothing old enough,
	// in which case changes are measured against zero.
	From *domain.StatsSnapshot

	VolumeChange    float64
	VolumeChangePct float64
	GasChange       float64

	TransactionsChange int
	AirdropsChange     int
	ActiveDaysChange   int
}

// Service wraps a StatsHistoryStore with recording and lookup logic.
type Service struct {
	store storage.StatsHistoryStore
	now   func() time.Time
}

// NewService creates a history service backed by the given store.
func NewService(store storage.StatsHistoryStore) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// WithClock replaces the time source. Used in tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Record appends a snapshot of the given stats at the current clock time.
func (s *Service) Record(ctx context.Context, stats domain.GlobalStats) (*domain.StatsSnapshot, error) {
	snap := &domain.StatsSnapshot{
		TakenAt: s.now().UnixMilli(),
		Stats:   stats,
	}
	if err := s.store.Insert(ctx, snap); err != nil {
		return nil, fmt.Errorf("record snapshot: %w", err)
	}
	return snap, nil
}

// Baseline returns the most recent snapshot taken at or before the given
// time. Returns storage.ErrNotFound when the history starts later.
func (s *Service) Baseline(ctx context.Context, at time.Time) (*domain.StatsSnapshot, error) {
	return s.store.Latest(ctx, at.UnixMilli())
}

// DeltaSince compares current stats against the snapshot in effect at the
// given time.
func (s *Service) DeltaSince(ctx context.Context, current domain.GlobalStats, since time.Time) (*Delta, error) {
	baseline, err := s.Baseline(ctx, since)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return computeDelta(nil, current), nil
		}
		return nil, fmt.Errorf("load baseline: %w", err)
	}
	return computeDelta(baseline, current), nil
}

// Range returns the snapshots taken within [from, to].
func (s *Service) Range(ctx context.Context, from, to time.Time) ([]*domain.StatsSnapshot, error) {
	return s.store.GetRange(ctx, from.UnixMilli(), to.UnixMilli())
}

func computeDelta(baseline *domain.StatsSnapshot, current domain.GlobalStats) *Delta {
	var base domain.GlobalStats
	if baseline != nil {
		base = baseline.Stats
	}

	return &Delta{
		From:               baseline,
		VolumeChange:       current.TotalVolume - base.TotalVolume,
		VolumeChangePct:    percentageChange(current.TotalVolume, base.TotalVolume),
		GasChange:          current.TotalGas - base.TotalGas,
		TransactionsChange: current.TotalTransactions - base.TotalTransactions,
		AirdropsChange:     current.PotentialAirdrops - base.PotentialAirdrops,
		ActiveDaysChange:   current.UniqueActiveDays - base.UniqueActiveDays,
	}
}

func percentageChange(current, previous float64) float64 {
	if previous == 0 {
		return 0 // No previous data means no change to report
	}
	return ((current - previous) / previous) * 100
}
