package history

import (
	"context"
	"testing"
	"time"

	"airdrop-tracker/internal/domain"
	"airdrop-tracker/internal/storage/memory"
)

func TestService_RecordAndBaseline(t *testing.T) {
	svc := NewService(memory.NewStatsHistoryStore())
	ctx := context.Background()

	clock := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return clock })

	snap, err := svc.Record(ctx, domain.GlobalStats{TotalVolume: 100, TotalTransactions: 5})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if snap.TakenAt != clock.UnixMilli() {
		t.Errorf("TakenAt = %d, want clock time", snap.TakenAt)
	}

	got, err := svc.Baseline(ctx, clock.Add(time.Hour))
	if err != nil {
		t.Fatalf("Baseline failed: %v", err)
	}
	if got.Stats.TotalVolume != 100 {
		t.Errorf("Baseline volume = %v, want 100", got.Stats.TotalVolume)
	}
}

func TestService_DeltaSince(t *testing.T) {
	svc := NewService(memory.NewStatsHistoryStore())
	ctx := context.Background()

	day1 := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	svc.WithClock(func() time.Time { return day1 })
	if _, err := svc.Record(ctx, domain.GlobalStats{
		TotalVolume:       200,
		TotalGas:          1.0,
		TotalTransactions: 10,
		PotentialAirdrops: 2,
		UniqueActiveDays:  4,
	}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	current := domain.GlobalStats{
		TotalVolume:       250,
		TotalGas:          1.5,
		TotalTransactions: 14,
		PotentialAirdrops: 3,
		UniqueActiveDays:  5,
	}

	delta, err := svc.DeltaSince(ctx, current, day2)
	if err != nil {
		t.Fatalf("DeltaSince failed: %v", err)
	}

	if delta.From == nil || delta.From.TakenAt != day1.UnixMilli() {
		t.Fatal("Delta baseline should be the day-1 snapshot")
	}
	if delta.VolumeChange != 50 {
		t.Errorf("VolumeChange = %v, want 50", delta.VolumeChange)
	}
	if delta.VolumeChangePct != 25 {
		t.Errorf("VolumeChangePct = %v, want 25", delta.VolumeChangePct)
	}
	if delta.GasChange != 0.5 {
		t.Errorf("GasChange = %v, want 0.5", delta.GasChange)
	}
	if delta.TransactionsChange != 4 || delta.AirdropsChange != 1 || delta.ActiveDaysChange != 1 {
		t.Errorf("Count changes = %d/%d/%d, want 4/1/1",
			delta.TransactionsChange, delta.AirdropsChange, delta.ActiveDaysChange)
	}
}

func TestService_DeltaSince_NoBaseline(t *testing.T) {
	svc := NewService(memory.NewStatsHistoryStore())
	ctx := context.Background()

	current := domain.GlobalStats{TotalVolume: 75, TotalTransactions: 3}

	delta, err := svc.DeltaSince(ctx, current, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("DeltaSince failed: %v", err)
	}

	if delta.From != nil {
		t.Error("Empty history: From should be nil")
	}
	if delta.VolumeChange != 75 || delta.TransactionsChange != 3 {
		t.Errorf("Changes vs zero = %v/%d, want 75/3", delta.VolumeChange, delta.TransactionsChange)
	}
	if delta.VolumeChangePct != 0 {
		t.Errorf("VolumeChangePct = %v, want 0 without a baseline", delta.VolumeChangePct)
	}
}

func TestService_Range(t *testing.T) {
	svc := NewService(memory.NewStatsHistoryStore())
	ctx := context.Background()

	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		at := base.AddDate(0, 0, i)
		svc.WithClock(func() time.Time { return at })
		if _, err := svc.Record(ctx, domain.GlobalStats{TotalTransactions: i + 1}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	snaps, err := svc.Range(ctx, base.AddDate(0, 0, 1), base.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("Got %d snapshots, want 2", len(snaps))
	}
	if snaps[0].Stats.TotalTransactions != 2 || snaps[1].Stats.TotalTransactions != 3 {
		t.Errorf("Range picked wrong snapshots: %d, %d",
			snaps[0].Stats.TotalTransactions, snaps[1].Stats.TotalTransactions)
	}
}
