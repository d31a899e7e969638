package repository

import (
	"context"
	"reflect"
	"testing"
	"time"

	"Aletheia/internal/domain/models"
	"Aletheia/pkg/cache"
	"Aletheia/pkg/logger"
)

func testStore(t *testing.T) *RedisRecordStore {
	t.Helper()
	lgr, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewRecordStore(cache.NewMemoryCache(), lgr).(*RedisRecordStore)
}

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

func TestGetMissingReturnsNilNil(t *testing.T) {
	s := testStore(t)
	rec, err := s.Get(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected absent record, got %+v", rec)
	}
}

func TestUpsertCreatesAndNormalizes(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	err := s.Upsert(ctx, "nvda", models.RecordFields{
		ReliabilityScore: f64(92),
		Regime:           str("Momentum"),
		Prediction:       f64(0.0045),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rec, err := s.Get(ctx, "NVDA")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec == nil {
		t.Fatal("record not created")
	}
	if rec.Ticker != "NVDA" {
		t.Fatalf("ticker = %q, want normalized NVDA", rec.Ticker)
	}
	if !rec.IsConsistent {
		t.Fatal("new record should default to consistent")
	}
	if rec.LastUpdated.IsZero() {
		t.Fatal("last_updated not set")
	}
}

func TestUpsertMergesPartialFields(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	hist := []models.PricePoint{{Date: "2026-08-30", Price: 480.5}}
	if err := s.Upsert(ctx, "NVDA", models.RecordFields{
		ReliabilityScore: f64(92),
		Regime:           str("Momentum"),
		History:          &hist,
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	// Only the regime moves; everything else must survive.
	if err := s.Upsert(ctx, "NVDA", models.RecordFields{Regime: str("Choppy")}); err != nil {
		t.Fatalf("partial upsert: %v", err)
	}

	rec, _ := s.Get(ctx, "NVDA")
	if rec.Regime != "Choppy" {
		t.Fatalf("regime = %q", rec.Regime)
	}
	if rec.ReliabilityScore != 92 {
		t.Fatalf("reliability_score clobbered: %f", rec.ReliabilityScore)
	}
	if len(rec.History) != 1 {
		t.Fatalf("history clobbered: %+v", rec.History)
	}
}

func TestUpsertIdempotentExceptLastUpdated(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	fields := models.RecordFields{
		ReliabilityScore: f64(80),
		Regime:           str("Stable Growth"),
		Prediction:       f64(0.002),
	}
	if err := s.Upsert(ctx, "AAPL", fields); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	first, _ := s.Get(ctx, "AAPL")

	time.Sleep(5 * time.Millisecond)
	if err := s.Upsert(ctx, "AAPL", fields); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	second, _ := s.Get(ctx, "AAPL")

	if !second.LastUpdated.After(first.LastUpdated) {
		t.Fatal("last_updated did not advance")
	}
	second.LastUpdated = first.LastUpdated
	if !reflect.DeepEqual(second, first) {
		t.Fatalf("record changed beyond last_updated: %+v vs %+v", second, first)
	}
}

func TestSelfHealOverwritesHistoryOnly(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	corrupt := []models.PricePoint{{Date: "2026-08-30", Price: 2_000_000}}
	if err := s.Upsert(ctx, "NVDA", models.RecordFields{
		ReliabilityScore: f64(92),
		History:          &corrupt,
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	repaired := []models.PricePoint{
		{Date: "2026-08-29", Price: 478.0},
		{Date: "2026-08-30", Price: 481.2},
	}
	if err := s.SelfHeal(ctx, "NVDA", repaired); err != nil {
		t.Fatalf("self-heal: %v", err)
	}

	rec, _ := s.Get(ctx, "NVDA")
	if len(rec.History) != 2 || rec.History[0].Price != 478.0 {
		t.Fatalf("history not replaced: %+v", rec.History)
	}
	if rec.ReliabilityScore != 92 {
		t.Fatalf("self-heal touched reliability_score: %f", rec.ReliabilityScore)
	}
}

func TestSelfHealSkipsMissingRecord(t *testing.T) {
	s := testStore(t)
	err := s.SelfHeal(context.Background(), "GHOST", []models.PricePoint{{Date: "2026-08-30", Price: 10}})
	if err != nil {
		t.Fatalf("self-heal of missing record should be silent: %v", err)
	}
	rec, _ := s.Get(context.Background(), "GHOST")
	if rec != nil {
		t.Fatal("self-heal must not create records")
	}
}
