package usecase

import (
	"context"
	"testing"

	"Aletheia/internal/domain/models"
	"Aletheia/internal/service/upstream"
	"Aletheia/pkg/config"
)

type fakeLedger struct {
	volumes map[string]float64
	err     error
}

func (f *fakeLedger) Append(_ context.Context, _ *models.Trade) error { return nil }
func (f *fakeLedger) NetVolumes(_ context.Context) (map[string]float64, error) {
	return f.volumes, f.err
}
func (f *fakeLedger) Health(_ context.Context) error { return nil }
func (f *fakeLedger) Close() error                   { return nil }

type listUpstream struct {
	summaries []models.TickerSummary
	err       error
}

func (f *listUpstream) FetchPrediction(_ context.Context, _ string) (*models.PredictionPayload, error) {
	return nil, f.err
}

func (f *listUpstream) FetchTickerList(_ context.Context) ([]models.TickerSummary, error) {
	return f.summaries, f.err
}

func TestSyntheticPrice(t *testing.T) {
	cases := []struct {
		net  float64
		want float64
	}{
		{0, 10.00},
		{100, 20.00},
		{-200, 1.00}, // floor
		{5, 10.50},
	}
	for _, tc := range cases {
		if got := SyntheticPrice(tc.net); got != tc.want {
			t.Fatalf("SyntheticPrice(%f) = %f, want %f", tc.net, got, tc.want)
		}
	}
}

func TestMergeTickerEntriesUpstreamWins(t *testing.T) {
	synthetic := []models.TickerEntry{
		{Ticker: "ACME", Name: "ACME", Price: 12.50},
		{Ticker: "WIDG", Name: "WIDG", Price: 10.00},
	}
	public := []models.TickerEntry{
		{Ticker: "ACME", Name: "Acme Corp", Price: 99.10, IsAnalyzed: true},
		{Ticker: "NVDA", Name: "NVIDIA", Price: 480.00, IsAnalyzed: true},
	}

	merged := MergeTickerEntries(synthetic, public)
	if len(merged) != 3 {
		t.Fatalf("merged has %d entries, want 3", len(merged))
	}

	// Synthetic entries lead; the colliding ACME comes from upstream.
	if merged[0].Ticker != "WIDG" {
		t.Fatalf("first entry = %q, want synthetic WIDG", merged[0].Ticker)
	}
	acme := 0
	for _, e := range merged {
		if e.Ticker == "ACME" {
			acme++
			if e.Name != "Acme Corp" {
				t.Fatalf("ACME served from synthetic list: %+v", e)
			}
		}
	}
	if acme != 1 {
		t.Fatalf("found %d ACME entries, want exactly 1", acme)
	}
}

func TestListTickersMergesLedgerEntities(t *testing.T) {
	up := &listUpstream{summaries: []models.TickerSummary{
		{Ticker: "NVDA", Name: "NVIDIA", Price: 480, Change: 1.2, IsAnalyzed: true},
		{Ticker: "ACME", Name: "Acme Corp", Price: 99.10, IsAnalyzed: true},
	}}
	ledger := &fakeLedger{volumes: map[string]float64{
		"ACME": 500, // collides with upstream, must drop
		"WIDG": 50,
		"GONE": -10, // fully divested, excluded
	}}

	l := NewTickerLister(testLogger(t), up, newFakeStore(), ledger, nopMetrics{}, nil)
	entries := l.ListTickers(context.Background())

	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3: %+v", len(entries), entries)
	}
	if entries[0].Ticker != "WIDG" {
		t.Fatalf("first entry = %q, want synthetic WIDG", entries[0].Ticker)
	}
	if entries[0].Price != 15.00 {
		t.Fatalf("WIDG price = %f, want 15.00", entries[0].Price)
	}
	if entries[0].IsAnalyzed {
		t.Fatal("synthetic entry marked analyzed")
	}
	if entries[1].Ticker != "NVDA" || entries[2].Ticker != "ACME" {
		t.Fatalf("public entries out of order: %+v", entries[1:])
	}
}

func TestListTickersFailsafeOnUpstreamFailure(t *testing.T) {
	up := &listUpstream{err: &upstream.UnavailableError{Attempts: 30, Last: context.DeadlineExceeded}}
	store := newFakeStore()
	store.records["NVDA"] = &models.IntelligenceRecord{
		Ticker: "NVDA",
		History: []models.PricePoint{
			{Date: "2026-08-29", Price: 470.0},
			{Date: "2026-08-30", Price: 482.75},
		},
	}

	failsafe := []config.FailsafeTicker{
		{Ticker: "NVDA", Name: "NVIDIA Corporation", Price: 480.50},
		{Ticker: "AAPL", Name: "Apple Inc.", Price: 185.20},
	}

	l := NewTickerLister(testLogger(t), up, store, nil, nopMetrics{}, failsafe)
	entries := l.ListTickers(context.Background())

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if !entries[0].IsAnalyzed {
		t.Fatal("cached NVDA should be marked analyzed")
	}
	if entries[0].Price != 482.75 {
		t.Fatalf("NVDA price = %f, want last cached close 482.75", entries[0].Price)
	}
	if entries[1].IsAnalyzed {
		t.Fatal("uncached AAPL should not be marked analyzed")
	}
	if entries[1].Price != 185.20 {
		t.Fatalf("AAPL price = %f", entries[1].Price)
	}
}
