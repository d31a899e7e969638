package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"Aletheia/internal/domain/models"
)

func TestHealJobAppliesRepair(t *testing.T) {
	store := newFakeStore()
	store.records["NVDA"] = &models.IntelligenceRecord{
		Ticker:  "NVDA",
		History: []models.PricePoint{{Date: "2026-08-30", Price: 2_000_000}},
	}

	repaired := []models.PricePoint{
		{Date: "2026-08-29", Price: 478.10},
		{Date: "2026-08-30", Price: 481.90},
	}
	payload, err := json.Marshal(healPayload{Ticker: "NVDA", History: repaired})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	job := NewHealJob(testLogger(t), store, nopMetrics{})
	if job.Type() != healMessageType {
		t.Fatalf("job type = %q", job.Type())
	}
	if err := job.Handle(context.Background(), payload); err != nil {
		t.Fatalf("handle: %v", err)
	}

	got := store.records["NVDA"].History
	if len(got) != 2 || got[1].Price != 481.90 {
		t.Fatalf("history not repaired: %+v", got)
	}
}

func TestHealJobRejectsMalformedPayload(t *testing.T) {
	job := NewHealJob(testLogger(t), newFakeStore(), nopMetrics{})
	if err := job.Handle(context.Background(), json.RawMessage(`{bad`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
