package repository

import (
	"context"

	"Aletheia/internal/domain/models"
)

// UpstreamClient talks to the external prediction service.
type UpstreamClient interface {
	FetchPrediction(ctx context.Context, ticker string) (*models.PredictionPayload, error)
	FetchTickerList(ctx context.Context) ([]models.TickerSummary, error)
}

// RecordStore owns cached intelligence records keyed by uppercase ticker.
type RecordStore interface {
	// Get returns (nil, nil) when no record exists; absence is not an error.
	Get(ctx context.Context, ticker string) (*models.IntelligenceRecord, error)
	// Upsert merge-writes the given fields; nil fields stay untouched and
	// last_updated is always refreshed.
	Upsert(ctx context.Context, ticker string, fields models.RecordFields) error
	// SelfHeal overwrites only the history series of an existing record.
	SelfHeal(ctx context.Context, ticker string, history []models.PricePoint) error
	Close() error
}

// TradeLedger is the read-only view over the transaction ledger, plus the
// ingest append used by the Kafka consumer.
type TradeLedger interface {
	Append(ctx context.Context, t *models.Trade) error
	// NetVolumes returns buy-minus-sell quantity per symbol across all trades.
	NetVolumes(ctx context.Context) (map[string]float64, error)
	Health(ctx context.Context) error
	Close() error
}

// Publisher emits intelligence update events to the external channel.
type Publisher interface {
	PublishIntelligence(ctx context.Context, rec *models.IntelligenceRecord) error
	Close() error
}

// HealQueue accepts fire-and-forget history repair requests.
type HealQueue interface {
	Enqueue(ctx context.Context, ticker string, history []models.PricePoint) error
}

// Metrics records operational counters.
type Metrics interface {
	RecordResolution(source string)
	RecordUpstreamRetry()
	RecordSelfHeal()
	RecordCacheWriteFailure()
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
