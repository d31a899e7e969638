package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"Aletheia/internal/domain/models"
	drepo "Aletheia/internal/domain/repository"
	"Aletheia/pkg/logger"
	"Aletheia/pkg/util"
)

// TradeIngestor consumes trade events from the broker and appends them to
// the ledger. Appends are idempotent at the query level (net volume is an
// aggregate), so redelivery after a crash is tolerable.
type TradeIngestor struct {
	logger  *logger.Logger
	ledger  drepo.TradeLedger
	metrics drepo.Metrics
	topic   string
}

// NewTradeIngestor creates the ledger ingest handler for the given topic.
func NewTradeIngestor(lgr *logger.Logger, ledger drepo.TradeLedger, metrics drepo.Metrics, topic string) *TradeIngestor {
	return &TradeIngestor{logger: lgr, ledger: ledger, metrics: metrics, topic: topic}
}

func (i *TradeIngestor) Topic() string { return i.topic }

func (i *TradeIngestor) Handle(ctx context.Context, key, value []byte) error {
	var t models.Trade
	if err := json.Unmarshal(value, &t); err != nil {
		i.metrics.RecordError("trade_decode")
		return fmt.Errorf("decode trade: %w", err)
	}

	t.Symbol = util.NormalizeTicker(t.Symbol)
	if t.Symbol == "" {
		i.metrics.RecordError("trade_invalid")
		return fmt.Errorf("trade missing symbol")
	}
	if t.Side != models.SideBuy && t.Side != models.SideSell {
		i.metrics.RecordError("trade_invalid")
		return fmt.Errorf("trade %s has unknown side %q", t.Symbol, t.Side)
	}
	if t.Quantity <= 0 {
		i.metrics.RecordError("trade_invalid")
		return fmt.Errorf("trade %s has non-positive quantity", t.Symbol)
	}

	if err := i.ledger.Append(ctx, &t); err != nil {
		i.metrics.RecordError("ledger_append")
		return fmt.Errorf("append trade: %w", err)
	}

	i.logger.Debug("trade ingested",
		logger.String("symbol", t.Symbol),
		logger.String("side", string(t.Side)))
	return nil
}
