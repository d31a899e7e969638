package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"Aletheia/internal/domain/models"
	drepo "Aletheia/internal/domain/repository"
	"Aletheia/pkg/logger"
	"Aletheia/pkg/queue"
)

const healMessageType = "history.heal"

type healPayload struct {
	Ticker  string              `json:"ticker"`
	History []models.PricePoint `json:"history"`
}

// QueueHealDispatcher implements the fire-and-forget heal queue over the
// background message queue.
type QueueHealDispatcher struct {
	queue queue.Service
}

// NewHealDispatcher creates a heal queue backed by q.
func NewHealDispatcher(q queue.Service) drepo.HealQueue {
	return &QueueHealDispatcher{queue: q}
}

func (d *QueueHealDispatcher) Enqueue(ctx context.Context, ticker string, history []models.PricePoint) error {
	return d.queue.PublishMessage(ctx, healMessageType, healPayload{
		Ticker:  ticker,
		History: history,
	})
}

// HealJob applies queued history repairs to the record store.
type HealJob struct {
	logger  *logger.Logger
	store   drepo.RecordStore
	metrics drepo.Metrics
}

// NewHealJob creates the queue job that performs self-heal writes.
func NewHealJob(lgr *logger.Logger, store drepo.RecordStore, metrics drepo.Metrics) *HealJob {
	return &HealJob{logger: lgr, store: store, metrics: metrics}
}

func (j *HealJob) Name() string { return "history-heal" }

func (j *HealJob) Type() string { return healMessageType }

func (j *HealJob) Handle(ctx context.Context, payload json.RawMessage) error {
	p, err := queue.ParsePayload[healPayload](payload)
	if err != nil {
		return fmt.Errorf("heal payload: %w", err)
	}

	if err := j.store.SelfHeal(ctx, p.Ticker, p.History); err != nil {
		return fmt.Errorf("heal %s: %w", p.Ticker, err)
	}

	j.metrics.RecordSelfHeal()
	j.logger.Info("history healed",
		logger.String("ticker", p.Ticker),
		logger.Int("points", len(p.History)))
	return nil
}
