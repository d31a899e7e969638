package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Aletheia/internal/domain/models"
	drepo "Aletheia/internal/domain/repository"
	"Aletheia/pkg/cache"
	"Aletheia/pkg/logger"
	"Aletheia/pkg/util"
)

const recordKeyPrefix = "intel:"

// RedisRecordStore keeps intelligence records as JSON documents keyed by
// uppercase ticker. Records are written without expiration: the subsystem
// upserts and heals but never deletes.
type RedisRecordStore struct {
	cache  cache.Service
	logger *logger.Logger
}

// NewRecordStore creates a record store over the given cache backend.
func NewRecordStore(c cache.Service, lgr *logger.Logger) drepo.RecordStore {
	return &RedisRecordStore{cache: c, logger: lgr}
}

// Get returns the record for ticker, or (nil, nil) when none exists.
func (s *RedisRecordStore) Get(ctx context.Context, ticker string) (*models.IntelligenceRecord, error) {
	var rec models.IntelligenceRecord
	err := s.cache.Get(ctx, s.key(ticker), &rec)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("record get %s: %w", ticker, err)
	}
	return &rec, nil
}

// Upsert merge-writes fields into the record, creating it if absent.
// Unset fields keep their stored values; last_updated always moves.
func (s *RedisRecordStore) Upsert(ctx context.Context, ticker string, fields models.RecordFields) error {
	ticker = util.NormalizeTicker(ticker)

	rec, err := s.Get(ctx, ticker)
	if err != nil {
		return err
	}
	if rec == nil {
		rec = &models.IntelligenceRecord{
			Ticker:       ticker,
			IsConsistent: true,
		}
	}

	if fields.ReliabilityScore != nil {
		rec.ReliabilityScore = *fields.ReliabilityScore
	}
	if fields.Regime != nil {
		rec.Regime = *fields.Regime
	}
	if fields.Prediction != nil {
		rec.Prediction = *fields.Prediction
	}
	if fields.NarrativeSummary != nil {
		rec.NarrativeSummary = *fields.NarrativeSummary
	}
	if fields.IsConsistent != nil {
		rec.IsConsistent = *fields.IsConsistent
	}
	if fields.History != nil {
		rec.History = *fields.History
	}
	rec.LastUpdated = time.Now()

	if err := s.cache.Set(ctx, s.key(ticker), rec, 0); err != nil {
		return fmt.Errorf("record upsert %s: %w", ticker, err)
	}
	return nil
}

// SelfHeal overwrites only the history of an existing record. Missing
// records are left alone: healing is corrective, never creative.
func (s *RedisRecordStore) SelfHeal(ctx context.Context, ticker string, history []models.PricePoint) error {
	ticker = util.NormalizeTicker(ticker)

	rec, err := s.Get(ctx, ticker)
	if err != nil {
		return err
	}
	if rec == nil {
		s.logger.Warn("self-heal skipped, record missing", logger.String("ticker", ticker))
		return nil
	}

	rec.History = history
	rec.LastUpdated = time.Now()

	if err := s.cache.Set(ctx, s.key(ticker), rec, 0); err != nil {
		return fmt.Errorf("record self-heal %s: %w", ticker, err)
	}
	return nil
}

func (s *RedisRecordStore) Close() error {
	return s.cache.Close()
}

func (s *RedisRecordStore) key(ticker string) string {
	return recordKeyPrefix + util.NormalizeTicker(ticker)
}
