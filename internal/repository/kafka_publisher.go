package repository

import (
	"context"

	"Aletheia/internal/domain/models"
	drepo "Aletheia/internal/domain/repository"
	pkgkafka "Aletheia/pkg/kafka"
)

// KafkaIntelligencePublisher emits intelligence update events. Publishing
// is best-effort from the resolver's perspective; the broadcast transport
// itself is external.
type KafkaIntelligencePublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewIntelligencePublisher creates a Kafka-backed publisher.
func NewIntelligencePublisher(producer *pkgkafka.Producer, topic string) drepo.Publisher {
	return &KafkaIntelligencePublisher{producer: producer, topic: topic}
}

func (p *KafkaIntelligencePublisher) PublishIntelligence(ctx context.Context, rec *models.IntelligenceRecord) error {
	return p.producer.Publish(ctx, p.topic, []byte(rec.Ticker), map[string]interface{}{
		"ticker":            rec.Ticker,
		"reliability_score": rec.ReliabilityScore,
		"regime":            rec.Regime,
		"prediction":        rec.Prediction,
		"last_updated":      rec.LastUpdated.Unix(),
	})
}

func (p *KafkaIntelligencePublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
