package repository

import (
	"context"

	"SkinPulse/internal/domain/models"
	"SkinPulse/internal/domain/repository"
	pkgkafka "SkinPulse/pkg/kafka"
	"SkinPulse/pkg/util"
)

// KafkaTickPublisher implements Publisher for the kafka backend. Messages are
// keyed by skin name so a skin's ticks stay ordered within one partition.
type KafkaTickPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaTickPublisher creates a Kafka tick publisher.
func NewKafkaTickPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaTickPublisher{producer: producer, topic: topic}
}

func tickPayload(t *models.MarketTick) map[string]interface{} {
	return map[string]interface{}{
		"name":       t.Name,
		"rarity":     t.Rarity,
		"category":   t.Category,
		"date":       util.FormatDay(t.Date),
		"price_usd":  t.PriceUSD,
		"volume_24h": t.Volume24h,
		"source":     t.Source,
		"source_ref": t.SourceRef,
	}
}

func (p *KafkaTickPublisher) Publish(ctx context.Context, t *models.MarketTick) error {
	return p.producer.Publish(ctx, p.topic, []byte(t.Name), tickPayload(t))
}

func (p *KafkaTickPublisher) PublishBatch(ctx context.Context, ticks []*models.MarketTick) error {
	if len(ticks) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(ticks))
	for i, t := range ticks {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(t.Name),
			Value: tickPayload(t),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaTickPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
