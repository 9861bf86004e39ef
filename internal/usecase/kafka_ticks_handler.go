package usecase

import (
	"context"
	"encoding/json"
	"time"

	"SkinPulse/internal/domain/models"
	drepo "SkinPulse/internal/domain/repository"
	pkgkafka "SkinPulse/pkg/kafka"
	"SkinPulse/pkg/util"
)

// KafkaTicksHandler consumes tick messages and upserts them through the
// tracker, so Kafka-ingested ticks obey the same (skin, date) policy as
// direct writes.
type KafkaTicksHandler struct {
	topic   string
	tracker *Tracker
	metrics drepo.Metrics
}

func NewKafkaTicksHandler(topic string, tracker *Tracker, metrics drepo.Metrics) *KafkaTicksHandler {
	return &KafkaTicksHandler{topic: topic, tracker: tracker, metrics: metrics}
}

func (h *KafkaTicksHandler) Topic() string { return h.topic }

// incoming message schema: {name, rarity, category, date, price_usd, volume_24h, source, source_ref}
func (h *KafkaTicksHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Name      string  `json:"name"`
		Rarity    string  `json:"rarity"`
		Category  string  `json:"category"`
		Date      string  `json:"date"`
		PriceUSD  float64 `json:"price_usd"`
		Volume24h int64   `json:"volume_24h"`
		Source    string  `json:"source"`
		SourceRef string  `json:"source_ref"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	day, ok := util.ParseDay(m.Date)
	if !ok {
		h.metrics.RecordError("consumer_bad_date")
		return nil // unusable point, skip rather than retry forever
	}

	start := time.Now()
	_, err := h.tracker.IngestTicks(ctx, []models.MarketTick{{
		Name:      m.Name,
		Rarity:    m.Rarity,
		Category:  m.Category,
		Date:      day,
		PriceUSD:  m.PriceUSD,
		Volume24h: m.Volume24h,
		Source:    m.Source,
		SourceRef: m.SourceRef,
	}})
	h.metrics.RecordLatency("store_upsert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaTicksHandler)(nil)
