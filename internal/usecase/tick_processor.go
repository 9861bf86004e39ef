package usecase

import (
	"context"
	"fmt"
	"time"

	"SkinPulse/internal/domain/models"
	drepo "SkinPulse/internal/domain/repository"
)

// TickProcessor routes incoming ticks to the configured backend: "kafka"
// publishes them for the consumer group to persist, "direct" upserts into the
// observation store through the tracker.
type TickProcessor struct {
	pub     drepo.Publisher
	tracker *Tracker
	metrics drepo.Metrics
	backend string
}

// NewTickProcessor creates a new TickProcessor instance.
func NewTickProcessor(pub drepo.Publisher, tracker *Tracker, metrics drepo.Metrics, backend string) *TickProcessor {
	return &TickProcessor{pub: pub, tracker: tracker, metrics: metrics, backend: backend}
}

// Process routes a single tick to the configured backend.
func (p *TickProcessor) Process(ctx context.Context, t *models.MarketTick) error {
	if t == nil {
		return fmt.Errorf("tick is nil")
	}

	start := time.Now()
	var err error
	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, t)
	case "direct":
		_, err = p.tracker.IngestTicks(ctx, []models.MarketTick{*t})
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}
	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process tick: %w", err)
	}

	p.metrics.RecordLastPrice(t.Name, t.PriceUSD)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())
	return nil
}

// ProcessBatch routes a tick batch to the configured backend.
func (p *TickProcessor) ProcessBatch(ctx context.Context, ticks []*models.MarketTick) error {
	if len(ticks) == 0 {
		return nil
	}

	start := time.Now()
	var err error
	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, ticks)
	case "direct":
		batch := make([]models.MarketTick, len(ticks))
		for i, t := range ticks {
			batch[i] = *t
		}
		_, err = p.tracker.IngestTicks(ctx, batch)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}
	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())
	return nil
}

// Close closes the publisher if one is attached.
func (p *TickProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
}
