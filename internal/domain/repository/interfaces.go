package repository

import (
	"context"
	"time"

	"SkinPulse/internal/domain/models"
)

// Provider fetches market ticks for the tracked universe. Implementations are
// swappable strategies (steam scrape, generic HTTP API, deterministic mock).
type Provider interface {
	Name() string
	SupportsHistory() bool
	FetchDailyTicks(ctx context.Context, date time.Time) ([]models.MarketTick, error)
	FetchHistoryTicks(ctx context.Context, days int) ([]models.MarketTick, error)
	ListingURL(skinName string) string
	ResolveImageURL(ctx context.Context, skinName string) (string, error)
}

// TickStream is an optional push feed of intraday ticks (websocket).
type TickStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.MarketTick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher hands ticks to the ingestion pipeline (Kafka backend).
type Publisher interface {
	Publish(ctx context.Context, t *models.MarketTick) error
	PublishBatch(ctx context.Context, ticks []*models.MarketTick) error
	Close() error
}

// Metrics records operational counters for ingestion and serving.
type Metrics interface {
	RecordSnapshotStored(source, skin string)
	RecordError(kind string)
	RecordLastPrice(skin string, price float64)
	RecordLatency(op string, seconds float64)
}
