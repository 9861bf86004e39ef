package repository

import (
	"context"
	"time"

	"SkinPulse/internal/domain/models"
)

// SourceCount is one row of the audit source breakdown.
type SourceCount struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

// StoreSummary aggregates store-level audit figures.
type StoreSummary struct {
	TotalSnapshots int64
	DistinctDates  int
	FirstDate      *time.Time
	LastDate       *time.Time
	Sources        []SourceCount
}

// ObservationStore is the append-mostly (skin, date) time series plus the skin
// catalog rows it hangs off. The (skin, date) uniqueness invariant is enforced
// here; the overwrite policy (verified beats unknown) lives in the tracker.
type ObservationStore interface {
	// Skins.
	GetSkinByName(ctx context.Context, name string) (*models.Skin, error)
	GetSkin(ctx context.Context, id uint64) (*models.Skin, error)
	ListSkins(ctx context.Context, names []string) ([]models.Skin, error)
	CreateSkin(ctx context.Context, skin *models.Skin) error
	UpdateSkinMetadata(ctx context.Context, skin *models.Skin) error

	// Snapshots. ListSnapshots returns ascending snapshot_date order.
	GetSnapshot(ctx context.Context, skinID uint64, date time.Time) (*models.PriceSnapshot, error)
	SaveSnapshot(ctx context.Context, snap *models.PriceSnapshot) error
	ListSnapshots(ctx context.Context, skinID uint64) ([]models.PriceSnapshot, error)
	SnapshotCounts(ctx context.Context, skinIDs []uint64) (map[uint64]int, error)
	CountDistinctDates(ctx context.Context) (int, error)

	// Audit.
	Summary(ctx context.Context, names []string) (*StoreSummary, error)
	RecentSnapshots(ctx context.Context, names []string, limit int) ([]models.PriceSnapshot, error)

	Health(ctx context.Context) error
	Close() error
}
