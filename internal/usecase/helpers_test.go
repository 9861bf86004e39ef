package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"SkinPulse/internal/catalog"
	"SkinPulse/internal/domain/models"
	internalrepo "SkinPulse/internal/repository"
	applogger "SkinPulse/pkg/logger"
	"SkinPulse/pkg/util"

	"github.com/stretchr/testify/require"
)

type noopMetrics struct{}

func (noopMetrics) RecordSnapshotStored(string, string) {}
func (noopMetrics) RecordError(string)                  {}
func (noopMetrics) RecordLastPrice(string, float64)     {}
func (noopMetrics) RecordLatency(string, float64)       {}

// fakeProvider serves canned ticks and records call counts.
type fakeProvider struct {
	history     []models.MarketTick
	daily       map[string][]models.MarketTick
	failDaily   bool
	historyless bool
	dailyCalls  int
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) SupportsHistory() bool { return !p.historyless }

func (p *fakeProvider) FetchDailyTicks(_ context.Context, date time.Time) ([]models.MarketTick, error) {
	p.dailyCalls++
	if p.failDaily {
		return nil, errors.New("remote unavailable")
	}
	return p.daily[util.FormatDay(date)], nil
}

func (p *fakeProvider) FetchHistoryTicks(_ context.Context, days int) ([]models.MarketTick, error) {
	if p.historyless {
		return nil, errors.New("history not supported")
	}
	return p.history, nil
}

func (p *fakeProvider) ListingURL(name string) string {
	return "https://example.test/listings/" + name
}

func (p *fakeProvider) ResolveImageURL(context.Context, string) (string, error) {
	return "", nil
}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)
	return l
}

func newTestTracker(t *testing.T, store *internalrepo.MemoryStore, p *fakeProvider) *Tracker {
	t.Helper()
	return NewTracker(store, p, noopMetrics{}, testLogger(t))
}

// seedSeries writes a deterministic daily series for the first n catalog skins
// starting at start. Prices follow a fixed per-skin drift so rankings are
// stable across runs.
func seedSeries(t *testing.T, store *internalrepo.MemoryStore, skins, days int, start time.Time) {
	t.Helper()
	ctx := context.Background()
	for si := 0; si < skins; si++ {
		entry := catalog.Universe[si]
		skin := &models.Skin{Name: entry.Name, Rarity: entry.Rarity, Category: entry.Category}
		require.NoError(t, store.CreateSkin(ctx, skin))
		for d := 0; d < days; d++ {
			price := 10.0 + float64(si) + float64(d)*(0.05+0.01*float64(si%5))
			require.NoError(t, store.SaveSnapshot(ctx, &models.PriceSnapshot{
				SkinID:       skin.ID,
				SkinName:     skin.Name,
				SnapshotDate: util.Day(start.AddDate(0, 0, d)),
				PriceUSD:     price,
				Volume24h:    int64(100 + 10*si + d),
				Source:       models.SourceUnknown,
				SourceRef:    fmt.Sprintf("seed-%d-%d", si, d),
			}))
		}
	}
}
