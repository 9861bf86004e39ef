package provider

import (
	"context"
	"hash/fnv"
	"math"
	"net/url"
	"time"

	"SkinPulse/internal/catalog"
	"SkinPulse/internal/domain/models"
	drepo "SkinPulse/internal/domain/repository"
	"SkinPulse/pkg/util"
)

// MockProvider synthesizes deterministic price walks so the whole system runs
// with no network access. A given (skin, date) always yields the same tick,
// which keeps simulations reproducible across restarts.
type MockProvider struct{}

// NewMockProvider creates a mock market provider.
func NewMockProvider() *MockProvider { return &MockProvider{} }

func (p *MockProvider) Name() string { return "mock" }

func (p *MockProvider) SupportsHistory() bool { return true }

func (p *MockProvider) FetchDailyTicks(_ context.Context, date time.Time) ([]models.MarketTick, error) {
	day := util.Day(date)
	ticks := make([]models.MarketTick, 0, len(catalog.Universe))
	for _, entry := range catalog.Universe {
		ticks = append(ticks, p.tickFor(entry, day))
	}
	return ticks, nil
}

func (p *MockProvider) FetchHistoryTicks(_ context.Context, days int) ([]models.MarketTick, error) {
	start := util.Today().AddDate(0, 0, -(days - 1))
	ticks := make([]models.MarketTick, 0, days*len(catalog.Universe))
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		for _, entry := range catalog.Universe {
			ticks = append(ticks, p.tickFor(entry, day))
		}
	}
	return ticks, nil
}

func (p *MockProvider) ListingURL(skinName string) string {
	return "https://steamcommunity.com/market/listings/730/" + url.PathEscape(skinName)
}

func (p *MockProvider) ResolveImageURL(_ context.Context, _ string) (string, error) {
	return "", nil // mock data carries no images
}

func (p *MockProvider) tickFor(entry catalog.Entry, day time.Time) models.MarketTick {
	seed := seedFor(entry.Name)
	dayIdx := float64(day.Unix() / 86400)

	base := 2.0 + float64(seed%880)/10.0 // 2.00 .. 89.90
	trend := 1.0 + 0.0009*math.Sin(float64(seed%7))*dayIdx/365.0
	wave := 0.06*math.Sin(dayIdx*0.21+float64(seed%13)) +
		0.025*math.Sin(dayIdx*0.047+float64(seed%29))
	price := base * trend * (1.0 + wave)
	if price < 0.03 {
		price = 0.03
	}

	volume := 40 + int64(seed%400) + int64(25.0*math.Sin(dayIdx*0.33+float64(seed%11)))
	if volume < 1 {
		volume = 1
	}

	return models.MarketTick{
		Name:      entry.Name,
		Rarity:    entry.Rarity,
		Category:  entry.Category,
		Date:      day,
		PriceUSD:  util.Round2(price),
		Volume24h: volume,
		Source:    models.SourceUnknown,
	}
}

func seedFor(name string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return h.Sum64()
}

var _ drepo.Provider = (*MockProvider)(nil)
