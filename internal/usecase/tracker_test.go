package usecase

import (
	"context"
	"testing"
	"time"

	"SkinPulse/internal/catalog"
	"SkinPulse/internal/domain/models"
	internalrepo "SkinPulse/internal/repository"
	"SkinPulse/pkg/util"

	"github.com/stretchr/testify/require"
)

func TestIngestTicksCreatesOneRowPerDay(t *testing.T) {
	store := internalrepo.NewMemoryStore()
	tracker := newTestTracker(t, store, &fakeProvider{})
	ctx := context.Background()

	day := util.Day(time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC))
	tick := models.MarketTick{
		Name:      catalog.Universe[0].Name,
		Rarity:    catalog.Universe[0].Rarity,
		Date:      day,
		PriceUSD:  12.50,
		Volume24h: 300,
	}

	created, err := tracker.IngestTicks(ctx, []models.MarketTick{tick})
	require.NoError(t, err)
	require.Equal(t, 1, created)

	// Same (skin, date) again: no new row, no overwrite.
	tick.PriceUSD = 99.0
	created, err = tracker.IngestTicks(ctx, []models.MarketTick{tick})
	require.NoError(t, err)
	require.Equal(t, 0, created)

	skin, err := store.GetSkinByName(ctx, tick.Name)
	require.NoError(t, err)
	require.NotNil(t, skin)
	snap, err := store.GetSnapshot(ctx, skin.ID, day)
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Equal(t, 12.50, snap.PriceUSD)
	require.Equal(t, models.SourceUnknown, snap.Source)
}

func TestIngestTicksVerifiedOverwritesUnknown(t *testing.T) {
	store := internalrepo.NewMemoryStore()
	tracker := newTestTracker(t, store, &fakeProvider{})
	ctx := context.Background()

	day := util.Day(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	name := catalog.Universe[0].Name

	_, err := tracker.IngestTicks(ctx, []models.MarketTick{{
		Name: name, Date: day, PriceUSD: 10.0, Volume24h: 100,
	}})
	require.NoError(t, err)

	// Verified source promotes the unknown row in place.
	created, err := tracker.IngestTicks(ctx, []models.MarketTick{{
		Name: name, Date: day, PriceUSD: 11.25, Volume24h: 140, Source: "steam_pricehistory",
	}})
	require.NoError(t, err)
	require.Equal(t, 0, created)

	skin, err := store.GetSkinByName(ctx, name)
	require.NoError(t, err)
	snap, err := store.GetSnapshot(ctx, skin.ID, day)
	require.NoError(t, err)
	require.Equal(t, 11.25, snap.PriceUSD)
	require.Equal(t, int64(140), snap.Volume24h)
	require.True(t, snap.Verified())

	// A later unknown tick never demotes a verified row.
	_, err = tracker.IngestTicks(ctx, []models.MarketTick{{
		Name: name, Date: day, PriceUSD: 1.0, Volume24h: 1,
	}})
	require.NoError(t, err)
	snap, err = store.GetSnapshot(ctx, skin.ID, day)
	require.NoError(t, err)
	require.Equal(t, 11.25, snap.PriceUSD)
	require.Equal(t, "steam_pricehistory", snap.Source)
}

func TestEnsureUniverseCreatesCatalog(t *testing.T) {
	store := internalrepo.NewMemoryStore()
	tracker := newTestTracker(t, store, &fakeProvider{})
	ctx := context.Background()

	touched, err := tracker.EnsureUniverse(ctx, false)
	require.NoError(t, err)
	require.Equal(t, len(catalog.Universe), touched)

	skins, err := store.ListSkins(ctx, catalog.Names())
	require.NoError(t, err)
	require.Len(t, skins, len(catalog.Universe))
	for _, s := range skins {
		require.NotEmpty(t, s.Rarity)
		require.NotEmpty(t, s.ListingURL)
	}

	// Idempotent: second pass touches nothing.
	touched, err = tracker.EnsureUniverse(ctx, false)
	require.NoError(t, err)
	require.Zero(t, touched)
}

func TestTrackDateSwallowsProviderFailure(t *testing.T) {
	store := internalrepo.NewMemoryStore()
	tracker := newTestTracker(t, store, &fakeProvider{failDaily: true})

	created, err := tracker.TrackDate(context.Background(), util.Today())
	require.NoError(t, err)
	require.Zero(t, created)
}

func TestSeedOnStartupSkipsWhenCovered(t *testing.T) {
	store := internalrepo.NewMemoryStore()
	p := &fakeProvider{}
	tracker := newTestTracker(t, store, p)
	ctx := context.Background()

	seedSeries(t, store, 1, 10, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, tracker.SeedOnStartup(ctx, 10))
	require.Zero(t, p.dailyCalls)
}

func TestSeedOnStartupBackfillsEmptyStore(t *testing.T) {
	store := internalrepo.NewMemoryStore()
	start := util.Today().AddDate(0, 0, -4)
	var history []models.MarketTick
	for d := 0; d < 5; d++ {
		history = append(history, models.MarketTick{
			Name:      catalog.Universe[0].Name,
			Date:      util.Day(start.AddDate(0, 0, d)),
			PriceUSD:  20 + float64(d),
			Volume24h: 50,
			Source:    "steam_pricehistory",
		})
	}
	tracker := newTestTracker(t, store, &fakeProvider{history: history})

	require.NoError(t, tracker.SeedOnStartup(context.Background(), 5))

	days, err := store.CountDistinctDates(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, days)
}
