package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"SkinPulse/internal/domain/models"
	"SkinPulse/pkg/util"
)

func day(s string) time.Time {
	d, _ := util.ParseDay(s)
	return d
}

func TestMemoryStoreSkinRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	skin := &models.Skin{Name: "AK-47 | Redline (Field-Tested)", Rarity: "Classified", Category: "Rifle"}
	require.NoError(t, store.CreateSkin(ctx, skin))
	require.Equal(t, models.SkinIDFor(skin.Name), skin.ID)

	got, err := store.GetSkinByName(ctx, skin.Name)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, skin.ID, got.ID)

	got.ImageURL = "https://example.com/redline.png"
	require.NoError(t, store.UpdateSkinMetadata(ctx, got))

	byID, err := store.GetSkin(ctx, skin.ID)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/redline.png", byID.ImageURL)

	missing, err := store.GetSkinByName(ctx, "no such skin")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestMemoryStoreOneSnapshotPerDay(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	id := models.SkinIDFor("test")

	first := &models.PriceSnapshot{
		SkinID: id, SkinName: "test",
		SnapshotDate: day("2026-08-01").Add(9 * time.Hour),
		PriceUSD:     10, Volume24h: 100, Source: models.SourceUnknown,
	}
	require.NoError(t, store.SaveSnapshot(ctx, first))

	second := &models.PriceSnapshot{
		SkinID: id, SkinName: "test",
		SnapshotDate: day("2026-08-01").Add(17 * time.Hour),
		PriceUSD:     11.5, Volume24h: 120, Source: "steam",
	}
	require.NoError(t, store.SaveSnapshot(ctx, second))

	list, err := store.ListSnapshots(ctx, id)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 11.5, list[0].PriceUSD)
	require.Equal(t, "steam", list[0].Source)
	// The stored date is normalized to midnight regardless of the tick time.
	require.Equal(t, day("2026-08-01"), list[0].SnapshotDate)
}

func TestMemoryStoreListSnapshotsAscending(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	id := models.SkinIDFor("ordered")

	for _, d := range []string{"2026-08-03", "2026-08-01", "2026-08-02"} {
		require.NoError(t, store.SaveSnapshot(ctx, &models.PriceSnapshot{
			SkinID: id, SkinName: "ordered", SnapshotDate: day(d),
			PriceUSD: 5, Volume24h: 50, Source: models.SourceUnknown,
		}))
	}

	list, err := store.ListSnapshots(ctx, id)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i := 1; i < len(list); i++ {
		require.True(t, list[i-1].SnapshotDate.Before(list[i].SnapshotDate))
	}
}

func TestMemoryStoreSummaryAndCounts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	names := []string{"a", "b"}
	for si, name := range names {
		id := models.SkinIDFor(name)
		src := models.SourceUnknown
		if si == 1 {
			src = "steam"
		}
		for _, d := range []string{"2026-08-01", "2026-08-02", "2026-08-03"} {
			require.NoError(t, store.SaveSnapshot(ctx, &models.PriceSnapshot{
				SkinID: id, SkinName: name, SnapshotDate: day(d),
				PriceUSD: 1, Volume24h: 1, Source: src,
			}))
		}
	}

	sum, err := store.Summary(ctx, names)
	require.NoError(t, err)
	require.Equal(t, int64(6), sum.TotalSnapshots)
	require.Equal(t, 3, sum.DistinctDates)
	require.Equal(t, day("2026-08-01"), *sum.FirstDate)
	require.Equal(t, day("2026-08-03"), *sum.LastDate)
	require.Len(t, sum.Sources, 2)

	counts, err := store.SnapshotCounts(ctx, []uint64{models.SkinIDFor("a"), models.SkinIDFor("missing")})
	require.NoError(t, err)
	require.Equal(t, 3, counts[models.SkinIDFor("a")])
	_, ok := counts[models.SkinIDFor("missing")]
	require.False(t, ok)

	dates, err := store.CountDistinctDates(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, dates)
}

func TestMemoryStoreRecentSnapshotsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for _, d := range []string{"2026-08-01", "2026-08-02", "2026-08-03", "2026-08-04"} {
		require.NoError(t, store.SaveSnapshot(ctx, &models.PriceSnapshot{
			SkinID: models.SkinIDFor("x"), SkinName: "x", SnapshotDate: day(d),
			PriceUSD: 2, Volume24h: 10, Source: "steam",
		}))
	}

	recent, err := store.RecentSnapshots(ctx, []string{"x"}, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, day("2026-08-04"), recent[0].SnapshotDate)
	require.Equal(t, day("2026-08-03"), recent[1].SnapshotDate)
}
