package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"SkinPulse/internal/catalog"
	"SkinPulse/internal/domain/models"
	internalrepo "SkinPulse/internal/repository"
	"SkinPulse/pkg/util"

	"github.com/stretchr/testify/require"
)

func TestBuildEmptyStoreReturnsEmpty(t *testing.T) {
	r := NewRecommender(internalrepo.NewMemoryStore())

	recs, err := r.Build(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, recs)
	require.Empty(t, recs)
}

func TestBuildColdStartRanksSingleSnapshot(t *testing.T) {
	store := internalrepo.NewMemoryStore()
	// Nobody has a week of history yet: one snapshot qualifies.
	seedSeries(t, store, 3, 2, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	r := NewRecommender(store)

	recs, err := r.Build(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recs, 3)
}

func TestBuildWeekThresholdExcludesThinHistory(t *testing.T) {
	store := internalrepo.NewMemoryStore()
	ctx := context.Background()
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	// Two skins with 10 days, one with only 3. Once any item has a full
	// week the thin one must drop out.
	seedSeries(t, store, 2, 10, start)
	entry := catalog.Universe[2]
	skin := &models.Skin{Name: entry.Name, Rarity: entry.Rarity}
	require.NoError(t, store.CreateSkin(ctx, skin))
	for d := 0; d < 3; d++ {
		require.NoError(t, store.SaveSnapshot(ctx, &models.PriceSnapshot{
			SkinID:       skin.ID,
			SkinName:     skin.Name,
			SnapshotDate: util.Day(start.AddDate(0, 0, d)),
			PriceUSD:     5,
			Volume24h:    10,
			Source:       models.SourceUnknown,
		}))
	}

	recs, err := NewRecommender(store).Build(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, rec := range recs {
		require.NotEqual(t, entry.Name, rec.SkinName)
	}
}

func TestBuildRanksAndAnnotates(t *testing.T) {
	store := internalrepo.NewMemoryStore()
	seedSeries(t, store, 6, 12, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	r := NewRecommender(store)

	recs, err := r.Build(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, recs, 4)

	for i, rec := range recs {
		require.Equal(t, i+1, rec.Rank)
		require.Equal(t, 6, rec.TotalCandidates)
		require.Contains(t, rec.Reason, fmt.Sprintf("Rank #%d/6:", i+1))
		require.GreaterOrEqual(t, rec.Confidence, 0.1)
		require.LessOrEqual(t, rec.Confidence, 0.99)
		require.Positive(t, rec.LatestPriceUSD)
		if i > 0 {
			require.LessOrEqual(t, rec.Score, recs[i-1].Score)
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	store := internalrepo.NewMemoryStore()
	seedSeries(t, store, 8, 15, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	r := NewRecommender(store)

	first, err := r.Build(context.Background(), 5)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := r.Build(context.Background(), 5)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}
