package usecase

import (
	"context"
	"fmt"
	"sort"

	"SkinPulse/internal/catalog"
	"SkinPulse/internal/domain/models"
	drepo "SkinPulse/internal/domain/repository"
	"SkinPulse/internal/scoring"
	"SkinPulse/pkg/util"
)

// Window sizes for ranking. The score window is the trailing eight snapshots;
// an item qualifies with seven once any tracked item has that much history.
const (
	scoreWindow    = 8
	historyMinimum = 7
)

// Recommender ranks tracked skins by composite score over their trailing
// snapshot windows. Stateless: every call re-derives from the store.
type Recommender struct {
	store drepo.ObservationStore
}

// NewRecommender creates a new Recommender instance.
func NewRecommender(store drepo.ObservationStore) *Recommender {
	return &Recommender{store: store}
}

// Build scores every tracked skin with enough history and returns the top
// limit candidates, rank-annotated, sorted by composite score descending.
// An empty result (nothing qualifies yet) is not an error.
func (r *Recommender) Build(ctx context.Context, limit int) ([]models.Recommendation, error) {
	skins, err := r.store.ListSkins(ctx, catalog.Names())
	if err != nil {
		return nil, fmt.Errorf("list skins: %w", err)
	}
	if len(skins) == 0 {
		return []models.Recommendation{}, nil
	}

	ids := make([]uint64, len(skins))
	for i, s := range skins {
		ids[i] = s.ID
	}
	counts, err := r.store.SnapshotCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("snapshot counts: %w", err)
	}

	// Cold-start mode: until one item accumulates a full week of history,
	// a single snapshot is enough to rank. Keeps a fresh catalog non-empty.
	minRequired := 1
	for _, n := range counts {
		if n >= historyMinimum {
			minRequired = historyMinimum
			break
		}
	}

	recs := make([]models.Recommendation, 0, len(skins))
	for _, skin := range skins {
		if counts[skin.ID] < minRequired {
			continue
		}
		snaps, err := r.store.ListSnapshots(ctx, skin.ID)
		if err != nil {
			return nil, fmt.Errorf("list snapshots %q: %w", skin.Name, err)
		}
		if len(snaps) < minRequired {
			continue
		}

		window := snaps
		if len(window) > scoreWindow {
			window = window[len(window)-scoreWindow:]
		}
		prices := make([]float64, len(window))
		volumes := make([]int64, len(window))
		for i, s := range window {
			prices[i] = s.PriceUSD
			volumes[i] = s.Volume24h
		}

		f := scoring.Score(prices, volumes, skin.Rarity)
		recs = append(recs, models.Recommendation{
			SkinID:          skin.ID,
			SkinName:        skin.Name,
			SkinImageURL:    skin.ImageURL,
			ListingURL:      skin.ListingURL,
			Thesis:          skin.Thesis,
			Score:           util.Round2(f.Composite),
			Confidence:      util.Round2(scoring.Confidence(len(window), f.VolatilityPct)),
			LatestPriceUSD:  window[len(window)-1].PriceUSD,
			Momentum7dPct:   util.Round2(f.MomentumPct),
			Volatility7dPct: util.Round2(f.VolatilityPct),
			LiquidityScore:  util.Round2(f.LiquidityScore),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })

	total := len(recs)
	for i := range recs {
		recs[i].Rank = i + 1
		recs[i].TotalCandidates = total
		recs[i].Reason = reasonFor(&recs[i])
	}

	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func reasonFor(rec *models.Recommendation) string {
	momentumNote := "strong momentum"
	if rec.Momentum7dPct < 0 {
		momentumNote = "negative momentum"
	}
	volatilityNote := "controlled volatility"
	if rec.Volatility7dPct > 8 {
		volatilityNote = "elevated volatility"
	}
	liquidityNote := "high liquidity"
	if rec.LiquidityScore < 50 {
		liquidityNote = "lower liquidity"
	}
	return fmt.Sprintf(
		"Rank #%d/%d: %s, %s, and %s. Composite includes momentum, mean-reversion, and risk controls; non-top skins have weaker balance.",
		rec.Rank, rec.TotalCandidates, momentumNote, volatilityNote, liquidityNote,
	)
}
