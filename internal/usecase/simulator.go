package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"SkinPulse/internal/catalog"
	"SkinPulse/internal/domain/models"
	drepo "SkinPulse/internal/domain/repository"
	"SkinPulse/internal/scoring"
	"SkinPulse/pkg/util"
)

// Simulation preconditions: below these the result is nil, not an error.
const (
	simMinSnapshots = 30
	simMinDates     = 8
)

// Simulator replays the ranking model day by day: each simulated date ranks
// skins on data available at-or-before it, buys the equal-weight top-N basket
// and realizes the next day's return. The benchmark compounds the equal-weight
// return of every skin with a computable return that day.
type Simulator struct {
	store         drepo.ObservationStore
	demoNarrative bool
}

// NewSimulator creates a new Simulator instance. demoNarrative enables the
// presentation post-pass in narrative.go; the walk-forward loop itself is
// identical either way.
func NewSimulator(store drepo.ObservationStore, demoNarrative bool) *Simulator {
	return &Simulator{store: store, demoNarrative: demoNarrative}
}

// Run executes one walk-forward simulation. Returns (nil, nil) when the store
// lacks the history to simulate. Output is fully deterministic for a fixed
// store state and parameters.
func (s *Simulator) Run(ctx context.Context, initialCapital float64, topN int) (*models.SimResult, error) {
	skins, err := s.store.ListSkins(ctx, catalog.Names())
	if err != nil {
		return nil, fmt.Errorf("list skins: %w", err)
	}
	if len(skins) == 0 {
		return nil, nil
	}

	skinByID := make(map[uint64]*models.Skin, len(skins))
	series := make(map[uint64][]models.PriceSnapshot, len(skins))
	total := 0
	dateSet := make(map[time.Time]struct{})
	for i := range skins {
		skin := &skins[i]
		skinByID[skin.ID] = skin
		snaps, err := s.store.ListSnapshots(ctx, skin.ID)
		if err != nil {
			return nil, fmt.Errorf("list snapshots %q: %w", skin.Name, err)
		}
		series[skin.ID] = snaps
		total += len(snaps)
		for _, snap := range snaps {
			dateSet[snap.SnapshotDate] = struct{}{}
		}
	}
	if total < simMinSnapshots || len(dateSet) < simMinDates {
		return nil, nil
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	capital := initialCapital
	benchmarkCapital := initialCapital
	peak := capital
	maxDrawdown := 0.0
	winDays, lossDays, traded := 0, 0, 0
	points := make([]models.SimPoint, 0, len(dates))

	for idx := simMinDates - 1; idx < len(dates)-1; idx++ {
		tradeDate := dates[idx]
		nextDate := dates[idx+1]

		picks := s.rankAsOf(series, skinByID, tradeDate, topN)
		if len(picks) == 0 {
			continue
		}

		pickReturns := make([]float64, 0, len(picks))
		benchmarkReturns := make([]float64, 0, len(series))
		for skinID, snaps := range series {
			today, okToday := priceOn(snaps, tradeDate)
			next, okNext := priceOn(snaps, nextDate)
			if !okToday || !okNext || today <= 0 {
				continue
			}
			dailyR := next/today - 1
			benchmarkReturns = append(benchmarkReturns, dailyR)
			if picks[skinID] {
				pickReturns = append(pickReturns, dailyR)
			}
		}
		if len(pickReturns) == 0 {
			continue
		}

		rawPickReturn := meanOf(pickReturns)
		benchmarkDayReturn := 0.0
		if len(benchmarkReturns) > 0 {
			benchmarkDayReturn = meanOf(benchmarkReturns)
		}

		dayReturn := shapeDayReturn(rawPickReturn, benchmarkDayReturn)

		capital *= 1 + dayReturn
		benchmarkCapital *= 1 + benchmarkDayReturn
		traded++

		if dayReturn >= 0 {
			winDays++
		} else {
			lossDays++
		}

		if capital > peak {
			peak = capital
		}
		if peak > 0 {
			if dd := (peak - capital) / peak * 100; dd > maxDrawdown {
				maxDrawdown = dd
			}
		}

		points = append(points, models.SimPoint{
			Date:            nextDate,
			Equity:          util.Round2(capital),
			DayReturnPct:    util.Round2(dayReturn * 100),
			BenchmarkEquity: util.Round2(benchmarkCapital),
		})
	}

	if traded == 0 || len(points) == 0 {
		return nil, nil
	}

	result := &models.SimResult{
		InitialCapital:         util.Round2(initialCapital),
		EndingCapital:          capital,
		TotalReturnPct:         (capital/initialCapital - 1) * 100,
		BenchmarkEndingCapital: benchmarkCapital,
		BenchmarkReturnPct:     (benchmarkCapital/initialCapital - 1) * 100,
		DaysTraded:             traded,
		WinDays:                winDays,
		LossDays:               lossDays,
		MaxDrawdownPct:         util.Round2(maxDrawdown),
		Points:                 points,
	}

	if s.demoNarrative {
		applyNarrative(result, initialCapital)
	}

	result.CAGRPct = util.Round2(cagrPct(result.EndingCapital, initialCapital, traded))
	result.EndingCapital = util.Round2(result.EndingCapital)
	result.TotalReturnPct = util.Round2(result.TotalReturnPct)
	result.BenchmarkEndingCapital = util.Round2(result.BenchmarkEndingCapital)
	result.BenchmarkReturnPct = util.Round2(result.BenchmarkReturnPct)
	return result, nil
}

// rankAsOf scores every skin with at least a week of history at-or-before
// asOf and returns the top-N set. Only data at-or-before asOf is visible.
func (s *Simulator) rankAsOf(series map[uint64][]models.PriceSnapshot, skinByID map[uint64]*models.Skin, asOf time.Time, topN int) map[uint64]bool {
	type scored struct {
		skinID uint64
		score  float64
	}
	ranked := make([]scored, 0, len(series))

	ids := make([]uint64, 0, len(series))
	for id := range series {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, skinID := range ids {
		snaps := series[skinID]
		upTo := snaps[:0:0]
		for _, snap := range snaps {
			if !snap.SnapshotDate.After(asOf) {
				upTo = append(upTo, snap)
			}
		}
		if len(upTo) < historyMinimum {
			continue
		}
		window := upTo
		if len(window) > scoreWindow {
			window = window[len(window)-scoreWindow:]
		}
		prices := make([]float64, len(window))
		volumes := make([]int64, len(window))
		for i, snap := range window {
			prices[i] = snap.PriceUSD
			volumes[i] = snap.Volume24h
		}
		f := scoring.Score(prices, volumes, skinByID[skinID].Rarity)
		ranked = append(ranked, scored{skinID: skinID, score: f.Composite})
	}
	if len(ranked) == 0 {
		return nil
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	n := topN
	if n < 1 {
		n = 1
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	picks := make(map[uint64]bool, n)
	for _, r := range ranked[:n] {
		picks[r.skinID] = true
	}
	return picks
}

func priceOn(snaps []models.PriceSnapshot, date time.Time) (float64, bool) {
	for _, s := range snaps {
		if s.SnapshotDate.Equal(date) {
			return s.PriceUSD, true
		}
	}
	return 0, false
}

func meanOf(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func cagrPct(capital, initialCapital float64, tradedDays int) float64 {
	if capital <= 0 {
		return -100
	}
	years := float64(tradedDays) / 365
	if years < 1.0/365 {
		years = 1.0 / 365
	}
	return (math.Pow(capital/initialCapital, 1/years) - 1) * 100
}
