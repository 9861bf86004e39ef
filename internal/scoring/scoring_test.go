package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreFlatWindow(t *testing.T) {
	prices := []float64{100, 100, 100, 100}
	volumes := []int64{700, 700, 700, 700}

	f := Score(prices, volumes, "Covert")

	assert.Zero(t, f.MomentumPct)
	assert.Zero(t, f.VolatilityPct)
	assert.Zero(t, f.MeanReversion)
	assert.InDelta(t, 100.0, f.LiquidityScore, 1e-9)
	assert.InDelta(t, 8.5, f.RarityBonus, 1e-9)
	// 0*0.45 + 100*0.20 + 100*0.20 + 0*0.10 + 8.5*0.05
	assert.InDelta(t, 40.425, f.Composite, 1e-9)
}

func TestScoreZeroFirstPrice(t *testing.T) {
	f := Score([]float64{0, 50}, []int64{10, 10}, "Consumer")
	assert.Zero(t, f.MomentumPct)
}

func TestScoreEmptyWindow(t *testing.T) {
	f := Score(nil, nil, "Covert")
	assert.Zero(t, f.Composite)
}

func TestScoreDeterministic(t *testing.T) {
	prices := []float64{42.1, 44.9, 41.3, 47.0, 45.5, 48.2, 46.8, 49.9}
	volumes := []int64{310, 280, 420, 390, 350, 410, 330, 360}

	first := Score(prices, volumes, "Restricted")
	for i := 0; i < 5; i++ {
		again := Score(prices, volumes, "Restricted")
		require.Equal(t, first, again)
	}
}

func TestLiquidityCap(t *testing.T) {
	f := Score([]float64{10, 11}, []int64{100000, 100000}, "Mil-Spec")
	assert.InDelta(t, 100.0, f.LiquidityScore, 1e-9)
}

func TestVolatilityCappedBeforeInversion(t *testing.T) {
	// A wildly volatile series must not drive the volatility term below zero.
	calm := Score([]float64{100, 101, 100, 101}, []int64{0, 0, 0, 0}, "Consumer")
	wild := Score([]float64{1, 500, 2, 400}, []int64{0, 0, 0, 0}, "Consumer")
	// Both composites remain finite and the wild window loses the volatility
	// term entirely (capped at 100 -> contributes 0).
	assert.Greater(t, calm.Composite-calm.MomentumPct*0.45, wild.Composite-wild.MomentumPct*0.45-wild.MeanReversion*0.10)
}

func TestRarityBonusTable(t *testing.T) {
	cases := map[string]float64{
		"Consumer":   2.0,
		"Industrial": 3.0,
		"Mil-Spec":   4.0,
		"Restricted": 5.5,
		"Classified": 7.0,
		"Covert":     8.5,
		"Contraband": 10.0,
		"Exotic":     5.0, // unknown tier falls back
		"":           5.0,
	}
	for rarity, want := range cases {
		assert.InDelta(t, want, RarityBonus(rarity), 1e-9, rarity)
	}
}

func TestConfidenceBounds(t *testing.T) {
	assert.InDelta(t, 0.1, Confidence(0, 0), 1e-9)
	assert.InDelta(t, 0.1, Confidence(8, 100), 1e-9)
	assert.InDelta(t, 0.1, Confidence(8, 250), 1e-9) // capped before inversion
	assert.InDelta(t, 0.8, Confidence(8, 0), 1e-9)
	assert.InDelta(t, 0.99, Confidence(20, 0), 1e-9)
}
