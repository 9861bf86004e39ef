// Package scoring implements the composite ranking model: momentum, inverted
// volatility, liquidity, mean reversion and a small rarity tie-break combined
// with fixed weights. Scores are deterministic for a given window.
package scoring

import "SkinPulse/internal/stats"

// Fixed factor weights. Momentum dominates; volatility is capped at 100 and
// inverted before weighting so calmer series score higher.
const (
	weightMomentum      = 0.45
	weightVolatility    = 0.20
	weightLiquidity     = 0.20
	weightMeanReversion = 0.10
	weightRarity        = 0.05
)

// defaultRarityBonus applies to tiers missing from the table.
const defaultRarityBonus = 5.0

var rarityBonuses = map[string]float64{
	"Consumer":   2.0,
	"Industrial": 3.0,
	"Mil-Spec":   4.0,
	"Restricted": 5.5,
	"Classified": 7.0,
	"Covert":     8.5,
	"Contraband": 10.0,
}

// Factors holds the per-window factor values and their weighted composite.
type Factors struct {
	MomentumPct    float64
	VolatilityPct  float64
	LiquidityScore float64
	MeanReversion  float64
	RarityBonus    float64
	Composite      float64
}

// RarityBonus returns the fixed bonus for a rarity tier.
func RarityBonus(rarity string) float64 {
	if b, ok := rarityBonuses[rarity]; ok {
		return b
	}
	return defaultRarityBonus
}

// Score computes the factor set over a chronological price/volume window.
// Callers enforce the minimum window length; Score itself only guards the
// arithmetic (empty window, zero first price).
func Score(prices []float64, volumes []int64, rarity string) Factors {
	var f Factors
	if len(prices) == 0 {
		return f
	}

	first, last := prices[0], prices[len(prices)-1]
	if first != 0 {
		f.MomentumPct = (last - first) / first * 100
	}
	f.VolatilityPct = stats.Volatility(prices)
	f.LiquidityScore = liquidity(volumes)
	f.MeanReversion = stats.MeanReversionSignal(prices)
	f.RarityBonus = RarityBonus(rarity)

	vol := f.VolatilityPct
	if vol > 100 {
		vol = 100
	}
	f.Composite = f.MomentumPct*weightMomentum +
		(100-vol)*weightVolatility +
		f.LiquidityScore*weightLiquidity +
		f.MeanReversion*weightMeanReversion +
		f.RarityBonus*weightRarity
	return f
}

// Confidence maps window length and volatility to [0.1, 0.99]. Longer windows
// and calmer series earn more confidence.
func Confidence(windowLen int, volatilityPct float64) float64 {
	vol := volatilityPct
	if vol > 100 {
		vol = 100
	}
	c := (float64(windowLen) / 10) * (1 - vol/100)
	if c < 0.1 {
		return 0.1
	}
	if c > 0.99 {
		return 0.99
	}
	return c
}

func liquidity(volumes []int64) float64 {
	if len(volumes) == 0 {
		return 0
	}
	sum := int64(0)
	for _, v := range volumes {
		sum += v
	}
	avg := float64(sum) / float64(len(volumes))
	score := avg / 7
	if score > 100 {
		return 100
	}
	return score
}
