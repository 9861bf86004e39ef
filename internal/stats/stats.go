// Package stats holds the pure time-series statistics used by the scoring
// model. All functions guard their degenerate inputs (short windows, zero
// mean, zero variance) by returning 0 instead of erroring.
package stats

import "math"

// Volatility returns the population coefficient of variation of prices as a
// percentage: (population stddev / mean) * 100. Returns 0 for fewer than two
// points or a zero mean.
func Volatility(prices []float64) float64 {
	if len(prices) < 2 {
		return 0
	}
	mean := mean(prices)
	if mean == 0 {
		return 0
	}
	return (math.Sqrt(variance(prices, mean)) / mean) * 100
}

// MeanReversionSignal maps the last price's z-score against the full-window
// population mean to [-100, 100]. The sign is inverted on purpose: a price far
// above its recent mean expects reversion down and scores negatively.
func MeanReversionSignal(prices []float64) float64 {
	if len(prices) < 2 {
		return 0
	}
	mean := mean(prices)
	std := math.Sqrt(variance(prices, mean))
	if std == 0 {
		return 0
	}
	z := (prices[len(prices)-1] - mean) / std
	return clamp(-z*10, -100, 100)
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func variance(xs []float64, mean float64) float64 {
	sum := 0.0
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return sum / float64(len(xs))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
