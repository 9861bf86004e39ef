package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVolatilityDegenerateWindows(t *testing.T) {
	assert.Zero(t, Volatility(nil))
	assert.Zero(t, Volatility([]float64{}))
	assert.Zero(t, Volatility([]float64{42.5}))
	// Zero mean guards the divide.
	assert.Zero(t, Volatility([]float64{-1, 1}))
}

func TestVolatilityKnownValue(t *testing.T) {
	// mean=100, population std=10 -> CV 10%.
	got := Volatility([]float64{90, 110})
	require.InDelta(t, 10.0, got, 1e-9)
}

func TestVolatilityNonNegative(t *testing.T) {
	seqs := [][]float64{
		{1, 2, 3, 4, 5},
		{100, 100, 100},
		{5.5, 3.2, 8.8, 2.1},
		{0.01, 0.02, 0.03},
	}
	for _, prices := range seqs {
		assert.GreaterOrEqual(t, Volatility(prices), 0.0)
	}
}

func TestMeanReversionSignalBounds(t *testing.T) {
	seqs := [][]float64{
		{1, 1, 1, 1000},        // huge spike up -> strongly negative
		{1000, 1000, 1000, 1},  // collapse -> strongly positive
		{100, 101, 99, 100.5},  // quiet walk
		{2, 2, 2, 2},           // zero variance
		{7},                    // short window
	}
	for _, prices := range seqs {
		got := MeanReversionSignal(prices)
		assert.GreaterOrEqual(t, got, -100.0)
		assert.LessOrEqual(t, got, 100.0)
	}
}

func TestMeanReversionSignalSignInversion(t *testing.T) {
	// Last price well above the mean must score negative, and vice versa.
	assert.Negative(t, MeanReversionSignal([]float64{100, 100, 100, 140}))
	assert.Positive(t, MeanReversionSignal([]float64{140, 140, 140, 100}))
}

func TestMeanReversionSignalZeroStd(t *testing.T) {
	assert.Zero(t, MeanReversionSignal([]float64{3, 3, 3, 3}))
}

func TestMeanReversionSignalKnownValue(t *testing.T) {
	// prices {90, 110}: mean=100, std=10, z=(110-100)/10=1, signal=-10.
	got := MeanReversionSignal([]float64{90, 110})
	require.False(t, math.IsNaN(got))
	require.InDelta(t, -10.0, got, 1e-9)
}
