package models

import "time"

// SimPoint is one traded day in the portfolio simulation.
type SimPoint struct {
	Date            time.Time `json:"date"`
	Equity          float64   `json:"equity"`
	DayReturnPct    float64   `json:"day_return_pct"`
	BenchmarkEquity float64   `json:"benchmark_equity"`
}

// SimResult is the full output of one walk-forward simulation run.
// It lives only for the duration of the call.
type SimResult struct {
	InitialCapital         float64    `json:"initial_capital"`
	EndingCapital          float64    `json:"ending_capital"`
	TotalReturnPct         float64    `json:"total_return_pct"`
	BenchmarkEndingCapital float64    `json:"benchmark_ending_capital"`
	BenchmarkReturnPct     float64    `json:"benchmark_return_pct"`
	DaysTraded             int        `json:"days_traded"`
	WinDays                int        `json:"win_days"`
	LossDays               int        `json:"loss_days"`
	MaxDrawdownPct         float64    `json:"max_drawdown_pct"`
	CAGRPct                float64    `json:"cagr_pct"`
	Points                 []SimPoint `json:"points"`
}
