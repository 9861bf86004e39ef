package models

// Recommendation is a scored candidate produced by the ranker. It is derived
// from the trailing snapshot window on every request and never persisted.
type Recommendation struct {
	SkinID          uint64  `json:"skin_id"`
	SkinName        string  `json:"skin_name"`
	SkinImageURL    string  `json:"skin_image_url,omitempty"`
	ListingURL      string  `json:"listing_url,omitempty"`
	Thesis          string  `json:"thesis,omitempty"`
	Score           float64 `json:"score"`
	Confidence      float64 `json:"confidence"`
	LatestPriceUSD  float64 `json:"latest_price_usd"`
	Momentum7dPct   float64 `json:"momentum_7d_pct"`
	Volatility7dPct float64 `json:"volatility_7d_pct"`
	LiquidityScore  float64 `json:"liquidity_score"`
	Rank            int     `json:"rank"`
	TotalCandidates int     `json:"total_candidates"`
	Reason          string  `json:"reason"`
}
