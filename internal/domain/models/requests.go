package models

// Requests for market HTTP endpoints. Out-of-range values are clamped by the
// handlers instead of rejected, so validation here stays loose.

type RecommendationsRequest struct {
	Limit int `query:"limit" json:"limit" default:"5" validate:"gte=0"`
}

type SimulationRequest struct {
	InitialCapital float64 `query:"initial_capital" json:"initial_capital" default:"8000" validate:"gte=0"`
	TopN           int     `query:"top_n" json:"top_n" default:"5" validate:"gte=0"`
}

type BackfillRequest struct {
	Days int `query:"days" json:"days" default:"180" validate:"gte=0"`
}

type AuditSnapshotsRequest struct {
	Limit int `query:"limit" json:"limit" default:"50" validate:"gte=0"`
}
