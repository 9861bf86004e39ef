package models

import (
	"hash/fnv"
	"time"
)

// SkinIDFor derives a stable skin ID from the market hash name. Stores assign
// IDs with this so every backend agrees without a sequence.
func SkinIDFor(name string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return h.Sum64()
}

// SourceUnknown marks a snapshot that came from a synthetic or unverified feed.
// Any other source tag counts as verified and wins the upsert against it.
const SourceUnknown = "unknown"

// Skin is a catalog entry for one tradeable item. Rows are created at catalog
// sync and only ever mutated to backfill missing metadata.
type Skin struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"` // unique market hash name
	Rarity     string `json:"rarity"`
	Category   string `json:"category"`
	ImageURL   string `json:"image_url,omitempty"`
	ListingURL string `json:"listing_url,omitempty"`
	Thesis     string `json:"thesis,omitempty"`
}

// PriceSnapshot is one dated price/volume record for a skin. At most one row
// exists per (skin, date); SnapshotDate carries day granularity only.
type PriceSnapshot struct {
	SkinID       uint64    `json:"skin_id"`
	SkinName     string    `json:"skin_name"`
	SnapshotDate time.Time `json:"snapshot_date"`
	PriceUSD     float64   `json:"price_usd"`
	Volume24h    int64     `json:"volume_24h"`
	Source       string    `json:"source"`
	SourceRef    string    `json:"source_ref,omitempty"`
}

// Verified reports whether the snapshot came from a verified market source.
func (s *PriceSnapshot) Verified() bool {
	return s.Source != "" && s.Source != SourceUnknown
}

// MarketTick is a provider observation before it is persisted. Providers emit
// ticks; the tracker upserts them into the store.
type MarketTick struct {
	Name      string
	Rarity    string
	Category  string
	Date      time.Time
	PriceUSD  float64
	Volume24h int64
	Source    string
	SourceRef string
}
