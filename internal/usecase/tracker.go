package usecase

import (
	"context"
	"fmt"
	"time"

	"SkinPulse/internal/catalog"
	"SkinPulse/internal/domain/models"
	drepo "SkinPulse/internal/domain/repository"
	applogger "SkinPulse/pkg/logger"
	"SkinPulse/pkg/util"
)

// Tracker owns ingestion: it pulls ticks from the configured provider and
// upserts them into the observation store, enforcing the one-row-per
// (skin, date) invariant and the verified-over-unknown overwrite policy.
type Tracker struct {
	store    drepo.ObservationStore
	provider drepo.Provider
	metrics  drepo.Metrics
	logger   *applogger.Logger
}

// NewTracker creates a new Tracker instance.
func NewTracker(store drepo.ObservationStore, provider drepo.Provider, metrics drepo.Metrics, logger *applogger.Logger) *Tracker {
	return &Tracker{store: store, provider: provider, metrics: metrics, logger: logger}
}

// EnsureUniverse creates missing catalog skins and backfills empty metadata.
// Returns the number of rows created or touched.
func (t *Tracker) EnsureUniverse(ctx context.Context, enrichImages bool) (int, error) {
	touched := 0
	for _, entry := range catalog.Universe {
		skin, err := t.store.GetSkinByName(ctx, entry.Name)
		if err != nil {
			return touched, fmt.Errorf("get skin %q: %w", entry.Name, err)
		}

		if skin == nil {
			s := &models.Skin{
				Name:       entry.Name,
				Rarity:     entry.Rarity,
				Category:   entry.Category,
				Thesis:     entry.Thesis,
				ListingURL: t.provider.ListingURL(entry.Name),
			}
			if enrichImages {
				if img, err := t.provider.ResolveImageURL(ctx, entry.Name); err == nil {
					s.ImageURL = img
				}
			}
			if err := t.store.CreateSkin(ctx, s); err != nil {
				return touched, fmt.Errorf("create skin %q: %w", entry.Name, err)
			}
			touched++
			continue
		}

		changed := false
		if skin.Rarity == "" {
			skin.Rarity = entry.Rarity
			changed = true
		}
		if skin.Category == "" {
			skin.Category = entry.Category
			changed = true
		}
		if skin.Thesis == "" && entry.Thesis != "" {
			skin.Thesis = entry.Thesis
			changed = true
		}
		if skin.ListingURL == "" {
			skin.ListingURL = t.provider.ListingURL(entry.Name)
			changed = true
		}
		if enrichImages && skin.ImageURL == "" {
			if img, err := t.provider.ResolveImageURL(ctx, entry.Name); err == nil && img != "" {
				skin.ImageURL = img
				changed = true
			}
		}
		if changed {
			if err := t.store.UpdateSkinMetadata(ctx, skin); err != nil {
				return touched, fmt.Errorf("update skin %q: %w", entry.Name, err)
			}
			touched++
		}
	}
	return touched, nil
}

// IngestTicks upserts a batch of provider ticks. Returns the number of newly
// created snapshots. Existing rows are only overwritten when the incoming
// tick is verified and the stored row is not; otherwise the write is skipped.
func (t *Tracker) IngestTicks(ctx context.Context, ticks []models.MarketTick) (int, error) {
	created := 0
	for i := range ticks {
		tick := &ticks[i]
		skin, err := t.ensureSkinForTick(ctx, tick)
		if err != nil {
			return created, err
		}

		day := util.Day(tick.Date)
		existing, err := t.store.GetSnapshot(ctx, skin.ID, day)
		if err != nil {
			return created, fmt.Errorf("get snapshot %q %s: %w", tick.Name, util.FormatDay(day), err)
		}

		if existing != nil {
			if !existing.Verified() && tick.Source != "" && tick.Source != models.SourceUnknown {
				existing.PriceUSD = tick.PriceUSD
				existing.Volume24h = tick.Volume24h
				existing.Source = tick.Source
				existing.SourceRef = tick.SourceRef
				if err := t.store.SaveSnapshot(ctx, existing); err != nil {
					return created, fmt.Errorf("promote snapshot %q %s: %w", tick.Name, util.FormatDay(day), err)
				}
				t.metrics.RecordSnapshotStored(tick.Source, tick.Name)
			}
			continue
		}

		source := tick.Source
		if source == "" {
			source = models.SourceUnknown
		}
		snap := &models.PriceSnapshot{
			SkinID:       skin.ID,
			SkinName:     skin.Name,
			SnapshotDate: day,
			PriceUSD:     tick.PriceUSD,
			Volume24h:    tick.Volume24h,
			Source:       source,
			SourceRef:    tick.SourceRef,
		}
		if err := t.store.SaveSnapshot(ctx, snap); err != nil {
			return created, fmt.Errorf("save snapshot %q %s: %w", tick.Name, util.FormatDay(day), err)
		}
		created++
		t.metrics.RecordSnapshotStored(source, tick.Name)
		t.metrics.RecordLastPrice(tick.Name, tick.PriceUSD)
	}
	return created, nil
}

// TrackDate fetches and ingests the provider's ticks for one day. Fetch
// failures are logged and swallowed: a missed day is filled by the next
// verified fetch, never by failing the caller.
func (t *Tracker) TrackDate(ctx context.Context, date time.Time) (int, error) {
	ticks, err := t.provider.FetchDailyTicks(ctx, util.Day(date))
	if err != nil {
		t.metrics.RecordError("provider_fetch")
		t.logger.Warn("daily tick fetch failed",
			applogger.String("date", util.FormatDay(date)),
			applogger.Error(err))
		return 0, nil
	}
	return t.IngestTicks(ctx, ticks)
}

// BackfillHistory ingests up to days of provider history. Providers without
// history support contribute nothing.
func (t *Tracker) BackfillHistory(ctx context.Context, days int) (int, error) {
	if !t.provider.SupportsHistory() {
		return 0, nil
	}
	ticks, err := t.provider.FetchHistoryTicks(ctx, days)
	if err != nil {
		t.metrics.RecordError("provider_backfill")
		t.logger.Warn("history backfill fetch failed",
			applogger.Int("days", days),
			applogger.Error(err))
		return 0, nil
	}
	if len(ticks) == 0 {
		return 0, nil
	}
	return t.IngestTicks(ctx, ticks)
}

// SeedOnStartup fills an empty store so ranking works immediately. A store
// that already covers enough distinct days is left alone. Providers without
// history get a single same-day snapshot instead of N remote calls.
func (t *Tracker) SeedOnStartup(ctx context.Context, days int) error {
	if days <= 0 {
		return nil
	}

	existingDays, err := t.store.CountDistinctDates(ctx)
	if err != nil {
		return fmt.Errorf("count distinct dates: %w", err)
	}
	if existingDays >= days {
		return nil
	}

	if t.provider.SupportsHistory() {
		created, err := t.BackfillHistory(ctx, days)
		if err != nil {
			return err
		}
		if created > 0 {
			return nil
		}
	}
	if existingDays > 0 {
		return nil
	}

	if t.provider.SupportsHistory() {
		_, err := t.TrackDate(ctx, util.Today())
		return err
	}

	start := util.Today().AddDate(0, 0, -(days - 1))
	for i := 0; i < days; i++ {
		if _, err := t.TrackDate(ctx, start.AddDate(0, 0, i)); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tracker) ensureSkinForTick(ctx context.Context, tick *models.MarketTick) (*models.Skin, error) {
	skin, err := t.store.GetSkinByName(ctx, tick.Name)
	if err != nil {
		return nil, fmt.Errorf("get skin %q: %w", tick.Name, err)
	}
	if skin != nil {
		changed := false
		if skin.ListingURL == "" {
			skin.ListingURL = t.provider.ListingURL(tick.Name)
			changed = skin.ListingURL != ""
		}
		if skin.Thesis == "" {
			if entry, ok := catalog.ByName[tick.Name]; ok && entry.Thesis != "" {
				skin.Thesis = entry.Thesis
				changed = true
			}
		}
		if changed {
			if err := t.store.UpdateSkinMetadata(ctx, skin); err != nil {
				return nil, fmt.Errorf("update skin %q: %w", tick.Name, err)
			}
		}
		return skin, nil
	}

	s := &models.Skin{
		Name:       tick.Name,
		Rarity:     tick.Rarity,
		Category:   tick.Category,
		ListingURL: t.provider.ListingURL(tick.Name),
	}
	if entry, ok := catalog.ByName[tick.Name]; ok {
		s.Thesis = entry.Thesis
	}
	if err := t.store.CreateSkin(ctx, s); err != nil {
		return nil, fmt.Errorf("create skin %q: %w", tick.Name, err)
	}
	return s, nil
}
