package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SkinPulse/internal/catalog"
	"SkinPulse/internal/domain/models"
	domrepo "SkinPulse/internal/domain/repository"
	"SkinPulse/internal/usecase"
	"SkinPulse/pkg/cache"
	xhttp "SkinPulse/pkg/http"
	applogger "SkinPulse/pkg/logger"
	"SkinPulse/pkg/queue"
	"SkinPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// Request bounds. Out-of-range values are clamped, not rejected, so the demo
// frontend can send anything without tripping validation.
const (
	maxRecommendations = 20

	minCapital = 1000.0
	maxCapital = 250000.0
	minTopN    = 1
	maxTopN    = 20

	minBackfillDays = 7
	maxBackfillDays = 730

	maxAuditSnapshots = 200
)

// MarketHandler implements the market intelligence HTTP API.
type MarketHandler struct {
	logger      *applogger.Logger
	recommender *usecase.Recommender
	simulator   *usecase.Simulator
	tracker     *usecase.Tracker
	store       domrepo.ObservationStore
	cache       cache.Service
	queue       queue.QueueService
	cacheTTL    time.Duration
}

// NewMarketHandler creates the handler. cache and queue are optional; without
// a queue, backfills run inline.
func NewMarketHandler(
	logger *applogger.Logger,
	recommender *usecase.Recommender,
	simulator *usecase.Simulator,
	tracker *usecase.Tracker,
	store domrepo.ObservationStore,
) *MarketHandler {
	return &MarketHandler{
		logger:      logger,
		recommender: recommender,
		simulator:   simulator,
		tracker:     tracker,
		store:       store,
		cacheTTL:    60 * time.Second,
	}
}

// SetCache enables response caching for the analytics endpoints.
func (h *MarketHandler) SetCache(c cache.Service, ttl time.Duration) {
	h.cache = c
	if ttl > 0 {
		h.cacheTTL = ttl
	}
}

// SetQueue enables async backfills through the job queue.
func (h *MarketHandler) SetQueue(q queue.QueueService) { h.queue = q }

func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/health", h.Health)
	g.GET("/recommendations", h.Recommendations)
	g.GET("/simulate", h.Simulate)
	g.GET("/skins", h.Skins)
	g.GET("/skins/:name/history", h.History)
	g.POST("/track", h.Track)
	g.POST("/backfill", h.Backfill)
	g.GET("/audit/summary", h.AuditSummary)
	g.GET("/audit/snapshots", h.AuditSnapshots)
	g.GET("/audit/universe", h.AuditUniverse)
}

func (h *MarketHandler) Health(c echo.Context) error {
	status := "ok"
	if err := h.store.Health(c.Request().Context()); err != nil {
		h.logger.Error("store health failed", applogger.Error(err))
		status = "degraded"
	}
	return xhttp.SuccessResponse(c, map[string]string{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *MarketHandler) Recommendations(c echo.Context) error {
	req := &models.RecommendationsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	limit := util.ClampInt(req.Limit, 1, maxRecommendations)

	cacheKey := fmt.Sprintf("recs:%d", limit)
	if h.cache != nil {
		var cached []models.Recommendation
		if err := h.cache.Get(c.Request().Context(), cacheKey, &cached); err == nil {
			return xhttp.ListResponse(c, cached, int64(len(cached)))
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			h.logger.Warn("recommendations cache get failed", applogger.Error(err))
		}
	}

	recs, err := h.recommender.Build(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("recommendations build failed", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	if h.cache != nil {
		if err := h.cache.Set(c.Request().Context(), cacheKey, recs, h.cacheTTL); err != nil {
			h.logger.Warn("recommendations cache set failed", applogger.Error(err))
		}
	}
	return xhttp.ListResponse(c, recs, int64(len(recs)))
}

func (h *MarketHandler) Simulate(c echo.Context) error {
	req := &models.SimulationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	capital := util.ClampFloat(req.InitialCapital, minCapital, maxCapital)
	topN := util.ClampInt(req.TopN, minTopN, maxTopN)

	cacheKey := fmt.Sprintf("sim:%.0f:%d", capital, topN)
	if h.cache != nil {
		var cached models.SimResult
		if err := h.cache.Get(c.Request().Context(), cacheKey, &cached); err == nil {
			return xhttp.SuccessResponse(c, &cached)
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			h.logger.Warn("simulate cache get failed", applogger.Error(err))
		}
	}

	res, err := h.simulator.Run(c.Request().Context(), capital, topN)
	if err != nil {
		h.logger.Error("simulation failed", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if res == nil {
		return xhttp.NotFoundResponse(c, map[string]string{
			"error": "not enough history to simulate; run a backfill first",
		})
	}

	if h.cache != nil {
		if err := h.cache.Set(c.Request().Context(), cacheKey, res, h.cacheTTL); err != nil {
			h.logger.Warn("simulate cache set failed", applogger.Error(err))
		}
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketHandler) Skins(c echo.Context) error {
	skins, err := h.store.ListSkins(c.Request().Context(), catalog.Names())
	if err != nil {
		h.logger.Error("list skins failed", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, skins, int64(len(skins)))
}

func (h *MarketHandler) History(c echo.Context) error {
	name := c.Param("name")
	skin, err := h.store.GetSkinByName(c.Request().Context(), name)
	if err != nil {
		h.logger.Error("get skin failed", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if skin == nil {
		return xhttp.NotFoundResponse(c, map[string]string{"error": "unknown skin"})
	}
	snaps, err := h.store.ListSnapshots(c.Request().Context(), skin.ID)
	if err != nil {
		h.logger.Error("list snapshots failed", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, snaps, int64(len(snaps)))
}

func (h *MarketHandler) Track(c echo.Context) error {
	created, err := h.tracker.TrackDate(c.Request().Context(), util.Today())
	if err != nil {
		h.logger.Error("track failed", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"date":    util.FormatDay(util.Today()),
		"created": created,
	})
}

func (h *MarketHandler) Backfill(c echo.Context) error {
	req := &models.BackfillRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	days := util.ClampInt(req.Days, minBackfillDays, maxBackfillDays)

	if h.queue != nil {
		err := h.queue.PublishMessage(c.Request().Context(), usecase.BackfillJobType,
			usecase.BackfillPayload{Days: days})
		if err != nil {
			h.logger.Error("backfill enqueue failed", applogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
		return xhttp.SuccessResponse(c, map[string]interface{}{
			"days":   days,
			"queued": true,
		})
	}

	created, err := h.tracker.BackfillHistory(c.Request().Context(), days)
	if err != nil {
		h.logger.Error("backfill failed", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"days":    days,
		"queued":  false,
		"created": created,
	})
}

func (h *MarketHandler) AuditSummary(c echo.Context) error {
	sum, err := h.store.Summary(c.Request().Context(), catalog.Names())
	if err != nil {
		h.logger.Error("audit summary failed", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	resp := map[string]interface{}{
		"total_snapshots": sum.TotalSnapshots,
		"distinct_dates":  sum.DistinctDates,
		"sources":         sum.Sources,
	}
	if sum.FirstDate != nil {
		resp["first_date"] = util.FormatDay(*sum.FirstDate)
	}
	if sum.LastDate != nil {
		resp["last_date"] = util.FormatDay(*sum.LastDate)
	}
	return xhttp.SuccessResponse(c, resp)
}

func (h *MarketHandler) AuditSnapshots(c echo.Context) error {
	req := &models.AuditSnapshotsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	limit := util.ClampInt(req.Limit, 1, maxAuditSnapshots)

	snaps, err := h.store.RecentSnapshots(c.Request().Context(), catalog.Names(), limit)
	if err != nil {
		h.logger.Error("audit snapshots failed", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, snaps, int64(len(snaps)))
}

func (h *MarketHandler) AuditUniverse(c echo.Context) error {
	return xhttp.ListResponse(c, catalog.Universe, int64(len(catalog.Universe)))
}

// EnsureReady seeds and syncs on startup so the API serves data immediately.
func (h *MarketHandler) EnsureReady(ctx context.Context, seedDays int, enrichImages bool) error {
	if _, err := h.tracker.EnsureUniverse(ctx, enrichImages); err != nil {
		return fmt.Errorf("ensure universe: %w", err)
	}
	return h.tracker.SeedOnStartup(ctx, seedDays)
}

var _ xhttp.Handler = (*MarketHandler)(nil)
