package provider

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"SkinPulse/internal/catalog"
	"SkinPulse/internal/domain/models"
	drepo "SkinPulse/internal/domain/repository"
	"SkinPulse/internal/service/ratelimit"
	xhttp "SkinPulse/pkg/http"
	applogger "SkinPulse/pkg/logger"
	"SkinPulse/pkg/util"
)

const (
	steamAppID       = 730
	priceOverviewURL = "https://steamcommunity.com/market/priceoverview/"
	listingBaseURL   = "https://steamcommunity.com/market/listings/730/"

	steamSourceDaily   = "steam_priceoverview"
	steamSourceHistory = "steam_pricehistory"
)

// line1 is the JS array Steam embeds in listing pages with the full
// price history: [["Aug 01 2013 01: +0", 7.853, "292"], ...].
var (
	line1Re   = regexp.MustCompile(`var line1=(\[[\s\S]*?\]);`)
	pointRe   = regexp.MustCompile(`\["([^"]+)",([0-9.]+),"([0-9]+)"\]`)
	ogImageRe = regexp.MustCompile(`<meta property="og:image" content="([^"]+)"`)
	iconRe    = regexp.MustCompile(`"icon_url":"([^"]+)"`)
)

// SteamProvider scrapes the Steam Community Market. Daily ticks come from the
// priceoverview endpoint; history comes from the listing page's embedded
// series. Steam rate limits aggressively, so every remote call goes through
// the token bucket.
type SteamProvider struct {
	client   *xhttp.Client
	limiter  *ratelimit.Limiter
	currency int
	perMin   float64
	logger   *applogger.Logger
}

// NewSteamProvider creates a Steam market provider.
func NewSteamProvider(client *xhttp.Client, limiter *ratelimit.Limiter, currency, ratePerMinute int, logger *applogger.Logger) *SteamProvider {
	if currency <= 0 {
		currency = 1 // USD
	}
	if ratePerMinute <= 0 {
		ratePerMinute = 18
	}
	return &SteamProvider{
		client:   client,
		limiter:  limiter,
		currency: currency,
		perMin:   float64(ratePerMinute),
		logger:   logger,
	}
}

func (p *SteamProvider) Name() string { return "steam" }

func (p *SteamProvider) SupportsHistory() bool { return true }

// FetchDailyTicks polls priceoverview for every catalog skin and stamps the
// result with the requested day.
func (p *SteamProvider) FetchDailyTicks(ctx context.Context, date time.Time) ([]models.MarketTick, error) {
	day := util.Day(date)
	ticks := make([]models.MarketTick, 0, len(catalog.Universe))
	for _, entry := range catalog.Universe {
		if err := p.pace(ctx); err != nil {
			return ticks, err
		}
		price, volume, err := p.fetchOverview(ctx, entry.Name)
		if err != nil {
			p.logger.Warn("steam overview failed",
				applogger.String("skin", entry.Name),
				applogger.Error(err))
			continue
		}
		ticks = append(ticks, models.MarketTick{
			Name:      entry.Name,
			Rarity:    entry.Rarity,
			Category:  entry.Category,
			Date:      day,
			PriceUSD:  price,
			Volume24h: volume,
			Source:    steamSourceDaily,
			SourceRef: p.ListingURL(entry.Name),
		})
	}
	return ticks, nil
}

// FetchHistoryTicks scrapes the listing page series for every catalog skin
// and keeps the trailing days.
func (p *SteamProvider) FetchHistoryTicks(ctx context.Context, days int) ([]models.MarketTick, error) {
	cutoff := util.Today().AddDate(0, 0, -days)
	var ticks []models.MarketTick
	for _, entry := range catalog.Universe {
		if err := p.pace(ctx); err != nil {
			return ticks, err
		}
		points, err := p.fetchHistory(ctx, entry.Name)
		if err != nil {
			p.logger.Warn("steam history failed",
				applogger.String("skin", entry.Name),
				applogger.Error(err))
			continue
		}
		for _, pt := range points {
			if pt.day.Before(cutoff) {
				continue
			}
			ticks = append(ticks, models.MarketTick{
				Name:      entry.Name,
				Rarity:    entry.Rarity,
				Category:  entry.Category,
				Date:      pt.day,
				PriceUSD:  pt.price,
				Volume24h: pt.volume,
				Source:    steamSourceHistory,
				SourceRef: p.ListingURL(entry.Name),
			})
		}
	}
	return ticks, nil
}

func (p *SteamProvider) ListingURL(skinName string) string {
	return listingBaseURL + url.PathEscape(skinName)
}

// ResolveImageURL pulls the item icon out of the listing page, preferring the
// asset icon_url over the og:image banner.
func (p *SteamProvider) ResolveImageURL(ctx context.Context, skinName string) (string, error) {
	if err := p.pace(ctx); err != nil {
		return "", err
	}
	body, err := p.fetchListingPage(ctx, skinName)
	if err != nil {
		return "", err
	}
	if m := iconRe.FindSubmatch(body); m != nil {
		icon := strings.ReplaceAll(string(m[1]), `\/`, "/")
		return "https://community.cloudflare.steamstatic.com/economy/image/" + icon, nil
	}
	if m := ogImageRe.FindSubmatch(body); m != nil {
		return string(m[1]), nil
	}
	return "", fmt.Errorf("no image in listing page for %q", skinName)
}

type historyPoint struct {
	day    time.Time
	price  float64
	volume int64
}

func (p *SteamProvider) fetchOverview(ctx context.Context, skinName string) (float64, int64, error) {
	var resp struct {
		Success     bool   `json:"success"`
		LowestPrice string `json:"lowest_price"`
		MedianPrice string `json:"median_price"`
		Volume      string `json:"volume"`
	}
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    priceOverviewURL,
		QueryParams: map[string][]string{
			"appid":            {strconv.Itoa(steamAppID)},
			"currency":         {strconv.Itoa(p.currency)},
			"market_hash_name": {skinName},
		},
	}, &resp)
	if err != nil {
		return 0, 0, fmt.Errorf("priceoverview %q: %w", skinName, err)
	}
	if !resp.Success {
		return 0, 0, fmt.Errorf("priceoverview %q: success=false", skinName)
	}

	raw := resp.MedianPrice
	if raw == "" {
		raw = resp.LowestPrice
	}
	price, ok := parseMoney(raw)
	if !ok {
		return 0, 0, fmt.Errorf("priceoverview %q: unparseable price %q", skinName, raw)
	}
	volume := parseCount(resp.Volume)
	return price, volume, nil
}

func (p *SteamProvider) fetchHistory(ctx context.Context, skinName string) ([]historyPoint, error) {
	body, err := p.fetchListingPage(ctx, skinName)
	if err != nil {
		return nil, err
	}
	m := line1Re.FindSubmatch(body)
	if m == nil {
		return nil, fmt.Errorf("no price series in listing page for %q", skinName)
	}
	return parseHistorySeries(m[1]), nil
}

func (p *SteamProvider) fetchListingPage(ctx context.Context, skinName string) ([]byte, error) {
	var body []byte
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    p.ListingURL(skinName),
	}, &body)
	if err != nil {
		return nil, fmt.Errorf("listing page %q: %w", skinName, err)
	}
	return body, nil
}

// parseHistorySeries folds intraday points into one point per day; the last
// point of a day wins, volumes for the day accumulate.
func parseHistorySeries(series []byte) []historyPoint {
	var points []historyPoint
	byDay := make(map[string]int)
	for _, m := range pointRe.FindAllSubmatch(series, -1) {
		ts := string(m[1])
		if len(ts) < 11 {
			continue
		}
		day, err := time.Parse("Jan 02 2006", ts[:11])
		if err != nil {
			continue
		}
		price, err := strconv.ParseFloat(string(m[2]), 64)
		if err != nil {
			continue
		}
		volume, _ := strconv.ParseInt(string(m[3]), 10, 64)

		key := util.FormatDay(day)
		if idx, ok := byDay[key]; ok {
			points[idx].price = price
			points[idx].volume += volume
			continue
		}
		byDay[key] = len(points)
		points = append(points, historyPoint{day: util.Day(day), price: price, volume: volume})
	}
	return points
}

// pace blocks until the shared steam bucket grants a token.
func (p *SteamProvider) pace(ctx context.Context) error {
	for !p.limiter.Allow("steam", p.perMin, p.perMin/60.0) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return nil
}

// parseMoney handles Steam price strings like "$12.34" or "12,34€".
func parseMoney(s string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return 0, false
	}
	// European decimal comma
	if strings.Count(cleaned, ",") == 1 && !strings.Contains(cleaned, ".") {
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseCount handles volume strings like "1,234".
func parseCount(s string) int64 {
	cleaned := strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

var _ drepo.Provider = (*SteamProvider)(nil)
