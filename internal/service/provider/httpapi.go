package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"SkinPulse/internal/domain/models"
	drepo "SkinPulse/internal/domain/repository"
	xhttp "SkinPulse/pkg/http"
	"SkinPulse/pkg/util"
)

// HTTPProvider pulls ticks from a generic market data API that serves JSON
// arrays at /v1/ticks/daily and /v1/ticks/history.
type HTTPProvider struct {
	client  *xhttp.Client
	baseURL string
	apiKey  string
}

// NewHTTPProvider creates a generic HTTP market provider.
func NewHTTPProvider(client *xhttp.Client, baseURL, apiKey string) *HTTPProvider {
	return &HTTPProvider{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

func (p *HTTPProvider) Name() string { return "http" }

func (p *HTTPProvider) SupportsHistory() bool { return true }

type apiTick struct {
	Name      string  `json:"name"`
	Rarity    string  `json:"rarity"`
	Category  string  `json:"category"`
	Date      string  `json:"date"`
	PriceUSD  float64 `json:"price_usd"`
	Volume24h int64   `json:"volume_24h"`
	Source    string  `json:"source"`
	SourceRef string  `json:"source_ref"`
}

func (p *HTTPProvider) FetchDailyTicks(ctx context.Context, date time.Time) ([]models.MarketTick, error) {
	return p.fetch(ctx, "/v1/ticks/daily", map[string][]string{
		"date": {util.FormatDay(date)},
	})
}

func (p *HTTPProvider) FetchHistoryTicks(ctx context.Context, days int) ([]models.MarketTick, error) {
	return p.fetch(ctx, "/v1/ticks/history", map[string][]string{
		"days": {strconv.Itoa(days)},
	})
}

func (p *HTTPProvider) fetch(ctx context.Context, path string, params map[string][]string) ([]models.MarketTick, error) {
	var raw []apiTick
	opts := &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         p.baseURL + path,
		QueryParams: params,
	}
	if p.apiKey != "" {
		opts.Headers = map[string]string{"X-Api-Key": p.apiKey}
	}
	if err := p.client.SendAndParse(ctx, opts, &raw); err != nil {
		return nil, fmt.Errorf("market api %s: %w", path, err)
	}

	ticks := make([]models.MarketTick, 0, len(raw))
	for _, r := range raw {
		day, ok := util.ParseDay(r.Date)
		if !ok {
			continue
		}
		source := r.Source
		if source == "" {
			source = "market_api"
		}
		ticks = append(ticks, models.MarketTick{
			Name:      r.Name,
			Rarity:    r.Rarity,
			Category:  r.Category,
			Date:      day,
			PriceUSD:  r.PriceUSD,
			Volume24h: r.Volume24h,
			Source:    source,
			SourceRef: r.SourceRef,
		})
	}
	return ticks, nil
}

func (p *HTTPProvider) ListingURL(skinName string) string {
	return p.baseURL + "/listings/" + url.PathEscape(skinName)
}

func (p *HTTPProvider) ResolveImageURL(ctx context.Context, skinName string) (string, error) {
	var resp struct {
		ImageURL string `json:"image_url"`
	}
	opts := &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    p.baseURL + "/v1/skins/" + url.PathEscape(skinName),
	}
	if p.apiKey != "" {
		opts.Headers = map[string]string{"X-Api-Key": p.apiKey}
	}
	if err := p.client.SendAndParse(ctx, opts, &resp); err != nil {
		return "", fmt.Errorf("market api skin %q: %w", skinName, err)
	}
	return resp.ImageURL, nil
}

var _ drepo.Provider = (*HTTPProvider)(nil)
