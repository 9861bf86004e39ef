package provider

import (
	"fmt"

	drepo "SkinPulse/internal/domain/repository"
	"SkinPulse/internal/service/ratelimit"
	"SkinPulse/pkg/config"
	xhttp "SkinPulse/pkg/http"
	applogger "SkinPulse/pkg/logger"
)

// New builds the provider named by cfg.Provider.Type.
func New(cfg *config.Config, logger *applogger.Logger) (drepo.Provider, error) {
	switch cfg.Provider.Type {
	case "steam":
		client := xhttp.NewClient(xhttp.WithTimeout(cfg.Provider.Timeout))
		return NewSteamProvider(client, ratelimit.New(), cfg.Provider.SteamCurrency, cfg.Provider.RatePerMinute, logger), nil
	case "http":
		client := xhttp.NewClient(xhttp.WithTimeout(cfg.Provider.Timeout))
		return NewHTTPProvider(client, cfg.Provider.BaseURL, cfg.Provider.APIKey), nil
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Provider.Type)
	}
}
