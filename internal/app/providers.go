package app

import (
	"strings"

	"github.com/iMedia24/workplacify/internal/auth/handler"
	"github.com/iMedia24/workplacify/internal/auth/provider"
	"github.com/iMedia24/workplacify/internal/auth/provider/entra"
	"github.com/iMedia24/workplacify/internal/auth/provider/google"
	"github.com/iMedia24/workplacify/internal/config"
	"github.com/iMedia24/workplacify/internal/logger"
)

// activeProviders builds the providers whose credentials are all set.
// A provider with only part of its credentials is left out.
func activeProviders(cfg config.Config) ([]provider.OAuthProvider, error) {
	var out []provider.OAuthProvider

	if cfg.Google.Configured() {
		p, err := google.New(
			cfg.Google.ClientID,
			cfg.Google.ClientSecret,
			redirectURL(cfg.BaseURL, google.ProviderID),
		)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	if cfg.MicrosoftEntra.Configured() {
		p, err := entra.New(
			entra.Config{
				ClientID:     cfg.MicrosoftEntra.ClientID,
				ClientSecret: cfg.MicrosoftEntra.ClientSecret,
				Issuer:       cfg.MicrosoftEntra.Issuer,
			},
			redirectURL(cfg.BaseURL, entra.ProviderID),
			nil,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	ids := make([]string, 0, len(out))
	for _, p := range out {
		ids = append(ids, p.ID())
	}
	logger.Info("identity providers configured", map[string]any{
		"providers": ids,
	})

	return out, nil
}

func redirectURL(baseURL, providerID string) string {
	return strings.TrimRight(baseURL, "/") + handler.BasePath + "/callback/" + providerID
}
