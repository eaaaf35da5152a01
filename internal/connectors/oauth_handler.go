package connectors

import (
	"fmt"
	"net/http"

	"github.com/custodia-labs/signin/internal/connectors/google"
	"github.com/custodia-labs/signin/internal/core/domain"
	"github.com/custodia-labs/signin/internal/core/ports/driven"
)

// ProviderGoogle identifies the Google identity provider.
const ProviderGoogle = "google"

// Provider bundles the OAuth operations of one identity provider.
// Each implementation encapsulates the provider's quirks (e.g. Google's
// credentials-in-body token exchange).
type Provider struct {
	// Name is the provider identifier, e.g. "google".
	Name string
	// OAuth builds authorization URLs and exchanges codes.
	OAuth driven.OAuthClient
	// Profiles fetches the authenticated user's profile.
	Profiles driven.ProfileFetcher
}

// ProviderOptions carries the transport settings shared by provider clients.
type ProviderOptions struct {
	// HTTPClient is used for token and API calls. Nil uses http.DefaultClient.
	HTTPClient *http.Client
	// RequestsPerSecond limits userinfo calls. Zero uses the provider default.
	RequestsPerSecond float64
	// Burst is the limiter burst size. Zero uses the provider default.
	Burst int
}

// NewProvider creates the provider registered under name.
func NewProvider(name string, cfg domain.OAuthProviderConfig, opts ProviderOptions) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s provider: client id and secret are required: %w", name, err)
	}

	switch name {
	case ProviderGoogle:
		cfg = cfg.WithDefaults()
		limiter := google.NewRateLimiter(google.RateLimitConfig{
			RequestsPerSecond: opts.RequestsPerSecond,
			BurstSize:         opts.Burst,
		})
		return &Provider{
			Name:     name,
			OAuth:    google.NewOAuthHandler(cfg, opts.HTTPClient),
			Profiles: google.NewProfileClient(cfg.APIBaseURL, opts.HTTPClient, limiter),
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, name)
	}
}
