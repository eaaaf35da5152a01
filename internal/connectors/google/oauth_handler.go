package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/signin/internal/core/domain"
	"github.com/custodia-labs/signin/internal/core/ports/driven"
)

// Ensure OAuthHandler implements the interface.
var _ driven.OAuthClient = (*OAuthHandler)(nil)

// OAuthHandler implements the authorization-code grant for Google.
type OAuthHandler struct {
	config     oauth2.Config
	httpClient *http.Client
}

// NewOAuthHandler creates a Google OAuth handler.
// Empty endpoints and scopes in cfg are replaced by the Google defaults.
// A nil httpClient uses http.DefaultClient.
func NewOAuthHandler(cfg domain.OAuthProviderConfig, httpClient *http.Client) *OAuthHandler {
	cfg = cfg.WithDefaults()
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &OAuthHandler{
		config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
				// Google accepts client credentials in the POST body.
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: httpClient,
	}
}

// AuthCodeURL constructs the Google authorization URL.
// Online access only: the session never needs a refresh token.
func (h *OAuthHandler) AuthCodeURL(state, redirectURI, codeVerifier string) string {
	cfg := h.withRedirect(redirectURI)

	opts := []oauth2.AuthCodeOption{oauth2.AccessTypeOnline}
	if codeVerifier != "" {
		opts = append(opts, oauth2.S256ChallengeOption(codeVerifier))
	}
	return cfg.AuthCodeURL(state, opts...)
}

// Exchange exchanges an authorization code for an access token.
func (h *OAuthHandler) Exchange(
	ctx context.Context,
	code, redirectURI, codeVerifier string,
) (*domain.SessionToken, error) {
	cfg := h.withRedirect(redirectURI)
	ctx = context.WithValue(ctx, oauth2.HTTPClient, h.httpClient)

	var opts []oauth2.AuthCodeOption
	if codeVerifier != "" {
		opts = append(opts, oauth2.VerifierOption(codeVerifier))
	}

	token, err := cfg.Exchange(ctx, code, opts...)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.ErrorCode != "" {
			return nil, fmt.Errorf("token error: %s - %s", rerr.ErrorCode, rerr.ErrorDescription)
		}
		return nil, fmt.Errorf("token request: %w", err)
	}

	return &domain.SessionToken{AccessToken: token.AccessToken}, nil
}

func (h *OAuthHandler) withRedirect(redirectURI string) *oauth2.Config {
	cfg := h.config
	cfg.RedirectURL = redirectURI
	return &cfg
}
