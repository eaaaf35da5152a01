package driven

import (
	"context"

	"github.com/custodia-labs/signin/internal/core/domain"
)

// TokenGetter returns the token used to sign provider API requests.
// It is consulted on every outbound call so the provider client never
// caches credentials beyond one request. A nil token with a nil error
// means no token is stored.
type TokenGetter func(ctx context.Context) (*domain.SessionToken, error)

// OAuthClient performs the authorization-code grant against the provider.
type OAuthClient interface {
	// AuthCodeURL builds the authorization URL the browser is redirected to.
	// The S256 challenge is derived from codeVerifier.
	AuthCodeURL(state, redirectURI, codeVerifier string) string

	// Exchange trades an authorization code for an access token.
	Exchange(ctx context.Context, code, redirectURI, codeVerifier string) (*domain.SessionToken, error)
}

// ProfileFetcher retrieves the authenticated user's profile.
type ProfileFetcher interface {
	// UserInfo calls the provider's userinfo endpoint with the token from getToken.
	UserInfo(ctx context.Context, getToken TokenGetter) (*domain.UserInfo, error)
}
