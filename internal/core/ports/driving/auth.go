package driving

import (
	"context"

	"github.com/custodia-labs/signin/internal/core/domain"
)

// CallbackParams are the query parameters the provider sends to the callback route.
type CallbackParams struct {
	// Code is the authorization code. Empty when the user denied access.
	Code string
	// State echoes the value issued at login.
	State string
	// Error is the OAuth 2.0 error code (e.g. access_denied).
	Error string
	// ErrorReason is the provider-specific reason, when supplied.
	ErrorReason string
	// ErrorDescription is the human readable error text.
	ErrorDescription string
}

// IndexResult is returned for an authenticated visit to the home route.
type IndexResult struct {
	// UserInfo is the profile fetched from the provider.
	UserInfo *domain.UserInfo
	// Session holds the session values visible to the browser.
	Session map[string]any
}

// AuthService coordinates the login handshake with the identity provider.
// Every operation is keyed by the session ID carried in the session cookie;
// unknown IDs are treated as empty sessions.
type AuthService interface {
	// Index fetches the user profile for an authenticated session.
	// Returns domain.ErrAuthRequired if the session has no token.
	Index(ctx context.Context, sessionID string) (*IndexResult, error)

	// Login clears any stored token and returns the provider authorization URL.
	// callbackURL is sent as the redirect_uri.
	Login(ctx context.Context, sessionID, callbackURL string) (string, error)

	// Logout clears the stored token.
	Logout(ctx context.Context, sessionID string) error

	// Authorized completes the handshake started by Login.
	// Returns a *domain.AccessDeniedError when the provider sent no code.
	Authorized(ctx context.Context, sessionID, callbackURL string, params CallbackParams) (*domain.UserInfo, error)

	// Token returns the stored token, or nil when the session has none.
	Token(ctx context.Context, sessionID string) (*domain.SessionToken, error)
}
