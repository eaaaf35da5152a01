// Package google provides the Google OAuth 2.0 client used by signin.
//
// It contains:
//   - OAuthHandler: authorization URL and code exchange via golang.org/x/oauth2
//   - ProfileClient: userinfo lookup via google.golang.org/api/oauth2/v2
//   - TokenSource adapter to bridge a session TokenGetter to oauth2.TokenSource
//   - Error handling for common Google API errors (401, 403, 429)
//   - Rate limiting for outbound userinfo calls
//
// # Usage
//
//	handler := google.NewOAuthHandler(cfg, httpClient)
//	authURL := handler.AuthCodeURL(state, redirectURI, verifier)
//	token, err := handler.Exchange(ctx, code, redirectURI, verifier)
//
//	profiles := google.NewProfileClient(cfg.APIBaseURL, httpClient, google.NewRateLimiter(google.DefaultRateLimit))
//	info, err := profiles.UserInfo(ctx, getToken)
//
// # OAuth2 Scopes
//
// The default scope is "email"; Google resolves it to
// https://www.googleapis.com/auth/userinfo.email (non-sensitive).
package google
