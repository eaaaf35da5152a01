package domain

// Default Google endpoints used when the configuration leaves them empty.
const (
	DefaultGoogleAuthURL = "https://accounts.google.com/o/oauth2/auth"
	//nolint:gosec // G101: Not credentials, OAuth endpoint URL
	DefaultGoogleTokenURL = "https://accounts.google.com/o/oauth2/token"
	// DefaultGoogleAPIBaseURL is the root the userinfo API is resolved against.
	DefaultGoogleAPIBaseURL = "https://www.googleapis.com/"
)

// DefaultScopes are requested when no scopes are configured.
var DefaultScopes = []string{"email"}

// OAuthProviderConfig stores OAuth application credentials.
// These are the client credentials from the Google Cloud console.
type OAuthProviderConfig struct {
	// ClientID is the OAuth client ID from the developer console.
	ClientID string `json:"client_id"`
	// ClientSecret is the OAuth client secret from the developer console.
	ClientSecret string `json:"client_secret"`
	// Scopes are the OAuth scopes to request.
	Scopes []string `json:"scopes"`
	// AuthURL is the authorization endpoint.
	AuthURL string `json:"auth_url,omitempty"`
	// TokenURL is the token exchange endpoint.
	TokenURL string `json:"token_url,omitempty"`
	// APIBaseURL is the root URL of the userinfo API.
	APIBaseURL string `json:"api_base_url,omitempty"`
}

// WithDefaults returns a copy with empty endpoints and scopes filled in.
func (c OAuthProviderConfig) WithDefaults() OAuthProviderConfig {
	if c.AuthURL == "" {
		c.AuthURL = DefaultGoogleAuthURL
	}
	if c.TokenURL == "" {
		c.TokenURL = DefaultGoogleTokenURL
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultGoogleAPIBaseURL
	}
	if len(c.Scopes) == 0 {
		c.Scopes = append([]string(nil), DefaultScopes...)
	}
	return c
}

// Validate checks that the client registration is present.
func (c OAuthProviderConfig) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return ErrInvalidInput
	}
	return nil
}
