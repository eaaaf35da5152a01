package domain

import "time"

// Session is the server-side state bound to one browser through the session cookie.
//
// A session with a non-nil Token is considered authenticated. State and
// CodeVerifier are only set between login and the provider callback.
type Session struct {
	// ID is the unique identifier (UUID) stored in the cookie.
	ID string `json:"id"`

	// Token holds the access token tuple once the code exchange succeeds.
	Token *SessionToken `json:"google_token,omitempty"`

	// State is the CSRF value sent with the authorization request.
	State string `json:"state,omitempty"`
	// CodeVerifier is the PKCE verifier matching the challenge sent at login.
	CodeVerifier string `json:"code_verifier,omitempty"`

	// CreatedAt is when the session was created.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the session was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates an empty session with the given ID.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsAuthenticated returns true if the session holds an access token.
func (s *Session) IsAuthenticated() bool {
	return s.Token.IsValid()
}

// ClearToken removes the access token from the session.
func (s *Session) ClearToken() {
	s.Token = nil
}

// ClearPending removes the login handshake values.
func (s *Session) ClearPending() {
	s.State = ""
	s.CodeVerifier = ""
}

// Contents returns the session values exposed to the browser.
// The keys follow the session key naming used by the routes.
func (s *Session) Contents() map[string]any {
	contents := make(map[string]any)
	if s.Token != nil {
		contents["google_token"] = *s.Token
	}
	if s.State != "" {
		contents["oauth_state"] = s.State
	}
	return contents
}
