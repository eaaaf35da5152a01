package domain

import (
	"encoding/json"
	"fmt"
)

// SessionToken is the credential record kept in a session after login.
// It mirrors the (token, secret) pair OAuth 1 clients expect; Google
// never issues a secret so Secret stays empty.
type SessionToken struct {
	// AccessToken is the bearer token for API access.
	AccessToken string
	// Secret is the unused token secret placeholder.
	Secret string
}

// MarshalJSON encodes the token as a two-element array.
func (t SessionToken) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{t.AccessToken, t.Secret})
}

// UnmarshalJSON decodes the two-element array form.
func (t *SessionToken) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: token tuple has %d elements", ErrInvalidInput, len(pair))
	}
	t.AccessToken = pair[0]
	t.Secret = pair[1]
	return nil
}

// IsValid returns true if the token carries an access token.
func (t *SessionToken) IsValid() bool {
	return t != nil && t.AccessToken != ""
}
