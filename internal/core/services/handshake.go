package services

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// PKCE code verifier length (RFC 7636 recommends 43-128 characters).
const codeVerifierLength = 64

// stateLength is the number of random bytes in the CSRF state.
const stateLength = 32

// handshake holds the values issued at login and checked on the callback.
type handshake struct {
	state        string
	codeVerifier string
}

// newHandshake creates a fresh state and PKCE verifier.
func newHandshake() (handshake, error) {
	state, err := randomToken(stateLength)
	if err != nil {
		return handshake{}, fmt.Errorf("generating state: %w", err)
	}
	verifier, err := randomToken(codeVerifierLength)
	if err != nil {
		return handshake{}, fmt.Errorf("generating code verifier: %w", err)
	}
	return handshake{state: state, codeVerifier: verifier}, nil
}

// randomToken returns n cryptographically random bytes, base64url encoded without padding.
func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
