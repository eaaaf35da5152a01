package services

import (
	"encoding/base64"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RFC 7636 section 4.1 unreserved characters.
var verifierPattern = regexp.MustCompile(`^[A-Za-z0-9\-._~]{43,128}$`)

func TestNewHandshake(t *testing.T) {
	t.Run("generates state and verifier", func(t *testing.T) {
		hs, err := newHandshake()

		require.NoError(t, err)
		assert.NotEmpty(t, hs.state)
		assert.NotEmpty(t, hs.codeVerifier)
		assert.NotEqual(t, hs.state, hs.codeVerifier)
	})

	t.Run("verifier satisfies RFC 7636", func(t *testing.T) {
		hs, err := newHandshake()
		require.NoError(t, err)

		assert.Regexp(t, verifierPattern, hs.codeVerifier)

		decoded, err := base64.RawURLEncoding.DecodeString(hs.codeVerifier)
		require.NoError(t, err)
		assert.Len(t, decoded, codeVerifierLength)
	})

	t.Run("state decodes to 32 bytes", func(t *testing.T) {
		hs, err := newHandshake()
		require.NoError(t, err)

		// Base64url encoding of 32 bytes results in 43 characters (no padding)
		assert.Len(t, hs.state, 43)
		decoded, err := base64.RawURLEncoding.DecodeString(hs.state)
		require.NoError(t, err)
		assert.Len(t, decoded, stateLength)
	})

	t.Run("generates unique values", func(t *testing.T) {
		seen := make(map[string]bool)
		iterations := 100

		for i := 0; i < iterations; i++ {
			hs, err := newHandshake()
			require.NoError(t, err)

			assert.False(t, seen[hs.state], "should not generate duplicate states")
			seen[hs.state] = true
		}

		assert.Len(t, seen, iterations)
	})
}

func TestRandomToken(t *testing.T) {
	token, err := randomToken(16)

	require.NoError(t, err)
	assert.NotContains(t, token, "=")
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")
}
