package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	s := NewSession("sess-1")

	assert.Equal(t, "sess-1", s.ID)
	assert.Nil(t, s.Token)
	assert.False(t, s.CreatedAt.IsZero())
	assert.Equal(t, s.CreatedAt, s.UpdatedAt)
}

func TestSession_IsAuthenticated(t *testing.T) {
	s := NewSession("sess-1")
	assert.False(t, s.IsAuthenticated())

	s.Token = &SessionToken{AccessToken: "abc"}
	assert.True(t, s.IsAuthenticated())

	s.ClearToken()
	assert.False(t, s.IsAuthenticated())
}

func TestSession_ClearPending(t *testing.T) {
	s := NewSession("sess-1")
	s.State = "state"
	s.CodeVerifier = "verifier"

	s.ClearPending()

	assert.Empty(t, s.State)
	assert.Empty(t, s.CodeVerifier)
}

func TestSession_Contents(t *testing.T) {
	s := NewSession("sess-1")
	assert.Empty(t, s.Contents())

	s.Token = &SessionToken{AccessToken: "abc"}
	data, err := json.Marshal(s.Contents())

	require.NoError(t, err)
	assert.JSONEq(t, `{"google_token": ["abc", ""]}`, string(data))
}

func TestSession_JSONRoundTrip(t *testing.T) {
	s := NewSession("sess-1")
	s.Token = &SessionToken{AccessToken: "abc"}
	s.State = "xyz"

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded Session
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "sess-1", decoded.ID)
	require.NotNil(t, decoded.Token)
	assert.Equal(t, "abc", decoded.Token.AccessToken)
	assert.Equal(t, "xyz", decoded.State)
}
