package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/signin/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/signin/internal/core/domain"
	"github.com/custodia-labs/signin/internal/core/ports/driven"
	"github.com/custodia-labs/signin/internal/core/ports/driving"
)

const testCallback = "http://localhost:5000/login/authorized"

// mockOAuthClient is a mock implementation of driven.OAuthClient.
type mockOAuthClient struct {
	token *domain.SessionToken
	err   error

	lastState        string
	lastRedirectURI  string
	lastCodeVerifier string
	lastCode         string
}

func (m *mockOAuthClient) AuthCodeURL(state, redirectURI, codeVerifier string) string {
	m.lastState = state
	m.lastRedirectURI = redirectURI
	m.lastCodeVerifier = codeVerifier
	return "https://idp.example/auth?state=" + state
}

func (m *mockOAuthClient) Exchange(
	_ context.Context,
	code, redirectURI, codeVerifier string,
) (*domain.SessionToken, error) {
	m.lastCode = code
	m.lastRedirectURI = redirectURI
	m.lastCodeVerifier = codeVerifier
	return m.token, m.err
}

// mockProfileFetcher is a mock implementation of driven.ProfileFetcher.
// It resolves the token through the getter like the real client does.
type mockProfileFetcher struct {
	info      *domain.UserInfo
	err       error
	seenToken *domain.SessionToken
	calls     int
}

func (m *mockProfileFetcher) UserInfo(ctx context.Context, getToken driven.TokenGetter) (*domain.UserInfo, error) {
	m.calls++
	token, err := getToken(ctx)
	if err != nil {
		return nil, err
	}
	m.seenToken = token
	return m.info, m.err
}

type authFixture struct {
	service  *AuthService
	sessions *memory.SessionStore
	oauth    *mockOAuthClient
	profiles *mockProfileFetcher
}

func newAuthFixture() *authFixture {
	sessions := memory.NewSessionStore()
	oauth := &mockOAuthClient{token: &domain.SessionToken{AccessToken: "ya29.token"}}
	profiles := &mockProfileFetcher{info: &domain.UserInfo{ID: "42", Email: "user@example.com"}}
	return &authFixture{
		service:  NewAuthService(sessions, oauth, profiles),
		sessions: sessions,
		oauth:    oauth,
		profiles: profiles,
	}
}

func (f *authFixture) seedToken(t *testing.T, sessionID, token string) {
	t.Helper()
	sess := domain.NewSession(sessionID)
	sess.Token = &domain.SessionToken{AccessToken: token}
	require.NoError(t, f.sessions.Save(context.Background(), *sess))
}

func TestNewAuthService(t *testing.T) {
	f := newAuthFixture()

	require.NotNil(t, f.service)
	assert.NotNil(t, f.service.sessions)
	assert.NotNil(t, f.service.oauth)
	assert.NotNil(t, f.service.profiles)
}

func TestAuthService_Index_NoToken(t *testing.T) {
	f := newAuthFixture()

	_, err := f.service.Index(context.Background(), "sess-1")

	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.Equal(t, 0, f.profiles.calls)
}

func TestAuthService_Index_WithToken(t *testing.T) {
	f := newAuthFixture()
	f.seedToken(t, "sess-1", "stored-token")

	result, err := f.service.Index(context.Background(), "sess-1")

	require.NoError(t, err)
	assert.Equal(t, "user@example.com", result.UserInfo.Email)
	assert.Equal(t, domain.SessionToken{AccessToken: "stored-token"}, result.Session["google_token"])
	require.NotNil(t, f.profiles.seenToken)
	assert.Equal(t, "stored-token", f.profiles.seenToken.AccessToken)
}

func TestAuthService_Index_RecordsActivity(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	sess := domain.NewSession("sess-1")
	sess.Token = &domain.SessionToken{AccessToken: "stored-token"}
	sess.UpdatedAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, f.sessions.Save(ctx, *sess))

	before := time.Now()
	for i := 0; i < 3; i++ {
		_, err := f.service.Index(ctx, "sess-1")
		require.NoError(t, err)
	}

	removed, err := f.sessions.DeleteIdle(ctx, before.Add(-10*time.Millisecond))
	require.NoError(t, err)
	assert.Zero(t, removed, "active session must not be pruned")

	_, err = f.service.Index(ctx, "sess-1")
	assert.NoError(t, err)
}

func TestAuthService_Index_ProviderError(t *testing.T) {
	f := newAuthFixture()
	f.seedToken(t, "sess-1", "stored-token")
	f.profiles.err = domain.ErrUnauthorized

	_, err := f.service.Index(context.Background(), "sess-1")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_Index_EmptySessionID(t *testing.T) {
	f := newAuthFixture()

	_, err := f.service.Index(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuthService_Login_ClearsTokenAndIssuesState(t *testing.T) {
	f := newAuthFixture()
	f.seedToken(t, "sess-1", "old-token")
	ctx := context.Background()

	authURL, err := f.service.Login(ctx, "sess-1", testCallback)

	require.NoError(t, err)
	assert.Contains(t, authURL, "https://idp.example/auth")
	assert.Equal(t, testCallback, f.oauth.lastRedirectURI)

	sess, err := f.sessions.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, sess.Token)
	assert.Equal(t, f.oauth.lastState, sess.State)
	assert.Equal(t, f.oauth.lastCodeVerifier, sess.CodeVerifier)
	assert.NotEmpty(t, sess.State)
}

func TestAuthService_Login_NewSession(t *testing.T) {
	f := newAuthFixture()

	_, err := f.service.Login(context.Background(), "fresh", testCallback)

	require.NoError(t, err)
	assert.Equal(t, 1, f.sessions.Len())
}

func TestAuthService_Login_MissingCallback(t *testing.T) {
	f := newAuthFixture()

	_, err := f.service.Login(context.Background(), "sess-1", "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuthService_Login_RotatesState(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.service.Login(ctx, "sess-1", testCallback)
	require.NoError(t, err)
	first := f.oauth.lastState

	_, err = f.service.Login(ctx, "sess-1", testCallback)
	require.NoError(t, err)

	assert.NotEqual(t, first, f.oauth.lastState)
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture()
	f.seedToken(t, "sess-1", "token")
	ctx := context.Background()

	err := f.service.Logout(ctx, "sess-1")

	require.NoError(t, err)
	token, err := f.service.Token(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, token)
	assert.Equal(t, 0, f.sessions.Len(), "logged out session should be removed")
}

func TestAuthService_Logout_KeepsSessionWithoutToken(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, err := f.service.Login(ctx, "sess-1", testCallback)
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, "sess-1"))

	sess, err := f.sessions.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.State, "pending login should survive logout")
}

func TestAuthService_Logout_NoSession(t *testing.T) {
	f := newAuthFixture()

	err := f.service.Logout(context.Background(), "never-seen")

	require.NoError(t, err)
	assert.Equal(t, 0, f.sessions.Len())
}

func TestAuthService_Authorized_Denied(t *testing.T) {
	f := newAuthFixture()

	_, err := f.service.Authorized(context.Background(), "sess-1", testCallback, driving.CallbackParams{
		Error:            "access_denied",
		ErrorReason:      "user_denied",
		ErrorDescription: "The user denied your request",
	})

	var denied *domain.AccessDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, "user_denied", denied.Reason)
	assert.Equal(t, "The user denied your request", denied.Description)
	assert.Equal(t, "Access denied: reason=user_denied error=The user denied your request", err.Error())
	assert.Empty(t, f.oauth.lastCode, "no exchange should happen")
}

func TestAuthService_Authorized_DeniedFallsBackToErrorCode(t *testing.T) {
	f := newAuthFixture()

	_, err := f.service.Authorized(context.Background(), "sess-1", testCallback, driving.CallbackParams{
		Error: "access_denied",
	})

	var denied *domain.AccessDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, "access_denied", denied.Reason)
	assert.Empty(t, denied.Description)
}

func TestAuthService_Authorized_Success(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.service.Login(ctx, "sess-1", testCallback)
	require.NoError(t, err)
	state := f.oauth.lastState
	verifier := f.oauth.lastCodeVerifier

	info, err := f.service.Authorized(ctx, "sess-1", testCallback, driving.CallbackParams{
		Code:  "auth-code",
		State: state,
	})

	require.NoError(t, err)
	assert.Equal(t, "user@example.com", info.Email)
	assert.Equal(t, "auth-code", f.oauth.lastCode)
	assert.Equal(t, verifier, f.oauth.lastCodeVerifier)
	assert.Equal(t, testCallback, f.oauth.lastRedirectURI)

	sess, err := f.sessions.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, sess.Token)
	assert.Equal(t, "ya29.token", sess.Token.AccessToken)
	assert.Empty(t, sess.Token.Secret)
	assert.Empty(t, sess.State)
	assert.Empty(t, sess.CodeVerifier)

	require.NotNil(t, f.profiles.seenToken)
	assert.Equal(t, "ya29.token", f.profiles.seenToken.AccessToken)
}

func TestAuthService_Authorized_StateMismatch(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.service.Login(ctx, "sess-1", testCallback)
	require.NoError(t, err)

	_, err = f.service.Authorized(ctx, "sess-1", testCallback, driving.CallbackParams{
		Code:  "auth-code",
		State: "forged",
	})

	assert.ErrorIs(t, err, domain.ErrStateMismatch)
	assert.Empty(t, f.oauth.lastCode)
}

func TestAuthService_Authorized_NoPendingLogin(t *testing.T) {
	f := newAuthFixture()

	_, err := f.service.Authorized(context.Background(), "sess-1", testCallback, driving.CallbackParams{
		Code: "auth-code",
	})

	assert.ErrorIs(t, err, domain.ErrStateMismatch)
}

func TestAuthService_Authorized_ExchangeFails(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	f.oauth.err = errors.New("invalid_grant")

	_, err := f.service.Login(ctx, "sess-1", testCallback)
	require.NoError(t, err)

	_, err = f.service.Authorized(ctx, "sess-1", testCallback, driving.CallbackParams{
		Code:  "auth-code",
		State: f.oauth.lastState,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchanging authorization code")

	token, err := f.service.Token(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestAuthService_Token(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	token, err := f.service.Token(ctx, "sess-1")
	require.NoError(t, err)
	assert.Nil(t, token)

	f.seedToken(t, "sess-1", "abc")
	token, err = f.service.Token(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, &domain.SessionToken{AccessToken: "abc"}, token)
}

// failingSessionStore is a driven.SessionStore whose reads always fail.
type failingSessionStore struct {
	memory.SessionStore
}

func (f *failingSessionStore) Get(_ context.Context, _ string) (*domain.Session, error) {
	return nil, errors.New("disk on fire")
}

func TestAuthService_StoreError(t *testing.T) {
	service := NewAuthService(&failingSessionStore{}, &mockOAuthClient{}, &mockProfileFetcher{})

	_, err := service.Token(context.Background(), "sess-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading session")
}
