package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/signin/internal/core/domain"
	"github.com/custodia-labs/signin/internal/core/ports/driven"
	"github.com/custodia-labs/signin/internal/core/ports/driving"
	"github.com/custodia-labs/signin/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// AuthService coordinates the Google login handshake.
// It keeps the access token in the session store and hands it to the
// provider client through a TokenGetter on every API call.
type AuthService struct {
	sessions driven.SessionStore
	oauth    driven.OAuthClient
	profiles driven.ProfileFetcher
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	sessions driven.SessionStore,
	oauth driven.OAuthClient,
	profiles driven.ProfileFetcher,
) *AuthService {
	return &AuthService{
		sessions: sessions,
		oauth:    oauth,
		profiles: profiles,
	}
}

// Index fetches the profile for an authenticated session.
func (s *AuthService) Index(ctx context.Context, sessionID string) (*driving.IndexResult, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.IsAuthenticated() {
		return nil, domain.ErrAuthRequired
	}
	// Record activity so idle pruning measures time since the last visit.
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}

	info, err := s.profiles.UserInfo(ctx, s.tokenGetter(sessionID))
	if err != nil {
		return nil, fmt.Errorf("fetching user info: %w", err)
	}

	return &driving.IndexResult{
		UserInfo: info,
		Session:  sess.Contents(),
	}, nil
}

// Login clears the stored token and starts a new authorization request.
func (s *AuthService) Login(ctx context.Context, sessionID, callbackURL string) (string, error) {
	if callbackURL == "" {
		return "", fmt.Errorf("%w: callback URL is required", domain.ErrInvalidInput)
	}

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return "", err
	}

	hs, err := newHandshake()
	if err != nil {
		return "", err
	}

	sess.ClearToken()
	sess.State = hs.state
	sess.CodeVerifier = hs.codeVerifier
	if err := s.save(ctx, sess); err != nil {
		return "", err
	}

	logger.Debug("login started for session %s, redirect_uri=%s", sessionID, callbackURL)
	return s.oauth.AuthCodeURL(hs.state, callbackURL, hs.codeVerifier), nil
}

// Logout forgets the stored token. An authenticated session holds nothing
// else (the handshake values are cleared on callback), so the record is
// removed outright.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.Token == nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Authorized handles the provider callback.
// When the provider sent no code the error fields are returned as an
// *domain.AccessDeniedError and the session is left untouched.
func (s *AuthService) Authorized(
	ctx context.Context,
	sessionID, callbackURL string,
	params driving.CallbackParams,
) (*domain.UserInfo, error) {
	if params.Code == "" {
		reason := params.ErrorReason
		if reason == "" {
			reason = params.Error
		}
		return nil, &domain.AccessDeniedError{
			Reason:      reason,
			Description: params.ErrorDescription,
		}
	}

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.State == "" || params.State != sess.State {
		logger.Warn("state mismatch on callback for session %s", sessionID)
		return nil, domain.ErrStateMismatch
	}

	token, err := s.oauth.Exchange(ctx, params.Code, callbackURL, sess.CodeVerifier)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	sess.Token = &domain.SessionToken{AccessToken: token.AccessToken}
	sess.ClearPending()
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	logger.Info("session %s authenticated", sessionID)

	info, err := s.profiles.UserInfo(ctx, s.tokenGetter(sessionID))
	if err != nil {
		return nil, fmt.Errorf("fetching user info: %w", err)
	}
	return info, nil
}

// Token returns the stored token, or nil when the session has none.
func (s *AuthService) Token(ctx context.Context, sessionID string) (*domain.SessionToken, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Token, nil
}

// tokenGetter binds Token to one session for the provider client.
func (s *AuthService) tokenGetter(sessionID string) driven.TokenGetter {
	return func(ctx context.Context) (*domain.SessionToken, error) {
		return s.Token(ctx, sessionID)
	}
}

// load returns the session for id, or a new empty one if none is stored.
func (s *AuthService) load(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty session id", domain.ErrInvalidInput)
	}
	sess, err := s.sessions.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewSession(id), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return sess, nil
}

func (s *AuthService) save(ctx context.Context, sess *domain.Session) error {
	sess.UpdatedAt = time.Now()
	if err := s.sessions.Save(ctx, *sess); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}
