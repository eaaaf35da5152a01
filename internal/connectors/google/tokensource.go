package google

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/signin/internal/core/domain"
	"github.com/custodia-labs/signin/internal/core/ports/driven"
)

// TokenSourceAdapter adapts a session TokenGetter to oauth2.TokenSource.
// This allows Google API clients to sign requests with the token stored
// in the caller's session.
type TokenSourceAdapter struct {
	getToken driven.TokenGetter
	ctx      context.Context
}

// NewTokenSource creates an oauth2.TokenSource from a TokenGetter.
func NewTokenSource(ctx context.Context, getToken driven.TokenGetter) oauth2.TokenSource {
	return &TokenSourceAdapter{
		getToken: getToken,
		ctx:      ctx,
	}
}

// Token implements oauth2.TokenSource interface.
// Called by Google API clients when they need an access token.
func (t *TokenSourceAdapter) Token() (*oauth2.Token, error) {
	token, err := t.getToken(t.ctx)
	if err != nil {
		return nil, err
	}
	if !token.IsValid() {
		return nil, domain.ErrAuthRequired
	}

	return &oauth2.Token{
		AccessToken: token.AccessToken,
		TokenType:   "Bearer",
	}, nil
}
