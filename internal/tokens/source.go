package tokens

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
)

type storeTokenSource struct {
	ctx    context.Context
	store  Store
	userID string
}

// NewTokenSource returns an oauth2.TokenSource that reads the credential of userID
// from the store whenever the cached one has expired. initial seeds the cache.
func NewTokenSource(ctx context.Context, store Store, initial *Token) oauth2.TokenSource {
	src := &storeTokenSource{ctx: ctx, store: store, userID: initial.UserID}
	return oauth2.ReuseTokenSource(initial.OAuth2(), src)
}

func (s *storeTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.store.Active(s.ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load token for user %s: %w", s.userID, err)
	}
	return token.OAuth2(), nil
}

// OAuth2 converts the stored credential to an oauth2.Token
func (t *Token) OAuth2() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
	}
	if t.ExpiresAt != nil {
		tok.Expiry = *t.ExpiresAt
	}
	return tok
}
