// Package tokens reads the CRM credentials stored for each user.
//
// Credentials are written by the OAuth flow, which lives outside this service.
// This package only reads them and exposes them as oauth2 token sources.
package tokens

import (
	"context"
	"errors"
	"time"
)

// ErrNoActiveToken is returned when a user has no usable CRM credential
var ErrNoActiveToken = errors.New("no active CRM token")

// Token is a stored CRM credential
type Token struct {
	UserID       string
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresAt    *time.Time
}

// Store provides access to the stored credentials.
//
//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/forgeo/crm-audit-server/internal/tokens Store
type Store interface {
	// Active returns the active, unexpired credential of a user or ErrNoActiveToken.
	Active(ctx context.Context, userID string) (*Token, error)
	// ListActiveUsers returns the ids of all users holding an active credential.
	ListActiveUsers(ctx context.Context) ([]string, error)
	// Save stores or replaces the credential of a user and marks it active.
	Save(ctx context.Context, token *Token) error
	// Deactivate marks the credential of a user inactive.
	Deactivate(ctx context.Context, userID string) error
}
