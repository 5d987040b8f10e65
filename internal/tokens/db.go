package tokens

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forgeo/crm-audit-server/internal/db"
	"github.com/forgeo/crm-audit-server/internal/db/sqlc"
)

type dbStore struct {
	pool *pgxpool.Pool
}

// NewDBStore creates a credential store backed by the crm_token table
func NewDBStore(pool *pgxpool.Pool) Store {
	return &dbStore{pool: pool}
}

func (s *dbStore) Active(ctx context.Context, userID string) (*Token, error) {
	row, err := sqlc.New(s.pool).GetActiveToken(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoActiveToken
		}
		return nil, db.Wrap("get active token", err)
	}

	token := &Token{
		UserID:      row.UserID,
		AccessToken: row.AccessToken,
		TokenType:   row.TokenType,
		ExpiresAt:   row.ExpiresAt,
	}
	if row.RefreshToken != nil {
		token.RefreshToken = *row.RefreshToken
	}
	return token, nil
}

func (s *dbStore) ListActiveUsers(ctx context.Context) ([]string, error) {
	users, err := sqlc.New(s.pool).ListUsersWithActiveTokens(ctx)
	if err != nil {
		return nil, db.Wrap("list users with active tokens", err)
	}
	return users, nil
}

func (s *dbStore) Save(ctx context.Context, token *Token) error {
	var refresh *string
	if token.RefreshToken != "" {
		refresh = &token.RefreshToken
	}
	tokenType := token.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	err := sqlc.New(s.pool).UpsertToken(ctx, sqlc.UpsertTokenParams{
		UserID:       token.UserID,
		AccessToken:  token.AccessToken,
		RefreshToken: refresh,
		TokenType:    tokenType,
		ExpiresAt:    token.ExpiresAt,
	})
	return db.Wrap("save token", err)
}

func (s *dbStore) Deactivate(ctx context.Context, userID string) error {
	n, err := sqlc.New(s.pool).DeactivateToken(ctx, userID)
	if err != nil {
		return db.Wrap("deactivate token", err)
	}
	if n == 0 {
		return ErrNoActiveToken
	}
	return nil
}
