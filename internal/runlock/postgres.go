package runlock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresGuard struct {
	pool *pgxpool.Pool
}

// NewPostgresGuard creates a guard backed by session advisory locks.
// Every held lease pins one pool connection until it is released.
func NewPostgresGuard(pool *pgxpool.Pool) Guard {
	return &postgresGuard{pool: pool}
}

func (g *postgresGuard) Acquire(ctx context.Context, key Key) (Lease, error) {
	conn, err := g.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection for run lock: %w", err)
	}

	var locked bool
	if err := conn.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", key.hash64()).Scan(&locked); err != nil {
		conn.Release()
		return nil, fmt.Errorf("failed to take advisory lock: %w", err)
	}
	if !locked {
		conn.Release()
		return nil, ErrRunInProgress
	}

	return &postgresLease{conn: conn, key: key}, nil
}

type postgresLease struct {
	conn *pgxpool.Conn
	key  Key
	once sync.Once
	err  error
}

func (l *postgresLease) Key() Key { return l.key }

func (l *postgresLease) Release(ctx context.Context) error {
	l.once.Do(func() {
		defer l.conn.Release()

		var unlocked bool
		err := l.conn.QueryRow(context.WithoutCancel(ctx), "SELECT pg_advisory_unlock($1)", l.key.hash64()).Scan(&unlocked)
		if err != nil {
			// Closing the session drops every advisory lock it holds
			slog.Warn("Failed to release advisory lock, closing connection", "key", l.key.String(), "error", err)
			_ = l.conn.Conn().Close(context.WithoutCancel(ctx))
			l.err = fmt.Errorf("failed to release advisory lock: %w", err)
			return
		}
		if !unlocked {
			l.err = fmt.Errorf("advisory lock for %s was not held", l.key)
		}
	})
	return l.err
}
