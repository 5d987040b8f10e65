package runlock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// releaseScript deletes the lease only if it still belongs to the caller
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// renewScript extends the lease only if it still belongs to the caller
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// renewDivisor sets how many renewals happen per ttl
const renewDivisor = 3

type redisGuard struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisGuard creates a guard backed by SET NX leases. A held lease is renewed
// every ttl/3, so only a lease whose holder crashed expires after ttl.
func NewRedisGuard(client redis.UniversalClient, ttl time.Duration) Guard {
	return &redisGuard{client: client, ttl: ttl}
}

func (g *redisGuard) Acquire(ctx context.Context, key Key) (Lease, error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, key.String(), token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to set run lease: %w", err)
	}
	if !ok {
		return nil, ErrRunInProgress
	}
	lease := &redisLease{
		client: g.client,
		key:    key,
		token:  token,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go lease.renew(g.ttl)
	return lease, nil
}

type redisLease struct {
	client redis.UniversalClient
	key    Key
	token  string
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
	err    error
}

// renew keeps the lease alive until Release or until another holder owns the key
func (l *redisLease) renew(ttl time.Duration) {
	defer close(l.done)

	ticker := time.NewTicker(max(ttl/renewDivisor, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), ttl)
			n, err := renewScript.Run(ctx, l.client, []string{l.key.String()}, l.token, ttl.Milliseconds()).Int()
			cancel()
			switch {
			case err != nil:
				slog.Warn("Failed to renew run lease", "key", l.key.String(), "error", err)
			case n == 0:
				slog.Warn("Run lease lost to another holder", "key", l.key.String())
				return
			}
		}
	}
}

func (l *redisLease) Key() Key { return l.key }

func (l *redisLease) Release(ctx context.Context) error {
	l.once.Do(func() {
		close(l.stop)
		<-l.done
		err := releaseScript.Run(context.WithoutCancel(ctx), l.client, []string{l.key.String()}, l.token).Err()
		if err != nil {
			l.err = fmt.Errorf("failed to release run lease: %w", err)
		}
	})
	return l.err
}
