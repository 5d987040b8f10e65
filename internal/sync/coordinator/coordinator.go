package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/forgeo/crm-audit-server/internal/config"
	pkgsync "github.com/forgeo/crm-audit-server/internal/sync"
)

// ErrAlreadyStarted is returned by Start when the coordinator is already running
var ErrAlreadyStarted = errors.New("coordinator already started")

// Coordinator runs the periodic auto-sync sweep over all users with an active credential
//
//go:generate mockgen -destination=mocks/mock_coordinator.go -package=mocks github.com/forgeo/crm-audit-server/internal/sync/coordinator Coordinator
type Coordinator interface {
	// Start runs the sweep loop. It blocks until the context is cancelled or Stop is called.
	// When the sweep is disabled it returns immediately.
	Start(ctx context.Context) error

	// Stop cancels the loop and waits for the current sweep to return
	Stop() error

	// Status reports the scheduler state
	Status() Status

	// Trigger requests a sweep as soon as possible. It returns false when the coordinator
	// is not running or a request is already queued.
	Trigger() bool
}

// ActiveUserLister lists the users the sweep considers
type ActiveUserLister interface {
	ListActiveUsers(ctx context.Context) ([]string, error)
}

// Status is the scheduler state reported to API clients
type Status struct {
	Enabled   bool          `json:"enabled"`
	Running   bool          `json:"running"`
	Interval  string        `json:"interval"`
	NextRun   *time.Time    `json:"next_run"`
	LastRun   *time.Time    `json:"last_run"`
	LastSweep *SweepSummary `json:"last_sweep,omitempty"`
}

// SweepSummary counts the outcomes of one sweep
type SweepSummary struct {
	Users   int `json:"users"`
	Synced  int `json:"synced"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Option is a function that configures the coordinator
type Option func(*defaultCoordinator)

// WithClock sets the time source used for status timestamps
func WithClock(now func() time.Time) Option {
	return func(c *defaultCoordinator) {
		c.now = now
	}
}

type defaultCoordinator struct {
	runner   pkgsync.Runner
	checker  pkgsync.FreshnessChecker
	users    ActiveUserLister
	settings settings
	now      func() time.Time

	trigger chan struct{}

	// Lifecycle management
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	done       chan struct{}
	running    bool
	nextRun    *time.Time
	lastRun    *time.Time
	lastSweep  *SweepSummary
}

// New creates a new coordinator with injected dependencies. A nil cfg disables the sweep.
func New(
	runner pkgsync.Runner,
	checker pkgsync.FreshnessChecker,
	users ActiveUserLister,
	cfg *config.SchedulerConfig,
	opts ...Option,
) Coordinator {
	c := &defaultCoordinator{
		runner:   runner,
		checker:  checker,
		users:    users,
		settings: settingsFrom(cfg),
		now:      time.Now,
		trigger:  make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Start begins the background sweep loop
func (c *defaultCoordinator) Start(ctx context.Context) error {
	if !c.settings.enabled {
		slog.Info("Auto-sync is disabled")
		return nil
	}

	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	coordCtx, cancel := context.WithCancel(ctx)
	c.cancelFunc = cancel
	c.done = make(chan struct{})
	c.running = true
	done := c.done
	c.setNextRunLocked(c.settings.startupDelay)
	c.mu.Unlock()

	defer func() {
		cancel()
		c.mu.Lock()
		c.running = false
		c.nextRun = nil
		c.mu.Unlock()
		close(done)
		slog.Info("Auto-sync coordinator shutting down")
	}()

	slog.Info("Starting auto-sync coordinator",
		"interval", c.settings.interval,
		"startup_delay", c.settings.startupDelay,
		"max_concurrent_users", c.settings.maxConcurrentUsers)

	timer := time.NewTimer(c.settings.startupDelay)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
		case <-c.trigger:
			slog.Info("Auto-sync sweep triggered")
		case <-coordCtx.Done():
			slog.Info("Auto-sync coordinator stopping")
			return nil
		}

		summary := c.sweep(coordCtx)
		interval := calculateInterval(c.settings.interval)

		c.mu.Lock()
		finishedAt := c.now().UTC()
		c.lastRun = &finishedAt
		c.lastSweep = &summary
		c.setNextRunLocked(interval)
		c.mu.Unlock()

		timer.Reset(interval)
	}
}

// Stop gracefully stops the coordinator
func (c *defaultCoordinator) Stop() error {
	c.mu.Lock()
	cancel, done, running := c.cancelFunc, c.done, c.running
	c.mu.Unlock()

	if !running || cancel == nil {
		return nil
	}

	slog.Info("Stopping auto-sync coordinator")
	cancel()
	<-done
	return nil
}

func (c *defaultCoordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{
		Enabled:  c.settings.enabled,
		Running:  c.running,
		Interval: c.settings.interval.String(),
		NextRun:  c.nextRun,
		LastRun:  c.lastRun,
	}
	if c.lastSweep != nil {
		summary := *c.lastSweep
		st.LastSweep = &summary
	}
	return st
}

func (c *defaultCoordinator) Trigger() bool {
	c.mu.Lock()
	running := c.running
	c.mu.Unlock()
	if !running {
		return false
	}

	select {
	case c.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

func (c *defaultCoordinator) setNextRunLocked(in time.Duration) {
	next := c.now().UTC().Add(in)
	c.nextRun = &next
}
