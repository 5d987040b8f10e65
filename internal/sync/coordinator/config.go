package coordinator

import (
	"math/rand/v2"
	"time"

	"github.com/forgeo/crm-audit-server/internal/config"
)

// jitterDivisor sets the jitter to ±1/10 of the sweep interval
const jitterDivisor = 10

type settings struct {
	enabled            bool
	interval           time.Duration
	startupDelay       time.Duration
	maxConcurrentUsers int
	maxAttempts        uint
	initialInterval    time.Duration
}

func settingsFrom(cfg *config.SchedulerConfig) settings {
	return settings{
		enabled:            cfg != nil && cfg.Enabled,
		interval:           cfg.GetInterval(),
		startupDelay:       cfg.GetStartupDelay(),
		maxConcurrentUsers: cfg.GetMaxConcurrentUsers(),
		maxAttempts:        cfg.GetMaxAttempts(),
		initialInterval:    cfg.GetInitialInterval(),
	}
}

// calculateInterval returns base with a random jitter applied so that several instances
// do not sweep at the same moment.
func calculateInterval(base time.Duration) time.Duration {
	jitter := base / jitterDivisor
	if jitter <= 0 {
		return base
	}
	//nolint:gosec // G404: Non-cryptographic randomness is sufficient for scheduling jitter
	offset := time.Duration(rand.Int64N(int64(2*jitter))) - jitter
	return base + offset
}
