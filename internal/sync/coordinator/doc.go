// Package coordinator schedules automatic snapshot syncs.
//
// The Coordinator is an explicit lifecycle component built once by the application
// builder and passed to whatever needs to start, stop, inspect or trigger it:
//
//	coord := coordinator.New(runner, checker, tokenStore, cfg.Scheduler)
//
//	go func() { _ = coord.Start(ctx) }()
//	defer coord.Stop()
//
// # Sweep
//
// After the configured startup delay, and then on every interval (with ±10% jitter),
// the coordinator lists users holding an active CRM credential. For each user it asks
// the FreshnessChecker whether the snapshot needs a refresh and, if so, runs a sync.
// Users are processed concurrently up to scheduler.maxConcurrentUsers; each user's
// sync itself stays sequential.
//
// # Error Handling
//
// Transient CRM failures are retried with exponential backoff up to
// scheduler.retry.maxAttempts. Missing or rejected credentials and runs already in
// progress are not retried. A failed user never stops the sweep; the next attempt
// happens on the next interval.
package coordinator
