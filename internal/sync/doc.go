// Package sync refreshes the local snapshot of a user's CRM records and decides when a
// refresh is due.
//
// # Runner
//
// Runner drives a sync run: it claims the user's sync guard, creates an in_progress run,
// then fetches contacts, companies and deals one after another and upserts them through
// a writer.SnapshotWriter. Totals are recounted from the stored snapshot rows before the
// run is marked completed, so they reflect what was persisted rather than what was
// fetched.
//
// Both failure paths return the run (when a row exists) together with a
// *status.RunError. A nil error always means the run completed.
//
// # Freshness
//
// Assess is a pure function over the last completed sync:
//
//   - ReasonNoPreviousSync: the user never completed a sync
//   - ReasonIncompleteSync: the last run has no completion time
//   - ReasonVeryOld: 24 hours or more since the last completion
//   - ReasonStale: 6 hours or more since the last completion
//   - ReasonDataFresh: less than 6 hours since the last completion
//
// Every reason except ReasonDataFresh asks for a sync. ShouldSyncOnLogin is stricter and
// ignores ReasonIncompleteSync. FreshnessChecker looks up the last completed run and
// applies Assess with its clock.
//
// # Coordinator Package
//
// The sync/coordinator subpackage runs the periodic sweep over all users holding an
// active credential.
package sync
