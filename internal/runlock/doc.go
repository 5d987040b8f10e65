// Package runlock provides per-user, per-run-kind mutual exclusion for audit and sync runs.
//
// A Guard hands out at most one Lease per Key. A second Acquire for a held key fails
// immediately with ErrRunInProgress instead of waiting. Backends:
//
//   - postgres: session advisory locks held on a dedicated pool connection
//   - redis: SET NX leases with a TTL renewed while held, released by a compare-and-delete script
//   - file: gofrs/flock lock files in a directory
//   - memory: a mutex-protected set, for tests and single-process CLI runs
package runlock
