// Package store keeps the run history of processed pages in SQLite.
//
// Tables:
//   - pages: one row per distinct page, keyed by its content hash
//   - runs: one row per processing run, with the full report as JSON
//   - diagnostics: one row per diagnostic of a run, for filtering by code
//
// # Ordering
//
// Runs are ordered by their seq column, assigned on insert. Wall-clock time
// is never stored or used for ordering; listings break ties on id with
// COLLATE BINARY.
//
// # Idempotency
//
// Pages are content-addressed (ir.PageHash), so writing the same page twice
// keeps the first row. Runs are keyed by a caller-chosen id; writing a run
// whose id exists is a no-op that reports inserted=false.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
