// Package history persists per-activity conversion outcomes in SQLite.
//
// Every dispatch writes one row tagged with the run's UUID so later
// invocations (and the history command) can see what was converted, skipped,
// or failed, and why. The database is a ledger, not a work queue: rows are
// only ever appended.
package history
