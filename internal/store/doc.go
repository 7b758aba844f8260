// Package store persists simulation traces in SQLite.
//
// A run is one simulated trigger invocation over a rule file: the inputs it
// saw, the offers it produced and every engine event it emitted. Runs and
// events are append-only and ordered by logical seq, so reading a run back
// yields the same event order the engine produced.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
//   - a single open connection; SQLite allows one writer
package store
