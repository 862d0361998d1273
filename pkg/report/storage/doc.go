// Package storage persists verification reports so past runs can be
// listed, inspected and pruned.
//
// Two backends implement Storage:
//
//   - SQLiteStorage: durable history in a single database file, backed by
//     github.com/mattn/go-sqlite3 with WAL mode and a busy timeout
//   - MemoryStorage: a map guarded by a mutex, for tests and for runs that
//     want history only for their lifetime
//
// Each report is stored as its JSON document alongside indexed summary
// columns. Summaries are returned newest first.
package storage
