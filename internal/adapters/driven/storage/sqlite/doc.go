// Package sqlite provides a SQLite-based implementation of driven.SessionStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Sessions survive process restarts,
// so a browser keeps its login across deployments.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.signin/data/sessions.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
