// Package database provides SQLite connectivity for the simulator's
// transition history.
//
// This package manages:
//   - Database connection with WAL mode and a busy timeout
//   - Schema migrations registered by the migrations package
//   - A single-connection pool matching SQLite's single writer
//
// All queries use parameterised statements and the database file is
// created with 0600 permissions. The special path ":memory:" opens a
// private in-memory database, used by tests and throwaway runs.
//
// Usage:
//
//	db, err := database.Open(cfg.History)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migrations are additive-only. Each file pair is named
// YYYYMMDD_HHMMSS_description.up.sql / .down.sql.
package database
