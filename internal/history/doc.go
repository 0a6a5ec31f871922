// Package history persists simulation transitions to SQLite.
//
// A Store is a simulation.Recorder. Each transition becomes one row in the
// transitions table holding the source, the status change, the simulated
// time and a JSON snapshot of the device after the change. Rows are keyed
// by the device ID, so a device keeps its history across renames.
//
// Usage:
//
//	db, _ := database.Open(cfg.History)
//	_ = db.Migrate(ctx)
//
//	store := history.NewStore(db.DB, "")
//	sim.AddRecorder(store)
//
//	entries, err := store.DeviceHistory(ctx, deviceID, 20)
package history
