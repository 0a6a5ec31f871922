package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-sim/internal/device"
	"github.com/nerrad567/gray-logic-sim/internal/simulation"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Entry is one persisted transition.
type Entry struct {
	ID         int64             `json:"id"`
	RunID      string            `json:"run_id"`
	DeviceID   string            `json:"device_id"`
	DeviceName string            `json:"device_name"`
	Kind       device.Kind       `json:"kind"`
	Source     simulation.Source `json:"source"`
	From       device.Status     `json:"from"`
	To         device.Status     `json:"to"`
	Removed    bool              `json:"removed"`

	// SimTime is the simulated instant of the transition.
	SimTime time.Time `json:"sim_time"`
	// RecordedAt is the wall-clock time the row was written (UTC).
	RecordedAt time.Time `json:"recorded_at"`

	// Device is the snapshot taken after the change.
	Device device.Device `json:"device"`
}

// Store persists simulation transitions in the transitions table.
//
// A Store is bound to one run; every row it writes carries the same run ID
// so several scripts can share a database.
type Store struct {
	db    *sql.DB
	runID string
	now   func() time.Time
}

// NewStore creates a store writing under runID. An empty runID gets a
// generated one.
//
// Parameters:
//   - db: Open SQLite connection with the transitions schema applied
//   - runID: Identifier shared by every row of this run
//
// Returns:
//   - *Store: Store ready to be registered as a simulation recorder
func NewStore(db *sql.DB, runID string) *Store {
	if runID == "" {
		runID = uuid.NewString()
	}
	return &Store{
		db:    db,
		runID: runID,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// RunID returns the identifier written with every row.
func (s *Store) RunID() string {
	return s.runID
}

// RecordTransition inserts one transition. It satisfies simulation.Recorder.
func (s *Store) RecordTransition(ctx context.Context, tr simulation.Transition) error {
	if tr.Device.ID == "" {
		return ErrDeviceIDRequired
	}

	snapshot, err := json.Marshal(tr.Device)
	if err != nil {
		return fmt.Errorf("marshalling device snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO transitions
		 (run_id, device_id, device_name, kind, source, from_status, to_status, removed, sim_time, recorded_at, snapshot)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.runID,
		tr.Device.ID,
		tr.Device.Name,
		string(tr.Device.Kind),
		string(tr.Source),
		string(tr.From),
		string(tr.To),
		tr.Removed,
		formatTimestamp(tr.At),
		formatTimestamp(s.now()),
		string(snapshot),
	)
	if err != nil {
		return fmt.Errorf("inserting transition: %w", err)
	}
	return nil
}

// DeviceHistory returns the most recent transitions of one device across
// all runs, newest simulated time first.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - deviceID: Device identifier (stable across renames)
//   - limit: Maximum entries to return (default 50, max 200)
func (s *Store) DeviceHistory(ctx context.Context, deviceID string, limit int) ([]Entry, error) {
	if deviceID == "" {
		return nil, ErrDeviceIDRequired
	}
	limit = clampLimit(limit)

	return s.query(ctx,
		`SELECT id, run_id, device_id, device_name, kind, source, from_status, to_status, removed, sim_time, recorded_at, snapshot
		 FROM transitions
		 WHERE device_id = ?
		 ORDER BY sim_time DESC, id DESC
		 LIMIT ?`,
		deviceID, limit,
	)
}

// RunHistory returns every transition of a run in the order it was recorded.
func (s *Store) RunHistory(ctx context.Context, runID string) ([]Entry, error) {
	if runID == "" {
		runID = s.runID
	}
	return s.query(ctx,
		`SELECT id, run_id, device_id, device_name, kind, source, from_status, to_status, removed, sim_time, recorded_at, snapshot
		 FROM transitions
		 WHERE run_id = ?
		 ORDER BY id`,
		runID,
	)
}

// Prune deletes rows recorded more than olderThan ago (wall-clock).
//
// Returns:
//   - int64: Number of rows deleted
//   - error: nil on success, otherwise the underlying database error
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, ErrInvalidRetention
	}

	cutoff := formatTimestamp(s.now().Add(-olderThan))
	result, err := s.db.ExecContext(ctx, "DELETE FROM transitions WHERE recorded_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting transitions: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return n, nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transitions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                   Entry
			kind, source        string
			from, to            string
			simTime, recordedAt string
			snapshot            string
		)
		if err := rows.Scan(&e.ID, &e.RunID, &e.DeviceID, &e.DeviceName, &kind, &source,
			&from, &to, &e.Removed, &simTime, &recordedAt, &snapshot); err != nil {
			return nil, fmt.Errorf("scanning transition: %w", err)
		}

		e.Kind = device.Kind(kind)
		e.Source = simulation.Source(source)
		e.From = device.Status(from)
		e.To = device.Status(to)

		if e.SimTime, err = parseTimestamp(simTime); err != nil {
			return nil, err
		}
		if e.RecordedAt, err = parseTimestamp(recordedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(snapshot), &e.Device); err != nil {
			return nil, fmt.Errorf("unmarshalling device snapshot: %w", err)
		}

		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transitions: %w", err)
	}
	return entries, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return min(limit, maxLimit)
}

// formatTimestamp renders t so that lexical order matches time order.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrTimestamp)
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrTimestamp, err)
	}
	return t, nil
}
