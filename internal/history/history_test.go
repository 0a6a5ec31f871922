package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-sim/internal/device"
	"github.com/nerrad567/gray-logic-sim/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-sim/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-sim/internal/simulation"
	_ "github.com/nerrad567/gray-logic-sim/migrations" // registers the transitions schema
)

var t0 = time.Date(2023, 3, 31, 14, 0, 0, 0, time.UTC)

// setupStore opens an in-memory database with the real migrations applied.
func setupStore(t *testing.T, runID string) *Store {
	t.Helper()

	db, err := database.Open(config.HistoryConfig{Path: database.MemoryPath, BusyTimeout: 1})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // Test cleanup

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return NewStore(db.DB, runID)
}

func TestStore_RecordsSimulationTransitions(t *testing.T) {
	store := setupStore(t, "run-1")
	ctx := context.Background()

	sim := simulation.New()
	sim.AddRecorder(store)
	if err := sim.SetInitialTime(ctx, t0); err != nil {
		t.Fatal(err)
	}

	on := device.StatusOn
	kettle, err := sim.Add(ctx, device.KindPlug, "Kettle", device.Options{Status: &on})
	if err != nil {
		t.Fatal(err)
	}
	switchAt := t0.Add(30 * time.Minute)
	if err := sim.SetSwitchTime(ctx, "Kettle", &switchAt); err != nil {
		t.Fatal(err)
	}
	if _, err := sim.SkipMinutes(ctx, 45); err != nil {
		t.Fatal(err)
	}
	if err := sim.Rename(ctx, "Kettle", "Boiler"); err != nil {
		t.Fatal(err)
	}
	if err := sim.Switch(ctx, "Boiler", device.StatusOn); err != nil {
		t.Fatal(err)
	}

	entries, err := store.RunHistory(ctx, "")
	if err != nil {
		t.Fatalf("RunHistory() error = %v", err)
	}

	want := []struct {
		source simulation.Source
		name   string
		from   device.Status
		to     device.Status
		at     time.Time
	}{
		{simulation.SourceCommand, "Kettle", device.StatusOff, device.StatusOn, t0},
		// Scheduled flips are stamped with the time the sweep ran.
		{simulation.SourceSchedule, "Kettle", device.StatusOn, device.StatusOff, t0.Add(45 * time.Minute)},
		{simulation.SourceCommand, "Boiler", device.StatusOff, device.StatusOn, t0.Add(45 * time.Minute)},
	}
	if len(entries) != len(want) {
		t.Fatalf("entries = %d, want %d: %+v", len(entries), len(want), entries)
	}
	for i, w := range want {
		e := entries[i]
		if e.Source != w.source || e.DeviceName != w.name || e.From != w.from || e.To != w.to {
			t.Errorf("entry[%d] = %s %s %s->%s, want %s %s %s->%s",
				i, e.Source, e.DeviceName, e.From, e.To, w.source, w.name, w.from, w.to)
		}
		if !e.SimTime.Equal(w.at) {
			t.Errorf("entry[%d].SimTime = %v, want %v", i, e.SimTime, w.at)
		}
		if e.DeviceID != kettle.ID || e.RunID != "run-1" || e.Kind != device.KindPlug {
			t.Errorf("entry[%d] identity = %s/%s/%s", i, e.DeviceID, e.RunID, e.Kind)
		}
	}

	if got := entries[1].Device; got.SwitchTime != nil || got.Plug == nil {
		t.Errorf("schedule snapshot = %+v", got)
	}
}

func TestStore_DeviceHistoryOrderAndLimit(t *testing.T) {
	store := setupStore(t, "")
	ctx := context.Background()

	if store.RunID() == "" {
		t.Fatal("empty run ID should be generated")
	}

	d := device.Device{ID: "dev-1", Name: "Desk", Kind: device.KindLamp, Status: device.StatusOn}
	for i := 0; i < 5; i++ {
		tr := simulation.Transition{
			Source: simulation.SourceCommand,
			At:     t0.Add(time.Duration(i) * time.Minute),
			From:   device.StatusOff,
			To:     device.StatusOn,
			Device: d,
		}
		if err := store.RecordTransition(ctx, tr); err != nil {
			t.Fatalf("RecordTransition() error = %v", err)
		}
	}

	entries, err := store.DeviceHistory(ctx, "dev-1", 3)
	if err != nil {
		t.Fatalf("DeviceHistory() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	if !entries[0].SimTime.Equal(t0.Add(4*time.Minute)) || !entries[2].SimTime.Equal(t0.Add(2*time.Minute)) {
		t.Errorf("not newest first: %v .. %v", entries[0].SimTime, entries[2].SimTime)
	}

	none, err := store.DeviceHistory(ctx, "dev-2", 0)
	if err != nil || len(none) != 0 {
		t.Errorf("DeviceHistory(unknown) = %v, %v", none, err)
	}
}

func TestStore_Validation(t *testing.T) {
	store := setupStore(t, "run")
	ctx := context.Background()

	if err := store.RecordTransition(ctx, simulation.Transition{}); !errors.Is(err, ErrDeviceIDRequired) {
		t.Errorf("RecordTransition(no id) error = %v", err)
	}
	if _, err := store.DeviceHistory(ctx, "", 10); !errors.Is(err, ErrDeviceIDRequired) {
		t.Errorf("DeviceHistory(no id) error = %v", err)
	}
	if _, err := store.Prune(ctx, 0); !errors.Is(err, ErrInvalidRetention) {
		t.Errorf("Prune(0) error = %v", err)
	}
}

func TestStore_Prune(t *testing.T) {
	store := setupStore(t, "run")
	ctx := context.Background()

	wall := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	d := device.Device{ID: "dev-1", Name: "Cam", Kind: device.KindCamera}
	for _, age := range []time.Duration{72 * time.Hour, 48 * time.Hour, time.Hour} {
		store.now = func() time.Time { return wall.Add(-age) }
		if err := store.RecordTransition(ctx, simulation.Transition{Source: simulation.SourceRemove, At: t0, Device: d}); err != nil {
			t.Fatal(err)
		}
	}
	store.now = func() time.Time { return wall }

	n, err := store.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Prune() deleted %d, want 2", n)
	}

	left, err := store.RunHistory(ctx, "run")
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 1 {
		t.Errorf("remaining = %d, want 1", len(left))
	}
}

func TestClampLimit(t *testing.T) {
	tests := map[int]int{-1: defaultLimit, 0: defaultLimit, 10: 10, maxLimit + 1: maxLimit}
	for in, want := range tests {
		if got := clampLimit(in); got != want {
			t.Errorf("clampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}
