package device

import (
	"errors"
	"testing"
	"time"
)

func newRegistryWith(t *testing.T, names ...string) *Registry {
	t.Helper()
	r := NewRegistry()
	for _, n := range names {
		if err := r.Add(mustNew(t, KindLamp, n, Options{})); err != nil {
			t.Fatalf("Add(%q) error = %v", n, err)
		}
	}
	return r
}

func names(devices []*Device) []string {
	out := make([]string, 0, len(devices))
	for _, d := range devices {
		out = append(out, d.Name)
	}
	return out
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRegistry_AddNameConflict(t *testing.T) {
	r := newRegistryWith(t, "A")
	err := r.Add(mustNew(t, KindPlug, "A", Options{}))
	if !errors.Is(err, ErrNameConflict) || !errors.Is(err, ErrNameTaken) {
		t.Fatalf("Add(duplicate) error = %v, want ErrNameTaken", err)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after rejected add", r.Len())
	}
	if d, _ := r.Find("A"); d.Kind != KindLamp {
		t.Error("rejected add replaced the existing device")
	}
}

func TestRegistry_FindRemove(t *testing.T) {
	r := newRegistryWith(t, "A", "B")

	if _, err := r.Find("C"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Find(C) error = %v, want ErrNotFound", err)
	}
	d, err := r.Remove("A")
	if err != nil || d.Name != "A" {
		t.Fatalf("Remove(A) = %v, %v", d, err)
	}
	if _, err := r.Remove("A"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove(A) error = %v, want ErrNotFound", err)
	}
	if got := names(r.Devices()); !equalNames(got, []string{"B"}) {
		t.Errorf("Devices() = %v, want [B]", got)
	}
}

func TestRegistry_Rename(t *testing.T) {
	tests := []struct {
		name    string
		oldName string
		newName string
		wantErr error
	}{
		{name: "same name", oldName: "A", newName: "A", wantErr: ErrSameName},
		{name: "missing", oldName: "Z", newName: "Y", wantErr: ErrNotFound},
		{name: "taken", oldName: "A", newName: "B", wantErr: ErrNameTaken},
		{name: "empty", oldName: "A", newName: "", wantErr: ErrInvalidName},
		{name: "ok", oldName: "A", newName: "C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRegistryWith(t, "A", "B")
			_, err := r.Rename(tt.oldName, tt.newName)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Rename(%q, %q) error = %v, want %v", tt.oldName, tt.newName, err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if _, err := r.Find(tt.newName); err != nil {
					t.Errorf("Find(%q) after rename error = %v", tt.newName, err)
				}
				if _, err := r.Find(tt.oldName); !errors.Is(err, ErrNotFound) {
					t.Errorf("old name still resolvable: %v", err)
				}
			}
		})
	}
}

func TestRegistry_SortBySwitchTime(t *testing.T) {
	r := newRegistryWith(t, "A", "B", "C", "D")
	set := func(name string, at time.Time) {
		d, _ := r.Find(name)
		d.SwitchTime = &at
	}
	set("B", t0.Add(2*time.Hour))
	set("C", t0.Add(time.Hour))
	set("D", t0.Add(time.Hour))

	r.Sort()
	if got := names(r.Devices()); !equalNames(got, []string{"C", "D", "B", "A"}) {
		t.Errorf("after Sort() = %v, want [C D B A]", got)
	}

	next, ok := r.NextDue()
	if !ok || !next.Equal(t0.Add(time.Hour)) {
		t.Errorf("NextDue() = %v, %v", next, ok)
	}
	if got := names(r.DueAt(t0.Add(time.Hour))); !equalNames(got, []string{"C", "D"}) {
		t.Errorf("DueAt() = %v, want [C D]", got)
	}
}

func TestRegistry_NextDueEmpty(t *testing.T) {
	r := newRegistryWith(t, "A")
	if _, ok := r.NextDue(); ok {
		t.Error("NextDue() should report nothing scheduled")
	}
}

func TestRegistry_SnapshotIsCopy(t *testing.T) {
	r := newRegistryWith(t, "A")
	snap := r.Snapshot()
	snap[0].Name = "Changed"
	snap[0].Lamp.Kelvin = 6000

	d, err := r.Find("A")
	if err != nil {
		t.Fatalf("Find(A) error = %v", err)
	}
	if d.Lamp.Kelvin != DefaultKelvin {
		t.Error("Snapshot() leaked registry state")
	}
}
