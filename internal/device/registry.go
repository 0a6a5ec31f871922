package device

import (
	"fmt"
	"slices"
	"sort"
	"time"
)

// Registry owns the ordered collection of devices and enforces name
// uniqueness.
//
// Iteration order is insertion order until Sort is called, after which
// devices are ordered by switch time ascending with unscheduled devices
// last. Ties keep insertion order.
//
// Thread Safety:
//   - Registry is not synchronised. simulation.Simulation serialises every
//     access, together with the clock, behind one lock.
type Registry struct {
	devices []*Device
	nextSeq uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Len returns the number of registered devices.
func (r *Registry) Len() int {
	return len(r.devices)
}

// Add registers a device.
//
// Returns:
//   - ErrInvalidName if the name is empty
//   - ErrNameTaken if another device has the same name
func (r *Registry) Add(d *Device) error {
	if d == nil {
		return fmt.Errorf("%w: nil device", ErrInvalidKind)
	}
	if err := ValidateName(d.Name); err != nil {
		return err
	}
	if r.index(d.Name) >= 0 {
		return fmt.Errorf("%w: %s", ErrNameTaken, d.Name)
	}

	r.nextSeq++
	d.seq = r.nextSeq
	r.devices = append(r.devices, d)
	return nil
}

// Find returns the live device with the given name.
// The pointer aliases registry state and must not escape the owner's lock.
func (r *Registry) Find(name string) (*Device, error) {
	i := r.index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return r.devices[i], nil
}

// Remove deletes a device and returns it.
func (r *Registry) Remove(name string) (*Device, error) {
	i := r.index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	d := r.devices[i]
	r.devices = slices.Delete(r.devices, i, i+1)
	return d, nil
}

// Rename changes a device's name.
//
// Returns:
//   - ErrSameName if oldName equals newName
//   - ErrNotFound if oldName is not registered
//   - ErrInvalidName if newName is empty
//   - ErrNameTaken if newName belongs to another device
func (r *Registry) Rename(oldName, newName string) (*Device, error) {
	if oldName == newName {
		return nil, ErrSameName
	}
	d, err := r.Find(oldName)
	if err != nil {
		return nil, err
	}
	if err := ValidateName(newName); err != nil {
		return nil, err
	}
	if r.index(newName) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrNameTaken, newName)
	}
	d.Name = newName
	return d, nil
}

// Devices returns the live devices in current iteration order.
func (r *Registry) Devices() []*Device {
	return r.devices
}

// Snapshot returns deep copies of all devices in current iteration order.
// Callers can safely modify them.
func (r *Registry) Snapshot() []Device {
	out := make([]Device, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, *d.DeepCopy())
	}
	return out
}

// Sort orders devices by switch time ascending, unscheduled last.
// Equal switch times keep insertion order.
func (r *Registry) Sort() {
	sort.SliceStable(r.devices, func(i, j int) bool {
		return scheduledBefore(r.devices[i], r.devices[j])
	})
}

func scheduledBefore(a, b *Device) bool {
	switch {
	case a.SwitchTime == nil:
		return false
	case b.SwitchTime == nil:
		return true
	case !a.SwitchTime.Equal(*b.SwitchTime):
		return a.SwitchTime.Before(*b.SwitchTime)
	default:
		return a.seq < b.seq
	}
}

// NextDue returns the earliest scheduled switch time, or false if no device
// is scheduled.
func (r *Registry) NextDue() (time.Time, bool) {
	var (
		earliest time.Time
		found    bool
	)
	for _, d := range r.devices {
		if d.SwitchTime == nil {
			continue
		}
		if !found || d.SwitchTime.Before(earliest) {
			earliest = *d.SwitchTime
			found = true
		}
	}
	return earliest, found
}

// DueAt returns every device scheduled exactly at t, in insertion order.
func (r *Registry) DueAt(t time.Time) []*Device {
	var group []*Device
	for _, d := range r.devices {
		if d.SwitchTime != nil && d.SwitchTime.Equal(t) {
			group = append(group, d)
		}
	}
	slices.SortFunc(group, func(a, b *Device) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		default:
			return 0
		}
	})
	return group
}

func (r *Registry) index(name string) int {
	return slices.IndexFunc(r.devices, func(d *Device) bool {
		return d.Name == name
	})
}
