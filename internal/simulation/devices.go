package simulation

import (
	"context"
	"time"

	"github.com/nerrad567/gray-logic-sim/internal/device"
)

// now returns the current time or clock.ErrClockUnset.
// Must be called with s.mu held.
func (s *Simulation) now() (time.Time, error) {
	return s.clock.Now()
}

// Add creates and registers a device. Attributes are validated before
// registration, so a failed Add leaves the registry untouched.
//
// Returns:
//   - device.ErrNameTaken if the name is in use
//   - validation errors from device.New
func (s *Simulation) Add(ctx context.Context, kind device.Kind, name string, opts device.Options) (device.Device, error) {
	s.mu.Lock()
	defer s.unlockAndFlush(ctx)

	now, err := s.now()
	if err != nil {
		return device.Device{}, err
	}
	if _, err := s.registry.Find(name); err == nil {
		return device.Device{}, device.ErrNameTaken
	}

	d, err := device.New(kind, name, opts, now)
	if err != nil {
		return device.Device{}, err
	}
	if err := s.registry.Add(d); err != nil {
		return device.Device{}, err
	}

	if d.IsOn() {
		s.emit(SourceCommand, now, device.StatusOff, d)
	}
	s.logger.Info("device added", "device", d.Name, "kind", string(d.Kind), "id", d.ID)
	return *d.DeepCopy(), nil
}

// Remove switches the device off, closing its accounting window, and
// deletes it. Returns the device's final state.
func (s *Simulation) Remove(ctx context.Context, name string) (device.Device, error) {
	s.mu.Lock()
	defer s.unlockAndFlush(ctx)

	now, err := s.now()
	if err != nil {
		return device.Device{}, err
	}
	d, err := s.registry.Find(name)
	if err != nil {
		return device.Device{}, err
	}

	if from := d.Status; d.ForceOff(now) {
		s.emit(SourceRemove, now, from, d)
	}
	if _, err := s.registry.Remove(name); err != nil {
		return device.Device{}, err
	}

	s.emit(SourceRemove, now, d.Status, d)
	s.pending[len(s.pending)-1].Removed = true

	s.logger.Info("device removed", "device", d.Name, "id", d.ID)
	return *d.DeepCopy(), nil
}

// Device returns a snapshot of the named device.
func (s *Simulation) Device(name string) (device.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.registry.Find(name)
	if err != nil {
		return device.Device{}, err
	}
	return *d.DeepCopy(), nil
}

// Devices returns snapshots of all devices in current iteration order.
func (s *Simulation) Devices() []device.Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.Snapshot()
}

// SetSwitchTime schedules (or, with nil, clears) the named device's next
// automatic toggle, then re-sorts and re-runs the due-sweep. A switch time
// equal to now fires immediately.
//
// Returns:
//   - device.ErrSwitchTimeInPast if t is before now
//   - device.ErrRedundantTime if t equals the stored switch time
func (s *Simulation) SetSwitchTime(ctx context.Context, name string, t *time.Time) error {
	s.mu.Lock()
	defer s.unlockAndFlush(ctx)

	now, err := s.now()
	if err != nil {
		return err
	}
	d, err := s.registry.Find(name)
	if err != nil {
		return err
	}
	if err := d.SetSwitchTime(now, t); err != nil {
		return err
	}

	s.registry.Sort()
	s.processDue(now)
	return nil
}

// Switch applies a user-requested status change.
//
// Returns:
//   - device.ErrRedundantStatus if the device already has that status
func (s *Simulation) Switch(ctx context.Context, name string, status device.Status) error {
	return s.mutate(ctx, name, func(now time.Time, d *device.Device) error {
		return d.SetStatus(now, status)
	})
}

// Rename changes a device's name. Its ID is kept.
func (s *Simulation) Rename(ctx context.Context, oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.registry.Rename(oldName, newName)
	if err != nil {
		return err
	}
	s.logger.Info("device renamed", "from", oldName, "to", newName, "id", d.ID)
	return nil
}

// PlugIn attaches an item drawing ampere to the named plug.
func (s *Simulation) PlugIn(ctx context.Context, name string, ampere float64) error {
	return s.mutate(ctx, name, func(now time.Time, d *device.Device) error {
		return d.PlugIn(now, ampere)
	})
}

// PlugOut detaches the item from the named plug, flushing consumed energy.
func (s *Simulation) PlugOut(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.unlockAndFlush(ctx)

	now, err := s.now()
	if err != nil {
		return err
	}
	d, err := s.registry.Find(name)
	if err != nil {
		return err
	}
	if err := d.PlugOut(now); err != nil {
		return err
	}
	s.emit(SourcePlugOut, now, d.Status, d)
	return nil
}

// SetKelvin sets the white temperature of a lamp.
func (s *Simulation) SetKelvin(ctx context.Context, name string, kelvin int) error {
	return s.mutate(ctx, name, func(_ time.Time, d *device.Device) error {
		return d.SetKelvin(kelvin)
	})
}

// SetBrightness sets the brightness of a lamp.
func (s *Simulation) SetBrightness(ctx context.Context, name string, brightness int) error {
	return s.mutate(ctx, name, func(_ time.Time, d *device.Device) error {
		return d.SetBrightness(brightness)
	})
}

// SetColorCode sets the color of a color lamp.
func (s *Simulation) SetColorCode(ctx context.Context, name, hex string) error {
	return s.mutate(ctx, name, func(_ time.Time, d *device.Device) error {
		return d.SetColor(hex)
	})
}

// SetWhite sets kelvin and brightness of a lamp together. Values are
// validated before the device is looked up.
func (s *Simulation) SetWhite(ctx context.Context, name string, kelvin, brightness int) error {
	if err := device.ValidateWhite(kelvin, brightness); err != nil {
		return err
	}
	return s.mutate(ctx, name, func(_ time.Time, d *device.Device) error {
		return d.SetWhite(kelvin, brightness)
	})
}

// SetColor sets color and brightness of a color lamp together. Values are
// validated before the device is looked up.
func (s *Simulation) SetColor(ctx context.Context, name, hex string, brightness int) error {
	if _, err := device.ParseColor(hex); err != nil {
		return err
	}
	if err := device.ValidateBrightness(brightness); err != nil {
		return err
	}
	return s.mutate(ctx, name, func(_ time.Time, d *device.Device) error {
		return d.SetColorAndBrightness(hex, brightness)
	})
}

// mutate resolves a device under the lock and applies fn. A status change
// made by fn is emitted as a command transition.
func (s *Simulation) mutate(ctx context.Context, name string, fn func(now time.Time, d *device.Device) error) error {
	s.mu.Lock()
	defer s.unlockAndFlush(ctx)

	now, err := s.now()
	if err != nil {
		return err
	}
	d, err := s.registry.Find(name)
	if err != nil {
		return err
	}

	from := d.Status
	if err := fn(now, d); err != nil {
		return err
	}
	if d.Status != from {
		s.emit(SourceCommand, now, from, d)
	}
	return nil
}
