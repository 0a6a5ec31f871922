package device

import (
	"fmt"
	"time"
)

// Options carries the optional attributes accepted when a device is added.
// Nil fields keep the kind's defaults.
type Options struct {
	Status *Status

	// Plug
	Ampere *float64

	// Lamp and ColorLamp. Color is only accepted by ColorLamp.
	Kelvin     *int
	Brightness *int
	Color      *string

	// Camera (required)
	MBPerMinute float64
}

// New builds a device of the given kind at logical time now.
//
// Every attribute is validated before the device is assembled, so a failed
// call never yields a half-initialised device. The initial status is applied
// without the redundancy check but with accounting, so a camera added "on"
// opens its recording window at now.
func New(kind Kind, name string, opts Options, now time.Time) (*Device, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := validateOptions(kind, opts); err != nil {
		return nil, err
	}

	d := &Device{
		ID:     GenerateID(),
		Name:   name,
		Kind:   kind,
		Status: StatusOff,
	}

	switch kind {
	case KindPlug:
		d.Plug = &Plug{}
	case KindLamp, KindColorLamp:
		d.Lamp = &Lamp{Kelvin: DefaultKelvin, Brightness: DefaultBrightness}
		if opts.Kelvin != nil {
			d.Lamp.Kelvin = *opts.Kelvin
		}
		if opts.Brightness != nil {
			d.Lamp.Brightness = *opts.Brightness
		}
		if opts.Color != nil {
			hex := *opts.Color
			d.Lamp.ColorHex = &hex
		}
	case KindCamera:
		d.Camera = &Camera{MBPerMinute: opts.MBPerMinute}
	}

	if opts.Status != nil && *opts.Status == StatusOn {
		d.transition(now, StatusOn)
	}
	if opts.Ampere != nil {
		d.Plug.plugIn(d.Status, *opts.Ampere, now)
	}

	return d, nil
}

func validateOptions(kind Kind, opts Options) error {
	if opts.Ampere != nil && kind != KindPlug {
		return ErrNotPlug
	}

	switch kind {
	case KindPlug:
		if opts.Ampere != nil {
			if err := ValidateAmpere(*opts.Ampere); err != nil {
				return err
			}
		}
	case KindLamp, KindColorLamp:
		if opts.Kelvin != nil {
			if err := ValidateKelvin(*opts.Kelvin); err != nil {
				return err
			}
		}
		if opts.Brightness != nil {
			if err := ValidateBrightness(*opts.Brightness); err != nil {
				return err
			}
		}
		if opts.Color != nil {
			if kind != KindColorLamp {
				return ErrNotColorLamp
			}
			if _, err := ParseColor(*opts.Color); err != nil {
				return err
			}
		}
	case KindCamera:
		if err := ValidateMBPerMinute(opts.MBPerMinute); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return nil
}

// IsOn reports whether the device is switched on.
func (d *Device) IsOn() bool {
	return d.Status == StatusOn
}

// SetStatus applies a user-requested status change.
//
// Returns:
//   - ErrRedundantStatus if the device already has that status
func (d *Device) SetStatus(now time.Time, requested Status) error {
	if requested != StatusOn && requested != StatusOff {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, requested)
	}
	if requested == d.Status {
		return fmt.Errorf("%w: already switched %s", ErrRedundantStatus, requested)
	}
	d.transition(now, requested)
	return nil
}

// Toggle flips the status unconditionally. Used by the scheduler.
func (d *Device) Toggle(now time.Time) {
	d.transition(now, d.Status.Toggled())
}

// ForceOff switches the device off if it is on, closing any open
// accounting window. Reports whether a transition happened.
func (d *Device) ForceOff(now time.Time) bool {
	if !d.IsOn() {
		return false
	}
	d.transition(now, StatusOff)
	return true
}

// transition is the single path for status changes.
// It runs the kind-specific accounting for the new status.
func (d *Device) transition(now time.Time, to Status) {
	d.Status = to

	switch d.Kind {
	case KindPlug:
		d.Plug.account(to, now)
	case KindCamera:
		d.Camera.account(to, now)
	}
}

// SetSwitchTime schedules the next automatic toggle. A nil t clears it.
//
// Returns:
//   - ErrSwitchTimeInPast if t is before now
//   - ErrRedundantTime if t equals the stored switch time
func (d *Device) SetSwitchTime(now time.Time, t *time.Time) error {
	if t == nil {
		d.SwitchTime = nil
		return nil
	}

	at := t.UTC().Truncate(time.Second)
	if at.Before(now) {
		return ErrSwitchTimeInPast
	}
	if d.SwitchTime != nil && d.SwitchTime.Equal(at) {
		return ErrRedundantTime
	}
	d.SwitchTime = &at
	return nil
}

// Metric returns the kind's accumulated value: consumed energy for plugs,
// used storage for cameras and zero for lamps.
func (d *Device) Metric() float64 {
	switch d.Kind {
	case KindPlug:
		return d.Plug.ConsumedEnergy
	case KindCamera:
		return d.Camera.UsedStorage
	default:
		return 0
	}
}
