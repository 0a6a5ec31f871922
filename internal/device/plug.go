package device

import "time"

// PlugIn attaches an item drawing ampere to the plug. If the plug is on,
// the energy window opens at now.
//
// Returns:
//   - ErrNotPlug if the device is not a plug
//   - ErrAlreadyPlugged if an item is already plugged in
//   - ErrAmpereValue if ampere is not positive
func (d *Device) PlugIn(now time.Time, ampere float64) error {
	if d.Kind != KindPlug {
		return ErrNotPlug
	}
	if d.Plug.Busy {
		return ErrAlreadyPlugged
	}
	if err := ValidateAmpere(ampere); err != nil {
		return err
	}
	d.Plug.plugIn(d.Status, ampere, now)
	return nil
}

// PlugOut detaches the current item. An open energy window is flushed
// into ConsumedEnergy; the visible status is left unchanged.
//
// Returns:
//   - ErrNotPlug if the device is not a plug
//   - ErrNothingPlugged if nothing is plugged in
func (d *Device) PlugOut(now time.Time) error {
	if d.Kind != KindPlug {
		return ErrNotPlug
	}
	if !d.Plug.Busy {
		return ErrNothingPlugged
	}

	if d.IsOn() {
		d.Plug.flush(now)
	}
	d.Plug.LastEnergyStart = nil
	d.Plug.Busy = false
	d.Plug.Ampere = 0
	return nil
}

func (p *Plug) plugIn(status Status, ampere float64, now time.Time) {
	p.Ampere = ampere
	p.Busy = true
	if status == StatusOn {
		start := now
		p.LastEnergyStart = &start
	}
}

// account runs on every status transition.
func (p *Plug) account(to Status, now time.Time) {
	if to == StatusOn {
		if p.Busy {
			start := now
			p.LastEnergyStart = &start
		}
		return
	}
	p.flush(now)
}

// flush closes the open energy window, if any.
func (p *Plug) flush(now time.Time) {
	if p.LastEnergyStart == nil {
		return
	}
	hours := elapsedSeconds(*p.LastEnergyStart, now) / 3600
	p.ConsumedEnergy += Voltage * p.Ampere * hours
	p.LastEnergyStart = nil
}
