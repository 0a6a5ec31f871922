package device

import (
	"fmt"

	"github.com/nerrad567/gray-logic-sim/internal/clock"
)

// Describe renders the one-line report entry for the device, without a
// trailing newline.
func (d *Device) Describe() string {
	switchAt := clock.FormatOptional(d.SwitchTime)

	switch d.Kind {
	case KindPlug:
		return fmt.Sprintf("%s %s is %s and consumed %.2fW so far (excluding current device), and its time to switch its status is %s.",
			d.Kind.Label(), d.Name, d.Status, d.Plug.ConsumedEnergy, switchAt)
	case KindLamp:
		return fmt.Sprintf("%s %s is %s and its kelvin value is %dK with %d%% brightness, and its time to switch its status is %s.",
			d.Kind.Label(), d.Name, d.Status, d.Lamp.Kelvin, d.Lamp.Brightness, switchAt)
	case KindColorLamp:
		return fmt.Sprintf("%s %s is %s and its color value is %s with %d%% brightness, and its time to switch its status is %s.",
			d.Kind.Label(), d.Name, d.Status, d.Lamp.displayValue(), d.Lamp.Brightness, switchAt)
	case KindCamera:
		return fmt.Sprintf("%s %s is %s and used %.2f MB of storage so far (excluding current status), and its time to switch its status is %s.",
			d.Kind.Label(), d.Name, d.Status, d.Camera.UsedStorage, switchAt)
	default:
		return fmt.Sprintf("%s %s is %s, and its time to switch its status is %s.", d.Kind, d.Name, d.Status, switchAt)
	}
}

// displayValue prefers the color over the kelvin value.
func (l *Lamp) displayValue() string {
	if l.ColorHex != nil {
		return *l.ColorHex
	}
	return fmt.Sprintf("%dK", l.Kelvin)
}
