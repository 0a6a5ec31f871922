package device

import (
	"fmt"
	"time"
)

// Kind discriminates the device variants.
// Values match the literals used by the command layer.
type Kind string

// Device kinds.
const (
	KindPlug      Kind = "SmartPlug"
	KindLamp      Kind = "SmartLamp"
	KindColorLamp Kind = "SmartColorLamp"
	KindCamera    Kind = "SmartCamera"
)

// AllKinds returns all valid device kinds.
func AllKinds() []Kind {
	return []Kind{KindPlug, KindLamp, KindColorLamp, KindCamera}
}

// ParseKind converts a command literal into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// Label returns the human readable kind name used in reports.
func (k Kind) Label() string {
	switch k {
	case KindPlug:
		return "Smart Plug"
	case KindLamp:
		return "Smart Lamp"
	case KindColorLamp:
		return "Smart Color Lamp"
	case KindCamera:
		return "Smart Camera"
	default:
		return string(k)
	}
}

// IsLamp reports whether the kind carries the Lamp payload.
func (k Kind) IsLamp() bool {
	return k == KindLamp || k == KindColorLamp
}

// Status is the on/off state of a device.
type Status string

// Device statuses, as rendered in reports.
const (
	StatusOff Status = "off"
	StatusOn  Status = "on"
)

// ParseStatus converts the command literals "On" and "Off" into a Status.
// Matching is case-sensitive.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "On":
		return StatusOn, nil
	case "Off":
		return StatusOff, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Toggled returns the opposite status.
func (s Status) Toggled() Status {
	if s == StatusOn {
		return StatusOff
	}
	return StatusOn
}

// Device is one simulated smart device.
//
// Shared fields live on Device; kind-specific state lives in exactly one of
// the payload pointers, selected by Kind:
//
//	KindPlug      -> Plug
//	KindLamp      -> Lamp
//	KindColorLamp -> Lamp (ColorHex used)
//	KindCamera    -> Camera
type Device struct {
	// ID is a generated identifier that survives renames.
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`

	Status     Status     `json:"status"`
	SwitchTime *time.Time `json:"switch_time,omitempty"`

	Plug   *Plug   `json:"plug,omitempty"`
	Lamp   *Lamp   `json:"lamp,omitempty"`
	Camera *Camera `json:"camera,omitempty"`

	// seq is the insertion order assigned by the Registry.
	seq uint64
}

// Plug is the SmartPlug payload.
type Plug struct {
	// Ampere of the plugged item. Zero when nothing is plugged in.
	Ampere float64 `json:"ampere"`
	Busy   bool    `json:"busy"`

	ConsumedEnergy  float64    `json:"consumed_energy"`
	LastEnergyStart *time.Time `json:"last_energy_start,omitempty"`
}

// Lamp is the SmartLamp and SmartColorLamp payload.
type Lamp struct {
	Kelvin     int `json:"kelvin"`
	Brightness int `json:"brightness"`

	// ColorHex is only used by SmartColorLamp. When set it takes precedence
	// over Kelvin for display; neither erases the other.
	ColorHex *string `json:"color_hex,omitempty"`
}

// Camera is the SmartCamera payload.
type Camera struct {
	MBPerMinute     float64    `json:"mb_per_minute"`
	UsedStorage     float64    `json:"used_storage"`
	LastRecordStart *time.Time `json:"last_record_start,omitempty"`
}

// DeepCopy creates a complete independent copy of the Device.
func (d *Device) DeepCopy() *Device {
	if d == nil {
		return nil
	}

	cpy := *d
	cpy.SwitchTime = copyTime(d.SwitchTime)

	if d.Plug != nil {
		p := *d.Plug
		p.LastEnergyStart = copyTime(d.Plug.LastEnergyStart)
		cpy.Plug = &p
	}
	if d.Lamp != nil {
		l := *d.Lamp
		if d.Lamp.ColorHex != nil {
			hex := *d.Lamp.ColorHex
			l.ColorHex = &hex
		}
		cpy.Lamp = &l
	}
	if d.Camera != nil {
		c := *d.Camera
		c.LastRecordStart = copyTime(d.Camera.LastRecordStart)
		cpy.Camera = &c
	}

	return &cpy
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
