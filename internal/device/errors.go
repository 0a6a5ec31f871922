package device

import (
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-sim/internal/clock"
)

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrNotFound) {
//	    // handle not found case
//	}
var (
	// ErrNotFound is returned when no device has the requested name.
	ErrNotFound = errors.New("device: not found")

	// ErrNameConflict is returned when a name is already taken or a rename is a no-op.
	ErrNameConflict = errors.New("device: name conflict")

	// ErrInvalidName is returned when a device name is empty.
	ErrInvalidName = errors.New("device: invalid name")

	// ErrInvalidKind is returned when a device kind is not recognised.
	ErrInvalidKind = errors.New("device: invalid kind")

	// ErrInvalidStatus is returned when a status literal is neither "On" nor "Off".
	ErrInvalidStatus = errors.New("device: invalid status")

	// ErrRedundantStatus is returned when a device is switched to its current status.
	ErrRedundantStatus = errors.New("device: status unchanged")

	// ErrRedundantTime is returned when a switch time equals the stored one.
	ErrRedundantTime = errors.New("device: switch time unchanged")

	// ErrRange is returned when kelvin, brightness or color is out of bounds.
	ErrRange = errors.New("device: value out of range")

	// ErrFormat is returned when a numeric or hex literal is malformed.
	ErrFormat = errors.New("device: malformed value")

	// ErrInvalidValue is returned when ampere or MB per minute is not positive.
	ErrInvalidValue = errors.New("device: invalid value")

	// ErrAlreadyPlugged is returned when plugging into a busy plug.
	ErrAlreadyPlugged = errors.New("device: item already plugged in")

	// ErrNothingPlugged is returned when unplugging an empty plug.
	ErrNothingPlugged = errors.New("device: nothing plugged in")

	// ErrKindMismatch is returned when an operation targets the wrong device kind.
	ErrKindMismatch = errors.New("device: kind mismatch")
)

// Specific causes. Each wraps one of the errors above.
var (
	ErrNameTaken = fmt.Errorf("%w: name already taken", ErrNameConflict)
	ErrSameName  = fmt.Errorf("%w: old and new names are the same", ErrNameConflict)

	ErrKelvinRange     = fmt.Errorf("%w: kelvin must be in %d-%d", ErrRange, MinKelvin, MaxKelvin)
	ErrBrightnessRange = fmt.Errorf("%w: brightness must be in %d-%d", ErrRange, MinBrightness, MaxBrightness)
	ErrColorRange      = fmt.Errorf("%w: color must be in 0x000000-0x%06X", ErrRange, MaxColor)

	ErrAmpereValue   = fmt.Errorf("%w: ampere must be positive", ErrInvalidValue)
	ErrMegabyteValue = fmt.Errorf("%w: megabytes per minute must be positive", ErrInvalidValue)

	ErrNotPlug      = fmt.Errorf("%w: not a smart plug", ErrKindMismatch)
	ErrNotLamp      = fmt.Errorf("%w: not a smart lamp", ErrKindMismatch)
	ErrNotColorLamp = fmt.Errorf("%w: not a smart color lamp", ErrKindMismatch)

	// ErrSwitchTimeInPast wraps clock.ErrTimeOrder so callers can treat it
	// like any other backwards time request.
	ErrSwitchTimeInPast = fmt.Errorf("%w: switch time cannot be in the past", clock.ErrTimeOrder)
)
