package command

import (
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-sim/internal/clock"
	"github.com/nerrad567/gray-logic-sim/internal/device"
	"github.com/nerrad567/gray-logic-sim/internal/simulation"
)

// Interpreter errors.
var (
	// ErrArity is returned when a command has the wrong number of arguments.
	ErrArity = errors.New("command: wrong number of arguments")

	// ErrNumber is returned when a numeric argument cannot be parsed.
	ErrNumber = errors.New("command: malformed number")

	// ErrUnknown is returned for unrecognised commands.
	ErrUnknown = errors.New("command: unknown command")
)

const msgErroneous = "Erroneous command"

// messages maps error causes to the text printed after "ERROR: ".
// Order matters: more specific errors come first.
var messages = []struct {
	err error
	msg string
}{
	{clock.ErrTimeFormat, "Time format is not correct"},
	{clock.ErrTimeReversed, "Time cannot be reversed"},
	{clock.ErrNothingToChange, "There is nothing to change"},
	{clock.ErrNothingToSkip, "There is nothing to skip"},
	{device.ErrSwitchTimeInPast, "Switch time cannot be in the past"},
	{device.ErrRedundantTime, "There is nothing to change"},
	{device.ErrNotFound, "There is not such a device"},
	{device.ErrNameTaken, "There is already a smart device with same name"},
	{device.ErrSameName, "Both of the names are the same, nothing changed"},
	{device.ErrAlreadyPlugged, "There is already an item plugged in to that plug"},
	{device.ErrNothingPlugged, "This plug has no item to plug out from that plug"},
	{device.ErrAmpereValue, "Ampere value must be a positive number"},
	{device.ErrMegabyteValue, "Megabyte value must be a positive number"},
	{device.ErrKelvinRange, "Kelvin value must be in range of 2000K-6500K"},
	{device.ErrBrightnessRange, "Brightness must be in range of 0%-100%"},
	{device.ErrColorRange, "Color code value must be in range of 0x0-0xFFFFFF"},
	{device.ErrNotPlug, "This device is not a smart plug"},
	{device.ErrNotLamp, "This device is not a smart lamp"},
	{device.ErrNotColorLamp, "This device is not a smart color lamp"},
	{simulation.ErrNoScheduledEvent, "There is nothing to switch"},
}

// redundantStatusError carries the status a device is already in.
type redundantStatusError struct {
	status device.Status
}

func (e *redundantStatusError) Error() string {
	return fmt.Sprintf("device already switched %s", e.status)
}

func (e *redundantStatusError) Unwrap() error {
	return device.ErrRedundantStatus
}

// message returns the user-facing text for err, without the "ERROR: "
// prefix or trailing "!".
func message(err error) string {
	var redundant *redundantStatusError
	if errors.As(err, &redundant) {
		return fmt.Sprintf("This device is already switched %s", redundant.status)
	}
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return msgErroneous
}
