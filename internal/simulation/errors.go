package simulation

import "errors"

// Domain errors for the simulation package.
//
// Errors from the clock and device packages are returned unchanged (or
// wrapped with context) so callers can match them with errors.Is.
var (
	// ErrNoScheduledEvent is returned by Nop when no device has a switch time.
	ErrNoScheduledEvent = errors.New("simulation: no scheduled event")
)
