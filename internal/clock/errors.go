package clock

import (
	"errors"
	"fmt"
)

// Domain errors for the clock package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, clock.ErrTimeOrder) {
//	    // reversal or no-op advance
//	}
var (
	// ErrTimeFormat is returned when a timestamp does not match yyyy-MM-dd_HH:mm:ss.
	ErrTimeFormat = errors.New("clock: time format is not correct")

	// ErrTimeOrder is returned when a mutation would not move time strictly forward.
	ErrTimeOrder = errors.New("clock: time must move forward")

	// ErrInitialTime is returned when the initial time is set twice.
	ErrInitialTime = errors.New("clock: initial time already set")

	// ErrClockUnset is returned when the clock is read or advanced before SetInitial.
	ErrClockUnset = errors.New("clock: initial time not set")

	// ErrSkipRange is returned when a skip exceeds MaxSkipMinutes.
	ErrSkipRange = errors.New("clock: skip exceeds the supported range")
)

// Specific ErrTimeOrder causes. Each one wraps ErrTimeOrder.
var (
	// ErrTimeReversed is returned when the requested time is before the current time.
	ErrTimeReversed = fmt.Errorf("%w: time cannot be reversed", ErrTimeOrder)

	// ErrNothingToChange is returned when the requested time equals the current time.
	ErrNothingToChange = fmt.Errorf("%w: there is nothing to change", ErrTimeOrder)

	// ErrNothingToSkip is returned when zero minutes are skipped.
	ErrNothingToSkip = fmt.Errorf("%w: there is nothing to skip", ErrTimeOrder)
)
