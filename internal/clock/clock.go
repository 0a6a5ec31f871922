package clock

import (
	"fmt"
	"math"
	"time"
)

// MaxSkipMinutes is the largest accepted Skip, the range of a 32-bit
// minute counter (about 4085 years).
const MaxSkipMinutes = math.MaxInt32

// Clock is the logical simulation clock.
//
// It starts unset and only ever moves forward. Every successful mutation
// invokes the advance hook registered with SetOnAdvance, even when nothing
// is due, so observers can re-check their schedules after each movement.
//
// Thread Safety:
//   - Clock is not synchronised. The owner (simulation.Simulation) serialises
//     all access behind its own lock.
type Clock struct {
	now   time.Time
	isSet bool

	onAdvance func(now time.Time)
}

// New creates an unset clock.
func New() *Clock {
	return &Clock{}
}

// SetOnAdvance registers the callback run after every successful mutation.
func (c *Clock) SetOnAdvance(callback func(now time.Time)) {
	c.onAdvance = callback
}

// IsSet reports whether the initial time has been set.
func (c *Clock) IsSet() bool {
	return c.isSet
}

// Now returns the current logical time.
// Returns ErrClockUnset before SetInitial.
func (c *Clock) Now() (time.Time, error) {
	if !c.isSet {
		return time.Time{}, ErrClockUnset
	}
	return c.now, nil
}

// SetInitial sets the first value of the clock.
// Returns ErrInitialTime when the clock has already been set.
func (c *Clock) SetInitial(t time.Time) error {
	if c.isSet {
		return ErrInitialTime
	}
	return c.AdvanceTo(t)
}

// AdvanceTo moves the clock to t.
//
// Returns:
//   - ErrTimeReversed if t is before the current time
//   - ErrNothingToChange if t equals the current time
func (c *Clock) AdvanceTo(t time.Time) error {
	t = t.UTC().Truncate(time.Second)

	if c.isSet {
		switch {
		case t.Before(c.now):
			return ErrTimeReversed
		case t.Equal(c.now):
			return ErrNothingToChange
		}
	}

	c.now = t
	c.isSet = true

	if c.onAdvance != nil {
		c.onAdvance(c.now)
	}
	return nil
}

// Skip moves the clock forward by the given number of minutes.
//
// Returns:
//   - ErrClockUnset before SetInitial
//   - ErrTimeReversed if minutes is negative
//   - ErrNothingToSkip if minutes is zero
//   - ErrSkipRange if minutes exceeds MaxSkipMinutes
func (c *Clock) Skip(minutes int) error {
	if !c.isSet {
		return ErrClockUnset
	}
	switch {
	case minutes < 0:
		return ErrTimeReversed
	case minutes == 0:
		return ErrNothingToSkip
	case minutes > MaxSkipMinutes:
		return fmt.Errorf("%w: %d minutes", ErrSkipRange, minutes)
	}

	// time.Date normalises the minute field, so skips longer than a
	// time.Duration can hold still land on the right calendar instant.
	y, mo, d := c.now.Date()
	h, mi, s := c.now.Clock()
	return c.AdvanceTo(time.Date(y, mo, d, h, mi+minutes, s, 0, time.UTC))
}

// String renders the clock for logs.
func (c *Clock) String() string {
	if !c.isSet {
		return "unset"
	}
	return Format(c.now)
}
