// Package clock provides the logical clock of the simulation.
//
// The clock has second resolution, starts unset, and only moves forward:
// every new value must be strictly greater than the previous one. There is
// no background ticker. Time moves only when a caller sets or skips it, and
// every successful movement runs the registered advance hook, which the
// simulation uses to fire due switch times.
//
// # Usage
//
//	c := clock.New()
//	c.SetOnAdvance(func(now time.Time) { /* due-sweep */ })
//
//	t0, err := clock.Parse("2023-03-31_14:00:00")
//	if err != nil {
//	    return err // wraps ErrTimeFormat
//	}
//	_ = c.SetInitial(t0)
//	_ = c.Skip(30)
//
// Timestamps are exchanged as yyyy-MM-dd_HH:mm:ss (see Layout).
package clock
