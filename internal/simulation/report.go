package simulation

import (
	"strings"
	"time"

	"github.com/nerrad567/gray-logic-sim/internal/clock"
	"github.com/nerrad567/gray-logic-sim/internal/device"
)

// Report is a point-in-time view of the clock and every device.
type Report struct {
	Now     time.Time
	Devices []device.Device
}

// Report captures the current state. Devices are listed in scheduling
// order: switch time ascending, unscheduled last.
//
// Returns:
//   - clock.ErrClockUnset before SetInitialTime
func (s *Simulation) Report() (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now, err := s.clock.Now()
	if err != nil {
		return Report{}, err
	}
	s.registry.Sort()
	return Report{Now: now, Devices: s.registry.Snapshot()}, nil
}

// String renders the report: a "Time is:" header followed by one line per
// device, each terminated by a newline.
func (r Report) String() string {
	var b strings.Builder
	b.WriteString("Time is:\t")
	b.WriteString(clock.Format(r.Now))
	b.WriteByte('\n')
	for i := range r.Devices {
		b.WriteString(r.Devices[i].Describe())
		b.WriteByte('\n')
	}
	return b.String()
}
