package simulation

import (
	"context"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-sim/internal/clock"
	"github.com/nerrad567/gray-logic-sim/internal/device"
)

// Logger defines the logging interface used by the Simulation.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Simulation owns the clock and the device registry.
//
// Every clock movement runs the due-sweep before the operation returns, so
// callers always observe a state in which nothing due is left unfired.
//
// All public methods are thread-safe: clock, registry and sweep share one
// mutex, since the sweep assumes no concurrent modification mid-scan.
type Simulation struct {
	mu        sync.Mutex
	flushMu   sync.Mutex
	clock     *clock.Clock
	registry  *device.Registry
	logger    Logger
	recorders []Recorder

	// pending holds transitions produced by the current operation.
	pending []Transition
	// flipped counts scheduled flips during the current clock mutation.
	flipped int
}

// New creates a simulation with an unset clock and no devices.
func New() *Simulation {
	s := &Simulation{
		clock:    clock.New(),
		registry: device.NewRegistry(),
		logger:   noopLogger{},
	}
	s.clock.SetOnAdvance(s.onAdvance)
	return s
}

// SetLogger sets the logger for the simulation.
func (s *Simulation) SetLogger(logger Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

// AddRecorder registers a transition sink.
func (s *Simulation) AddRecorder(rec Recorder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recorders = append(s.recorders, rec)
}

// onAdvance is the clock hook. It runs with s.mu held.
func (s *Simulation) onAdvance(now time.Time) {
	s.flipped += s.processDue(now)
}

// processDue fires every device whose switch time is at or before now.
//
// Devices sharing the earliest due instant form a tie group and flip in
// the same pass, first-added first. Clearing a group may reveal a later
// group that is also due, so the loop repeats until nothing due remains.
// Calling it again without a clock change flips nothing.
//
// Must be called with s.mu held. Returns the number of flips.
func (s *Simulation) processDue(now time.Time) int {
	flipped := 0
	for {
		next, ok := s.registry.NextDue()
		if !ok || next.After(now) {
			break
		}

		group := s.registry.DueAt(next)
		for _, d := range group {
			from := d.Status
			d.SwitchTime = nil
			d.Toggle(now)
			s.emit(SourceSchedule, now, from, d)

			s.logger.Debug("scheduled switch fired",
				"device", d.Name,
				"due", clock.Format(next),
				"status", string(d.Status),
			)
		}
		flipped += len(group)
	}

	s.registry.Sort()
	return flipped
}

// ProcessDue runs the due-sweep at the current time and returns the number
// of devices flipped. Clock movements already run it; a second call without
// an intervening clock change returns zero.
func (s *Simulation) ProcessDue(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.unlockAndFlush(ctx)

	now, err := s.clock.Now()
	if err != nil {
		return 0, err
	}
	return s.processDue(now), nil
}

// advance runs a clock mutation and reports how many devices the sweep
// flipped. Must be called with s.mu held.
func (s *Simulation) advance(mutate func() error) (int, error) {
	s.flipped = 0
	if err := mutate(); err != nil {
		return 0, err
	}
	flipped := s.flipped
	s.flipped = 0

	s.logger.Debug("clock advanced", "now", s.clock.String(), "flipped", flipped)
	return flipped, nil
}

// Now returns the current logical time.
func (s *Simulation) Now() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Now()
}

// ClockSet reports whether the initial time has been set.
func (s *Simulation) ClockSet() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.IsSet()
}

// SetInitialTime sets the clock for the first time.
//
// Returns:
//   - clock.ErrInitialTime if the clock is already set
func (s *Simulation) SetInitialTime(ctx context.Context, t time.Time) error {
	s.mu.Lock()
	defer s.unlockAndFlush(ctx)

	_, err := s.advance(func() error { return s.clock.SetInitial(t) })
	if err == nil {
		s.logger.Info("initial time set", "now", s.clock.String())
	}
	return err
}

// SetTime moves the clock to t and fires everything that becomes due.
//
// Returns:
//   - clock.ErrClockUnset before SetInitialTime
//   - clock.ErrTimeReversed or clock.ErrNothingToChange (both wrap clock.ErrTimeOrder)
func (s *Simulation) SetTime(ctx context.Context, t time.Time) (int, error) {
	s.mu.Lock()
	defer s.unlockAndFlush(ctx)

	if !s.clock.IsSet() {
		return 0, clock.ErrClockUnset
	}
	return s.advance(func() error { return s.clock.AdvanceTo(t) })
}

// SkipMinutes moves the clock forward by minutes.
//
// Returns:
//   - clock.ErrTimeReversed if minutes is negative
//   - clock.ErrNothingToSkip if minutes is zero
//   - clock.ErrSkipRange if minutes exceeds clock.MaxSkipMinutes
func (s *Simulation) SkipMinutes(ctx context.Context, minutes int) (int, error) {
	s.mu.Lock()
	defer s.unlockAndFlush(ctx)

	return s.advance(func() error { return s.clock.Skip(minutes) })
}

// Nop advances the clock to the nearest scheduled switch time.
//
// Returns:
//   - ErrNoScheduledEvent if no device has a switch time
func (s *Simulation) Nop(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.unlockAndFlush(ctx)

	if !s.clock.IsSet() {
		return 0, clock.ErrClockUnset
	}
	next, ok := s.registry.NextDue()
	if !ok {
		return 0, ErrNoScheduledEvent
	}
	return s.advance(func() error { return s.clock.AdvanceTo(next) })
}
