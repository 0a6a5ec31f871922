package simulation

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-sim/internal/device"
)

// Source identifies what caused a transition.
type Source string

// Transition sources.
const (
	SourceCommand  Source = "command"
	SourceSchedule Source = "schedule"
	SourceRemove   Source = "remove"
	SourcePlugOut  Source = "plug_out"
)

// Transition describes one observable change of a device.
//
// From and To are equal for changes that do not alter the status, such as
// a plug-out flush or the final record of a removed device.
type Transition struct {
	Source Source        `json:"source"`
	At     time.Time     `json:"at"`
	From   device.Status `json:"from"`
	To     device.Status `json:"to"`

	// Removed is set on the record emitted after a device leaves the registry.
	Removed bool `json:"removed,omitempty"`

	// Device is a snapshot taken after the change.
	Device device.Device `json:"device"`
}

// Recorder receives transitions after each simulation operation.
//
// Recorders are output sinks. A failing recorder is logged and never fails
// or rolls back the operation that produced the transition. They run after
// the simulation lock is released and must not call back into the
// Simulation.
type Recorder interface {
	RecordTransition(ctx context.Context, tr Transition) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, tr Transition) error

// RecordTransition calls f.
func (f RecorderFunc) RecordTransition(ctx context.Context, tr Transition) error {
	return f(ctx, tr)
}

// emit queues a transition for the current operation.
// Must be called with s.mu held.
func (s *Simulation) emit(source Source, at time.Time, from device.Status, d *device.Device) {
	s.pending = append(s.pending, Transition{
		Source: source,
		At:     at,
		From:   from,
		To:     d.Status,
		Device: *d.DeepCopy(),
	})
}

// unlockAndFlush releases s.mu and then hands the transitions queued by the
// operation to every recorder, in order. Recorders therefore run without
// the simulation lock; flushMu keeps batches from interleaving.
//
// Must be called with s.mu held, usually deferred right after Lock.
func (s *Simulation) unlockAndFlush(ctx context.Context) {
	pending := s.pending
	s.pending = nil
	recorders := s.recorders
	logger := s.logger

	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	s.mu.Unlock()

	for _, tr := range pending {
		for _, rec := range recorders {
			if err := rec.RecordTransition(ctx, tr); err != nil {
				logger.Warn("recording transition failed",
					"recorder", fmt.Sprintf("%T", rec),
					"device", tr.Device.Name,
					"source", string(tr.Source),
					"error", err,
				)
			}
		}
	}
}
