package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-sim/internal/clock"
	"github.com/nerrad567/gray-logic-sim/internal/device"
	"github.com/nerrad567/gray-logic-sim/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-sim/internal/simulation"
)

// EventTransition names the event topic carrying every transition.
const EventTransition = "transition"

// Publisher is the subset of the MQTT client the state publisher needs.
type Publisher interface {
	PublishRetained(topic string, payload []byte) error
	PublishEvent(topic string, payload []byte) error
}

// StateMessage is the JSON body published for a transition.
type StateMessage struct {
	Site     string            `json:"site"`
	DeviceID string            `json:"device_id"`
	Name     string            `json:"name"`
	Kind     device.Kind       `json:"kind"`
	Source   simulation.Source `json:"source"`
	From     device.Status     `json:"from"`
	To       device.Status     `json:"to"`
	Removed  bool              `json:"removed,omitempty"`
	SimTime  string            `json:"sim_time"`
	Summary  string            `json:"summary"`
	Device   device.Device     `json:"device"`
}

// ReportMessage is the JSON body of the retained report topic.
type ReportMessage struct {
	Site    string          `json:"site"`
	SimTime string          `json:"sim_time"`
	Lines   []string        `json:"lines"`
	Devices []device.Device `json:"devices"`
}

// StatePublisher mirrors device state to MQTT.
//
// Each transition updates the device's retained state topic and is also
// published once on the transition event topic. A removed device has its
// retained state cleared.
type StatePublisher struct {
	pub    Publisher
	topics mqtt.Topics
}

// NewStatePublisher creates a publisher for the given site topics.
func NewStatePublisher(pub Publisher, topics mqtt.Topics) *StatePublisher {
	return &StatePublisher{pub: pub, topics: topics}
}

// RecordTransition publishes tr. It satisfies simulation.Recorder.
func (p *StatePublisher) RecordTransition(_ context.Context, tr simulation.Transition) error {
	msg := StateMessage{
		Site:     p.topics.Site,
		DeviceID: tr.Device.ID,
		Name:     tr.Device.Name,
		Kind:     tr.Device.Kind,
		Source:   tr.Source,
		From:     tr.From,
		To:       tr.To,
		Removed:  tr.Removed,
		SimTime:  clock.Format(tr.At),
		Summary:  tr.Device.Describe(),
		Device:   tr.Device,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshalling state message: %w", err)
	}

	stateTopic := p.topics.DeviceState(tr.Device.ID)
	var stateErr error
	if tr.Removed {
		// An empty retained payload deletes the retained message.
		stateErr = p.pub.PublishRetained(stateTopic, nil)
	} else {
		stateErr = p.pub.PublishRetained(stateTopic, payload)
	}
	eventErr := p.pub.PublishEvent(p.topics.Event(EventTransition), payload)

	return errors.Join(stateErr, eventErr)
}

// PublishReport publishes r on the retained report topic.
func (p *StatePublisher) PublishReport(r simulation.Report) error {
	msg := ReportMessage{
		Site:    p.topics.Site,
		SimTime: clock.Format(r.Now),
		Lines:   make([]string, 0, len(r.Devices)),
		Devices: r.Devices,
	}
	for i := range r.Devices {
		msg.Lines = append(msg.Lines, r.Devices[i].Describe())
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshalling report: %w", err)
	}
	return p.pub.PublishRetained(p.topics.Report(), payload)
}
