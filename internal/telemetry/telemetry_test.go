package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-sim/internal/device"
	"github.com/nerrad567/gray-logic-sim/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-sim/internal/simulation"
)

var t0 = time.Date(2023, 3, 31, 14, 0, 0, 0, time.UTC)

type published struct {
	topic    string
	payload  []byte
	retained bool
}

// fakePublisher records publishes and can be told to fail.
type fakePublisher struct {
	mu       sync.Mutex
	messages []published
	failWith error
}

func (f *fakePublisher) PublishRetained(topic string, payload []byte) error {
	return f.record(topic, payload, true)
}

func (f *fakePublisher) PublishEvent(topic string, payload []byte) error {
	return f.record(topic, payload, false)
}

func (f *fakePublisher) record(topic string, payload []byte, retained bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.messages = append(f.messages, published{topic, payload, retained})
	return nil
}

type point struct {
	measurement string
	tags        map[string]string
	fields      map[string]any
	at          time.Time
}

type fakeWriter struct {
	points []point
}

func (f *fakeWriter) WritePointWithTime(measurement string, tags map[string]string, fields map[string]any, ts time.Time) {
	f.points = append(f.points, point{measurement, tags, fields, ts})
}

func startSim(t *testing.T, recorders ...simulation.Recorder) *simulation.Simulation {
	t.Helper()
	sim := simulation.New()
	for _, r := range recorders {
		sim.AddRecorder(r)
	}
	if err := sim.SetInitialTime(context.Background(), t0); err != nil {
		t.Fatal(err)
	}
	return sim
}

func TestStatePublisher_Transitions(t *testing.T) {
	pub := &fakePublisher{}
	topics := mqtt.Topics{Site: "test"}
	sim := startSim(t, NewStatePublisher(pub, topics))
	ctx := context.Background()

	on := device.StatusOn
	lamp, err := sim.Add(ctx, device.KindLamp, "Desk", device.Options{Status: &on})
	if err != nil {
		t.Fatal(err)
	}

	if len(pub.messages) != 2 {
		t.Fatalf("messages = %d, want state + event", len(pub.messages))
	}
	state, event := pub.messages[0], pub.messages[1]
	if state.topic != topics.DeviceState(lamp.ID) || !state.retained {
		t.Errorf("state publish = %s retained=%v", state.topic, state.retained)
	}
	if event.topic != "graylogic/sim/test/event/transition" || event.retained {
		t.Errorf("event publish = %s retained=%v", event.topic, event.retained)
	}

	var msg StateMessage
	if err := json.Unmarshal(state.payload, &msg); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if msg.Name != "Desk" || msg.To != device.StatusOn || msg.Source != simulation.SourceCommand {
		t.Errorf("message = %+v", msg)
	}
	if msg.SimTime != "2023-03-31_14:00:00" || msg.Site != "test" {
		t.Errorf("sim_time/site = %s/%s", msg.SimTime, msg.Site)
	}
	if msg.Summary == "" || msg.Device.Lamp == nil {
		t.Error("summary and snapshot should be populated")
	}
}

func TestStatePublisher_RemoveClearsRetainedState(t *testing.T) {
	pub := &fakePublisher{}
	topics := mqtt.Topics{Site: "test"}
	sim := startSim(t, NewStatePublisher(pub, topics))
	ctx := context.Background()

	cam, err := sim.Add(ctx, device.KindCamera, "Door", device.Options{MBPerMinute: 2})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sim.Remove(ctx, "Door"); err != nil {
		t.Fatal(err)
	}

	last := pub.messages[len(pub.messages)-2]
	if last.topic != topics.DeviceState(cam.ID) || !last.retained || len(last.payload) != 0 {
		t.Errorf("removal should clear retained state, got %s %q", last.topic, last.payload)
	}
}

func TestStatePublisher_ErrorsAreJoined(t *testing.T) {
	boom := errors.New("broker down")
	p := NewStatePublisher(&fakePublisher{failWith: boom}, mqtt.Topics{})

	err := p.RecordTransition(context.Background(), simulation.Transition{
		Source: simulation.SourceCommand,
		At:     t0,
		Device: device.Device{ID: "d1", Name: "Desk", Kind: device.KindLamp, Lamp: &device.Lamp{}},
	})
	if !errors.Is(err, boom) {
		t.Errorf("RecordTransition() error = %v, want broker error", err)
	}
}

func TestStatePublisher_Report(t *testing.T) {
	pub := &fakePublisher{}
	topics := mqtt.Topics{Site: "test"}
	sim := startSim(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B"} {
		if _, err := sim.Add(ctx, device.KindLamp, name, device.Options{}); err != nil {
			t.Fatal(err)
		}
	}
	report, err := sim.Report()
	if err != nil {
		t.Fatal(err)
	}

	if err := NewStatePublisher(pub, topics).PublishReport(report); err != nil {
		t.Fatalf("PublishReport() error = %v", err)
	}
	if len(pub.messages) != 1 || pub.messages[0].topic != topics.Report() || !pub.messages[0].retained {
		t.Fatalf("messages = %+v", pub.messages)
	}

	var msg ReportMessage
	if err := json.Unmarshal(pub.messages[0].payload, &msg); err != nil {
		t.Fatal(err)
	}
	if len(msg.Lines) != 2 || len(msg.Devices) != 2 || msg.SimTime != "2023-03-31_14:00:00" {
		t.Errorf("report message = %+v", msg)
	}
}

func TestMetricsWriter(t *testing.T) {
	w := &fakeWriter{}
	sim := startSim(t, NewMetricsWriter(w, "site-1"))
	ctx := context.Background()

	on := device.StatusOn
	amp := 10.0
	if _, err := sim.Add(ctx, device.KindPlug, "Kettle", device.Options{Status: &on, Ampere: &amp}); err != nil {
		t.Fatal(err)
	}
	if _, err := sim.SkipMinutes(ctx, 60); err != nil {
		t.Fatal(err)
	}
	if err := sim.Switch(ctx, "Kettle", device.StatusOff); err != nil {
		t.Fatal(err)
	}

	// Add (on) and Switch (off), each a transition plus an energy point.
	if len(w.points) != 4 {
		t.Fatalf("points = %d, want 4", len(w.points))
	}

	tr := w.points[2]
	if tr.measurement != MeasurementTransition {
		t.Fatalf("measurement = %s", tr.measurement)
	}
	if tr.tags["site"] != "site-1" || tr.tags["source"] != "command" || tr.tags["kind"] != "SmartPlug" {
		t.Errorf("tags = %v", tr.tags)
	}
	if tr.fields["on"] != false || tr.fields["changed"] != true {
		t.Errorf("fields = %v", tr.fields)
	}
	if !tr.at.Equal(t0.Add(time.Hour)) {
		t.Errorf("point time = %v, want simulated time", tr.at)
	}

	energy := w.points[3]
	if energy.measurement != MeasurementEnergy {
		t.Fatalf("measurement = %s", energy.measurement)
	}
	if _, ok := energy.tags["source"]; ok {
		t.Error("metric points should not carry the source tag")
	}
	if got := energy.fields["consumed_wh"]; got != 2200.0 {
		t.Errorf("consumed_wh = %v, want 2200", got)
	}
}

func TestMetricsWriter_CameraAndLamp(t *testing.T) {
	w := &fakeWriter{}
	m := NewMetricsWriter(w, "s")

	cam := device.Device{ID: "c", Kind: device.KindCamera, Camera: &device.Camera{UsedStorage: 12}}
	lamp := device.Device{ID: "l", Kind: device.KindLamp, Lamp: &device.Lamp{}}
	for _, d := range []device.Device{cam, lamp} {
		if err := m.RecordTransition(context.Background(), simulation.Transition{At: t0, Device: d}); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{MeasurementTransition, MeasurementStorage, MeasurementTransition}
	if len(w.points) != len(want) {
		t.Fatalf("points = %d, want %d", len(w.points), len(want))
	}
	for i, name := range want {
		if w.points[i].measurement != name {
			t.Errorf("point[%d] = %s, want %s", i, w.points[i].measurement, name)
		}
	}
	if w.points[1].fields["used_mb"] != 12.0 {
		t.Errorf("used_mb = %v", w.points[1].fields["used_mb"])
	}
}
