package telemetry

import (
	"context"
	"maps"
	"time"

	"github.com/nerrad567/gray-logic-sim/internal/device"
	"github.com/nerrad567/gray-logic-sim/internal/simulation"
)

// Measurement names written to InfluxDB.
const (
	MeasurementTransition = "device_transition"
	MeasurementEnergy     = "plug_energy"
	MeasurementStorage    = "camera_storage"
)

// PointWriter is the subset of the InfluxDB client the metrics writer needs.
type PointWriter interface {
	WritePointWithTime(measurement string, tags map[string]string, fields map[string]any, timestamp time.Time)
}

// MetricsWriter turns transitions into InfluxDB points stamped with
// simulated time.
//
// Every transition produces a device_transition point. Plugs and cameras
// additionally produce their accumulated metric, which only changes when
// an accounting window closes.
type MetricsWriter struct {
	w    PointWriter
	site string
}

// NewMetricsWriter creates a writer tagging every point with site.
func NewMetricsWriter(w PointWriter, site string) *MetricsWriter {
	return &MetricsWriter{w: w, site: site}
}

// RecordTransition writes tr. It satisfies simulation.Recorder and never
// fails; the InfluxDB client reports write errors asynchronously.
func (m *MetricsWriter) RecordTransition(_ context.Context, tr simulation.Transition) error {
	d := tr.Device
	tags := map[string]string{
		"site":      m.site,
		"device_id": d.ID,
		"kind":      string(d.Kind),
	}

	transitionTags := maps.Clone(tags)
	transitionTags["source"] = string(tr.Source)
	m.w.WritePointWithTime(MeasurementTransition, transitionTags, map[string]any{
		"name":    d.Name,
		"on":      tr.To == device.StatusOn,
		"changed": tr.From != tr.To,
		"removed": tr.Removed,
	}, tr.At)

	switch d.Kind {
	case device.KindPlug:
		m.w.WritePointWithTime(MeasurementEnergy, tags, map[string]any{
			"consumed_wh": d.Metric(),
			"ampere":      d.Plug.Ampere,
		}, tr.At)
	case device.KindCamera:
		m.w.WritePointWithTime(MeasurementStorage, tags, map[string]any{
			"used_mb": d.Metric(),
		}, tr.At)
	}
	return nil
}
