// Package telemetry adapts simulation transitions to external sinks.
//
// StatePublisher mirrors device state to MQTT topics and MetricsWriter
// writes InfluxDB points. Both are simulation.Recorder implementations and
// depend only on narrow interfaces, so tests substitute in-memory fakes
// for the real clients.
//
// Usage:
//
//	sim.AddRecorder(telemetry.NewStatePublisher(mqttClient, topics))
//	sim.AddRecorder(telemetry.NewMetricsWriter(influxClient, cfg.Site.ID))
package telemetry
