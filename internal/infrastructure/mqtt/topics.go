package mqtt

import "fmt"

// TopicRoot is the base of every simulator topic.
const TopicRoot = "graylogic/sim"

// Topics builds the simulator's MQTT topics for one site.
//
// Hierarchy:
//
//	graylogic/sim/{site}/status
//	graylogic/sim/{site}/device/{device_id}/state
//	graylogic/sim/{site}/event/{event}
//	graylogic/sim/{site}/report
//
// Device topics use the device ID, which survives renames.
type Topics struct {
	Site string
}

// base returns the site prefix. An empty site collapses to TopicRoot.
func (t Topics) base() string {
	if t.Site == "" {
		return TopicRoot
	}
	return fmt.Sprintf("%s/%s", TopicRoot, t.Site)
}

// Status returns the simulator's online/offline topic (retained, LWT).
//
// Example: graylogic/sim/sim-001/status
func (t Topics) Status() string {
	return t.base() + "/status"
}

// DeviceState returns the retained state topic for a device.
//
// Example: graylogic/sim/sim-001/device/6f1c.../state
func (t Topics) DeviceState(deviceID string) string {
	return fmt.Sprintf("%s/device/%s/state", t.base(), deviceID)
}

// Event returns the topic for a non-retained simulation event.
//
// Example: graylogic/sim/sim-001/event/transition
func (t Topics) Event(event string) string {
	return fmt.Sprintf("%s/event/%s", t.base(), event)
}

// Report returns the retained topic carrying the latest device report.
func (t Topics) Report() string {
	return t.base() + "/report"
}
