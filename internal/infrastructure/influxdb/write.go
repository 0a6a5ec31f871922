package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WritePointWithTime queues a point stamped with the given time.
//
// The simulator stamps points with simulated time, not wall-clock time,
// so a run's series lines up with its own timeline.
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Indexed key-value pairs (keep cardinality low)
//   - fields: The recorded values
//   - timestamp: The exact time for this point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]any, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, timestamp))
}
