package device

import "time"

// account runs on every status transition of a camera.
// Switching on opens the recording window; switching off closes it.
func (c *Camera) account(to Status, now time.Time) {
	if to == StatusOn {
		start := now
		c.LastRecordStart = &start
		return
	}
	if c.LastRecordStart == nil {
		return
	}
	minutes := elapsedSeconds(*c.LastRecordStart, now) / 60
	c.UsedStorage += c.MBPerMinute * minutes
	c.LastRecordStart = nil
}

// elapsedSeconds measures an accounting window in whole seconds. Unlike
// time.Sub it does not saturate for windows longer than about 292 years.
func elapsedSeconds(from, to time.Time) float64 {
	return float64(to.Unix() - from.Unix())
}
