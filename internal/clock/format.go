package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layout is the Go reference layout for yyyy-MM-dd_HH:mm:ss.
const Layout = "2006-01-02_15:04:05"

// Parse converts a yyyy-MM-dd_HH:mm:ss string into a time.Time in UTC.
//
// Fields are parsed numerically, so single-digit components such as
// "2023-3-1_9:05:00" are accepted as long as the resulting date exists.
// Any other deviation returns ErrTimeFormat.
func Parse(value string) (time.Time, error) {
	datePart, timePart, ok := strings.Cut(strings.TrimSpace(value), "_")
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrTimeFormat, value)
	}

	date := strings.Split(datePart, "-")
	clockFields := strings.Split(timePart, ":")
	if len(date) != 3 || len(clockFields) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrTimeFormat, value)
	}

	fields := make([]int, 0, 6)
	for _, s := range append(date, clockFields...) {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return time.Time{}, fmt.Errorf("%w: %q", ErrTimeFormat, value)
		}
		fields = append(fields, n)
	}

	year, month, day := fields[0], fields[1], fields[2]
	hour, minute, second := fields[3], fields[4], fields[5]
	if month < 1 || month > 12 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrTimeFormat, value)
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	// time.Date normalises 2023-02-30 into March; reject it instead.
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, fmt.Errorf("%w: %q", ErrTimeFormat, value)
	}

	return t, nil
}

// Format renders t as yyyy-MM-dd_HH:mm:ss.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// FormatOptional renders t, or "null" when t is nil.
func FormatOptional(t *time.Time) string {
	if t == nil {
		return "null"
	}
	return Format(*t)
}
