package util

import (
	"fmt"
	"time"

	iso8601 "github.com/senseyeio/duration"
)

// StartOfDay is midnight of the day of t in location.
func StartOfDay(t time.Time, location *time.Location) time.Time {
	local := t.In(location)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, location)
}

// ParseISODuration converts an ISO-8601 duration such as PT2H into a
// time.Duration measured from reference, so calendar units follow the
// calendar of reference.
func ParseISODuration(value string, reference time.Time) (time.Duration, error) {
	duration, err := iso8601.ParseISO8601(value)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", value, err)
	}

	return duration.Shift(reference).Sub(reference), nil
}
