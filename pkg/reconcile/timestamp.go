package reconcile

import (
	"regexp"
	"strings"
	"time"

	"github.com/bussin/bussin/pkg/util"
)

const localLayout = "2006-01-02T15:04:05"

var offsetLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z07",
}

var colonOffset = regexp.MustCompile(`([+-]\d{2}):(\d{2})$`)

// ParseTimestamp resolves a provider timestamp to an instant. Timestamps with
// an offset are absolute, timestamps without one are read in location. A
// blank or unparsable timestamp resolves to the zero time, which callers treat
// as "unavailable".
func ParseTimestamp(value string, location *time.Location) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}

	if location == nil {
		location = time.Local
	}

	for _, layout := range offsetLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}

	if parsed, err := time.ParseInLocation(localLayout, value, location); err == nil {
		return parsed
	}

	alternative := colonOffset.ReplaceAllString(value, "$1$2")
	if parsed, err := time.Parse("2006-01-02T15:04:05-0700", alternative); err == nil {
		return parsed
	}

	return time.Time{}
}

// FormatShortTime returns the "HH:MM" part of a raw timestamp: the text after
// the date/time separator cut to five characters. A timestamp without a
// separator is cut as a whole and a blank one gives "".
func FormatShortTime(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}

	timePart := value
	if _, after, found := strings.Cut(value, "T"); found {
		timePart = after
	}

	return util.TrimString(timePart, 5)
}
