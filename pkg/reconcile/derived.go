package reconcile

import (
	"fmt"
	"time"

	"github.com/bussin/bussin/pkg/ctdf"
)

// Delay is the real-time instant minus the scheduled one in whole minutes,
// truncated toward zero. It is only known when both instants are.
func Delay(scheduled time.Time, real time.Time) (int, bool) {
	if !ctdf.IsKnownInstant(scheduled) || !ctdf.IsKnownInstant(real) {
		return 0, false
	}

	return int(real.Sub(scheduled) / time.Minute), true
}

func FormatDelay(minutes int) string {
	switch {
	case minutes > 0:
		return fmt.Sprintf("+ %d", minutes)
	case minutes < 0:
		return fmt.Sprintf("- %d", -minutes)
	default:
		return "on time"
	}
}

func DelayStatus(minutes int) ctdf.DelayStatus {
	switch {
	case minutes > 0:
		return ctdf.DelayStatusLate
	case minutes < 0:
		return ctdf.DelayStatusEarly
	default:
		return ctdf.DelayStatusOnTime
	}
}

// FormatCountdown renders the time left until a vehicle reaches the stop.
func FormatCountdown(remaining time.Duration) string {
	switch {
	case remaining < 0:
		return "departed"
	case remaining < 20*time.Second:
		return "at stop"
	case remaining < time.Minute:
		return "arriving"
	}

	minutes := int64(remaining / time.Minute)
	if minutes < 60 {
		return fmt.Sprintf("in %d min", minutes)
	}

	hours := minutes / 60
	minutes = minutes % 60
	if minutes == 0 {
		return fmt.Sprintf("in %d h", hours)
	}

	return fmt.Sprintf("in %d h %d min", hours, minutes)
}

// Countdown is the countdown text of an arrival at now, counting down to the
// real-time instant when known and the scheduled one otherwise. It is "" when
// the arrival has no known time.
func Countdown(arrival *ctdf.Arrival, now time.Time) string {
	target, known := arrival.EffectiveTime()
	if !known {
		return ""
	}

	return FormatCountdown(target.Sub(now))
}

// ApplyCountdown fills the countdown text of every arrival for now.
func ApplyCountdown(arrivals []*ctdf.Arrival, now time.Time) {
	for _, arrival := range arrivals {
		arrival.Countdown = Countdown(arrival, now)
	}
}
