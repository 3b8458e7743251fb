package ctdf

import "time"

type QueryStopArrivals struct {
	Haltenummer string
	Date        time.Time
	Count       int

	// Window limits the result to arrivals expected within this duration of
	// Now. Zero means no limit.
	Window time.Duration
	Now    time.Time
}

type QueryMultiStopArrivals struct {
	Haltenummers []string
	Date         time.Time
	Count        int
	Window       time.Duration
	Now          time.Time
}

// QueryFinalSchedule asks for the whole enriched final-schedule response of a
// stop, every stop group and note included.
type QueryFinalSchedule struct {
	Haltenummer string
	Date        time.Time
}
