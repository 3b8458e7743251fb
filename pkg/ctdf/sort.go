package ctdf

import (
	"time"

	"golang.org/x/exp/slices"
)

// SortArrivals orders arrivals by effective time. Arrivals without any known
// time go last and equal times keep their provider order.
func SortArrivals(arrivals []*Arrival) {
	slices.SortStableFunc(arrivals, func(a, b *Arrival) int {
		aTime, aKnown := a.EffectiveTime()
		bTime, bKnown := b.EffectiveTime()

		switch {
		case aKnown && bKnown:
			return aTime.Compare(bTime)
		case aKnown:
			return -1
		case bKnown:
			return 1
		default:
			return 0
		}
	})
}

// FilterArrivalsWithin keeps the arrivals expected between now and now+window.
// Arrivals without a known time are dropped.
func FilterArrivalsWithin(arrivals []*Arrival, now time.Time, window time.Duration) []*Arrival {
	var filtered []*Arrival
	end := now.Add(window)

	for _, arrival := range arrivals {
		effectiveTime, known := arrival.EffectiveTime()
		if known && !effectiveTime.After(end) {
			filtered = append(filtered, arrival)
		}
	}

	return filtered
}
