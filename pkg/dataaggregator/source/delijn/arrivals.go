package delijn

import (
	"context"
	"time"

	"github.com/bussin/bussin/pkg/ctdf"
	"github.com/bussin/bussin/pkg/reconcile"
	"github.com/bussin/bussin/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/iter"
)

func (s Source) FinalScheduleQuery(q ctdf.QueryFinalSchedule) (*ctdf.FinalSchedule, error) {
	date := q.Date
	if date.IsZero() {
		date = s.now()
	}

	response, err := s.fetchFinalSchedule(context.Background(), q.Haltenummer, date, false)
	if err != nil {
		return nil, err
	}

	schedule := s.Engine.FromFinalSchedule(response)
	s.transform(schedule)

	return schedule, nil
}

// StopArrivalsQuery returns the arrivals of a stop sorted by effective time,
// limited to the window and count of the query, with countdowns as of now.
func (s Source) StopArrivalsQuery(q ctdf.QueryStopArrivals) (*ctdf.StopArrivals, error) {
	now := q.Now
	if now.IsZero() {
		now = s.now()
	}

	date := q.Date
	if date.IsZero() {
		date = now
	}

	schedule, err := s.FinalScheduleQuery(ctdf.QueryFinalSchedule{
		Haltenummer: q.Haltenummer,
		Date:        date,
	})
	if err != nil {
		return nil, err
	}

	arrivals := schedule.AllArrivals()
	if arrivals == nil {
		arrivals = []*ctdf.Arrival{}
	}

	ctdf.SortArrivals(arrivals)

	window := q.Window
	if window == 0 {
		window = s.DefaultWindow
	}
	if window > 0 {
		arrivals = ctdf.FilterArrivalsWithin(arrivals, now, window)
	}

	if q.Count > 0 && len(arrivals) > q.Count {
		arrivals = arrivals[:q.Count]
	}

	reconcile.ApplyCountdown(arrivals, now)

	return &ctdf.StopArrivals{
		Haltenummer: q.Haltenummer,
		Arrivals:    arrivals,
	}, nil
}

// MultiStopArrivalsQuery looks up several stops concurrently. The result keeps
// the order of the query, stops that fail are logged and left out.
func (s Source) MultiStopArrivalsQuery(q ctdf.QueryMultiStopArrivals) ([]*ctdf.StopArrivals, error) {
	now := q.Now
	if now.IsZero() {
		now = s.now()
	}

	results := iter.Map(q.Haltenummers, func(haltenummer *string) *ctdf.StopArrivals {
		stopArrivals, err := s.StopArrivalsQuery(ctdf.QueryStopArrivals{
			Haltenummer: *haltenummer,
			Date:        q.Date,
			Count:       q.Count,
			Window:      q.Window,
			Now:         now,
		})
		if err != nil {
			log.Error().Err(err).Str("haltenummer", *haltenummer).Msg("Failed to get stop arrivals")
			return nil
		}

		return stopArrivals
	})

	util.InPlaceFilter(&results, func(stopArrivals *ctdf.StopArrivals) bool {
		return stopArrivals != nil
	})

	return results, nil
}

// Warm refreshes the cached response of a stop so the next query is served
// without waiting on the transit API.
func (s Source) Warm(ctx context.Context, haltenummer string, date time.Time) error {
	_, err := s.fetchFinalSchedule(ctx, haltenummer, date, true)
	return err
}

// transform applies the line overrides and redraws the badges they affect.
func (s Source) transform(schedule *ctdf.FinalSchedule) {
	if s.Transformer == nil {
		return
	}

	s.Transformer.Transform(schedule)

	for _, arrival := range schedule.AllArrivals() {
		arrival.Badge = arrival.ResolveBadge()
	}
}
