package prefetch

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Scheduler periodically queues the stops that were asked for within the
// lookback so that their next request is served from the cache.
type Scheduler struct {
	Tracker   *Tracker
	Publisher Publisher

	Interval time.Duration
	Lookback time.Duration
}

func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		if queued, err := s.Tick(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to schedule prefetch")
		} else {
			log.Info().Int("stops", queued).Msg("Scheduled prefetch")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Tick forgets stops older than the lookback and queues the rest, returning
// how many were queued.
func (s *Scheduler) Tick(ctx context.Context) (int, error) {
	since := s.Tracker.Now().Add(-s.Lookback)

	if _, err := s.Tracker.Prune(ctx, since); err != nil {
		return 0, err
	}

	haltenummers, err := s.Tracker.Recent(ctx, since)
	if err != nil {
		return 0, err
	}

	tasks := make([]Task, 0, len(haltenummers))
	for _, haltenummer := range haltenummers {
		tasks = append(tasks, Task{Haltenummer: haltenummer})
	}

	if err := Publish(s.Publisher, tasks...); err != nil {
		return 0, err
	}

	return len(tasks), nil
}
