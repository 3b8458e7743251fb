package delijn

import (
	"context"
	"time"

	"github.com/bussin/bussin/pkg/dataaggregator/source/cachedresults"
	"github.com/bussin/bussin/pkg/delijn"
	"github.com/rs/zerolog/log"
)

// fetchFinalSchedule returns the final-schedule response of a stop for date,
// from the cache unless refresh is set. Responses without a line table get one
// built from the line directions of the stop.
func (s Source) fetchFinalSchedule(ctx context.Context, haltenummer string, date time.Time, refresh bool) (*delijn.FinalScheduleResponse, error) {
	localDate := date.In(s.location())
	cacheItemPath := cachedresults.Key("delijn", "final-schedule", haltenummer, localDate.Format(delijn.DateFormat), s.MaxArrivals)

	var body []byte

	if !refresh {
		if cached, found := s.cacheGet(ctx, cacheItemPath); found {
			body = []byte(cached)
		}
	}

	if body == nil {
		var err error
		body, err = s.Client.GetFinalScheduleRaw(ctx, haltenummer, localDate, s.MaxArrivals)
		if err != nil {
			return nil, err
		}

		s.cacheSet(ctx, cacheItemPath, string(body))
	}

	response, err := delijn.DecodeFinalSchedule(body)
	if err != nil {
		return nil, err
	}

	if len(response.Lines) == 0 && len(response.HalteDoorkomsten) > 0 {
		directions, err := s.fetchLineDirections(ctx, haltenummer)
		if err != nil {
			log.Error().Err(err).Str("haltenummer", haltenummer).Msg("Failed to get line directions")
		} else {
			response.Lines = delijn.LinesFromDirections(directions)
		}
	}

	return response, nil
}

func (s Source) fetchLineDirections(ctx context.Context, haltenummer string) ([]delijn.LineDirection, error) {
	cacheItemPath := cachedresults.Key("delijn", "lijnrichtingen", haltenummer)

	if s.Cache != nil {
		var directions []delijn.LineDirection
		if found, err := s.Cache.GetJSON(ctx, cacheItemPath, &directions); err == nil && found {
			return directions, nil
		}
	}

	directions, err := s.Client.GetLineDirections(ctx, haltenummer)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.SetJSON(ctx, cacheItemPath, directions); err != nil {
			log.Error().Err(err).Str("key", cacheItemPath).Msg("Failed to save into cache")
		}
	}

	return directions, nil
}

func (s Source) cacheGet(ctx context.Context, key string) (string, bool) {
	if s.Cache == nil {
		return "", false
	}

	return s.Cache.Get(ctx, key)
}

func (s Source) cacheSet(ctx context.Context, key string, value string) {
	if s.Cache == nil {
		return
	}

	if err := s.Cache.Set(ctx, key, value); err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to save into cache")
	}
}
