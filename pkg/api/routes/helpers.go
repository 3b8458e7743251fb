package routes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bussin/bussin/pkg/ctdf"
	"github.com/bussin/bussin/pkg/dataaggregator/source"
	"github.com/bussin/bussin/pkg/dataaggregator/source/databaselookup"
	"github.com/bussin/bussin/pkg/delijn"
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"
)

// StopTracker records which stops are asked for so the prefetcher can keep
// them warm.
type StopTracker interface {
	Touch(ctx context.Context, haltenummer string) error
}

// Location is the timezone dates in requests are read in. Tracker is nil
// when no prefetching is set up.
var Location = time.Local
var Tracker StopTracker

func sendError(c *fiber.Ctx, status int, message string) error {
	c.Status(status)
	return c.JSON(fiber.Map{
		"error": message,
	})
}

// sendLookupError maps data source errors onto response codes.
func sendLookupError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, delijn.ErrStopNotFound), errors.Is(err, databaselookup.ErrStopNotFound):
		return sendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, source.UnsupportedSourceError):
		return sendError(c, fiber.StatusNotImplemented, err.Error())
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("Lookup failed")
		return sendError(c, fiber.StatusBadGateway, err.Error())
	}
}

func sendReduced(c *fiber.Ctx, value interface{}, detailed bool) error {
	groups := []string{"basic"}
	if detailed {
		groups = append(groups, "detailed")
	}

	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, value)
	if err != nil {
		return sendError(c, fiber.StatusInternalServerError, "Sheriff could not reduce the response")
	}

	return c.JSON(reduced)
}

// haltenummerFromIdentifier accepts both a stop primary identifier and a bare
// haltenummer.
func haltenummerFromIdentifier(identifier string) string {
	prefix := strings.TrimSuffix(ctdf.StopIDFormat, "%s")

	return strings.TrimPrefix(strings.TrimSpace(identifier), prefix)
}

func touchStop(haltenummer string) {
	if Tracker == nil {
		return
	}

	if err := Tracker.Touch(context.Background(), haltenummer); err != nil {
		log.Error().Err(err).Str("haltenummer", haltenummer).Msg("Failed to track stop request")
	}
}
