package routes

import (
	"errors"

	"github.com/bussin/bussin/pkg/elastic_client"
	"github.com/bussin/bussin/pkg/matchstats"
	"github.com/gofiber/fiber/v2"
)

// Recorder serves the match rate of this process when Elasticsearch is not
// configured.
var Recorder *matchstats.Recorder

func StatsRouter(router fiber.Router) {
	router.Get("/match_rate", getMatchRate)
}

func getMatchRate(c *fiber.Ctx) error {
	rateStats, err := matchstats.GetMatchRateStats(c.UserContext())
	switch {
	case errors.Is(err, elastic_client.ErrNotConfigured):
		if Recorder == nil {
			return sendError(c, fiber.StatusServiceUnavailable, err.Error())
		}

		snapshot := Recorder.Snapshot()
		return c.JSON(fiber.Map{
			"Process": snapshot,
			"Rating":  matchstats.Rating(snapshot.Rate, snapshot.Rate),
		})
	case err != nil:
		return sendError(c, fiber.StatusBadGateway, err.Error())
	}

	return c.JSON(rateStats)
}
