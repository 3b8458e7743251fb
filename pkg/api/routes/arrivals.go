package routes

import (
	"errors"
	"strconv"
	"time"

	"github.com/bussin/bussin/pkg/ctdf"
	"github.com/bussin/bussin/pkg/dataaggregator"
	"github.com/bussin/bussin/pkg/delijn"
	"github.com/bussin/bussin/pkg/util"
	"github.com/gofiber/fiber/v2"
)

const defaultArrivalsCount = 25
const maxMultiStops = 20

type arrivalsOptions struct {
	Count    int
	Date     time.Time
	Window   time.Duration
	Detailed bool
}

func parseArrivalsOptions(c *fiber.Ctx) (*arrivalsOptions, error) {
	options := &arrivalsOptions{
		Detailed: c.QueryBool("detail"),
	}

	count, err := strconv.Atoi(c.Query("count", strconv.Itoa(defaultArrivalsCount)))
	if err != nil || count < 1 {
		return nil, errors.New("parameter count should be a positive integer")
	}
	options.Count = count

	if dateString := c.Query("date"); dateString != "" {
		date, err := time.ParseInLocation(delijn.DateFormat, dateString, Location)
		if err != nil {
			return nil, errors.New("parameter date should be a YYYY-MM-DD date")
		}
		options.Date = date
	}

	if windowString := c.Query("window"); windowString != "" {
		window, err := util.ParseISODuration(windowString, time.Now())
		if err != nil || window <= 0 {
			return nil, errors.New("parameter window should be a positive ISO8601 duration")
		}
		options.Window = window
	}

	return options, nil
}

func ArrivalsRouter(router fiber.Router) {
	router.Get("/", getMultiStopArrivals)
}

func getMultiStopArrivals(c *fiber.Ctx) error {
	stops := util.RemoveDuplicateStrings(util.SplitList(c.Query("stops"), ","), []string{})
	if len(stops) == 0 {
		return sendError(c, fiber.StatusBadRequest, "Parameter stops should list at least one stop")
	}
	if len(stops) > maxMultiStops {
		return sendError(c, fiber.StatusBadRequest, "Parameter stops lists too many stops")
	}

	options, err := parseArrivalsOptions(c)
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}

	haltenummers := make([]string, 0, len(stops))
	for _, stop := range stops {
		haltenummers = append(haltenummers, haltenummerFromIdentifier(stop))
	}

	allStopArrivals, err := dataaggregator.Lookup[[]*ctdf.StopArrivals](ctdf.QueryMultiStopArrivals{
		Haltenummers: haltenummers,
		Date:         options.Date,
		Count:        options.Count,
		Window:       options.Window,
	})
	if err != nil {
		return sendLookupError(c, err)
	}

	for _, stopArrivals := range allStopArrivals {
		touchStop(stopArrivals.Haltenummer)
	}

	return sendReduced(c, allStopArrivals, options.Detailed)
}
