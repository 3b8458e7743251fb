package routes

import (
	"cmp"
	"strconv"
	"strings"

	"github.com/bussin/bussin/pkg/ctdf"
	"github.com/bussin/bussin/pkg/dataaggregator"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/exp/slices"
)

func StopsRouter(router fiber.Router) {
	router.Get("/", listStops)
	router.Get("/:identifier", getStop)
	router.Get("/:identifier/arrivals", getStopArrivals)
	router.Get("/:identifier/final_schedule", getStopFinalSchedule)
}

func listStops(c *fiber.Ctx) error {
	boundsQuery := c.Query("bounds")

	if boundsQuery == "" {
		return sendError(c, fiber.StatusBadRequest, "A filter must be applied to the request")
	}

	boundsQuerySplit := strings.Split(boundsQuery, ",")
	if len(boundsQuerySplit) != 4 {
		return sendError(c, fiber.StatusBadRequest, "Bounds must contain 4 co-ordinates")
	}

	var coordinates [4]float64
	for i, value := range boundsQuerySplit {
		coordinate, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return sendError(c, fiber.StatusBadRequest, "Bounds co-ordinates must be numbers")
		}
		coordinates[i] = coordinate
	}

	stops, err := dataaggregator.Lookup[[]*ctdf.Stop](ctdf.QueryStopsInBounds{
		BottomLeftLon: coordinates[0],
		BottomLeftLat: coordinates[1],
		TopRightLon:   coordinates[2],
		TopRightLat:   coordinates[3],
	})
	if err != nil {
		return sendLookupError(c, err)
	}

	centre := ctdf.NewPointLocation((coordinates[0]+coordinates[2])/2, (coordinates[1]+coordinates[3])/2)
	sortByDistance(stops, centre)

	return sendReduced(c, stops, false)
}

// sortByDistance orders stops nearest to centre first, stops without a
// location last.
func sortByDistance(stops []*ctdf.Stop, centre *ctdf.Location) {
	slices.SortStableFunc(stops, func(a, b *ctdf.Stop) int {
		switch {
		case a.Location == nil && b.Location == nil:
			return 0
		case a.Location == nil:
			return 1
		case b.Location == nil:
			return -1
		}

		return cmp.Compare(a.Location.DistanceMetres(centre), b.Location.DistanceMetres(centre))
	})
}

func getStop(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	stop, err := dataaggregator.Lookup[*ctdf.Stop](ctdf.QueryStop{
		PrimaryIdentifier: identifier,
	})
	if err != nil {
		return sendLookupError(c, err)
	}

	return sendReduced(c, stop, c.QueryBool("detail"))
}

func getStopArrivals(c *fiber.Ctx) error {
	haltenummer := haltenummerFromIdentifier(c.Params("identifier"))

	options, err := parseArrivalsOptions(c)
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}

	stopArrivals, err := dataaggregator.Lookup[*ctdf.StopArrivals](ctdf.QueryStopArrivals{
		Haltenummer: haltenummer,
		Date:        options.Date,
		Count:       options.Count,
		Window:      options.Window,
	})
	if err != nil {
		return sendLookupError(c, err)
	}

	touchStop(haltenummer)

	return sendReduced(c, stopArrivals, options.Detailed)
}

func getStopFinalSchedule(c *fiber.Ctx) error {
	haltenummer := haltenummerFromIdentifier(c.Params("identifier"))

	options, err := parseArrivalsOptions(c)
	if err != nil {
		return sendError(c, fiber.StatusBadRequest, err.Error())
	}

	schedule, err := dataaggregator.Lookup[*ctdf.FinalSchedule](ctdf.QueryFinalSchedule{
		Haltenummer: haltenummer,
		Date:        options.Date,
	})
	if err != nil {
		return sendLookupError(c, err)
	}

	return sendReduced(c, schedule, options.Detailed)
}
