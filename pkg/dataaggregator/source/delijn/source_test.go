package delijn_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bussin/bussin/pkg/ctdf"
	"github.com/bussin/bussin/pkg/dataaggregator"
	"github.com/bussin/bussin/pkg/dataaggregator/source"
	"github.com/bussin/bussin/pkg/dataaggregator/source/cachedresults"
	delijnsource "github.com/bussin/bussin/pkg/dataaggregator/source/delijn"
	"github.com/bussin/bussin/pkg/delijn"
	"github.com/bussin/bussin/pkg/reconcile"
	"github.com/bussin/bussin/pkg/transforms"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stopWithLines = `{
  "halteDoorkomsten": [{
    "haltenummer": "301012",
    "doorkomsten": [
      {"doorkomstId": "scheduled-0830", "entiteitnummer": "ENT1", "lijnnummer": 36, "richting": "Oost", "dienstregelingTijdstip": "2024-05-01T08:30:00"},
      {"doorkomstId": "realtime-0810", "entiteitnummer": "ENT1", "lijnnummer": "92", "dienstregelingTijdstip": "2024-05-01T08:05:00", "realtime": [{"real-timeTijdstip": "2024-05-01T08:10:00+02:00"}]},
      {"doorkomstId": "scheduled-1100", "lijnnummer": "5", "dienstregelingTijdstip": "2024-05-01T11:00:00"},
      {"doorkomstId": "unknown-time", "lijnnummer": "5"}
    ]
  }],
  "lines": [
    {"lijnnummer": 36, "entiteitnummer": "ENT1", "richting": "Oost", "lijnNummerPubliek": "R36", "kleurAchterGrond": "#00A0E2", "kleurVoorGrond": "#FFFFFF"},
    {"lijnnummer": "92", "entiteitnummer": "ENT1", "lijnNummerPubliek": "N92"},
    {"lijnnummer": "5", "lijnNummerPubliek": "5"}
  ]
}`

const stopWithoutLines = `{
  "halteDoorkomsten": [{
    "haltenummer": "301013",
    "doorkomsten": [
      {"doorkomstId": "via-directions", "entiteitnummer": "ENT3", "lijnnummer": "18.0", "richting": "Terug", "dienstregelingTijdstip": "2024-05-01T08:45:00+02:00"}
    ]
  }]
}`

const lineDirections = `{"lijnrichtingen": [
  {"entiteitnummer": "ENT3", "lijnnummer": 18, "richting": "Heen", "lijnNummerPubliek": "18H"},
  {"entiteitnummer": "ENT3", "lijnnummer": 18, "richting": "Terug", "lijnNummerPubliek": "18T", "omschrijving": "Leuven - Heverlee"}
]}`

type fixture struct {
	source   delijnsource.Source
	requests map[string]*atomic.Int32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	brussels := time.FixedZone("CEST", 2*60*60)

	requests := map[string]*atomic.Int32{
		"/haltes/301012/final-schedule": {},
		"/haltes/301013/final-schedule": {},
		"/haltes/301013/lijnrichtingen": {},
	}
	bodies := map[string]string{
		"/haltes/301012/final-schedule": stopWithLines,
		"/haltes/301013/final-schedule": stopWithoutLines,
		"/haltes/301013/lijnrichtingen": lineDirections,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if strings.HasSuffix(r.URL.Path, "final-schedule") && r.URL.Query().Get("datum") != "2024-05-01" {
			http.Error(w, "unexpected date", http.StatusBadRequest)
			return
		}

		requests[r.URL.Path].Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	redisServer := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: redisServer.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	transformer, err := transforms.NewTransformer(&transforms.TransformDefinition{
		Type: "ctdf.Arrival",
		When: `LijnNummerPubliek startsWith "N"`,
		Data: map[string]interface{}{"LijnKleurAchterGrond": "#1A237E"},
	})
	require.NoError(t, err)

	return &fixture{
		source: delijnsource.Source{
			Client:      delijn.NewClient(server.URL, "key", 5*time.Second),
			Cache:       cachedresults.New(redisClient, time.Minute),
			Engine:      reconcile.NewEngine(reconcile.WithLocation(brussels)),
			Transformer: transformer,
			Location:    brussels,
			MaxArrivals: 200,
			Now: func() time.Time {
				return time.Date(2024, 5, 1, 8, 0, 0, 0, brussels)
			},
		},
		requests: requests,
	}
}

func arrivalIDs(arrivals []*ctdf.Arrival) []string {
	var ids []string
	for _, arrival := range arrivals {
		ids = append(ids, arrival.DoorkomstID)
	}

	return ids
}

func TestStopArrivalsQuery(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		query ctdf.QueryStopArrivals

		wantIDs []string
	}{
		"Sorted by effective time": {
			query:   ctdf.QueryStopArrivals{Haltenummer: "301012"},
			wantIDs: []string{"realtime-0810", "scheduled-0830", "scheduled-1100", "unknown-time"},
		},
		"Trimmed to count": {
			query:   ctdf.QueryStopArrivals{Haltenummer: "301012", Count: 2},
			wantIDs: []string{"realtime-0810", "scheduled-0830"},
		},
		"Limited to window": {
			query:   ctdf.QueryStopArrivals{Haltenummer: "301012", Window: 2 * time.Hour},
			wantIDs: []string{"realtime-0810", "scheduled-0830"},
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)

			stopArrivals, err := f.source.StopArrivalsQuery(tc.query)
			require.NoError(t, err)

			assert.Equal(t, tc.query.Haltenummer, stopArrivals.Haltenummer)
			assert.Equal(t, tc.wantIDs, arrivalIDs(stopArrivals.Arrivals))
		})
	}
}

func TestStopArrivalsQueryDerivedFields(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	stopArrivals, err := f.source.StopArrivalsQuery(ctdf.QueryStopArrivals{Haltenummer: "301012"})
	require.NoError(t, err)
	require.Len(t, stopArrivals.Arrivals, 4)

	realtime := stopArrivals.Arrivals[0]
	assert.Equal(t, "N92", realtime.LijnNummerPubliek)
	assert.Equal(t, "in 10 min", realtime.Countdown)
	assert.Equal(t, "+ 5", realtime.DelayText)
	assert.Equal(t, "#1A237E", realtime.LijnKleurAchterGrond, "Transforms should apply")
	assert.Equal(t, "#1A237E", realtime.Badge.Background, "Badge should follow the transformed colour")

	scheduled := stopArrivals.Arrivals[1]
	assert.Equal(t, "R36", scheduled.LijnNummerPubliek)
	assert.Equal(t, "in 30 min", scheduled.Countdown)
	assert.Equal(t, "#00A0E2", scheduled.Badge.Background)

	assert.Equal(t, "in 3 h", stopArrivals.Arrivals[2].Countdown)
	assert.Empty(t, stopArrivals.Arrivals[3].Countdown)
}

func TestStopArrivalsQueryUsesCache(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	for i := 0; i < 3; i++ {
		_, err := f.source.StopArrivalsQuery(ctdf.QueryStopArrivals{Haltenummer: "301012"})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), f.requests["/haltes/301012/final-schedule"].Load())

	require.NoError(t, f.source.Warm(context.Background(), "301012", f.source.Now()))
	assert.Equal(t, int32(2), f.requests["/haltes/301012/final-schedule"].Load(), "Warming should bypass the cache")
}

func TestStopArrivalsQueryLineDirectionsFallback(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	stopArrivals, err := f.source.StopArrivalsQuery(ctdf.QueryStopArrivals{Haltenummer: "301013"})
	require.NoError(t, err)
	require.Len(t, stopArrivals.Arrivals, 1)

	arrival := stopArrivals.Arrivals[0]
	assert.Equal(t, "18", arrival.Lijnnummer)
	assert.Equal(t, "18T", arrival.LijnNummerPubliek)
	assert.Equal(t, "Leuven - Heverlee", arrival.LijnOmschrijving)
	assert.Equal(t, int32(1), f.requests["/haltes/301013/lijnrichtingen"].Load())
}

func TestStopArrivalsQueryUnknownStop(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	_, err := f.source.StopArrivalsQuery(ctdf.QueryStopArrivals{Haltenummer: "999999"})
	require.ErrorIs(t, err, delijn.ErrStopNotFound)
}

func TestMultiStopArrivalsQuery(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	allStopArrivals, err := f.source.MultiStopArrivalsQuery(ctdf.QueryMultiStopArrivals{
		Haltenummers: []string{"301013", "999999", "301012"},
		Count:        1,
	})
	require.NoError(t, err)

	require.Len(t, allStopArrivals, 2, "Failing stops are left out")
	assert.Equal(t, "301013", allStopArrivals[0].Haltenummer)
	assert.Equal(t, []string{"via-directions"}, arrivalIDs(allStopArrivals[0].Arrivals))
	assert.Equal(t, "301012", allStopArrivals[1].Haltenummer)
	assert.Equal(t, []string{"realtime-0810"}, arrivalIDs(allStopArrivals[1].Arrivals))
}

func TestLookupThroughAggregator(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	aggregator := &dataaggregator.Aggregator{}
	aggregator.RegisterSource(f.source)

	stopArrivals, err := dataaggregator.LookupWith[*ctdf.StopArrivals](aggregator, ctdf.QueryStopArrivals{Haltenummer: "301012", Count: 1})
	require.NoError(t, err)
	assert.Len(t, stopArrivals.Arrivals, 1)

	schedule, err := dataaggregator.LookupWith[*ctdf.FinalSchedule](aggregator, ctdf.QueryFinalSchedule{Haltenummer: "301012"})
	require.NoError(t, err)
	assert.Len(t, schedule.AllArrivals(), 4)

	_, err = dataaggregator.LookupWith[*ctdf.Stop](aggregator, ctdf.QueryStop{PrimaryIdentifier: "301012"})
	require.ErrorIs(t, err, source.UnsupportedSourceError)

	_, err = dataaggregator.LookupWith[*ctdf.StopArrivals](aggregator, ctdf.QueryStop{PrimaryIdentifier: "301012"})
	require.ErrorIs(t, err, source.UnsupportedSourceError)
}
