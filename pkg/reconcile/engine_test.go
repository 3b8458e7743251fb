package reconcile_test

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/bussin/bussin/pkg/ctdf"
	"github.com/bussin/bussin/pkg/delijn"
	"github.com/bussin/bussin/pkg/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const finalScheduleBody = `{
  "halteDoorkomsten": [
    {
      "haltenummer": "301012",
      "doorkomsten": [
        {
          "doorkomstId": "dk-36",
          "entiteitnummer": "ENT1",
          "lijnnummer": 36.0,
          "richting": "Oost",
          "ritnummer": "1234",
          "bestemming": "Gent Zuid",
          "plaatsBestemming": "Gent",
          "dienstregelingTijdstip": "2024-05-01T08:15:00+02:00",
          "real-timeTijdstip": "2024-05-01T08:16:00+02:00",
          "vrtnum": "legacy",
          "realtime": [
            {
              "real-timeTijdstip": "2024-05-01T08:19:30+02:00",
              "vrtnum": "5521",
              "predictionStatussen": ["REALTIME"]
            }
          ],
          "vias": ["Korenmarkt", "Sint-Pieters"]
        },
        {
          "doorkomstId": "dk-92",
          "lijnnummer": "92",
          "dienstregelingTijdstip": "2024-05-01T08:30:00"
        },
        {
          "doorkomstId": "dk-unknown",
          "entiteitnummer": "ENT7",
          "lijnnummer": "999",
          "dienstregelingTijdstip": "not a timestamp"
        }
      ]
    }
  ],
  "lines": [
    {"lijnnummer": "36", "entiteitnummer": "ENT2", "lijnNummerPubliek": "D36"},
    {
      "lijnnummer": 36,
      "entiteitnummer": "ENT1",
      "richting": "OOST",
      "lijnNummerPubliek": "R36",
      "omschrijving": "Gent - Zelzate",
      "kleurVoorGrond": "#FFFFFF",
      "kleurAchterGrond": "#00A0E2",
      "kleurAchterGrondRand": "#00A0E2",
      "kleurVoorGrondRand": "#FFFFFF"
    },
    {"lijnNummerPubliek": "R92", "omschrijving": "Ringbus"}
  ],
  "omleidingen": [{"titel": "Werken Korenmarkt"}]
}`

type recordingObserver struct {
	mu    sync.Mutex
	rules map[string]reconcile.MatchRule
}

func (r *recordingObserver) ObserveMatch(arrival *ctdf.Arrival, rule reconcile.MatchRule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules[arrival.DoorkomstID] = rule
}

func TestEngineFromFinalSchedule(t *testing.T) {
	t.Parallel()

	var response delijn.FinalScheduleResponse
	require.NoError(t, json.Unmarshal([]byte(finalScheduleBody), &response))

	observer := &recordingObserver{rules: map[string]reconcile.MatchRule{}}
	engine := reconcile.NewEngine(
		reconcile.WithLocation(time.FixedZone("CEST", 2*60*60)),
		reconcile.WithObserver(observer),
	)

	schedule := engine.FromFinalSchedule(&response)

	require.Len(t, schedule.HalteDoorkomsten, 1)
	assert.False(t, schedule.NoUpcomingArrivals)
	assert.Len(t, schedule.Omleidingen, 1)

	stop := schedule.HalteDoorkomsten[0]
	assert.Equal(t, "301012", stop.Haltenummer)
	require.Len(t, stop.Arrivals, 3)

	// Input order is preserved
	assert.Equal(t, "dk-36", stop.Arrivals[0].DoorkomstID)
	assert.Equal(t, "dk-92", stop.Arrivals[1].DoorkomstID)
	assert.Equal(t, "dk-unknown", stop.Arrivals[2].DoorkomstID)

	matched := stop.Arrivals[0]
	assert.Equal(t, "36", matched.Lijnnummer)
	assert.Equal(t, "ENT1", matched.Entiteitnummer)
	assert.Equal(t, "1234", matched.Ritnummer)
	assert.Equal(t, "Gent Zuid", matched.Bestemming)
	assert.Equal(t, "Gent", matched.PlaatsBestemming)
	assert.Equal(t, []string{"Korenmarkt", "Sint-Pieters"}, matched.Vias)
	assert.Equal(t, "R36", matched.LijnNummerPubliek)
	assert.Equal(t, "Gent - Zelzate", matched.LijnOmschrijving)
	assert.Equal(t, "#00A0E2", matched.LijnKleurAchterGrond)
	assert.Equal(t, "#FFFFFF", matched.LijnKleurVoorGrond)
	assert.Equal(t, "5521", matched.Vrtnum)
	assert.Equal(t, []string{"REALTIME"}, matched.PredictionStatussen)
	assert.Equal(t, "2024-05-01T08:19:30+02:00", matched.RealTimeTijdstip)
	assert.Equal(t, "08:15", matched.ScheduledTimeFormatted)
	assert.True(t, matched.ExpectedArrivalTime.Equal(time.Date(2024, 5, 1, 6, 15, 0, 0, time.UTC)))
	assert.True(t, matched.RealArrivalTime.Equal(time.Date(2024, 5, 1, 6, 19, 30, 0, time.UTC)))
	assert.True(t, matched.RealtimeAvailable)
	require.NotNil(t, matched.DelayMinutes)
	assert.Equal(t, 4, *matched.DelayMinutes)
	assert.Equal(t, "+ 4", matched.DelayText)
	assert.Equal(t, ctdf.DelayStatusLate, matched.DelayStatus)
	assert.Equal(t, string(reconcile.RuleLineEntityDirection), matched.MatchRule)
	assert.Equal(t, &ctdf.LineBadge{Text: "R36", Background: "#00A0E2", Foreground: "#FFFFFF", Border: "#00A0E2"}, matched.Badge)

	byLabel := stop.Arrivals[1]
	assert.Equal(t, "R92", byLabel.LijnNummerPubliek)
	assert.Equal(t, "Ringbus", byLabel.LijnOmschrijving)
	assert.True(t, byLabel.ExpectedArrivalTime.Equal(time.Date(2024, 5, 1, 6, 30, 0, 0, time.UTC)), "Timestamps without offset are local")
	assert.False(t, byLabel.RealtimeAvailable)
	assert.Nil(t, byLabel.DelayMinutes)
	assert.Empty(t, byLabel.DelayText)
	assert.Equal(t, []string{}, byLabel.Vias)
	assert.Equal(t, []string{}, byLabel.PredictionStatussen)

	unmatched := stop.Arrivals[2]
	assert.False(t, unmatched.HasLineMetadata())
	assert.Empty(t, unmatched.LijnNummerPubliek)
	assert.Empty(t, unmatched.LijnOmschrijving)
	assert.Empty(t, unmatched.LijnKleurAchterGrond)
	assert.True(t, unmatched.ExpectedArrivalTime.IsZero())
	assert.Equal(t, "not a", unmatched.ScheduledTimeFormatted)
	assert.Equal(t, &ctdf.LineBadge{Text: "999", Background: ctdf.DefaultBadgeBackground, Foreground: ctdf.DefaultBadgeForeground}, unmatched.Badge)

	assert.Equal(t, map[string]reconcile.MatchRule{
		"dk-36":      reconcile.RuleLineEntityDirection,
		"dk-92":      reconcile.RulePublicLabel,
		"dk-unknown": reconcile.RuleNone,
	}, observer.rules)
}

func TestEngineFromFinalScheduleWithoutStops(t *testing.T) {
	t.Parallel()

	schedule := reconcile.NewEngine().FromFinalSchedule(&delijn.FinalScheduleResponse{})

	assert.True(t, schedule.NoUpcomingArrivals)
	assert.Empty(t, schedule.HalteDoorkomsten)
	assert.Empty(t, schedule.AllArrivals())
}

func TestEngineEnrich(t *testing.T) {
	t.Parallel()

	engine := reconcile.NewEngine(reconcile.WithLocation(time.UTC))

	tests := map[string]struct {
		doorkomst delijn.Doorkomst
		lines     []delijn.Line

		wantLabel    string
		wantRealtime string
		wantVrtnum   string
	}{
		"Legacy real-time fields without nested block": {
			doorkomst: delijn.Doorkomst{
				Lijnnummer:             delijn.NumericLineNumber(5),
				DienstregelingTijdstip: "2024-05-01T08:15:00Z",
				RealTimeTijdstip:       "2024-05-01T08:17:00Z",
				Vrtnum:                 "77",
			},
			lines:        []delijn.Line{{Lijnnummer: delijn.TextLineNumber("5.0"), LijnNummerPubliek: "5"}},
			wantLabel:    "5",
			wantRealtime: "2024-05-01T08:17:00Z",
			wantVrtnum:   "77",
		},
		"Nested block without timestamp keeps the legacy one": {
			doorkomst: delijn.Doorkomst{
				Lijnnummer:             delijn.TextLineNumber("5"),
				DienstregelingTijdstip: "2024-05-01T08:15:00Z",
				RealTimeTijdstip:       "2024-05-01T08:17:00Z",
				Realtime:               []delijn.Realtime{{Vrtnum: "88"}},
			},
			wantRealtime: "2024-05-01T08:17:00Z",
			wantVrtnum:   "88",
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			arrival := engine.Enrich(tc.doorkomst, tc.lines)

			assert.Equal(t, tc.wantLabel, arrival.LijnNummerPubliek)
			assert.Equal(t, tc.wantRealtime, arrival.RealTimeTijdstip)
			assert.Equal(t, tc.wantVrtnum, arrival.Vrtnum)
			assert.True(t, arrival.RealtimeAvailable)
			require.NotNil(t, arrival.DelayMinutes)
			assert.Equal(t, 2, *arrival.DelayMinutes)
		})
	}
}
