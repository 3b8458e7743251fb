package matchstats

import (
	"fmt"
	"time"

	"github.com/bussin/bussin/pkg/ctdf"
	"github.com/bussin/bussin/pkg/reconcile"
)

const indexPrefix = "bussin-match-events"

// NoMatchRule is stored for arrivals no rule could match so they still show
// up in the rule aggregation.
const NoMatchRule = "none"

type MatchEvent struct {
	Timestamp time.Time

	Success bool
	Rule    string

	DoorkomstID       string
	Entiteitnummer    string
	Lijnnummer        string
	LijnNummerPubliek string
}

func NewMatchEvent(arrival *ctdf.Arrival, rule reconcile.MatchRule, timestamp time.Time) *MatchEvent {
	event := &MatchEvent{
		Timestamp:         timestamp,
		Success:           rule != reconcile.RuleNone,
		Rule:              string(rule),
		DoorkomstID:       arrival.DoorkomstID,
		Entiteitnummer:    arrival.Entiteitnummer,
		Lijnnummer:        arrival.Lijnnummer,
		LijnNummerPubliek: arrival.LijnNummerPubliek,
	}

	if !event.Success {
		event.Rule = NoMatchRule
	}

	return event
}

// IndexName is the weekly index an event recorded at t goes to.
func IndexName(t time.Time) string {
	yearNumber, weekNumber := t.ISOWeek()

	return fmt.Sprintf("%s-%d-%d", indexPrefix, yearNumber, weekNumber)
}
