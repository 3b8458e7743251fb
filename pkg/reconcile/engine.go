package reconcile

import (
	"time"

	"github.com/bussin/bussin/pkg/ctdf"
	"github.com/bussin/bussin/pkg/delijn"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

// MatchObserver is told which rule matched every enriched arrival.
type MatchObserver interface {
	ObserveMatch(arrival *ctdf.Arrival, rule MatchRule)
}

// Engine enriches raw doorkomsten with the line metadata of their response.
// It holds no per-response state and is safe for concurrent use.
type Engine struct {
	// Location is used for timestamps without a UTC offset
	Location *time.Location
	Observer MatchObserver
}

type Option func(*Engine)

func WithLocation(location *time.Location) Option {
	return func(e *Engine) {
		if location != nil {
			e.Location = location
		}
	}
}

func WithObserver(observer MatchObserver) Option {
	return func(e *Engine) {
		e.Observer = observer
	}
}

func NewEngine(options ...Option) *Engine {
	engine := &Engine{
		Location: time.Local,
	}

	for _, option := range options {
		option(engine)
	}

	return engine
}

// Enrich produces the arrival for one doorkomst. It never fails: fields that
// cannot be resolved are left empty.
func (e *Engine) Enrich(doorkomst delijn.Doorkomst, lines []delijn.Line) ctdf.Arrival {
	return *e.enrich(&doorkomst, lines, BuildIndexes(lines))
}

// EnrichAll enriches doorkomsten sharing one line table, keeping their order.
func (e *Engine) EnrichAll(doorkomsten []delijn.Doorkomst, lines []delijn.Line) []*ctdf.Arrival {
	indexes := BuildIndexes(lines)

	arrivals := make([]*ctdf.Arrival, 0, len(doorkomsten))
	for i := range doorkomsten {
		arrivals = append(arrivals, e.enrich(&doorkomsten[i], lines, indexes))
	}

	return arrivals
}

func (e *Engine) FromHalteDoorkomsten(halte delijn.HalteDoorkomsten, lines []delijn.Line) *ctdf.StopArrivals {
	return &ctdf.StopArrivals{
		Haltenummer: halte.Haltenummer,
		Arrivals:    e.EnrichAll(halte.Doorkomsten, lines),
	}
}

// FromFinalSchedule maps a whole final-schedule response. Every stop group is
// enriched against the line table of the response.
func (e *Engine) FromFinalSchedule(response *delijn.FinalScheduleResponse) *ctdf.FinalSchedule {
	schedule := &ctdf.FinalSchedule{
		HalteDoorkomsten: []*ctdf.StopArrivals{},
		DoorkomstNotas:   response.DoorkomstNotas,
		RitNotas:         response.RitNotas,
		Omleidingen:      response.Omleidingen,
	}

	if len(response.HalteDoorkomsten) == 0 {
		schedule.NoUpcomingArrivals = true
		return schedule
	}

	indexes := BuildIndexes(response.Lines)

	for _, halte := range response.HalteDoorkomsten {
		stopArrivals := &ctdf.StopArrivals{
			Haltenummer: halte.Haltenummer,
			Arrivals:    make([]*ctdf.Arrival, 0, len(halte.Doorkomsten)),
		}

		for i := range halte.Doorkomsten {
			stopArrivals.Arrivals = append(stopArrivals.Arrivals, e.enrich(&halte.Doorkomsten[i], response.Lines, indexes))
		}

		schedule.HalteDoorkomsten = append(schedule.HalteDoorkomsten, stopArrivals)
	}

	return schedule
}

func (e *Engine) enrich(doorkomst *delijn.Doorkomst, lines []delijn.Line, indexes *Indexes) *ctdf.Arrival {
	arrival := &ctdf.Arrival{}

	if err := copier.CopyWithOption(arrival, doorkomst, copier.Option{DeepCopy: true}); err != nil {
		log.Error().Err(err).Str("doorkomst", doorkomst.DoorkomstID).Msg("Failed to copy doorkomst fields")
	}
	if arrival.Vias == nil {
		arrival.Vias = []string{}
	}

	arrival.Lijnnummer = NormalizeLineNumber(doorkomst.Lijnnummer)
	arrival.RealTimeTijdstip, arrival.Vrtnum, arrival.PredictionStatussen = doorkomst.ResolvedRealtime()

	line, rule := matchWithIndexes(doorkomst, lines, indexes)
	if line != nil {
		arrival.LijnNummerPubliek = line.LijnNummerPubliek
		arrival.LijnOmschrijving = line.Omschrijving
		arrival.LijnKleurVoorGrond = line.KleurVoorGrond
		arrival.LijnKleurAchterGrond = line.KleurAchterGrond
		arrival.LijnKleurAchterGrondRand = line.KleurAchterGrondRand
		arrival.LijnKleurVoorGrondRand = line.KleurVoorGrondRand
	}
	arrival.MatchRule = string(rule)

	arrival.ScheduledTimeFormatted = FormatShortTime(doorkomst.DienstregelingTijdstip)
	arrival.ExpectedArrivalTime = ParseTimestamp(doorkomst.DienstregelingTijdstip, e.Location)
	arrival.RealArrivalTime = ParseTimestamp(arrival.RealTimeTijdstip, e.Location)
	arrival.RealtimeAvailable = ctdf.IsKnownInstant(arrival.RealArrivalTime)

	if delay, ok := Delay(arrival.ExpectedArrivalTime, arrival.RealArrivalTime); ok {
		arrival.DelayMinutes = &delay
		arrival.DelayText = FormatDelay(delay)
		arrival.DelayStatus = DelayStatus(delay)
	}

	arrival.Badge = arrival.ResolveBadge()

	log.Debug().
		Str("doorkomst", doorkomst.DoorkomstID).
		Str("lijnnummer", doorkomst.Lijnnummer.String()).
		Str("entiteitnummer", doorkomst.Entiteitnummer).
		Str("normalised", arrival.Lijnnummer).
		Str("matched", arrival.LijnNummerPubliek).
		Str("rule", arrival.MatchRule).
		Msg("Enriched doorkomst")

	if e.Observer != nil {
		e.Observer.ObserveMatch(arrival, rule)
	}

	return arrival
}
