package delijn

import (
	"reflect"
	"time"

	"github.com/bussin/bussin/pkg/ctdf"
	"github.com/bussin/bussin/pkg/dataaggregator/source"
	"github.com/bussin/bussin/pkg/dataaggregator/source/cachedresults"
	"github.com/bussin/bussin/pkg/delijn"
	"github.com/bussin/bussin/pkg/reconcile"
	"github.com/bussin/bussin/pkg/transforms"
)

// Source answers arrival queries from the De Lijn transit API.
type Source struct {
	Client      *delijn.Client
	Cache       *cachedresults.Cache
	Engine      *reconcile.Engine
	Transformer *transforms.Transformer

	Location    *time.Location
	MaxArrivals int

	// DefaultWindow applies to queries without their own window, zero for none
	DefaultWindow time.Duration

	Now func() time.Time
}

func (s Source) GetName() string {
	return "De Lijn API"
}

func (s Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(ctdf.StopArrivals{}),
		reflect.TypeOf([]*ctdf.StopArrivals{}),
		reflect.TypeOf(ctdf.FinalSchedule{}),
	}
}

func (s Source) Lookup(q any) (interface{}, error) {
	switch q := q.(type) {
	case ctdf.QueryStopArrivals:
		return s.StopArrivalsQuery(q)
	case ctdf.QueryMultiStopArrivals:
		return s.MultiStopArrivalsQuery(q)
	case ctdf.QueryFinalSchedule:
		return s.FinalScheduleQuery(q)
	default:
		return nil, source.UnsupportedSourceError
	}
}

func (s Source) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}

	return time.Now()
}

func (s Source) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}

	return time.Local
}
