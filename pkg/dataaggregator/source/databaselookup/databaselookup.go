package databaselookup

import (
	"reflect"

	"github.com/bussin/bussin/pkg/ctdf"
	"github.com/bussin/bussin/pkg/dataaggregator/source"
)

// Source answers stop queries from the imported stops collection.
type Source struct {
}

func (s Source) GetName() string {
	return "Database Lookup"
}

func (s Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(ctdf.Stop{}),
		reflect.TypeOf([]*ctdf.Stop{}),
	}
}

func (s Source) Lookup(q any) (interface{}, error) {
	switch q := q.(type) {
	case ctdf.QueryStop:
		return s.StopQuery(q)
	case ctdf.QueryStopsInBounds:
		return s.StopsInBoundsQuery(q)
	}

	return nil, source.UnsupportedSourceError
}
