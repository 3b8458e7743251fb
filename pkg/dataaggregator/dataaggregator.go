package dataaggregator

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/bussin/bussin/pkg/dataaggregator/source"
	"github.com/rs/zerolog/log"
)

type Aggregator struct {
	Sources []DataSource
}

var GlobalAggregator Aggregator

func (a *Aggregator) RegisterSource(source DataSource) {
	a.Sources = append(a.Sources, source)

	log.Debug().Str("name", source.GetName()).Msg("Registering new Data Source")
}

// Lookup asks the global aggregator for a T answering query.
func Lookup[T any](query any) (T, error) {
	return LookupWith[T](&GlobalAggregator, query)
}

// LookupWith tries every source supporting T in registration order. A source
// answering with source.UnsupportedSourceError passes the query on to the next
// one.
func LookupWith[T any](aggregator *Aggregator, query any) (T, error) {
	var empty T

	lookupType := reflect.TypeOf(*new(T))
	if lookupType.Kind() == reflect.Pointer {
		lookupType = lookupType.Elem()
	}

	for _, dataSource := range aggregator.Sources {
		matches := false

		for _, supportedType := range dataSource.Supports() {
			if lookupType == supportedType {
				matches = true
				break
			}
		}

		if !matches {
			continue
		}

		returnValue, err := dataSource.Lookup(query)
		if errors.Is(err, source.UnsupportedSourceError) {
			continue
		}

		if returnValue == nil {
			return empty, err
		}

		typedValue, ok := returnValue.(T)
		if !ok {
			return empty, fmt.Errorf("data source %s returned %T", dataSource.GetName(), returnValue)
		}

		return typedValue, err
	}

	return empty, fmt.Errorf("%w: %s", source.UnsupportedSourceError, lookupType)
}
