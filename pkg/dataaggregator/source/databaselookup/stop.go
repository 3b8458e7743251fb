package databaselookup

import (
	"context"
	"errors"

	"github.com/bussin/bussin/pkg/ctdf"
	"github.com/bussin/bussin/pkg/database"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrStopNotFound = errors.New("could not find a matching Stop")

const maxStopsInBounds = 1000

func (s Source) StopQuery(stopQuery ctdf.QueryStop) (*ctdf.Stop, error) {
	if !database.IsConnected() {
		return nil, database.ErrNotConnected
	}

	filter := stopQuery.ToBson()
	if filter == nil {
		return nil, ErrStopNotFound
	}

	stopsCollection := database.GetCollection(database.StopsCollection)
	var stop *ctdf.Stop
	stopsCollection.FindOne(context.Background(), filter).Decode(&stop)

	if stop == nil {
		return nil, ErrStopNotFound
	} else {
		return stop, nil
	}
}

func (s Source) StopsInBoundsQuery(boundsQuery ctdf.QueryStopsInBounds) ([]*ctdf.Stop, error) {
	if !database.IsConnected() {
		return nil, database.ErrNotConnected
	}

	stopsCollection := database.GetCollection(database.StopsCollection)

	opts := options.Find().SetLimit(maxStopsInBounds)
	cursor, err := stopsCollection.Find(context.Background(), boundsQuery.ToBson(), opts)
	if err != nil {
		return nil, err
	}

	stops := []*ctdf.Stop{}
	if err := cursor.All(context.Background(), &stops); err != nil {
		return nil, err
	}

	return stops, nil
}
