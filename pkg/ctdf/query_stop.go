package ctdf

import "go.mongodb.org/mongo-driver/bson"

type QueryStop struct {
	PrimaryIdentifier string
}

func (s *QueryStop) ToBson() bson.M {
	if s.PrimaryIdentifier != "" {
		return bson.M{"$or": bson.A{
			bson.M{"primaryidentifier": s.PrimaryIdentifier},
			bson.M{"haltenummer": s.PrimaryIdentifier},
			bson.M{"otheridentifiers": s.PrimaryIdentifier},
		}}
	}

	return nil
}

// QueryStopsInBounds selects the active stops inside a bounding box given as
// bottom-left and top-right longitude/latitude pairs.
type QueryStopsInBounds struct {
	BottomLeftLon float64
	BottomLeftLat float64
	TopRightLon   float64
	TopRightLat   float64
}

func (q *QueryStopsInBounds) ToBson() bson.M {
	return bson.M{
		"active": true,
		"location": bson.M{"$geoWithin": bson.M{"$geometry": bson.M{
			"type": "Polygon",
			"coordinates": bson.A{bson.A{
				bson.A{q.BottomLeftLon, q.BottomLeftLat},
				bson.A{q.TopRightLon, q.BottomLeftLat},
				bson.A{q.TopRightLon, q.TopRightLat},
				bson.A{q.BottomLeftLon, q.TopRightLat},
				bson.A{q.BottomLeftLon, q.BottomLeftLat},
			}},
		}}},
	}
}
