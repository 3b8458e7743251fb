package ctdf

// StopArrivals are the enriched arrivals of a single stop (a halte), in the
// order the provider returned them unless sorted explicitly.
type StopArrivals struct {
	Haltenummer string     `json:"haltenummer" groups:"basic"`
	Arrivals    []*Arrival `json:"arrivals" groups:"basic"`
}

type FinalSchedule struct {
	HalteDoorkomsten []*StopArrivals `json:"halteDoorkomsten" groups:"basic"`

	DoorkomstNotas []map[string]interface{} `json:"doorkomstNotas" groups:"detailed"`
	RitNotas       []map[string]interface{} `json:"ritNotas" groups:"detailed"`
	Omleidingen    []map[string]interface{} `json:"omleidingen" groups:"detailed"`

	// NoUpcomingArrivals is set when the provider returned no stop groups at
	// all, which means nothing is coming today.
	NoUpcomingArrivals bool `json:"noUpcomingArrivals" groups:"basic"`
}

// AllArrivals flattens the arrivals of every stop group.
func (f *FinalSchedule) AllArrivals() []*Arrival {
	var arrivals []*Arrival
	for _, stopArrivals := range f.HalteDoorkomsten {
		arrivals = append(arrivals, stopArrivals.Arrivals...)
	}

	return arrivals
}
