package delijn

// Realtime is the nested real-time block of a doorkomst. The API wraps it in
// an array, only the first element is meaningful.
type Realtime struct {
	DienstregelingTijdstip string   `json:"dienstregelingTijdstip,omitempty"`
	RealTimeTijdstip       string   `json:"real-timeTijdstip,omitempty"`
	Vrtnum                 string   `json:"vrtnum,omitempty"`
	PredictionStatussen    []string `json:"predictionStatussen,omitempty"`
}

// Doorkomst is a single scheduled or real-time passage of a bus at a stop.
type Doorkomst struct {
	DoorkomstID      string     `json:"doorkomstId,omitempty"`
	Entiteitnummer   string     `json:"entiteitnummer,omitempty"`
	Lijnnummer       LineNumber `json:"lijnnummer"`
	Richting         string     `json:"richting,omitempty"`
	Ritnummer        string     `json:"ritnummer,omitempty"`
	Bestemming       string     `json:"bestemming,omitempty"`
	PlaatsBestemming string     `json:"plaatsBestemming,omitempty"`

	DienstregelingTijdstip string `json:"dienstregelingTijdstip,omitempty"`

	// Legacy top-level real-time fields, superseded by Realtime when present
	RealTimeTijdstip    string   `json:"real-timeTijdstip,omitempty"`
	Vrtnum              string   `json:"vrtnum,omitempty"`
	PredictionStatussen []string `json:"predictionStatussen,omitempty"`

	Realtime []Realtime `json:"realtime,omitempty"`
	Vias     []string   `json:"vias,omitempty"`
}

// ResolvedRealtime returns the real-time timestamp, vehicle number and
// prediction statuses, preferring the nested realtime block over the legacy
// top-level fields.
func (d *Doorkomst) ResolvedRealtime() (string, string, []string) {
	realTime := d.RealTimeTijdstip
	vrtnum := d.Vrtnum
	predictions := d.PredictionStatussen

	if len(d.Realtime) > 0 {
		nested := d.Realtime[0]

		if nested.RealTimeTijdstip != "" {
			realTime = nested.RealTimeTijdstip
		}
		if nested.Vrtnum != "" {
			vrtnum = nested.Vrtnum
		}
		if nested.PredictionStatussen != nil {
			predictions = nested.PredictionStatussen
		}
	}

	if predictions == nil {
		predictions = []string{}
	}

	return realTime, vrtnum, predictions
}

// Line is the metadata the API returns alongside the doorkomsten of a stop.
type Line struct {
	LijnNummerPubliek    string     `json:"lijnNummerPubliek,omitempty"`
	Entiteitnummer       string     `json:"entiteitnummer,omitempty"`
	Lijnnummer           LineNumber `json:"lijnnummer"`
	Richting             string     `json:"richting,omitempty"`
	Omschrijving         string     `json:"omschrijving,omitempty"`
	KleurVoorGrond       string     `json:"kleurVoorGrond,omitempty"`
	KleurAchterGrond     string     `json:"kleurAchterGrond,omitempty"`
	KleurAchterGrondRand string     `json:"kleurAchterGrondRand,omitempty"`
	KleurVoorGrondRand   string     `json:"kleurVoorGrondRand,omitempty"`
}

type HalteDoorkomsten struct {
	Haltenummer string      `json:"haltenummer"`
	Doorkomsten []Doorkomst `json:"doorkomsten,omitempty"`
}

// FinalScheduleResponse is the body of the final-schedule endpoint of a stop.
// The notes and diversions are passed through untouched.
type FinalScheduleResponse struct {
	Lines            []Line             `json:"lines,omitempty"`
	HalteDoorkomsten []HalteDoorkomsten `json:"halteDoorkomsten,omitempty"`

	DoorkomstNotas []map[string]interface{} `json:"doorkomstNotas,omitempty"`
	RitNotas       []map[string]interface{} `json:"ritNotas,omitempty"`
	Omleidingen    []map[string]interface{} `json:"omleidingen,omitempty"`
}
