package delijn

// LineDirection is a line/direction pair served by a stop, as returned by the
// lijnrichtingen endpoint. It carries the same display metadata as Line.
type LineDirection struct {
	Entiteitnummer       string     `json:"entiteitnummer,omitempty"`
	Lijnnummer           LineNumber `json:"lijnnummer"`
	Richting             string     `json:"richting,omitempty"`
	LijnNummerPubliek    string     `json:"lijnNummerPubliek,omitempty"`
	Omschrijving         string     `json:"omschrijving,omitempty"`
	KleurVoorGrond       string     `json:"kleurVoorGrond,omitempty"`
	KleurAchterGrond     string     `json:"kleurAchterGrond,omitempty"`
	KleurAchterGrondRand string     `json:"kleurAchterGrondRand,omitempty"`
	KleurVoorGrondRand   string     `json:"kleurVoorGrondRand,omitempty"`
}

type LineDirectionsResponse struct {
	LijnRichtingen []LineDirection `json:"lijnrichtingen"`
}

func (d LineDirection) ToLine() Line {
	return Line{
		LijnNummerPubliek:    d.LijnNummerPubliek,
		Entiteitnummer:       d.Entiteitnummer,
		Lijnnummer:           d.Lijnnummer,
		Richting:             d.Richting,
		Omschrijving:         d.Omschrijving,
		KleurVoorGrond:       d.KleurVoorGrond,
		KleurAchterGrond:     d.KleurAchterGrond,
		KleurAchterGrondRand: d.KleurAchterGrondRand,
		KleurVoorGrondRand:   d.KleurVoorGrondRand,
	}
}

func LinesFromDirections(directions []LineDirection) []Line {
	lines := make([]Line, 0, len(directions))
	for _, direction := range directions {
		lines = append(lines, direction.ToLine())
	}

	return lines
}
