package ctdf

const (
	DefaultBadgeBackground = "#4CAF50"
	DefaultBadgeForeground = "#000000"
)

// LineBadge is what a client draws for the line of an arrival.
type LineBadge struct {
	Text       string `json:"text" groups:"basic"`
	Background string `json:"background" groups:"basic"`
	Foreground string `json:"foreground" groups:"basic"`
	Border     string `json:"border,omitempty" groups:"basic"`
}

// ResolveBadge builds the badge from the matched line metadata. Missing or
// unparsable colours fall back to the defaults and an unusable border is
// dropped.
func (a *Arrival) ResolveBadge() *LineBadge {
	text := a.LijnNummerPubliek
	if text == "" {
		text = a.Lijnnummer
	}
	if text == "" {
		text = "-"
	}

	return &LineBadge{
		Text:       text,
		Background: normaliseColour(a.LijnKleurAchterGrond, DefaultBadgeBackground),
		Foreground: normaliseColour(a.LijnKleurVoorGrond, DefaultBadgeForeground),
		Border:     normaliseColour(a.LijnKleurAchterGrondRand, ""),
	}
}

func normaliseColour(value string, fallback string) string {
	if value == "" {
		return fallback
	}

	colour, err := ParseHexColour(value)
	if err != nil {
		return fallback
	}

	return colour.Hex()
}
