package ctdf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidColour = errors.New("invalid hex colour")

// Colour is an ARGB colour parsed from the hex strings the provider uses for
// line badges.
type Colour struct {
	A, R, G, B uint8
}

// ParseHexColour accepts #RRGGBB and #AARRGGBB, with or without the leading
// hash.
func ParseHexColour(value string) (Colour, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")

	if len(hex) != 6 && len(hex) != 8 {
		return Colour{}, fmt.Errorf("%w: %q", ErrInvalidColour, value)
	}

	parsed, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Colour{}, fmt.Errorf("%w: %q", ErrInvalidColour, value)
	}

	colour := Colour{
		R: uint8(parsed >> 16),
		G: uint8(parsed >> 8),
		B: uint8(parsed),
		A: 0xFF,
	}
	if len(hex) == 8 {
		colour.A = uint8(parsed >> 24)
	}

	return colour, nil
}

// Hex renders the colour as #RRGGBB, or #AARRGGBB when it is not opaque.
func (c Colour) Hex() string {
	if c.A == 0xFF {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}

	return fmt.Sprintf("#%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
}
