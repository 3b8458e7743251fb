package delijn

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// LineNumber is a lijnnummer as it appeared on the wire. The API is not
// consistent and sends it either as a JSON number or as a string, sometimes
// with a spurious ".0" suffix.
type LineNumber struct {
	Value   string
	Numeric bool
	Valid   bool
}

func TextLineNumber(value string) LineNumber {
	return LineNumber{Value: value, Valid: true}
}

func NumericLineNumber(value float64) LineNumber {
	return LineNumber{Value: strconv.FormatFloat(value, 'f', -1, 64), Numeric: true, Valid: true}
}

func (l LineNumber) String() string {
	return l.Value
}

func (l *LineNumber) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*l = LineNumber{}
	case trimmed[0] == '"':
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		*l = LineNumber{Value: value, Valid: true}
	case trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9'):
		*l = LineNumber{Value: string(trimmed), Numeric: true, Valid: true}
	default:
		// Anything else (booleans, objects) is kept verbatim rather than failing the whole response
		*l = LineNumber{Value: string(trimmed), Valid: true}
	}

	return nil
}

func (l LineNumber) MarshalJSON() ([]byte, error) {
	if !l.Valid {
		return []byte("null"), nil
	}

	if l.Numeric {
		if _, err := strconv.ParseFloat(l.Value, 64); err == nil {
			return []byte(l.Value), nil
		}
	}

	return json.Marshal(l.Value)
}
