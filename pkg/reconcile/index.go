package reconcile

import (
	"regexp"
	"strings"

	"github.com/bussin/bussin/pkg/delijn"
	"github.com/rs/zerolog/log"
)

var firstDigitRun = regexp.MustCompile(`\d+`)

// Indexes are the lookup tables over the line metadata of a single response.
// They are built per call and never shared between responses.
type Indexes struct {
	ByLineNumber map[string]*delijn.Line
	ByEntity     map[string][]*delijn.Line
	ByLabel      map[string]*delijn.Line

	// labelKeys holds the keys of ByLabel in first insertion order
	labelKeys []string
}

// BuildIndexes indexes lines by normalized lijnnummer, by entiteitnummer and
// by public label. For the label index the trimmed label, its lower-case form
// and its first run of digits all point at the line. Later lines win on
// duplicate lijnnummer and label keys.
func BuildIndexes(lines []delijn.Line) *Indexes {
	indexes := &Indexes{
		ByLineNumber: map[string]*delijn.Line{},
		ByEntity:     map[string][]*delijn.Line{},
		ByLabel:      map[string]*delijn.Line{},
	}

	for i := range lines {
		line := &lines[i]

		if key := NormalizeLineNumber(line.Lijnnummer); key != "" {
			indexes.ByLineNumber[key] = line
		}

		if line.Entiteitnummer != "" {
			indexes.ByEntity[line.Entiteitnummer] = append(indexes.ByEntity[line.Entiteitnummer], line)
		}

		if line.LijnNummerPubliek != "" {
			label := strings.TrimSpace(line.LijnNummerPubliek)

			indexes.putLabel(label, line)
			indexes.putLabel(strings.ToLower(label), line)

			if digits := firstDigitRun.FindString(label); digits != "" {
				indexes.putLabel(digits, line)
			}
		}
	}

	log.Debug().
		Int("lines", len(lines)).
		Int("lineNumberKeys", len(indexes.ByLineNumber)).
		Int("entityKeys", len(indexes.ByEntity)).
		Strs("labelKeys", indexes.labelKeys).
		Msg("Built line indexes")

	return indexes
}

func (i *Indexes) putLabel(key string, line *delijn.Line) {
	if _, exists := i.ByLabel[key]; !exists {
		i.labelKeys = append(i.labelKeys, key)
	}
	i.ByLabel[key] = line
}

// LabelKeys returns the label index keys in the order they were first added.
func (i *Indexes) LabelKeys() []string {
	keys := make([]string, len(i.labelKeys))
	copy(keys, i.labelKeys)

	return keys
}
