package reconcile

import (
	"strings"

	"github.com/bussin/bussin/pkg/delijn"
)

// MatchRule names the rule of the cascade that found the line metadata of a
// doorkomst.
type MatchRule string

const (
	RuleLineEntityDirection MatchRule = "line-entity-direction"
	RuleLineEntityUnique    MatchRule = "line-entity-unique"
	RuleEntityUnique        MatchRule = "entity-unique"
	RuleLineNumber          MatchRule = "line-number"
	RulePublicLabel         MatchRule = "public-label"
	RuleEntityDirection     MatchRule = "entity-direction"
	RuleEntityLineOrLabel   MatchRule = "entity-line-or-label"
	RuleLabelContains       MatchRule = "label-contains"
	RuleNone                MatchRule = ""
)

// AllRules lists every rule in cascade order.
var AllRules = []MatchRule{
	RuleLineEntityDirection,
	RuleLineEntityUnique,
	RuleEntityUnique,
	RuleLineNumber,
	RulePublicLabel,
	RuleEntityDirection,
	RuleEntityLineOrLabel,
	RuleLabelContains,
}

type matchInput struct {
	lineKey   string
	entity    string
	direction string

	lines   []delijn.Line
	indexes *Indexes
}

// A strategy returns the matched line and the rule that matched, or nil.
type strategy func(*matchInput) (*delijn.Line, MatchRule)

var cascade = []strategy{
	matchLineEntity,
	matchUniqueEntity,
	matchLineNumber,
	matchPublicLabel,
	matchEntityCandidates,
	matchLabelContains,
}

// MatchLine runs the cascade for a doorkomst against the line metadata of its
// response. The first strategy that finds a line wins. When none does the
// returned line is nil and the rule is RuleNone.
func MatchLine(doorkomst *delijn.Doorkomst, lines []delijn.Line) (*delijn.Line, MatchRule) {
	return matchWithIndexes(doorkomst, lines, BuildIndexes(lines))
}

func matchWithIndexes(doorkomst *delijn.Doorkomst, lines []delijn.Line, indexes *Indexes) (*delijn.Line, MatchRule) {
	input := &matchInput{
		lineKey:   NormalizeLineNumber(doorkomst.Lijnnummer),
		entity:    doorkomst.Entiteitnummer,
		direction: doorkomst.Richting,
		lines:     lines,
		indexes:   indexes,
	}

	for _, match := range cascade {
		if line, rule := match(input); line != nil {
			return line, rule
		}
	}

	return nil, RuleNone
}

// matchLineEntity needs both a line key and an entity. It takes the first line
// agreeing on both whose direction does not contradict, otherwise it accepts
// a line agreeing on both only when it is the single candidate.
func matchLineEntity(input *matchInput) (*delijn.Line, MatchRule) {
	if strings.TrimSpace(input.lineKey) == "" || strings.TrimSpace(input.entity) == "" {
		return nil, RuleNone
	}

	var candidates []*delijn.Line

	for i := range input.lines {
		line := &input.lines[i]

		if NormalizeLineNumber(line.Lijnnummer) != input.lineKey || line.Entiteitnummer != input.entity {
			continue
		}

		if directionCompatible(input.direction, line.Richting) {
			return line, RuleLineEntityDirection
		}

		candidates = append(candidates, line)
	}

	if len(candidates) == 1 {
		return candidates[0], RuleLineEntityUnique
	}

	return nil, RuleNone
}

// directionCompatible is true when either side has no direction or both
// directions are equal ignoring case.
func directionCompatible(want string, have string) bool {
	if strings.TrimSpace(want) == "" || strings.TrimSpace(have) == "" {
		return true
	}

	return strings.EqualFold(want, have)
}

func directionsEqual(want string, have string) bool {
	if strings.TrimSpace(want) == "" || strings.TrimSpace(have) == "" {
		return false
	}

	return strings.EqualFold(want, have)
}

func matchUniqueEntity(input *matchInput) (*delijn.Line, MatchRule) {
	if strings.TrimSpace(input.entity) == "" {
		return nil, RuleNone
	}

	if candidates := input.indexes.ByEntity[input.entity]; len(candidates) == 1 {
		return candidates[0], RuleEntityUnique
	}

	return nil, RuleNone
}

func matchLineNumber(input *matchInput) (*delijn.Line, MatchRule) {
	if strings.TrimSpace(input.lineKey) == "" {
		return nil, RuleNone
	}

	if line, ok := input.indexes.ByLineNumber[input.lineKey]; ok {
		return line, RuleLineNumber
	}

	return nil, RuleNone
}

// matchPublicLabel looks the line key up in the label index, first as is,
// then lower-cased, then by its last 1, 2 and 3 characters.
func matchPublicLabel(input *matchInput) (*delijn.Line, MatchRule) {
	key := input.lineKey
	if strings.TrimSpace(key) == "" {
		return nil, RuleNone
	}

	if line, ok := input.indexes.ByLabel[key]; ok {
		return line, RulePublicLabel
	}
	if line, ok := input.indexes.ByLabel[strings.ToLower(key)]; ok {
		return line, RulePublicLabel
	}

	maxSuffix := min(3, len(key))
	for length := 1; length <= maxSuffix; length++ {
		if line, ok := input.indexes.ByLabel[key[len(key)-length:]]; ok {
			return line, RulePublicLabel
		}
	}

	return nil, RuleNone
}

// matchEntityCandidates picks among all lines of the entity, preferring the
// first with an equal direction, then the first whose line key or public label
// equals the doorkomst line key.
func matchEntityCandidates(input *matchInput) (*delijn.Line, MatchRule) {
	if strings.TrimSpace(input.entity) == "" {
		return nil, RuleNone
	}

	candidates := input.indexes.ByEntity[input.entity]

	for _, candidate := range candidates {
		if directionsEqual(input.direction, candidate.Richting) {
			return candidate, RuleEntityDirection
		}
	}

	if input.lineKey == "" {
		return nil, RuleNone
	}

	for _, candidate := range candidates {
		if NormalizeLineNumber(candidate.Lijnnummer) == input.lineKey || candidate.LijnNummerPubliek == input.lineKey {
			return candidate, RuleEntityLineOrLabel
		}
	}

	return nil, RuleNone
}

// matchLabelContains is the loosest rule: the first indexed label that ends
// with or contains the line key wins. Short keys such as "3" can match
// unrelated labels.
func matchLabelContains(input *matchInput) (*delijn.Line, MatchRule) {
	key := strings.ToLower(input.lineKey)
	if strings.TrimSpace(key) == "" {
		return nil, RuleNone
	}

	for _, labelKey := range input.indexes.labelKeys {
		line := input.indexes.ByLabel[labelKey]

		label := strings.ToLower(line.LijnNummerPubliek)
		if strings.HasSuffix(label, key) || strings.Contains(label, key) {
			return line, RuleLabelContains
		}
	}

	return nil, RuleNone
}
