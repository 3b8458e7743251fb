package reconcile

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/bussin/bussin/pkg/delijn"
)

var trailingZeroDecimal = regexp.MustCompile(`^\d+\.0$`)

// NormalizeLineNumber turns a lijnnummer into the key every lookup compares
// against. Numbers are truncated to their integer part, text is trimmed and a
// spurious ".0" suffix is dropped so "136", 136.0 and "136.0" are one key.
// An absent lijnnummer normalizes to "".
func NormalizeLineNumber(lineNumber delijn.LineNumber) string {
	if !lineNumber.Valid {
		return ""
	}

	if lineNumber.Numeric {
		if value, err := strconv.ParseFloat(lineNumber.Value, 64); err == nil && !math.IsInf(value, 0) && !math.IsNaN(value) {
			return strconv.FormatInt(int64(value), 10)
		}
	}

	return normalizeText(lineNumber.Value)
}

func normalizeText(value string) string {
	trimmed := strings.TrimSpace(value)

	if trailingZeroDecimal.MatchString(trimmed) {
		return strings.TrimSuffix(trimmed, ".0")
	}

	return trimmed
}
