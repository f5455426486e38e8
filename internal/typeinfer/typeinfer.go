// Package typeinfer classifies individual values and whole columns into
// the handful of logical types the manifest reports.
package typeinfer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/DNAi-inc/DNUDS/internal/format"
)

// Type is the inferred logical type of a value or column.
type Type string

const (
	String   Type = "string"
	Integer  Type = "integer"
	Float    Type = "float"
	Boolean  Type = "boolean"
	DateTime Type = "datetime"
	Unknown  Type = "unknown"
)

var boolTokens = map[string]bool{
	"true": true, "false": true, "yes": true, "no": true, "1": true, "0": true,
}

var datetimePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}:\d{2}`),
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
	regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),
	regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`),
}

// Value infers the type of a single format.Value, honoring the value's
// native kind before falling back to text parsing.
func Value(v format.Value) Type {
	switch v.Kind {
	case format.KindInt:
		return Integer
	case format.KindFloat:
		return Float
	case format.KindBool:
		return Boolean
	case format.KindNull:
		return Unknown
	default:
		return fromText(v.Text)
	}
}

func fromText(raw string) Type {
	s := strings.TrimSpace(raw)
	if s == "" {
		return String
	}
	if boolTokens[strings.ToLower(s)] {
		return Boolean
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Integer
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return Float
	}
	for _, p := range datetimePatterns {
		if p.MatchString(s) {
			return DateTime
		}
	}
	return String
}

// maxColumnSamples bounds how many non-null values a column-level
// inference considers, matching the modal-type-over-first-100 rule.
const maxColumnSamples = 100

// Column infers the modal type across up to the first maxColumnSamples
// non-null values observed for a column. An empty input infers Unknown.
func Column(values []format.Value) Type {
	counts := make(map[Type]int)
	seen := 0
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		counts[Value(v)]++
		seen++
		if seen >= maxColumnSamples {
			break
		}
	}
	if seen == 0 {
		return Unknown
	}
	var best Type
	bestCount := -1
	order := []Type{Boolean, Integer, Float, DateTime, String, Unknown}
	for _, t := range order {
		if c := counts[t]; c > bestCount {
			best, bestCount = t, c
		}
	}
	return best
}
