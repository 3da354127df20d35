package engine

import (
	"regexp"
	"strings"
)

// Type coercion canonicalizes value formats keyed by field-name
// heuristics. Independent of unit conversion; unrecognized text passes
// through unchanged.

// booleanFieldKeywords mark fields whose values collapse to Yes/No.
var booleanFieldKeywords = []string{
	"weather sealing", "weather sealed", "touchscreen", "autofocus",
	"stabilization", "wireless control", "airline approved",
	"phantom power", "hdr",
}

var affirmativeValues = map[string]struct{}{
	"yes": {}, "true": {}, "y": {}, "included": {}, "built-in": {},
	"built in": {}, "builtin": {}, "available": {}, "supported": {},
	"present": {}, "equipped": {}, "standard": {}, "✓": {}, "✔": {},
}

var negativeValues = map[string]struct{}{
	"no": {}, "false": {}, "n": {}, "none": {}, "n/a": {}, "na": {},
	"not available": {}, "not included": {}, "without": {}, "absent": {},
	"✗": {}, "✘": {}, "—": {}, "-": {}, "–": {},
}

var (
	colorTempRangeRe = regexp.MustCompile(`(?i)^(\d{4})\s*k?\s*(?:-|–|—|to|~)\s*(\d{4})\s*k?$`)
	bareApertureRe   = regexp.MustCompile(`^\d+(\.\d+)?([-–]\d+(\.\d+)?)?$`)
)

// CoerceValue canonicalizes value according to the target field's name.
func CoerceValue(field, value string) string {
	lowerField := strings.ToLower(field)
	v := strings.TrimSpace(value)
	if v == "" {
		return value
	}

	// Boolean-like fields: map affirmative/negative synonyms to Yes/No.
	for _, kw := range booleanFieldKeywords {
		if !strings.Contains(lowerField, kw) {
			continue
		}
		lv := strings.ToLower(v)
		if _, ok := affirmativeValues[lv]; ok {
			return "Yes"
		}
		if _, ok := negativeValues[lv]; ok {
			return "No"
		}
		return value
	}

	// Color-temperature ranges: "NNNNK-NNNNK" → "NNNN–NNNN K".
	if strings.Contains(lowerField, "color temp") || strings.Contains(lowerField, "temperature") {
		if m := colorTempRangeRe.FindStringSubmatch(v); m != nil {
			return m[1] + "–" + m[2] + " K"
		}
		return value
	}

	// Aperture fields: prefix bare numbers with "f/".
	if strings.Contains(lowerField, "aperture") {
		if bareApertureRe.MatchString(v) {
			return "f/" + v
		}
		return value
	}

	return value
}
