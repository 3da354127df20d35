package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Unit conversion is pure and on-demand: it runs over already-resolved
// value strings and passes values through untouched when no recognizable
// unit pattern is present.

const (
	gramsPerPound = 453.592
	gramsPerOunce = 28.3495
	mmPerInch     = 25.4
)

var (
	compoundWeightRe = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*lbs?\.?\s+(\d+(?:\.\d+)?)\s*oz\.?$`)
	dimensionRe      = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*[x×]\s*(\d+(?:\.\d+)?)(?:\s*[x×]\s*(\d+(?:\.\d+)?))?\s*(in(?:ch(?:es)?)?\.?|mm)$`)
	singleUnitRe     = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(in(?:ch(?:es)?)?\.?|"|lbs?\.?|oz\.?|mm|g|kg)$`)
	fahrenheitRe     = regexp.MustCompile(`(?i)^(-?\d+(?:\.\d+)?)\s*°?\s*f$`)
)

// NormalizeUnits converts value between imperial and metric according to
// preferMetric. The second return reports whether a conversion applied;
// when false the value is returned unchanged.
func NormalizeUnits(value string, preferMetric bool) (string, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return value, false
	}

	// Compound weight: "N lb M oz" → grams, re-expressed as kg >= 1000 g.
	if m := compoundWeightRe.FindStringSubmatch(v); m != nil && preferMetric {
		lb, _ := strconv.ParseFloat(m[1], 64)
		oz, _ := strconv.ParseFloat(m[2], 64)
		return formatGrams(lb*gramsPerPound + oz*gramsPerOunce), true
	}

	// Dimension pairs/triples: convert every component.
	if m := dimensionRe.FindStringSubmatch(v); m != nil {
		unit := strings.ToLower(strings.TrimSuffix(m[4], "."))
		imperial := strings.HasPrefix(unit, "in")
		if imperial && preferMetric {
			return formatDimensions(m, func(n float64) float64 { return n * mmPerInch }, "mm"), true
		}
		if unit == "mm" && !preferMetric {
			return formatDimensions(m, func(n float64) float64 { return n / mmPerInch }, "in"), true
		}
		return value, false
	}

	// Single-unit conversions.
	if m := singleUnitRe.FindStringSubmatch(v); m != nil {
		n, _ := strconv.ParseFloat(m[1], 64)
		unit := strings.ToLower(strings.TrimSuffix(m[2], "."))
		switch {
		case preferMetric && (strings.HasPrefix(unit, "in") || unit == `"`):
			return trimFloat(n*mmPerInch) + " mm", true
		case preferMetric && strings.HasPrefix(unit, "lb"):
			return formatGrams(n * gramsPerPound), true
		case preferMetric && unit == "oz":
			return formatGrams(n * gramsPerOunce), true
		case !preferMetric && unit == "mm":
			return trimFloat(n/mmPerInch) + " in", true
		}
		return value, false
	}

	// Fahrenheit → Celsius, metric only.
	if m := fahrenheitRe.FindStringSubmatch(v); m != nil && preferMetric {
		f, _ := strconv.ParseFloat(m[1], 64)
		return trimFloat((f-32)*5/9) + "°C", true
	}

	return value, false
}

// formatGrams prints grams, switching to kilograms at 1000 g.
func formatGrams(g float64) string {
	if g >= 1000 {
		return trimFloat(g/1000) + " kg"
	}
	return trimFloat(g) + " g"
}

func formatDimensions(m []string, convert func(float64) float64, unit string) string {
	parts := []string{m[1], m[2]}
	if m[3] != "" {
		parts = append(parts, m[3])
	}
	for i, p := range parts {
		n, _ := strconv.ParseFloat(p, 64)
		parts[i] = trimFloat(convert(n))
	}
	return strings.Join(parts, " x ") + " " + unit
}

// trimFloat renders a float with one decimal, dropping a trailing ".0".
func trimFloat(n float64) string {
	s := fmt.Sprintf("%.1f", n)
	return strings.TrimSuffix(s, ".0")
}
