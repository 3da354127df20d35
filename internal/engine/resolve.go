package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sells-group/specsheet-cli/internal/model"

	"go.uber.org/zap"
)

// sharedFields may match across categories without the mismatch penalty.
var sharedFields = map[string]struct{}{
	"Weight": {}, "Dimensions": {}, "Color": {}, "Material": {},
	"Warranty": {}, "Country of Origin": {}, "Battery Life": {},
	"Mount Type": {}, "Connectivity": {}, "In the Box": {},
}

// Resolve runs the 3-pass matcher: direct alias lookup, fuzzy lookup,
// then per-field reconciliation. detectedCategory feeds the cross-category
// penalty; pairs never matched in either pass are returned as unmatched.
func Resolve(pairs []model.RawPair, aliases *AliasMap, detectedCategory string) (map[string]model.ResolvedField, []model.RawPair) {
	matched := make([]bool, len(pairs))
	candidates := make(map[string][]model.FieldCandidate)

	// Pass 1, direct: normalized key (and its expanded form) against the
	// alias map.
	for i, p := range pairs {
		norm := normalizeKey(p.Key)
		entry, ok := aliases.Lookup(norm)
		if !ok {
			if exp := expandAbbreviations(norm); exp != norm {
				entry, ok = aliases.Lookup(exp)
			}
		}
		if !ok {
			continue
		}
		candidates[entry.TargetField] = append(candidates[entry.TargetField], model.FieldCandidate{
			Value:      p.Value,
			Confidence: entry.Priority,
			SourceKey:  p.Key,
			LineIndex:  p.LineIndex,
		})
		matched[i] = true
	}

	// Pass 2, fuzzy: score unmatched keys against field names and alias
	// labels, keep the best surviving candidate per target field.
	for i, p := range pairs {
		if matched[i] {
			continue
		}
		best := make(map[string]int)

		for _, field := range aliases.FieldNames() {
			score := similarity(p.Key, field)
			if score < fuzzyFloor {
				continue
			}
			score = applyCategoryPenalty(score, field, aliases, detectedCategory)
			if score >= fuzzyFloor && score > best[field] {
				best[field] = score
			}
		}
		for _, label := range aliases.Keys() {
			score := similarity(p.Key, label)
			if score < fuzzyFloor {
				continue
			}
			entry, _ := aliases.Lookup(label)
			score = applyCategoryPenalty(score, entry.TargetField, aliases, detectedCategory)
			if score >= fuzzyFloor && score > best[entry.TargetField] {
				best[entry.TargetField] = score
			}
		}

		if len(best) == 0 {
			continue
		}
		for field, score := range best {
			candidates[field] = append(candidates[field], model.FieldCandidate{
				Value:      p.Value,
				Confidence: score,
				SourceKey:  p.Key,
				LineIndex:  p.LineIndex,
			})
		}
		matched[i] = true
	}

	// Pass 3, reconciliation, per target field independently.
	resolved := make(map[string]model.ResolvedField, len(candidates))
	for field, cands := range candidates {
		resolved[field] = reconcile(field, cands)
	}

	var unmatched []model.RawPair
	for i, p := range pairs {
		if !matched[i] {
			unmatched = append(unmatched, p)
		}
	}

	zap.L().Debug("engine: resolution complete",
		zap.Int("pairs", len(pairs)),
		zap.Int("resolved", len(resolved)),
		zap.Int("unmatched", len(unmatched)),
	)
	return resolved, unmatched
}

func applyCategoryPenalty(score int, field string, aliases *AliasMap, detectedCategory string) int {
	if detectedCategory == "" {
		return score
	}
	fieldCat := aliases.FieldCategory(field)
	if fieldCat == "" || strings.EqualFold(fieldCat, detectedCategory) {
		return score
	}
	if _, shared := sharedFields[field]; shared {
		return score
	}
	return score - categoryMismatchPenalty
}

// reconcile sorts, dedups and merges the candidates for one field, flags
// near-tie conflicts, and attaches a range-validation warning when the
// chosen value looks implausible.
func reconcile(field string, cands []model.FieldCandidate) model.ResolvedField {
	// Confidence descending; line index breaks ties so the first-seen
	// candidate wins deterministically.
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Confidence != cands[j].Confidence {
			return cands[i].Confidence > cands[j].Confidence
		}
		return cands[i].LineIndex < cands[j].LineIndex
	})

	// Dedup by case-insensitive trimmed value.
	seen := make(map[string]struct{}, len(cands))
	deduped := cands[:0]
	for _, c := range cands {
		key := strings.ToLower(strings.TrimSpace(c.Value))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, c)
	}
	cands = deduped

	// Merge distinct direct-confidence candidates within tolerance.
	var merged *model.FieldCandidate
	var mergedCount int
	if len(cands) >= 2 &&
		cands[0].Confidence >= directMatchFloor && cands[1].Confidence >= directMatchFloor &&
		cands[0].Confidence-cands[1].Confidence <= mergeTolerance {
		values := []string{cands[0].Value}
		total := cands[0].Confidence
		n := 1
		for _, c := range cands[1:] {
			if c.Confidence < directMatchFloor || cands[0].Confidence-c.Confidence > mergeTolerance {
				break
			}
			values = append(values, c.Value)
			total += c.Confidence
			n++
		}
		merged = &model.FieldCandidate{
			Value:      strings.Join(values, ", "),
			Confidence: total / n,
			SourceKey:  cands[0].SourceKey,
			LineIndex:  cands[0].LineIndex,
		}
		mergedCount = n
	}

	// Conflict flag: top two distinct candidates both above the fuzzy
	// floor and within tolerance. Informational only.
	hasConflict := false
	if merged == nil && len(cands) >= 2 &&
		cands[0].Confidence >= fuzzyFloor && cands[1].Confidence >= fuzzyFloor &&
		cands[0].Confidence-cands[1].Confidence <= conflictTolerance {
		hasConflict = true
	}

	chosen := cands[0]
	if merged != nil {
		chosen = *merged
	} else {
		for _, c := range cands {
			if c.Confidence >= directMatchFloor {
				chosen = c
				break
			}
		}
	}

	var alternatives []model.FieldCandidate
	for _, c := range cands {
		if c.Value == chosen.Value && c.SourceKey == chosen.SourceKey {
			continue
		}
		alternatives = append(alternatives, c)
	}

	return model.ResolvedField{
		Value:             chosen.Value,
		Confidence:        clampScore(chosen.Confidence),
		SourceKey:         chosen.SourceKey,
		LineIndex:         chosen.LineIndex,
		Alternatives:      alternatives,
		MergedCount:       mergedCount,
		HasConflict:       hasConflict,
		ValidationWarning: validateValue(field, chosen.Value),
	}
}

// validationRule bounds the first number in a value for fields matched by
// the keyword, with an optional extra shape check.
type validationRule struct {
	keyword  string
	min, max float64
	unit     string
	check    func(value string) string
}

var firstNumberRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

var validationRules = []validationRule{
	{keyword: "pixel", min: 0.1, max: 400, unit: "MP"},
	{keyword: "aperture", min: 0.5, max: 64, check: checkAperture},
	{keyword: "weight", min: 0.1, max: 100000},
	{keyword: "iso", min: 25, max: 6553600},
	{keyword: "color temperature", min: 1000, max: 20000, unit: "K"},
	{keyword: "battery", min: 1, max: 100000},
	{keyword: "focal", min: 1, max: 2000, unit: "mm"},
	{keyword: "cri", min: 50, max: 100},
	{keyword: "beam angle", min: 1, max: 360},
	{keyword: "spl", min: 60, max: 200, unit: "dB"},
}

// validateValue returns a non-blocking warning when the value falls
// outside the per-field plausibility table. Empty string means plausible.
func validateValue(field, value string) string {
	lowerField := strings.ToLower(field)
	for _, rule := range validationRules {
		if !strings.Contains(lowerField, rule.keyword) {
			continue
		}
		if rule.check != nil {
			if w := rule.check(value); w != "" {
				return w
			}
		}
		m := firstNumberRe.FindString(value)
		if m == "" {
			return ""
		}
		n, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return ""
		}
		if n < rule.min || n > rule.max {
			unit := rule.unit
			if unit != "" {
				unit = " " + unit
			}
			return fmt.Sprintf("value %s outside plausible range %g–%g%s", m, rule.min, rule.max, unit)
		}
		return ""
	}
	return ""
}

var apertureShapeRe = regexp.MustCompile(`(?i)^(f/?)?\d+(\.\d+)?([-–]\d+(\.\d+)?)?$`)

func checkAperture(value string) string {
	v := strings.TrimSpace(value)
	if v == "" || apertureShapeRe.MatchString(v) {
		return ""
	}
	return "unrecognized aperture format"
}
