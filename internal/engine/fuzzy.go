package engine

import (
	"strings"
)

// abbreviations maps spec-sheet shorthand tokens to their expansions.
// Token-wise only: "max" expands, "maximal" does not.
var abbreviations = map[string]string{
	"mic":    "microphone",
	"max":    "maximum",
	"min":    "minimum",
	"res":    "resolution",
	"mp":     "megapixels",
	"fps":    "frames per second",
	"temp":   "temperature",
	"qty":    "quantity",
	"dia":    "diameter",
	"wt":     "weight",
	"dim":    "dimensions",
	"dims":   "dimensions",
	"pwr":    "power",
	"freq":   "frequency",
	"stab":   "stabilization",
	"af":     "autofocus",
	"mf":     "manual focus",
	"is":     "image stabilization",
	"evf":    "electronic viewfinder",
	"lcd":    "screen",
	"bat":    "battery",
	"batt":   "battery",
	"accs":   "accessories",
	"incl":   "included",
	"approx": "approximately",
	"spl":    "sound pressure level",
	"cct":    "color temperature",
	"hrs":    "hours",
	"sec":    "seconds",
	"mins":   "minutes",
	"no":     "number",
	"num":    "number",
}

// stopWords are ignored by token-overlap scoring.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "per": {},
	"of": {}, "in": {}, "to": {}, "a": {}, "an": {}, "or": {},
}

var dashReplacer = strings.NewReplacer("-", " ", "–", " ", "—", " ", "‐", " ", "_", " ")

// normalizeKey lowercases, folds dash variants to spaces, drops brackets
// and any character that is not a letter, digit, '/', '%', '.' or space,
// and collapses whitespace.
func normalizeKey(s string) string {
	s = strings.ToLower(s)
	s = dashReplacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '(' || r == ')' || r == '[' || r == ']' || r == '{' || r == '}':
			// dropped
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '/', r == '%', r == '.':
			b.WriteRune(r)
		case r == ' ' || r == '\t':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// expandAbbreviations replaces each token found in the abbreviation table
// with its expansion. Unmapped tokens pass through unchanged.
func expandAbbreviations(s string) string {
	tokens := strings.Fields(s)
	changed := false
	for i, t := range tokens {
		if exp, ok := abbreviations[t]; ok {
			tokens[i] = exp
			changed = true
		}
	}
	if !changed {
		return s
	}
	return strings.Join(tokens, " ")
}

// editDistance is the classic minimum edit distance (insert, delete,
// substitute at unit cost) over bytes, via two-row dynamic programming.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// similarity scores how strongly two labels refer to the same field,
// 0–100. The rule stack is ordered: exact, abbreviation-expanded exact,
// containment, token overlap, single shared word, short-string edit
// distance. First rule that applies wins.
func similarity(a, b string) int {
	na, nb := normalizeKey(a), normalizeKey(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return scoreExact
	}

	ea, eb := expandAbbreviations(na), expandAbbreviations(nb)
	if ea == eb {
		return scoreAliasExpansion
	}

	// Containment. Ratio is shorter/longer length; the direction where
	// the shorter string sits inside the longer scores from the higher
	// base.
	if len(ea) > 0 && len(eb) > 0 {
		shorter, longer := ea, eb
		fwd := true // shorter == a side
		if len(eb) < len(ea) {
			shorter, longer = eb, ea
			fwd = false
		}
		ratio := float64(len(shorter)) / float64(len(longer))
		if ratio > containMinRatio && strings.Contains(longer, shorter) {
			base := containBaseFwd
			if !fwd {
				base = containBaseRev
			}
			return clampScore(base + int(ratio*containSpan))
		}
	}

	// Token overlap over words of length > 2, stop-words excluded.
	ta, tb := overlapTokens(ea), overlapTokens(eb)
	if len(ta) > 0 && len(tb) > 0 {
		exact, near := 0, 0
		for _, x := range ta {
			for _, y := range tb {
				if x == y {
					exact++
					break
				}
				if len(x) >= 5 && len(y) >= 5 && editDistance(x, y) <= 1 {
					near++
					break
				}
			}
		}
		matches := exact + near
		ratio := float64(matches) / float64(maxInt(len(ta), len(tb)))
		if ratio >= tokenOverlapMin {
			score := tokenOverlapBase + int(ratio*tokenOverlapSpan)
			if exact > near {
				score += tokenExactBonus
			}
			return clampScore(score)
		}
		if matches == 1 {
			longest := 0
			for _, x := range ta {
				for _, y := range tb {
					if x == y && len(x) > longest {
						longest = len(x)
					}
				}
			}
			if longest >= 7 {
				return scoreSingleWordLong
			}
			if longest >= 5 {
				return scoreSingleWord
			}
		}
	}

	// Short-string edit distance fallback.
	if len(ea) <= editFallbackMaxLen && len(eb) <= editFallbackMaxLen {
		maxLen := maxInt(len(ea), len(eb))
		if maxLen > 0 {
			r := 1 - float64(editDistance(ea, eb))/float64(maxLen)
			if r >= editFallbackFloor {
				return clampScore(editFallbackBase + int(r*editFallbackSpan))
			}
		}
	}

	return 0
}

// overlapTokens returns the tokens of s that participate in overlap
// scoring: length > 2 and not a stop-word.
func overlapTokens(s string) []string {
	var out []string
	for _, t := range strings.Fields(s) {
		if len(t) <= 2 {
			continue
		}
		if _, stop := stopWords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

func minInt(ns ...int) int {
	m := ns[0]
	for _, n := range ns[1:] {
		if n < m {
			m = n
		}
	}
	return m
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
