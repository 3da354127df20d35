package engine

import (
	"regexp"
	"strings"

	"github.com/sells-group/specsheet-cli/internal/model"
)

// Separator patterns, tried in fixed priority order. First match with a
// valid key and value wins; the ordering is load-bearing.
type separatorPattern struct {
	name string
	re   *regexp.Regexp
}

var separatorPatterns = []separatorPattern{
	{"tab", regexp.MustCompile(`^([^\t]+)\t+(.+)$`)},
	{"colon", regexp.MustCompile(`^([^:]{2,60}?)\s*:\s*(.+)$`)},
	{"pipe", regexp.MustCompile(`^([^|]{2,60}?)\s*\|\s*(.+)$`)},
	{"equals", regexp.MustCompile(`^([^=]{2,60}?)\s*=\s*(.+)$`)},
	{"arrow", regexp.MustCompile(`^(.{2,60}?)\s*(?:->|=>|→)\s*(.+)$`)},
	{"hyphen", regexp.MustCompile(`^([A-Za-z][^-–—]{1,50}?)\s+[-–—]\s+(.+)$`)},
}

// noisePatterns reject boilerplate lines before any pair extraction runs.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(home|shop|cart|checkout|sign ?in|log ?in|sign ?up|register|my account|search|menu|wish ?list|compare)\b`),
	regexp.MustCompile(`(?i)(copyright|all rights reserved|privacy policy|terms (of|and) |cookie policy|©)`),
	regexp.MustCompile(`(?i)^(add to (cart|bag|basket)|buy now|in stock|out of stock|free shipping|ships (in|within)|sold out)\b`),
	regexp.MustCompile(`(?i)^(share|tweet|pin it|follow us|like us|facebook|instagram|twitter|youtube|linkedin)\b`),
	regexp.MustCompile(`(?i)^\d+(\.\d+)?\s*(out of|/)\s*5`),
	regexp.MustCompile(`(?i)^(customer )?(reviews?|ratings?|q\s?&\s?a|questions( & answers)?)$`),
	regexp.MustCompile(`(?i)^(skip to|back to top|view (all|more)|read more|learn more|show (all|more))\b`),
	regexp.MustCompile(`^\d+$`),        // bare numbers
	regexp.MustCompile(`^[A-Z]{2,6}$`), // all-caps short tokens
	regexp.MustCompile(`^\[[^\]]*\]$`), // bracketed placeholders
}

var (
	nameLabelRe = regexp.MustCompile(`(?i)^(product\s*(name|title)|item\s*name|model\s*name|name|title)$`)
	urlValueRe  = regexp.MustCompile(`(?i)^(https?|ftp)://`)

	// Two-line heuristic shapes.
	bareLabelRe  = regexp.MustCompile(`^[A-Za-z][^:|=\t]{2,49}$`)
	unitTokenRe  = regexp.MustCompile(`(?i)\b(mm|cm|m|in(ch(es)?)?|ft|g|kg|lbs?|oz|mp|mah|wh|hz|khz|ghz|db|fps|iso|lux|lumens?|stops?|°?[cf]|k)\b`)
	apertureRe   = regexp.MustCompile(`(?i)^f/?\d`)
	modelCodeRe  = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{2,}$`)
	digitStartRe = regexp.MustCompile(`^\d`)
)

// categoryNameKeywords let a bare line qualify as a product name when no
// labeled name was found.
var categoryNameKeywords = []string{
	"camera", "lens", "microphone", "recorder", "flash", "strobe", "light",
	"tripod", "gimbal", "drone", "monitor", "kit", "body", "speedlight",
}

// ExtractPairs walks the trimmed non-empty lines of normalized text and
// returns candidate pairs plus a best-guess product name. Line indexes are
// preserved for source highlighting and tie-breaking.
func ExtractPairs(lines []string) ([]model.RawPair, string) {
	var pairs []model.RawPair
	var name string

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if len(line) < 3 || len(line) > 300 || isNoise(line) {
			continue
		}

		// Heading lines carry no pairs but often name the product.
		if m := headingRe.FindStringSubmatch(line); m != nil {
			if h := strings.TrimSpace(m[1]); name == "" && looksLikeProductName(h) {
				name = h
			}
			continue
		}

		if key, value, ok := splitPair(line); ok {
			if name == "" && nameLabelRe.MatchString(strings.TrimSpace(key)) {
				name = value
				continue
			}
			pairs = append(pairs, model.RawPair{
				Key:        key,
				Value:      value,
				SourceLine: line,
				LineIndex:  i,
			})
			continue
		}

		// Two-line heuristic: bare label followed by a bare value. Lines
		// that split into a pair themselves never act as the value.
		if i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if _, _, isPair := splitPair(next); !isPair &&
				looksLikeBareLabel(line) && looksLikeBareValue(next) {
				pairs = append(pairs, model.RawPair{
					Key:        line,
					Value:      next,
					SourceLine: line + " / " + next,
					LineIndex:  i,
				})
				i++ // consume the value line too
				continue
			}
		}

		if name == "" && looksLikeProductName(line) {
			name = line
		}
	}

	return pairs, name
}

func isNoise(line string) bool {
	for _, re := range noisePatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// splitPair tries the separator patterns in order and validates the match:
// key at least 2 chars, value 1–200 chars and not a bare URL.
func splitPair(line string) (key, value string, ok bool) {
	for _, p := range separatorPatterns {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		k := strings.TrimSpace(m[1])
		v := strings.TrimSpace(m[2])
		if len(k) < 2 || v == "" || len(v) > 200 || urlValueRe.MatchString(v) {
			continue
		}
		return k, v, true
	}
	return "", "", false
}

func looksLikeBareLabel(line string) bool {
	if digitStartRe.MatchString(line) {
		return false
	}
	return bareLabelRe.MatchString(line)
}

func looksLikeBareValue(line string) bool {
	if line == "" || len(line) > 200 {
		return false
	}
	return digitStartRe.MatchString(line) ||
		unitTokenRe.MatchString(line) ||
		apertureRe.MatchString(line) ||
		modelCodeRe.MatchString(line)
}

// looksLikeProductName accepts an unmatched line as the product name when
// it carries a known brand or a category keyword.
func looksLikeProductName(line string) bool {
	if len(line) < 5 || len(line) > 120 {
		return false
	}
	lower := strings.ToLower(line)
	for _, b := range knownBrands {
		if strings.Contains(lower, strings.ToLower(b)) {
			return true
		}
	}
	for _, kw := range categoryNameKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// SplitLines breaks normalized text into lines without trimming blanks
// away from the index space; callers keep indexes aligned to this slice.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
