package engine

import (
	"regexp"
	"strings"

	"github.com/sells-group/specsheet-cli/internal/model"
)

const (
	segmentMinLines = 2  // prior segment must span more than this many lines
	segmentMinChars = 20 // and more than this much trimmed content
)

var (
	horizontalRuleRe = regexp.MustCompile(`^\s*(?:-{3,}|_{3,}|\*{3,}|={3,})\s*$`)
	headingRe        = regexp.MustCompile(`^\s*#{1,6}\s+(.+)$`)
	productLabelRe   = regexp.MustCompile(`(?i)^(?:product|item|model)\s*(?:name)?\s*[:=→]\s*(.+)$`)
)

// brandLineRe matches a short line starting with a known brand, built once
// from the brand list.
var brandLineRe = func() *regexp.Regexp {
	escaped := make([]string, len(knownBrands))
	for i, b := range knownBrands {
		escaped[i] = regexp.QuoteMeta(b)
	}
	return regexp.MustCompile(`(?i)^(?:` + strings.Join(escaped, "|") + `)\b`)
}()

// DetectBoundaries splits multi-product input into segments. A boundary is
// only accepted when the segment it would close spans more than
// segmentMinLines lines and segmentMinChars characters of trimmed content;
// otherwise the candidate segment folds into the next one. Fewer than two
// segments means batch mode should not engage.
func DetectBoundaries(text string) []model.Segment {
	lines := SplitLines(NormalizeText(text))
	if len(lines) == 0 {
		return nil
	}

	var segments []model.Segment
	start := 0
	name := ""

	closeSegment := func(end int, nextName string) {
		body := strings.TrimSpace(strings.Join(lines[start:end], "\n"))
		if end-start > segmentMinLines && len(body) > segmentMinChars {
			segments = append(segments, model.Segment{
				StartLine: start,
				EndLine:   end - 1,
				Name:      name,
				Text:      body,
			})
			start = end
			name = nextName
			return
		}
		// Too small: fold into the next segment.
		if nextName != "" {
			name = nextName
		}
	}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		switch {
		case horizontalRuleRe.MatchString(line) && line != "":
			closeSegment(i, "")
			if start == i {
				start = i + 1 // the rule itself belongs to no segment
			}
		case headingRe.MatchString(line):
			closeSegment(i, strings.TrimSpace(headingRe.FindStringSubmatch(line)[1]))
		case productLabelRe.MatchString(line):
			closeSegment(i, strings.TrimSpace(productLabelRe.FindStringSubmatch(line)[1]))
		case len(line) > 0 && len(line) <= 60 && i > 0 && strings.TrimSpace(lines[i-1]) == "" && brandLineRe.MatchString(line):
			closeSegment(i, "")
		}
	}

	// Trailing segment, when it meets the floor.
	body := strings.TrimSpace(strings.Join(lines[start:], "\n"))
	if len(body) > segmentMinChars {
		segments = append(segments, model.Segment{
			StartLine: start,
			EndLine:   len(lines) - 1,
			Name:      name,
			Text:      body,
		})
	}

	if len(segments) < 2 {
		return nil
	}
	return segments
}
