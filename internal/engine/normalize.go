package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// The normalizer works the same way the scrape package strips pages:
// ordered regex passes, first structural conversions, then tag removal,
// then entity decoding, then whitespace cleanup. Ordering is load-bearing:
// definition lists and table rows must be linearized before the generic
// block rules erase their boundary markers.

var (
	commentRe  = regexp.MustCompile(`(?s)<!--.*?-->`)
	voidDropRe = regexp.MustCompile(`(?i)<(img|picture|source|track|input)\b[^>]*/?>`)

	dlPairRe    = regexp.MustCompile(`(?is)<dt[^>]*>(.*?)</dt>\s*<dd[^>]*>(.*?)</dd>`)
	tableRowRe  = regexp.MustCompile(`(?is)<tr[^>]*>(.*?)</tr>`)
	tableCellRe = regexp.MustCompile(`(?is)<t[dh][^>]*>(.*?)</t[dh]>`)

	lineBreakRe = regexp.MustCompile(`(?i)<(?:br|hr)\s*/?>|</(?:p|div|li|h[1-6]|section|article|blockquote|tr)>`)
	anyTagRe    = regexp.MustCompile(`<[^>]+>`)

	numEntityRe   = regexp.MustCompile(`&#(\d+);`)
	hexEntityRe   = regexp.MustCompile(`&#[xX]([0-9a-fA-F]+);`)
	namedEntityRe = regexp.MustCompile(`&[a-zA-Z][a-zA-Z0-9]*;`)

	multiTabRe    = regexp.MustCompile(`\t{2,}`)
	spaceAroundNL = regexp.MustCompile(`[ \t]*\r?\n[ \t]*`)
	multiBlankRe  = regexp.MustCompile(`\n{3,}`)
	multiSpaceRe  = regexp.MustCompile(` {2,}`)
)

// namedEntities are the standard named character references the parser
// decodes; any other named entity is dropped.
var namedEntities = map[string]string{
	"&amp;": "&", "&lt;": "<", "&gt;": ">", "&quot;": `"`, "&apos;": "'",
	"&nbsp;": " ", "&deg;": "°", "&times;": "×", "&divide;": "÷",
	"&frac12;": "½", "&frac14;": "¼", "&frac34;": "¾",
	"&trade;": "™", "&reg;": "®", "&copy;": "©",
	"&hellip;": "…", "&mdash;": "—", "&ndash;": "–", "&minus;": "−",
	"&lsquo;": "'", "&rsquo;": "'", "&ldquo;": "“", "&rdquo;": "”",
	"&bull;": "•", "&middot;": "·", "&plusmn;": "±", "&micro;": "µ",
	"&sup2;": "²", "&sup3;": "³", "&eacute;": "é", "&auml;": "ä",
	"&ouml;": "ö", "&uuml;": "ü", "&szlig;": "ß",
}

// NormalizeText strips markup from raw spec text, linearizing tables and
// definition lists into tab-separated lines. Never fails: empty input
// yields an empty string.
func NormalizeText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	s := raw

	s = commentRe.ReplaceAllString(s, "")
	s = dropBlocks(s)
	s = voidDropRe.ReplaceAllString(s, "")

	// Definition lists first: the dt/dd markers would be erased by the
	// generic line-break pass below.
	s = dlPairRe.ReplaceAllStringFunc(s, func(m string) string {
		g := dlPairRe.FindStringSubmatch(m)
		term := strings.TrimSpace(stripInline(g[1]))
		def := strings.TrimSpace(stripInline(g[2]))
		if term == "" || def == "" {
			return "\n" + term + def + "\n"
		}
		return "\n" + term + "\t" + def + "\n"
	})

	// Table rows: firstCell<TAB>rest,comma,joined. Single-cell rows
	// become bare lines.
	s = tableRowRe.ReplaceAllStringFunc(s, func(m string) string {
		g := tableRowRe.FindStringSubmatch(m)
		cells := tableCellRe.FindAllStringSubmatch(g[1], -1)
		var vals []string
		for _, c := range cells {
			v := strings.TrimSpace(stripInline(c[1]))
			if v != "" {
				vals = append(vals, v)
			}
		}
		switch len(vals) {
		case 0:
			return "\n"
		case 1:
			return "\n" + vals[0] + "\n"
		default:
			return "\n" + vals[0] + "\t" + strings.Join(vals[1:], ", ") + "\n"
		}
	})

	s = lineBreakRe.ReplaceAllString(s, "\n")
	s = anyTagRe.ReplaceAllString(s, "")
	s = decodeEntities(s)

	// Whitespace cleanup.
	s = multiTabRe.ReplaceAllString(s, "\t")
	s = spaceAroundNL.ReplaceAllString(s, "\n")
	s = multiBlankRe.ReplaceAllString(s, "\n\n")
	s = multiSpaceRe.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}

// dropBlocks removes non-text and navigation blocks together with their
// content. Done per tag because Go's regexp has no backreferences.
var dropTags = []string{
	"script", "style", "noscript", "svg", "video", "audio", "iframe",
	"object", "embed", "canvas", "nav", "footer", "form", "button", "select",
}

var dropBlockRes = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(dropTags))
	for i, tag := range dropTags {
		out[i] = regexp.MustCompile(`(?is)<` + tag + `\b[^>]*>.*?</` + tag + `>`)
	}
	return out
}()

func dropBlocks(s string) string {
	for _, re := range dropBlockRes {
		s = re.ReplaceAllString(s, "")
	}
	return s
}

// stripInline removes tags inside an already-captured cell or term so the
// tab delimiter lands between clean text.
func stripInline(s string) string {
	return anyTagRe.ReplaceAllString(s, "")
}

func decodeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	s = numEntityRe.ReplaceAllStringFunc(s, func(m string) string {
		n, err := strconv.Atoi(numEntityRe.FindStringSubmatch(m)[1])
		if err != nil || n <= 0 || n > 0x10FFFF {
			return ""
		}
		return string(rune(n))
	})
	s = hexEntityRe.ReplaceAllStringFunc(s, func(m string) string {
		n, err := strconv.ParseInt(hexEntityRe.FindStringSubmatch(m)[1], 16, 32)
		if err != nil || n <= 0 || n > 0x10FFFF {
			return ""
		}
		return string(rune(n))
	})
	s = namedEntityRe.ReplaceAllStringFunc(s, func(m string) string {
		if rep, ok := namedEntities[strings.ToLower(m)]; ok {
			return rep
		}
		return "" // unknown named entities are dropped
	})
	return s
}
