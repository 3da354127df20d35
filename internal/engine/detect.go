package engine

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sells-group/specsheet-cli/internal/model"
)

// knownBrands is the photo/video/audio brand list used by name and brand
// detection. Matching is case-insensitive substring.
var knownBrands = []string{
	"Canon", "Nikon", "Sony", "Fujifilm", "Panasonic", "Olympus", "OM System",
	"Leica", "Hasselblad", "Pentax", "Ricoh", "Sigma", "Tamron", "Tokina",
	"Zeiss", "Voigtlander", "Samyang", "Rokinon", "Laowa", "Viltrox",
	"GoPro", "DJI", "Insta360", "Blackmagic", "RED", "ARRI", "Z CAM",
	"Godox", "Profoto", "Elinchrom", "Broncolor", "Westcott", "Aputure",
	"Nanlite", "Neewer", "Amaran", "Rode", "Shure", "Sennheiser",
	"Audio-Technica", "AKG", "Zoom", "Tascam", "Deity", "Saramonic",
	"Manfrotto", "Gitzo", "Benro", "Sachtler", "Zhiyun", "Moza",
	"Peak Design", "Lowepro", "Think Tank", "Pelican", "SmallRig", "Tilta",
	"SanDisk", "Lexar", "ProGrade", "Angelbird", "Atomos", "Sekonic",
}

// categoryKeywords drive keyword-count category scoring. The map iterates
// through categoryOrder so ties resolve to the first encountered category.
var categoryKeywords = map[string][]string{
	"Cameras":           {"camera", "dslr", "mirrorless", "camcorder", "sensor", "megapixel", "viewfinder", "shutter"},
	"Lenses":            {"lens", "focal", "aperture", "telephoto", "wide-angle", "prime lens", "zoom lens", "optical design"},
	"Audio":             {"microphone", "audio", "recorder", "phantom", "xlr", "polar pattern", "frequency response", "preamp"},
	"Lighting":          {"light", "flash", "strobe", "softbox", "lumen", "color temperature", "cri", "modifier"},
	"Tripods & Support": {"tripod", "monopod", "gimbal", "ball head", "fluid head", "stabilizer", "leg sections"},
	"Storage":           {"memory card", "card reader", "ssd", "write speed", "read speed", "uhs"},
	"Drones":            {"drone", "quadcopter", "flight time", "obstacle avoidance", "transmission range"},
	"Bags & Cases":      {"backpack", "shoulder bag", "sling", "hard case", "camera bag", "insert"},
}

var categoryOrder = []string{
	"Cameras", "Lenses", "Audio", "Lighting", "Tripods & Support",
	"Storage", "Drones", "Bags & Cases",
}

// priceLabelRanking orders price labels best-first; the first ranked pair
// with a parsable amount wins.
var priceLabelRanking = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^sale\s*price$`),
	regexp.MustCompile(`(?i)^street\s*price$`),
	regexp.MustCompile(`(?i)^map\s*price$`),
	regexp.MustCompile(`(?i)^price$`),
	regexp.MustCompile(`(?i)^msrp$`),
	regexp.MustCompile(`(?i)^list\s*price$`),
	regexp.MustCompile(`(?i)^rrp$`),
	regexp.MustCompile(`(?i)^retail\s*price$`),
	regexp.MustCompile(`(?i)^srp$`),
}

var (
	amountRe     = regexp.MustCompile(`([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
	currencyRe   = regexp.MustCompile(`([$€£¥])\s?([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
	priceRangeRe = regexp.MustCompile(`([$€£¥])\s?([0-9][0-9,]*(?:\.[0-9]{1,2})?)\s*[-–—]\s*[$€£¥]?\s?([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)

	serialKeyRe = regexp.MustCompile(`(?i)^(serial(\s*(number|no\.?|#))?|s\s*/\s*n|sn)$`)
	modelKeyRe  = regexp.MustCompile(`(?i)^(model(\s*(number|no\.?|#))?|sku|part\s*(number|no\.?)|item\s*(number|model)|mpn)$`)
)

var currencyNames = map[string]string{"€": "EUR", "£": "GBP", "¥": "JPY"}

// DetectPrice scans pairs for price-labeled keys, best label first, and
// falls back to scanning the whole text for a currency range and then a
// single amount.
func DetectPrice(pairs []model.RawPair, text string) (float64, string) {
	for _, re := range priceLabelRanking {
		for _, p := range pairs {
			if !re.MatchString(strings.TrimSpace(p.Key)) {
				continue
			}
			if amt, ok := parseAmount(p.Value); ok {
				return amt, ""
			}
		}
	}
	if m := priceRangeRe.FindStringSubmatch(text); m != nil {
		if amt, ok := parseAmount(m[2]); ok {
			return amt, "lower bound of listed price range"
		}
	}
	if m := currencyRe.FindStringSubmatch(text); m != nil {
		if amt, ok := parseAmount(m[2]); ok {
			if name, foreign := currencyNames[m[1]]; foreign {
				return amt, "detected currency " + name
			}
			return amt, ""
		}
	}
	return 0, ""
}

// parseAmount extracts the first currency amount in s, stripping thousands
// separators.
func parseAmount(s string) (float64, bool) {
	m := amountRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// DetectBrand checks the product name first, then the full text, against
// the known-brand list.
func DetectBrand(name, text string) string {
	lowerName := strings.ToLower(name)
	for _, b := range knownBrands {
		if strings.Contains(lowerName, strings.ToLower(b)) {
			return b
		}
	}
	lowerText := strings.ToLower(text)
	for _, b := range knownBrands {
		if strings.Contains(lowerText, strings.ToLower(b)) {
			return b
		}
	}
	return ""
}

// DetectCategory counts keyword occurrences per category over the
// lowercased text and returns the highest nonzero count. Ties go to the
// first category in categoryOrder.
func DetectCategory(text string) string {
	lower := strings.ToLower(text)
	best, bestCount := "", 0
	for _, cat := range categoryOrder {
		count := 0
		for _, kw := range categoryKeywords[cat] {
			count += strings.Count(lower, kw)
		}
		if count > bestCount {
			best, bestCount = cat, count
		}
	}
	return best
}

// DetectSerialModel scans pairs for serial-number and model/SKU label
// variants, keeping the first match of each.
func DetectSerialModel(pairs []model.RawPair) (serial, modelNumber string) {
	for _, p := range pairs {
		key := strings.TrimSpace(p.Key)
		if serial == "" && serialKeyRe.MatchString(key) {
			serial = strings.TrimSpace(p.Value)
		}
		if modelNumber == "" && modelKeyRe.MatchString(key) {
			modelNumber = strings.TrimSpace(p.Value)
		}
		if serial != "" && modelNumber != "" {
			break
		}
	}
	return serial, modelNumber
}
