package engine

import (
	"math"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/specsheet-cli/internal/model"
)

// AliasEntry maps one normalized label to a target field at a priority.
type AliasEntry struct {
	TargetField string
	Priority    int
	Category    string
}

// AliasMap is the lookup built fresh per parse from the schema, the static
// alias dictionary, and any crowd aliases. It is a plain value: the
// resolver receives it explicitly, there is no process-wide cache.
type AliasMap struct {
	entries       map[string]AliasEntry
	fieldNames    []string
	fieldCategory map[string]string
}

// Lookup returns the entry for an already-normalized label.
func (m *AliasMap) Lookup(normalized string) (AliasEntry, bool) {
	e, ok := m.entries[normalized]
	return e, ok
}

// FieldNames returns every target field name in schema order.
func (m *AliasMap) FieldNames() []string { return m.fieldNames }

// FieldCategory returns the category a target field belongs to.
func (m *AliasMap) FieldCategory(field string) string { return m.fieldCategory[field] }

// Keys returns every registered label, for fuzzy scanning.
func (m *AliasMap) Keys() []string {
	out := make([]string, 0, len(m.entries))
	for k := range m.entries {
		out = append(out, k)
	}
	return out
}

// Len reports the number of registered labels.
func (m *AliasMap) Len() int { return len(m.entries) }

// genericWords are field-name words too common to act as single-word
// aliases on their own.
var genericWords = map[string]struct{}{
	"type": {}, "range": {}, "size": {}, "speed": {}, "number": {},
	"maximum": {}, "minimum": {}, "rating": {}, "level": {}, "mode": {},
	"system": {}, "count": {}, "points": {}, "media": {}, "control": {},
}

// commonAliases is the static dictionary of known label variants, keyed by
// the canonical field name they resolve to. Entries whose canonical field
// is absent from the schema are skipped at build time.
var commonAliases = map[string][]string{
	"Effective Pixels":       {"megapixels", "mp", "resolution", "effective megapixels", "pixel count", "total pixels"},
	"Sensor Type":            {"sensor", "image sensor", "imaging sensor", "sensor format", "sensor size"},
	"Maximum Aperture":       {"max aperture", "aperture", "f-stop", "f stop", "fastest aperture"},
	"Minimum Aperture":       {"min aperture", "smallest aperture"},
	"Focal Length":           {"focal range", "zoom range", "focal length range"},
	"Mount Type":             {"mount", "lens mount", "mounting"},
	"Filter Diameter":        {"filter size", "filter thread", "filter ring"},
	"Minimum Focus Distance": {"close focus", "closest focusing distance", "mfd"},
	"ISO Range":              {"iso", "iso sensitivity", "sensitivity range", "native iso"},
	"Shutter Speed":          {"shutter", "shutter range", "shutter speed range"},
	"Video Resolution":       {"video", "max video resolution", "movie resolution", "video recording"},
	"Autofocus Points":       {"af points", "focus points", "autofocus system"},
	"Image Stabilization":    {"stabilization", "ibis", "vibration reduction", "optical stabilization", "steadyshot"},
	"Screen Size":            {"lcd", "display", "monitor", "lcd size", "screen", "display size"},
	"Storage Media":          {"memory card", "card slot", "media", "storage", "recording media"},
	"Battery Life":           {"battery", "runtime", "operating time", "playback time", "shots per charge"},
	"Weather Sealing":        {"weather resistant", "weatherproof", "environmental sealing", "dust and moisture resistance"},
	"Connectivity":           {"ports", "interfaces", "connections", "i/o", "wireless"},
	"Microphone Type":        {"mic type", "transducer", "capsule", "element"},
	"Polar Pattern":          {"pickup pattern", "directionality", "directional pattern"},
	"Frequency Response":     {"freq response", "frequency range", "audio frequency range"},
	"Phantom Power":          {"48v", "phantom", "power requirements"},
	"Maximum SPL":            {"max spl", "spl handling", "sound pressure level"},
	"Connector Type":         {"connector", "output connector", "termination"},
	"Power Output":           {"wattage", "output power", "power", "max output"},
	"Color Temperature":      {"color temp", "kelvin range", "cct", "white balance range"},
	"CRI":                    {"color rendering index", "color accuracy", "tlci"},
	"Beam Angle":             {"beam spread", "coverage angle"},
	"Wireless Control":       {"remote control", "app control", "dmx"},
	"Weight":                 {"item weight", "net weight", "product weight", "weighs", "mass"},
	"Dimensions":             {"size", "product dimensions", "measurements", "dims", "w x h x d"},
}

// BuildAliasMap constructs the label lookup for one parse. Registration
// order matters; see the per-step priority rules below.
func BuildAliasMap(schema model.FieldSchema, crowd []model.CrowdAlias) *AliasMap {
	m := &AliasMap{
		entries:       make(map[string]AliasEntry),
		fieldCategory: make(map[string]string),
	}

	all := schema.AllFields()

	// Step 1+2: exact normalized field names at 100, abbreviation-expanded
	// forms (when they differ) at 98.
	for _, cf := range all {
		name := cf.Field.Name
		if _, seen := m.fieldCategory[name]; !seen {
			m.fieldNames = append(m.fieldNames, name)
			m.fieldCategory[name] = cf.Category
		}
		norm := normalizeKey(name)
		if norm == "" {
			continue
		}
		m.register(norm, AliasEntry{TargetField: name, Priority: priExactName, Category: cf.Category})
		if exp := expandAbbreviations(norm); exp != norm {
			m.register(exp, AliasEntry{TargetField: name, Priority: priExpandedName, Category: cf.Category})
		}
	}

	// Step 3: individual words of multi-word names, length >= 5, skipping
	// generic fillers. First registration at or above priFieldWord wins.
	for _, cf := range all {
		norm := normalizeKey(cf.Field.Name)
		words := strings.Fields(norm)
		if len(words) < 2 {
			continue
		}
		for _, w := range words {
			if len(w) < 5 {
				continue
			}
			if _, generic := genericWords[w]; generic {
				continue
			}
			if existing, ok := m.entries[w]; ok && existing.Priority >= priFieldWord {
				continue
			}
			m.entries[w] = AliasEntry{TargetField: cf.Field.Name, Priority: priFieldWord, Category: cf.Category}
		}
	}

	// Step 4: static dictionary. Canonical labels not present in the
	// schema are skipped.
	for canonical, aliases := range commonAliases {
		entry, ok := m.entries[normalizeKey(canonical)]
		if !ok {
			continue
		}
		for _, alias := range aliases {
			norm := normalizeKey(alias)
			if norm == "" {
				continue
			}
			if existing, ok := m.entries[norm]; !ok || existing.Priority < priStaticAlias {
				m.entries[norm] = AliasEntry{TargetField: entry.TargetField, Priority: priStaticAlias, Category: entry.Category}
			}
			if exp := expandAbbreviations(norm); exp != norm {
				if existing, ok := m.entries[exp]; !ok || existing.Priority < priStaticExp {
					m.entries[exp] = AliasEntry{TargetField: entry.TargetField, Priority: priStaticExp, Category: entry.Category}
				}
			}
		}
	}

	// Step 5: crowd aliases never overwrite existing entries.
	for _, ca := range crowd {
		norm := normalizeKey(ca.SourceKey)
		if norm == "" || ca.TargetField == "" {
			continue
		}
		if _, exists := m.entries[norm]; exists {
			continue
		}
		if _, known := m.fieldCategory[ca.TargetField]; !known {
			continue
		}
		m.entries[norm] = AliasEntry{
			TargetField: ca.TargetField,
			Priority:    crowdPriority(ca.UsageCount),
			Category:    m.fieldCategory[ca.TargetField],
		}
	}

	return m
}

// register inserts an entry, keeping an existing one when it outranks the
// newcomer.
func (m *AliasMap) register(key string, e AliasEntry) {
	if existing, ok := m.entries[key]; ok && existing.Priority > e.Priority {
		return
	}
	m.entries[key] = e
}

// crowdPriority scales a crowd alias's priority with its usage count:
// min(cap, base + floor((uses-3) * 1.5)).
func crowdPriority(usageCount int) int {
	p := crowdBase + int(math.Floor(float64(usageCount-3)*1.5))
	if p > crowdCap {
		return crowdCap
	}
	if p < 0 {
		return 0
	}
	return p
}

// LoadAliasDictionary merges a YAML file of canonical-field → aliases into
// the static dictionary for this process. Used by the CLI's --aliases flag.
func LoadAliasDictionary(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "engine: read alias dictionary %s", path)
	}
	var extra map[string][]string
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return eris.Wrapf(err, "engine: parse alias dictionary %s", path)
	}
	for canonical, aliases := range extra {
		commonAliases[canonical] = append(commonAliases[canonical], aliases...)
	}
	return nil
}
