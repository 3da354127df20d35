package model

// RawPair is one candidate (key, value) extracted from a cleaned line.
// Transient: produced by extraction, consumed by resolution.
type RawPair struct {
	Key        string `json:"key"`
	Value      string `json:"value"`
	SourceLine string `json:"source_line"`
	LineIndex  int    `json:"line_index"`
}

// FieldCandidate is one hypothesis for a target field's value.
type FieldCandidate struct {
	Value      string `json:"value"`
	Confidence int    `json:"confidence"`
	SourceKey  string `json:"source_key"`
	LineIndex  int    `json:"line_index"`
}

// ResolvedField is the reconciled best candidate for a target field,
// carrying the losing candidates as alternatives.
type ResolvedField struct {
	Value             string           `json:"value"`
	Confidence        int              `json:"confidence"`
	SourceKey         string           `json:"source_key"`
	LineIndex         int              `json:"line_index"`
	Alternatives      []FieldCandidate `json:"alternatives,omitempty"`
	MergedCount       int              `json:"merged_count,omitempty"`
	HasConflict       bool             `json:"has_conflict,omitempty"`
	ValidationWarning string           `json:"validation_warning,omitempty"`
}

// ParseResult is the full outcome of one parse call. Immutable once
// returned; Fields holds at most one entry per target field name.
type ParseResult struct {
	Name           string                   `json:"name,omitempty"`
	Brand          string                   `json:"brand,omitempty"`
	Category       string                   `json:"category,omitempty"`
	PurchasePrice  float64                  `json:"purchase_price,omitempty"`
	PriceNote      string                   `json:"price_note,omitempty"`
	SerialNumber   string                   `json:"serial_number,omitempty"`
	ModelNumber    string                   `json:"model_number,omitempty"`
	Fields         map[string]ResolvedField `json:"fields"`
	UnmatchedPairs []RawPair                `json:"unmatched_pairs,omitempty"`
	RawExtracted   []RawPair                `json:"raw_extracted,omitempty"`
	SourceLines    []string                 `json:"source_lines,omitempty"`
}

// EmptyParseResult returns the neutral result used for malformed input.
func EmptyParseResult() *ParseResult {
	return &ParseResult{Fields: map[string]ResolvedField{}}
}

// Segment is a detected sub-range of multi-product input. Segments are
// non-overlapping; each spans more than 20 characters of content.
type Segment struct {
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Name      string `json:"name,omitempty"`
	Text      string `json:"text"`
}

// BatchItem pairs a detected segment with its parse result.
type BatchItem struct {
	Segment Segment      `json:"segment"`
	Result  *ParseResult `json:"result"`
}

// DiffStatus classifies one field in a diff.
type DiffStatus string

const (
	DiffAdded     DiffStatus = "added"
	DiffChanged   DiffStatus = "changed"
	DiffRemoved   DiffStatus = "removed"
	DiffUnchanged DiffStatus = "unchanged"
)

// DiffEntry is the comparison outcome for one field name.
type DiffEntry struct {
	FieldName  string     `json:"field_name"`
	Status     DiffStatus `json:"status"`
	OldValue   string     `json:"old_value,omitempty"`
	NewValue   string     `json:"new_value,omitempty"`
	Confidence int        `json:"confidence,omitempty"`
}

// CrowdAlias is a label→field mapping previously confirmed by users
// elsewhere, with a usage count. Read-only to the engine.
type CrowdAlias struct {
	SourceKey   string `json:"source_key"`
	TargetField string `json:"target_field"`
	UsageCount  int    `json:"usage_count"`
}

// ApplyPayload is the shape handed back to the caller once it accepts a
// parse: header facts plus the accepted spec values.
type ApplyPayload struct {
	Name          string            `json:"name,omitempty"`
	Brand         string            `json:"brand,omitempty"`
	Category      string            `json:"category,omitempty"`
	PurchasePrice float64           `json:"purchase_price,omitempty"`
	PriceNote     string            `json:"price_note,omitempty"`
	SerialNumber  string            `json:"serial_number,omitempty"`
	ModelNumber   string            `json:"model_number,omitempty"`
	Specs         map[string]string `json:"specs"`
}
