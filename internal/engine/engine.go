// Package engine converts unstructured product-specification text into
// structured records matching a caller-supplied field schema. The engine
// is synchronous and side-effect free: every call takes immutable inputs
// and returns a fresh result, so concurrent parses need no coordination.
package engine

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/specsheet-cli/internal/model"
)

// Options carries the optional per-call inputs.
type Options struct {
	// CrowdAliases is a read-only snapshot of community label mappings.
	CrowdAliases []model.CrowdAlias
	// CategoryHint overrides category detection when the caller already
	// knows what it is parsing.
	CategoryHint string
}

// PayloadOptions configures BuildApplyPayload.
type PayloadOptions struct {
	// NormalizeMetric converts imperial values to metric in the payload.
	NormalizeMetric bool
}

// batchConcurrency bounds the segment fan-out in ParseBatch.
const batchConcurrency = 4

// Parse runs the full pipeline over one product's text. Malformed or
// empty input yields an empty result, never an error.
func Parse(text string, schema model.FieldSchema, opts *Options) *model.ParseResult {
	if opts == nil {
		opts = &Options{}
	}

	normalized := NormalizeText(text)
	if normalized == "" {
		return model.EmptyParseResult()
	}

	lines := SplitLines(normalized)
	pairs, name := ExtractPairs(lines)

	price, priceNote := DetectPrice(pairs, normalized)
	brand := DetectBrand(name, normalized)
	category := DetectCategory(normalized)
	if opts.CategoryHint != "" {
		category = opts.CategoryHint
	}
	serial, modelNumber := DetectSerialModel(pairs)

	aliases := BuildAliasMap(schema, opts.CrowdAliases)
	fields, unmatched := Resolve(pairs, aliases, category)

	zap.L().Debug("engine: parse complete",
		zap.String("name", name),
		zap.String("category", category),
		zap.Int("fields", len(fields)),
		zap.Int("unmatched", len(unmatched)),
	)

	return &model.ParseResult{
		Name:           name,
		Brand:          brand,
		Category:       category,
		PurchasePrice:  price,
		PriceNote:      priceNote,
		SerialNumber:   serial,
		ModelNumber:    modelNumber,
		Fields:         fields,
		UnmatchedPairs: unmatched,
		RawExtracted:   pairs,
		SourceLines:    lines,
	}
}

// ParseBatch boundary-detects multi-product text and parses each segment.
// When fewer than two segments are found the whole input is parsed as a
// single product. Segments are independent, so they run in parallel.
func ParseBatch(ctx context.Context, text string, schema model.FieldSchema, opts *Options) []model.BatchItem {
	segments := DetectBoundaries(text)
	if len(segments) == 0 {
		result := Parse(text, schema, opts)
		lineCount := len(result.SourceLines)
		end := lineCount - 1
		if end < 0 {
			end = 0
		}
		return []model.BatchItem{{
			Segment: model.Segment{StartLine: 0, EndLine: end, Name: result.Name, Text: strings.TrimSpace(text)},
			Result:  result,
		}}
	}

	items := make([]model.BatchItem, len(segments))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, seg := range segments {
		i, seg := i, seg
		g.Go(func() error {
			result := Parse(seg.Text, schema, opts)
			if result.Name == "" && seg.Name != "" {
				result.Name = seg.Name
			}
			items[i] = model.BatchItem{Segment: seg, Result: result}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; parse failures are empty results

	return items
}

// BuildApplyPayload assembles the record a caller applies after reviewing
// a parse. Overrides win over resolved values; empty override values drop
// the field. Coercion always runs; unit conversion only with
// NormalizeMetric.
func BuildApplyPayload(result *model.ParseResult, overrides map[string]string, opts *PayloadOptions) *model.ApplyPayload {
	if opts == nil {
		opts = &PayloadOptions{}
	}
	payload := &model.ApplyPayload{Specs: map[string]string{}}
	if result == nil {
		return payload
	}

	payload.Name = result.Name
	payload.Brand = result.Brand
	payload.Category = result.Category
	payload.PurchasePrice = result.PurchasePrice
	payload.PriceNote = result.PriceNote
	payload.SerialNumber = result.SerialNumber
	payload.ModelNumber = result.ModelNumber

	for field, rf := range result.Fields {
		value := rf.Value
		if ov, ok := overrides[field]; ok {
			value = ov
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		value = CoerceValue(field, value)
		if opts.NormalizeMetric {
			if converted, ok := NormalizeUnits(value, true); ok {
				value = converted
			}
		}
		payload.Specs[field] = value
	}

	// Overrides for fields the parse never resolved still apply.
	for field, value := range overrides {
		if _, seen := payload.Specs[field]; seen {
			continue
		}
		if strings.TrimSpace(value) == "" {
			continue
		}
		payload.Specs[field] = CoerceValue(field, value)
	}

	return payload
}
