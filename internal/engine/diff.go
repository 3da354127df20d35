package engine

import (
	"sort"
	"strings"

	"github.com/sells-group/specsheet-cli/internal/model"
)

// Diff compares a stored field-name→value mapping against a new parse's
// fields. Output is grouped changed, added, unchanged, removed; stable
// within each group.
func Diff(existing map[string]string, fields map[string]model.ResolvedField) []model.DiffEntry {
	names := make(map[string]struct{}, len(existing)+len(fields))
	for k := range existing {
		names[k] = struct{}{}
	}
	for k := range fields {
		names[k] = struct{}{}
	}

	ordered := make([]string, 0, len(names))
	for k := range names {
		ordered = append(ordered, k)
	}
	sort.Strings(ordered)

	var entries []model.DiffEntry
	for _, name := range ordered {
		oldVal := strings.TrimSpace(existing[name])
		var newVal string
		var confidence int
		if f, ok := fields[name]; ok {
			newVal = strings.TrimSpace(f.Value)
			confidence = f.Confidence
		}

		var status model.DiffStatus
		switch {
		case oldVal == "" && newVal != "":
			status = model.DiffAdded
		case oldVal != "" && newVal == "":
			status = model.DiffRemoved
		case oldVal != "" && !strings.EqualFold(oldVal, newVal):
			status = model.DiffChanged
		default:
			status = model.DiffUnchanged
		}

		entries = append(entries, model.DiffEntry{
			FieldName:  name,
			Status:     status,
			OldValue:   oldVal,
			NewValue:   newVal,
			Confidence: confidence,
		})
	}

	rank := map[model.DiffStatus]int{
		model.DiffChanged:   0,
		model.DiffAdded:     1,
		model.DiffUnchanged: 2,
		model.DiffRemoved:   3,
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return rank[entries[i].Status] < rank[entries[j].Status]
	})
	return entries
}
