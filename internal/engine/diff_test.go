package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/specsheet-cli/internal/model"
)

func TestDiff_Statuses(t *testing.T) {
	t.Parallel()
	existing := map[string]string{
		"Weight":      "500 g",
		"Mount Type":  "Canon EF",
		"Sensor Type": "Full-Frame CMOS",
	}
	fields := map[string]model.ResolvedField{
		"Weight":           {Value: "658 g", Confidence: 100},
		"Sensor Type":      {Value: "full-frame cmos", Confidence: 100},
		"Effective Pixels": {Value: "45 MP", Confidence: 80},
	}

	entries := Diff(existing, fields)
	require.Len(t, entries, 4)

	byName := make(map[string]model.DiffEntry, len(entries))
	for _, e := range entries {
		byName[e.FieldName] = e
	}

	assert.Equal(t, model.DiffChanged, byName["Weight"].Status)
	assert.Equal(t, "500 g", byName["Weight"].OldValue)
	assert.Equal(t, "658 g", byName["Weight"].NewValue)
	assert.Equal(t, 100, byName["Weight"].Confidence)

	assert.Equal(t, model.DiffAdded, byName["Effective Pixels"].Status)
	assert.Equal(t, model.DiffRemoved, byName["Mount Type"].Status)
	// Comparison ignores case.
	assert.Equal(t, model.DiffUnchanged, byName["Sensor Type"].Status)
}

func TestDiff_GroupOrdering(t *testing.T) {
	t.Parallel()
	existing := map[string]string{"Removed": "x", "Changed": "old", "Same": "v"}
	fields := map[string]model.ResolvedField{
		"Changed": {Value: "new"},
		"Same":    {Value: "v"},
		"Added":   {Value: "y"},
	}

	entries := Diff(existing, fields)
	require.Len(t, entries, 4)
	assert.Equal(t, model.DiffChanged, entries[0].Status)
	assert.Equal(t, model.DiffAdded, entries[1].Status)
	assert.Equal(t, model.DiffUnchanged, entries[2].Status)
	assert.Equal(t, model.DiffRemoved, entries[3].Status)
}

func TestDiff_RoundTripIsAllUnchanged(t *testing.T) {
	t.Parallel()
	fields := map[string]model.ResolvedField{
		"Weight":      {Value: "658 g", Confidence: 100},
		"Sensor Type": {Value: "Full-Frame CMOS", Confidence: 100},
	}
	existing := make(map[string]string, len(fields))
	for name, f := range fields {
		existing[name] = f.Value
	}

	for _, e := range Diff(existing, fields) {
		assert.Equal(t, model.DiffUnchanged, e.Status, e.FieldName)
	}
}

func TestDiff_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Diff(nil, nil))
}
