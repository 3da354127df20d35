package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/specsheet-cli/internal/model"
)

func TestBuildAliasMap_ExactFieldNames(t *testing.T) {
	t.Parallel()
	m := BuildAliasMap(model.DefaultSchema(), nil)

	entry, ok := m.Lookup("sensor type")
	require.True(t, ok)
	assert.Equal(t, "Sensor Type", entry.TargetField)
	assert.Equal(t, priExactName, entry.Priority)
	assert.Equal(t, "Cameras", entry.Category)
}

func TestBuildAliasMap_ExpandedFieldNames(t *testing.T) {
	t.Parallel()
	m := BuildAliasMap(model.DefaultSchema(), nil)

	// "Maximum SPL" expands token-wise to its long form.
	entry, ok := m.Lookup("maximum sound pressure level")
	require.True(t, ok)
	assert.Equal(t, "Maximum SPL", entry.TargetField)
	assert.Equal(t, priExpandedName, entry.Priority)
}

func TestBuildAliasMap_StaticAliases(t *testing.T) {
	t.Parallel()
	m := BuildAliasMap(model.DefaultSchema(), nil)

	entry, ok := m.Lookup("megapixels")
	require.True(t, ok)
	assert.Equal(t, "Effective Pixels", entry.TargetField)
	assert.Equal(t, priStaticAlias, entry.Priority)

	entry, ok = m.Lookup("ibis")
	require.True(t, ok)
	assert.Equal(t, "Image Stabilization", entry.TargetField)
}

func TestBuildAliasMap_FieldWordAliases(t *testing.T) {
	t.Parallel()
	m := BuildAliasMap(model.DefaultSchema(), nil)

	// "effective" comes only from the field-name word pass.
	entry, ok := m.Lookup("effective")
	require.True(t, ok)
	assert.Equal(t, "Effective Pixels", entry.TargetField)
	assert.Equal(t, priFieldWord, entry.Priority)

	// Generic words never become single-word aliases.
	_, ok = m.Lookup("type")
	assert.False(t, ok)
}

func TestBuildAliasMap_StaticOutranksFieldWord(t *testing.T) {
	t.Parallel()
	m := BuildAliasMap(model.DefaultSchema(), nil)

	// "aperture" is both a field-name word and a static alias; the static
	// priority wins.
	entry, ok := m.Lookup("aperture")
	require.True(t, ok)
	assert.Equal(t, "Maximum Aperture", entry.TargetField)
	assert.Equal(t, priStaticAlias, entry.Priority)
}

func TestBuildAliasMap_CrowdAliases(t *testing.T) {
	t.Parallel()
	crowd := []model.CrowdAlias{
		{SourceKey: "px count", TargetField: "Effective Pixels", UsageCount: 10},
		{SourceKey: "megapixels", TargetField: "Weight", UsageCount: 50}, // existing entry, skipped
		{SourceKey: "mystery", TargetField: "No Such Field", UsageCount: 5},
	}
	m := BuildAliasMap(model.DefaultSchema(), crowd)

	entry, ok := m.Lookup("px count")
	require.True(t, ok)
	assert.Equal(t, "Effective Pixels", entry.TargetField)
	assert.Equal(t, 70, entry.Priority)

	// Crowd never overwrites existing entries.
	entry, ok = m.Lookup("megapixels")
	require.True(t, ok)
	assert.Equal(t, "Effective Pixels", entry.TargetField)

	// Unknown target fields are dropped.
	_, ok = m.Lookup("mystery")
	assert.False(t, ok)
}

func TestCrowdPriority(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		uses  int
		score int
	}{
		{"low usage scores below base", 1, 57},
		{"base at three uses", 3, 60},
		{"scales with usage", 10, 70},
		{"capped at ninety", 100, 90},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.score, crowdPriority(tt.uses))
		})
	}
}

func TestAliasMap_FieldNamesAndCategories(t *testing.T) {
	t.Parallel()
	m := BuildAliasMap(model.DefaultSchema(), nil)

	names := m.FieldNames()
	assert.Contains(t, names, "Sensor Type")
	assert.Contains(t, names, "Polar Pattern")

	// Weight appears in several categories but is listed once, under the
	// first category that declares it.
	count := 0
	for _, n := range names {
		if n == "Weight" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	assert.Equal(t, "Cameras", m.FieldCategory("Sensor Type"))
	assert.Equal(t, "Audio", m.FieldCategory("Polar Pattern"))
	assert.Equal(t, "", m.FieldCategory("No Such Field"))
}

func TestLoadAliasDictionary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Sensor Type:\n  - chip format\n"), 0o644))

	require.NoError(t, LoadAliasDictionary(path))

	m := BuildAliasMap(model.DefaultSchema(), nil)
	entry, ok := m.Lookup("chip format")
	require.True(t, ok)
	assert.Equal(t, "Sensor Type", entry.TargetField)
}

func TestLoadAliasDictionary_MissingFile(t *testing.T) {
	t.Parallel()
	err := LoadAliasDictionary(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
