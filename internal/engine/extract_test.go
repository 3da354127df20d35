package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPairs_Separators(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		line  string
		key   string
		value string
	}{
		{"tab", "Sensor Type\tFull-Frame CMOS", "Sensor Type", "Full-Frame CMOS"},
		{"colon", "Weight: 658 g", "Weight", "658 g"},
		{"pipe", "Mount Type | Canon RF", "Mount Type", "Canon RF"},
		{"equals", "Filter Diameter = 77mm", "Filter Diameter", "77mm"},
		{"arrow", "ISO Range -> 100-51200", "ISO Range", "100-51200"},
		{"hyphen", "Polar Pattern - Cardioid", "Polar Pattern", "Cardioid"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			pairs, _ := ExtractPairs([]string{tt.line})
			require.Len(t, pairs, 1)
			assert.Equal(t, tt.key, pairs[0].Key)
			assert.Equal(t, tt.value, pairs[0].Value)
			assert.Equal(t, 0, pairs[0].LineIndex)
		})
	}
}

func TestExtractPairs_TabOutranksColon(t *testing.T) {
	t.Parallel()
	pairs, _ := ExtractPairs([]string{"Aspect Ratio\t3:2"})
	require.Len(t, pairs, 1)
	assert.Equal(t, "Aspect Ratio", pairs[0].Key)
	assert.Equal(t, "3:2", pairs[0].Value)
}

func TestExtractPairs_NoiseLines(t *testing.T) {
	t.Parallel()
	lines := []string{
		"Add to cart: now",
		"Sign in | Register",
		"© 2026 Example Corp. All rights reserved.",
		"4.5 out of 5 stars",
		"Weight: 658 g",
	}
	pairs, _ := ExtractPairs(lines)
	require.Len(t, pairs, 1)
	assert.Equal(t, "Weight", pairs[0].Key)
}

func TestExtractPairs_RejectsURLValues(t *testing.T) {
	t.Parallel()
	pairs, _ := ExtractPairs([]string{"Manual: https://example.com/manual.pdf"})
	assert.Empty(t, pairs)
}

func TestExtractPairs_NameLabel(t *testing.T) {
	t.Parallel()
	pairs, name := ExtractPairs([]string{
		"Product Name: Canon EOS R5",
		"Weight: 738 g",
	})
	assert.Equal(t, "Canon EOS R5", name)
	require.Len(t, pairs, 1)
	assert.Equal(t, "Weight", pairs[0].Key)
}

func TestExtractPairs_BareProductNameFallback(t *testing.T) {
	t.Parallel()
	_, name := ExtractPairs([]string{
		"Sony A7 IV Mirrorless Camera",
		"Weight: 658 g",
	})
	assert.Equal(t, "Sony A7 IV Mirrorless Camera", name)
}

func TestExtractPairs_TwoLineHeuristic(t *testing.T) {
	t.Parallel()
	pairs, _ := ExtractPairs([]string{
		"Weight",
		"658 g",
		"Maximum Aperture",
		"f/1.8",
	})
	require.Len(t, pairs, 2)
	assert.Equal(t, "Weight", pairs[0].Key)
	assert.Equal(t, "658 g", pairs[0].Value)
	assert.Equal(t, "Maximum Aperture", pairs[1].Key)
	assert.Equal(t, "f/1.8", pairs[1].Value)
}

func TestExtractPairs_TwoLineRequiresValueShape(t *testing.T) {
	t.Parallel()
	// Two prose lines never pair up.
	pairs, _ := ExtractPairs([]string{
		"About this item",
		"A versatile lens for everyday shooting",
	})
	assert.Empty(t, pairs)
}

func TestExtractPairs_SkipsShortAndLongLines(t *testing.T) {
	t.Parallel()
	long := "Key: " + strings.Repeat("x", 400)
	pairs, _ := ExtractPairs([]string{"ab", long})
	assert.Empty(t, pairs)
}

func TestSplitLines(t *testing.T) {
	t.Parallel()
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\n\nb"))
}
