package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectBoundaries_Headings(t *testing.T) {
	t.Parallel()
	text := `# Canon EOS R5
Sensor Type: Full-Frame CMOS
Weight: 738 g
Battery Life: 320 shots
# Sony A7 IV
Sensor Type: Full-Frame CMOS
Weight: 658 g`

	segments := DetectBoundaries(text)
	require.Len(t, segments, 2)

	assert.Equal(t, "Canon EOS R5", segments[0].Name)
	assert.Equal(t, 0, segments[0].StartLine)
	assert.Contains(t, segments[0].Text, "738 g")

	assert.Equal(t, "Sony A7 IV", segments[1].Name)
	assert.Contains(t, segments[1].Text, "658 g")
	assert.Greater(t, segments[1].StartLine, segments[0].EndLine)
}

func TestDetectBoundaries_HorizontalRules(t *testing.T) {
	t.Parallel()
	text := `Sensor Type: Full-Frame CMOS
Weight: 738 g
ISO Range: 100-51200
---
Focal Length: 35mm
Maximum Aperture: f/1.8
Weight: 305 g`

	segments := DetectBoundaries(text)
	require.Len(t, segments, 2)
	assert.Contains(t, segments[0].Text, "738 g")
	assert.NotContains(t, segments[1].Text, "---")
	assert.Contains(t, segments[1].Text, "35mm")
}

func TestDetectBoundaries_ProductLabels(t *testing.T) {
	t.Parallel()
	text := `Product: Rode VideoMic Pro
Microphone Type: Shotgun
Polar Pattern: Supercardioid
Weight: 85 g
Product: Zoom H5
Microphone Type: XY Stereo
Weight: 270 g`

	segments := DetectBoundaries(text)
	require.Len(t, segments, 2)
	assert.Equal(t, "Rode VideoMic Pro", segments[0].Name)
	assert.Equal(t, "Zoom H5", segments[1].Name)
}

func TestDetectBoundaries_SmallSegmentFoldsForward(t *testing.T) {
	t.Parallel()
	// The first heading closes nothing; the tiny candidate folds into the
	// next segment rather than standing alone.
	text := `# Kit Contents
# Canon EOS R5
Sensor Type: Full-Frame CMOS
Weight: 738 g
Battery Life: 320 shots
# Sony A7 IV
Sensor Type: Full-Frame CMOS
Weight: 658 g
ISO Range: 100-51200`

	segments := DetectBoundaries(text)
	require.Len(t, segments, 2)
	assert.Equal(t, "Canon EOS R5", segments[0].Name)
	assert.Equal(t, "Sony A7 IV", segments[1].Name)
}

func TestDetectBoundaries_SingleProduct(t *testing.T) {
	t.Parallel()
	text := `Sensor Type: Full-Frame CMOS
Weight: 658 g
ISO Range: 100-51200`

	assert.Nil(t, DetectBoundaries(text))
}

func TestDetectBoundaries_Empty(t *testing.T) {
	t.Parallel()
	assert.Nil(t, DetectBoundaries(""))
	assert.Nil(t, DetectBoundaries("   \n  "))
}
