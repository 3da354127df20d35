package textsource

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeTestWorkbook(t *testing.T) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Specs")
	require.NoError(t, err)

	for _, row := range [][]string{
		{"Sensor Type", "Full-Frame CMOS"},
		{"Weight", "658 g"},
		{"Key Specifications"},
		{"Dimensions", "131 mm", "96 mm", "80 mm"},
	} {
		r := sheet.AddRow()
		for _, v := range row {
			r.AddCell().SetString(v)
		}
	}

	path := filepath.Join(t.TempDir(), "specs.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestXLSXSource_Supports(t *testing.T) {
	t.Parallel()
	src := NewXLSXSource()
	assert.True(t, src.Supports("specs.xlsx"))
	assert.True(t, src.Supports("SPECS.XLSX"))
	assert.False(t, src.Supports("specs.csv"))
}

func TestXLSXSource_Extract(t *testing.T) {
	t.Parallel()
	path := writeTestWorkbook(t)

	text, err := NewXLSXSource().Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Contains(t, text, "Sensor Type\tFull-Frame CMOS")
	assert.Contains(t, text, "Weight\t658 g")
	assert.Contains(t, text, "Key Specifications")
	assert.Contains(t, text, "Dimensions\t131 mm, 96 mm, 80 mm")
}

func TestXLSXSource_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := NewXLSXSource().Extract(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}
