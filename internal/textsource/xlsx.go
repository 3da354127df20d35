package textsource

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// XLSXSource extracts text from spreadsheet spec sheets. Each row becomes
// a `firstCell<TAB>rest,comma,joined` line, the same shape the normalizer
// produces for HTML table rows, so downstream extraction sees one format.
type XLSXSource struct{}

// NewXLSXSource creates an XLSXSource.
func NewXLSXSource() *XLSXSource { return &XLSXSource{} }

func (x *XLSXSource) Name() string { return "xlsx" }

func (x *XLSXSource) Supports(ref string) bool {
	return strings.HasSuffix(strings.ToLower(ref), ".xlsx")
}

// Extract reads every sheet, linearizing rows into tab-separated lines.
func (x *XLSXSource) Extract(ctx context.Context, ref string) (string, error) {
	f, err := xlsx.OpenFile(ref)
	if err != nil {
		return "", eris.Wrapf(err, "xlsx: open %s", ref)
	}

	var b strings.Builder
	for _, sheet := range f.Sheets {
		if ctx.Err() != nil {
			return "", eris.Wrap(ctx.Err(), "xlsx: extract")
		}
		for _, row := range sheet.Rows {
			var cells []string
			for _, cell := range row.Cells {
				v := strings.TrimSpace(cell.String())
				if v != "" {
					cells = append(cells, v)
				}
			}
			switch len(cells) {
			case 0:
			case 1:
				b.WriteString(cells[0])
				b.WriteByte('\n')
			default:
				b.WriteString(cells[0])
				b.WriteByte('\t')
				b.WriteString(strings.Join(cells[1:], ", "))
				b.WriteByte('\n')
			}
		}
		b.WriteByte('\n')
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", eris.Errorf("xlsx: no text in %s", ref)
	}
	return text, nil
}
