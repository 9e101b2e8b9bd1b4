package export

import (
	"github.com/firstat/fasttab/pkg/fasttab/models"
	"github.com/mattn/go-runewidth"
)

const (
	// minColumnWidth and maxColumnWidth bound auto-sized columns, in
	// characters of the default font.
	minColumnWidth = 8
	maxColumnWidth = 60
	// columnPadding is added to the widest rendered value.
	columnPadding = 2
)

// columnWidths sizes each column from the widest rendered value in it,
// header included. East Asian wide characters count double.
func columnWidths(sheet models.Sheet, columns int) []float64 {
	widest := make([]int, columns)
	for c, h := range sheet.Header {
		widest[c] = runewidth.StringWidth(h)
	}
	for _, row := range sheet.Rows {
		for c, v := range row {
			if w := runewidth.StringWidth(cellText(v)); w > widest[c] {
				widest[c] = w
			}
		}
	}

	widths := make([]float64, columns)
	for c, w := range widest {
		widths[c] = float64(min(max(w+columnPadding, minColumnWidth), maxColumnWidth))
	}
	return widths
}

// cellText renders a value the way Excel displays it.
func cellText(v models.Value) string {
	if b, ok := v.(bool); ok {
		if b {
			return "TRUE"
		}
		return "FALSE"
	}
	return models.FormatValue(v)
}
