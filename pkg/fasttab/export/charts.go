package export

import (
	"fmt"
	"strings"

	"github.com/firstat/fasttab/pkg/fasttab/models"
	"github.com/xuri/excelize/v2"
)

// chartTypes maps chart kinds to excelize chart types.
var chartTypes = map[models.ChartType]excelize.ChartType{
	models.ChartColumn: excelize.Col,
	models.ChartBar:    excelize.Bar,
	models.ChartPie:    excelize.Pie,
	models.ChartLine:   excelize.Line,
}

const (
	defaultChartWidth  = 480
	defaultChartHeight = 290
)

// buildChart describes a chart of column B against column A for body rows
// 2..rows+1 of the named sheet. It returns nil when there is nothing to plot.
func buildChart(sheetName, label string, cfg *models.Chart, rows, columns int) (*excelize.Chart, error) {
	if cfg == nil || rows == 0 || columns < 2 {
		return nil, nil
	}

	kind := cfg.Type
	if kind == "" {
		kind = models.ChartColumn
	}
	chartType, ok := chartTypes[kind]
	if !ok {
		return nil, fmt.Errorf("unsupported chart type %q", kind)
	}

	title := cfg.Title
	if title == "" {
		title = label
	}
	width, height := cfg.W, cfg.H
	if width <= 0 {
		width = defaultChartWidth
	}
	if height <= 0 {
		height = defaultChartHeight
	}

	ref := quoteSheetName(sheetName)
	last := rows + 1
	return &excelize.Chart{
		Type: chartType,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("%s!$B$1", ref),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", ref, last),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", ref, last),
			},
		},
		Title:     []excelize.RichTextRun{{Text: title}},
		Legend:    excelize.ChartLegend{Position: "none"},
		Dimension: excelize.ChartDimension{Width: uint(width), Height: uint(height)},
	}, nil
}

// quoteSheetName quotes a sheet name for use in a range reference.
func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
