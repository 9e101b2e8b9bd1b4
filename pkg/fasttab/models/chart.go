package models

import "strings"

// ChartType names a chart kind the exporter can draw.
type ChartType string

const (
	// ChartColumn is a clustered column chart.
	ChartColumn ChartType = "Column"
	// ChartBar is a clustered horizontal bar chart.
	ChartBar ChartType = "Bar"
	// ChartPie is a pie chart.
	ChartPie ChartType = "Pie"
	// ChartLine is a line chart.
	ChartLine ChartType = "Line"
)

// ChartTypes lists the supported chart kinds.
var ChartTypes = []ChartType{ChartColumn, ChartBar, ChartPie, ChartLine}

// ParseChartType resolves a chart kind name case-insensitively.
func ParseChartType(name string) (ChartType, bool) {
	for _, t := range ChartTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(name)) {
			return t, true
		}
	}
	return "", false
}

// Chart describes a chart of a sheet's second column (the counts) against
// its first column (the categories). It is placed to the right of the data.
type Chart struct {
	// Type is the chart kind. Empty means ChartColumn.
	Type ChartType `json:"type,omitempty"`
	// Title is the chart title. Empty means the sheet label.
	Title string `json:"title,omitempty"`
	// W is the chart width in pixels (0 for the default).
	W int `json:"w,omitempty"`
	// H is the chart height in pixels (0 for the default).
	H int `json:"h,omitempty"`
}
