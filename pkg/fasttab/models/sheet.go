package models

// Sheet is a result table ready for export: a label, a header row and body
// rows. Cell values follow the Value conventions.
type Sheet struct {
	// Label is the requested sheet name before any format limits apply.
	Label string `json:"label"`
	// Header contains the column titles.
	Header []string `json:"header"`
	// Rows contains the body rows.
	Rows [][]Value `json:"rows"`
	// Chart, when set, requests a chart of the counts column.
	Chart *Chart `json:"chart,omitempty"`
}
