package models

// OptionCount pairs a normalized multi-choice option with its count.
type OptionCount struct {
	// Option is the trimmed, lower-cased option text. Never empty.
	Option string `json:"option"`
	// Count is the number of times the option was selected.
	Count int `json:"count"`
}

// OptionCounts is the multi-choice tabulation of a single column.
type OptionCounts struct {
	// Column is the source column name.
	Column string `json:"column"`
	// Options is ordered by descending count, ties in first-seen order.
	Options []OptionCount `json:"options"`
	// Responses is the number of non-missing cells processed.
	Responses int `json:"responses"`
}

// Map returns the counts keyed by option.
func (o *OptionCounts) Map() map[string]int {
	m := make(map[string]int, len(o.Options))
	for _, oc := range o.Options {
		m[oc.Option] = oc.Count
	}
	return m
}
