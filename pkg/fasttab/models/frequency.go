package models

// ValueCount pairs a distinct value with its number of occurrences.
type ValueCount struct {
	// Value is the distinct cell value (nil for missing cells).
	Value Value `json:"value"`
	// Count is the number of rows holding Value.
	Count int `json:"count"`
}

// FrequencyResult is a one-way tabulation of a single column.
type FrequencyResult struct {
	// Column is the source column name.
	Column string `json:"column"`
	// Counts is ordered by descending count, ties in first-seen order.
	Counts []ValueCount `json:"counts"`
}

// Total returns the sum of all counts.
func (r *FrequencyResult) Total() int {
	total := 0
	for _, vc := range r.Counts {
		total += vc.Count
	}
	return total
}
