package models

// CrossTabResult is a contingency table of two columns with margins.
type CrossTabResult struct {
	// RowVar is the column whose values index the rows.
	RowVar string `json:"row_var"`
	// ColVar is the column whose values index the columns.
	ColVar string `json:"col_var"`
	// RowCategories are the distinct RowVar values in display order.
	RowCategories []Value `json:"row_categories"`
	// ColCategories are the distinct ColVar values in display order.
	ColCategories []Value `json:"col_categories"`
	// Counts holds interior cells indexed [row][col].
	Counts [][]int `json:"counts"`
	// RowTotals holds the marginal sum of each row.
	RowTotals []int `json:"row_totals"`
	// ColTotals holds the marginal sum of each column.
	ColTotals []int `json:"col_totals"`
	// GrandTotal is the number of rows tabulated.
	GrandTotal int `json:"grand_total"`
}

// Count returns the interior count for a (row, col) category pair, or 0
// when either category does not occur.
func (r *CrossTabResult) Count(row, col Value) int {
	ri, ci := -1, -1
	for i, v := range r.RowCategories {
		if v == row {
			ri = i
			break
		}
	}
	for i, v := range r.ColCategories {
		if v == col {
			ci = i
			break
		}
	}
	if ri < 0 || ci < 0 {
		return 0
	}
	return r.Counts[ri][ci]
}
