package tabulate

import (
	"slices"

	"github.com/firstat/fasttab/pkg/fasttab/models"
)

// CrossTab counts the co-occurrences of rowVar and colVar values. Missing
// cells are kept as a category of their own and sort last. Row and column
// totals are filled in; the grand total equals the number of rows.
func CrossTab(t tableReader, rowVar, colVar string) (*models.CrossTabResult, error) {
	rows, err := column(t, rowVar)
	if err != nil {
		return nil, err
	}
	cols, err := column(t, colVar)
	if err != nil {
		return nil, err
	}

	rowCats := categories(rows)
	colCats := categories(cols)
	rowIndex := indexOf(rowCats)
	colIndex := indexOf(colCats)

	counts := make([][]int, len(rowCats))
	for i := range counts {
		counts[i] = make([]int, len(colCats))
	}

	result := &models.CrossTabResult{
		RowVar:        rowVar,
		ColVar:        colVar,
		RowCategories: rowCats,
		ColCategories: colCats,
		Counts:        counts,
		RowTotals:     make([]int, len(rowCats)),
		ColTotals:     make([]int, len(colCats)),
	}

	for i := range rows {
		r, c := rowIndex[rows[i]], colIndex[cols[i]]
		counts[r][c]++
		result.RowTotals[r]++
		result.ColTotals[c]++
		result.GrandTotal++
	}

	return result, nil
}

// categories returns the distinct values in display order.
func categories(values []models.Value) []models.Value {
	seen := make(map[models.Value]struct{})
	var cats []models.Value
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		cats = append(cats, v)
	}
	slices.SortStableFunc(cats, models.CompareValues)
	return cats
}

func indexOf(cats []models.Value) map[models.Value]int {
	index := make(map[models.Value]int, len(cats))
	for i, v := range cats {
		index[v] = i
	}
	return index
}
