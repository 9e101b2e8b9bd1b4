package parser

import (
	"strconv"

	"github.com/firstat/fasttab/pkg/fasttab/models"
)

// buildTable turns a cell grid into a table. The first non-empty row of the
// grid's data bounds is the header; entirely empty rows below it are
// skipped. Missing markers apply to the kept data rows only, so a row of
// markers is still a respondent and a header cell keeps its text.
func buildTable(grid [][]models.Value, markers map[string]struct{}) (*models.Table, error) {
	minRow, maxRow, minCol, maxCol := findDataBounds(grid)
	if minRow < 0 {
		return nil, ErrMissingHeader
	}

	width := maxCol - minCol + 1
	names := headerNames(sliceRow(grid[minRow], minCol, width))

	var rows [][]models.Value
	for rowIdx := minRow + 1; rowIdx <= maxRow; rowIdx++ {
		row := sliceRow(grid[rowIdx], minCol, width)
		if isEmptyRow(row) {
			continue
		}
		applyMissingMarkers(row, markers)
		rows = append(rows, row)
	}

	return models.NewTable(names, rows)
}

// findDataBounds finds the bounding box of non-empty cells.
// minRow is -1 when the grid holds no value at all.
func findDataBounds(rows [][]models.Value) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell != nil {
				if minRow < 0 || rowIdx < minRow {
					minRow = rowIdx
				}
				if maxRow < 0 || rowIdx > maxRow {
					maxRow = rowIdx
				}
				if minCol < 0 || colIdx < minCol {
					minCol = colIdx
				}
				if maxCol < 0 || colIdx > maxCol {
					maxCol = colIdx
				}
			}
		}
	}

	return
}

// sliceRow copies width cells starting at col, padding with nil.
func sliceRow(row []models.Value, col, width int) []models.Value {
	out := make([]models.Value, width)
	for i := 0; i < width && col+i < len(row); i++ {
		out[i] = row[col+i]
	}
	return out
}

func isEmptyRow(row []models.Value) bool {
	for _, v := range row {
		if v != nil {
			return false
		}
	}
	return true
}

// headerNames derives unique column names from the header cells.
// Blank cells become "Unnamed: <i>" and repeats get ".1", ".2", ... suffixes.
func headerNames(cells []models.Value) []string {
	names := make([]string, len(cells))
	used := make(map[string]bool, len(cells))
	seen := make(map[string]int, len(cells))

	for i, cell := range cells {
		name := models.FormatValue(cell)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}

		candidate := name
		for used[candidate] {
			seen[name]++
			candidate = name + "." + strconv.Itoa(seen[name])
		}
		used[candidate] = true
		names[i] = candidate
	}

	return names
}
