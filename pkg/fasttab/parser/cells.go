package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/firstat/fasttab/pkg/fasttab/models"
	"github.com/xuri/excelize/v2"
)

// ExtractCells reads every row of a sheet as typed values.
// Row and column positions are preserved; empty cells are nil.
func ExtractCells(f *excelize.File, sheetName string) ([][]models.Value, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	grid := make([][]models.Value, len(rows))
	for rowIdx, row := range rows {
		values := make([]models.Value, len(row))
		for colIdx, cellValue := range row {
			if cellValue == "" {
				continue
			}
			if b, ok := boolCell(f, sheetName, colIdx+1, rowIdx+1, cellValue); ok {
				values[colIdx] = b
				continue
			}
			values[colIdx] = parseValue(cellValue)
		}
		grid[rowIdx] = values
	}

	return grid, nil
}

// boolCell reports the value of a boolean cell. Only cells displayed as
// TRUE or FALSE are looked up, and text cells with that content stay text.
func boolCell(f *excelize.File, sheetName string, col, row int, text string) (bool, bool) {
	if text != "TRUE" && text != "FALSE" {
		return false, false
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return false, false
	}
	typ, err := f.GetCellType(sheetName, cell)
	if err != nil || typ != excelize.CellTypeBool {
		return false, false
	}
	return text == "TRUE", true
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integral values, float64 for decimals, or the original
// string.
func parseValue(s string) interface{} {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Hex floats, underscores and the NaN/Inf spellings are text in a survey
	if strings.ContainsAny(s, "xXpP_nNiI") {
		return s
	}
	// Try float; 3.0 and 1e3 land in the same category as 3 and 1000
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return normalizeNumber(f)
	}
	// Return as string
	return s
}

// normalizeNumber folds integral floats into int64 so that 3 and 3.0 fall
// into the same category.
func normalizeNumber(f float64) models.Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}

// applyMissingMarkers replaces marker strings in row with nil.
func applyMissingMarkers(row []models.Value, markers map[string]struct{}) {
	if len(markers) == 0 {
		return
	}
	for i, v := range row {
		if s, ok := v.(string); ok {
			if _, missing := markers[s]; missing {
				row[i] = nil
			}
		}
	}
}
