package parser

import (
	"fmt"
	"strings"

	"github.com/firstat/fasttab/pkg/fasttab/models"
	"github.com/xuri/excelize/v2"
)

// parseRangeReference parses a range reference string.
// Format: 'SheetName'!$A$1:$D$10, SheetName!A1:D10 or A1:D10.
func parseRangeReference(ref string) (string, *models.Area, error) {
	ref = strings.TrimSpace(ref)

	var sheetName string
	rangeStr := ref
	// Split by ! to separate sheet name and range
	if idx := strings.LastIndex(ref, "!"); idx >= 0 {
		sheetName = strings.Trim(ref[:idx], "'")
		rangeStr = ref[idx+1:]
	}

	area := parseRangeToArea(rangeStr)
	if area == nil {
		return "", nil, fmt.Errorf("invalid range %q", ref)
	}
	return sheetName, area, nil
}

// parseRangeToArea parses a range string like $A$1:$D$10 to an Area.
// The corners may be given in either order.
func parseRangeToArea(rangeStr string) *models.Area {
	// Remove $ signs
	rangeStr = strings.ReplaceAll(rangeStr, "$", "")

	// Split by :
	parts := strings.Split(rangeStr, ":")
	if len(parts) != 2 {
		return nil
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return nil
	}

	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return nil
	}

	return &models.Area{
		R1: min(startRow, endRow),
		C1: min(startCol, endCol),
		R2: max(startRow, endRow),
		C2: max(startCol, endCol),
	}
}

// clipGrid keeps only the cells inside area. Positions outside the grid
// are ignored; the result is indexed from the area's top-left corner.
func clipGrid(grid [][]models.Value, area *models.Area) [][]models.Value {
	if area == nil {
		return grid
	}

	widest := 0
	for r := area.R1 - 1; r < area.R2 && r < len(grid); r++ {
		widest = max(widest, len(grid[r]))
	}
	width := min(area.C2, widest) - area.C1 + 1
	if width <= 0 {
		return nil
	}

	var out [][]models.Value
	for r := area.R1 - 1; r < area.R2 && r < len(grid); r++ {
		out = append(out, sliceRow(grid[r], area.C1-1, width))
	}
	return out
}
