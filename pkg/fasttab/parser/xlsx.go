package parser

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// readXLSX reads one worksheet of an Office Open XML workbook.
func readXLSX(data []byte, want string) (*sheetData, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer f.Close()

	sheetName, err := pickSheet(f.GetSheetList(), want)
	if err != nil {
		return nil, err
	}

	grid, err := ExtractCells(f, sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrCorrupt, sheetName, err)
	}

	metadata := make(map[string]string)
	if props, err := f.GetDocProps(); err == nil && props != nil {
		if props.Title != "" {
			metadata["title"] = props.Title
		}
		if props.Creator != "" {
			metadata["author"] = props.Creator
		}
	}

	return &sheetData{
		name:     sheetName,
		grid:     grid,
		metadata: metadata,
	}, nil
}
