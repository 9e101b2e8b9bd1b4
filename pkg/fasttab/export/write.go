package export

import (
	"unicode/utf8"

	"github.com/firstat/fasttab/pkg/fasttab/models"
	"github.com/xuri/excelize/v2"
)

// Write serializes sheets, in order, into one xlsx workbook held in memory.
// Sheet labels are resolved through a SheetNamer; the final names are
// reported in the returned workbook. Any failure is a *SerializationError.
func Write(fileName string, sheets []models.Sheet) (*models.Workbook, error) {
	if len(sheets) == 0 {
		return nil, NewSerializationError("", ErrNoSheets)
	}
	for _, sheet := range sheets {
		if err := checkLimits(sheet); err != nil {
			return nil, NewSerializationError(sheet.Label, err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, NewSerializationError("", err)
	}

	namer := NewSheetNamer()
	names := make([]string, 0, len(sheets))
	for i, sheet := range sheets {
		name := namer.Name(sheet.Label)
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), name)
		} else {
			_, err = f.NewSheet(name)
		}
		if err != nil {
			return nil, NewSerializationError(name, err)
		}
		if err := writeSheet(f, name, sheet, headerStyle); err != nil {
			return nil, NewSerializationError(name, err)
		}
		names = append(names, name)
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, NewSerializationError("", err)
	}

	return &models.Workbook{
		FileName:   fileName,
		MimeType:   models.XLSXMimeType,
		SheetNames: names,
		Data:       buf.Bytes(),
	}, nil
}

// writeSheet streams one sheet: a bold header row, then the body rows.
// The chart is attached first so the stream writer carries its drawing.
func writeSheet(f *excelize.File, name string, sheet models.Sheet, headerStyle int) error {
	columns := sheetWidth(sheet)

	chart, err := buildChart(name, sheet.Label, sheet.Chart, len(sheet.Rows), columns)
	if err != nil {
		return err
	}
	if chart != nil {
		anchor, err := excelize.CoordinatesToCellName(columns+2, 1)
		if err != nil {
			return err
		}
		if err := f.AddChart(name, anchor, chart); err != nil {
			return err
		}
	}

	sw, err := f.NewStreamWriter(name)
	if err != nil {
		return err
	}

	for c, w := range columnWidths(sheet, columns) {
		if err := sw.SetColWidth(c+1, c+1, w); err != nil {
			return err
		}
	}
	if len(sheet.Rows) > 0 {
		if err := sw.SetPanes(&excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return err
		}
	}

	header := make([]interface{}, len(sheet.Header))
	for c, h := range sheet.Header {
		header[c] = excelize.Cell{StyleID: headerStyle, Value: h}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for r, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		copy(values, row)
		if err := sw.SetRow(cell, values); err != nil {
			return err
		}
	}

	return sw.Flush()
}

// sheetWidth is the number of columns a sheet occupies.
func sheetWidth(sheet models.Sheet) int {
	width := len(sheet.Header)
	for _, row := range sheet.Rows {
		width = max(width, len(row))
	}
	return width
}

// checkLimits rejects sheets the xlsx format cannot hold.
func checkLimits(sheet models.Sheet) error {
	if len(sheet.Rows)+1 > excelize.TotalRows {
		return ErrTooManyRows
	}
	if sheetWidth(sheet) > excelize.MaxColumns {
		return ErrTooManyColumns
	}
	for _, h := range sheet.Header {
		if utf8.RuneCountInString(h) > excelize.TotalCellChars {
			return ErrCellTooLong
		}
	}
	for _, row := range sheet.Rows {
		for _, v := range row {
			if s, ok := v.(string); ok && utf8.RuneCountInString(s) > excelize.TotalCellChars {
				return ErrCellTooLong
			}
		}
	}
	return nil
}
