package parser

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/firstat/fasttab/pkg/fasttab/models"
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Format identifies a spreadsheet container.
type Format string

const (
	// FormatXLSX is an Office Open XML workbook (.xlsx, .xlsm).
	FormatXLSX Format = "xlsx"
	// FormatXLS is a legacy BIFF8 workbook (.xls).
	FormatXLS Format = "xls"
)

// DetectFormat sniffs the container format from the leading bytes.
func DetectFormat(data []byte) (Format, error) {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return FormatXLSX, nil
	case bytes.HasPrefix(data, oleMagic):
		return FormatXLS, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// sheetData is what a format-specific reader hands back.
type sheetData struct {
	name     string
	grid     [][]models.Value
	metadata map[string]string
}

// Load parses spreadsheet content into a table. name is the display name
// of the upload. Any failure is returned as a *ParseError and no table is
// produced.
func Load(data []byte, name string, opts Options) (*models.Table, error) {
	source := filepath.Base(name)
	if name == "" {
		source = ""
	}

	format, err := DetectFormat(data)
	if err != nil {
		return nil, NewParseError(source, err)
	}

	sheet := opts.Sheet
	var area *models.Area
	if opts.Range != "" {
		rangeSheet, a, err := parseRangeReference(opts.Range)
		if err != nil {
			return nil, NewParseError(source, err)
		}
		if sheet == "" {
			sheet = rangeSheet
		}
		area = a
	}

	var sd *sheetData
	switch format {
	case FormatXLSX:
		sd, err = readXLSX(data, sheet)
	case FormatXLS:
		sd, err = readXLS(data, sheet)
	}
	if err != nil {
		return nil, NewParseError(source, err)
	}

	grid := clipGrid(sd.grid, area)

	table, err := buildTable(grid, opts.missingMarkers())
	if err != nil {
		return nil, NewParseError(source, err)
	}
	table.SourceName = source
	table.SheetName = sd.name
	table.Metadata = sd.metadata

	return table, nil
}

// LoadFile reads and parses the spreadsheet at path.
func LoadFile(path string, opts Options) (*models.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewParseError(filepath.Base(path), err)
	}
	return Load(data, path, opts)
}

// pickSheet resolves the requested sheet against the workbook's sheet list.
// An empty request selects the first sheet; matching falls back to a
// case-insensitive comparison as Excel treats sheet names.
func pickSheet(sheets []string, want string) (string, error) {
	if len(sheets) == 0 {
		return "", ErrMissingHeader
	}
	if want == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s == want {
			return s, nil
		}
	}
	for _, s := range sheets {
		if strings.EqualFold(s, want) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrSheetNotFound, want)
}
