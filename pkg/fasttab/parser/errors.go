package parser

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat indicates the input is not an xlsx or BIFF8 xls file.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// ErrCorrupt indicates the container was recognized but could not be decoded.
var ErrCorrupt = errors.New("corrupt spreadsheet")

// ErrMissingHeader indicates the selected sheet region holds no header row.
var ErrMissingHeader = errors.New("missing header row")

// ErrSheetNotFound indicates the requested worksheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// ParseError reports a spreadsheet that could not be turned into a table.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("failed to read spreadsheet: %v", e.Err)
	}
	return fmt.Sprintf("failed to read %q: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError.
func NewParseError(source string, err error) *ParseError {
	return &ParseError{
		Source: source,
		Err:    err,
	}
}
