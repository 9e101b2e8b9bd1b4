// Package export serializes result sheets into in-memory xlsx workbooks.
package export

import (
	"errors"
	"fmt"
)

// ErrNoSheets indicates a workbook was requested without any sheet.
var ErrNoSheets = errors.New("workbook has no sheets")

// ErrTooManyRows indicates a sheet exceeds the worksheet row limit.
var ErrTooManyRows = errors.New("too many rows")

// ErrTooManyColumns indicates a sheet exceeds the worksheet column limit.
var ErrTooManyColumns = errors.New("too many columns")

// ErrCellTooLong indicates a text cell exceeds the per-cell character limit.
var ErrCellTooLong = errors.New("cell text too long")

// SerializationError reports a sheet that could not be written.
type SerializationError struct {
	Sheet string
	Err   error
}

func (e *SerializationError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("failed to write workbook: %v", e.Err)
	}
	return fmt.Sprintf("failed to write sheet %q: %v", e.Sheet, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// NewSerializationError creates a new SerializationError.
func NewSerializationError(sheet string, err error) *SerializationError {
	return &SerializationError{
		Sheet: sheet,
		Err:   err,
	}
}
