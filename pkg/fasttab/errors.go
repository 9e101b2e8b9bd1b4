package fasttab

import (
	"fmt"

	"github.com/firstat/fasttab/pkg/fasttab/export"
	"github.com/firstat/fasttab/pkg/fasttab/parser"
	"github.com/firstat/fasttab/pkg/fasttab/tabulate"
)

// ParseError reports an upload that could not be read as a table.
type ParseError = parser.ParseError

// ColumnNotFoundError reports a selected column absent from the table.
type ColumnNotFoundError = tabulate.ColumnNotFoundError

// SerializationError reports a sheet that could not be written.
type SerializationError = export.SerializationError

// PipelineError represents the failure of one tabulation type.
type PipelineError struct {
	Kind Kind
	Err  error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s tabulation failed: %v", e.Kind.Title(), e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError creates a new PipelineError.
func NewPipelineError(kind Kind, err error) *PipelineError {
	return &PipelineError{
		Kind: kind,
		Err:  err,
	}
}
