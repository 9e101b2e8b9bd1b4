// Package tabulate computes one-way, two-way and multiple-choice
// tabulations over loaded tables.
package tabulate

import "fmt"

// ColumnNotFoundError reports a selected column that is absent from the
// table, typically a stale selection.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

// column fetches a column or reports it missing.
func column(t tableReader, name string) ([]interface{}, error) {
	values, ok := t.Column(name)
	if !ok {
		return nil, &ColumnNotFoundError{Column: name}
	}
	return values, nil
}
