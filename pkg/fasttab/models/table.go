package models

import "fmt"

// Table is an ordered set of named columns of equal length.
// It is immutable once built.
type Table struct {
	// SourceName is the uploaded file name (no path).
	SourceName string `json:"source_name"`
	// SheetName is the worksheet the table was read from.
	SheetName string `json:"sheet_name"`
	// Metadata holds document properties such as title and author when the
	// source container exposes them.
	Metadata map[string]string `json:"metadata,omitempty"`

	names   []string
	columns [][]Value
	index   map[string]int
}

// NewTable builds a table from header names and row-major data.
// Rows shorter than the header are padded with missing values; cells beyond
// the header width are dropped. Names must be unique.
func NewTable(names []string, rows [][]Value) (*Table, error) {
	index := make(map[string]int, len(names))
	for i, name := range names {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", name)
		}
		index[name] = i
	}

	columns := make([][]Value, len(names))
	for c := range columns {
		columns[c] = make([]Value, len(rows))
	}
	for r, row := range rows {
		for c := 0; c < len(names) && c < len(row); c++ {
			columns[c][r] = row[c]
		}
	}

	return &Table{
		names:   append([]string(nil), names...),
		columns: columns,
		index:   index,
	}, nil
}

// Columns returns the column names in header order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.names...)
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the values of the named column. The returned slice must
// not be modified.
func (t *Table) Column(name string) ([]Value, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if len(t.columns) == 0 {
		return 0
	}
	return len(t.columns[0])
}

// Row returns a copy of the i-th data row.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for c, col := range t.columns {
		row[c] = col[i]
	}
	return row
}

// Head returns copies of up to n leading rows.
func (t *Table) Head(n int) [][]Value {
	if n > t.Len() {
		n = t.Len()
	}
	rows := make([][]Value, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, t.Row(i))
	}
	return rows
}
