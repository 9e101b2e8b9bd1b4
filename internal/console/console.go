// Package console renders tables and processing summaries for the command
// line.
package console

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/fatih/color"
	"github.com/firstat/fasttab/pkg/fasttab"
	"github.com/firstat/fasttab/pkg/fasttab/models"
	"github.com/olekukonko/tablewriter"
)

// DefaultPreviewRows is how many data rows Preview shows by default.
const DefaultPreviewRows = 2

var (
	heading = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen)
	failure = color.New(color.FgRed)
	notice  = color.New(color.FgYellow)
)

// Preview prints the table's shape, metadata, columns and its first rows.
func Preview(w io.Writer, table *models.Table, rows int) {
	heading.Fprintf(w, "\n=== %s ===\n", table.SourceName)
	fmt.Fprintf(w, "Sheet: %s\n", table.SheetName)
	fmt.Fprintf(w, "Rows: %d\n", table.Len())
	fmt.Fprintf(w, "Columns: %d\n", len(table.Columns()))

	if len(table.Metadata) > 0 {
		keys := make([]string, 0, len(table.Metadata))
		for k := range table.Metadata {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "%s: %s\n", k, table.Metadata[k])
		}
	}

	notice.Fprintln(w, "\nPreview")
	tw := newTable(w, table.Columns())
	for _, row := range table.Head(rows) {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = models.FormatValue(v)
		}
		tw.Append(cells)
	}
	tw.Render()
}

// Summary prints one line per requested tabulation type: the file written
// (or produced) and its sheets, or the error that stopped it.
func Summary(w io.Writer, result *fasttab.Result, paths map[fasttab.Kind]string) {
	notice.Fprintln(w, "\nResults")
	tw := newTable(w, []string{"Type", "File", "Sheets", "Status"})
	for _, kind := range fasttab.Kinds {
		out := result.Output(kind)
		if out == nil {
			continue
		}
		if out.Err != nil {
			tw.Append([]string{kind.Title(), "-", "-", failure.Sprint(out.Err.Error())})
			continue
		}
		file := out.Workbook.FileName
		if p, ok := paths[kind]; ok {
			file = p
		}
		tw.Append([]string{
			kind.Title(),
			file,
			strconv.Itoa(len(out.Workbook.SheetNames)),
			success.Sprint("ok"),
		})
	}
	tw.Render()
}

// Columns prints the column names, one per line, numbered from 1.
func Columns(w io.Writer, table *models.Table) {
	notice.Fprintln(w, "\nColumns")
	tw := newTable(w, []string{"#", "Column"})
	for i, name := range table.Columns() {
		tw.Append([]string{strconv.Itoa(i + 1), name})
	}
	tw.Render()
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(header)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	return tw
}
