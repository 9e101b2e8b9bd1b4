// Package fasttab turns a loaded survey table into downloadable tabulation
// workbooks.
package fasttab

import (
	"github.com/firstat/fasttab/pkg/fasttab/models"
	"github.com/firstat/fasttab/pkg/fasttab/tabulate"
	"github.com/rs/zerolog"
)

// Labels holds the fixed texts written into result sheets.
type Labels struct {
	// Count titles the count column.
	Count string
	// Option titles the option column of multiple-choice sheets.
	Option string
	// Total labels the margin row and column of cross-tab sheets.
	Total string
	// Missing stands in for empty cells.
	Missing string
	// Percent titles the percentage column of one-way sheets.
	Percent string
}

// DefaultLabels returns the labels used when none are configured.
func DefaultLabels() Labels {
	return Labels{
		Count:   "Jumlah",
		Option:  "Opsi",
		Total:   "Total",
		Missing: "Missing",
		Percent: "Persen",
	}
}

// withDefaults fills empty labels from DefaultLabels.
func (l Labels) withDefaults() Labels {
	d := DefaultLabels()
	if l.Count == "" {
		l.Count = d.Count
	}
	if l.Option == "" {
		l.Option = d.Option
	}
	if l.Total == "" {
		l.Total = d.Total
	}
	if l.Missing == "" {
		l.Missing = d.Missing
	}
	if l.Percent == "" {
		l.Percent = d.Percent
	}
	return l
}

// Options configures processing.
type Options struct {
	// Labels overrides sheet texts. Empty fields keep their defaults.
	Labels Labels
	// Percentages adds a percentage column to one-way sheets.
	Percentages bool
	// Charts adds a chart to one-way and multiple-choice sheets.
	Charts bool
	// ChartType is the kind of chart drawn. Empty means a column chart.
	ChartType models.ChartType
	// Delimiter separates multiple-choice options. Empty means ",".
	Delimiter string
	// Logger receives processing events. The zero value discards them.
	Logger zerolog.Logger
}

// DefaultOptions returns default processing options.
func DefaultOptions() Options {
	return Options{
		Labels:    DefaultLabels(),
		Delimiter: tabulate.DefaultDelimiter,
	}
}

// Selection names the columns for each tabulation type. The three sets are
// independent.
type Selection struct {
	// OneWay columns get a frequency sheet each, and are the targets of
	// the cross-tabulation.
	OneWay []string
	// Demographic columns are crossed with every OneWay column.
	Demographic []string
	// MultiChoice columns hold comma-delimited selected options.
	MultiChoice []string
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return len(s.OneWay) == 0 && len(s.Demographic) == 0 && len(s.MultiChoice) == 0
}
