package fasttab

import (
	"math"
	"time"

	"github.com/firstat/fasttab/pkg/fasttab/export"
	"github.com/firstat/fasttab/pkg/fasttab/models"
	"github.com/firstat/fasttab/pkg/fasttab/tabulate"
)

// crossTabLabelPart is how many characters of each column name go into a
// cross-tab sheet label.
const crossTabLabelPart = 15

// Process runs every requested tabulation over table and exports each
// type to its own workbook. Pipelines are independent: a failure is
// recorded in that pipeline's Output and does not stop the others.
//
// The one-way pipeline runs when sel.OneWay is non-empty, the cross-tab
// pipeline when both sel.Demographic and sel.OneWay are, and the
// multiple-choice pipeline when sel.MultiChoice is.
func Process(table *models.Table, sel Selection, opts Options) *Result {
	opts.Labels = opts.Labels.withDefaults()
	log := opts.Logger.With().
		Str("source", table.SourceName).
		Int("rows", table.Len()).
		Logger()

	result := &Result{}
	if len(sel.OneWay) > 0 {
		result.OneWay = runPipeline(KindOneWay, opts, func() ([]models.Sheet, error) {
			return oneWaySheets(table, sel.OneWay, opts)
		})
	}
	if len(sel.Demographic) > 0 && len(sel.OneWay) > 0 {
		result.CrossTab = runPipeline(KindCrossTab, opts, func() ([]models.Sheet, error) {
			return crossTabSheets(table, sel.Demographic, sel.OneWay, opts)
		})
	}
	if len(sel.MultiChoice) > 0 {
		result.MultiChoice = runPipeline(KindMultiChoice, opts, func() ([]models.Sheet, error) {
			return multiChoiceSheets(table, sel.MultiChoice, opts)
		})
	}

	log.Info().
		Int("outputs", len(result.Outputs())).
		Int("errors", len(result.Errors())).
		Msg("processing finished")
	return result
}

// runPipeline builds the sheets of one tabulation type and exports them.
func runPipeline(kind Kind, opts Options, build func() ([]models.Sheet, error)) *Output {
	start := time.Now()
	out := &Output{Kind: kind}

	sheets, err := build()
	if err == nil {
		out.Workbook, err = export.Write(kind.FileName(), sheets)
	}
	if err != nil {
		out.Err = NewPipelineError(kind, err)
		opts.Logger.Warn().Err(err).Str("kind", string(kind)).Msg("tabulation failed")
		return out
	}

	opts.Logger.Debug().
		Str("kind", string(kind)).
		Int("sheets", len(out.Workbook.SheetNames)).
		Int("bytes", len(out.Workbook.Data)).
		Dur("took", time.Since(start)).
		Msg("workbook exported")
	return out
}

// oneWaySheets builds one frequency sheet per column.
func oneWaySheets(table *models.Table, columns []string, opts Options) ([]models.Sheet, error) {
	sheets := make([]models.Sheet, 0, len(columns))
	for _, col := range columns {
		freq, err := tabulate.Frequency(table, col)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, FrequencySheet(freq, opts))
	}
	return sheets, nil
}

// crossTabSheets builds one sheet per (demographic, target) pair.
func crossTabSheets(table *models.Table, demographics, targets []string, opts Options) ([]models.Sheet, error) {
	sheets := make([]models.Sheet, 0, len(demographics)*len(targets))
	for _, demo := range demographics {
		for _, target := range targets {
			ct, err := tabulate.CrossTab(table, demo, target)
			if err != nil {
				return nil, err
			}
			sheets = append(sheets, CrossTabSheet(ct, opts))
		}
	}
	return sheets, nil
}

// multiChoiceSheets builds one option-count sheet per column.
func multiChoiceSheets(table *models.Table, columns []string, opts Options) ([]models.Sheet, error) {
	results, err := tabulate.MultiChoiceColumns(table, columns, opts.Delimiter)
	if err != nil {
		return nil, err
	}
	sheets := make([]models.Sheet, 0, len(results))
	for _, oc := range results {
		sheets = append(sheets, MultiChoiceSheet(oc, opts))
	}
	return sheets, nil
}

// FrequencySheet lays out a frequency result as [value, count] rows,
// plus a percentage column when requested.
func FrequencySheet(freq *models.FrequencyResult, opts Options) models.Sheet {
	labels := opts.Labels.withDefaults()
	header := []string{freq.Column, labels.Count}
	if opts.Percentages {
		header = append(header, labels.Percent)
	}

	total := freq.Total()
	rows := make([][]models.Value, 0, len(freq.Counts))
	for _, vc := range freq.Counts {
		row := []models.Value{displayValue(vc.Value, labels), int64(vc.Count)}
		if opts.Percentages {
			row = append(row, percent(vc.Count, total))
		}
		rows = append(rows, row)
	}

	return models.Sheet{
		Label:  freq.Column,
		Header: header,
		Rows:   rows,
		Chart:  chartFor(freq.Column, opts),
	}
}

// CrossTabSheet lays out a contingency table with a Total column and a
// closing Total row.
func CrossTabSheet(ct *models.CrossTabResult, opts Options) models.Sheet {
	labels := opts.Labels.withDefaults()

	header := make([]string, 0, len(ct.ColCategories)+2)
	header = append(header, ct.RowVar)
	for _, c := range ct.ColCategories {
		header = append(header, headerText(c, labels))
	}
	header = append(header, labels.Total)

	rows := make([][]models.Value, 0, len(ct.RowCategories)+1)
	for r, cat := range ct.RowCategories {
		row := make([]models.Value, 0, len(header))
		row = append(row, displayValue(cat, labels))
		for _, n := range ct.Counts[r] {
			row = append(row, int64(n))
		}
		rows = append(rows, append(row, int64(ct.RowTotals[r])))
	}

	totals := make([]models.Value, 0, len(header))
	totals = append(totals, labels.Total)
	for _, n := range ct.ColTotals {
		totals = append(totals, int64(n))
	}
	rows = append(rows, append(totals, int64(ct.GrandTotal)))

	return models.Sheet{
		Label:  CrossTabLabel(ct.RowVar, ct.ColVar),
		Header: header,
		Rows:   rows,
	}
}

// MultiChoiceSheet lays out option counts as [option, count] rows.
func MultiChoiceSheet(oc *models.OptionCounts, opts Options) models.Sheet {
	labels := opts.Labels.withDefaults()
	rows := make([][]models.Value, 0, len(oc.Options))
	for _, o := range oc.Options {
		rows = append(rows, []models.Value{o.Option, int64(o.Count)})
	}
	return models.Sheet{
		Label:  oc.Column,
		Header: []string{labels.Option, labels.Count},
		Rows:   rows,
		Chart:  chartFor(oc.Column, opts),
	}
}

// CrossTabLabel names a cross-tab sheet from the first 15 characters of
// each column name.
func CrossTabLabel(demo, target string) string {
	return prefix(demo, crossTabLabelPart) + "_" + prefix(target, crossTabLabelPart)
}

func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// displayValue replaces a missing category with its label.
func displayValue(v models.Value, labels Labels) models.Value {
	if models.IsMissing(v) {
		return labels.Missing
	}
	return v
}

func headerText(v models.Value, labels Labels) string {
	if models.IsMissing(v) {
		return labels.Missing
	}
	return models.FormatValue(v)
}

// percent returns count/total as a percentage rounded to two decimals.
func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)*10000/float64(total)) / 100
}

func chartFor(title string, opts Options) *models.Chart {
	if !opts.Charts {
		return nil
	}
	kind := opts.ChartType
	if kind == "" {
		kind = models.ChartColumn
	}
	return &models.Chart{Type: kind, Title: title}
}
