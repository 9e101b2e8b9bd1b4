// Package parser reads survey spreadsheets into tables.
package parser

// DefaultMissingMarkers are cell texts treated as missing values, matching
// the markers common survey exports and dataframe readers use for "no
// answer". The empty string is always missing.
var DefaultMissingMarkers = []string{
	"#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// Options configures table loading.
type Options struct {
	// Sheet names the worksheet to read. Empty selects the first one.
	Sheet string
	// Range restricts reading to a cell range such as "A1:F200" or
	// "Data!$A$1:$F$200". Empty reads the whole sheet.
	Range string
	// KeepMarkers disables DefaultMissingMarkers so that texts like "NA"
	// are kept as answers.
	KeepMarkers bool
}

// missingMarkers returns the set of texts treated as missing.
func (o Options) missingMarkers() map[string]struct{} {
	m := make(map[string]struct{}, len(DefaultMissingMarkers))
	if o.KeepMarkers {
		return m
	}
	for _, s := range DefaultMissingMarkers {
		m[s] = struct{}{}
	}
	return m
}
