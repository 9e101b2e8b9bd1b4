package tabulate

import (
	"cmp"
	"slices"
	"strings"

	"github.com/firstat/fasttab/pkg/fasttab/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultDelimiter separates the options of a multiple-choice answer.
const DefaultDelimiter = ","

// Normalize trims surrounding whitespace and lower-cases an option token.
// It is idempotent.
func Normalize(token string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(token))
}

// SplitOptions splits a multiple-choice answer into normalized options,
// dropping empty tokens. An empty delimiter means DefaultDelimiter.
func SplitOptions(answer, delimiter string) []string {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	var options []string
	for _, token := range strings.Split(answer, delimiter) {
		if option := Normalize(token); option != "" {
			options = append(options, option)
		}
	}
	return options
}

// MultiChoice counts the options selected in a multiple-choice column.
// Missing cells are skipped; every other cell is rendered as text, split on
// the delimiter and normalized. Counts are ordered descending, equal counts
// in first-seen order.
func MultiChoice(t tableReader, name, delimiter string) (*models.OptionCounts, error) {
	values, err := column(t, name)
	if err != nil {
		return nil, err
	}

	result := &models.OptionCounts{Column: name}
	index := make(map[string]int)
	for _, v := range values {
		if models.IsMissing(v) {
			continue
		}
		result.Responses++

		for _, option := range SplitOptions(models.FormatValue(v), delimiter) {
			i, ok := index[option]
			if !ok {
				i = len(result.Options)
				index[option] = i
				result.Options = append(result.Options, models.OptionCount{Option: option})
			}
			result.Options[i].Count++
		}
	}

	slices.SortStableFunc(result.Options, func(a, b models.OptionCount) int {
		return cmp.Compare(b.Count, a.Count)
	})

	return result, nil
}

// MultiChoiceColumns tabulates several multiple-choice columns, returning
// results in the order requested. It stops at the first missing column.
func MultiChoiceColumns(t tableReader, names []string, delimiter string) ([]*models.OptionCounts, error) {
	results := make([]*models.OptionCounts, 0, len(names))
	for _, name := range names {
		r, err := MultiChoice(t, name, delimiter)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}
