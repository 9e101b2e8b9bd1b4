package tabulate

import (
	"cmp"
	"slices"

	"github.com/firstat/fasttab/pkg/fasttab/models"
)

// tableReader is the read-only view of a table the tabulators need.
type tableReader interface {
	Column(name string) ([]models.Value, bool)
}

// Frequency counts every distinct value of a column, missing cells
// included as their own bucket. Counts are ordered descending; equal counts
// keep the order in which the values first appear.
func Frequency(t tableReader, name string) (*models.FrequencyResult, error) {
	values, err := column(t, name)
	if err != nil {
		return nil, err
	}

	index := make(map[models.Value]int)
	var counts []models.ValueCount
	for _, v := range values {
		i, ok := index[v]
		if !ok {
			i = len(counts)
			index[v] = i
			counts = append(counts, models.ValueCount{Value: v})
		}
		counts[i].Count++
	}

	slices.SortStableFunc(counts, func(a, b models.ValueCount) int {
		return cmp.Compare(b.Count, a.Count)
	})

	return &models.FrequencyResult{
		Column: name,
		Counts: counts,
	}, nil
}
