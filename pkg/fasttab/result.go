package fasttab

import "github.com/firstat/fasttab/pkg/fasttab/models"

// Kind identifies a tabulation type.
type Kind string

const (
	// KindOneWay is the frequency tabulation ("satu arah").
	KindOneWay Kind = "satu_arah"
	// KindCrossTab is the two-way tabulation ("dua arah").
	KindCrossTab Kind = "dua_arah"
	// KindMultiChoice is the multiple-choice tabulation.
	KindMultiChoice Kind = "multi"
)

// Kinds lists every tabulation type in output order.
var Kinds = []Kind{KindOneWay, KindCrossTab, KindMultiChoice}

// Workbook file names per tabulation type.
const (
	OneWayFileName      = "output_satu_arah.xlsx"
	CrossTabFileName    = "output_dua_arah.xlsx"
	MultiChoiceFileName = "output_multiple_choice.xlsx"
)

// FileName returns the download name of the kind's workbook.
func (k Kind) FileName() string {
	switch k {
	case KindOneWay:
		return OneWayFileName
	case KindCrossTab:
		return CrossTabFileName
	case KindMultiChoice:
		return MultiChoiceFileName
	default:
		return ""
	}
}

// Title returns a human-readable name for the kind.
func (k Kind) Title() string {
	switch k {
	case KindOneWay:
		return "one-way"
	case KindCrossTab:
		return "cross-tab"
	case KindMultiChoice:
		return "multiple-choice"
	default:
		return string(k)
	}
}

// ParseKind maps a kind identifier back to its Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Output is the outcome of one tabulation type: a workbook or an error.
type Output struct {
	Kind     Kind
	Workbook *models.Workbook
	Err      error
}

// Result holds the outputs of one processing run. A field is nil when its
// tabulation type was not requested.
type Result struct {
	OneWay      *Output
	CrossTab    *Output
	MultiChoice *Output
}

// Output returns the output for kind, or nil.
func (r *Result) Output(kind Kind) *Output {
	switch kind {
	case KindOneWay:
		return r.OneWay
	case KindCrossTab:
		return r.CrossTab
	case KindMultiChoice:
		return r.MultiChoice
	default:
		return nil
	}
}

// Outputs returns the successful outputs in order one-way, cross-tab,
// multiple-choice.
func (r *Result) Outputs() []*Output {
	var outputs []*Output
	for _, k := range Kinds {
		if o := r.Output(k); o != nil && o.Err == nil {
			outputs = append(outputs, o)
		}
	}
	return outputs
}

// Errors returns the failures in the same order.
func (r *Result) Errors() []error {
	var errs []error
	for _, k := range Kinds {
		if o := r.Output(k); o != nil && o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errs
}
