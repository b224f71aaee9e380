package trait

import (
	"gonum.org/v1/gonum/floats"
	"gopkg.in/guregu/null.v3"

	"github.com/carbocation/glytrait/formula"
)

// FilterInvalid returns a copy of t without traits that carry no information:
// traits undefined in every sample, and traits whose defined values are all
// equal, which includes traits defined in a single sample. The names of the
// removed traits are returned alongside.
func FilterInvalid(t *Table) (*Table, []string) {
	out := &Table{
		Formulas: make([]formula.Formula, 0, len(t.Formulas)),
		Samples:  t.Samples,
		Values:   make([][]null.Float, 0, len(t.Values)),
	}
	dropped := make([]string, 0)

	for i, f := range t.Formulas {
		if !informative(t.Values[i]) {
			dropped = append(dropped, f.Name)
			continue
		}
		out.Formulas = append(out.Formulas, f)
		out.Values = append(out.Values, t.Values[i])
	}

	return out, dropped
}

func informative(values []null.Float) bool {
	defined := make([]float64, 0, len(values))
	for _, v := range values {
		if v.Valid {
			defined = append(defined, v.Float64)
		}
	}

	if len(defined) == 0 {
		return false
	}

	return floats.Max(defined) != floats.Min(defined)
}
