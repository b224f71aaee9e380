package trait

import (
	"github.com/carbocation/glytrait/formula"
	"gopkg.in/guregu/null.v3"
)

// Table is the computed trait table. Values is indexed [trait][sample]; an
// invalid null.Float is an undefined trait value, never a silent zero.
type Table struct {
	Formulas []formula.Formula
	Samples  []string
	Values   [][]null.Float
}

func newTable(formulas []formula.Formula, samples []string) *Table {
	t := &Table{
		Formulas: formulas,
		Samples:  samples,
		Values:   make([][]null.Float, len(formulas)),
	}
	for i := range t.Values {
		t.Values[i] = make([]null.Float, len(samples))
	}
	return t
}

// Names returns the trait names in column order.
func (t *Table) Names() []string {
	out := make([]string, 0, len(t.Formulas))
	for _, f := range t.Formulas {
		out = append(out, f.Name)
	}
	return out
}

// Get looks up one cell by trait and sample name. ok is false when either
// name is unknown; a known but undefined cell returns ok with an invalid
// value.
func (t *Table) Get(traitName, sample string) (value null.Float, ok bool) {
	ti, si := -1, -1
	for i, f := range t.Formulas {
		if f.Name == traitName {
			ti = i
			break
		}
	}
	for i, s := range t.Samples {
		if s == sample {
			si = i
			break
		}
	}
	if ti < 0 || si < 0 {
		return null.Float{}, false
	}
	return t.Values[ti][si], true
}

// Undefined counts undefined cells.
func (t *Table) Undefined() int {
	n := 0
	for _, row := range t.Values {
		for _, v := range row {
			if !v.Valid {
				n++
			}
		}
	}
	return n
}
