// Package trait evaluates formulas over a glycan feature table. Every formula
// shape reduces to one rule: within the subgroup selected by the filter, the
// abundance-weighted sum of the numerator divided by the subgroup's total
// abundance.
package trait

import (
	"github.com/carbocation/glytrait/formula"
	"github.com/carbocation/glytrait/glycan"
	"gopkg.in/guregu/null.v3"
)

// Aggregate holds the sums for one (formula, sample) pair.
type Aggregate struct {
	// Numer is the sum of abundance * numerator over subgroup members with a
	// defined numerator.
	Numer float64

	// Denom is the summed abundance of every subgroup member, including
	// members whose numerator is undefined.
	Denom float64

	// DefinedWeight is the summed abundance of subgroup members whose
	// numerator is defined. For boolean numerators it equals Denom.
	DefinedWeight float64

	// Members counts structures in the subgroup with a present abundance.
	Members int
}

// Value is Numer/Denom, or an invalid null.Float when the subgroup carries no
// abundance or when no abundance-bearing member has a defined numerator.
func (a Aggregate) Value() null.Float {
	if a.Denom <= 0 || a.DefinedWeight <= 0 {
		return null.Float{}
	}
	return null.FloatFrom(a.Numer / a.Denom)
}

// Accumulate evaluates f over one sample. abundances is indexed like
// structures; missing abundances exclude the structure from the subgroup.
func Accumulate(f formula.Formula, structures []glycan.Structure, abundances []null.Float) Aggregate {
	var out Aggregate

	for j, s := range structures {
		a := abundances[j]
		if !a.Valid {
			continue
		}

		if in, _ := formula.Eval(f.Filter, s); in != 1 {
			continue
		}

		out.Members++
		out.Denom += a.Float64

		v, defined := formula.Eval(f.Numerator, s)
		if !defined {
			continue
		}
		out.DefinedWeight += a.Float64
		out.Numer += a.Float64 * v
	}

	return out
}

// Evaluate returns the trait value of f for one sample.
func Evaluate(f formula.Formula, structures []glycan.Structure, abundances []null.Float) null.Float {
	return Accumulate(f, structures, abundances).Value()
}
