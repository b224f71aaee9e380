package formula

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/carbocation/glytrait/glycan"
)

// Expr is the parsed contents of one bracket of a formula. The set of
// implementations is closed: Constant, Comparison, Conjunction and Ratio.
type Expr interface {
	fmt.Stringer

	// Boolean reports whether the expression evaluates to true/false per
	// structure, which is what a filter requires.
	Boolean() bool

	isExpr()
}

// Constant is the literal [1]: true, with weight 1, for every structure.
type Constant struct{}

// Comparison tests one feature count against a non-negative integer.
type Comparison struct {
	Feature   glycan.Feature
	Op        Operator
	Threshold int
}

// Conjunction holds when every one of its comparisons holds. In source it is
// written as a product of parenthesized comparisons.
type Conjunction struct {
	Terms []Comparison
}

// Ratio is the per-structure quotient of two feature counts. It is undefined
// for structures where the denominator feature is zero.
type Ratio struct {
	Numerator   glycan.Feature
	Denominator glycan.Feature
}

func (Constant) isExpr()    {}
func (Comparison) isExpr()  {}
func (Conjunction) isExpr() {}
func (Ratio) isExpr()       {}

func (Constant) Boolean() bool    { return true }
func (Comparison) Boolean() bool  { return true }
func (Conjunction) Boolean() bool { return true }
func (Ratio) Boolean() bool       { return false }

func (Constant) String() string { return "1" }

func (c Comparison) String() string {
	return c.Feature.String() + " " + c.Op.String() + " " + strconv.Itoa(c.Threshold)
}

func (c Conjunction) String() string {
	parts := make([]string, 0, len(c.Terms))
	for _, t := range c.Terms {
		parts = append(parts, "("+t.String()+")")
	}
	return strings.Join(parts, " * ")
}

func (r Ratio) String() string {
	return r.Numerator.String() + " / " + r.Denominator.String()
}

// Holds reports whether the comparison is true for structure s.
func (c Comparison) Holds(s glycan.Structure) bool {
	return c.Op.Compare(s.Count(c.Feature), c.Threshold)
}

// Holds reports whether every term is true for structure s. An empty
// conjunction holds trivially.
func (c Conjunction) Holds(s glycan.Structure) bool {
	for _, t := range c.Terms {
		if !t.Holds(s) {
			return false
		}
	}
	return true
}

// Eval evaluates e against a single structure. Boolean expressions yield 1 or
// 0. defined is false only for a Ratio whose denominator count is zero.
func Eval(e Expr, s glycan.Structure) (value float64, defined bool) {
	switch x := e.(type) {
	case Constant:
		return 1, true
	case Comparison:
		return indicator(x.Holds(s)), true
	case Conjunction:
		return indicator(x.Holds(s)), true
	case Ratio:
		d := s.Count(x.Denominator)
		if d == 0 {
			return 0, false
		}
		return float64(s.Count(x.Numerator)) / float64(d), true
	}

	return 0, false
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// FeaturesOf lists the features referenced by e, in order of appearance.
func FeaturesOf(e Expr) []glycan.Feature {
	switch x := e.(type) {
	case Comparison:
		return []glycan.Feature{x.Feature}
	case Conjunction:
		out := make([]glycan.Feature, 0, len(x.Terms))
		for _, t := range x.Terms {
			out = append(out, t.Feature)
		}
		return out
	case Ratio:
		return []glycan.Feature{x.Numerator, x.Denominator}
	}
	return nil
}
