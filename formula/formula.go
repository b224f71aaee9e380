// Package formula parses and represents glycan trait formulas.
//
// A formula source is line oriented. Each formula line has the shape
//
//	Name = [numerator] / [subgroup]
//	Name = [numerator] // [subgroup]
//
// where each bracket holds the literal 1, a comparison such as nN > 4, a
// product of parenthesized comparisons such as (nN > 4) * (nF > 0), or a
// ratio of two features such as nS / nG. Lines starting with # are comments;
// a comment block directly above a formula becomes its description.
package formula

import (
	"fmt"

	"github.com/carbocation/glytrait/glycan"
)

// Divider is the presentational operator between the two brackets. Both
// dividers are evaluated identically.
type Divider uint8

const (
	Slash Divider = iota
	DoubleSlash
)

func (d Divider) String() string {
	if d == DoubleSlash {
		return "//"
	}
	return "/"
}

// Formula is a single named trait definition. Numerator is evaluated per
// structure; Filter selects the subgroup whose abundance forms the
// denominator.
type Formula struct {
	Name        string
	Description string
	Numerator   Expr
	Filter      Expr
	Divider     Divider

	// Line is the 1-based source line the formula was parsed from, or 0 for
	// formulas built in code.
	Line int
}

func (f Formula) String() string {
	return fmt.Sprintf("%s = [%s] %s [%s]", f.Name, f.Numerator, f.Divider, f.Filter)
}

// Features returns every feature referenced by the numerator and the filter.
func (f Formula) Features() []glycan.Feature {
	return append(FeaturesOf(f.Numerator), FeaturesOf(f.Filter)...)
}

// SiaLinkage reports whether the formula depends on linkage-resolved sialic
// acid counts.
func (f Formula) SiaLinkage() bool {
	for _, feat := range f.Features() {
		if feat.Linkage() {
			return true
		}
	}
	return false
}

// Validate checks that the formula is complete, references only known
// features and uses a boolean filter. Parsed formulas always pass; formulas
// built in code may not.
func (f Formula) Validate() error {
	if f.Numerator == nil || f.Filter == nil {
		return fmt.Errorf("formula %s: %w", f.Name, ErrMissingExpression)
	}

	for _, feat := range f.Features() {
		if !feat.Valid() {
			return &UnknownFeatureError{Formula: f.Name, Feature: feat.String()}
		}
	}

	for _, e := range []Expr{f.Numerator, f.Filter} {
		for _, c := range comparisonsOf(e) {
			if err := validateComparison(f.Name, c); err != nil {
				return err
			}
		}
	}

	if !f.Filter.Boolean() {
		return fmt.Errorf("formula %s: %w", f.Name, ErrRatioFilter)
	}

	return nil
}

func comparisonsOf(e Expr) []Comparison {
	switch x := e.(type) {
	case Comparison:
		return []Comparison{x}
	case Conjunction:
		return x.Terms
	}
	return nil
}

func validateComparison(name string, c Comparison) error {
	if c.Op == OpInvalid {
		return fmt.Errorf("formula %s: %w: invalid operator", name, ErrSyntax)
	}
	if c.Threshold < 0 {
		return fmt.Errorf("formula %s: %w: negative threshold %d", name, ErrSyntax, c.Threshold)
	}
	return nil
}

// ValidateAll validates every formula and checks that names are unique. It
// stops at the first problem.
func ValidateAll(formulas []Formula) error {
	seen := make(map[string]struct{}, len(formulas))
	for _, f := range formulas {
		if err := f.Validate(); err != nil {
			return err
		}
		if _, exists := seen[f.Name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateName, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}
