package formula

import (
	"errors"
	"fmt"
)

var (
	ErrSyntax              = errors.New("malformed formula")
	ErrMixedExpression     = errors.New("ratio cannot be combined with comparisons in one bracket")
	ErrRatioFilter         = errors.New("the subgroup after the divider must be a condition, not a ratio")
	ErrUnsupportedConstant = errors.New("only the constant 1 is supported")
	ErrDuplicateName       = errors.New("duplicate formula name")
	ErrUnparenthesized     = errors.New("comparisons joined by '*' must each be parenthesized")
	ErrMissingExpression   = errors.New("formula has no numerator or subgroup")
)

// ParseError describes why one line of formula source could not be loaded.
// Any ParseError aborts the whole load.
type ParseError struct {
	Source string // file name, or "builtin"
	Line   int    // 1-based
	Token  string // offending token, if one could be identified
	Err    error
}

func (e *ParseError) Error() string {
	loc := fmt.Sprintf("%s:%d", e.Source, e.Line)
	if e.Token != "" {
		return fmt.Sprintf("formula: %s: %v (at %q)", loc, e.Err, e.Token)
	}
	return fmt.Sprintf("formula: %s: %v", loc, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnknownFeatureError is returned when a formula names a feature outside the
// six known feature counts.
type UnknownFeatureError struct {
	Formula string
	Feature string
}

func (e *UnknownFeatureError) Error() string {
	if e.Formula == "" {
		return fmt.Sprintf("unknown feature %q", e.Feature)
	}
	return fmt.Sprintf("formula %s: unknown feature %q", e.Formula, e.Feature)
}
