package formula

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/glytrait/glycan"
	"github.com/carbocation/pfx"
)

// Parse reads formula source and returns the formulas in source order. The
// first malformed line aborts the parse with a *ParseError; no partial set is
// ever returned.
func Parse(r io.Reader, source string) ([]Formula, error) {
	scanner := bufio.NewScanner(r)

	formulas := make([]Formula, 0)
	seen := make(map[string]int)
	comments := make([]string, 0)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		switch {
		case line == "":
			comments = comments[:0]
			continue
		case strings.HasPrefix(line, "#"):
			if text := strings.TrimSpace(strings.TrimLeft(line, "#")); text != "" {
				comments = append(comments, text)
			}
			continue
		}

		f, err := parseLine(line)
		if err != nil {
			return nil, lineError(err, source, lineNo)
		}

		if first, exists := seen[f.Name]; exists {
			return nil, &ParseError{
				Source: source,
				Line:   lineNo,
				Token:  f.Name,
				Err:    fmt.Errorf("%w (first defined on line %d)", ErrDuplicateName, first),
			}
		}
		seen[f.Name] = lineNo

		f.Line = lineNo
		f.Description = strings.Join(comments, " ")
		comments = comments[:0]

		formulas = append(formulas, f)
	}

	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(err)
	}

	return formulas, nil
}

// ParseLine parses a single formula line such as "HbF = [nF > 0] // [nN > 4]".
func ParseLine(line string) (Formula, error) {
	f, err := parseLine(strings.TrimSpace(line))
	if err != nil {
		return Formula{}, lineError(err, "inline", 1)
	}
	return f, nil
}

func lineError(err error, source string, lineNo int) error {
	pe := &ParseError{Source: source, Line: lineNo, Err: err}

	var te *tokenError
	var le *lexError
	if errors.As(err, &te) {
		pe.Token = te.token
		pe.Err = te.err
	} else if errors.As(err, &le) {
		pe.Token = le.text
		pe.Err = fmt.Errorf("%w: %v", ErrSyntax, le)
	}

	return pe
}

// tokenError ties a parse failure to the token that caused it.
type tokenError struct {
	token string
	err   error
}

func (e *tokenError) Error() string { return fmt.Sprintf("%v at %q", e.err, e.token) }

func (e *tokenError) Unwrap() error { return e.err }

func parseLine(line string) (Formula, error) {
	toks, err := lex(line)
	if err != nil {
		return Formula{}, err
	}

	p := &lineParser{toks: toks}
	return p.formula()
}

type lineParser struct {
	toks []token
	pos  int
	name string
}

func (p *lineParser) peek() token {
	return p.toks[p.pos]
}

func (p *lineParser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *lineParser) fail(t token, err error) error {
	text := t.text
	if t.kind == tokEOF {
		text = t.kind.String()
	}
	return &tokenError{token: text, err: err}
}

func (p *lineParser) expect(kind tokenKind) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, p.fail(t, fmt.Errorf("%w: expected %s, found %s", ErrSyntax, kind, t.kind))
	}
	return t, nil
}

// formula := name '=' bracket ('/' | '//') bracket
func (p *lineParser) formula() (Formula, error) {
	name, err := p.expect(tokIdent)
	if err != nil {
		return Formula{}, err
	}
	p.name = name.text

	if _, err := p.expect(tokAssign); err != nil {
		return Formula{}, err
	}

	numerator, err := p.bracket()
	if err != nil {
		return Formula{}, err
	}

	var divider Divider
	switch t := p.next(); t.kind {
	case tokSlash:
		divider = Slash
	case tokDoubleSlash:
		divider = DoubleSlash
	default:
		return Formula{}, p.fail(t, fmt.Errorf("%w: expected '/' or '//' between brackets, found %s", ErrSyntax, t.kind))
	}

	filter, err := p.bracket()
	if err != nil {
		return Formula{}, err
	}

	if t := p.next(); t.kind != tokEOF {
		return Formula{}, p.fail(t, fmt.Errorf("%w: unexpected %s after the subgroup", ErrSyntax, t.kind))
	}

	if !filter.Boolean() {
		return Formula{}, &tokenError{token: filter.String(), err: ErrRatioFilter}
	}

	return Formula{
		Name:      name.text,
		Numerator: numerator,
		Filter:    filter,
		Divider:   divider,
	}, nil
}

// bracket := '[' body ']'
func (p *lineParser) bracket() (Expr, error) {
	if _, err := p.expect(tokLBracket); err != nil {
		return nil, err
	}

	e, err := p.body()
	if err != nil {
		return nil, err
	}

	t := p.next()
	if t.kind == tokRBracket {
		return e, nil
	}

	switch e.(type) {
	case Ratio:
		if t.kind == tokCompare || t.kind == tokStar || t.kind == tokSlash {
			return nil, p.fail(t, ErrMixedExpression)
		}
	case Comparison:
		if t.kind == tokStar {
			return nil, p.fail(t, ErrUnparenthesized)
		}
		if t.kind == tokSlash {
			return nil, p.fail(t, ErrMixedExpression)
		}
	}

	return nil, p.fail(t, fmt.Errorf("%w: expected ']', found %s", ErrSyntax, t.kind))
}

// body := '1' | feature '/' feature | comparison | '(' comparison ')' ('*' '(' comparison ')')*
func (p *lineParser) body() (Expr, error) {
	t := p.peek()

	switch t.kind {
	case tokInt:
		p.next()
		if t.text != "1" {
			return nil, p.fail(t, ErrUnsupportedConstant)
		}
		return Constant{}, nil

	case tokIdent:
		feat, err := p.feature()
		if err != nil {
			return nil, err
		}

		switch p.peek().kind {
		case tokSlash:
			p.next()
			den, err := p.feature()
			if err != nil {
				return nil, err
			}
			return Ratio{Numerator: feat, Denominator: den}, nil
		case tokCompare:
			return p.comparisonRest(feat)
		}

		t := p.next()
		return nil, p.fail(t, fmt.Errorf("%w: expected a comparison operator or '/', found %s", ErrSyntax, t.kind))

	case tokLParen:
		terms := make([]Comparison, 0, 2)
		for {
			if _, err := p.expect(tokLParen); err != nil {
				return nil, err
			}
			c, err := p.comparison()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokRParen); err != nil {
				return nil, err
			}
			terms = append(terms, c)

			if p.peek().kind != tokStar {
				break
			}
			p.next()
		}

		if len(terms) == 1 {
			return terms[0], nil
		}
		return Conjunction{Terms: terms}, nil
	}

	p.next()
	return nil, p.fail(t, fmt.Errorf("%w: expected 1, a feature, or '(', found %s", ErrSyntax, t.kind))
}

func (p *lineParser) comparison() (Comparison, error) {
	feat, err := p.feature()
	if err != nil {
		return Comparison{}, err
	}

	if t := p.peek(); t.kind == tokSlash {
		return Comparison{}, p.fail(t, ErrMixedExpression)
	}

	return p.comparisonRest(feat)
}

func (p *lineParser) comparisonRest(feat glycan.Feature) (Comparison, error) {
	opTok, err := p.expect(tokCompare)
	if err != nil {
		return Comparison{}, err
	}
	op, ok := parseOperator(opTok.text)
	if !ok {
		return Comparison{}, p.fail(opTok, fmt.Errorf("%w: unknown operator", ErrSyntax))
	}

	t := p.next()
	if t.kind != tokInt {
		return Comparison{}, p.fail(t, fmt.Errorf("%w: threshold must be a non-negative integer", ErrSyntax))
	}
	k, err := strconv.Atoi(t.text)
	if err != nil {
		return Comparison{}, p.fail(t, fmt.Errorf("%w: %v", ErrSyntax, err))
	}

	return Comparison{Feature: feat, Op: op, Threshold: k}, nil
}

func (p *lineParser) feature() (glycan.Feature, error) {
	t, err := p.expect(tokIdent)
	if err != nil {
		return glycan.FeatureInvalid, err
	}

	f, ok := glycan.ParseFeature(t.text)
	if !ok {
		return glycan.FeatureInvalid, p.fail(t, &UnknownFeatureError{Formula: p.name, Feature: t.text})
	}

	return f, nil
}
