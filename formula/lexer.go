package formula

import (
	"fmt"
	"unicode"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokAssign
	tokCompare
	tokSlash
	tokDoubleSlash
	tokStar
	tokLBracket
	tokRBracket
	tokLParen
	tokRParen
)

var tokenNames = map[tokenKind]string{
	tokEOF:         "end of line",
	tokIdent:       "name",
	tokInt:         "integer",
	tokAssign:      "'='",
	tokCompare:     "comparison operator",
	tokSlash:       "'/'",
	tokDoubleSlash: "'//'",
	tokStar:        "'*'",
	tokLBracket:    "'['",
	tokRBracket:    "']'",
	tokLParen:      "'('",
	tokRParen:      "')'",
}

func (k tokenKind) String() string { return tokenNames[k] }

type token struct {
	kind tokenKind
	text string
}

// lex splits one formula line into tokens. The first unrecognized character
// is reported as an error carrying that character.
func lex(line string) ([]token, error) {
	runes := []rune(line)
	out := make([]token, 0, 16)

	for i := 0; i < len(runes); {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			i++
			continue

		case unicode.IsLetter(r) || r == '_':
			j := i + 1
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}
			out = append(out, token{tokIdent, string(runes[i:j])})
			i = j
			continue

		case unicode.IsDigit(r):
			j := i + 1
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			out = append(out, token{tokInt, string(runes[i:j])})
			i = j
			continue
		}

		next := rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch r {
		case '[':
			out = append(out, token{tokLBracket, "["})
		case ']':
			out = append(out, token{tokRBracket, "]"})
		case '(':
			out = append(out, token{tokLParen, "("})
		case ')':
			out = append(out, token{tokRParen, ")"})
		case '*':
			out = append(out, token{tokStar, "*"})
		case '/':
			if next == '/' {
				out = append(out, token{tokDoubleSlash, "//"})
				i++
			} else {
				out = append(out, token{tokSlash, "/"})
			}
		case '=':
			if next == '=' {
				out = append(out, token{tokCompare, "=="})
				i++
			} else {
				out = append(out, token{tokAssign, "="})
			}
		case '<', '>', '!':
			if next == '=' {
				out = append(out, token{tokCompare, string(r) + "="})
				i++
			} else if r == '!' {
				return nil, &lexError{text: "!"}
			} else {
				out = append(out, token{tokCompare, string(r)})
			}
		default:
			return nil, &lexError{text: string(r)}
		}
		i++
	}

	return append(out, token{kind: tokEOF}), nil
}

type lexError struct {
	text string
}

func (e *lexError) Error() string {
	return fmt.Sprintf("unexpected character %q", e.text)
}
