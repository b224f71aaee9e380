package formula

// Operator is a comparison operator usable inside a bracket.
type Operator uint8

const (
	OpInvalid Operator = iota
	Greater
	Less
	Equal
	NotEqual
	LessEqual
	GreaterEqual
)

var operatorText = map[Operator]string{
	Greater:      ">",
	Less:         "<",
	Equal:        "==",
	NotEqual:     "!=",
	LessEqual:    "<=",
	GreaterEqual: ">=",
}

func parseOperator(s string) (Operator, bool) {
	for op, text := range operatorText {
		if text == s {
			return op, true
		}
	}
	return OpInvalid, false
}

func (o Operator) String() string {
	if s, ok := operatorText[o]; ok {
		return s
	}
	return "?"
}

func (o Operator) Compare(a, b int) bool {
	switch o {
	case Greater:
		return a > b
	case Less:
		return a < b
	case Equal:
		return a == b
	case NotEqual:
		return a != b
	case LessEqual:
		return a <= b
	case GreaterEqual:
		return a >= b
	}
	return false
}
