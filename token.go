package plotexpr

import "strconv"

// Kind is the kind of a Token.
type Kind int8

const (
	kindNone Kind = iota
	// Number is a numeric literal.
	Number
	// Variable is the variable x.
	Variable
	// Operator is one of the binary operators in Operators.
	Operator
	// LeftParen is an open parenthesis.
	LeftParen
	// RightParen is a close parenthesis.
	RightParen
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=Kind -trimprefix=kind

// Token is a lexical element of an expression. Tokens are values; two tokens
// are the same token when they compare equal with ==.
type Token struct {
	Kind Kind
	// Num is the value of a Number token.
	Num float64
	// Op is the symbol of an Operator token.
	Op byte
}

// Num creates a Number token.
func Num(v float64) Token {
	return Token{Kind: Number, Num: v}
}

// Var creates the Variable token.
func Var() Token {
	return Token{Kind: Variable}
}

// Op creates an Operator token. Panics if sym is not in Operators.
func Op(sym byte) Token {
	if _, ok := binop(sym); !ok {
		panic("plotexpr: unknown operator " + strconv.QuoteRune(rune(sym)))
	}
	return Token{Kind: Operator, Op: sym}
}

// LeftParenToken and RightParenToken create parenthesis tokens.
func LeftParenToken() Token  { return Token{Kind: LeftParen} }
func RightParenToken() Token { return Token{Kind: RightParen} }

func (t Token) String() string {
	switch t.Kind {
	case Number:
		return strconv.FormatFloat(t.Num, 'g', -1, 64)
	case Variable:
		return "x"
	case Operator:
		return string(rune(t.Op))
	case LeftParen:
		return "("
	case RightParen:
		return ")"
	default:
		return "Token(" + t.Kind.String() + ")"
	}
}

// operator is an entry in the precedence table.
type operator struct {
	// prec is the precedence value. Higher binds tighter.
	prec int8
	// right indicates right-associativity.
	right bool
}

// popsBefore reports whether an operator p already on the operator stack must
// be output before pushing the incoming operator in.
func (p operator) popsBefore(in operator) bool {
	if p.prec != in.prec {
		return p.prec > in.prec
	}
	return !in.right
}

// Operators contains the binary operator symbols.
const Operators = "+-*/^"

func binop(sym byte) (operator, bool) {
	switch sym {
	case '+', '-':
		return operator{1, false}, true
	case '*', '/':
		return operator{2, false}, true
	case '^':
		return operator{3, true}, true
	}
	return operator{}, false
}
