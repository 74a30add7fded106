package plotexpr

import (
	"strings"
	"unicode"

	"github.com/zephyrtronium/plotexpr/internal/stack"
)

// Postfix is a compiled expression in postfix order. A Postfix is immutable
// and safe to evaluate from any number of goroutines at once.
type Postfix struct {
	toks []Token
}

// NewPostfix creates a postfix expression from tokens already in postfix
// order. It does not check that the tokens form a well-formed expression;
// evaluation reports that. Panics if any token is a parenthesis or has an
// invalid kind.
func NewPostfix(toks ...Token) *Postfix {
	for _, t := range toks {
		switch t.Kind {
		case Number, Variable:
		case Operator:
			if _, ok := binop(t.Op); !ok {
				panic("plotexpr: unknown operator in postfix: " + t.String())
			}
		default:
			panic("plotexpr: invalid postfix token " + t.String())
		}
	}
	return &Postfix{toks: append([]Token(nil), toks...)}
}

// Tokens returns a copy of the expression's tokens.
func (p *Postfix) Tokens() []Token {
	return append([]Token(nil), p.toks...)
}

// Len returns the number of tokens in the expression.
func (p *Postfix) Len() int {
	return len(p.toks)
}

// String formats the expression as space-separated postfix, e.g. "3 4 2 * +".
func (p *Postfix) String() string {
	var b strings.Builder
	for i, t := range p.toks {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.String())
	}
	return b.String()
}

// Normalize rewrites raw input into a form Compile understands as the user
// meant it. It removes all whitespace, makes implicit multiplication explicit
// ("2x" becomes "2*x", "2(x+1)" becomes "2*(x+1)", "x(x+1)" becomes
// "x*(x+1)"), and turns unary signs into subtractions from zero ("-x" becomes
// "0-x", "2*-x" becomes "2*(0-x)").
//
// Normalize never fails. Text it does not understand is copied through so that
// Compile reports it. A sign following an operator applies to the single
// following operand only, so "2^-x^2" means "2^(0-x)^2".
func Normalize(raw string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
	l := lex(strings.NewReader(stripped))
	l.lenient = true
	var toks []lexToken
	for {
		tok, err := l.next()
		if err != nil {
			// A lenient lexer over a strings.Reader has no errors.
			panic(err)
		}
		if tok.kind == tokenEOF {
			break
		}
		toks = append(toks, tok)
	}
	var b strings.Builder
	for _, tok := range implicit(toks) {
		b.WriteString(tok.text)
	}
	return b.String()
}

var (
	synthMul   = lexToken{text: "*", kind: tokenOp}
	synthZero  = lexToken{text: "0", kind: tokenNum}
	synthOpen  = lexToken{text: "(", kind: tokenOpen}
	synthClose = lexToken{text: ")", kind: tokenClose}
)

// implicit inserts the synthetic tokens that make implicit multiplication and
// unary signs explicit.
func implicit(toks []lexToken) []lexToken {
	out := make([]lexToken, 0, len(toks)+len(toks)/2)
	// pending holds the paren depths at which a synthetic close paren ends a
	// wrapped signed operand.
	var pending []int
	depth := 0
	closeAt := func() {
		for len(pending) > 0 && pending[len(pending)-1] == depth {
			out = append(out, synthClose)
			pending = pending[:len(pending)-1]
		}
	}
	for _, tok := range toks {
		var prev tokenKind
		if len(out) > 0 {
			prev = out[len(out)-1].kind
		}
		switch tok.kind {
		case tokenVar, tokenOpen:
			if prev.operandEnd() {
				out = append(out, synthMul)
			}
		case tokenOp:
			if tok.text != "-" && tok.text != "+" {
				break
			}
			switch prev {
			case tokenNone, tokenOpen:
				out = append(out, synthZero)
			case tokenOp:
				out = append(out, synthOpen, synthZero)
				pending = append(pending, depth)
			}
		}
		out = append(out, tok)
		switch tok.kind {
		case tokenOpen:
			depth++
		case tokenClose:
			depth--
			closeAt()
		case tokenNum, tokenVar:
			closeAt()
		}
	}
	for range pending {
		out = append(out, synthClose)
	}
	return out
}

// Compile converts an infix expression to postfix. The expression may contain
// numerals, the variable x, the operators in Operators, parentheses, and
// whitespace. Implicit multiplication and unary signs are not understood; use
// Parse or Normalize for those.
//
// + and - bind loosest, then * and /, then ^. ^ is right-associative; the
// others are left-associative, so "2^3^2" is 2^9 and "8/4/2" is 1.
//
// Errors from invalid input implement InputError.
func Compile(expr string, opts ...CompileOption) (*Postfix, error) {
	var c compileConfig
	for _, opt := range opts {
		opt.compileOption(&c)
	}
	p, err := compile(expr)
	c.metrics.compiled(err)
	return p, err
}

// Parse normalizes raw input and compiles it. Error positions refer to the
// normalized text.
func Parse(raw string, opts ...CompileOption) (*Postfix, error) {
	return Compile(Normalize(raw), opts...)
}

func compile(expr string) (*Postfix, error) {
	scan := lex(strings.NewReader(expr))
	out := make([]Token, 0, len(expr))
	ops := stack.New[lexToken](8)
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenEOF:
			for !ops.Empty() {
				top, _ := ops.Pop()
				if top.kind == tokenOpen {
					return nil, &BracketError{Col: top.pos, Left: "("}
				}
				out = append(out, top.token())
			}
			return &Postfix{toks: out}, nil
		case tokenNum, tokenVar:
			out = append(out, tok.token())
		case tokenOpen:
			ops.Push(tok)
		case tokenClose:
			for {
				top, err := ops.Pop()
				if err != nil {
					return nil, &BracketError{Col: tok.pos, Right: ")"}
				}
				if top.kind == tokenOpen {
					break
				}
				out = append(out, top.token())
			}
		case tokenOp:
			in, _ := binop(tok.text[0])
			for {
				top, err := ops.Peek()
				if err != nil || top.kind == tokenOpen {
					break
				}
				if p, _ := binop(top.text[0]); !p.popsBefore(in) {
					break
				}
				ops.Pop()
				out = append(out, top.token())
			}
			ops.Push(tok)
		default:
			panic("plotexpr: unexpected token " + tok.String())
		}
	}
}

// CompileOption is an option for Compile and Parse.
type CompileOption interface {
	compileOption(*compileConfig)
}

type compileConfig struct {
	metrics *Metrics
}

type compileMetricsOpt struct{ m *Metrics }

func (o compileMetricsOpt) compileOption(c *compileConfig) {
	c.metrics = o.m
}

// CompileMetrics records compilations in m.
func CompileMetrics(m *Metrics) CompileOption {
	return compileMetricsOpt{m}
}
