package plotexpr

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
	num  float64
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

// token converts a lexed token to its Token value. Panics on kinds that have
// no Token form.
func (t lexToken) token() Token {
	switch t.kind {
	case tokenNum:
		return Num(t.num)
	case tokenVar:
		return Var()
	case tokenOp:
		return Token{Kind: Operator, Op: t.text[0]}
	case tokenOpen:
		return LeftParenToken()
	case tokenClose:
		return RightParenToken()
	default:
		panic("plotexpr: no token for " + t.String())
	}
}

type tokenKind int8

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a decimal numeral.
	tokenNum
	// tokenVar is the variable x.
	tokenVar
	// tokenOp is a binary operator.
	tokenOp
	// tokenOpen is (.
	tokenOpen
	// tokenClose is ).
	tokenClose
	// tokenJunk is text the lexer does not understand. Only a lenient lexer
	// produces it.
	tokenJunk
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenEOF:
		return "EOF"
	case tokenNum:
		return "Num"
	case tokenVar:
		return "Var"
	case tokenOp:
		return "Op"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	case tokenJunk:
		return "Junk"
	}
	return "tokenKind(" + strconv.Itoa(int(k)) + ")"
}

// operandEnd reports whether a token of kind k can end an operand.
func (k tokenKind) operandEnd() bool {
	return k == tokenNum || k == tokenVar || k == tokenClose
}

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
	// lenient makes the lexer return junk tokens instead of errors.
	lenient bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{src: src}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// next scans the next token from the input, skipping whitespace. At the end of
// the input, the result is an EOF token, every time next is called.
func (l *lexer) next() (lexToken, error) {
	defer l.buf.Reset()
	for {
		r, err := l.readRune()
		pos := l.rune
		if err != nil {
			if errors.Is(err, io.EOF) {
				return lexToken{kind: tokenEOF, pos: pos + 1}, nil
			}
			return lexToken{pos: pos}, err
		}
		switch {
		case unicode.IsSpace(r):
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			return l.scanNum(pos)
		case r == 'x':
			return lexToken{text: "x", kind: tokenVar, pos: pos}, nil
		case r == '(':
			return lexToken{text: "(", kind: tokenOpen, pos: pos}, nil
		case r == ')':
			return lexToken{text: ")", kind: tokenClose, pos: pos}, nil
		case r < 0x80 && strings.IndexByte(Operators, byte(r)) >= 0:
			return lexToken{text: string(r), kind: tokenOp, pos: pos}, nil
		default:
			l.buf.WriteRune(r)
			return l.junk(pos, "")
		}
	}
}

func (l *lexer) scanNum(pos int) (lexToken, error) {
	var dig, dot, bad bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return lexToken{pos: pos}, err
		}
		if r == '.' {
			bad = bad || dot
			dot = true
		} else if '0' <= r && r <= '9' {
			dig = true
		} else {
			l.unreadRune()
			break
		}
		l.buf.WriteRune(r)
	}
	if bad || !dig {
		return l.junk(pos, "number")
	}
	text := l.buf.String()
	v, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return l.junk(pos, "number")
	}
	// Out of range numerals are ±Inf, which ParseFloat already returns.
	return lexToken{text: text, kind: tokenNum, pos: pos, num: v}, nil
}

// junk produces a junk token from the buffered text if the lexer is lenient
// or an error otherwise.
func (l *lexer) junk(pos int, kind string) (lexToken, error) {
	if l.lenient {
		return lexToken{text: l.buf.String(), kind: tokenJunk, pos: pos}, nil
	}
	return lexToken{pos: pos}, &LexError{Text: l.buf.String(), Kind: kind, Col: pos}
}

// LexError indicates an invalid character or numeral. It implements
// InputError.
type LexError struct {
	// Text is the invalid token text.
	Text string
	// Kind is the type of token the lexer was scanning. This is "number" for
	// malformed numerals or the empty string for a character that starts no
	// token.
	Kind string
	// Col is the column of the first rune of the invalid token.
	Col int
}

func (err *LexError) Error() string {
	if err.Kind == "" {
		return errpos(err.Col, "invalid character "+strconv.Quote(err.Text))
	}
	return errpos(err.Col, "invalid "+err.Kind+" "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}
