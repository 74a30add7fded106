package plotexpr

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestLex(t *testing.T) {
	cases := []struct {
		src    string
		tokens []lexToken
		errs   int
	}{
		// spaces
		{"", nil, 0},
		{" \t \r\n ", nil, 0},
		// numbers
		{"0", []lexToken{{text: "0", kind: tokenNum, pos: 1, num: 0}}, 0},
		{"9876543210", []lexToken{{text: "9876543210", kind: tokenNum, pos: 1, num: 9876543210}}, 0},
		{"1 0", []lexToken{{text: "1", kind: tokenNum, pos: 1, num: 1}, {text: "0", kind: tokenNum, pos: 3}}, 0},
		{"1.5", []lexToken{{text: "1.5", kind: tokenNum, pos: 1, num: 1.5}}, 0},
		{".5", []lexToken{{text: ".5", kind: tokenNum, pos: 1, num: 0.5}}, 0},
		{"2.", []lexToken{{text: "2.", kind: tokenNum, pos: 1, num: 2}}, 0},
		{"-1", []lexToken{{text: "-", kind: tokenOp, pos: 1}, {text: "1", kind: tokenNum, pos: 2, num: 1}}, 0},
		{"1.1.1", []lexToken{{pos: 1}}, 1},
		{".", []lexToken{{pos: 1}}, 1},
		// variable
		{"x", []lexToken{{text: "x", kind: tokenVar, pos: 1}}, 0},
		{"2x", []lexToken{{text: "2", kind: tokenNum, pos: 1, num: 2}, {text: "x", kind: tokenVar, pos: 2}}, 0},
		{"xx", []lexToken{{text: "x", kind: tokenVar, pos: 1}, {text: "x", kind: tokenVar, pos: 2}}, 0},
		// operators
		{"1+0", []lexToken{{text: "1", kind: tokenNum, pos: 1, num: 1}, {text: "+", kind: tokenOp, pos: 2}, {text: "0", kind: tokenNum, pos: 3}}, 0},
		{"+-*/^", []lexToken{
			{text: "+", kind: tokenOp, pos: 1},
			{text: "-", kind: tokenOp, pos: 2},
			{text: "*", kind: tokenOp, pos: 3},
			{text: "/", kind: tokenOp, pos: 4},
			{text: "^", kind: tokenOp, pos: 5},
		}, 0},
		// parentheses
		{"(1)", []lexToken{{text: "(", kind: tokenOpen, pos: 1}, {text: "1", kind: tokenNum, pos: 2, num: 1}, {text: ")", kind: tokenClose, pos: 3}}, 0},
		{" ( ) ", []lexToken{{text: "(", kind: tokenOpen, pos: 2}, {text: ")", kind: tokenClose, pos: 4}}, 0},
		// erroneous symbols
		{"$", []lexToken{{pos: 1}}, 1},
		{"y", []lexToken{{pos: 1}}, 1},
		{"x$", []lexToken{{text: "x", kind: tokenVar, pos: 1}, {pos: 2}}, 1},
		{"$x", []lexToken{{pos: 1}, {text: "x", kind: tokenVar, pos: 2}}, 1},
		{"π", []lexToken{{pos: 1}}, 1},
		{"πx", []lexToken{{pos: 1}, {text: "x", kind: tokenVar, pos: 2}}, 1},
		{"$$", []lexToken{{pos: 1}, {pos: 2}}, 2},
	}

	for _, c := range cases {
		scan := lex(strings.NewReader(c.src))
		for _, want := range c.tokens {
			got, err := scan.next()
			if got != want {
				t.Errorf("scanning %q: want %v, got %v", c.src, want, got)
			}
			if err != nil {
				if c.errs > 0 {
					c.errs--
					continue
				}
				t.Errorf("scanning %q: unexpected error %v", c.src, err)
			}
		}
		for got, err := scan.next(); got.kind != tokenEOF; got, err = scan.next() {
			if c.errs > 0 {
				c.errs--
			}
			t.Errorf("scanning %q: extra token %v with error: %v", c.src, got, err)
		}
		if c.errs > 0 {
			t.Errorf("scanning %q: not enough errors", c.src)
		}
	}
}

func TestLexError(t *testing.T) {
	cases := []struct {
		src  string
		text string
		kind string
		col  int
		msg  string
	}{
		{"$", "$", "", 1, `1: invalid character "$"`},
		{"1 + y", "y", "", 5, `5: invalid character "y"`},
		{"ππ", "π", "", 1, `1: invalid character "π"`},
		{"x + 1.2.3", "1.2.3", "number", 5, `5: invalid number "1.2.3"`},
		{".", ".", "number", 1, `1: invalid number "."`},
	}
	for _, c := range cases {
		scan := lex(strings.NewReader(c.src))
		var err error
		for err == nil {
			var tok lexToken
			tok, err = scan.next()
			if tok.kind == tokenEOF {
				break
			}
		}
		var lerr *LexError
		if !errors.As(err, &lerr) {
			t.Errorf("scanning %q: want LexError, got %v", c.src, err)
			continue
		}
		if lerr.Text != c.text || lerr.Kind != c.kind || lerr.Pos() != c.col {
			t.Errorf("scanning %q: want text %q kind %q col %d, got %+v", c.src, c.text, c.kind, c.col, lerr)
		}
		if lerr.Error() != c.msg {
			t.Errorf("scanning %q: want message %q, got %q", c.src, c.msg, lerr.Error())
		}
	}
}

func TestLexLenient(t *testing.T) {
	scan := lex(strings.NewReader("2sin1.2.3"))
	scan.lenient = true
	want := []lexToken{
		{text: "2", kind: tokenNum, pos: 1, num: 2},
		{text: "s", kind: tokenJunk, pos: 2},
		{text: "i", kind: tokenJunk, pos: 3},
		{text: "n", kind: tokenJunk, pos: 4},
		{text: "1.2.3", kind: tokenJunk, pos: 5},
		{kind: tokenEOF, pos: 10},
	}
	for _, w := range want {
		got, err := scan.next()
		if err != nil {
			t.Fatalf("lenient scan gave error %v", err)
		}
		if got != w {
			t.Errorf("want %v, got %v", w, got)
		}
	}
}

func TestLexHugeNumber(t *testing.T) {
	scan := lex(strings.NewReader("1" + strings.Repeat("0", 400)))
	tok, err := scan.next()
	if err != nil {
		t.Fatalf("huge numeral gave error %v", err)
	}
	if !math.IsInf(tok.num, 1) {
		t.Errorf("huge numeral has value %g, not +Inf", tok.num)
	}
}
