package plotexpr_test

import (
	"errors"
	"math"
	"math/big"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/zephyrtronium/bigfloat"

	"github.com/zephyrtronium/plotexpr"
)

// oracle evaluates infix expressions directly by recursive descent in high
// precision. It tracks the largest magnitude of any intermediate value so that
// comparisons can allow for cancellation in float64.
type oracle struct {
	src  string
	pos  int
	x    *big.Float
	max  float64
	zero bool
	// unstable is set when a divisor is so small relative to other values
	// that float64 rounding could change the result arbitrarily.
	unstable bool
}

const oraclePrec = 256

func newOracle(src string, x float64) *oracle {
	return &oracle{src: src, x: new(big.Float).SetPrec(oraclePrec).SetFloat64(x)}
}

func (o *oracle) note(v *big.Float) *big.Float {
	f, _ := v.Float64()
	if f = math.Abs(f); f > o.max {
		o.max = f
	}
	return v
}

func (o *oracle) peek() byte {
	if o.pos < len(o.src) {
		return o.src[o.pos]
	}
	return 0
}

func (o *oracle) expr() *big.Float {
	l := o.term()
	for {
		switch o.peek() {
		case '+':
			o.pos++
			l = o.note(new(big.Float).SetPrec(oraclePrec).Add(l, o.term()))
		case '-':
			o.pos++
			l = o.note(new(big.Float).SetPrec(oraclePrec).Sub(l, o.term()))
		default:
			return l
		}
	}
}

func (o *oracle) term() *big.Float {
	l := o.factor()
	for {
		switch o.peek() {
		case '*':
			o.pos++
			l = o.note(new(big.Float).SetPrec(oraclePrec).Mul(l, o.factor()))
		case '/':
			o.pos++
			r := o.factor()
			if r.Sign() == 0 {
				o.zero = true
				return l
			}
			if f, _ := r.Float64(); math.Abs(f) < 1e-3*math.Max(1, o.max) {
				o.unstable = true
			}
			l = o.note(new(big.Float).SetPrec(oraclePrec).Quo(l, r))
		default:
			return l
		}
	}
}

func (o *oracle) factor() *big.Float {
	b := o.atom()
	if o.peek() != '^' {
		return b
	}
	o.pos++
	e := o.factor()
	return o.note(bigfloat.Pow(new(big.Float).SetPrec(oraclePrec), b, e))
}

func (o *oracle) atom() *big.Float {
	switch c := o.peek(); {
	case c == 'x':
		o.pos++
		return new(big.Float).Copy(o.x)
	case c == '(':
		o.pos++
		v := o.expr()
		o.pos++ // )
		return v
	default:
		start := o.pos
		for c := o.peek(); c == '.' || '0' <= c && c <= '9'; c = o.peek() {
			o.pos++
		}
		v, _, err := big.ParseFloat(o.src[start:o.pos], 10, oraclePrec, big.ToNearestEven)
		if err != nil {
			panic(err)
		}
		return o.note(v)
	}
}

// genExpr generates a random infix expression whose exponentiations all have
// positive bases and small exponents.
func genExpr(rng *rand.Rand, depth int) string {
	var b strings.Builder
	n := 1 + rng.Intn(4)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte("+-*/"[rng.Intn(4)])
		}
		switch r := rng.Intn(10); {
		case r < 2 && depth > 0:
			b.WriteByte('(')
			b.WriteString(genExpr(rng, depth-1))
			b.WriteByte(')')
		case r < 5:
			b.WriteString(genBase(rng))
			b.WriteByte('^')
			b.WriteString(strconv.Itoa(1 + rng.Intn(2)))
			if rng.Intn(3) == 0 {
				b.WriteByte('^')
				b.WriteString(strconv.Itoa(1 + rng.Intn(2)))
			}
		default:
			b.WriteString(genBase(rng))
		}
	}
	return b.String()
}

func genBase(rng *rand.Rand) string {
	switch rng.Intn(3) {
	case 0:
		return "x"
	case 1:
		return strconv.Itoa(1 + rng.Intn(9))
	default:
		return strconv.Itoa(1+rng.Intn(9)) + "." + strconv.Itoa(rng.Intn(10))
	}
}

func TestEvalOracle(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	xs := []float64{0.5, 1, 1.5, 2, 3}
	for i := 0; i < 500; i++ {
		src := genExpr(rng, 2)
		p, err := plotexpr.Compile(src)
		if err != nil {
			t.Fatalf("%q failed to compile: %v", src, err)
		}
		for _, x := range xs {
			o := newOracle(src, x)
			want := o.expr()
			got, err := p.Eval(x)
			if o.unstable {
				continue
			}
			if o.zero {
				// Divisors here are never literal zeros, so float64 rounding
				// may leave a residue where the exact value cancels.
				if err != nil && !errors.Is(err, plotexpr.ErrDivideByZero) {
					t.Errorf("%q at %g: want ErrDivideByZero, got %v", src, x, err)
				}
				continue
			}
			if err != nil {
				t.Errorf("%q at %g: unexpected error %v", src, x, err)
				continue
			}
			w, _ := want.Float64()
			tol := 1e-6 * math.Max(1, o.max)
			if math.Abs(got-w) > tol {
				t.Errorf("%q at %g: want %g, got %g (postfix %v)", src, x, w, got, p)
			}
		}
	}
}
