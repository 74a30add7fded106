package plotexpr

import (
	"math"

	"github.com/zephyrtronium/plotexpr/internal/stack"
)

// Point is a sample of an expression, y = f(x).
type Point struct {
	X, Y float64
}

// Eval evaluates the expression with the variable set to x.
//
// Division by zero is an error that unwraps to ErrDivideByZero. Other
// operations follow IEEE 754, so e.g. (-8)^(1/3) is NaN. An operator without
// two operands is an error unwrapping to ErrEmptyStack, and an expression that
// does not reduce to a single value is a *MalformedError.
func (p *Postfix) Eval(x float64) (float64, error) {
	return p.eval(stack.New[float64](len(p.toks)/2+1), x)
}

// At evaluates the expression at x and returns the point.
func (p *Postfix) At(x float64) (Point, error) {
	y, err := p.Eval(x)
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

// eval evaluates the expression using s as the operand stack. s is reset
// first, so one stack can serve many evaluations.
func (p *Postfix) eval(s *stack.Stack[float64], x float64) (float64, error) {
	s.Reset()
	for i, t := range p.toks {
		switch t.Kind {
		case Number:
			s.Push(t.Num)
		case Variable:
			s.Push(x)
		case Operator:
			r, err := s.Pop()
			if err != nil {
				return 0, &OperandError{Index: i, Op: t.String()}
			}
			l, err := s.Pop()
			if err != nil {
				return 0, &OperandError{Index: i, Op: t.String()}
			}
			v, err := apply(t.Op, l, r)
			if err != nil {
				return 0, err
			}
			s.Push(v)
		default:
			panic("plotexpr: invalid postfix token " + t.String())
		}
	}
	if s.Len() != 1 {
		return 0, &MalformedError{Depth: s.Len()}
	}
	v, _ := s.Pop()
	return v, nil
}

func apply(op byte, l, r float64) (float64, error) {
	switch op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	case '/':
		// Guard against division by zero. NaN and infinite divisors follow
		// IEEE 754.
		if r == 0 {
			return 0, &DomainError{X: r, Arg: 2, Func: "/"}
		}
		return l / r, nil
	case '^':
		return math.Pow(l, r), nil
	default:
		panic("plotexpr: invalid operator " + string(rune(op)))
	}
}
