package plotexpr

import (
	"errors"
	"strconv"

	"github.com/zephyrtronium/plotexpr/internal/stack"
)

var (
	// ErrEmptyStack is the error an OperandError unwraps to.
	ErrEmptyStack = stack.ErrEmpty
	// ErrDivideByZero is the error a DomainError from division unwraps to.
	ErrDivideByZero = errors.New("division by zero")
)

// BracketError is an error indicating mismatched parentheses in the input. It
// implements InputError.
type BracketError struct {
	// Col is the position of the unmatched parenthesis.
	Col int
	// Left is "(" if the error is an open parenthesis with no close.
	Left string
	// Right is ")" if the error is a close parenthesis with no open.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input to Compile implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*BracketError)(nil)
	_ InputError = (*LexError)(nil)
)

// OperandError is an error indicating an operator in a postfix expression
// with fewer than two operands available. It unwraps to ErrEmptyStack.
type OperandError struct {
	// Index is the index of the operator in the postfix expression.
	Index int
	// Op is the operator.
	Op string
}

func (err *OperandError) Error() string {
	return "missing operand for " + strconv.Quote(err.Op) + " at postfix token " + strconv.Itoa(err.Index) + ": " + ErrEmptyStack.Error()
}

func (err *OperandError) Unwrap() error {
	return ErrEmptyStack
}

// MalformedError is an error indicating that a postfix expression did not
// leave exactly one value after evaluation.
type MalformedError struct {
	// Depth is the number of values left.
	Depth int
}

func (err *MalformedError) Error() string {
	if err.Depth == 0 {
		return "malformed expression: no value"
	}
	return "malformed expression: " + strconv.Itoa(err.Depth) + " values with no operator to combine them"
}

// DomainError is an error returned when an operator is applied to arguments
// outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X float64
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is the operator.
	Func string
}

func (err *DomainError) Error() string {
	r := strconv.FormatFloat(err.X, 'g', -1, 64) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

// Unwrap returns ErrDivideByZero for a zero divisor and nil otherwise.
func (err *DomainError) Unwrap() error {
	if err.Func == "/" && err.Arg == 2 && err.X == 0 {
		return ErrDivideByZero
	}
	return nil
}

// RangeError is an error indicating a sample range that cannot be sampled.
type RangeError struct {
	Start, End float64
	Count      int
}

func (err *RangeError) Error() string {
	r := "invalid range [" + strconv.FormatFloat(err.Start, 'g', -1, 64) + ", " + strconv.FormatFloat(err.End, 'g', -1, 64) + "] with " + strconv.Itoa(err.Count) + " points"
	switch {
	case err.Count < 1:
		return r + ": need at least one point"
	case !finite(err.Start) || !finite(err.End):
		return r + ": bounds must be finite"
	default:
		return r + ": start is after end"
	}
}

// PointError is an error from evaluating one point of a sample range.
type PointError struct {
	// Index is the index of the point in the range.
	Index int
	// X is the value at which evaluation failed.
	X float64
	// Err is the evaluation error.
	Err error
}

func (err *PointError) Error() string {
	return "evaluating at x = " + strconv.FormatFloat(err.X, 'g', -1, 64) + " (point " + strconv.Itoa(err.Index) + "): " + err.Err.Error()
}

func (err *PointError) Unwrap() error {
	return err.Err
}
