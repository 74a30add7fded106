// Package stack provides the LIFO container used by the compiler and the
// evaluator.
package stack

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmpty is returned by Pop and Peek on an empty stack.
var ErrEmpty = errors.New("empty stack")

// Stack is a last-in first-out stack. The zero value is an empty stack ready
// to use. It is not safe for concurrent use.
type Stack[T any] struct {
	data []T
}

// New creates a stack with room for n items before it grows.
func New[T any](n int) *Stack[T] {
	return &Stack[T]{data: make([]T, 0, n)}
}

// Push adds v to the top of the stack.
func (s *Stack[T]) Push(v T) {
	s.data = append(s.data, v)
}

// Pop removes and returns the top of the stack.
func (s *Stack[T]) Pop() (T, error) {
	var def T
	if len(s.data) == 0 {
		return def, ErrEmpty
	}
	k := len(s.data) - 1
	v := s.data[k]
	// Clear the slot so popped pointers don't stay reachable.
	s.data[k] = def
	s.data = s.data[:k]
	return v, nil
}

// Peek returns the top of the stack without removing it.
func (s *Stack[T]) Peek() (T, error) {
	if len(s.data) == 0 {
		var def T
		return def, ErrEmpty
	}
	return s.data[len(s.data)-1], nil
}

// Empty returns whether the stack holds no items.
func (s *Stack[T]) Empty() bool {
	return len(s.data) == 0
}

// Len returns the number of items on the stack.
func (s *Stack[T]) Len() int {
	return len(s.data)
}

// Reset removes all items while keeping the allocated storage.
func (s *Stack[T]) Reset() {
	var def T
	for i := range s.data {
		s.data[i] = def
	}
	s.data = s.data[:0]
}

// String formats the stack bottom to top, e.g. "[1 2 3 <top]".
func (s *Stack[T]) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range s.data {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprint(&b, v)
	}
	if len(s.data) > 0 {
		b.WriteString(" ")
	}
	b.WriteString("<top]")
	return b.String()
}
