package util

import "fmt"

// Stack is a simple LIFO stack of items of type T. The zero value is an
// empty, ready-to-use stack; a stack can also be initialized directly with
// pre-existing contents via the Of field, in which case the last element of
// Of is considered the top of the stack.
type Stack[T any] struct {
	Of []T
}

// Push adds v to the top of the stack.
func (s *Stack[T]) Push(v T) {
	s.Of = append(s.Of, v)
}

// Pop removes and returns the item at the top of the stack. It panics if the
// stack is empty.
func (s *Stack[T]) Pop() T {
	if len(s.Of) == 0 {
		panic("pop of empty stack")
	}

	top := s.Of[len(s.Of)-1]
	s.Of = s.Of[:len(s.Of)-1]
	return top
}

// Peek returns the item at the top of the stack without removing it. It
// panics if the stack is empty.
func (s *Stack[T]) Peek() T {
	if len(s.Of) == 0 {
		panic("peek of empty stack")
	}

	return s.Of[len(s.Of)-1]
}

// PeekAt returns the item at depth from the top of the stack without
// removing anything; PeekAt(0) is equivalent to Peek. It panics if depth is
// out of range.
func (s *Stack[T]) PeekAt(depth int) T {
	idx := len(s.Of) - 1 - depth
	if idx < 0 || idx >= len(s.Of) {
		panic(fmt.Sprintf("peek at depth %d out of range for stack of len %d", depth, len(s.Of)))
	}
	return s.Of[idx]
}

// Len returns the number of items currently on the stack.
func (s *Stack[T]) Len() int {
	return len(s.Of)
}

// Empty returns whether the stack has no items.
func (s *Stack[T]) Empty() bool {
	return len(s.Of) == 0
}
