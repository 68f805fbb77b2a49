// Package stack provides the immutable ancestor stack used to resolve
// back-references during top-down traversals of recursive trees.
//
// A back-reference k names the node k levels up the current traversal
// path: 0 is the node holding the reference, 1 its parent, and so on.
// Traversals push each node they descend into and never mutate a stack
// once built, so sibling branches share their common ancestry.
package stack

// Stack is a persistent singly-linked list of ancestors, innermost first.
// The nil *Stack is the empty stack.
type Stack[T any] struct {
	head  T
	tail  *Stack[T]
	depth int
}

// Push returns a new stack with v on top of s. s is left untouched.
func Push[T any](s *Stack[T], v T) *Stack[T] {
	return &Stack[T]{head: v, tail: s, depth: s.Len() + 1}
}

// Len returns the number of entries on the stack.
func (s *Stack[T]) Len() int {
	if s == nil {
		return 0
	}
	return s.depth
}

// Top returns the innermost entry.
func (s *Stack[T]) Top() (T, bool) {
	return s.At(0)
}

// At returns the entry k levels up (0 is the top).
// Reports false if the stack is not that deep or k is negative.
func (s *Stack[T]) At(k int) (T, bool) {
	var zero T
	if k < 0 {
		return zero, false
	}
	cur := s
	for ; k > 0 && cur != nil; k-- {
		cur = cur.tail
	}
	if cur == nil {
		return zero, false
	}
	return cur.head, true
}

// Drop returns the stack with its k innermost entries removed.
// The result of Drop(k) has the entry formerly at k on top, which is the
// lexical context of a back-reference k.
func (s *Stack[T]) Drop(k int) *Stack[T] {
	cur := s
	for ; k > 0 && cur != nil; k-- {
		cur = cur.tail
	}
	return cur
}

// Slice returns the entries innermost first.
func (s *Stack[T]) Slice() []T {
	out := make([]T, 0, s.Len())
	for cur := s; cur != nil; cur = cur.tail {
		out = append(out, cur.head)
	}
	return out
}
