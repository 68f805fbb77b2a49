package sop

import (
	"slices"

	"github.com/tauroid/csv-dataflow/internal/errs"
	"github.com/tauroid/csv-dataflow/internal/stack"
)

// unrollChild returns the subtree c denotes. st holds the ancestors of c
// with c's parent on top.
//
// A back-reference k resolves to st.At(k). The resolved subtree is
// returned as it would look materialised in c's position: references in it
// that point above it are re-indexed by k+1.
func unrollChild[D comparable](st *stack.Stack[*Node[D]], c Child[D], path Path) (*Node[D], error) {
	if !c.IsBackRef() {
		return c.Node, nil
	}
	target, ok := st.At(c.Ref)
	if !ok || c.Ref < 0 {
		return nil, errs.AtPath(errs.InvalidBackRef, path,
			"back-reference %d has no ancestor at that depth (stack depth %d)", c.Ref, st.Len())
	}
	return shift(target, c.Ref+1), nil
}

// shift adds delta to every back-reference in n that points above n.
// Subtrees without such references are shared, not copied.
func shift[D comparable](n *Node[D], delta int) *Node[D] {
	return shiftFrom(n, delta, 0)
}

func shiftFrom[D comparable](n *Node[D], delta, depth int) *Node[D] {
	var children []Entry[D]
	for i, e := range n.Children {
		ne := e
		if e.Child.IsBackRef() {
			if e.Child.Ref > depth {
				ne.Child.Ref += delta
			}
		} else {
			ne.Child.Node = shiftFrom(e.Child.Node, delta, depth+1)
		}
		if ne != e {
			if children == nil {
				children = slices.Clone(n.Children)
			}
			children[i] = ne
		}
	}
	if children == nil {
		return n
	}
	return n.withChildren(children)
}
