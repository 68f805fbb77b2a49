package sop

import (
	"github.com/tauroid/csv-dataflow/internal/stack"
)

// Unroll materialises back-references up to depth levels deep along each
// branch and cuts the remaining ones to Unit. The result has no
// back-references, which makes it usable as a clip tree: Unroll(n, 1) shows
// a recursive type with one level of recursion expanded.
func Unroll[D comparable](n *Node[D], depth int) (*Node[D], error) {
	return unroll(n, nil, depth, Path{})
}

func unroll[D comparable](n *Node[D], st *stack.Stack[*Node[D]], depth int, path Path) (*Node[D], error) {
	cst := stack.Push(st, n)
	children := make([]Entry[D], 0, len(n.Children))
	for _, e := range n.Children {
		childPath := path.Append(e.Label)
		childDepth := depth
		if e.Child.IsBackRef() {
			if depth <= 0 {
				children = append(children, Field(e.Label, Unit[D]()))
				continue
			}
			childDepth--
		}
		child, err := unrollChild(cst, e.Child, childPath)
		if err != nil {
			return nil, err
		}
		unrolled, err := unroll(child, cst, childDepth, childPath)
		if err != nil {
			return nil, err
		}
		children = append(children, Field(e.Label, unrolled))
	}
	return n.withChildren(children), nil
}
