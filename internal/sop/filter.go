package sop

import (
	"github.com/tauroid/csv-dataflow/internal/stack"
)

// FilterToPaths keeps the parts of n reachable along at least one of paths,
// which are anchored at n. A path ending at a node keeps that node's whole
// subtree. Returns nil if no path reaches an existing node.
//
// Back-references on a path are materialised so the result never refers to
// an ancestor that was itself filtered.
func FilterToPaths[D comparable](n *Node[D], paths []Path) (*Node[D], error) {
	return filterToPaths(n, nil, paths)
}

func filterToPaths[D comparable](n *Node[D], st *stack.Stack[*Node[D]], paths []Path) (*Node[D], error) {
	if len(paths) == 0 {
		return nil, nil
	}
	if containsEmpty(paths) {
		return n, nil
	}

	cst := stack.Push(st, n)
	var children []Entry[D]
	for _, e := range n.Children {
		sub := tails(paths, e.Label)
		if len(sub) == 0 {
			continue
		}
		child, err := unrollChild(cst, e.Child, Path{e.Label})
		if err != nil {
			return nil, err
		}
		kept, err := filterToPaths(child, cst, sub)
		if err != nil {
			return nil, err
		}
		if kept != nil {
			children = append(children, Field(e.Label, kept))
		}
	}

	if len(children) == 0 {
		return nil, nil
	}
	return n.withChildren(children), nil
}
