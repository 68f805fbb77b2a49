package sop

import (
	"github.com/tauroid/csv-dataflow/internal/stack"
)

// AddValuesAtPaths adds the last label of each path as a Unit child of the
// node the rest of the path leads to, unless a child with that label is
// already there.
//
// Paths are not anchored: a path matches wherever its labels appear as a
// contiguous run of child labels, starting from any node. A match may run
// through a back-reference, in which case the referenced subtree is
// materialised once in place. Inside such a copy only matches already in
// progress continue, and may run through further back-references; new
// matches do not start there since they would duplicate the match at the
// referenced node itself.
func AddValuesAtPaths[D comparable](n *Node[D], paths []Path) (*Node[D], error) {
	return addValues(n, nil, paths, nil)
}

// AddValuesAtRootedPaths is AddValuesAtPaths with every path anchored at n.
func AddValuesAtRootedPaths[D comparable](n *Node[D], paths []Path) (*Node[D], error) {
	return addValues(n, nil, nil, paths)
}

// addValues adds the values of active (paths already matched up to n) and
// of fresh (paths that may start matching at n or below). fresh is nil
// inside materialised back-references.
func addValues[D comparable](n *Node[D], st *stack.Stack[*Node[D]], fresh, active []Path) (*Node[D], error) {
	all := make([]Path, 0, len(fresh)+len(active))
	all = append(all, fresh...)
	all = append(all, active...)
	if len(all) == 0 {
		return n, nil
	}

	cst := stack.Push(st, n)
	var children []Entry[D]
	changed := false

	for _, e := range n.Children {
		sub := tails(all, e.Label)
		c := e.Child
		switch {
		case c.IsBackRef() && len(sub) == 0:
		case c.IsBackRef():
			target, err := unrollChild(cst, c, Path{e.Label})
			if err != nil {
				return nil, err
			}
			added, err := addValues(target, cst, nil, sub)
			if err != nil {
				return nil, err
			}
			if added != target {
				c = Child[D]{Node: added}
			}
		default:
			added, err := addValues(c.Node, cst, fresh, sub)
			if err != nil {
				return nil, err
			}
			c = Child[D]{Node: added}
		}
		if c != e.Child {
			changed = true
		}
		children = append(children, Entry[D]{Label: e.Label, Child: c})
	}

	for _, p := range all {
		if len(p) != 1 {
			continue
		}
		if _, ok := lookupEntry(children, p[0]); ok {
			continue
		}
		children = append(children, Field(p[0], Unit[D]()))
		changed = true
	}

	if !changed {
		return n, nil
	}
	return n.withChildren(children), nil
}

func lookupEntry[D comparable](entries []Entry[D], label string) (Child[D], bool) {
	for _, e := range entries {
		if e.Label == label {
			return e.Child, true
		}
	}
	return Child[D]{}, false
}
