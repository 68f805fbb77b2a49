package sop

import (
	"github.com/tauroid/csv-dataflow/internal/errs"
	"github.com/tauroid/csv-dataflow/internal/stack"
)

// At resolves path from n, unrolling back-references on the way.
func At[D comparable](n *Node[D], path Path) (*Node[D], error) {
	var st *stack.Stack[*Node[D]]
	cur := n
	for i, label := range path {
		c, ok := cur.Lookup(label)
		if !ok {
			return nil, errs.AtPath(errs.PathNotFound, path[:i+1], "no child %q", label)
		}
		st = stack.Push(st, cur)
		next, err := unrollChild(st, c, path[:i+1])
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// ReplaceAt returns n with the node at path replaced by repl. The last
// label of path may be new, in which case repl is added as a child.
//
// Back-references along path are materialised only if the replacement
// changes them, so ReplaceAt(n, p, At(n, p)) returns n itself.
func ReplaceAt[D comparable](n *Node[D], path Path, repl *Node[D]) (*Node[D], error) {
	if len(path) == 0 {
		return nil, errs.AtPath(errs.EmptyPath, path, "cannot replace the root")
	}
	return replaceAt(n, nil, path, 0, repl)
}

func replaceAt[D comparable](n *Node[D], st *stack.Stack[*Node[D]], path Path, i int, repl *Node[D]) (*Node[D], error) {
	label := path[i]
	c, ok := n.Lookup(label)
	cst := stack.Push(st, n)

	if i == len(path)-1 {
		if ok {
			existing, err := unrollChild(cst, c, path[:i+1])
			if err != nil {
				return nil, err
			}
			if Equal(existing, repl) {
				return n, nil
			}
		}
		return n.With(label, Child[D]{Node: repl}), nil
	}

	if !ok {
		return nil, errs.AtPath(errs.PathNotFound, path[:i+1], "no child %q", label)
	}
	child, err := unrollChild(cst, c, path[:i+1])
	if err != nil {
		return nil, err
	}
	replaced, err := replaceAt(child, cst, path, i+1, repl)
	if err != nil {
		return nil, err
	}
	if replaced == child {
		return n, nil
	}
	return n.With(label, Child[D]{Node: replaced}), nil
}

// ReplaceDataAt returns n with the data of the node at path set to data.
// An empty path sets the root's data.
func ReplaceDataAt[D comparable](n *Node[D], path Path, data D) (*Node[D], error) {
	if len(path) == 0 {
		if n.Data == data {
			return n, nil
		}
		return n.WithData(data), nil
	}
	target, err := At(n, path)
	if err != nil {
		return nil, err
	}
	return ReplaceAt(n, path, target.WithData(data))
}

// MapData converts every node's data with f. Structure, including
// back-references, is preserved.
func MapData[D, E comparable](n *Node[D], f func(D) E) *Node[E] {
	out := &Node[E]{Kind: n.Kind, Data: f(n.Data)}
	if len(n.Children) > 0 {
		out.Children = make([]Entry[E], len(n.Children))
	}
	for i, e := range n.Children {
		out.Children[i] = Entry[E]{Label: e.Label, Child: Child[E]{Ref: e.Child.Ref}}
		if !e.Child.IsBackRef() {
			out.Children[i].Child.Node = MapData(e.Child.Node, f)
		}
	}
	return out
}

// Equal reports whether a and b have the same kind, data and children.
// Child order is not significant.
func Equal[D comparable](a, b *Node[D]) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind || a.Data != b.Data || len(a.Children) != len(b.Children) {
		return false
	}
	for _, e := range a.Children {
		other, ok := b.Lookup(e.Label)
		if !ok || e.Child.IsBackRef() != other.IsBackRef() {
			return false
		}
		if e.Child.IsBackRef() {
			if e.Child.Ref != other.Ref {
				return false
			}
			continue
		}
		if !Equal(e.Child.Node, other.Node) {
			return false
		}
	}
	return true
}
