package sop

import (
	"github.com/tauroid/csv-dataflow/internal/errs"
	"github.com/tauroid/csv-dataflow/internal/stack"
)

// Clip restricts n to the branches present in clip. A leaf in clip cuts n
// off at that point; deeper structure of clip beyond n is ignored.
// Back-references in n are unrolled as clip demands. clip itself must not
// contain back-references.
func Clip[D, E comparable](n *Node[D], clip *Node[E]) (*Node[D], error) {
	return clipNode(n, nil, clip, Path{})
}

func clipNode[D, E comparable](n *Node[D], st *stack.Stack[*Node[D]], clip *Node[E], path Path) (*Node[D], error) {
	for _, ce := range clip.Children {
		if ce.Child.IsBackRef() {
			return nil, errs.AtPath(errs.UnsupportedRecursiveClip, path.Append(ce.Label),
				"clip tree contains back-reference %d", ce.Child.Ref)
		}
	}

	cst := stack.Push(st, n)
	var children []Entry[D]
	for _, e := range n.Children {
		cc, ok := clip.Lookup(e.Label)
		if !ok {
			continue
		}
		childPath := path.Append(e.Label)
		child, err := unrollChild(cst, e.Child, childPath)
		if err != nil {
			return nil, err
		}
		clipped, err := clipNode(child, cst, cc.Node, childPath)
		if err != nil {
			return nil, err
		}
		children = append(children, Field(e.Label, clipped))
	}
	return n.withChildren(children), nil
}

// ClipPath truncates path where it leaves clip: at the first leaf of clip
// it passes through. A label missing below a node that does have children
// is an error, since the path then does not belong to the clipped type.
func ClipPath[E comparable](clip *Node[E], path Path) (Path, error) {
	var st *stack.Stack[*Node[E]]
	cur := clip
	for i, label := range path {
		c, ok := cur.Lookup(label)
		if !ok {
			if cur.IsLeaf() {
				return path[:i].Clone(), nil
			}
			return nil, errs.AtPath(errs.PathNotFound, path[:i+1],
				"clip node has children but none labelled %q", label)
		}
		st = stack.Push(st, cur)
		next, err := unrollChild(st, c, path[:i+1])
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return path.Clone(), nil
}

// FromPaths builds a back-reference free tree containing exactly the given
// paths, for use as a clip tree. Every node is a Product.
func FromPaths[D comparable](paths ...Path) *Node[D] {
	root := Unit[D]()
	for _, p := range paths {
		root = addPath(root, p)
	}
	return root
}

func addPath[D comparable](n *Node[D], p Path) *Node[D] {
	if len(p) == 0 {
		return n
	}
	child := Unit[D]()
	if c, ok := n.Lookup(p[0]); ok && !c.IsBackRef() {
		child = c.Node
	}
	return n.With(p[0], Child[D]{Node: addPath(child, p[1:])})
}
