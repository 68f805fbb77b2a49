package sop

// OnlyHasBackRefs reports whether every path from n ends in a
// back-reference. A leaf is data, so it reports false.
func OnlyHasBackRefs[D comparable](n *Node[D]) bool {
	if n.IsLeaf() {
		return false
	}
	for _, e := range n.Children {
		if !e.Child.IsBackRef() && !OnlyHasBackRefs(e.Child.Node) {
			return false
		}
	}
	return true
}

// MaxBackRefDepth returns how far above n the back-references below n
// reach: 0 is n itself, 1 its parent. Leaves count as 0. The result is
// negative when every reference points strictly inside n.
func MaxBackRefDepth[D comparable](n *Node[D]) int {
	if n.IsLeaf() {
		return 0
	}
	depth := 0
	for i, e := range n.Children {
		d := e.Child.Ref
		if !e.Child.IsBackRef() {
			d = MaxBackRefDepth(e.Child.Node) - 1
		}
		if i == 0 || d > depth {
			depth = d
		}
	}
	return depth
}

// IsEmptyRecursion reports whether n holds nothing but loops back to
// itself or below: no leaves, and no reference escaping n.
func IsEmptyRecursion[D comparable](n *Node[D]) bool {
	return OnlyHasBackRefs(n) && MaxBackRefDepth(n) <= 0
}

// HasBackRefs reports whether any child below n is a back-reference.
func HasBackRefs[D comparable](n *Node[D]) bool {
	for _, e := range n.Children {
		if e.Child.IsBackRef() || HasBackRefs(e.Child.Node) {
			return true
		}
	}
	return false
}
