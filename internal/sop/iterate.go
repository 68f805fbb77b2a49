package sop

import (
	"iter"

	"github.com/tauroid/csv-dataflow/internal/errs"
)

// Leaves yields the path of every leaf (childless node) depth-first, in
// child order. Enumerating the leaves of a recursive type is unbounded, so
// reaching a back-reference yields a RECURSIVE_LEAF_ITERATION error and
// stops.
func Leaves[D comparable](n *Node[D]) iter.Seq2[Path, error] {
	return func(yield func(Path, error) bool) {
		leaves(n, Path{}, yield)
	}
}

func leaves[D comparable](n *Node[D], prefix Path, yield func(Path, error) bool) bool {
	if n.IsLeaf() {
		return yield(prefix, nil)
	}
	for _, e := range n.Children {
		p := prefix.Append(e.Label)
		if e.Child.IsBackRef() {
			yield(nil, errs.AtPath(errs.RecursiveLeafIteration, p,
				"leaf iteration would unroll back-reference %d", e.Child.Ref))
			return false
		}
		if !leaves(e.Child.Node, p, yield) {
			return false
		}
	}
	return true
}

// LeafPaths collects Leaves.
func LeafPaths[D comparable](n *Node[D]) ([]Path, error) {
	var out []Path
	for p, err := range Leaves(n) {
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// AllPaths yields every path in n, root first, level by level. Paths longer
// than maxDepth are skipped; a negative maxDepth means no limit.
// Back-references are not followed.
func AllPaths[D comparable](n *Node[D], maxDepth int) iter.Seq[Path] {
	return func(yield func(Path) bool) {
		for p := range AllPathsWithData(n, maxDepth) {
			if !yield(p) {
				return
			}
		}
	}
}

// AllPathsWithData is AllPaths paired with each node's data.
func AllPathsWithData[D comparable](n *Node[D], maxDepth int) iter.Seq2[Path, D] {
	return func(yield func(Path, D) bool) {
		level := []pathItem[D]{{node: n, path: Path{}}}
		for depth := 0; len(level) > 0; depth++ {
			if maxDepth >= 0 && depth > maxDepth {
				return
			}
			var next []pathItem[D]
			for _, it := range level {
				if !yield(it.path, it.node.Data) {
					return
				}
				for _, e := range it.node.Children {
					if e.Child.IsBackRef() {
						continue
					}
					next = append(next, pathItem[D]{node: e.Child.Node, path: it.path.Append(e.Label)})
				}
			}
			level = next
		}
	}
}

type pathItem[D comparable] struct {
	node *Node[D]
	path Path
}
