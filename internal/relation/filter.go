package relation

import (
	"github.com/tauroid/csv-dataflow/internal/sop"
	"github.com/tauroid/csv-dataflow/internal/stack"
)

// Filter reduces r to the parts connected to at least one of paths. Path
// prefixes are ignored; every path is relative to r's trees.
//
// A Basic or Copy is kept unchanged if its source tree has a leaf under a
// source-side path, or its target tree one under a target-side path (see
// sop.FilterToPaths); otherwise it becomes Placeholder. A path running past
// a leaf does not keep it. A Parallel child whose
// frame lies under one of paths is kept unchanged. Other children are
// filtered with the paths that fall inside their frame, and become
// Placeholder if none do. A filtered Parallel that only loops back on
// itself is also replaced by Placeholder.
//
// Reduced is set on every relation that lost something.
func Filter[D comparable](r Relation[D], paths []Path) (Relation[D], error) {
	return filter(r, paths, nil)
}

func filter[D comparable](r Relation[D], paths []Path, st *stack.Stack[*Parallel[D]]) (Relation[D], error) {
	switch r := r.(type) {
	case *Basic[D], *Copy[D]:
		source, target, _ := sides[D](r)
		for _, p := range paths {
			side := source
			if p.Point == Target {
				side = target
			}
			if side == nil {
				continue
			}
			kept, err := sop.FilterToPaths(side, []sop.Path{p.SOPPath})
			if err != nil {
				return nil, err
			}
			if kept != nil {
				return r, nil
			}
		}
		return Placeholder[D](), nil

	case *Parallel[D]:
		cst := stack.Push(st, r)
		out := &Parallel[D]{Children: make([]ParallelChild[D], len(r.Children))}
		for i, c := range r.Children {
			fc, err := filterChild(c, paths, cst)
			if err != nil {
				return nil, err
			}
			out.Children[i] = fc
			if !fc.IsBackRef() && !fc.Relation.Full() {
				out.Reduced = true
			}
		}
		return out, nil

	default:
		return nil, seriesError()
	}
}

func filterChild[D comparable](c ParallelChild[D], paths []Path, st *stack.Stack[*Parallel[D]]) (ParallelChild[D], error) {
	if err := checkRecursiveChild(c); err != nil {
		return c, err
	}

	var inner []Path
	for _, p := range paths {
		if c.Between.Side(p.Point).HasPrefix(p.SOPPath) {
			return c, nil
		}
		if rel, ok := c.Between.SubtractFrom(p); ok {
			inner = append(inner, rel)
		}
	}

	if len(inner) == 0 {
		return Child[D](Placeholder[D](), c.Between), nil
	}

	child, err := unrollChild(st, c)
	if err != nil {
		return c, err
	}
	filtered, err := filter(child, inner, st)
	if err != nil {
		return c, err
	}
	if IsEmptyRecursion(filtered) {
		filtered = Placeholder[D]()
	}
	return Child(filtered, c.Between), nil
}
