package relation

import (
	"slices"

	"github.com/tauroid/csv-dataflow/internal/errs"
	"github.com/tauroid/csv-dataflow/internal/stack"
)

// OnlyHasBackRefs reports whether every branch of r ends in a
// back-reference. Basic, Copy and Series hold data, so report false.
func OnlyHasBackRefs[D comparable](r Relation[D]) bool {
	p, ok := r.(*Parallel[D])
	if !ok {
		return false
	}
	for _, c := range p.Children {
		if !c.IsBackRef() && !OnlyHasBackRefs(c.Relation) {
			return false
		}
	}
	return true
}

// MaxBackRefDepth returns how far above r its back-references reach: 0 is
// r itself, 1 the enclosing Parallel. Relations without children count
// as 0.
func MaxBackRefDepth[D comparable](r Relation[D]) int {
	p, ok := r.(*Parallel[D])
	if !ok || len(p.Children) == 0 {
		return 0
	}
	depth := 0
	for i, c := range p.Children {
		d := c.Ref
		if !c.IsBackRef() {
			d = MaxBackRefDepth(c.Relation) - 1
		}
		if i == 0 || d > depth {
			depth = d
		}
	}
	return depth
}

// IsEmptyRecursion reports whether r relates nothing: it only loops back
// to itself or below.
func IsEmptyRecursion[D comparable](r Relation[D]) bool {
	return OnlyHasBackRefs(r) && MaxBackRefDepth(r) <= 0
}

// checkRecursiveChild enforces that recursion moves strictly deeper into
// both trees, which bounds every traversal that unrolls it.
func checkRecursiveChild[D comparable](c ParallelChild[D]) error {
	if c.IsBackRef() && (len(c.Between.Source) == 0 || len(c.Between.Target) == 0) {
		return errs.New(errs.InvalidBackRef,
			"recursive child %d must have non-empty source and target offsets, got %s", c.Ref, c.Between)
	}
	return nil
}

// unrollChild returns the relation c denotes. st holds the enclosing
// Parallels with c's parent on top. A resolved back-reference k is
// re-indexed for its new depth like sop back-references are.
func unrollChild[D comparable](st *stack.Stack[*Parallel[D]], c ParallelChild[D]) (Relation[D], error) {
	if !c.IsBackRef() {
		return c.Relation, nil
	}
	if err := checkRecursiveChild(c); err != nil {
		return nil, err
	}
	target, ok := st.At(c.Ref)
	if !ok || c.Ref < 0 {
		return nil, errs.New(errs.InvalidBackRef,
			"back-reference %d has no enclosing parallel at that depth (depth %d)", c.Ref, st.Len())
	}
	return shift(target, c.Ref+1, 0), nil
}

func shift[D comparable](p *Parallel[D], delta, depth int) *Parallel[D] {
	var children []ParallelChild[D]
	for i, c := range p.Children {
		nc := c
		switch {
		case c.IsBackRef():
			if c.Ref > depth {
				nc.Ref += delta
			}
		default:
			if inner, ok := c.Relation.(*Parallel[D]); ok {
				if shifted := shift(inner, delta, depth+1); shifted != inner {
					nc.Relation = shifted
				}
			}
		}
		if nc.Ref != c.Ref || nc.Relation != c.Relation {
			if children == nil {
				children = slices.Clone(p.Children)
			}
			children[i] = nc
		}
	}
	if children == nil {
		return p
	}
	return &Parallel[D]{Children: children, Reduced: p.Reduced}
}
