package relation

import (
	"github.com/tauroid/csv-dataflow/internal/errs"
	"github.com/tauroid/csv-dataflow/internal/sop"
	"github.com/tauroid/csv-dataflow/internal/stack"
)

// Clip collapses r to the visible region given by sourceClip and
// targetClip, trees without back-references such as sop.Unroll produces.
//
// While a relation's frame lies inside both clip trees its structure is
// kept and the trees of each Basic or Copy are clipped with sop.Clip. A
// Parallel whose frame leaves either clip tree is replaced by a summary
// Basic relating the two clip nodes where the frame was cut off. Offsets
// are clipped the same way. A Parallel left with a single child is merged
// into its parent and duplicate children are dropped.
func Clip[D comparable](r Relation[D], sourceClip, targetClip *sop.Node[D]) (Relation[D], error) {
	if sop.HasBackRefs(sourceClip) {
		return nil, errs.New(errs.UnsupportedRecursiveClip, "source clip tree contains back-references")
	}
	if sop.HasBackRefs(targetClip) {
		return nil, errs.New(errs.UnsupportedRecursiveClip, "target clip tree contains back-references")
	}
	c := clipper[D]{source: sourceClip, target: targetClip}
	return c.clip(r, sop.Path{}, sop.Path{}, nil)
}

type clipper[D comparable] struct {
	source *sop.Node[D]
	target *sop.Node[D]
}

func (c clipper[D]) clip(r Relation[D], sourcePrefix, targetPrefix sop.Path, st *stack.Stack[*Parallel[D]]) (Relation[D], error) {
	clippedSource, err := sop.ClipPath(c.source, sourcePrefix)
	if err != nil {
		return nil, err
	}
	clippedTarget, err := sop.ClipPath(c.target, targetPrefix)
	if err != nil {
		return nil, err
	}
	sourceInside := clippedSource.Equal(sourcePrefix)
	targetInside := clippedTarget.Equal(targetPrefix)

	switch r := r.(type) {
	case *Basic[D], *Copy[D]:
		source, target, _ := sides[D](r)
		source, err = clipSide(source, c.source, sourcePrefix, clippedSource, sourceInside)
		if err != nil {
			return nil, err
		}
		target, err = clipSide(target, c.target, targetPrefix, clippedTarget, targetInside)
		if err != nil {
			return nil, err
		}
		return withSides(r, source, target), nil

	case *Parallel[D]:
		if !sourceInside || !targetInside {
			return c.summary(clippedSource, clippedTarget)
		}

		cst := stack.Push(st, r)
		var children []ParallelChild[D]
		for _, pc := range r.Children {
			child, err := unrollChild(cst, pc)
			if err != nil {
				return nil, err
			}
			childSource := sourcePrefix.Append(pc.Between.Source...)
			childTarget := targetPrefix.Append(pc.Between.Target...)

			clipped, err := c.clip(child, childSource, childTarget, cst)
			if err != nil {
				return nil, err
			}
			between, err := c.clipBetween(childSource, childTarget, len(sourcePrefix), len(targetPrefix))
			if err != nil {
				return nil, err
			}
			children = appendUnique(children, flatten(Child(clipped, between)))
		}
		return &Parallel[D]{Children: children, Reduced: r.Reduced}, nil

	default:
		return nil, seriesError()
	}
}

func clipSide[D comparable](tree, clip *sop.Node[D], prefix, clipped sop.Path, inside bool) (*sop.Node[D], error) {
	if tree == nil {
		return nil, nil
	}
	if !inside {
		return sop.At(clip, clipped)
	}
	clipAt, err := sop.At(clip, prefix)
	if err != nil {
		return nil, err
	}
	return sop.Clip(tree, clipAt)
}

func (c clipper[D]) summary(source, target sop.Path) (Relation[D], error) {
	s, err := sop.At(c.source, source)
	if err != nil {
		return nil, err
	}
	t, err := sop.At(c.target, target)
	if err != nil {
		return nil, err
	}
	return NewBasic(s, t), nil
}

func (c clipper[D]) clipBetween(source, target sop.Path, sourceOffset, targetOffset int) (Between, error) {
	s, err := sop.ClipPath(c.source, source)
	if err != nil {
		return Between{}, err
	}
	t, err := sop.ClipPath(c.target, target)
	if err != nil {
		return Between{}, err
	}
	return Between{Source: s[sourceOffset:], Target: t[targetOffset:]}, nil
}

// flatten lifts the only child of a single-child Parallel into pc's place.
// Back-reference grandchildren stay put, since lifting them would change
// what they refer to.
func flatten[D comparable](pc ParallelChild[D]) ParallelChild[D] {
	p, ok := pc.Relation.(*Parallel[D])
	if !ok || len(p.Children) != 1 || p.Children[0].IsBackRef() {
		return pc
	}
	only := p.Children[0]
	return Child(only.Relation, Between{
		Source: pc.Between.Source.Append(only.Between.Source...),
		Target: pc.Between.Target.Append(only.Between.Target...),
	})
}

func appendUnique[D comparable](children []ParallelChild[D], pc ParallelChild[D]) []ParallelChild[D] {
	for _, existing := range children {
		if childEqual(existing, pc) {
			return children
		}
	}
	return append(children, pc)
}
