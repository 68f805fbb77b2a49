package relation

import (
	"github.com/tauroid/csv-dataflow/internal/errs"
	"github.com/tauroid/csv-dataflow/internal/sop"
	"github.com/tauroid/csv-dataflow/internal/stack"
)

// At resolves p to a node of the source or target tree of the Basic or
// Copy relation its prefix leads to.
func At[D comparable](r Relation[D], p Path) (*sop.Node[D], error) {
	return at(r, p, nil)
}

func at[D comparable](r Relation[D], p Path, st *stack.Stack[*Parallel[D]]) (*sop.Node[D], error) {
	if len(p.Prefix) == 0 {
		switch r := r.(type) {
		case *Basic[D], *Copy[D]:
			source, target, _ := sides[D](r)
			side := source
			if p.Point == Target {
				side = target
			}
			if side == nil {
				return nil, errs.AtPath(errs.PathNotFound, p.SOPPath, "%s side of the relation is empty", p.Point)
			}
			return sop.At(side, p.SOPPath)
		case *Parallel[D]:
			return nil, errs.AtPath(errs.PathNotFound, p.SOPPath,
				"path ends at a parallel relation, which has no trees of its own")
		default:
			return nil, seriesError()
		}
	}

	par, ok := r.(*Parallel[D])
	if !ok {
		if _, series := r.(*Series[D]); series {
			return nil, seriesError()
		}
		return nil, errs.AtPath(errs.PathNotFound, p.SOPPath,
			"child index %d given for a relation without children", p.Prefix[0])
	}

	idx := p.Prefix[0]
	if idx < 0 || idx >= len(par.Children) {
		return nil, errs.AtPath(errs.PathNotFound, p.SOPPath,
			"child index %d out of range (%d children)", idx, len(par.Children))
	}
	c := par.Children[idx]

	cst := stack.Push(st, par)
	child, err := unrollChild(cst, c)
	if err != nil {
		return nil, err
	}

	rel, ok := p.SubtractPrefixes([]int{idx}, c.Between)
	if !ok {
		return nil, errs.AtPath(errs.PathNotFound, p.SOPPath,
			"path lies outside child %d at %s", idx, c.Between)
	}
	return at(child, rel, cst)
}
