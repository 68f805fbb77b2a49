package relation

import (
	"github.com/tauroid/csv-dataflow/internal/sop"
)

// Equal reports whether a and b are structurally equal, including the
// Reduced flags. Parallel children are compared in order.
func Equal[D comparable](a, b Relation[D]) bool {
	switch a := a.(type) {
	case *Basic[D]:
		b, ok := b.(*Basic[D])
		return ok && a.Reduced == b.Reduced && sop.Equal(a.Source, b.Source) && sop.Equal(a.Target, b.Target)
	case *Copy[D]:
		b, ok := b.(*Copy[D])
		return ok && a.Reduced == b.Reduced && sop.Equal(a.Source, b.Source) && sop.Equal(a.Target, b.Target)
	case *Parallel[D]:
		b, ok := b.(*Parallel[D])
		if !ok || a.Reduced != b.Reduced || len(a.Children) != len(b.Children) {
			return false
		}
		for i := range a.Children {
			if !childEqual(a.Children[i], b.Children[i]) {
				return false
			}
		}
		return true
	case *Series[D]:
		b, ok := b.(*Series[D])
		if !ok || len(a.Stages) != len(b.Stages) || !Equal(a.Last, b.Last) {
			return false
		}
		for i := range a.Stages {
			if !Equal(a.Stages[i].Relation, b.Stages[i].Relation) || !sop.Equal(a.Stages[i].Via, b.Stages[i].Via) {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	}
	return false
}

func childEqual[D comparable](a, b ParallelChild[D]) bool {
	if !a.Between.Equal(b.Between) || a.IsBackRef() != b.IsBackRef() {
		return false
	}
	if a.IsBackRef() {
		return a.Ref == b.Ref
	}
	return Equal(a.Relation, b.Relation)
}

// MapData converts the data of every tree node in r with f.
func MapData[D, E comparable](r Relation[D], f func(D) E) (Relation[E], error) {
	mapTree := func(n *sop.Node[D]) *sop.Node[E] {
		if n == nil {
			return nil
		}
		return sop.MapData(n, f)
	}

	switch r := r.(type) {
	case *Basic[D]:
		return &Basic[E]{Source: mapTree(r.Source), Target: mapTree(r.Target), Reduced: r.Reduced}, nil
	case *Copy[D]:
		return &Copy[E]{Source: mapTree(r.Source), Target: mapTree(r.Target), Reduced: r.Reduced}, nil
	case *Parallel[D]:
		out := &Parallel[E]{Children: make([]ParallelChild[E], len(r.Children)), Reduced: r.Reduced}
		for i, c := range r.Children {
			out.Children[i] = ParallelChild[E]{Ref: c.Ref, Between: c.Between}
			if c.IsBackRef() {
				continue
			}
			mapped, err := MapData(c.Relation, f)
			if err != nil {
				return nil, err
			}
			out.Children[i].Relation = mapped
		}
		return out, nil
	default:
		return nil, seriesError()
	}
}
