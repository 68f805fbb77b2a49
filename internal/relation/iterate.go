package relation

import (
	"iter"
	"slices"

	"github.com/tauroid/csv-dataflow/internal/errs"
	"github.com/tauroid/csv-dataflow/internal/sop"
)

// Leaf is a Basic or Copy relation found inside a relation, with the
// position it was found at.
type Leaf[D comparable] struct {
	Relation Relation[D]
	Prefix   []int
	Between  Between
}

// Leaves yields every Basic and Copy relation in r depth-first. Between is
// the accumulated offset of the leaf within r's trees. Back-references
// cannot be enumerated and end the sequence with a
// RECURSIVE_LEAF_ITERATION error.
func Leaves[D comparable](r Relation[D]) iter.Seq2[Leaf[D], error] {
	return func(yield func(Leaf[D], error) bool) {
		leaves(r, nil, Identity, yield)
	}
}

func leaves[D comparable](r Relation[D], prefix []int, between Between, yield func(Leaf[D], error) bool) bool {
	switch r := r.(type) {
	case *Basic[D], *Copy[D]:
		return yield(Leaf[D]{Relation: r, Prefix: prefix, Between: between}, nil)
	case *Parallel[D]:
		for i, c := range r.Children {
			childPrefix := append(slices.Clone(prefix), i)
			if c.IsBackRef() {
				yield(Leaf[D]{}, errs.New(errs.RecursiveLeafIteration,
					"child %v is back-reference %d; recursive relations cannot be enumerated", childPrefix, c.Ref))
				return false
			}
			childBetween := Between{
				Source: between.Source.Append(c.Between.Source...),
				Target: between.Target.Append(c.Between.Target...),
			}
			if !leaves(c.Relation, childPrefix, childBetween, yield) {
				return false
			}
		}
		return true
	default:
		yield(Leaf[D]{}, seriesError())
		return false
	}
}

// Paths yields a Path for every leaf of every tree in r, source before
// target within each leaf relation. Prefix records where each was found.
func Paths[D comparable](r Relation[D]) iter.Seq2[Path, error] {
	return func(yield func(Path, error) bool) {
		for leaf, err := range Leaves(r) {
			if err != nil {
				yield(Path{}, err)
				return
			}
			source, target, _ := sides(leaf.Relation)
			for _, side := range []struct {
				point Point
				tree  *sop.Node[D]
			}{{Source, source}, {Target, target}} {
				if side.tree == nil {
					continue
				}
				for p, err := range sop.Leaves(side.tree) {
					if err != nil {
						yield(Path{}, err)
						return
					}
					path := Path{
						Point:   side.point,
						SOPPath: leaf.Between.Side(side.point).Append(p...),
						Prefix:  leaf.Prefix,
					}
					if !yield(path, nil) {
						return
					}
				}
			}
		}
	}
}

// CollectPaths collects Paths.
func CollectPaths[D comparable](r Relation[D]) ([]Path, error) {
	var out []Path
	for p, err := range Paths(r) {
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
