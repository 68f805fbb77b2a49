package relation

import (
	"github.com/tauroid/csv-dataflow/internal/errs"
	"github.com/tauroid/csv-dataflow/internal/sop"
)

// Relation is one of *Basic, *Copy, *Parallel or *Series.
type Relation[D comparable] interface {
	// Full reports whether nothing below this relation was removed by
	// Filter.
	Full() bool
	isRelation(D)
}

// Basic relates every full grouping of Source to every full grouping of
// Target. A grouping is full if it holds every member of the path set,
// counting sibling Sum branches as alternatives to each other.
//
// Either side may be nil; Filter uses Basic{nil, nil} as the placeholder
// for a removed relation.
type Basic[D comparable] struct {
	Source  *sop.Node[D]
	Target  *sop.Node[D]
	Reduced bool
}

// Copy requires all selected Source branches to hold the same value and
// propagates that value unchanged to every Target branch.
type Copy[D comparable] struct {
	Source  *sop.Node[D]
	Target  *sop.Node[D]
	Reduced bool
}

// Parallel is the union of its children, each framed by its Between.
type Parallel[D comparable] struct {
	Children []ParallelChild[D]
	Reduced  bool
}

// ParallelChild is a framed child relation, or a back-reference Ref to an
// enclosing Parallel when Relation is nil (0 is the Parallel holding the
// child).
type ParallelChild[D comparable] struct {
	Relation Relation[D]
	Ref      int
	Between  Between
}

// IsBackRef reports whether c is a back-reference.
func (c ParallelChild[D]) IsBackRef() bool {
	return c.Relation == nil
}

// Series composes stages in sequence, each stage's target being the type
// Via that the next stage reads from.
type Series[D comparable] struct {
	Stages []Stage[D]
	Last   Relation[D]
}

// Stage is one step of a Series.
type Stage[D comparable] struct {
	Relation Relation[D]
	Via      *sop.Node[D]
}

func (r *Basic[D]) Full() bool    { return !r.Reduced }
func (r *Copy[D]) Full() bool     { return !r.Reduced }
func (r *Parallel[D]) Full() bool { return !r.Reduced }
func (r *Series[D]) Full() bool   { return true }

func (*Basic[D]) isRelation(D)    {}
func (*Copy[D]) isRelation(D)     {}
func (*Parallel[D]) isRelation(D) {}
func (*Series[D]) isRelation(D)   {}

// NewBasic builds a Basic relation.
func NewBasic[D comparable](source, target *sop.Node[D]) *Basic[D] {
	return &Basic[D]{Source: source, Target: target}
}

// NewCopy builds a Copy relation.
func NewCopy[D comparable](source, target *sop.Node[D]) *Copy[D] {
	return &Copy[D]{Source: source, Target: target}
}

// NewParallel builds a Parallel relation.
func NewParallel[D comparable](children ...ParallelChild[D]) *Parallel[D] {
	return &Parallel[D]{Children: children}
}

// NewSeries always fails: sequential composition has no defined semantics
// yet.
func NewSeries[D comparable](stages []Stage[D], last Relation[D]) (*Series[D], error) {
	return nil, seriesError()
}

// Placeholder is what Filter leaves in place of a removed relation.
func Placeholder[D comparable]() *Basic[D] {
	return &Basic[D]{Reduced: true}
}

// Child frames r by between.
func Child[D comparable](r Relation[D], between Between) ParallelChild[D] {
	return ParallelChild[D]{Relation: r, Between: between}
}

// BackRef frames a reference to the enclosing Parallel k levels up.
func BackRef[D comparable](k int, between Between) ParallelChild[D] {
	return ParallelChild[D]{Ref: k, Between: between}
}

// sides returns the source and target trees of a Basic or Copy.
func sides[D comparable](r Relation[D]) (source, target *sop.Node[D], ok bool) {
	switch r := r.(type) {
	case *Basic[D]:
		return r.Source, r.Target, true
	case *Copy[D]:
		return r.Source, r.Target, true
	}
	return nil, nil, false
}

// withSides rebuilds a Basic or Copy with new trees, keeping its variant.
func withSides[D comparable](r Relation[D], source, target *sop.Node[D]) Relation[D] {
	switch r := r.(type) {
	case *Copy[D]:
		return &Copy[D]{Source: source, Target: target, Reduced: r.Reduced}
	case *Basic[D]:
		return &Basic[D]{Source: source, Target: target, Reduced: r.Reduced}
	}
	return r
}

func seriesError() error {
	return errs.New(errs.NotImplemented, "series relations are not supported")
}
