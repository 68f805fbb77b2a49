package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tauroid/csv-dataflow/internal/errs"
	"github.com/tauroid/csv-dataflow/internal/sop"
	"github.com/tauroid/csv-dataflow/internal/stack"
)

func TestIsEmptyRecursion(t *testing.T) {
	tests := []struct {
		name      string
		r         Relation[sop.NoData]
		onlyRefs  bool
		depth     int
		recursion bool
	}{
		{"basic", basic(unit(), unit()), false, 0, false},
		{"empty parallel", NewParallel[sop.NoData](), true, 0, true},
		{"self loop", NewParallel(BackRef[sop.NoData](0, between("a", "a"))), true, 0, true},
		{"loop to parent", NewParallel(BackRef[sop.NoData](1, between("a", "a"))), true, 1, false},
		{
			"nested loop to outer",
			NewParallel(Child[sop.NoData](NewParallel(BackRef[sop.NoData](1, between("a", "a"))), between("b", "b"))),
			true, 0, true,
		},
		{"map flip", mapFlip(), false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.onlyRefs, OnlyHasBackRefs(tt.r))
			assert.Equal(t, tt.depth, MaxBackRefDepth(tt.r))
			assert.Equal(t, tt.recursion, IsEmptyRecursion(tt.r))
		})
	}
}

func TestShift(t *testing.T) {
	p := NewParallel(
		Child[sop.NoData](NewParallel(
			BackRef[sop.NoData](1, between("a", "a")),
			BackRef[sop.NoData](2, between("b", "b")),
		), between("c", "c")),
		BackRef[sop.NoData](0, between("d", "d")),
		BackRef[sop.NoData](1, between("e", "e")),
	)

	got := shift(p, 2, 0)

	inner := got.Children[0].Relation.(*Parallel[sop.NoData])
	assert.Equal(t, 1, inner.Children[0].Ref, "points inside the copy")
	assert.Equal(t, 4, inner.Children[1].Ref)
	assert.Equal(t, 0, got.Children[1].Ref)
	assert.Equal(t, 3, got.Children[2].Ref)

	assert.Equal(t, 1, p.Children[2].Ref, "original untouched")
}

func TestShift_UnchangedKeepsPointer(t *testing.T) {
	p := mapFlip()
	assert.Same(t, p, shift(p, 1, 0))
}

func TestUnrollChild(t *testing.T) {
	p := mapFlip()
	st := stack.Push[*Parallel[sop.NoData]](nil, p)

	got, err := unrollChild(st, p.Children[2])
	require.NoError(t, err)
	assert.True(t, Equal[sop.NoData](p, got))

	_, err = unrollChild(st, BackRef[sop.NoData](1, between("a", "a")))
	assert.ErrorIs(t, err, errs.ErrInvalidBackRef)

	_, err = unrollChild(st, BackRef[sop.NoData](0, between("", "a")))
	assert.ErrorIs(t, err, errs.ErrInvalidBackRef)
}
