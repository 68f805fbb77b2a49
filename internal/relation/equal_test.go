package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tauroid/csv-dataflow/internal/errs"
	"github.com/tauroid/csv-dataflow/internal/sop"
)

func TestEqual(t *testing.T) {
	assert.True(t, Equal[sop.NoData](mapFlip(), mapFlip()))
	assert.True(t, Equal[sop.NoData](nil, nil))

	reduced := mapFlip()
	reduced.Reduced = true
	assert.False(t, Equal[sop.NoData](mapFlip(), reduced))

	swapped := NewParallel(flip().Children[1], flip().Children[0])
	assert.False(t, Equal[sop.NoData](flip(), swapped), "children compare in order")

	assert.False(t, Equal[sop.NoData](basic(unit(), unit()), NewCopy(unit(), unit())))
	assert.False(t, Equal[sop.NoData](basic(unit(), nil), basic(unit(), unit())))
	assert.False(t, Equal[sop.NoData](
		NewParallel(BackRef[sop.NoData](0, between("a", "a"))),
		NewParallel(BackRef[sop.NoData](1, between("a", "a"))),
	))
}

func TestMapData(t *testing.T) {
	got, err := MapData(Relation[sop.NoData](mapFlip()), func(sop.NoData) int { return 7 })
	require.NoError(t, err)

	p := got.(*Parallel[int])
	require.Len(t, p.Children, 3)
	assert.Equal(t, 7, p.Children[0].Relation.(*Basic[int]).Source.Data)
	assert.True(t, p.Children[2].IsBackRef())
	assert.Equal(t, 0, p.Children[2].Ref)
	assert.Equal(t, "list/tail", p.Children[2].Between.Source.String())

	_, err = MapData(Relation[sop.NoData](&Series[sop.NoData]{}), func(sop.NoData) int { return 0 })
	assert.ErrorIs(t, err, errs.ErrNotImplemented)
}

func TestFormat(t *testing.T) {
	assert.Equal(t,
		"Parallel{Basic(Unit, Unit) @ (true, false), Basic(Unit, Unit) @ (false, true)}",
		Format[sop.NoData](flip()))
	assert.Equal(t, "Basic(None, None)-", Format[sop.NoData](Placeholder[sop.NoData]()))
	assert.Equal(t,
		"Parallel{BackRef(0) @ (list/tail, list/tail)}",
		Format[sop.NoData](NewParallel(BackRef[sop.NoData](0, between("list/tail", "list/tail")))))
}
