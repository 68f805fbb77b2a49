package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tauroid/csv-dataflow/internal/errs"
	"github.com/tauroid/csv-dataflow/internal/sop"
)

func TestClip_CollapsesPastFirstTail(t *testing.T) {
	clip := clipTree(t, 0)

	got, err := Clip[sop.NoData](mapFlip(), clip, clip)
	require.NoError(t, err)

	want := NewParallel(
		Child[sop.NoData](basic(unit(), unit()), between("empty", "empty")),
		Child[sop.NoData](flip(), between("list/head", "list/head")),
		Child[sop.NoData](basic(unit(), unit()), between("list/tail", "list/tail")),
	)
	assert.True(t, Equal[sop.NoData](want, got), "got %s", Format(got))
}

func TestClip_OneLevelDeeper(t *testing.T) {
	clip := clipTree(t, 1)

	got, err := Clip[sop.NoData](mapFlip(), clip, clip)
	require.NoError(t, err)

	inner := NewParallel(
		Child[sop.NoData](basic(unit(), unit()), between("empty", "empty")),
		Child[sop.NoData](flip(), between("list/head", "list/head")),
		Child[sop.NoData](basic(unit(), unit()), between("list/tail", "list/tail")),
	)
	want := NewParallel(
		Child[sop.NoData](basic(unit(), unit()), between("empty", "empty")),
		Child[sop.NoData](flip(), between("list/head", "list/head")),
		Child[sop.NoData](inner, between("list/tail", "list/tail")),
	)
	assert.True(t, Equal[sop.NoData](want, got), "got %s", Format(got))
}

func TestClip_Monotonic(t *testing.T) {
	var counts []int
	for depth := 0; depth < 3; depth++ {
		clip := clipTree(t, depth)
		got, err := Clip[sop.NoData](mapFlip(), clip, clip)
		require.NoError(t, err)

		paths, err := CollectPaths(got)
		require.NoError(t, err)
		counts = append(counts, len(paths))
	}

	assert.Equal(t, []int{8, 14, 20}, counts)
}

func TestClip_SummarisesWhenEitherSideLeaves(t *testing.T) {
	target := prod(f("x", prod(f("y", unit()))))
	r := NewParallel(
		Child[sop.NoData](
			NewParallel(Child[sop.NoData](basic(unit(), unit()), between("b", "y"))),
			between("a", "x"),
		),
	)

	got, err := Clip[sop.NoData](r, unit(), target)
	require.NoError(t, err)

	want := NewParallel(Child[sop.NoData](basic(unit(), prod(f("y", unit()))), between("", "x")))
	assert.True(t, Equal[sop.NoData](want, got), "got %s", Format(got))
}

func TestClip_FlattensSingleChildParallel(t *testing.T) {
	target := prod(f("x", prod(f("y", unit()))))
	r := NewParallel(
		Child[sop.NoData](
			NewParallel(Child[sop.NoData](basic(unit(), unit()), between("b", "y"))),
			between("a", "x"),
		),
	)

	got, err := Clip[sop.NoData](r, sop.FromPaths[sop.NoData](sop.ParsePath("a")), target)
	require.NoError(t, err)

	want := NewParallel(Child[sop.NoData](basic(unit(), unit()), between("a", "x/y")))
	assert.True(t, Equal[sop.NoData](want, got), "got %s", Format(got))
}

func TestClip_ClipsBasicTrees(t *testing.T) {
	r := NewParallel(Child[sop.NoData](
		basic(sum(f("true", unit()), f("false", unit())), nil),
		between("list/head", "list/head"),
	))
	clip := sop.FromPaths[sop.NoData](sop.ParsePath("list/head/true"), sop.ParsePath("empty"))

	got, err := Clip[sop.NoData](r, clip, clip)
	require.NoError(t, err)

	want := NewParallel(Child[sop.NoData](basic(sum(f("true", unit())), nil), between("list/head", "list/head")))
	assert.True(t, Equal[sop.NoData](want, got), "got %s", Format(got))
}

func TestClip_Errors(t *testing.T) {
	_, err := Clip[sop.NoData](mapFlip(), boolList(), clipTree(t, 0))
	assert.ErrorIs(t, err, errs.ErrUnsupportedRecursiveClip)

	_, err = Clip[sop.NoData](mapFlip(), clipTree(t, 0), boolList())
	assert.ErrorIs(t, err, errs.ErrUnsupportedRecursiveClip)

	_, err = Clip[sop.NoData](&Series[sop.NoData]{}, unit(), unit())
	assert.ErrorIs(t, err, errs.ErrNotImplemented)
}
