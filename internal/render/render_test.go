package render

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tauroid/csv-dataflow/internal/ingest"
	"github.com/tauroid/csv-dataflow/internal/relation"
	"github.com/tauroid/csv-dataflow/internal/sop"
	"github.com/tauroid/csv-dataflow/internal/testutil"
)

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func between(s, t string) relation.Between {
	return relation.Between{Source: sop.ParsePath(s), Target: sop.ParsePath(t)}
}

func basic() *relation.Basic[sop.NoData] {
	return relation.NewBasic(sop.Unit[sop.NoData](), sop.Unit[sop.NoData]())
}

func TestTree_BoolList(t *testing.T) {
	n, err := sop.FromType[sop.NoData](testutil.BoolListType())
	require.NoError(t, err)

	golden(t).Assert(t, "bool_list", []byte(Tree(n)))
}

func TestTree_Small(t *testing.T) {
	assert.Equal(t, "None\n", Tree[sop.NoData](nil))
	assert.Equal(t, "Unit\n", Tree(sop.Unit[sop.NoData]()))
	assert.Equal(t, "Void\n", Tree(sop.Void[sop.NoData]()))
}

func TestTree_Data(t *testing.T) {
	n := sop.NewProduct(
		sop.Field("name", sop.Void[int]()),
		sop.Field("tag", sop.Unit[int]().WithData(3)),
	).WithData(1)

	assert.Equal(t, strings.Join([]string{
		"Product [1]",
		"  name: Void",
		"  tag: Unit [3]",
		"",
	}, "\n"), Tree(n))
}

func TestRelation_ClippedMapFlip(t *testing.T) {
	flip := relation.NewParallel(
		relation.Child[sop.NoData](basic(), between("true", "false")),
		relation.Child[sop.NoData](basic(), between("false", "true")),
	)
	r := relation.NewParallel(
		relation.Child[sop.NoData](basic(), between("empty", "empty")),
		relation.Child[sop.NoData](flip, between("list/head", "list/head")),
		relation.Child[sop.NoData](basic(), between("list/tail", "list/tail")),
	)

	golden(t).Assert(t, "map_flip_clipped", []byte(Relation[sop.NoData](r)))
}

func TestRelation_Markers(t *testing.T) {
	r := relation.NewParallel(
		relation.Child[sop.NoData](relation.Placeholder[sop.NoData](), between("a", "b")),
		relation.BackRef[sop.NoData](0, between("list/tail", "list/tail")),
	)
	r.Reduced = true

	assert.Equal(t, strings.Join([]string{
		"Parallel (reduced)",
		"  [0] (a, b)",
		"    Basic (reduced)",
		"      source: None",
		"      target: None",
		"  [1] (list/tail, list/tail) -> ^0",
		"",
	}, "\n"), Relation[sop.NoData](r))
}

func TestRelation_Ingested(t *testing.T) {
	in, err := ingest.New(testutil.PersonType(), testutil.CodeType(), ingest.Options{})
	require.NoError(t, err)
	res, err := in.Read("scenario.csv", strings.NewReader("name,option,,code/x,code/y\n\"Bob\",\"yes\",\"\",\"5\",\"7\"\n"))
	require.NoError(t, err)

	golden(t).Assert(t, "ingested", []byte(Relation[sop.NoData](res.Relation)))
}
