package relation

import (
	"github.com/tauroid/csv-dataflow/internal/sop"
)

type tree = sop.Node[sop.NoData]

func unit() *tree { return sop.Unit[sop.NoData]() }

func sum(es ...sop.Entry[sop.NoData]) *tree { return sop.NewSum(es...) }

func prod(es ...sop.Entry[sop.NoData]) *tree { return sop.NewProduct(es...) }

func f(label string, n *tree) sop.Entry[sop.NoData] { return sop.Field(label, n) }

func boolList() *tree {
	return sum(
		f("empty", unit()),
		f("list", prod(
			f("head", sum(f("true", unit()), f("false", unit()))),
			sop.Ref[sop.NoData]("tail", 1),
		)),
	)
}

func basic(source, target *tree) *Basic[sop.NoData] { return NewBasic(source, target) }

func between(source, target string) Between {
	return Between{Source: sop.ParsePath(source), Target: sop.ParsePath(target)}
}

// flip relates true to false and false to true.
func flip() *Parallel[sop.NoData] {
	return NewParallel(
		Child[sop.NoData](basic(unit(), unit()), between("true", "false")),
		Child[sop.NoData](basic(unit(), unit()), between("false", "true")),
	)
}

// mapFlip applies flip to every element of a List<bool>.
func mapFlip() *Parallel[sop.NoData] {
	return NewParallel(
		Child[sop.NoData](basic(unit(), unit()), between("empty", "empty")),
		Child[sop.NoData](flip(), between("list/head", "list/head")),
		BackRef[sop.NoData](0, between("list/tail", "list/tail")),
	)
}

func clipTree(t interface{ Fatalf(string, ...any) }, depth int) *tree {
	n, err := sop.Unroll(boolList(), depth)
	if err != nil {
		t.Fatalf("unroll: %v", err)
	}
	return n
}

func mustPaths(ss ...string) []Path {
	out := make([]Path, len(ss))
	for i, s := range ss {
		out[i] = MustParsePath(s)
	}
	return out
}
