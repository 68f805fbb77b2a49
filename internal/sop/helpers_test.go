package sop

type tree = Node[NoData]

func unit() *tree { return Unit[NoData]() }

func sum(es ...Entry[NoData]) *tree { return NewSum(es...) }

func prod(es ...Entry[NoData]) *tree { return NewProduct(es...) }

func f(label string, n *tree) Entry[NoData] { return Field(label, n) }

func r(label string, k int) Entry[NoData] { return Ref[NoData](label, k) }

func bools() *tree { return sum(f("true", unit()), f("false", unit())) }

// boolList is List<bool>.
func boolList() *tree {
	return sum(
		f("empty", unit()),
		f("list", prod(f("head", bools()), r("tail", 1))),
	)
}

// intList is List<int> with no values observed yet.
func intList() *tree {
	return sum(
		f("empty", unit()),
		f("list", prod(f("head", sum()), r("tail", 1))),
	)
}

func paths(ss ...string) []Path {
	out := make([]Path, len(ss))
	for i, s := range ss {
		out[i] = ParsePath(s)
	}
	return out
}

func strs(ps []Path) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}
