package relation

import (
	"fmt"
	"strings"

	"github.com/tauroid/csv-dataflow/internal/sop"
)

// Format renders r on one line, e.g.
//
//	Parallel{Basic(Unit, Unit) @ (empty, empty), BackRef(0) @ (list/tail, list/tail)}
//
// Reduced relations are marked with a trailing '-'.
func Format[D comparable](r Relation[D]) string {
	var b strings.Builder
	format(&b, r)
	return b.String()
}

func format[D comparable](b *strings.Builder, r Relation[D]) {
	switch r := r.(type) {
	case *Basic[D]:
		fmt.Fprintf(b, "Basic(%s, %s)", formatTree(r.Source), formatTree(r.Target))
		if r.Reduced {
			b.WriteString("-")
		}
	case *Copy[D]:
		fmt.Fprintf(b, "Copy(%s, %s)", formatTree(r.Source), formatTree(r.Target))
		if r.Reduced {
			b.WriteString("-")
		}
	case *Parallel[D]:
		b.WriteString("Parallel{")
		for i, c := range r.Children {
			if i > 0 {
				b.WriteString(", ")
			}
			if c.IsBackRef() {
				fmt.Fprintf(b, "BackRef(%d)", c.Ref)
			} else {
				format(b, c.Relation)
			}
			fmt.Fprintf(b, " @ %s", c.Between)
		}
		b.WriteString("}")
		if r.Reduced {
			b.WriteString("-")
		}
	case *Series[D]:
		b.WriteString("Series{...}")
	default:
		b.WriteString("<nil>")
	}
}

func formatTree[D comparable](n *sop.Node[D]) string {
	if n == nil {
		return "None"
	}
	return sop.Format(n)
}
