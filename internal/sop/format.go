package sop

import (
	"fmt"
	"strings"
)

// Format renders n on one line, e.g.
//
//	Sum{empty: Unit, list: Product{head: Void, tail: BackRef(1)}}
//
// Non-zero data is shown in brackets after the kind.
func Format[D comparable](n *Node[D]) string {
	var b strings.Builder
	format(&b, n)
	return b.String()
}

func format[D comparable](b *strings.Builder, n *Node[D]) {
	if n == nil {
		b.WriteString("<nil>")
		return
	}
	var zero D
	hasData := n.Data != zero
	if n.IsLeaf() && !hasData {
		if n.Kind == Product {
			b.WriteString("Unit")
		} else {
			b.WriteString("Void")
		}
		return
	}
	if n.Kind == Product {
		b.WriteString("Product")
	} else {
		b.WriteString("Sum")
	}
	if hasData {
		fmt.Fprintf(b, "[%v]", n.Data)
	}
	b.WriteString("{")
	for i, e := range n.Children {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.Label)
		b.WriteString(": ")
		if e.Child.IsBackRef() {
			fmt.Fprintf(b, "BackRef(%d)", e.Child.Ref)
		} else {
			format(b, e.Child.Node)
		}
	}
	b.WriteString("}")
}
