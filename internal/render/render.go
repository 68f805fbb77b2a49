// Package render prints SOP trees and relations as indented text, one node
// per line. The output is stable and is what the CLI prints and the golden
// files record.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/tauroid/csv-dataflow/internal/relation"
	"github.com/tauroid/csv-dataflow/internal/sop"
)

const indent = "  "

// Tree renders n. Each child is printed as "label: Kind" with its children
// indented below; a childless child is printed as just its label, with
// ": Void" added for an empty Sum. Back-references print as "label -> ^k".
//
//	Sum
//	  empty
//	  list: Product
//	    head: Sum
//	      true
//	      false
//	    tail -> ^1
func Tree[D comparable](n *sop.Node[D]) string {
	var b strings.Builder
	WriteTree(&b, n)
	return b.String()
}

// WriteTree is Tree writing to w.
func WriteTree[D comparable](w io.Writer, n *sop.Node[D]) {
	if n == nil {
		fmt.Fprintln(w, "None")
		return
	}
	fmt.Fprintln(w, kind(n))
	writeChildren(w, n, 1)
}

func writeChildren[D comparable](w io.Writer, n *sop.Node[D], depth int) {
	pad := strings.Repeat(indent, depth)
	for _, e := range n.Children {
		switch {
		case e.Child.IsBackRef():
			fmt.Fprintf(w, "%s%s -> ^%d\n", pad, e.Label, e.Child.Ref)
		case e.Child.Node.IsLeaf() && e.Child.Node.Kind == sop.Product && !hasData(e.Child.Node):
			fmt.Fprintf(w, "%s%s\n", pad, e.Label)
		default:
			fmt.Fprintf(w, "%s%s: %s\n", pad, e.Label, kind(e.Child.Node))
			writeChildren(w, e.Child.Node, depth+1)
		}
	}
}

func kind[D comparable](n *sop.Node[D]) string {
	var s string
	switch {
	case n.IsLeaf() && n.Kind == sop.Product:
		s = "Unit"
	case n.IsLeaf():
		s = "Void"
	case n.Kind == sop.Product:
		s = "Product"
	default:
		s = "Sum"
	}
	if hasData(n) {
		s += fmt.Sprintf(" [%v]", n.Data)
	}
	return s
}

func hasData[D comparable](n *sop.Node[D]) bool {
	var zero D
	return n.Data != zero
}

// Relation renders r. Parallel children are numbered and show their
// offset; Basic and Copy relations show both trees.
//
//	Parallel
//	  [0] (empty, empty)
//	    Basic
//	      source: Unit
//	      target: Unit
//	  [2] (list/tail, list/tail) -> ^0
//
// Relations reduced by filtering are marked "(reduced)".
func Relation[D comparable](r relation.Relation[D]) string {
	var b strings.Builder
	WriteRelation(&b, r)
	return b.String()
}

// WriteRelation is Relation writing to w.
func WriteRelation[D comparable](w io.Writer, r relation.Relation[D]) {
	writeRelation(w, r, 0)
}

func writeRelation[D comparable](w io.Writer, r relation.Relation[D], depth int) {
	pad := strings.Repeat(indent, depth)
	mark := ""
	if r != nil && !r.Full() {
		mark = " (reduced)"
	}

	switch r := r.(type) {
	case *relation.Basic[D]:
		fmt.Fprintf(w, "%sBasic%s\n", pad, mark)
		writeSide(w, "source", r.Source, depth+1)
		writeSide(w, "target", r.Target, depth+1)
	case *relation.Copy[D]:
		fmt.Fprintf(w, "%sCopy%s\n", pad, mark)
		writeSide(w, "source", r.Source, depth+1)
		writeSide(w, "target", r.Target, depth+1)
	case *relation.Parallel[D]:
		fmt.Fprintf(w, "%sParallel%s\n", pad, mark)
		for i, c := range r.Children {
			if c.IsBackRef() {
				fmt.Fprintf(w, "%s%s[%d] %s -> ^%d\n", pad, indent, i, c.Between, c.Ref)
				continue
			}
			fmt.Fprintf(w, "%s%s[%d] %s\n", pad, indent, i, c.Between)
			writeRelation(w, c.Relation, depth+2)
		}
	case *relation.Series[D]:
		fmt.Fprintf(w, "%sSeries\n", pad)
	default:
		fmt.Fprintf(w, "%sNone\n", pad)
	}
}

func writeSide[D comparable](w io.Writer, name string, n *sop.Node[D], depth int) {
	pad := strings.Repeat(indent, depth)
	if n == nil {
		fmt.Fprintf(w, "%s%s: None\n", pad, name)
		return
	}
	fmt.Fprintf(w, "%s%s: %s\n", pad, name, kind(n))
	writeChildren(w, n, depth+1)
}
