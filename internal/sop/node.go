package sop

import (
	"fmt"
	"slices"
)

// Kind tags whether a node's children are alternatives or fields.
type Kind uint8

const (
	// Sum children are mutually exclusive alternatives.
	Sum Kind = iota
	// Product children are all present together.
	Product
)

func (k Kind) String() string {
	switch k {
	case Sum:
		return "sum"
	case Product:
		return "product"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// NoData is the annotation type for trees that carry none.
type NoData = struct{}

// Child is either an owned subtree or a back-reference to an ancestor.
// A nil Node means the child is the back-reference Ref.
type Child[D comparable] struct {
	Node *Node[D]
	Ref  int
}

// IsBackRef reports whether c is a back-reference.
func (c Child[D]) IsBackRef() bool {
	return c.Node == nil
}

func (c Child[D]) String() string {
	if c.IsBackRef() {
		return fmt.Sprintf("BackRef(%d)", c.Ref)
	}
	return c.Node.String()
}

// Entry is a labelled child.
type Entry[D comparable] struct {
	Label string
	Child Child[D]
}

// Node is a tree node. Children keep insertion order and labels are unique.
//
// Nodes are immutable once built: never modify Children or Data of a node
// that may already be shared.
type Node[D comparable] struct {
	Kind     Kind
	Children []Entry[D]
	Data     D
}

// Field builds an entry holding an owned subtree.
func Field[D comparable](label string, n *Node[D]) Entry[D] {
	return Entry[D]{Label: label, Child: Child[D]{Node: n}}
}

// Ref builds an entry holding a back-reference k levels up.
func Ref[D comparable](label string, k int) Entry[D] {
	return Entry[D]{Label: label, Child: Child[D]{Ref: k}}
}

// New builds a node. Later entries replace earlier ones with the same label.
func New[D comparable](kind Kind, data D, entries ...Entry[D]) *Node[D] {
	n := &Node[D]{Kind: kind, Data: data}
	for _, e := range entries {
		n.Children = setEntry(n.Children, e)
	}
	return n
}

// NewSum builds a Sum node with zero data.
func NewSum[D comparable](entries ...Entry[D]) *Node[D] {
	var zero D
	return New(Sum, zero, entries...)
}

// NewProduct builds a Product node with zero data.
func NewProduct[D comparable](entries ...Entry[D]) *Node[D] {
	var zero D
	return New(Product, zero, entries...)
}

// Unit is the Product with no children: a leaf carrying no further
// information.
func Unit[D comparable]() *Node[D] {
	return &Node[D]{Kind: Product}
}

// Void is the Sum with no children: an impossible leaf, or an open set of
// values not yet observed.
func Void[D comparable]() *Node[D] {
	return &Node[D]{Kind: Sum}
}

// IsLeaf reports whether n has no children.
func (n *Node[D]) IsLeaf() bool {
	return len(n.Children) == 0
}

// Lookup returns the child with the given label.
func (n *Node[D]) Lookup(label string) (Child[D], bool) {
	for _, e := range n.Children {
		if e.Label == label {
			return e.Child, true
		}
	}
	return Child[D]{}, false
}

// Labels returns child labels in order.
func (n *Node[D]) Labels() []string {
	out := make([]string, len(n.Children))
	for i, e := range n.Children {
		out[i] = e.Label
	}
	return out
}

// With returns a copy of n with the child at label set to c. An existing
// child keeps its position; a new one is appended.
func (n *Node[D]) With(label string, c Child[D]) *Node[D] {
	return &Node[D]{
		Kind:     n.Kind,
		Data:     n.Data,
		Children: setEntry(slices.Clone(n.Children), Entry[D]{Label: label, Child: c}),
	}
}

// WithData returns a copy of n carrying data.
func (n *Node[D]) WithData(data D) *Node[D] {
	return &Node[D]{Kind: n.Kind, Data: data, Children: n.Children}
}

// withChildren returns a node like n with the given children.
func (n *Node[D]) withChildren(children []Entry[D]) *Node[D] {
	return &Node[D]{Kind: n.Kind, Data: n.Data, Children: children}
}

func setEntry[D comparable](entries []Entry[D], e Entry[D]) []Entry[D] {
	for i := range entries {
		if entries[i].Label == e.Label {
			entries[i] = e
			return entries
		}
	}
	return append(entries, e)
}

func (n *Node[D]) String() string {
	return Format(n)
}
