package sop

import (
	"github.com/tauroid/csv-dataflow/internal/errs"
	"github.com/tauroid/csv-dataflow/internal/stack"
	"github.com/tauroid/csv-dataflow/internal/typedesc"
)

// Labels used for the list encoding
//
//	Sum{empty: Unit, list: Product{head: Elem, tail: BackRef(1)}}
const (
	ListEmpty = "empty"
	ListCons  = "list"
	ListHead  = "head"
	ListTail  = "tail"
)

// FromType builds the tree for a type description.
//
// Records become Products with one child per field and unions Sums with one
// child per case. A bool is Sum{true: Unit, false: Unit}. Other primitives
// become an empty Sum, an open set of values filled in later from observed
// data. A reference to an enclosing named type becomes a back-reference to
// that type's node.
func FromType[D comparable](d *typedesc.Desc) (*Node[D], error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	c, err := fromType[D](d, nil, Path{})
	if err != nil {
		return nil, err
	}
	if c.IsBackRef() {
		return nil, errs.AtPath(errs.InvalidBackRef, Path{}, "root type cannot be a reference")
	}
	return c.Node, nil
}

// fromType returns the child for d. names holds the type name each
// ancestor node was built from, parent on top ("" for anonymous nodes).
func fromType[D comparable](d *typedesc.Desc, names *stack.Stack[string], path Path) (Child[D], error) {
	switch d.Kind {
	case typedesc.Ref:
		for k, name := range names.Slice() {
			if name == d.Name {
				return Child[D]{Ref: k}, nil
			}
		}
		return Child[D]{}, errs.AtPath(errs.InvalidBackRef, path, "no enclosing type named %q", d.Name)

	case typedesc.Bool:
		return Child[D]{Node: NewSum(Field("true", Unit[D]()), Field("false", Unit[D]()))}, nil

	case typedesc.Primitive:
		return Child[D]{Node: Void[D]()}, nil

	case typedesc.List:
		inner := stack.Push(stack.Push(names, d.Name), "")
		head, err := fromType[D](d.Elem, inner, path.Append(ListCons, ListHead))
		if err != nil {
			return Child[D]{}, err
		}
		cons := NewProduct(
			Entry[D]{Label: ListHead, Child: head},
			Ref[D](ListTail, 1),
		)
		return Child[D]{Node: NewSum(
			Field(ListEmpty, Unit[D]()),
			Field(ListCons, cons),
		)}, nil

	case typedesc.Record, typedesc.Union:
		kind := Product
		if d.Kind == typedesc.Union {
			kind = Sum
		}
		inner := stack.Push(names, d.Name)
		n := &Node[D]{Kind: kind}
		for _, f := range d.Fields {
			c, err := fromType[D](f.Type, inner, path.Append(f.Name))
			if err != nil {
				return Child[D]{}, err
			}
			n.Children = append(n.Children, Entry[D]{Label: f.Name, Child: c})
		}
		return Child[D]{Node: n}, nil
	}
	return Child[D]{}, errs.AtPath(errs.ShapeMismatch, path, "unknown type kind %s", d.Kind)
}
