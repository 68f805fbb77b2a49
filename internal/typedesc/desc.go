// Package typedesc describes nominal algebraic types: records of named
// fields, tagged unions of named cases, homogeneous lists, booleans and
// opaque primitives.
//
// Descriptions are built either with the constructors in this file or by
// compiling CUE definitions (see cue.go). The SOP model maps a description
// onto a sum-of-products tree.
package typedesc

import (
	"fmt"
	"strings"
)

// Kind tags the shape of a description.
type Kind int

const (
	// Primitive is an opaque scalar (string, int, ...). Its values are only
	// known from observed data.
	Primitive Kind = iota
	// Bool is the two-case union true | false.
	Bool
	// Record is a product of named fields.
	Record
	// Union is a tagged union of named cases.
	Union
	// List is a homogeneous sequence of Elem.
	List
	// Ref refers to an enclosing named description, for recursive types.
	Ref
)

func (k Kind) String() string {
	switch k {
	case Primitive:
		return "primitive"
	case Bool:
		return "bool"
	case Record:
		return "record"
	case Union:
		return "union"
	case List:
		return "list"
	case Ref:
		return "ref"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Desc is a type description.
type Desc struct {
	// Name is the nominal name. Required for Ref targets, optional otherwise.
	Name string
	Kind Kind
	// Fields holds record fields or union cases, in declaration order.
	Fields []Field
	// Elem is the element type of a List.
	Elem *Desc
}

// Field is a named member of a record or union.
type Field struct {
	Name string
	Type *Desc
}

// F is shorthand for a Field.
func F(name string, t *Desc) Field {
	return Field{Name: name, Type: t}
}

// NewPrimitive describes an opaque scalar such as "string" or "int".
func NewPrimitive(name string) *Desc {
	return &Desc{Name: name, Kind: Primitive}
}

// NewBool describes a boolean.
func NewBool() *Desc {
	return &Desc{Name: "bool", Kind: Bool}
}

// NewRecord describes a record with the given fields.
func NewRecord(name string, fields ...Field) *Desc {
	return &Desc{Name: name, Kind: Record, Fields: fields}
}

// NewUnion describes a tagged union with the given cases.
func NewUnion(name string, cases ...Field) *Desc {
	return &Desc{Name: name, Kind: Union, Fields: cases}
}

// NewEnum describes a union whose cases carry no payload.
func NewEnum(name string, cases ...string) *Desc {
	fields := make([]Field, len(cases))
	for i, c := range cases {
		fields[i] = Field{Name: c, Type: NewRecord("")}
	}
	return NewUnion(name, fields...)
}

// NewList describes a list of elem.
func NewList(elem *Desc) *Desc {
	return &Desc{Kind: List, Elem: elem}
}

// NewRef refers to the nearest enclosing description called name.
func NewRef(name string) *Desc {
	return &Desc{Name: name, Kind: Ref}
}

// Validate checks that every Ref has a named ancestor, lists have an
// element type and member names are unique. Errors are located by a dotted
// path starting at d's name.
func (d *Desc) Validate() error {
	var path []string
	if d != nil && d.Name != "" {
		path = []string{d.Name}
	}
	return d.validate(nil, path)
}

func (d *Desc) validate(ancestors []string, path []string) error {
	if d == nil {
		return fmt.Errorf("%s: nil description", joinPath(path))
	}
	switch d.Kind {
	case Ref:
		for _, a := range ancestors {
			if a == d.Name {
				return nil
			}
		}
		return fmt.Errorf("%s: reference to %q has no enclosing definition", joinPath(path), d.Name)
	case List:
		if d.Elem == nil {
			return fmt.Errorf("%s: list without element type", joinPath(path))
		}
		return d.Elem.validate(append(ancestors, d.Name), append(path, "[]"))
	case Record, Union:
		seen := make(map[string]bool, len(d.Fields))
		for _, f := range d.Fields {
			if seen[f.Name] {
				return fmt.Errorf("%s: duplicate member %q", joinPath(path), f.Name)
			}
			seen[f.Name] = true
			if err := f.Type.validate(append(ancestors, d.Name), append(path, f.Name)); err != nil {
				return err
			}
		}
	}
	return nil
}

// String renders the description in a compact, CUE-like syntax.
func (d *Desc) String() string {
	var b strings.Builder
	d.write(&b)
	return b.String()
}

func (d *Desc) write(b *strings.Builder) {
	switch d.Kind {
	case Primitive, Bool:
		b.WriteString(d.Name)
	case Ref:
		b.WriteString("#" + d.Name)
	case List:
		b.WriteString("[...")
		d.Elem.write(b)
		b.WriteString("]")
	case Record:
		b.WriteString("{")
		for i, f := range d.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name + ": ")
			f.Type.write(b)
		}
		b.WriteString("}")
	case Union:
		for i, f := range d.Fields {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(f.Name)
			if f.Type != nil && !(f.Type.Kind == Record && len(f.Type.Fields) == 0) {
				b.WriteString(" ")
				f.Type.write(b)
			}
		}
	}
}

func joinPath(path []string) string {
	if len(path) == 0 {
		return "<root>"
	}
	return strings.Join(path, ".")
}
