package typedesc

import (
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Schema is a set of named type descriptions compiled from a CUE file.
type Schema struct {
	names []string
	types map[string]*Desc
}

// Names returns the type names in declaration order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Lookup finds a type by name. A leading '#' is ignored, so "A" and "#A"
// both find the definition #A.
func (s *Schema) Lookup(name string) (*Desc, bool) {
	d, ok := s.types[strings.TrimPrefix(name, "#")]
	return d, ok
}

// MustLookup is Lookup that reports a missing name as an error.
func (s *Schema) MustLookup(name string) (*Desc, error) {
	d, ok := s.Lookup(name)
	if !ok {
		return nil, &CompileError{
			Field:   name,
			Message: fmt.Sprintf("type %q not defined (have %s)", name, strings.Join(s.names, ", ")),
		}
	}
	return d, nil
}

// LoadFile compiles the CUE file at path into a Schema.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading types file: %w", err)
	}
	return CompileBytes(path, data)
}

// CompileBytes compiles CUE source into a Schema. filename is used for
// error positions only.
func CompileBytes(filename string, src []byte) (*Schema, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	return CompileSchema(v)
}

// CompileSchema compiles every top-level field and definition of v.
//
// Each top-level member becomes one named type:
//
//	#A: {
//		name:   string
//		option: bool
//		slots:  [...int]
//	}
//	#B: {
//		code:  {x: int, y: int}
//		deets: #Option1 | #Option2
//	}
func CompileSchema(v cue.Value) (*Schema, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	iter, err := v.Fields(cue.Definitions(true))
	if err != nil {
		return nil, formatCUEError(err)
	}

	s := &Schema{types: make(map[string]*Desc)}
	for iter.Next() {
		name := selectorName(iter.Selector())
		d, err := compileValue(iter.Value(), []string{name})
		if err != nil {
			return nil, err
		}
		d.Name = name
		if _, dup := s.types[name]; dup {
			return nil, &CompileError{
				Field:   name,
				Message: "defined both as a field and a definition",
				Pos:     iter.Value().Pos(),
			}
		}
		s.names = append(s.names, name)
		s.types[name] = d
	}

	if len(s.names) == 0 {
		return nil, &CompileError{Field: "types", Message: "no type definitions found", Pos: v.Pos()}
	}
	return s, nil
}

// CompileValue compiles a single CUE value into a description.
func CompileValue(v cue.Value) (*Desc, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return compileValue(v, nil)
}

func compileValue(v cue.Value, path []string) (*Desc, error) {
	if op, args := v.Expr(); op == cue.OrOp && len(args) > 1 {
		return compileUnion(v, args, path)
	}

	name := referenceName(v)

	switch v.IncompleteKind() {
	case cue.BoolKind:
		return NewBool(), nil
	case cue.StringKind:
		return NewPrimitive("string"), nil
	case cue.IntKind:
		return NewPrimitive("int"), nil
	case cue.FloatKind, cue.NumberKind:
		return NewPrimitive("number"), nil
	case cue.BytesKind:
		return NewPrimitive("bytes"), nil
	case cue.NullKind:
		return NewRecord(name), nil
	case cue.ListKind:
		elemVal := v.LookupPath(cue.MakePath(cue.AnyIndex))
		if !elemVal.Exists() {
			return nil, &CompileError{
				Field:   joinPath(path),
				Message: "list type must be open, e.g. [...int]",
				Pos:     v.Pos(),
			}
		}
		elem, err := compileValue(elemVal, append(path, "[]"))
		if err != nil {
			return nil, err
		}
		d := NewList(elem)
		d.Name = name
		return d, nil
	case cue.StructKind:
		return compileRecord(v, name, path)
	default:
		return nil, &CompileError{
			Field:   joinPath(path),
			Message: fmt.Sprintf("unsupported type kind: %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

func compileRecord(v cue.Value, name string, path []string) (*Desc, error) {
	iter, err := v.Fields(cue.Optional(true))
	if err != nil {
		return nil, formatCUEError(err)
	}

	d := NewRecord(name)
	for iter.Next() {
		fieldName := selectorName(iter.Selector())
		fieldType, err := compileValue(iter.Value(), append(path, fieldName))
		if err != nil {
			return nil, err
		}
		d.Fields = append(d.Fields, F(fieldName, fieldType))
	}
	return d, nil
}

// compileUnion turns a disjunction into a union. Cases are named after the
// definition they reference (#Option1 -> Option1), their literal value for
// concrete scalars ("red" -> red), or their kind (int, string).
func compileUnion(v cue.Value, args []cue.Value, path []string) (*Desc, error) {
	d := NewUnion(referenceName(v))
	seen := make(map[string]bool, len(args))

	for i, arg := range args {
		caseName, caseType, err := compileCase(arg, append(path, fmt.Sprintf("|%d", i)))
		if err != nil {
			return nil, err
		}
		if seen[caseName] {
			caseName = fmt.Sprintf("%s_%d", caseName, i)
		}
		seen[caseName] = true
		d.Fields = append(d.Fields, F(caseName, caseType))
	}
	return d, nil
}

func compileCase(arg cue.Value, path []string) (string, *Desc, error) {
	if ref := referenceName(arg); ref != "" {
		t, err := compileValue(arg, path)
		if err != nil {
			return "", nil, err
		}
		t.Name = ref
		return ref, t, nil
	}

	if arg.IsConcrete() && arg.Kind() != cue.StructKind && arg.Kind() != cue.ListKind {
		if s, err := arg.String(); err == nil {
			return s, NewRecord(""), nil
		}
		return fmt.Sprint(arg), NewRecord(""), nil
	}

	t, err := compileValue(arg, path)
	if err != nil {
		return "", nil, err
	}
	return arg.IncompleteKind().String(), t, nil
}

// referenceName returns the definition name v refers to, or "".
func referenceName(v cue.Value) string {
	_, p := v.ReferencePath()
	sels := p.Selectors()
	if len(sels) == 0 {
		return ""
	}
	return selectorName(sels[len(sels)-1])
}

func selectorName(sel cue.Selector) string {
	if sel.LabelType() == cue.StringLabel {
		return sel.Unquoted()
	}
	return strings.TrimPrefix(sel.String(), "#")
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
