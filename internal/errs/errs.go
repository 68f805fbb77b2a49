// Package errs defines the error taxonomy shared by the tree, relation and
// ingestion packages.
//
// Every operation in this module is a pure function of its inputs, so
// failures are deterministic and always surfaced to the caller. Errors are
// *Error values carrying a Code; compare with errors.Is against the
// sentinels below or use Has.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Code categorizes errors.
type Code string

const (
	// PathNotFound: a path addresses a label that is absent from the tree.
	PathNotFound Code = "PATH_NOT_FOUND"

	// ShapeMismatch: trees being merged or clipped disagree on kind, data
	// or recursion structure at an aligned path.
	ShapeMismatch Code = "SHAPE_MISMATCH"

	// UnsupportedRecursiveClip: a clip tree contains a back-reference.
	UnsupportedRecursiveClip Code = "UNSUPPORTED_RECURSIVE_CLIP"

	// RecursiveLeafIteration: leaf enumeration would need to unroll a
	// back-reference.
	RecursiveLeafIteration Code = "RECURSIVE_LEAF_ITERATION"

	// ColumnNotFound: a CSV column name does not address the declared type.
	ColumnNotFound Code = "COLUMN_NOT_FOUND"

	// NotImplemented: the operation met a Series relation.
	NotImplemented Code = "NOT_IMPLEMENTED"

	// InvalidBackRef: a back-reference points above the root of the
	// traversal, or a recursive relation child has an empty offset.
	InvalidBackRef Code = "INVALID_BACKREF"

	// InvalidCSV: the CSV layout itself is unusable (e.g. two separator
	// columns).
	InvalidCSV Code = "INVALID_CSV"

	// EmptyPath: an operation that needs at least one label got none.
	EmptyPath Code = "EMPTY_PATH"
)

// Sentinels for errors.Is. Only the Code is compared.
var (
	ErrPathNotFound             = &Error{Code: PathNotFound}
	ErrShapeMismatch            = &Error{Code: ShapeMismatch}
	ErrUnsupportedRecursiveClip = &Error{Code: UnsupportedRecursiveClip}
	ErrRecursiveLeafIteration   = &Error{Code: RecursiveLeafIteration}
	ErrColumnNotFound           = &Error{Code: ColumnNotFound}
	ErrNotImplemented           = &Error{Code: NotImplemented}
	ErrInvalidBackRef           = &Error{Code: InvalidBackRef}
	ErrInvalidCSV               = &Error{Code: InvalidCSV}
	ErrEmptyPath                = &Error{Code: EmptyPath}
)

// Error is a coded failure with enough context to locate the problem.
type Error struct {
	// Code identifies the error category.
	Code Code

	// Message is a human-readable description.
	Message string

	// Path is the offending tree path, if any.
	Path []string

	// Row is the 1-based line number in the CSV file (CSV errors only).
	Row int

	// Column is the CSV column name (CSV errors only).
	Column string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	var ctx []string
	if e.Path != nil {
		ctx = append(ctx, fmt.Sprintf("path=%q", strings.Join(e.Path, "/")))
	}
	if e.Row > 0 {
		ctx = append(ctx, fmt.Sprintf("row=%d", e.Row))
	}
	if e.Column != "" {
		ctx = append(ctx, fmt.Sprintf("column=%q", e.Column))
	}
	if len(ctx) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(ctx, ", "))
	}
	return b.String()
}

// Is matches any *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// New creates an error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AtPath creates an error about the given path. The path is copied.
func AtPath(code Code, path []string, format string, args ...any) *Error {
	p := make([]string, len(path))
	copy(p, path)
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Path: p}
}

// Has reports whether err (or anything it wraps) is an *Error with code.
func Has(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
