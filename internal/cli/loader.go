package cli

import (
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue/token"

	"github.com/tauroid/csv-dataflow/internal/errs"
	"github.com/tauroid/csv-dataflow/internal/typedesc"
)

// TypeSet is a compiled types file together with its source text.
type TypeSet struct {
	Path   string
	Source []byte
	Schema *typedesc.Schema
}

// LoadError represents an error that occurred while loading inputs.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadTypes reads and compiles the CUE types file at path.
func LoadTypes(path string) (*TypeSet, error) {
	if path == "" {
		return nil, &LoadError{Code: ErrCodeUsage, Message: "no types file given (use --types or set types in csvflow.yaml)"}
	}
	src, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("types file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading types file: %v", err)}
	}

	schema, err := typedesc.CompileBytes(path, src)
	if err != nil {
		return nil, convertCompileError(err, path)
	}
	return &TypeSet{Path: path, Source: src, Schema: schema}, nil
}

// Pair looks up the source and target types by name.
func (ts *TypeSet) Pair(source, target string) (*typedesc.Desc, *typedesc.Desc, error) {
	if source == "" || target == "" {
		return nil, nil, &LoadError{Code: ErrCodeUsage, Message: "source and target types are required (use --source and --target)"}
	}
	s, err := ts.Schema.MustLookup(source)
	if err != nil {
		return nil, nil, convertCompileError(err, ts.Path)
	}
	t, err := ts.Schema.MustLookup(target)
	if err != nil {
		return nil, nil, convertCompileError(err, ts.Path)
	}
	return s, t, nil
}

// convertCompileError converts a type compilation error to a LoadError
// with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *typedesc.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeTypes,
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeTypes,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants, unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeUsage       = "E002" // Missing or conflicting options
	ErrCodeConfig      = "E003" // Config file unreadable
	ErrCodeNotFound    = "E004" // Input file not found
	ErrCodeTypes       = "E005" // CUE types failed to compile or name is undefined
	ErrCodeDatabase    = "E006" // Snapshot database error
	ErrCodeWriteFailed = "E007" // File write error

	// Tree and relation errors
	ErrCodePathNotFound       = "E101"
	ErrCodeShapeMismatch      = "E102"
	ErrCodeRecursiveClip      = "E103"
	ErrCodeRecursiveIteration = "E104"
	ErrCodeNotImplemented     = "E105"
	ErrCodeInvalidBackRef     = "E106"
	ErrCodeEmptyPath          = "E107"

	// CSV errors
	ErrCodeColumnNotFound = "E111"
	ErrCodeInvalidCSV     = "E112"
)

// MapErrorCode maps an error to a CLI error code.
func MapErrorCode(err error) string {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	switch errs.CodeOf(err) {
	case errs.PathNotFound:
		return ErrCodePathNotFound
	case errs.ShapeMismatch:
		return ErrCodeShapeMismatch
	case errs.UnsupportedRecursiveClip:
		return ErrCodeRecursiveClip
	case errs.RecursiveLeafIteration:
		return ErrCodeRecursiveIteration
	case errs.NotImplemented:
		return ErrCodeNotImplemented
	case errs.InvalidBackRef:
		return ErrCodeInvalidBackRef
	case errs.EmptyPath:
		return ErrCodeEmptyPath
	case errs.ColumnNotFound:
		return ErrCodeColumnNotFound
	case errs.InvalidCSV:
		return ErrCodeInvalidCSV
	default:
		return ErrCodeGeneric
	}
}
