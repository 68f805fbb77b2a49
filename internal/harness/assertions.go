package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tauroid/csv-dataflow/internal/relation"
	"github.com/tauroid/csv-dataflow/internal/sop"
)

// AssertionError is returned when an assertion fails.
// It includes the final leaf paths to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Paths    []string // Leaf paths of the final relation
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Paths) > 0 {
		fmt.Fprintf(&buf, "\nRelation paths:\n")
		for _, p := range e.Paths {
			fmt.Fprintf(&buf, "  %s\n", p)
		}
	}

	return buf.String()
}

func assertPathPresent(result *Result, a Assertion) error {
	if slices.Contains(result.Paths, a.Path) {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("path %s present", a.Path),
		Actual:   "not found",
		Paths:    result.Paths,
	}
}

func assertPathAbsent(result *Result, a Assertion) error {
	if !slices.Contains(result.Paths, a.Path) {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("path %s absent", a.Path),
		Actual:   "found",
		Paths:    result.Paths,
	}
}

func assertPaths(result *Result, a Assertion) error {
	if slices.Equal(result.Paths, a.Paths) || (len(result.Paths) == 0 && len(a.Paths) == 0) {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("[%s]", strings.Join(a.Paths, ", ")),
		Actual:   fmt.Sprintf("[%s]", strings.Join(result.Paths, ", ")),
	}
}

func assertPathCount(result *Result, a Assertion) error {
	if len(result.Paths) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%d paths", a.Count),
		Actual:   fmt.Sprintf("%d paths", len(result.Paths)),
		Paths:    result.Paths,
	}
}

// assertRowCount counts the children of a top-level Parallel. Any other
// relation counts as one row.
func assertRowCount(result *Result, a Assertion) error {
	rows := 1
	if p, ok := result.Relation.(*relation.Parallel[sop.NoData]); ok {
		rows = len(p.Children)
	}
	if rows == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%d rows", a.Count),
		Actual:   fmt.Sprintf("%d rows", rows),
	}
}

func assertTree(actual string, a Assertion) error {
	if actual == a.Tree {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: a.Tree,
		Actual:   actual,
	}
}

func assertReduced(result *Result, a Assertion) error {
	reduced := !result.Relation.Full()
	if reduced == *a.Value {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("reduced=%t", *a.Value),
		Actual:   fmt.Sprintf("reduced=%t", reduced),
	}
}

func assertErrorCode(result *Result, a Assertion) error {
	if string(result.ErrorCode) == a.Code {
		return nil
	}
	actual := "no error"
	if result.Failed() {
		actual = fmt.Sprintf("%s (%s)", result.ErrorCode, result.ErrorMessage)
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: a.Code,
		Actual:   actual,
	}
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
//
// When the scenario stopped on an error only error_code assertions can
// hold; an error with no error_code assertion is itself a failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	expectsError := false
	for _, a := range assertions {
		if a.Type == AssertErrorCode {
			expectsError = true
		}
	}
	if result.Failed() && !expectsError {
		errors = append(errors, fmt.Sprintf("unexpected error: %s", result.ErrorMessage))
	}

	for i, assertion := range assertions {
		var err error

		if result.Failed() && assertion.Type != AssertErrorCode {
			err = fmt.Errorf("assertion[%d]: %s needs a relation, scenario failed with %s", i, assertion.Type, result.ErrorCode)
			errors = append(errors, err.Error())
			continue
		}

		switch assertion.Type {
		case AssertPathPresent:
			err = assertPathPresent(result, assertion)
		case AssertPathAbsent:
			err = assertPathAbsent(result, assertion)
		case AssertPaths:
			err = assertPaths(result, assertion)
		case AssertPathCount:
			err = assertPathCount(result, assertion)
		case AssertRowCount:
			err = assertRowCount(result, assertion)
		case AssertSourceTree:
			err = assertTree(result.Source, assertion)
		case AssertTargetTree:
			err = assertTree(result.Target, assertion)
		case AssertReduced:
			err = assertReduced(result, assertion)
		case AssertErrorCode:
			err = assertErrorCode(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
