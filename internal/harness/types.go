package harness

import (
	"github.com/tauroid/csv-dataflow/internal/errs"
	"github.com/tauroid/csv-dataflow/internal/relation"
	"github.com/tauroid/csv-dataflow/internal/sop"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every assertion holds.
	Pass bool `json:"pass"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// ErrorCode and ErrorMessage describe the error that stopped ingestion
	// or a step, if any.
	ErrorCode    errs.Code `json:"error_code,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`

	// SnapshotID and Fingerprint identify the stored ingestion result.
	SnapshotID  string `json:"snapshot_id,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`

	// Source and Target are the ingested trees in sop.Format notation.
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`

	// Paths lists the leaf paths of the final relation.
	Paths []string `json:"paths"`

	// Relation is the relation after all steps.
	Relation relation.Relation[sop.NoData] `json:"-"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
		Paths:  []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Failed reports whether the scenario stopped on an error.
func (r *Result) Failed() bool {
	return r.ErrorMessage != ""
}

// fail records err as the error that stopped the scenario.
func (r *Result) fail(err error) {
	r.ErrorCode = errs.CodeOf(err)
	r.ErrorMessage = err.Error()
}
