package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tauroid/csv-dataflow/internal/errs"
)

func loadTestdata(t *testing.T, name string) *Scenario {
	t.Helper()
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return scenario
}

func TestRun_PersonToCode(t *testing.T) {
	result, err := Run(loadTestdata(t, "person_to_code"))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	assert.False(t, result.Failed())
	assert.Equal(t, "00000000-0000-7000-8000-000000000001", result.SnapshotID)
	assert.NotEmpty(t, result.Fingerprint)
	assert.Len(t, result.Paths, 4)
}

func TestRun_FilterStep(t *testing.T) {
	result, err := Run(loadTestdata(t, "filter_by_name"))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, []string{
		"0/Source/name/Bob",
		"0/Source/option/yes",
		"0/Target/code/x/5",
		"0/Target/code/y/7",
		"2/Source/name/Bob",
		"2/Source/option/no",
		"2/Target/code/y/8",
	}, result.Paths)
}

func TestRun_GlobFilter(t *testing.T) {
	scenario := loadTestdata(t, "filter_by_name")
	scenario.Steps = []Step{{Filter: []string{"Target/code/y/*"}}}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_ClipStepKeepsFiniteRelation(t *testing.T) {
	scenario := loadTestdata(t, "person_to_code")
	scenario.Steps = []Step{{Clip: &ClipStep{}}}
	scenario.Assertions = []Assertion{
		{Type: AssertPathCount, Count: 4},
		{Type: AssertSourceTree, Tree: "Product{name: Sum{Bob: Unit}, option: Sum{yes: Unit}}"},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_ExpectedError(t *testing.T) {
	result, err := Run(loadTestdata(t, "unknown_column"))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, errs.ColumnNotFound, result.ErrorCode)
	assert.Contains(t, result.ErrorMessage, "nickname")
	assert.Empty(t, result.Paths)
	assert.Empty(t, result.SnapshotID)
}

func TestRun_UnexpectedError(t *testing.T) {
	scenario := loadTestdata(t, "unknown_column")
	scenario.Assertions = []Assertion{{Type: AssertRowCount, Count: 1}}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "unexpected error: COLUMN_NOT_FOUND")
}

func TestRun_FailingAssertion(t *testing.T) {
	scenario := loadTestdata(t, "person_to_code")
	scenario.Assertions = []Assertion{{Type: AssertPathPresent, Path: "0/Source/name/Alice"}}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "0/Source/name/Alice")
}

func TestRun_StepErrorIsRecorded(t *testing.T) {
	scenario := loadTestdata(t, "person_to_code")
	scenario.Steps = []Step{{Filter: []string{"Sideways/name"}}}
	scenario.Assertions = []Assertion{{Type: AssertRowCount, Count: 1}}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.True(t, result.Failed())
	assert.Contains(t, result.ErrorMessage, "steps[0]")
	assert.Contains(t, result.ErrorMessage, "Sideways")
}

func TestRun_UnknownType(t *testing.T) {
	scenario := loadTestdata(t, "person_to_code")
	scenario.Target = "Nowhere"

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target type")
}

func TestRender_NoRelation(t *testing.T) {
	assert.Empty(t, Render(NewResult()))
}
