package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_PersonToCode(t *testing.T) {
	require.NoError(t, RunWithGolden(t, loadTestdata(t, "person_to_code")))
}

func TestSnapshot_Failed(t *testing.T) {
	result, err := Run(loadTestdata(t, "unknown_column"))
	require.NoError(t, err)

	got := string(Snapshot("unknown_column", result))
	assert.Contains(t, got, "scenario: unknown_column\nerror: COLUMN_NOT_FOUND\nmessage: ")
	assert.NotContains(t, got, "paths:")
}

func TestSnapshot_LeavesOutIDs(t *testing.T) {
	result, err := Run(loadTestdata(t, "person_to_code"))
	require.NoError(t, err)

	got := string(Snapshot("person_to_code", result))
	assert.NotContains(t, got, result.SnapshotID)
	assert.NotContains(t, got, result.Fingerprint)
}
