package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a result for golden comparison: the scenario name, the
// ingested trees, the final relation and its leaf paths, or the error that
// stopped the scenario. Snapshot IDs and fingerprints are left out.
func Snapshot(name string, result *Result) []byte {
	var buf strings.Builder
	fmt.Fprintf(&buf, "scenario: %s\n", name)

	if result.Failed() {
		fmt.Fprintf(&buf, "error: %s\n", result.ErrorCode)
		fmt.Fprintf(&buf, "message: %s\n", result.ErrorMessage)
		return []byte(buf.String())
	}

	fmt.Fprintf(&buf, "source: %s\n", result.Source)
	fmt.Fprintf(&buf, "target: %s\n", result.Target)
	buf.WriteString("relation:\n")
	buf.WriteString(Render(result))
	buf.WriteString("paths:\n")
	for _, p := range result.Paths {
		fmt.Fprintf(&buf, "  %s\n", p)
	}
	return []byte(buf.String())
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already computed result against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, Snapshot(scenarioName, result))

	return nil
}
