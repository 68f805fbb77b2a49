package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DiscoverScenarios finds scenario files under dir: every .yaml or .yml
// file at any depth. When filter is non-empty only files whose name
// without extension matches the glob are returned. Paths are joined to dir
// and sorted.
func DiscoverScenarios(dir, filter string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("scenarios directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scenarios directory: %s is not a directory", dir)
	}
	if filter != "" && !doublestar.ValidatePattern(filter) {
		return nil, fmt.Errorf("invalid filter pattern %q", filter)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), "**/*.{yaml,yml}", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("finding scenarios: %w", err)
	}

	var files []string
	for _, m := range matches {
		if filter != "" {
			base := filepath.Base(m)
			name := strings.TrimSuffix(base, filepath.Ext(base))
			ok, err := doublestar.Match(filter, name)
			if err != nil {
				return nil, fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !ok {
				continue
			}
		}
		files = append(files, filepath.Join(dir, filepath.FromSlash(m)))
	}
	sort.Strings(files)
	return files, nil
}

// ScenarioFailure records a scenario that did not pass.
type ScenarioFailure struct {
	Path   string   `json:"path"`
	Name   string   `json:"name,omitempty"`
	Errors []string `json:"errors"`
}

// SuiteResult summarises a run over many scenario files.
type SuiteResult struct {
	Total    int               `json:"total"`
	Passed   int               `json:"passed"`
	Failed   int               `json:"failed"`
	Failures []ScenarioFailure `json:"failures,omitempty"`
}

// RunFiles loads and runs each scenario file. A file that cannot be loaded
// or run counts as a failure; it does not stop the suite.
func RunFiles(paths []string) *SuiteResult {
	suite := &SuiteResult{Total: len(paths)}
	for _, path := range paths {
		failure := ScenarioFailure{Path: path}

		scenario, err := LoadScenario(path)
		if err != nil {
			failure.Errors = []string{err.Error()}
			suite.Failed++
			suite.Failures = append(suite.Failures, failure)
			continue
		}
		failure.Name = scenario.Name

		result, err := Run(scenario)
		switch {
		case err != nil:
			failure.Errors = []string{err.Error()}
		case !result.Pass:
			failure.Errors = result.Errors
		default:
			suite.Passed++
			continue
		}
		suite.Failed++
		suite.Failures = append(suite.Failures, failure)
	}
	return suite
}
