package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
// A scenario ingests CSV data against a pair of CUE types, optionally
// filters and clips the resulting relation, and asserts on the outcome.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Types is the CUE file declaring the source and target types.
	Types string `yaml:"types"`

	// Source and Target name definitions in Types, with or without '#'.
	Source string `yaml:"source"`
	Target string `yaml:"target"`

	// Anchored requires column names to be full paths from the type root.
	Anchored bool `yaml:"anchored,omitempty"`

	// CSV lists CSV files to ingest, in order.
	CSV []string `yaml:"csv,omitempty"`

	// Input is inline CSV data, used instead of CSV.
	Input string `yaml:"input,omitempty"`

	// Steps transform the ingested relation, in order.
	Steps []Step `yaml:"steps,omitempty"`

	// Assertions validate the final relation, or the error that stopped
	// the scenario.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one transformation of the relation. Exactly one field is set.
type Step struct {
	// Filter holds relation path patterns, e.g. "Source/name/Bob" or
	// "Target/code/**".
	Filter []string `yaml:"filter,omitempty"`

	// Clip collapses the relation to a number of unrolled levels per side.
	Clip *ClipStep `yaml:"clip,omitempty"`
}

// ClipStep gives the clip depth of each side. A depth counts the recursive
// references expanded along each branch.
type ClipStep struct {
	SourceDepth int `yaml:"source_depth"`
	TargetDepth int `yaml:"target_depth"`
}

// Assertion validates the outcome of a scenario.
type Assertion struct {
	// Type specifies the assertion type:
	// - "path_present": Path is one of the relation's leaf paths
	// - "path_absent": Path is not one of them
	// - "paths": the leaf paths are exactly Paths, in order
	// - "path_count": there are exactly Count leaf paths
	// - "row_count": the top-level relation has exactly Count children
	// - "source_tree"/"target_tree": the formatted tree equals Tree
	// - "reduced": the top-level relation's reduced flag equals Value
	// - "error_code": the scenario failed with Code
	Type string `yaml:"type"`

	// Path is a relation path such as "0/Source/name/Bob".
	Path string `yaml:"path,omitempty"`

	// Paths is the expected leaf path list (used by paths).
	Paths []string `yaml:"paths,omitempty"`

	// Count is the expected number (used by path_count and row_count).
	Count int `yaml:"count,omitempty"`

	// Tree is the expected tree in sop.Format notation.
	Tree string `yaml:"tree,omitempty"`

	// Value is the expected flag (used by reduced).
	Value *bool `yaml:"value,omitempty"`

	// Code is the expected error code (used by error_code).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertPathPresent = "path_present"
	AssertPathAbsent  = "path_absent"
	AssertPaths       = "paths"
	AssertPathCount   = "path_count"
	AssertRowCount    = "row_count"
	AssertSourceTree  = "source_tree"
	AssertTargetTree  = "target_tree"
	AssertReduced     = "reduced"
	AssertErrorCode   = "error_code"
)

// LoadScenario reads and parses a scenario YAML file.
// Relative types and csv paths are resolved against the scenario's
// directory. Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving relative types and csv paths against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve paths BEFORE validation so existence checks see real files
	if basePath != "" {
		scenario.Types = resolve(basePath, scenario.Types)
		for i, csvPath := range scenario.CSV {
			scenario.CSV[i] = resolve(basePath, csvPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Types == "" {
		return fmt.Errorf("types is required")
	}

	if s.Source == "" || s.Target == "" {
		return fmt.Errorf("source and target are required")
	}

	if len(s.CSV) > 0 && s.Input != "" {
		return fmt.Errorf("csv and input are mutually exclusive")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if _, err := os.Stat(s.Types); os.IsNotExist(err) {
		return fmt.Errorf("types file not found: %s", s.Types)
	}

	for _, csvPath := range s.CSV {
		if _, err := os.Stat(csvPath); os.IsNotExist(err) {
			return fmt.Errorf("csv file not found: %s", csvPath)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, step *Step) error {
	switch {
	case len(step.Filter) > 0 && step.Clip != nil:
		return fmt.Errorf("steps[%d]: filter and clip are mutually exclusive", index)
	case len(step.Filter) == 0 && step.Clip == nil:
		return fmt.Errorf("steps[%d]: one of filter or clip is required", index)
	case step.Clip != nil && (step.Clip.SourceDepth < 0 || step.Clip.TargetDepth < 0):
		return fmt.Errorf("steps[%d]: clip depths must be non-negative", index)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertPathPresent, AssertPathAbsent:
		if a.Path == "" {
			return fmt.Errorf("assertions[%d]: path is required for %s", index, a.Type)
		}
	case AssertPaths:
		// An empty list asserts an empty relation.
	case AssertPathCount, AssertRowCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertSourceTree, AssertTargetTree:
		if a.Tree == "" {
			return fmt.Errorf("assertions[%d]: tree is required for %s", index, a.Type)
		}
	case AssertReduced:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for reduced", index)
		}
	case AssertErrorCode:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error_code", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
