// Package harness runs conformance scenarios against the ingestion and
// relation packages.
//
// A scenario ingests CSV data against a pair of CUE types, stores the
// result, applies filter and clip steps to the relation and checks
// assertions on the outcome.
//
// # Scenario Format
//
// Scenarios are YAML files. Relative paths are resolved against the
// scenario's directory:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	types: types.cue
//	source: Person
//	target: Coded
//	anchored: false
//	csv:
//	  - people.csv
//	steps:
//	  - filter: [Source/name/Bob, "Target/code/**"]
//	  - clip: { source_depth: 1, target_depth: 1 }
//	assertions:
//	  - type: path_present
//	    path: 0/Source/name/Bob
//	  - type: row_count
//	    count: 3
//
// Inline CSV may be given with input: instead of csv:.
//
// # Assertion Types
//
//   - path_present, path_absent: a leaf path of the final relation
//   - paths: the exact leaf path list
//   - path_count, row_count: number of leaf paths or top-level children
//   - source_tree, target_tree: the ingested tree in sop.Format notation
//   - reduced: whether the final relation lost parts to filtering
//   - error_code: ingestion or a step failed with the given code
//
// # Deterministic Testing
//
// Each scenario runs against a fresh in-memory SQLite store with
// sequential snapshot IDs and a logical clock, and continues with the
// relation decoded from the stored snapshot. Golden snapshots leave out
// IDs and fingerprints.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/filter_by_name.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
