package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/tauroid/csv-dataflow/internal/ingest"
	"github.com/tauroid/csv-dataflow/internal/relation"
	"github.com/tauroid/csv-dataflow/internal/render"
	"github.com/tauroid/csv-dataflow/internal/sop"
	"github.com/tauroid/csv-dataflow/internal/store"
	"github.com/tauroid/csv-dataflow/internal/testutil"
	"github.com/tauroid/csv-dataflow/internal/typedesc"
)

// inlineName names inline CSV input in logs and snapshot records.
const inlineName = "<inline>"

// Harness is the test execution engine.
// It runs scenarios against a fresh store with deterministic snapshot IDs
// and sequence numbers.
type Harness struct {
	store  *store.Store
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Compile the types file and look up source and target
// 2. Ingest the CSV input
// 3. Store the result and continue with the stored copy
// 4. Apply filter and clip steps
// 5. Evaluate assertions
//
// Errors from ingestion or a step are recorded in the result for
// error_code assertions. Only problems with the scenario itself (an
// unreadable types file, an unknown type name) are returned as errors.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:",
		store.WithIDGenerator(testutil.NewSequentialIDGenerator()),
		store.WithClock(testutil.NewDeterministicClock()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	return h.run(context.Background(), scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	typesSrc, err := os.ReadFile(scenario.Types)
	if err != nil {
		return nil, fmt.Errorf("failed to read types: %w", err)
	}
	schema, err := typedesc.CompileBytes(scenario.Types, typesSrc)
	if err != nil {
		return nil, fmt.Errorf("failed to compile types: %w", err)
	}
	source, err := schema.MustLookup(scenario.Source)
	if err != nil {
		return nil, fmt.Errorf("source type: %w", err)
	}
	target, err := schema.MustLookup(scenario.Target)
	if err != nil {
		return nil, fmt.Errorf("target type: %w", err)
	}

	input := store.Input{
		Types:      typesSrc,
		SourceType: scenario.Source,
		TargetType: scenario.Target,
		Anchored:   scenario.Anchored,
	}
	for _, path := range scenario.CSV {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		input.Files = append(input.Files, store.FileInput{Path: path, Content: content})
	}
	if scenario.Input != "" {
		input.Files = []store.FileInput{{Path: inlineName, Content: []byte(scenario.Input)}}
	}

	result := NewResult()
	if err := h.execute(ctx, scenario, source, target, input, result); err != nil {
		result.fail(err)
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}
	return result, nil
}

// execute ingests, stores and transforms, filling in result as it goes.
func (h *Harness) execute(ctx context.Context, scenario *Scenario, source, target *typedesc.Desc, input store.Input, result *Result) error {
	in, err := ingest.New(source, target, ingest.Options{Anchored: scenario.Anchored})
	if err != nil {
		return err
	}

	var res *ingest.Result
	if scenario.Input != "" {
		res, err = in.Read(inlineName, strings.NewReader(scenario.Input))
	} else {
		res, err = in.ReadFiles(scenario.CSV)
	}
	if err != nil {
		return err
	}

	// Continue with the stored copy so every scenario also checks that a
	// snapshot decodes to the same relation.
	snap, _, err := h.store.Put(ctx, input, res)
	if err != nil {
		return err
	}
	stored, err := h.store.Get(ctx, snap.ID)
	if err != nil {
		return err
	}
	res = stored.Result
	result.SnapshotID = snap.ID
	result.Fingerprint = snap.Fingerprint
	result.Source = sop.Format(res.Source)
	result.Target = sop.Format(res.Target)
	h.logger.Debug("scenario ingested", "scenario", scenario.Name, "snapshot", snap.ID, "rows", snap.Rows)

	var r relation.Relation[sop.NoData] = res.Relation
	for i, step := range scenario.Steps {
		r, err = applyStep(r, res, step)
		if err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	result.Relation = r

	paths, err := relation.CollectPaths(r)
	if err != nil {
		return err
	}
	result.Paths = relation.PathStrings(paths)
	return nil
}

// applyStep runs one filter or clip step. Clip trees are the ingested
// trees unrolled to the requested depth.
func applyStep(r relation.Relation[sop.NoData], res *ingest.Result, step Step) (relation.Relation[sop.NoData], error) {
	if len(step.Filter) > 0 {
		paths, err := relation.Expand(r, step.Filter)
		if err != nil {
			return nil, err
		}
		return relation.Filter(r, paths)
	}

	sourceClip, err := sop.Unroll(res.Source, step.Clip.SourceDepth)
	if err != nil {
		return nil, err
	}
	targetClip, err := sop.Unroll(res.Target, step.Clip.TargetDepth)
	if err != nil {
		return nil, err
	}
	return relation.Clip(r, sourceClip, targetClip)
}

// Render formats the final relation of a result for display.
func Render(result *Result) string {
	if result.Relation == nil {
		return ""
	}
	return render.Relation(result.Relation)
}
