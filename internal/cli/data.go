package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tauroid/csv-dataflow/internal/errs"
	"github.com/tauroid/csv-dataflow/internal/ingest"
	"github.com/tauroid/csv-dataflow/internal/relation"
	"github.com/tauroid/csv-dataflow/internal/render"
	"github.com/tauroid/csv-dataflow/internal/sop"
	"github.com/tauroid/csv-dataflow/internal/store"
)

// DataOptions holds the flags shared by commands that ingest CSV files.
type DataOptions struct {
	*RootOptions
	Types    string
	Source   string
	Target   string
	Database string
	Anchored bool
	Output   string // relation JSON file
}

func addDataFlags(cmd *cobra.Command, opts *DataOptions) {
	cmd.Flags().StringVar(&opts.Types, "types", "", "CUE file declaring the types")
	cmd.Flags().StringVar(&opts.Source, "source", "", "source type name")
	cmd.Flags().StringVar(&opts.Target, "target", "", "target type name")
	cmd.Flags().StringVar(&opts.Database, "db", "", "snapshot database (optional)")
	cmd.Flags().BoolVar(&opts.Anchored, "anchored", false, "column names are full paths from the type root")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the relation as JSON to this file")
}

// applyConfig fills every flag the user did not set from the config.
func (o *DataOptions) applyConfig(cmd *cobra.Command) {
	cfg := o.Config
	if cfg == nil {
		return
	}
	if !cmd.Flags().Changed("types") {
		o.Types = cfg.Types
	}
	if !cmd.Flags().Changed("source") {
		o.Source = cfg.Source
	}
	if !cmd.Flags().Changed("target") {
		o.Target = cfg.Target
	}
	if !cmd.Flags().Changed("db") {
		o.Database = cfg.DB
	}
	if !cmd.Flags().Changed("anchored") {
		o.Anchored = cfg.Anchored
	}
}

func (o *DataOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// ingested is an ingestion result with its stored snapshot, if any.
type ingested struct {
	Result   *ingest.Result
	Snapshot *store.Snapshot
	Inserted bool
}

// loadAndIngest compiles the types, ingests csvs and stores the result
// when a database is configured.
func loadAndIngest(ctx context.Context, o *DataOptions, csvs []string) (*ingested, error) {
	ts, err := LoadTypes(o.Types)
	if err != nil {
		return nil, err
	}
	source, target, err := ts.Pair(o.Source, o.Target)
	if err != nil {
		return nil, err
	}

	input := store.Input{
		Types:      ts.Source,
		SourceType: o.Source,
		TargetType: o.Target,
		Anchored:   o.Anchored,
	}
	in, err := ingest.New(source, target, ingest.Options{Anchored: o.Anchored})
	if err != nil {
		return nil, err
	}
	results := make([]*ingest.Result, 0, len(csvs))
	for _, path := range csvs {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading csv: %v", err)}
		}
		input.Files = append(input.Files, store.FileInput{Path: path, Content: content})

		// The stored content hash and the ingested rows come from the same read
		res, err := in.Read(path, bytes.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		results = append(results, res)
	}

	res, err := in.Combine(results)
	if err != nil {
		return nil, err
	}
	out := &ingested{Result: res}

	if o.Database == "" {
		return out, nil
	}
	st, err := store.Open(o.Database)
	if err != nil {
		return nil, dbError("opening database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	snap, inserted, err := st.Put(ctx, input, res)
	if err != nil {
		return nil, dbError("storing snapshot", err)
	}
	slog.Debug("snapshot stored", "id", snap.ID, "inserted", inserted, "rows", snap.Rows)
	out.Snapshot = snap
	out.Inserted = inserted
	return out, nil
}

func dbError(message string, err error) *LoadError {
	return &LoadError{Code: ErrCodeDatabase, Message: fmt.Sprintf("%s: %v", message, err)}
}

// RelationOutput is the JSON payload of ingest, filter and clip.
type RelationOutput struct {
	Snapshot *store.Snapshot `json:"snapshot,omitempty"`
	Source   string          `json:"source"`
	Target   string          `json:"target"`
	Rows     int             `json:"rows"`
	Paths    []string        `json:"paths"`
	Relation json.RawMessage `json:"relation"`
}

// outputRelation prints r in the configured format and writes it to
// o.Output if set.
func outputRelation(f *OutputFormatter, o *DataOptions, in *ingested, r relation.Relation[sop.NoData]) error {
	data, err := relation.Marshal(r)
	if err != nil {
		return f.Fail(err)
	}
	if o.Output != "" {
		if err := os.WriteFile(o.Output, data, 0644); err != nil {
			return f.Fail(&LoadError{Code: ErrCodeWriteFailed, Message: fmt.Sprintf("writing output file: %v", err)})
		}
	}

	rows := 1
	if p, ok := r.(*relation.Parallel[sop.NoData]); ok {
		rows = len(p.Children)
	}

	if f.Format == "json" {
		// Leaf paths only exist for finite relations.
		var paths []string
		collected, err := relation.CollectPaths(r)
		switch {
		case err == nil:
			paths = relation.PathStrings(collected)
		case !errs.Has(err, errs.RecursiveLeafIteration):
			return f.Fail(err)
		}
		return f.Success(RelationOutput{
			Snapshot: in.Snapshot,
			Source:   sop.Format(in.Result.Source),
			Target:   sop.Format(in.Result.Target),
			Rows:     rows,
			Paths:    paths,
			Relation: data,
		})
	}

	if in.Snapshot != nil {
		state := "existing"
		if in.Inserted {
			state = "new"
		}
		fmt.Fprintf(f.Writer, "Snapshot %s (%s)\n", in.Snapshot.ID, state)
	}
	render.WriteRelation(f.Writer, r)
	if o.Output != "" {
		fmt.Fprintf(f.Writer, "Wrote relation to %s\n", o.Output)
	}
	return nil
}
