package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DataOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ingest <csv>...",
		Short: "Build a relation from CSV files",
		Long: `Ingest CSV files against a source and a target type.

Each header cell names a path into the source type (left of the blank
separator column) or the target type (right of it). Every data row becomes
one relation between the values it names. Several files are combined into
one relation, rows in file order.

With --db the result is stored as a snapshot; ingesting the same inputs
again returns the existing snapshot.

Examples:
  csvflow ingest --types types.cue --source Person --target Coded people.csv
  csvflow ingest people.csv more.csv --db ./csvflow.db --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(opts, args, cmd)
		},
	}

	addDataFlags(cmd, opts)

	return cmd
}

func runIngest(opts *DataOptions, csvs []string, cmd *cobra.Command) error {
	opts.applyConfig(cmd)
	formatter := opts.formatter(cmd)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	in, err := loadAndIngest(ctx, opts, csvs)
	if err != nil {
		return formatter.Fail(err)
	}
	formatter.VerboseLog("Ingested %d row(s) from %d file(s)", len(in.Result.Relation.Children), len(csvs))
	return outputRelation(formatter, opts, in, in.Result.Relation)
}
