package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tauroid/csv-dataflow/internal/relation"
	"github.com/tauroid/csv-dataflow/internal/sop"
)

// FilterOptions holds flags for the filter command.
type FilterOptions struct {
	DataOptions
	Paths []string
}

// NewFilterCommand creates the filter command.
func NewFilterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilterOptions{DataOptions: DataOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "filter <csv>... --path <pattern>...",
		Short: "Keep the rows connected to given paths",
		Long: `Ingest CSV files, then filter the relation to the rows connected to
at least one of the given paths. Rows that are dropped are kept as empty
placeholders so the remaining rows keep their positions.

A path starts with Source or Target followed by labels. Patterns may use
glob syntax, matched against every leaf path of the relation and its
prefixes: * matches one label, ** any number.

Examples:
  csvflow filter people.csv --path Source/name/Bob
  csvflow filter people.csv --path 'Target/code/**' --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(opts, args, cmd)
		},
	}

	addDataFlags(cmd, &opts.DataOptions)
	cmd.Flags().StringArrayVar(&opts.Paths, "path", nil, "path or glob pattern (repeatable, required)")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

func runFilter(opts *FilterOptions, csvs []string, cmd *cobra.Command) error {
	opts.applyConfig(cmd)
	formatter := opts.formatter(cmd)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	in, err := loadAndIngest(ctx, &opts.DataOptions, csvs)
	if err != nil {
		return formatter.Fail(err)
	}

	paths, err := relation.Expand[sop.NoData](in.Result.Relation, opts.Paths)
	if err != nil {
		return formatter.Fail(err)
	}
	formatter.VerboseLog("Filtering on %d path(s)", len(paths))
	for _, p := range paths {
		formatter.VerboseLog("  %s", p)
	}

	filtered, err := relation.Filter[sop.NoData](in.Result.Relation, paths)
	if err != nil {
		return formatter.Fail(err)
	}
	return outputRelation(formatter, &opts.DataOptions, in, filtered)
}
