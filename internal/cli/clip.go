package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tauroid/csv-dataflow/internal/relation"
	"github.com/tauroid/csv-dataflow/internal/sop"
)

// ClipOptions holds flags for the clip command.
type ClipOptions struct {
	DataOptions
	SourceDepth int
	TargetDepth int
}

// NewClipCommand creates the clip command.
func NewClipCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClipOptions{DataOptions: DataOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "clip <csv>...",
		Short: "Collapse the relation to a number of recursion levels",
		Long: `Ingest CSV files, then clip the relation to the ingested trees with
recursive references expanded to the given depth on each side. Parts of
the relation below the cut are summarised by a single relation between the
nodes where the cut was made.

Examples:
  csvflow clip people.csv --source-depth 1 --target-depth 1
  csvflow clip people.csv --source-depth 0 --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClip(opts, args, cmd)
		},
	}

	addDataFlags(cmd, &opts.DataOptions)
	cmd.Flags().IntVar(&opts.SourceDepth, "source-depth", 1, "recursion levels to keep in the source tree")
	cmd.Flags().IntVar(&opts.TargetDepth, "target-depth", 1, "recursion levels to keep in the target tree")

	return cmd
}

func runClip(opts *ClipOptions, csvs []string, cmd *cobra.Command) error {
	opts.applyConfig(cmd)
	formatter := opts.formatter(cmd)

	if opts.SourceDepth < 0 || opts.TargetDepth < 0 {
		return formatter.Fail(&LoadError{Code: ErrCodeUsage, Message: "clip depths must be non-negative"})
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	in, err := loadAndIngest(ctx, &opts.DataOptions, csvs)
	if err != nil {
		return formatter.Fail(err)
	}

	sourceClip, err := sop.Unroll(in.Result.Source, opts.SourceDepth)
	if err != nil {
		return formatter.Fail(err)
	}
	targetClip, err := sop.Unroll(in.Result.Target, opts.TargetDepth)
	if err != nil {
		return formatter.Fail(err)
	}

	clipped, err := relation.Clip[sop.NoData](in.Result.Relation, sourceClip, targetClip)
	if err != nil {
		return formatter.Fail(err)
	}
	return outputRelation(formatter, &opts.DataOptions, in, clipped)
}
