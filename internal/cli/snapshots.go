package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tauroid/csv-dataflow/internal/relation"
	"github.com/tauroid/csv-dataflow/internal/render"
	"github.com/tauroid/csv-dataflow/internal/sop"
	"github.com/tauroid/csv-dataflow/internal/store"
)

// SnapshotsOptions holds flags for the snapshots commands.
type SnapshotsOptions struct {
	*RootOptions
	Database string
}

// NewSnapshotsCommand creates the snapshots command and its subcommands.
func NewSnapshotsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Inspect stored ingestion results",
		Long: `List, show and delete the snapshots stored by "csvflow ingest --db".

Examples:
  csvflow snapshots list --db ./csvflow.db
  csvflow snapshots show <id> --db ./csvflow.db
  csvflow snapshots delete <id> --db ./csvflow.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "snapshot database")

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List snapshots, oldest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, cmd, func(ctx context.Context, f *OutputFormatter, st *store.Store) error {
				return listSnapshots(ctx, f, st)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "show <id>",
		Short:         "Show a snapshot's relation",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, cmd, func(ctx context.Context, f *OutputFormatter, st *store.Store) error {
				return showSnapshot(ctx, f, st, args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a snapshot",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, cmd, func(ctx context.Context, f *OutputFormatter, st *store.Store) error {
				if err := st.Delete(ctx, args[0]); err != nil {
					return snapshotError(f, args[0], err)
				}
				if f.Format == "json" {
					return f.Success(map[string]string{"deleted": args[0]})
				}
				fmt.Fprintf(f.Writer, "Deleted snapshot %s\n", args[0])
				return nil
			})
		},
	})

	return cmd
}

// withStore opens the configured database for the duration of run.
func withStore(opts *SnapshotsOptions, cmd *cobra.Command, run func(context.Context, *OutputFormatter, *store.Store) error) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	db := opts.Database
	if !cmd.Flags().Changed("db") && opts.Config != nil {
		db = opts.Config.DB
	}
	if db == "" {
		return formatter.Fail(&LoadError{Code: ErrCodeUsage, Message: "no database given (use --db or set db in csvflow.yaml)"})
	}

	st, err := store.Open(db)
	if err != nil {
		return formatter.Fail(dbError("opening database", err))
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return run(ctx, formatter, st)
}

func listSnapshots(ctx context.Context, f *OutputFormatter, st *store.Store) error {
	snaps, err := st.List(ctx)
	if err != nil {
		return f.Fail(dbError("listing snapshots", err))
	}

	if f.Format == "json" {
		if snaps == nil {
			snaps = []store.Snapshot{}
		}
		return f.Success(snaps)
	}

	if len(snaps) == 0 {
		fmt.Fprintln(f.Writer, "No snapshots.")
		return nil
	}
	for _, s := range snaps {
		fmt.Fprintf(f.Writer, "%s  %s -> %s  %d row(s), %d file(s)\n",
			s.ID, s.SourceType, s.TargetType, s.Rows, len(s.Files))
	}
	return nil
}

func showSnapshot(ctx context.Context, f *OutputFormatter, st *store.Store, id string) error {
	snap, err := st.Get(ctx, id)
	if err != nil {
		return snapshotError(f, id, err)
	}

	if f.Format == "json" {
		data, err := relation.Marshal[sop.NoData](snap.Result.Relation)
		if err != nil {
			return f.Fail(err)
		}
		return f.Success(RelationOutput{
			Snapshot: snap,
			Source:   sop.Format(snap.Result.Source),
			Target:   sop.Format(snap.Result.Target),
			Rows:     snap.Rows,
			Relation: data,
		})
	}

	fmt.Fprintf(f.Writer, "Snapshot %s\n", snap.ID)
	fmt.Fprintf(f.Writer, "  types:       %s -> %s\n", snap.SourceType, snap.TargetType)
	fmt.Fprintf(f.Writer, "  fingerprint: %s\n", snap.Fingerprint)
	for _, file := range snap.Files {
		fmt.Fprintf(f.Writer, "  file:        %s\n", file.Path)
	}
	fmt.Fprintf(f.Writer, "source: %s\n", sop.Format(snap.Result.Source))
	fmt.Fprintf(f.Writer, "target: %s\n", sop.Format(snap.Result.Target))
	render.WriteRelation[sop.NoData](f.Writer, snap.Result.Relation)
	return nil
}

func snapshotError(f *OutputFormatter, id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return f.Fail(&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("snapshot %s not found", id)})
	}
	return f.Fail(dbError("reading snapshot", err))
}
