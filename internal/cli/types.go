package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tauroid/csv-dataflow/internal/render"
	"github.com/tauroid/csv-dataflow/internal/sop"
)

// TypesOptions holds flags for the types command.
type TypesOptions struct {
	*RootOptions
	Names []string // only these types
}

// TypeInfo describes one compiled type.
type TypeInfo struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Tree  string `json:"tree"`
	Nodes int    `json:"nodes"` // reachable without following back-references
}

// NewTypesCommand creates the types command.
func NewTypesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TypesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "types [types.cue]",
		Short: "Show the trees of CUE types",
		Long: `Compile a CUE types file and show the tree of every definition.

Recursive references are shown as "-> ^k", pointing k levels up the
tree. Without an argument the types file from csvflow.yaml is used.

Examples:
  csvflow types types.cue
  csvflow types types.cue --name Person --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else if opts.Config != nil {
				path = opts.Config.Types
			}
			return runTypes(opts, path, cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Names, "name", nil, "only show these types (repeatable)")

	return cmd
}

func runTypes(opts *TypesOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	ts, err := LoadTypes(path)
	if err != nil {
		return formatter.Fail(err)
	}

	names := opts.Names
	if len(names) == 0 {
		names = ts.Schema.Names()
	}

	infos := make([]TypeInfo, 0, len(names))
	trees := make([]*sop.Node[sop.NoData], 0, len(names))
	for _, name := range names {
		desc, err := ts.Schema.MustLookup(name)
		if err != nil {
			return formatter.Fail(convertCompileError(err, path))
		}
		tree, err := sop.FromType[sop.NoData](desc)
		if err != nil {
			return formatter.Fail(err)
		}
		nodes := 0
		for range sop.AllPaths(tree, -1) {
			nodes++
		}
		infos = append(infos, TypeInfo{
			Name:  name,
			Kind:  desc.Kind.String(),
			Tree:  sop.Format(tree),
			Nodes: nodes,
		})
		trees = append(trees, tree)
	}

	if formatter.Format == "json" {
		return formatter.Success(infos)
	}

	for i, info := range infos {
		if i > 0 {
			fmt.Fprintln(formatter.Writer)
		}
		fmt.Fprintf(formatter.Writer, "%s (%s)\n", info.Name, info.Kind)
		render.WriteTree(formatter.Writer, trees[i])
	}
	return nil
}
