// Command csvflow builds relations between typed trees from CSV files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/tauroid/csv-dataflow/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		// Failures already reported by a formatter still carry their message
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}
