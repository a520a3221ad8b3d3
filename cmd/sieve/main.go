// Command sieve filters JSON lines with SQL WHERE clauses.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hupe1980/sieve/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
