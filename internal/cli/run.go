package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
)

// RunResult is the json payload of the run command.
type RunResult struct {
	Rows    int               `json:"rows"`
	Matched int               `json:"matched"`
	Indexed bool              `json:"indexed"`
	Matches []json.RawMessage `json:"matches"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{}
	cmd := &cobra.Command{
		Use:   "run [file|-]",
		Short: "Print the JSON lines matching a query",
		Long: `Evaluate a SELECT statement against JSON lines read from a file or stdin
and print the matching lines in input order.

With --config, the indices it defines are built over the input and used to
narrow the rows evaluated.`,
		Example: `  sieve run -q "select * from deals where book = 'x' and child < 10" deals.jsonl
  sieve run -c indexes.yaml --date-column deal_date \
    -q "select * from deals where deal_date > '01/01/2010'" deals.jsonl`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(rootOpts, opts, cmd, args)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runRun(root *RootOptions, opts *QueryOptions, cmd *cobra.Command, args []string) error {
	out := &OutputFormatter{Format: root.Format, Writer: cmd.OutOrStdout()}

	s, err := opts.load(cmd.Context(), root, cmd, args)
	if err != nil {
		return out.Error(GetExitCode(err), "run", err)
	}

	var matches []*Row
	if s.set != nil {
		matches, err = s.engine.ExecuteIndexed(slices.Values(s.rows), s.set)
	} else {
		matches, err = s.engine.Execute(slices.Values(s.rows))
	}
	if err != nil {
		return out.Error(ExitFailure, "execute", err)
	}
	slices.SortFunc(matches, func(a, b *Row) int { return a.Line - b.Line })

	result := RunResult{Rows: len(s.rows), Matched: len(matches), Indexed: s.set != nil, Matches: make([]json.RawMessage, len(matches))}
	for i, m := range matches {
		result.Matches[i] = m.Raw
	}
	return out.Success(result, func(w io.Writer) error {
		for _, m := range result.Matches {
			if _, err := fmt.Fprintln(w, string(m)); err != nil {
				return err
			}
		}
		return nil
	})
}
