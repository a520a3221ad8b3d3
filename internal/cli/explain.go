package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// ExplainResult is the json payload of the explain command.
type ExplainResult struct {
	Statement  string `json:"statement"`
	Rows       int    `json:"rows"`
	Restricted bool   `json:"restricted"`
	Column     string `json:"column,omitempty"`
	Candidates int    `json:"candidates"`
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{}
	cmd := &cobra.Command{
		Use:   "explain [file|-]",
		Short: "Show how far the configured indices narrow a query",
		Long: `Build the indices of --config over the input and report the candidate
rows the WHERE clause is restricted to, without evaluating it.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(rootOpts, opts, cmd, args)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runExplain(root *RootOptions, opts *QueryOptions, cmd *cobra.Command, args []string) error {
	out := &OutputFormatter{Format: root.Format, Writer: cmd.OutOrStdout()}

	s, err := opts.load(cmd.Context(), root, cmd, args)
	if err != nil {
		return out.Error(GetExitCode(err), "explain", err)
	}

	result := ExplainResult{Statement: s.engine.String(), Rows: len(s.rows), Candidates: len(s.rows)}
	if s.set != nil {
		if ix := s.engine.Restrict(s.set); ix != nil {
			result.Restricted = true
			result.Column = ix.Column()
			result.Candidates = ix.Size()
		}
	}
	return out.Success(result, func(w io.Writer) error {
		var err error
		if result.Restricted {
			_, err = fmt.Fprintf(w, "%s\nrestricted by %s: %d of %d rows\n", result.Statement, result.Column, result.Candidates, result.Rows)
		} else {
			_, err = fmt.Fprintf(w, "%s\nfull scan: %d rows\n", result.Statement, result.Rows)
		}
		return err
	})
}
