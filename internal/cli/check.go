package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/sieve"
	"github.com/hupe1980/sieve/config"
	"github.com/hupe1980/sieve/extension"
)

// CheckResult is the json payload of the check command.
type CheckResult struct {
	Statement string   `json:"statement"`
	Table     string   `json:"table"`
	Functions []string `json:"functions"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	var query, format string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Parse and validate a query without input",
		Long: `Parse and validate a SELECT statement and print its canonical form.

Column references are resolved at evaluation time, so check only reports
syntax errors and invalid expression trees.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, query, format, cmd)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "SELECT statement to check (required)")
	cmd.Flags().StringVar(&format, "date-format", "", "toDate format (standard|american|japanese)")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}

func runCheck(root *RootOptions, query, format string, cmd *cobra.Command) error {
	out := &OutputFormatter{Format: root.Format, Writer: cmd.OutOrStdout()}

	f, err := (&config.Config{DateFormat: format}).Format()
	if err != nil {
		return out.Error(ExitCommandError, "invalid date format", err)
	}
	eng, err := sieve.New(query, sieve.NewSchema[*Row](""), sieve.WithExtensions(extension.DateSource(f)))
	if err != nil {
		return out.Error(classify(err), "invalid query", err)
	}

	result := CheckResult{
		Statement: eng.String(),
		Table:     eng.Statement().Name(),
		Functions: eng.Functions(),
	}
	return out.Success(result, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s\nfunctions: %s\n", result.Statement, strings.Join(result.Functions, ", "))
		return err
	})
}
