package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/sieve"
	"github.com/hupe1980/sieve/config"
	"github.com/hupe1980/sieve/extension"
	"github.com/hupe1980/sieve/index"
)

// QueryOptions holds the flags shared by run and explain.
type QueryOptions struct {
	Query       string
	ConfigPath  string
	DateFormat  string
	DateColumns []string
	Compiled    bool
}

func (q *QueryOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&q.Query, "query", "q", "", "SELECT statement to evaluate (required)")
	cmd.Flags().StringVarP(&q.ConfigPath, "config", "c", "", "YAML index config")
	cmd.Flags().StringVar(&q.DateFormat, "date-format", "", "toDate format (standard|american|japanese), overrides the config")
	cmd.Flags().StringSliceVar(&q.DateColumns, "date-column", nil, "columns whose string values are dates")
	cmd.Flags().BoolVar(&q.Compiled, "compiled", false, "use the compiled evaluation backend")
	_ = cmd.MarkFlagRequired("query")
}

// session is a loaded input with its engine and optional index set.
type session struct {
	rows   []*Row
	engine *sieve.Engine[*Row]
	set    *index.Set[*Row]
}

func (q *QueryOptions) load(ctx context.Context, root *RootOptions, cmd *cobra.Command, args []string) (*session, error) {
	cfg := &config.Config{}
	if q.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(q.ConfigPath); err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid config", err)
		}
	}
	if q.DateFormat != "" {
		cfg.DateFormat = q.DateFormat
	}
	format, err := cfg.Format()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid date format", err)
	}

	in, closeFn, err := openInput(cmd, args)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open input", err)
	}
	defer closeFn()

	rows, err := newReader(q.DateColumns, format).ReadAll(in)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid input", err)
	}

	indexed := make([]string, 0, len(cfg.Indexes))
	for _, spec := range cfg.Indexes {
		indexed = append(indexed, spec.Column)
	}
	schema := schemaFor(rows, indexed...)

	level, err := parseLevel(root.LogLevel)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid log level", err)
	}
	opts := []sieve.Option{
		sieve.WithExtensions(extension.DateSource(format)),
		sieve.WithLogger(sieve.NewLogger(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))),
	}
	if q.Compiled {
		opts = append(opts, sieve.WithCompiledBackend())
	}
	eng, err := sieve.New(q.Query, schema, opts...)
	if err != nil {
		return nil, WrapExitError(classify(err), "invalid query", err)
	}

	s := &session{rows: rows, engine: eng}
	if len(cfg.Indexes) > 0 {
		if s.set, err = config.BuildSet(cfg, schema); err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid config", err)
		}
		if err := s.set.AddAll(ctx, rows); err != nil {
			return nil, WrapExitError(ExitCommandError, "build indices", err)
		}
	}
	return s, nil
}

// openInput opens the file named by args, or stdin for none or "-".
func openInput(cmd *cobra.Command, args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
