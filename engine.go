package sieve

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/hupe1980/sieve/compile"
	"github.com/hupe1980/sieve/expr"
	"github.com/hupe1980/sieve/extension"
	"github.com/hupe1980/sieve/index"
	"github.com/hupe1980/sieve/parser"
	"github.com/hupe1980/sieve/restrict"
)

// Engine evaluates one parsed SELECT statement against records of type R.
//
// The expression tree memoizes per-node state on first evaluation (chosen
// comparators, LIKE patterns, IN sets, date literals), so an Engine must be
// used by one goroutine at a time. Use Clone to obtain an independent engine
// for another goroutine.
type Engine[R comparable] struct {
	query  string
	stmt   *expr.Select
	schema *Schema[R]
	funcs  *extension.Table
	env    *expr.Env
	prog   *compile.Program
	opts   []Option

	logger  *Logger
	metrics MetricsCollector
}

// New parses query and builds an engine for records described by schema.
//
// Syntax errors match ErrParse. Conflicting or inaccessible extension
// functions, an invalid schema and invalid expression trees are reported as
// *ConstructionError.
func New[R comparable](query string, schema *Schema[R], opts ...Option) (*Engine[R], error) {
	o := applyOptions(opts)
	e, err := build(query, schema, o)
	o.logger.LogConstruct(context.Background(), functionCount(e), schemaColumns(schema), err)
	if err != nil {
		return nil, err
	}
	e.opts = opts
	return e, nil
}

func build[R comparable](query string, schema *Schema[R], o options) (*Engine[R], error) {
	if schema == nil {
		return nil, constructionError("nil schema", nil)
	}
	if err := schema.Err(); err != nil {
		return nil, constructionError("invalid schema", err)
	}

	stmt, err := parser.Parse(query)
	if err != nil {
		return nil, fmt.Errorf("sieve: %w", err)
	}
	if err := expr.Validate(stmt.Where); err != nil {
		return nil, constructionError("invalid WHERE clause", err)
	}
	switch {
	case o.alias != "":
		stmt.Alias = o.alias
	case schema.Name() != "":
		stmt.Alias = schema.Name()
	}

	funcs, err := functionTable(o.extensions)
	if err != nil {
		return nil, constructionError("extensions", err)
	}

	e := &Engine[R]{
		query:   query,
		stmt:    stmt,
		schema:  schema,
		funcs:   funcs,
		env:     expr.NewEnv(schema.accessors(), funcs),
		metrics: o.metricsCollector,
	}
	if o.compiled {
		if e.prog, err = compile.Compile(stmt.Where); err != nil {
			return nil, constructionError("compile", err)
		}
	}
	e.logger = o.logger.WithTable(stmt.Name()).WithQuery(stmt.String())
	return e, nil
}

// functionTable merges the sources and falls back to the standard date
// format when none of them provides toDate.
func functionTable(sources []extension.Source) (*extension.Table, error) {
	funcs, err := extension.NewTable(sources...)
	if err != nil {
		return nil, err
	}
	if _, ok := funcs.Lookup(extension.DateFunctionName); ok {
		return funcs, nil
	}
	return extension.NewTable(append(slices.Clip(sources), extension.StandardDate)...)
}

func functionCount[R comparable](e *Engine[R]) int {
	if e == nil {
		return 0
	}
	return e.funcs.Len()
}

func schemaColumns[R any](s *Schema[R]) []string {
	if s == nil {
		return nil
	}
	return s.Columns()
}

// Clone returns an independent engine for the same query and options.
func (e *Engine[R]) Clone() (*Engine[R], error) {
	return New(e.query, e.schema, e.opts...)
}

// Statement returns the parsed statement.
func (e *Engine[R]) Statement() *expr.Select { return e.stmt }

// String renders the statement in canonical form.
func (e *Engine[R]) String() string { return e.stmt.String() }

// Functions returns the names of the functions callable from the query.
func (e *Engine[R]) Functions() []string { return e.funcs.Names() }

// Execute evaluates every row and returns the matches in input order. It
// fails with the first evaluation error.
func (e *Engine[R]) Execute(rows iter.Seq[R]) ([]R, error) {
	return e.scan(context.Background(), rows, false)
}

// ExecuteIndexed restricts the candidates through set before evaluating
// them. The result holds the same records as Execute over the indexed
// records. When no index applies, rows is scanned instead. Matches from an
// index come in index iteration order.
func (e *Engine[R]) ExecuteIndexed(rows iter.Seq[R], set *index.Set[R]) ([]R, error) {
	ctx := context.Background()
	if candidates := e.Restrict(set); candidates != nil {
		return e.scan(ctx, candidates.All(), true)
	}
	return e.scan(ctx, rows, false)
}

// Restrict returns the candidate index for the WHERE clause, or nil when set
// cannot reduce the candidates.
func (e *Engine[R]) Restrict(set *index.Set[R]) *index.Index[R] {
	ix := restrict.Restrictor[R]{Set: set, Env: e.env}.Restrict(e.stmt.Where)
	candidates, column := 0, ""
	if ix != nil {
		candidates, column = ix.Size(), ix.Column()
	}
	e.metrics.RecordRestrict(candidates, ix != nil)
	e.logger.LogRestrict(context.Background(), column, candidates)
	return ix
}

// TestOne evaluates a single row. It returns the row and true on a match.
func (e *Engine[R]) TestOne(row R) (R, bool, error) {
	start := time.Now()
	ok, err := e.match(row)
	matched := 0
	if ok {
		matched = 1
	}
	e.metrics.RecordExecute(1, matched, false, time.Since(start), err)
	if err != nil {
		var zero R
		return zero, false, fmt.Errorf("sieve: test: %w", err)
	}
	if !ok {
		var zero R
		return zero, false, nil
	}
	return row, true, nil
}

func (e *Engine[R]) scan(ctx context.Context, rows iter.Seq[R], restricted bool) ([]R, error) {
	start := time.Now()
	var (
		out     []R
		scanned int
		err     error
	)
	for row := range rows {
		scanned++
		var ok bool
		if ok, err = e.match(row); err != nil {
			err = fmt.Errorf("sieve: execute: row %d: %w", scanned, err)
			break
		}
		if ok {
			out = append(out, row)
		}
	}

	d := time.Since(start)
	e.metrics.RecordExecute(scanned, len(out), restricted, d, err)
	e.logger.LogExecute(ctx, scanned, len(out), restricted, d, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine[R]) match(row R) (bool, error) {
	if e.prog != nil {
		return e.prog.Match(row, e.env)
	}
	return expr.Match(e.stmt.Where, row, e.env)
}
