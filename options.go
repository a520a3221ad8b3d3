package sieve

import (
	"log/slog"

	"github.com/hupe1980/sieve/extension"
)

type options struct {
	extensions       []extension.Source
	metricsCollector MetricsCollector
	logger           *Logger
	compiled         bool
	alias            string
}

// Option configures engine construction.
type Option func(*options)

// WithExtensions registers function sources callable from the WHERE clause.
// A function name may be defined by only one source. When no source
// provides toDate, extension.StandardDate is used for date literals.
//
// Example:
//
//	eng, _ := sieve.New(query, schema, sieve.WithExtensions(
//	    extension.AmericanDate,
//	    extension.Funcs{extension.Func1("is_bob", isBob)},
//	))
func WithExtensions(sources ...extension.Source) Option {
	return func(o *options) {
		o.extensions = append(o.extensions, sources...)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring queries.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &sieve.BasicMetricsCollector{}
//	eng, _ := sieve.New(query, schema, sieve.WithMetricsCollector(metrics))
//	// ... use eng ...
//	stats := metrics.GetStats()
//	fmt.Printf("Executes: %d, Avg latency: %dns\n", stats.ExecuteCount, stats.ExecuteAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := sieve.NewJSONLogger(slog.LevelDebug)
//	eng, _ := sieve.New(query, schema, sieve.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithCompiledBackend evaluates the WHERE clause through a closure-compiled
// program instead of walking the expression tree.
func WithCompiledBackend() Option {
	return func(o *options) {
		o.compiled = true
	}
}

// WithAlias overrides the name the statement is displayed with. By default
// the schema name is used.
func WithAlias(alias string) Option {
	return func(o *options) {
		o.alias = alias
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
