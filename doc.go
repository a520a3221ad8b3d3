// Package sieve is an embedded query engine that filters in-memory Go
// records with SQL WHERE clauses.
//
// A query is parsed once into an expression tree and evaluated against
// records through a Schema, which maps column names to accessor functions.
// Optional bucketed indices (package index) shrink the set of candidates
// before evaluation; the result is always the same as a full scan.
//
// # Quick Start
//
//	type Person struct {
//	    Name  string
//	    Age   int
//	    Color string
//	}
//
//	schema := sieve.NewSchema[*Person]("Person").
//	    Column("name", func(p *Person) any { return p.Name }).
//	    Column("age", func(p *Person) any { return p.Age }).
//	    Column("color", func(p *Person) any { return p.Color })
//
//	eng, err := sieve.New("SELECT * FROM Person WHERE age = 40 AND color = 'blue'", schema)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	matches, err := eng.Execute(slices.Values(people))
//
// # Extensions
//
// Functions callable from a query are supplied as extension sources:
//
//	isBob := extension.Func1("is_bob", func(p *Person) bool { return p.Name == "Bob" })
//	eng, _ := sieve.New("SELECT * FROM Person WHERE is_bob()", schema,
//	    sieve.WithExtensions(extension.Funcs{isBob}))
//
// A function declaring one more parameter than the call supplies receives
// the current row as its last argument. Date literals such as '2011/03/01'
// are converted by the toDate function; extension.StandardDate (dd/MM/yyyy)
// is used unless another source provides it.
//
// # Indices
//
//	set := index.NewSet[*Person]()
//	set.Define(index.Hash, "color", func(p *Person) any { return p.Color })
//	set.AddAll(ctx, people)
//
//	matches, err := eng.ExecuteIndexed(slices.Values(people), set)
//
// Index definitions can also be loaded from YAML with package config, and
// package prommetrics exports engine metrics to Prometheus.
//
// # Errors
//
// Construction fails with ErrParse or a *ConstructionError. Evaluation
// fails atomically with the first error, matching one of ErrArity,
// ErrTypeMismatch, ErrUnknownFunction, ErrMissingAccessor or ErrInvocation.
//
// # Concurrency
//
// An Engine memoizes evaluation state in its expression tree and must be
// used by one goroutine at a time; Clone creates independent copies. Index
// sets are safe for concurrent use.
package sieve
