// Package expr defines the WHERE-clause expression tree and its
// tree-walking evaluator.
//
// Node is a sealed interface: only types in this package implement it, so
// the evaluator, the restrictor and the compiler can switch exhaustively
// over the node kinds.
//
// # Memoization
//
// Several nodes cache work on first evaluation: the comparator picked for
// the observed operand types, the compiled LIKE pattern, the IN option set,
// the value of a date literal and the numeric normalizer of column and
// function results. These caches are plain fields. A tree must therefore be
// evaluated by one goroutine at a time; build a second tree to evaluate
// concurrently.
package expr
