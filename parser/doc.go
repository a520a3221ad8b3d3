// Package parser turns WHERE-clause queries into expression trees.
//
// The accepted language is
//
//	SELECT * FROM <type> [[AS] <alias>] WHERE <predicate> [;]
//
// with AND, OR, NOT, the comparisons = != <> < <= > >=, BETWEEN, IN,
// LIKE, IS [NOT] NULL, + - * /, function calls and numeric, string and
// NULL literals. Quoted strings shaped like dates ('01/03/2011',
// '1991-05-15') become date literals resolved through toDate.
//
// The parser is a single-pass lexer feeding a recursive-descent parser with
// one token of lookahead.
package parser
