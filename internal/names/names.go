// Package names normalizes column and function identifiers.
package names

import (
	"golang.org/x/text/cases"
)

// Fold returns the case-folded form of an identifier, so that "Book",
// "BOOK" and "book" address the same column. A Caser is stateful, so a
// fresh one is used per call.
func Fold(name string) string {
	return cases.Fold().String(name)
}
