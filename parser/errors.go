package parser

import (
	"errors"
	"fmt"
)

// ErrSyntax matches every error returned by this package.
var ErrSyntax = errors.New("syntax error")

// SyntaxError describes malformed query text.
type SyntaxError struct {
	Pos  int
	Near string
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("syntax error near %q at offset %d: %s", e.Near, e.Pos, e.Msg)
}

// Is reports whether target is ErrSyntax.
func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }
