package expr

import (
	"errors"
	"fmt"
)

// Children returns the direct operands of n.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Call:
		return n.Args
	case *Boolean:
		return n.Operands
	case *Comparison:
		return n.Operands
	case *Arithmetic:
		return n.Operands
	case *Between:
		return n.Operands
	case *In:
		return append([]Node{n.Value}, n.Options...)
	case *IsNull:
		return []Node{n.Value}
	case *Like:
		return n.Operands
	default:
		return nil
	}
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the children of the visited node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// Validate checks structural constraints that do not depend on a row:
// operands are non-nil and IN options are literals. Operand counts are
// checked at evaluation time.
func Validate(n Node) error {
	if n == nil {
		return errors.New("missing expression")
	}
	var err error
	Walk(n, func(node Node) bool {
		if err != nil {
			return false
		}
		for _, c := range Children(node) {
			if c == nil {
				err = fmt.Errorf("%T has a nil operand", node)
				return false
			}
		}
		if in, ok := node.(*In); ok {
			for _, o := range in.Options {
				if !IsLiteral(o) {
					err = fmt.Errorf("%w: %s", ErrNonLiteralOption, o)
					return false
				}
			}
		}
		return true
	})
	return err
}

// Columns returns the distinct column names referenced by n, in order of
// first appearance.
func Columns(n Node) []string {
	var out []string
	seen := make(map[string]struct{})
	Walk(n, func(node Node) bool {
		if c, ok := node.(*Column); ok {
			if _, dup := seen[c.Name]; !dup {
				seen[c.Name] = struct{}{}
				out = append(out, c.Name)
			}
		}
		return true
	})
	return out
}
