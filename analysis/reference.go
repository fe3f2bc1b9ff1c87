// Copyright © 2024 The ELPS authors

package analysis

import (
	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/parser/token"
)

// Reference records a resolved symbol usage.
type Reference struct {
	Symbol *Symbol
	Source *token.Location
	Node   *lisp.Expr
}

// UnresolvedRef records a symbol usage that could not be resolved.
type UnresolvedRef struct {
	Name string
	// Call is true when the name is used as a function.
	Call   bool
	Source *token.Location
	Node   *lisp.Expr
}

// Width returns the number of columns the text of a name or operator
// occupies in its source line.
func Width(node *lisp.Expr) int {
	switch node.Type {
	case lisp.EName:
		return len(node.Str)
	case lisp.EOperator:
		if node.Str != "" {
			return len(node.Str)
		}
		return len(node.Op.String())
	default:
		return 1
	}
}

// covers reports whether the token at loc with the given width covers the
// 1-based line and column.
func covers(loc *token.Location, width, line, col int) bool {
	if loc == nil || loc.Line != line {
		return false
	}
	return col >= loc.Col && col < loc.Col+width
}
