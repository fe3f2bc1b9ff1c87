// Copyright © 2024 The ELPS authors

package lint

import "github.com/luthersystems/rlisp/lisp"

// Walk calls fn for every evaluated node in the tree, depth-first.  Quoted
// lists are visited but their elements are not, neither are the name and
// parameter list of a defun.  parent is nil for top-level
// expressions.
func Walk(exprs []*lisp.Expr, fn func(node *lisp.Expr, parent *lisp.Expr, depth int)) {
	for _, expr := range exprs {
		walkNode(expr, nil, 0, fn)
	}
}

func walkNode(node *lisp.Expr, parent *lisp.Expr, depth int, fn func(*lisp.Expr, *lisp.Expr, int)) {
	if node == nil {
		return
	}
	fn(node, parent, depth)
	if node.Type != lisp.EList {
		return
	}
	for i, child := range node.Cells {
		// The name and parameters of a defun are never evaluated.
		if (i == 1 || i == 2) && isDefun(node) {
			continue
		}
		walkNode(child, node, depth+1, fn)
	}
}

// WalkCalls calls fn for every non-empty list, each of which is a function
// or operator application when evaluated.
func WalkCalls(exprs []*lisp.Expr, fn func(call *lisp.Expr, depth int)) {
	Walk(exprs, func(node *lisp.Expr, _ *lisp.Expr, depth int) {
		if node.Type == lisp.EList && len(node.Cells) > 0 {
			fn(node, depth)
		}
	})
}

// HeadOp returns the operator at the head of a call.
func HeadOp(call *lisp.Expr) (lisp.Op, bool) {
	if call.Type != lisp.EList || len(call.Cells) == 0 || call.Cells[0].Type != lisp.EOperator {
		return lisp.OpInvalid, false
	}
	return call.Cells[0].Op, true
}

// HeadName returns the function name at the head of a call, or "".
func HeadName(call *lisp.Expr) string {
	if call.Type != lisp.EList || len(call.Cells) == 0 || call.Cells[0].Type != lisp.EName {
		return ""
	}
	return call.Cells[0].Str
}

// ArgCount returns the number of arguments in a call (excluding the head).
func ArgCount(call *lisp.Expr) int {
	if len(call.Cells) <= 1 {
		return 0
	}
	return len(call.Cells) - 1
}

func isDefun(node *lisp.Expr) bool {
	op, ok := HeadOp(node)
	return ok && op == lisp.OpDefun
}

// keyword returns the text an operator head was written with.
func keyword(head *lisp.Expr) string {
	if head.Str != "" {
		return head.Str
	}
	return head.Op.String()
}
