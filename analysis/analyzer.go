// Copyright © 2024 The ELPS authors

package analysis

import "github.com/luthersystems/rlisp/lisp"

type analyzer struct {
	root    *Scope
	result  *Result
	defined map[*lisp.Expr]*Symbol
}

// prescan registers the functions defined by top-level defun forms.
func (a *analyzer) prescan(exprs []*lisp.Expr) {
	for _, expr := range exprs {
		if IsDefun(expr) {
			a.defineFunction(expr)
		}
	}
}

// IsDefun reports whether node is a defun form.
func IsDefun(node *lisp.Expr) bool {
	return node.Type == lisp.EList &&
		len(node.Cells) > 0 &&
		node.Cells[0].Type == lisp.EOperator &&
		node.Cells[0].Op == lisp.OpDefun
}

// DefunParams returns the parameter names of a defun form.  Cells of the
// parameter list which are not names are skipped.
func DefunParams(node *lisp.Expr) []string {
	if len(node.Cells) < 3 || node.Cells[2].Type != lisp.EList {
		return nil
	}
	var params []string
	for _, p := range node.Cells[2].Cells {
		if p.Type == lisp.EName {
			params = append(params, p.Str)
		}
	}
	return params
}

func (a *analyzer) defineFunction(node *lisp.Expr) *Symbol {
	if sym, ok := a.defined[node]; ok {
		return sym
	}
	if len(node.Cells) < 2 || node.Cells[1].Type != lisp.EName {
		return nil
	}
	if a.defined == nil {
		a.defined = make(map[*lisp.Expr]*Symbol)
	}
	name := node.Cells[1]
	sym := &Symbol{
		Name:      name.Str,
		Kind:      SymFunction,
		Source:    name.Source,
		Node:      node,
		Signature: &Signature{Name: name.Str, Params: DefunParams(node)},
	}
	a.root.Define(sym)
	a.result.Symbols = append(a.result.Symbols, sym)
	a.defined[node] = sym
	return sym
}

// analyzeExpr recursively walks an expression, building scopes and
// tracking symbol references.  Quoted lists are data and are not walked.
func (a *analyzer) analyzeExpr(node *lisp.Expr, scope *Scope) {
	if node == nil {
		return
	}
	switch node.Type {
	case lisp.EName:
		a.resolveVariable(node, scope)
	case lisp.EList:
		if len(node.Cells) > 0 {
			a.analyzeCall(node, scope)
		}
	}
}

func (a *analyzer) analyzeCall(node *lisp.Expr, scope *Scope) {
	head := node.Cells[0]
	switch head.Type {
	case lisp.EOperator:
		a.reference(a.root.Functions[builtinKey(head.Op)], head)
		switch head.Op {
		case lisp.OpDefun:
			a.analyzeDefun(node)
			return
		case lisp.OpMap:
			if len(node.Cells) > 1 {
				a.resolveFunctionArg(node.Cells[1], scope)
			}
			if len(node.Cells) > 2 {
				a.analyzeArgs(node.Cells[2:], scope)
			}
			return
		}
	case lisp.EName:
		a.resolveFunction(head, scope)
	default:
		a.analyzeExpr(head, scope)
	}
	a.analyzeArgs(node.Cells[1:], scope)
}

func (a *analyzer) analyzeArgs(args []*lisp.Expr, scope *Scope) {
	for _, arg := range args {
		a.analyzeExpr(arg, scope)
	}
}

// analyzeDefun walks the body of a defun with its parameters in scope.  A
// body sees the root scope rather than the scope it was written in because
// functions do not close over anything.
func (a *analyzer) analyzeDefun(node *lisp.Expr) {
	a.defineFunction(node)
	if len(node.Cells) < 4 || node.Cells[2].Type != lisp.EList {
		return
	}
	bodyScope := NewScope(ScopeFunction, a.root, node)
	for _, p := range node.Cells[2].Cells {
		if p.Type != lisp.EName {
			continue
		}
		sym := &Symbol{
			Name:   p.Str,
			Kind:   SymParameter,
			Source: p.Source,
			Node:   node,
		}
		bodyScope.Define(sym)
		a.result.Symbols = append(a.result.Symbols, sym)
	}
	a.analyzeExpr(node.Cells[3], bodyScope)
}

func (a *analyzer) resolveVariable(node *lisp.Expr, scope *Scope) {
	sym := scope.LookupVariable(node.Str)
	if sym == nil {
		a.unresolved(node, false)
		return
	}
	a.reference(sym, node)
}

func (a *analyzer) resolveFunction(node *lisp.Expr, scope *Scope) {
	sym := scope.LookupFunction(node.Str)
	if sym == nil {
		a.unresolved(node, true)
		return
	}
	a.reference(sym, node)
}

// resolveFunctionArg resolves the function argument of map, which names a
// function without calling it.
func (a *analyzer) resolveFunctionArg(node *lisp.Expr, scope *Scope) {
	switch node.Type {
	case lisp.EName:
		a.resolveFunction(node, scope)
	case lisp.EOperator:
		a.reference(a.root.Functions[builtinKey(node.Op)], node)
	default:
		a.analyzeExpr(node, scope)
	}
}

func (a *analyzer) reference(sym *Symbol, node *lisp.Expr) {
	if sym == nil {
		return
	}
	sym.References++
	a.result.References = append(a.result.References, &Reference{
		Symbol: sym,
		Source: node.Source,
		Node:   node,
	})
}

func (a *analyzer) unresolved(node *lisp.Expr, call bool) {
	a.result.Unresolved = append(a.result.Unresolved, &UnresolvedRef{
		Name:   node.Str,
		Call:   call,
		Source: node.Source,
		Node:   node,
	})
}
