// Copyright © 2024 The ELPS authors

package analysis

import "github.com/luthersystems/rlisp/lisp"

// ScopeKind classifies the kind of scope.
type ScopeKind int

const (
	ScopeGlobal   ScopeKind = iota // file level
	ScopeFunction                  // defun body
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Scope represents a lexical scope in the source.  Functions and variables
// live in separate namespaces, a parameter never shadows a function.
type Scope struct {
	Kind      ScopeKind
	Parent    *Scope
	Children  []*Scope
	Functions map[string]*Symbol
	Variables map[string]*Symbol
	Node      *lisp.Expr // the defun that introduced this scope
}

// NewScope creates a new scope of the given kind with the given parent.
func NewScope(kind ScopeKind, parent *Scope, node *lisp.Expr) *Scope {
	s := &Scope{
		Kind:      kind,
		Parent:    parent,
		Functions: make(map[string]*Symbol),
		Variables: make(map[string]*Symbol),
		Node:      node,
	}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

// Define adds a symbol to this scope, replacing any symbol of the same name
// in the same namespace.
func (s *Scope) Define(sym *Symbol) {
	sym.Scope = s
	if sym.Kind.callable() {
		s.Functions[sym.Name] = sym
		return
	}
	s.Variables[sym.Name] = sym
}

// LookupFunction resolves a function name by walking the parent chain.
func (s *Scope) LookupFunction(name string) *Symbol {
	for scope := s; scope != nil; scope = scope.Parent {
		if sym, ok := scope.Functions[name]; ok {
			return sym
		}
	}
	return nil
}

// LookupVariable resolves a variable name by walking the parent chain.
func (s *Scope) LookupVariable(name string) *Symbol {
	for scope := s; scope != nil; scope = scope.Parent {
		if sym, ok := scope.Variables[name]; ok {
			return sym
		}
	}
	return nil
}

// Contains reports whether the source line and column fall inside the
// defun that introduced s.  The global scope contains every position.
func (s *Scope) Contains(line, col int) bool {
	if s.Node == nil || s.Node.Source == nil {
		return true
	}
	return s.Node.Source.Line == line && col >= s.Node.Source.Col
}
