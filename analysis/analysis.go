// Copyright © 2024 The ELPS authors

// Package analysis provides scope-aware semantic analysis for rlisp source.
//
// The analyzer builds a scope tree from parsed expressions, resolves function
// and variable references, and identifies unresolved names.  It is shared by
// the lint analyzers and the language server.
package analysis

import (
	"sort"

	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/parser/token"
)

// Config controls the behavior of the analyzer.
type Config struct {
	// ExtraGlobals are symbols defined outside the analyzed source, in other
	// files or in the environment of an embedding program.
	ExtraGlobals []ExternalSymbol

	// Filename is the source file being analyzed.
	Filename string
}

// ExternalSymbol represents a symbol defined outside the analyzed source.
type ExternalSymbol struct {
	Name      string
	Kind      SymbolKind
	Signature *Signature
	Source    *token.Location
}

// Result holds the output of semantic analysis.
type Result struct {
	RootScope *Scope
	// Symbols lists every user definition in source order, including
	// redefinitions of the same function.
	Symbols    []*Symbol
	References []*Reference
	Unresolved []*UnresolvedRef
}

// Analyze performs semantic analysis on a set of parsed expressions.
func Analyze(exprs []*lisp.Expr, cfg *Config) *Result {
	if cfg == nil {
		cfg = &Config{}
	}

	root := NewScope(ScopeGlobal, nil, nil)
	populateBuiltins(root)

	for _, ext := range cfg.ExtraGlobals {
		root.Define(&Symbol{
			Name:      ext.Name,
			Kind:      ext.Kind,
			Source:    ext.Source,
			Signature: ext.Signature,
			External:  true,
		})
	}

	a := &analyzer{
		root:   root,
		result: &Result{RootScope: root},
	}

	// Functions are resolved when they are called, so a body may refer to
	// a function defined on a later line.
	a.prescan(exprs)
	for _, expr := range exprs {
		a.analyzeExpr(expr, root)
	}
	return a.result
}

// EnvSymbols returns the functions and variables currently defined in env,
// suitable for use as Config.ExtraGlobals.
func EnvSymbols(env *lisp.Env) []ExternalSymbol {
	var syms []ExternalSymbol
	for _, name := range env.FunctionNames() {
		def := env.Functions[name]
		syms = append(syms, ExternalSymbol{
			Name:      name,
			Kind:      SymFunction,
			Signature: &Signature{Name: name, Params: def.Params},
			Source:    def.Source,
		})
	}
	vars := make([]string, 0, len(env.Variables))
	for name := range env.Variables {
		vars = append(vars, name)
	}
	sort.Strings(vars)
	for _, name := range vars {
		syms = append(syms, ExternalSymbol{Name: name, Kind: SymVariable})
	}
	return syms
}

// Functions returns the user functions visible at the top level, sorted by
// name.
func (r *Result) Functions() []*Symbol {
	var funs []*Symbol
	for _, sym := range r.RootScope.Functions {
		if sym.Kind == SymFunction {
			funs = append(funs, sym)
		}
	}
	sort.Slice(funs, func(i, j int) bool { return funs[i].Name < funs[j].Name })
	return funs
}

// Builtin returns the symbol for a builtin operator.
func (r *Result) Builtin(op lisp.Op) *Symbol {
	return r.RootScope.Functions[builtinKey(op)]
}

// ReferencesTo returns the references which resolved to sym.
func (r *Result) ReferencesTo(sym *Symbol) []*Reference {
	var refs []*Reference
	for _, ref := range r.References {
		if ref.Symbol == sym {
			refs = append(refs, ref)
		}
	}
	return refs
}

// SymbolAt returns the symbol defined or referenced at the 1-based line and
// column, or nil.
func (r *Result) SymbolAt(line, col int) *Symbol {
	for _, sym := range r.Symbols {
		if covers(sym.Source, len(sym.Name), line, col) {
			return sym
		}
	}
	if ref := r.ReferenceAt(line, col); ref != nil {
		return ref.Symbol
	}
	return nil
}

// ReferenceAt returns the reference at the 1-based line and column, or nil.
func (r *Result) ReferenceAt(line, col int) *Reference {
	for _, ref := range r.References {
		if covers(ref.Source, Width(ref.Node), line, col) {
			return ref
		}
	}
	return nil
}

// ScopeAt returns the innermost scope containing the 1-based line and
// column.
func (r *Result) ScopeAt(line, col int) *Scope {
	for _, child := range r.RootScope.Children {
		if child.Contains(line, col) {
			return child
		}
	}
	return r.RootScope
}
