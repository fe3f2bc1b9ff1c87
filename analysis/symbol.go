// Copyright © 2024 The ELPS authors

package analysis

import (
	"strings"

	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/parser/token"
)

// SymbolKind classifies a symbol definition.
type SymbolKind int

const (
	SymFunction  SymbolKind = iota // defun
	SymParameter                   // defun parameter
	SymBuiltin                     // builtin operator
	SymVariable                    // variable bound by the embedding program
)

func (k SymbolKind) String() string {
	switch k {
	case SymFunction:
		return "function"
	case SymParameter:
		return "parameter"
	case SymBuiltin:
		return "builtin"
	case SymVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// callable reports whether symbols of kind k live in the function namespace.
func (k SymbolKind) callable() bool {
	return k == SymFunction || k == SymBuiltin
}

// Symbol represents a defined name in a scope.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	Source     *token.Location // location of the name, nil for builtins
	Scope      *Scope
	Node       *lisp.Expr // defining defun form, nil for builtins and externals
	Op         lisp.Op    // set for builtins
	Signature  *Signature // non-nil for callables
	DocString  string
	References int
	External   bool
}

// Signature describes the parameters of a callable symbol.
type Signature struct {
	Name     string
	Params   []string
	Variadic bool // the last parameter collects any number of arguments
}

// MinArity returns the minimum number of arguments required.
func (sig *Signature) MinArity() int {
	if sig == nil {
		return 0
	}
	if sig.Variadic {
		return len(sig.Params) - 1
	}
	return len(sig.Params)
}

// MaxArity returns the maximum number of arguments accepted, or -1 when the
// callable is variadic.
func (sig *Signature) MaxArity() int {
	if sig == nil || sig.Variadic {
		return -1
	}
	return len(sig.Params)
}

// String renders the call form of sig, e.g. (sub a b) or (add &rest numbers).
func (sig *Signature) String() string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(sig.Name)
	for i, p := range sig.Params {
		b.WriteString(" ")
		if sig.Variadic && i == len(sig.Params)-1 {
			b.WriteString(lisp.VarArgSymbol + " ")
		}
		b.WriteString(p)
	}
	b.WriteString(")")
	return b.String()
}
