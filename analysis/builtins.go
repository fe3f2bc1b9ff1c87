// Copyright © 2024 The ELPS authors

package analysis

import (
	"github.com/luthersystems/rlisp/lisp"
)

// builtinKey names the function namespace entry of a builtin.  Operators are
// not identifiers so the key can never collide with a user function.
func builtinKey(op lisp.Op) string {
	return "#" + op.Name()
}

// populateBuiltins adds every builtin operator to the given scope.
func populateBuiltins(scope *Scope) {
	for op := lisp.OpInvalid + 1; op < lisp.OpMax; op++ {
		doc, formals, ok := lisp.BuiltinDoc(op)
		if !ok {
			continue
		}
		sym := &Symbol{
			Name:      op.Name(),
			Kind:      SymBuiltin,
			Op:        op,
			Signature: signatureFromFormals(op.Name(), formals),
			DocString: doc,
		}
		sym.Scope = scope
		scope.Functions[builtinKey(op)] = sym
	}
}

// signatureFromFormals creates a Signature from builtin parameter names.
func signatureFromFormals(name string, formals []string) *Signature {
	sig := &Signature{Name: name}
	for i := 0; i < len(formals); i++ {
		if formals[i] == lisp.VarArgSymbol {
			sig.Variadic = true
			continue
		}
		sig.Params = append(sig.Params, formals[i])
	}
	return sig
}
