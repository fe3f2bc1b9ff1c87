// Copyright © 2021 The ELPS authors

// Package libhelp renders documentation for builtin operators and for the
// functions and variables defined in an environment.
package libhelp

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/luthersystems/rlisp/lisp"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// Width is the column at which documentation is wrapped.
const Width = 72

// ErrNotFound is returned by RenderVar when a query names nothing.
var ErrNotFound = errors.New("no documentation")

// Signature returns the call form of op using its canonical keyword, e.g.
// (+ &rest numbers).
func Signature(op lisp.Op) string {
	_, formals, ok := lisp.BuiltinDoc(op)
	if !ok {
		return ""
	}
	return "(" + strings.Join(append([]string{op.String()}, formals...), " ") + ")"
}

// Docstring returns the documentation of op wrapped to Width and indented
// by two spaces.
func Docstring(op lisp.Op) string {
	doc, _, ok := lisp.BuiltinDoc(op)
	if !ok {
		return ""
	}
	return cleanDocstring(doc)
}

// Summary returns the first sentence of the documentation of op.
func Summary(op lisp.Op) string {
	doc, _, _ := lisp.BuiltinDoc(op)
	doc = strings.Join(strings.Fields(doc), " ")
	if i := strings.Index(doc, ". "); i >= 0 {
		return doc[:i+1]
	}
	return doc
}

// RenderOp writes the signature, keywords and documentation of op.
func RenderOp(w io.Writer, op lisp.Op) error {
	if _, _, ok := lisp.BuiltinDoc(op); !ok {
		return fmt.Errorf("%w: invalid operator", ErrNotFound)
	}
	_, err := fmt.Fprintf(w, "builtin %s\n", Signature(op))
	if err != nil {
		return err
	}
	if kw := lisp.KeywordsFor(op); len(kw) > 1 {
		_, err = fmt.Fprintf(w, "  keywords: %s\n", strings.Join(kw, " "))
		if err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(w, Docstring(op))
	return err
}

// RenderFunction writes the signature and body of a user defined function.
func RenderFunction(w io.Writer, def *lisp.FunctionDef) error {
	_, err := fmt.Fprintf(w, "function %s\n", def.Signature())
	if err != nil {
		return err
	}
	if def.Source != nil && def.Source.Pos >= 0 {
		_, err = fmt.Fprintf(w, "  defined at %s\n", def.Source)
		if err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(w, cleanDocstring("body: "+def.Body.String()))
	return err
}

// RenderVar writes documentation for query, which may be an operator
// keyword, the name of a function defined in env or the name of a variable
// bound in env.  Operators take precedence because names can never shadow
// them.
func RenderVar(w io.Writer, env *lisp.Env, query string) error {
	if op, ok := lisp.LookupOp(query); ok {
		return RenderOp(w, op)
	}
	found := false
	if env != nil {
		if def, ok := env.GetFun(query); ok {
			found = true
			if err := RenderFunction(w, def); err != nil {
				return err
			}
		}
		if v, ok := env.Get(query); ok {
			found = true
			if _, err := fmt.Fprintf(w, "variable %s %v\n", query, v); err != nil {
				return err
			}
		}
	}
	if !found {
		return fmt.Errorf("%w for %q", ErrNotFound, query)
	}
	return nil
}

// RenderIndex lists every builtin operator with a one line summary followed
// by the functions and variables defined in env.
func RenderIndex(w io.Writer, env *lisp.Env) error {
	ew := &errWriter{w: w}
	ew.printf("builtins\n")
	for op := lisp.OpInvalid + 1; op < lisp.OpMax; op++ {
		ew.printf("  %-24s %s\n", Signature(op), Summary(op))
	}
	if env == nil {
		return ew.err
	}
	if names := env.FunctionNames(); len(names) > 0 {
		ew.printf("\nfunctions\n")
		for _, name := range names {
			ew.printf("  %s\n", env.Functions[name].Signature())
		}
	}
	if len(env.Variables) > 0 {
		ew.printf("\nvariables\n")
		for _, name := range sortedKeys(env.Variables) {
			ew.printf("  %-24s %v\n", name, env.Variables[name])
		}
	}
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func sortedKeys(m map[string]*lisp.Expr) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func cleanDocstring(doc string) string {
	if doc == "" {
		return ""
	}
	if doc[0] == '\n' {
		doc = doc[1:]
	}
	doc = indent.String(wordwrap.String(dedentDoc(doc), Width), 2)
	doc = strings.TrimSuffix(doc, "\n")
	return doc
}

// dedentDoc removes common leading whitespace from all non-empty lines.
// The first line of a raw string literal usually has no indentation so it
// is ignored when computing the common prefix.  Tabs count as four spaces.
func dedentDoc(s string) string {
	s = strings.ReplaceAll(s, "\t", "    ")
	lines := strings.Split(s, "\n")

	minWS := -1
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		if ws := len(line) - len(trimmed); minWS < 0 || ws < minWS {
			minWS = ws
		}
	}
	lines[0] = strings.TrimLeft(lines[0], " ")
	for i := 1; i < len(lines); i++ {
		switch {
		case strings.TrimSpace(lines[i]) == "":
			lines[i] = ""
		case minWS > 0 && len(lines[i]) >= minWS:
			lines[i] = lines[i][minWS:]
		}
	}
	return strings.Join(lines, "\n")
}
