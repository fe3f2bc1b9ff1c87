package profiler

import (
	"fmt"
	"regexp"

	"github.com/luthersystems/rlisp/lisp"
)

// FunLabeler provides an alternative name for a function label in the trace.
type FunLabeler func(fun *lisp.Expr) string

// WithFunLabeler sets the labeler for tracing spans.
func WithFunLabeler(funLabeler FunLabeler) Option {
	return func(p *profiler) {
		p.funLabeler = funLabeler
	}
}

// WithSymbolLabeler labels operators by their canonical symbol, e.g. "+"
// instead of "add".
func WithSymbolLabeler() Option {
	return WithFunLabeler(func(fun *lisp.Expr) string {
		if fun.Type != lisp.EOperator {
			return ""
		}
		return fun.Op.String()
	})
}

// WithSourceLabeler labels spans with the function name and the file and
// line where it was applied, e.g. "square@main.lisp:3".
func WithSourceLabeler() Option {
	return WithFunLabeler(sourceLabel)
}

var sanitizeRegExp = regexp.MustCompile(`[\s_]+`)

func sanitizeLabel(label string) string {
	return sanitizeRegExp.ReplaceAllString(label, "_")
}

func sourceLabel(fun *lisp.Expr) string {
	name := funName(fun)
	loc := getSourceLoc(fun)
	if name == "" || loc == nil {
		return ""
	}
	file := loc.File
	if file == "" {
		file = "<input>"
	}
	return sanitizeLabel(fmt.Sprintf("%s@%s:%d", name, file, loc.Line))
}
