package profiler

import (
	"github.com/luthersystems/rlisp/lisp"
)

// SkipFilter reports whether the application of fun should not be traced.
type SkipFilter func(fun *lisp.Expr) bool

func defaultSkipFilter(fun *lisp.Expr) bool {
	switch fun.Type {
	case lisp.EName, lisp.EOperator:
		return false
	default:
		return true
	}
}

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// WithUserFunctionFilter only traces user defined functions.  Builtin
// operators are skipped.
func WithUserFunctionFilter() Option {
	return WithSkipFilter(func(fun *lisp.Expr) bool {
		return fun.Type == lisp.EOperator
	})
}

// WithFunctionFilter only traces the named functions.  Operators may be named
// by any of their keywords.
func WithFunctionFilter(names ...string) Option {
	include := make(map[string]bool, len(names))
	for _, name := range names {
		if op, ok := lisp.LookupOp(name); ok {
			include[op.Name()] = true
			continue
		}
		include[name] = true
	}
	return WithSkipFilter(func(fun *lisp.Expr) bool {
		return !include[funName(fun)]
	})
}
