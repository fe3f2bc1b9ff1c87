// Package profiler contains lisp.Profiler implementations which observe
// function applications made by a lisp.Env.
package profiler

import (
	"errors"

	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/parser/token"
)

// profiler is a minimal lisp.Profiler
type profiler struct {
	runtime    *lisp.Runtime
	enabled    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
}

var _ lisp.Profiler = &profiler{}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) Enable() error {
	if p.enabled {
		return errors.New("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) Complete() error {
	p.enabled = false
	return nil
}

func (p *profiler) Start(fun *lisp.Expr) func() {
	return func() {}
}

// funName returns the name of the applied function.  Operators are named by
// their word form so that names are usable as file and span labels.
func funName(fun *lisp.Expr) string {
	switch fun.Type {
	case lisp.EName:
		return fun.Str
	case lisp.EOperator:
		return fun.Op.Name()
	default:
		return ""
	}
}

// prettyFunName returns a pretty name and original name for a fun. If there is
// no pretty name, then the pretty name is the original name.
func (p *profiler) prettyFunName(fun *lisp.Expr) (string, string) {
	origLabel := funName(fun)
	if origLabel == "" {
		return "", ""
	}
	prettyLabel := origLabel
	if p.funLabeler != nil {
		prettyLabel = p.funLabeler(fun)
	}
	if prettyLabel == "" {
		prettyLabel = origLabel
	}
	return prettyLabel, origLabel
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(v *lisp.Expr) bool {
	return !p.enabled || defaultSkipFilter(v) || p.skipFilter != nil && p.skipFilter(v)
}

func getSourceLoc(fun *lisp.Expr) *token.Location {
	if fun.Source == nil || fun.Source.Line == 0 {
		return nil
	}
	return fun.Source
}
