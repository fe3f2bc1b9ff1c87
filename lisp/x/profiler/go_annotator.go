package profiler

import (
	"context"
	"runtime/pprof"

	"github.com/luthersystems/rlisp/lisp"
)

// This profiler type appends labels to pprof output if pprof is enabled.  It
// does not start pprof itself.  Samples are taken at 100Hz so only long
// running programs produce a meaningful profile.
type pprofAnnotator struct {
	profiler
	currentContext context.Context
}

var _ lisp.Profiler = &pprofAnnotator{}

// NewPprofAnnotator returns a profiler which labels the current goroutine
// with the name of the function being applied.
func NewPprofAnnotator(runtime *lisp.Runtime, parentContext context.Context, opts ...Option) *pprofAnnotator {
	p := &pprofAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *pprofAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.currentContext == nil {
		p.currentContext = context.Background()
	}
	return p.profiler.Enable()
}

func (p *pprofAnnotator) Complete() error {
	pprof.SetGoroutineLabels(context.Background())
	return p.profiler.Complete()
}

func (p *pprofAnnotator) Start(fun *lisp.Expr) func() {
	if p.skipTrace(fun) {
		return func() {}
	}
	// The context is kept on the annotator rather than using pprof.Do so
	// that evaluation does not need to run inside a callback.
	oldContext := p.currentContext
	prettyLabel, _ := p.prettyFunName(fun)
	p.currentContext = pprof.WithLabels(p.currentContext, pprof.Labels("function", prettyLabel))
	pprof.SetGoroutineLabels(p.currentContext)

	return func() {
		p.currentContext = oldContext
		pprof.SetGoroutineLabels(p.currentContext)
	}
}

// Context returns the context carrying the labels of the function currently
// being applied.
func (p *pprofAnnotator) Context() context.Context {
	return p.currentContext
}
