// Copyright © 2018 The ELPS authors

package lisp

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// DefaultMaxDepth is the default limit on nested evaluation.
const DefaultMaxDepth = 10000

// Runtime is an object underlying an Env.  It is responsible for holding the
// call stack and the collaborators used during evaluation.
type Runtime struct {
	Stderr   io.Writer
	Stack    *CallStack
	Reader   Reader
	Logger   logrus.FieldLogger
	Profiler Profiler
	// MaxDepth bounds the number of nested calls to Env.Eval.  A value of
	// zero or less disables the limit.
	MaxDepth int
	depth    int
}

// StandardRuntime returns a new Runtime with Stderr set to os.Stderr and a
// logger writing informational messages to it.
func StandardRuntime() *Runtime {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)
	return &Runtime{
		Stderr:   os.Stderr,
		Stack:    &CallStack{},
		Logger:   logger,
		MaxDepth: DefaultMaxDepth,
	}
}

// Depth returns the current evaluation depth.
func (r *Runtime) Depth() int {
	return r.depth
}

func (r *Runtime) trace(fun *Expr) func() {
	if r.Profiler == nil || !r.Profiler.IsEnabled() {
		return func() {}
	}
	return r.Profiler.Start(fun)
}
