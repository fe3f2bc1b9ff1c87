// Copyright © 2018 The ELPS authors

package lisp

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

// Config is a function that configures an environment or its runtime.
type Config func(env *Env) error

// WithMaximumDepth returns a Config that will prevent an environment from
// nesting evaluation more than n levels deep.  Exceeding the limit produces
// a RecursionLimitExceeded error instead of exhausting the Go stack.
func WithMaximumDepth(n int) Config {
	return func(env *Env) error {
		env.Runtime.MaxDepth = n
		return nil
	}
}

// WithMaximumStackHeight returns a Config that will prevent an environment
// from allowing more than n nested function applications.
func WithMaximumStackHeight(n int) Config {
	return func(env *Env) error {
		env.Runtime.Stack.MaxHeight = n
		return nil
	}
}

// WithReader returns a Config that makes environments use r to parse source
// streams.  There is no default Reader for an environment.
func WithReader(r Reader) Config {
	return func(env *Env) error {
		env.Runtime.Reader = r
		return nil
	}
}

// WithStderr returns a Config that makes environments write debugging output
// to w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(env *Env) error {
		env.Runtime.Stderr = w
		if l, ok := env.Runtime.Logger.(*logrus.Logger); ok {
			l.SetOutput(w)
		}
		return nil
	}
}

// WithLogger returns a Config that makes environments log through logger.
func WithLogger(logger logrus.FieldLogger) Config {
	return func(env *Env) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		env.Runtime.Logger = logger
		return nil
	}
}

// WithProfiler returns a Config that enables p and attaches it to the
// environment's runtime.
func WithProfiler(p Profiler) Config {
	return func(env *Env) error {
		env.Runtime.Profiler = p
		return p.Enable()
	}
}
