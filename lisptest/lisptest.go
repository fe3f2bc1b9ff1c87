// Copyright © 2018 The ELPS authors

// Package lisptest runs table driven tests of lisp source code.
package lisptest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/parser"
	"github.com/sirupsen/logrus"
)

// BenchmarkParse returns a benchmark which repeatedly parses source with the
// reader returned by r.
func BenchmarkParse(source string, r func() lisp.Reader) func(*testing.B) {
	return func(b *testing.B) {
		b.SetBytes(int64(len(source)))
		for i := 0; i < b.N; i++ {
			_, err := r().Read("test", strings.NewReader(source))
			if err != nil {
				b.Fatalf("Parse failure: %v", err)
			}
		}
	}
}

// NewEnv returns an environment whose debug log is written to the test log.
// The returned Logger should be flushed when the test completes.
func NewEnv(t testing.TB, config ...lisp.Config) (*lisp.Env, *Logger, error) {
	logger := NewLogger(t)
	log := logrus.New()
	log.SetOutput(logger)
	log.SetLevel(logrus.DebugLevel)
	env := lisp.NewEnv(&lisp.Runtime{
		Stack:    &lisp.CallStack{},
		Reader:   parser.NewReader(),
		Stderr:   logger,
		Logger:   log,
		MaxDepth: lisp.DefaultMaxDepth,
	})
	err := lisp.InitializeUserEnv(env, config...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize lisp environment: %w", err)
	}
	return env, logger, nil
}

// LispError reports err as a test failure, including a stack trace when err
// is an evaluation error.
func LispError(t testing.TB, err error) {
	var lerr *lisp.EvalError
	if !errors.As(err, &lerr) {
		t.Error(err)
		return
	}
	var buf bytes.Buffer
	_, ioerr := lerr.WriteTrace(&buf)
	if ioerr != nil {
		t.Errorf("io error: %v", ioerr)
		t.Error(err)
		return
	}
	t.Error(buf.String())
}

// TestSequence is a sequence of lisp expressions which are evaluated
// sequentially by a lisp.Env.
type TestSequence []struct {
	Expr   string // a lisp expression
	Result string // the rendered result, or the error message
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// RunTestSuite runs each TestSequence in tests on isolated environments.
// Parse errors and evaluation errors are compared to Result by their
// message so that failures can be asserted alongside values.
func RunTestSuite(t *testing.T, tests TestSuite, config ...lisp.Config) {
	for i, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			env, logger, err := NewEnv(t, config...)
			if err != nil {
				t.Fatalf("test %d %q: %v", i, test.Name, err)
			}
			defer logger.Flush()
			for j, expr := range test.TestSequence {
				result := Eval(env, expr.Expr)
				if result != expr.Result {
					t.Errorf("test %d %q: expr %d: %s: expected result %s (got %s)", i, test.Name, j, expr.Expr, expr.Result, result)
				}
			}
		})
	}
}

// Eval parses and evaluates source in env and renders the outcome.
func Eval(env *lisp.Env, source string) string {
	expr, err := parser.Parse(source)
	if err != nil {
		return err.Error()
	}
	v, err := env.Eval(expr)
	if err != nil {
		return err.Error()
	}
	return v.String()
}
