// Copyright © 2018 The ELPS authors

package lisp

import (
	"errors"
	"io"
	"strings"
)

// Reader abstracts a parser implementation so that it may be implemented in a
// separate package as an optional/swappable component.
type Reader interface {
	// Read the contents of r and return the sequence of expressions that it
	// contains, one per non-blank line.
	Read(name string, r io.Reader) ([]*Expr, error)
}

// LoadString evaluates each expression in exprs and returns the value of the
// last one.
func (env *Env) LoadString(name, exprs string) (*Expr, error) {
	return env.Load(name, strings.NewReader(exprs))
}

// Load reads expressions from r and evaluates them in order.  Evaluation
// stops at the first error.  When r contains no expressions Load returns
// Nil().
func (env *Env) Load(name string, r io.Reader) (*Expr, error) {
	if env.Runtime.Reader == nil {
		return nil, errors.New("no reader for environment runtime")
	}
	exprs, err := env.Runtime.Reader.Read(name, r)
	if err != nil {
		return nil, err
	}
	result := Nil()
	for _, expr := range exprs {
		result, err = env.Eval(expr)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}
