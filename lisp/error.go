// Copyright © 2018 The ELPS authors

package lisp

import (
	"bufio"
	"fmt"
	"io"

	"github.com/luthersystems/rlisp/parser/token"
)

// Condition classifies an EvalError.
type Condition uint

// Possible Condition values
const (
	CondInvalid Condition = iota
	CondVoidVariable
	CondVoidFunction
	CondArgumentNumber
	CondInvalidArguments
	CondInvalidFunction
	CondInvalidVarName
	CondInvalidSyntax
	CondShouldBeNum
	CondIntOverflow
	CondDivBy0
	CondWrongTypeArgumentList
	CondUnimplemented
	CondIndexOutOfRange
	CondRecursionLimitExceeded
	condMax
)

var conditionStrings = []string{
	CondInvalid:                "error",
	CondVoidVariable:           "void-variable",
	CondVoidFunction:           "void-function",
	CondArgumentNumber:         "argument-number",
	CondInvalidArguments:       "invalid-arguments",
	CondInvalidFunction:        "invalid-function",
	CondInvalidVarName:         "invalid-var-name",
	CondInvalidSyntax:          "invalid-syntax",
	CondShouldBeNum:            "should-be-num",
	CondIntOverflow:            "int-overflow",
	CondDivBy0:                 "div-by-0",
	CondWrongTypeArgumentList:  "wrong-type-argument-list",
	CondUnimplemented:          "unimplemented",
	CondIndexOutOfRange:        "index-out-of-range",
	CondRecursionLimitExceeded: "recursion-limit-exceeded",
}

func (c Condition) String() string {
	if c >= condMax {
		return conditionStrings[CondInvalid]
	}
	return conditionStrings[c]
}

// Sentinel errors for use with errors.Is.  Any *EvalError with the same
// Condition matches.
var (
	ErrVoidVariable           = &EvalError{Condition: CondVoidVariable}
	ErrVoidFunction           = &EvalError{Condition: CondVoidFunction}
	ErrArgumentNumber         = &EvalError{Condition: CondArgumentNumber}
	ErrInvalidArguments       = &EvalError{Condition: CondInvalidArguments}
	ErrInvalidFunction        = &EvalError{Condition: CondInvalidFunction}
	ErrInvalidVarName         = &EvalError{Condition: CondInvalidVarName}
	ErrInvalidSyntax          = &EvalError{Condition: CondInvalidSyntax}
	ErrShouldBeNum            = &EvalError{Condition: CondShouldBeNum}
	ErrIntOverflow            = &EvalError{Condition: CondIntOverflow}
	ErrDivBy0                 = &EvalError{Condition: CondDivBy0}
	ErrWrongTypeArgumentList  = &EvalError{Condition: CondWrongTypeArgumentList}
	ErrUnimplemented          = &EvalError{Condition: CondUnimplemented}
	ErrIndexOutOfRange        = &EvalError{Condition: CondIndexOutOfRange}
	ErrRecursionLimitExceeded = &EvalError{Condition: CondRecursionLimitExceeded}
)

// EvalError is the error returned when evaluation of an expression fails.
// Only the fields relevant to Condition are set.
type EvalError struct {
	Condition Condition
	// Name is the missing variable or function, or the unimplemented
	// builtin.
	Name string
	// Expected and Got describe an argument count mismatch.
	Expected int
	Got      int
	// Expr is the offending arguments or function expression.
	Expr *Expr
	// Index and Len describe an out of range list access.
	Index int64
	Len   int
	// Limit is the maximum recursion depth that was exceeded.
	Limit int

	Source *token.Location
	Stack  *CallStack
}

func (e *EvalError) Error() string {
	switch e.Condition {
	case CondVoidVariable:
		return fmt.Sprintf("variable `%s` not found", e.Name)
	case CondVoidFunction:
		return fmt.Sprintf("function `%s` not found", e.Name)
	case CondArgumentNumber:
		return fmt.Sprintf("wrong number of arguments, expected %d, got %d", e.Expected, e.Got)
	case CondInvalidArguments:
		return fmt.Sprintf("invalid arguments for function: %v", e.Expr)
	case CondInvalidFunction:
		return fmt.Sprintf("invalid function `%v`", e.Expr)
	case CondInvalidVarName:
		return "invalid variable name"
	case CondInvalidSyntax:
		return "invalid syntax"
	case CondShouldBeNum:
		return "argument should be number"
	case CondIntOverflow:
		return "integer overflow"
	case CondDivBy0:
		return "division by 0"
	case CondWrongTypeArgumentList:
		return "wrong type argument, expected list"
	case CondUnimplemented:
		return fmt.Sprintf("built-in `%s` not implemented", e.Name)
	case CondIndexOutOfRange:
		return fmt.Sprintf("index %d out of range for list of length %d", e.Index, e.Len)
	case CondRecursionLimitExceeded:
		return fmt.Sprintf("recursion depth exceeded maximum of %d", e.Limit)
	default:
		return "evaluation error"
	}
}

// Is reports whether target is an *EvalError with the same condition.
func (e *EvalError) Is(target error) bool {
	t, ok := target.(*EvalError)
	return ok && t.Condition == e.Condition
}

// FunName returns the name of the function on the top of the call stack when
// the error occurred.
func (e *EvalError) FunName() string {
	if e.Stack == nil || e.Stack.Top() == nil {
		return ""
	}
	return e.Stack.Top().Name
}

// WriteTrace writes the error and a stack trace to w
func (e *EvalError) WriteTrace(w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	var n int
	var err error
	wrote := func(_n int, _err error) bool {
		n += _n
		err = _err
		return err == nil
	}
	msg := e.Error()
	if e.Source != nil {
		msg = fmt.Sprintf("%s: %s", e.Source, msg)
	}
	if !wrote(bw.WriteString(msg)) {
		return n, err
	}
	if !wrote(bw.WriteString("\n")) {
		return n, err
	}
	if e.Stack != nil {
		if !wrote(e.Stack.DebugPrint(bw)) {
			return n, err
		}
	}
	return n, bw.Flush()
}

// newError builds an error with the given condition at the current evaluation
// location of env.
func (env *Env) newError(cond Condition) *EvalError {
	e := &EvalError{
		Condition: cond,
		Source:    env.Loc,
	}
	if env.Runtime != nil && env.Runtime.Stack != nil {
		e.Stack = env.Runtime.Stack.Copy()
	}
	return e
}

func (env *Env) errVoidVariable(name string) error {
	e := env.newError(CondVoidVariable)
	e.Name = name
	return e
}

func (env *Env) errVoidFunction(name string) error {
	e := env.newError(CondVoidFunction)
	e.Name = name
	return e
}

func (env *Env) errArgumentNumber(expected, got int) error {
	e := env.newError(CondArgumentNumber)
	e.Expected = expected
	e.Got = got
	return e
}

func (env *Env) errInvalidArguments(args *Expr) error {
	e := env.newError(CondInvalidArguments)
	e.Expr = args
	return e
}

func (env *Env) errInvalidFunction(fun *Expr) error {
	e := env.newError(CondInvalidFunction)
	e.Expr = fun
	return e
}

func (env *Env) errUnimplemented(name string) error {
	e := env.newError(CondUnimplemented)
	e.Name = name
	return e
}

func (env *Env) errIndexOutOfRange(index int64, n int) error {
	e := env.newError(CondIndexOutOfRange)
	e.Index = index
	e.Len = n
	return e
}

func (env *Env) errRecursionLimit(limit int) error {
	e := env.newError(CondRecursionLimitExceeded)
	e.Limit = limit
	return e
}

func (env *Env) errCondition(cond Condition) error {
	return env.newError(cond)
}
