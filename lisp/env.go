// Copyright © 2018 The ELPS authors

package lisp

import (
	"bytes"
	"io"
	"sort"
	"strings"

	"github.com/luthersystems/rlisp/parser/token"
	"github.com/sirupsen/logrus"
)

// FunctionDef is a user defined function.  The parameter list and body are
// stored exactly as they were written.
type FunctionDef struct {
	Name   string
	Params []string
	Body   *Expr
	Source *token.Location
}

// Signature renders the call form of f, e.g. (square x).
func (f *FunctionDef) Signature() string {
	var buf bytes.Buffer
	buf.WriteString("(")
	buf.WriteString(f.Name)
	for _, p := range f.Params {
		buf.WriteString(" ")
		buf.WriteString(p)
	}
	buf.WriteString(")")
	return buf.String()
}

// String renders the definition of f as a defun expression.
func (f *FunctionDef) String() string {
	return "(defun " + f.Name + " (" + strings.Join(f.Params, " ") + ") " + f.Body.String() + ")"
}

// Env is the state of one evaluation session.  Variables hold unevaluated
// expressions which are resolved each time they are referenced.  Parameter
// bindings only exist in Variables for the duration of a function
// application.
//
// An Env is not safe for concurrent use.
type Env struct {
	Variables map[string]*Expr
	Functions map[string]*FunctionDef
	Runtime   *Runtime
	Loc       *token.Location
}

// NewEnv returns a new Env using rt.  If rt is nil a StandardRuntime is
// used.
func NewEnv(rt *Runtime) *Env {
	if rt == nil {
		rt = StandardRuntime()
	}
	return &Env{
		Variables: make(map[string]*Expr),
		Functions: make(map[string]*FunctionDef),
		Runtime:   rt,
	}
}

// InitializeUserEnv applies config to env.
func InitializeUserEnv(env *Env, config ...Config) error {
	for _, fn := range config {
		err := fn(env)
		if err != nil {
			return err
		}
	}
	return nil
}

// Get returns the expression bound to the variable name.
func (env *Env) Get(name string) (*Expr, bool) {
	v, ok := env.Variables[name]
	return v, ok
}

// Put binds the variable name to v.  The expression is not evaluated.
func (env *Env) Put(name string, v *Expr) {
	env.Variables[name] = v
}

// GetFun returns the function defined with name.
func (env *Env) GetFun(name string) (*FunctionDef, bool) {
	f, ok := env.Functions[name]
	return f, ok
}

// DefineFunction registers a function, replacing any existing definition
// with the same name.
func (env *Env) DefineFunction(name string, params []string, body *Expr) *FunctionDef {
	fun := &FunctionDef{
		Name:   name,
		Params: params,
		Body:   body,
		Source: env.Loc,
	}
	env.Functions[name] = fun
	env.logger().WithFields(logrus.Fields{
		"function": name,
		"params":   len(params),
	}).Debug("defined function")
	return fun
}

// FunctionNames returns the names of all defined functions in sorted order.
func (env *Env) FunctionNames() []string {
	names := make([]string, 0, len(env.Functions))
	for name := range env.Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Eval evaluates expr and returns the resulting value.  A failed evaluation
// leaves env as it was before the call, apart from functions defined by
// expressions which completed successfully.
func (env *Env) Eval(expr *Expr) (*Expr, error) {
	rt := env.Runtime
	if rt.MaxDepth > 0 && rt.depth >= rt.MaxDepth {
		return nil, env.errRecursionLimit(rt.MaxDepth)
	}
	rt.depth++
	loc := env.Loc
	if expr.Source != nil {
		env.Loc = expr.Source
	}
	defer func() {
		rt.depth--
		env.Loc = loc
	}()

	switch expr.Type {
	case EName:
		v, ok := env.Variables[expr.Str]
		if !ok {
			return nil, env.errVoidVariable(expr.Str)
		}
		return env.Eval(v)
	case EOperator:
		return nil, env.errCondition(CondInvalidVarName)
	case EQuotedList:
		return List(expr.Cells).WithSource(expr.Source), nil
	case EList:
		if len(expr.Cells) == 0 {
			return Nil(), nil
		}
		return env.Apply(expr.Cells[0], expr.Cells[1:])
	case EInvalid:
		return nil, env.errCondition(CondInvalidSyntax)
	default:
		return expr, nil
	}
}

// Apply applies fun, a function name or operator, to the unevaluated
// expressions in args.
func (env *Env) Apply(fun *Expr, args []*Expr) (*Expr, error) {
	switch fun.Type {
	case EName:
		return env.funCall(fun, args)
	case EOperator:
		return env.builtinCall(fun, args)
	default:
		return nil, env.errInvalidFunction(fun)
	}
}

func (env *Env) funCall(fun *Expr, args []*Expr) (*Expr, error) {
	def, ok := env.Functions[fun.Str]
	if !ok {
		return nil, env.errVoidFunction(fun.Str)
	}
	if len(args) != len(def.Params) {
		return nil, env.errArgumentNumber(len(def.Params), len(args))
	}

	err := env.Runtime.Stack.PushFrame(env.Loc, def.Name, false)
	if err != nil {
		return nil, env.errRecursionLimit(env.Runtime.Stack.MaxHeight)
	}
	defer env.Runtime.Stack.Pop()
	defer env.Runtime.trace(fun)()

	env.logger().WithFields(logrus.Fields{
		"function": def.Name,
		"argc":     len(args),
		"depth":    env.Runtime.depth,
	}).Debug("apply function")

	restore := env.bind(def.Params, args)
	defer restore()
	return env.Eval(def.Body)
}

func (env *Env) builtinCall(fun *Expr, args []*Expr) (*Expr, error) {
	b := builtinFor(fun.Op)
	if b == nil {
		return nil, env.errUnimplemented(fun.Op.Name())
	}

	err := env.Runtime.Stack.PushFrame(env.Loc, b.Name(), true)
	if err != nil {
		return nil, env.errRecursionLimit(env.Runtime.Stack.MaxHeight)
	}
	defer env.Runtime.Stack.Pop()
	defer env.Runtime.trace(fun)()

	env.logger().WithFields(logrus.Fields{
		"op":    b.Name(),
		"argc":  len(args),
		"depth": env.Runtime.depth,
	}).Debug("apply builtin")

	return b.fun(env, args)
}

type savedBinding struct {
	name  string
	value *Expr
	bound bool
}

// bind binds each parameter to its argument and returns a function which
// restores the bindings that were in place before the call.  Bindings are
// restored in reverse order so repeated parameter names unwind correctly.
func (env *Env) bind(params []string, args []*Expr) func() {
	saved := make([]savedBinding, len(params))
	for i, name := range params {
		prev, ok := env.Variables[name]
		saved[i] = savedBinding{name, prev, ok}
		env.Variables[name] = args[i]
	}
	return func() {
		for i := len(saved) - 1; i >= 0; i-- {
			s := saved[i]
			if s.bound {
				env.Variables[s.name] = s.value
			} else {
				delete(env.Variables, s.name)
			}
		}
	}
}

var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

func (env *Env) logger() logrus.FieldLogger {
	if env.Runtime.Logger == nil {
		return discardLogger
	}
	return env.Runtime.Logger
}
