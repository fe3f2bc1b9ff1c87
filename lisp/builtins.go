// Copyright © 2018 The ELPS authors

package lisp

import (
	"math"
)

// LBuiltin is the implementation of a builtin operator.  Builtins receive
// their arguments unevaluated and evaluate them as their semantics require.
type LBuiltin func(env *Env, args []*Expr) (*Expr, error)

type langBuiltin struct {
	op      Op
	formals []string
	fun     LBuiltin
	docs    string
}

func (fun *langBuiltin) Name() string {
	return fun.op.Name()
}

func (fun *langBuiltin) Formals() []string {
	return fun.formals
}

func (fun *langBuiltin) Docstring() string {
	return fun.docs
}

var langBuiltins = []*langBuiltin{
	{OpAdd, []string{VarArgSymbol, "numbers"}, builtinAdd,
		`Returns the sum of its arguments.  If any argument is a float the
		sum is computed with floats, otherwise integer addition is checked
		for overflow.  With no arguments the result is 0.`},
	{OpSub, []string{"a", "b"}, builtinSub,
		`Returns a minus b.  Integer subtraction is checked for overflow.`},
	{OpMul, []string{VarArgSymbol, "numbers"}, builtinMul,
		`Returns the product of its arguments.  If any argument is a float
		the product is computed with floats, otherwise integer
		multiplication is checked for overflow.  With no arguments the
		result is 1.`},
	{OpDiv, []string{"a", "b"}, builtinDiv,
		`Returns a divided by b.  Integer division truncates toward zero
		and signals an error when b is 0.  Float division by zero produces
		an infinity or NaN.`},
	{OpRem, []string{"a", "b"}, builtinRem,
		`Returns the remainder of a divided by b, with the sign of a.
		Integer remainder signals an error when b is 0.`},
	{OpDefun, []string{"name", "params", "body"}, builtinDefun,
		`Defines a function.  Name and each parameter must be identifiers
		and body must be a list.  Nothing is evaluated.  Parameters are
		bound to the unevaluated call arguments while body runs.  Returns
		the function name.`},
	{OpNth, []string{"index", "list"}, builtinNth,
		`Returns the element of list at the zero based index.  The element
		is returned unevaluated.  Signals an error when index is out of
		range.`},
	{OpList, []string{VarArgSymbol, "exprs"}, builtinList,
		`Evaluates every argument and returns the results as a quoted
		list.`},
	{OpEval, []string{"expr"}, builtinEval,
		`Evaluates expr and then evaluates the result.  Applied to a quoted
		list this runs the quoted code.`},
	{OpCar, []string{"list"}, builtinCAR,
		`Returns the first element of a list produced by evaluation, or
		nil when it is empty.  A literal quoted list argument is rejected.`},
	{OpMap, []string{"fun", "list"}, builtinMap,
		`Applies fun, a function name or operator, to each element of list
		and returns a list of the results.  A quoted list element is
		spread as the argument list, any other element is passed as the
		single argument.`},
}

// builtinTable indexes langBuiltins by Op.  It is filled in init since the
// builtins reach it again through Eval.
var builtinTable []*langBuiltin

func init() {
	builtinTable = make([]*langBuiltin, OpMax)
	for _, b := range langBuiltins {
		builtinTable[b.op] = b
	}
}

func builtinFor(op Op) *langBuiltin {
	if op >= OpMax {
		return nil
	}
	return builtinTable[op]
}

// BuiltinDoc returns the documentation and parameter names of op.
func BuiltinDoc(op Op) (doc string, formals []string, ok bool) {
	b := builtinFor(op)
	if b == nil {
		return "", nil, false
	}
	return b.docs, b.formals, true
}

func (env *Env) evalArgs(args []*Expr) ([]*Expr, error) {
	vals := make([]*Expr, len(args))
	for i, arg := range args {
		v, err := env.Eval(arg)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func (env *Env) evalNumbers(args []*Expr) ([]*Expr, error) {
	vals, err := env.evalArgs(args)
	if err != nil {
		return nil, err
	}
	for _, v := range vals {
		if !v.IsNumeric() {
			return nil, env.errCondition(CondShouldBeNum)
		}
	}
	return vals, nil
}

// evalList evaluates expr and returns the elements of the resulting list.
func (env *Env) evalList(expr *Expr) ([]*Expr, error) {
	v, err := env.Eval(expr)
	if err != nil {
		return nil, err
	}
	if !v.IsList() {
		return nil, env.errCondition(CondWrongTypeArgumentList)
	}
	return v.Cells, nil
}

func anyFloat(vals []*Expr) bool {
	for _, v := range vals {
		if v.Type == EFloat {
			return true
		}
	}
	return false
}

func toFloat(v *Expr) float64 {
	if v.Type == EInt {
		return float64(v.Int)
	}
	return v.Float
}

func builtinAdd(env *Env, args []*Expr) (*Expr, error) {
	vals, err := env.evalNumbers(args)
	if err != nil {
		return nil, err
	}
	if anyFloat(vals) {
		sum := 0.0
		for _, v := range vals {
			sum += toFloat(v)
		}
		return Float(sum), nil
	}
	var sum int64
	for _, v := range vals {
		var ok bool
		sum, ok = addInt(sum, v.Int)
		if !ok {
			return nil, env.errCondition(CondIntOverflow)
		}
	}
	return Int(sum), nil
}

func builtinMul(env *Env, args []*Expr) (*Expr, error) {
	vals, err := env.evalNumbers(args)
	if err != nil {
		return nil, err
	}
	if anyFloat(vals) {
		prod := 1.0
		for _, v := range vals {
			prod *= toFloat(v)
		}
		return Float(prod), nil
	}
	prod := int64(1)
	for _, v := range vals {
		var ok bool
		prod, ok = mulInt(prod, v.Int)
		if !ok {
			return nil, env.errCondition(CondIntOverflow)
		}
	}
	return Int(prod), nil
}

// binaryNumbers evaluates exactly two numeric arguments.
func (env *Env) binaryNumbers(args []*Expr) (a, b *Expr, err error) {
	if len(args) != 2 {
		return nil, nil, env.errArgumentNumber(2, len(args))
	}
	vals, err := env.evalNumbers(args)
	if err != nil {
		return nil, nil, err
	}
	return vals[0], vals[1], nil
}

func builtinSub(env *Env, args []*Expr) (*Expr, error) {
	a, b, err := env.binaryNumbers(args)
	if err != nil {
		return nil, err
	}
	if a.Type == EFloat || b.Type == EFloat {
		return Float(toFloat(a) - toFloat(b)), nil
	}
	diff, ok := subInt(a.Int, b.Int)
	if !ok {
		return nil, env.errCondition(CondIntOverflow)
	}
	return Int(diff), nil
}

func builtinDiv(env *Env, args []*Expr) (*Expr, error) {
	a, b, err := env.binaryNumbers(args)
	if err != nil {
		return nil, err
	}
	if a.Type == EFloat || b.Type == EFloat {
		return Float(toFloat(a) / toFloat(b)), nil
	}
	if b.Int == 0 {
		return nil, env.errCondition(CondDivBy0)
	}
	if a.Int == math.MinInt64 && b.Int == -1 {
		return nil, env.errCondition(CondIntOverflow)
	}
	return Int(a.Int / b.Int), nil
}

func builtinRem(env *Env, args []*Expr) (*Expr, error) {
	a, b, err := env.binaryNumbers(args)
	if err != nil {
		return nil, err
	}
	if a.Type == EFloat || b.Type == EFloat {
		return Float(math.Mod(toFloat(a), toFloat(b))), nil
	}
	if b.Int == 0 {
		return nil, env.errCondition(CondDivBy0)
	}
	if a.Int == math.MinInt64 && b.Int == -1 {
		return nil, env.errCondition(CondIntOverflow)
	}
	return Int(a.Int % b.Int), nil
}

func addInt(a, b int64) (int64, bool) {
	c := a + b
	if (b > 0 && c < a) || (b < 0 && c > a) {
		return 0, false
	}
	return c, true
}

func subInt(a, b int64) (int64, bool) {
	c := a - b
	if (b > 0 && c > a) || (b < 0 && c < a) {
		return 0, false
	}
	return c, true
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	c := a * b
	if c/b != a {
		return 0, false
	}
	return c, true
}

func builtinDefun(env *Env, args []*Expr) (*Expr, error) {
	if len(args) != 3 {
		return nil, env.errArgumentNumber(3, len(args))
	}
	name, params, body := args[0], args[1], args[2]
	if name.Type != EName || params.Type != EList || body.Type != EList {
		return nil, env.errCondition(CondInvalidSyntax)
	}
	formals := make([]string, len(params.Cells))
	for i, p := range params.Cells {
		if p.Type != EName {
			return nil, env.errInvalidArguments(params)
		}
		formals[i] = p.Str
	}
	env.DefineFunction(name.Str, formals, body)
	return Name(name.Str), nil
}

func builtinNth(env *Env, args []*Expr) (*Expr, error) {
	if len(args) != 2 {
		return nil, env.errArgumentNumber(2, len(args))
	}
	index, err := env.Eval(args[0])
	if err != nil {
		return nil, err
	}
	if index.Type != EInt {
		return nil, env.errInvalidArguments(List(args))
	}
	cells, err := env.evalList(args[1])
	if err != nil {
		return nil, err
	}
	if index.Int < 0 || index.Int >= int64(len(cells)) {
		return nil, env.errIndexOutOfRange(index.Int, len(cells))
	}
	return cells[index.Int], nil
}

func builtinList(env *Env, args []*Expr) (*Expr, error) {
	vals, err := env.evalArgs(args)
	if err != nil {
		return nil, err
	}
	return QuotedList(vals), nil
}

func builtinEval(env *Env, args []*Expr) (*Expr, error) {
	if len(args) != 1 {
		return nil, env.errArgumentNumber(1, len(args))
	}
	v, err := env.Eval(args[0])
	if err != nil {
		return nil, err
	}
	return env.Eval(v)
}

func builtinCAR(env *Env, args []*Expr) (*Expr, error) {
	if len(args) != 1 {
		return nil, env.errArgumentNumber(1, len(args))
	}
	// Only lists produced by evaluation qualify.
	if args[0].Type == EQuotedList {
		return nil, env.errCondition(CondWrongTypeArgumentList)
	}
	cells, err := env.evalList(args[0])
	if err != nil {
		return nil, err
	}
	if len(cells) == 0 {
		return Nil(), nil
	}
	return cells[0], nil
}

func builtinMap(env *Env, args []*Expr) (*Expr, error) {
	if len(args) != 2 {
		return nil, env.errArgumentNumber(2, len(args))
	}
	fun := args[0]
	if fun.Type != EName && fun.Type != EOperator {
		return nil, env.errInvalidFunction(fun)
	}
	cells, err := env.evalList(args[1])
	if err != nil {
		return nil, err
	}
	results := make([]*Expr, len(cells))
	for i, elem := range cells {
		fargs := []*Expr{elem}
		if elem.Type == EQuotedList {
			fargs = elem.Cells
		}
		r, err := env.Apply(fun, fargs)
		if err != nil {
			return nil, err
		}
		results[i] = r
	}
	return List(results), nil
}
