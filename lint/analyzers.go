// Copyright © 2024 The ELPS authors

package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/luthersystems/rlisp/analysis"
	"github.com/luthersystems/rlisp/lisp"
)

// AnalyzerDefunStructure checks that defun has the form
// (defun name (params...) (body)).
var AnalyzerDefunStructure = &Analyzer{
	Name:     "defun-structure",
	Doc:      "Check that defun has a name, a parameter list, and a list body.\n\ndefun takes exactly three arguments.  The name and every parameter must be identifiers and the body must be a list.  A malformed defun fails with invalid-syntax when it is evaluated.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		WalkCalls(pass.Exprs, func(call *lisp.Expr, depth int) {
			if !isDefun(call) {
				return
			}
			if argc := ArgCount(call); argc != 3 {
				pass.Reportf(call.Source, "defun expects 3 arguments (name, parameters, body), got %d", argc)
				if argc < 3 {
					return
				}
			}
			name, params, body := call.Cells[1], call.Cells[2], call.Cells[3]
			if name.Type != lisp.EName {
				pass.Reportf(name.Source, "defun name must be an identifier, got %s %s", name.Type, name)
			}
			switch params.Type {
			case lisp.EList:
				checkParams(pass, params)
			case lisp.EQuotedList:
				pass.ReportWithNotes(Diagnostic{
					Pos:     PositionOf(params.Source),
					Message: "defun parameter list must not be quoted",
				}, "remove the ' before the parameter list")
			default:
				pass.Reportf(params.Source, "defun parameter list must be a list, got %s %s", params.Type, params)
			}
			if body.Type != lisp.EList {
				pass.Reportf(body.Source, "defun body must be a list, got %s %s", body.Type, body)
			}
		})
		return nil
	},
}

func checkParams(pass *Pass, params *lisp.Expr) {
	seen := make(map[string]bool)
	for _, p := range params.Cells {
		if p.Type != lisp.EName {
			pass.Reportf(p.Source, "defun parameter must be an identifier, got %s %s", p.Type, p)
			continue
		}
		if seen[p.Str] {
			pass.Report(Diagnostic{
				Pos:      PositionOf(p.Source),
				Message:  fmt.Sprintf("duplicate parameter %s", p.Str),
				Severity: SeverityWarning,
			})
		}
		seen[p.Str] = true
	}
}

// AnalyzerBuiltinArity checks the argument count of builtins which take a
// fixed number of arguments.
var AnalyzerBuiltinArity = &Analyzer{
	Name:     "builtin-arity",
	Doc:      "Check argument counts for fixed-arity builtins.\n\nsub, div, %, nth, eval, car and map take a fixed number of arguments and fail with argument-number otherwise.  defun is checked by defun-structure.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		WalkCalls(pass.Exprs, func(call *lisp.Expr, depth int) {
			op, ok := HeadOp(call)
			if !ok || op == lisp.OpDefun {
				return
			}
			sym := pass.Semantics.Builtin(op)
			if sym == nil || sym.Signature.MaxArity() < 0 {
				return
			}
			want := sym.Signature.MaxArity()
			if got := ArgCount(call); got != want {
				pass.ReportWithNotes(Diagnostic{
					Pos:     PositionOf(call.Source),
					Message: fmt.Sprintf("%s expects %d arguments, got %d", keyword(call.Cells[0]), want, got),
				}, "usage: "+sym.Signature.String())
			}
		})
		return nil
	},
}

// AnalyzerUserArity checks calls to functions defined with defun against
// the length of their parameter list.
var AnalyzerUserArity = &Analyzer{
	Name:     "user-arity",
	Doc:      "Check argument counts for calls to user defined functions.\n\nA function must be called with exactly as many arguments as it has parameters.  Calls through map with a literal quoted list are checked element by element.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		WalkCalls(pass.Exprs, func(call *lisp.Expr, depth int) {
			if name := HeadName(call); name != "" {
				checkUserCall(pass, call, name, ArgCount(call))
				return
			}
			if op, ok := HeadOp(call); !ok || op != lisp.OpMap || ArgCount(call) != 2 {
				return
			}
			fun, list := call.Cells[1], call.Cells[2]
			if fun.Type != lisp.EName || list.Type != lisp.EQuotedList {
				return
			}
			for _, elem := range list.Cells {
				argc := 1
				if elem.Type == lisp.EQuotedList {
					argc = len(elem.Cells)
				}
				checkUserCall(pass, elem, fun.Str, argc)
			}
		})
		return nil
	},
}

func checkUserCall(pass *Pass, node *lisp.Expr, name string, argc int) {
	sym := pass.Semantics.RootScope.LookupFunction(name)
	if sym == nil || sym.Kind != analysis.SymFunction || sym.Signature == nil {
		return
	}
	want := sym.Signature.MaxArity()
	if argc == want {
		return
	}
	d := Diagnostic{
		Pos:     PositionOf(node.Source),
		Message: fmt.Sprintf("%s expects %d arguments, got %d", name, want, argc),
	}
	if sym.Source != nil {
		pass.ReportWithNotes(d, fmt.Sprintf("%s is defined at %s", sym.Signature, sym.Source))
		return
	}
	pass.Report(d)
}

// AnalyzerInvalidCall reports expressions that can never be applied and
// operators used as values.
var AnalyzerInvalidCall = &Analyzer{
	Name:     "invalid-call",
	Doc:      "Report calls whose head is not a function name or operator.\n\nOnly names and operators can be applied.  A list headed by a number, string, or nested list fails with invalid-function, and an operator evaluated as a value fails with invalid-var-name.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		Walk(pass.Exprs, func(node, parent *lisp.Expr, depth int) {
			if node.Type == lisp.EOperator {
				if parent == nil || !operatorPosition(node, parent) {
					pass.Reportf(node.Source, "operator %s cannot be used as a value", keyword(node))
				}
				return
			}
			if node.Type != lisp.EList || len(node.Cells) == 0 {
				return
			}
			if op, ok := HeadOp(node); ok && op == lisp.OpMap && len(node.Cells) > 1 {
				checkCallable(pass, node.Cells[1])
			}
			checkCallable(pass, node.Cells[0])
		})
		return nil
	},
}

// operatorPosition reports whether the operator node is applied by parent.
func operatorPosition(node, parent *lisp.Expr) bool {
	if parent.Cells[0] == node {
		return true
	}
	op, ok := HeadOp(parent)
	return ok && op == lisp.OpMap && len(parent.Cells) > 1 && parent.Cells[1] == node
}

func checkCallable(pass *Pass, fun *lisp.Expr) {
	switch fun.Type {
	case lisp.EName, lisp.EOperator:
		return
	}
	pass.Reportf(fun.Source, "%s %s is not a function", fun.Type, fun)
}

// AnalyzerCarQuoted reports car applied directly to a quoted list literal,
// which car rejects.
var AnalyzerCarQuoted = &Analyzer{
	Name:     "car-quoted",
	Doc:      "Report car applied to a quoted list literal.\n\ncar only accepts lists produced by evaluation and fails with wrong-type-argument-list on a literal quoted list.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		WalkCalls(pass.Exprs, func(call *lisp.Expr, depth int) {
			op, ok := HeadOp(call)
			if !ok || op != lisp.OpCar || ArgCount(call) != 1 {
				return
			}
			arg := call.Cells[1]
			if arg.Type != lisp.EQuotedList {
				return
			}
			pass.ReportWithNotes(Diagnostic{
				Pos:     PositionOf(arg.Source),
				Message: "car of a quoted list literal is rejected",
			}, "use (car (list ...)) or (nth 0 '(...)) instead")
		})
		return nil
	},
}

// AnalyzerDivisionByZero reports integer division or remainder by a literal
// zero.
var AnalyzerDivisionByZero = &Analyzer{
	Name:     "division-by-zero",
	Doc:      "Report integer division or remainder by a literal 0.\n\nInteger div and % fail with div-by-0 when the divisor is 0.  Float division is not reported.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		WalkCalls(pass.Exprs, func(call *lisp.Expr, depth int) {
			op, ok := HeadOp(call)
			if !ok || (op != lisp.OpDiv && op != lisp.OpRem) || ArgCount(call) != 2 {
				return
			}
			a, b := call.Cells[1], call.Cells[2]
			if b.Type == lisp.EInt && b.Int == 0 && a.Type != lisp.EFloat {
				pass.Reportf(b.Source, "integer division by zero")
			}
		})
		return nil
	},
}

// AnalyzerNthRange reports a literal nth index which is outside a list of
// known length.
var AnalyzerNthRange = &Analyzer{
	Name:     "nth-range",
	Doc:      "Report nth with a literal index outside a literal list.\n\nnth fails with index-out-of-range when the index is not less than the length of the list.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		WalkCalls(pass.Exprs, func(call *lisp.Expr, depth int) {
			op, ok := HeadOp(call)
			if !ok || op != lisp.OpNth || ArgCount(call) != 2 {
				return
			}
			index, list := call.Cells[1], call.Cells[2]
			if index.Type != lisp.EInt {
				return
			}
			var n int
			switch {
			case list.Type == lisp.EQuotedList:
				n = len(list.Cells)
			case isListCall(list):
				n = ArgCount(list)
			default:
				return
			}
			if index.Int >= int64(n) {
				pass.Reportf(index.Source, "index %d out of range for list of length %d", index.Int, n)
			}
		})
		return nil
	},
}

func isListCall(node *lisp.Expr) bool {
	op, ok := HeadOp(node)
	return ok && op == lisp.OpList
}

// AnalyzerUndefinedFunction reports calls to functions which are not
// defined anywhere in the file.
var AnalyzerUndefinedFunction = &Analyzer{
	Name:     "undefined-function",
	Doc:      "Report calls to functions that are never defined.\n\nFunctions may be defined on any line of the file.  A call to a name with no defun fails with void-function.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		for _, ref := range pass.Semantics.Unresolved {
			if ref.Call {
				pass.Reportf(ref.Source, "undefined function: %s", ref.Name)
			}
		}
		return nil
	},
}

// AnalyzerUndefinedVariable reports names which are not parameters of the
// enclosing function.
var AnalyzerUndefinedVariable = &Analyzer{
	Name:     "undefined-variable",
	Doc:      "Report variables that are not parameters of the enclosing function.\n\nParameters are bound dynamically, so a name may still be bound by a calling function at run time.  Such names are reported with a note.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		params := make(map[string]bool)
		for _, sym := range pass.Semantics.Symbols {
			if sym.Kind == analysis.SymParameter {
				params[sym.Name] = true
			}
		}
		for _, ref := range pass.Semantics.Unresolved {
			if ref.Call {
				continue
			}
			d := Diagnostic{
				Pos:     PositionOf(ref.Source),
				Message: fmt.Sprintf("undefined variable: %s", ref.Name),
			}
			if params[ref.Name] {
				pass.ReportWithNotes(d, fmt.Sprintf("%s is only bound while a function with a parameter named %s is running", ref.Name, ref.Name))
				continue
			}
			pass.Report(d)
		}
		return nil
	},
}

// AnalyzerDuplicateFunction warns when a function is defined more than
// once in a file.
var AnalyzerDuplicateFunction = &Analyzer{
	Name:     "duplicate-function",
	Doc:      "Warn when a function is defined more than once.\n\nA later defun silently replaces the earlier definition.",
	Severity: SeverityWarning,
	Run: func(pass *Pass) error {
		first := make(map[string]*analysis.Symbol)
		for _, sym := range pass.Semantics.Symbols {
			if sym.Kind != analysis.SymFunction {
				continue
			}
			prev, ok := first[sym.Name]
			if !ok {
				first[sym.Name] = sym
				continue
			}
			pass.ReportWithNotes(Diagnostic{
				Pos:     PositionOf(sym.Source),
				Message: fmt.Sprintf("function %s redefined", sym.Name),
			}, fmt.Sprintf("previous definition at %s", prev.Source))
		}
		return nil
	},
}

// AnalyzerUnusedParameter reports parameters which a function body never
// references.
var AnalyzerUnusedParameter = &Analyzer{
	Name:     "unused-parameter",
	Doc:      "Report function parameters that the body never references.\n\nArguments are evaluated lazily, so the argument expression of an unused parameter is never evaluated.",
	Severity: SeverityInfo,
	Run: func(pass *Pass) error {
		for _, sym := range pass.Semantics.Symbols {
			if sym.Kind == analysis.SymParameter && sym.References == 0 {
				pass.Reportf(sym.Source, "parameter %s is never used", sym.Name)
			}
		}
		return nil
	},
}

// AnalyzerNames returns a sorted list of all default analyzer names.
func AnalyzerNames() []string {
	analyzers := DefaultAnalyzers()
	names := make([]string, len(analyzers))
	for i, a := range analyzers {
		names[i] = a.Name
	}
	sort.Strings(names)
	return names
}

// AnalyzerDoc returns a formatted documentation string for all analyzers.
func AnalyzerDoc() string {
	var b strings.Builder
	for _, a := range DefaultAnalyzers() {
		fmt.Fprintf(&b, "  %s\n", a.Name)
		lines := strings.Split(a.Doc, "\n")
		fmt.Fprintf(&b, "    %s\n\n", lines[0])
	}
	return b.String()
}
