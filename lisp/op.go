// Copyright © 2018 The ELPS authors

package lisp

import "sort"

// Op identifies a builtin operator.  The set of operators is closed and is
// fixed by the parser's keyword recognition.
type Op uint

// Possible Op values
const (
	OpInvalid Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpDefun
	OpNth
	OpList
	OpEval
	OpCar
	OpMap
	// OpMax is not a real operator but is numerically greater than every
	// valid Op.
	OpMax
)

// opSymbols holds the canonical rendering of each operator.  The arithmetic
// operators render as their symbolic aliases.
var opSymbols = []string{
	OpInvalid: "#<invalid-op>",
	OpAdd:     "+",
	OpSub:     "-",
	OpMul:     "*",
	OpDiv:     "/",
	OpRem:     "%",
	OpDefun:   "defun",
	OpNth:     "nth",
	OpList:    "list",
	OpEval:    "eval",
	OpCar:     "car",
	OpMap:     "map",
}

var opNames = []string{
	OpInvalid: "invalid",
	OpAdd:     "add",
	OpSub:     "sub",
	OpMul:     "mul",
	OpDiv:     "div",
	OpRem:     "rem",
	OpDefun:   "defun",
	OpNth:     "nth",
	OpList:    "list",
	OpEval:    "eval",
	OpCar:     "car",
	OpMap:     "map",
}

// opKeywords maps every surface keyword to its operator.
var opKeywords = map[string]Op{
	"add":   OpAdd,
	"+":     OpAdd,
	"sub":   OpSub,
	"-":     OpSub,
	"mul":   OpMul,
	"*":     OpMul,
	"div":   OpDiv,
	"/":     OpDiv,
	"%":     OpRem,
	"defun": OpDefun,
	"nth":   OpNth,
	"list":  OpList,
	"eval":  OpEval,
	"car":   OpCar,
	"map":   OpMap,
}

// String returns the canonical keyword for op.
func (op Op) String() string {
	if op >= OpMax {
		return opSymbols[OpInvalid]
	}
	return opSymbols[op]
}

// Name returns a descriptive name for op, suitable for logs and profiles.
func (op Op) Name() string {
	if op >= OpMax {
		return opNames[OpInvalid]
	}
	return opNames[op]
}

// LookupOp returns the operator denoted by keyword.
func LookupOp(keyword string) (Op, bool) {
	op, ok := opKeywords[keyword]
	return op, ok
}

// Keywords returns every operator keyword in sorted order.
func Keywords() []string {
	kw := make([]string, 0, len(opKeywords))
	for k := range opKeywords {
		kw = append(kw, k)
	}
	sort.Strings(kw)
	return kw
}

// KeywordsFor returns the surface keywords which denote op.
func KeywordsFor(op Op) []string {
	var kw []string
	for _, k := range Keywords() {
		if opKeywords[k] == op {
			kw = append(kw, k)
		}
	}
	return kw
}
