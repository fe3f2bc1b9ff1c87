// Copyright © 2018 The ELPS authors

package lisp

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/luthersystems/rlisp/parser/token"
)

// EType is the type of an Expr
type EType uint

// Possible EType values
const (
	// EInvalid (0) is not a valid expression type.
	EInvalid EType = iota
	// EName values store an identifier in the Expr.Str field.
	EName
	// EString values store a decoded string literal in the Expr.Str field.
	EString
	// EOperator values store a builtin operator in the Expr.Op field.
	// Parsed operators also keep the keyword they were written with in
	// Expr.Str.
	EOperator
	// EInt values store an int64 in the Expr.Int field.
	EInt
	// EFloat values store a float64 in the Expr.Float field.
	EFloat
	// EBool values store their truth in the Expr.True field.  A false EBool
	// is nil.
	EBool
	// EQuotedList values store data in Expr.Cells which must not be
	// evaluated unless forced with eval.
	EQuotedList
	// EList values are evaluable forms that store their elements in
	// Expr.Cells.  When non-empty Cells[0] is the operator or function being
	// applied.
	EList
	// ETypeMax is not a real type but represents a value numerically greater
	// than all valid EType values.
	ETypeMax
)

var exprTypeStrings = []string{
	EInvalid:    "INVALID",
	EName:       "name",
	EString:     "string",
	EOperator:   "operator",
	EInt:        "int",
	EFloat:      "float",
	EBool:       "bool",
	EQuotedList: "quoted-list",
	EList:       "list",
}

func (t EType) String() string {
	if t >= EType(len(exprTypeStrings)) {
		return exprTypeStrings[EInvalid]
	}
	return exprTypeStrings[t]
}

// Expr is a node in a parsed expression tree.  Expressions are also the
// values produced by evaluation, there is no separate runtime value type.
// Expr values are never modified after they are constructed.
type Expr struct {
	Source *token.Location

	// Str used by names and strings
	Str string

	// Cells used by lists and quoted lists
	Cells []*Expr

	Int   int64
	Float float64

	Type EType

	// Op used by operators
	Op Op

	// True used by booleans
	True bool
}

// Name returns an identifier.
func Name(s string) *Expr {
	return &Expr{Type: EName, Str: s}
}

// String returns a string literal.
func String(s string) *Expr {
	return &Expr{Type: EString, Str: s}
}

// Operator returns a reference to a builtin operator.
func Operator(op Op) *Expr {
	return &Expr{Type: EOperator, Op: op}
}

// Int returns an integer.
func Int(x int64) *Expr {
	return &Expr{Type: EInt, Int: x}
}

// Float returns a floating point number.
func Float(x float64) *Expr {
	return &Expr{Type: EFloat, Float: x}
}

// Bool returns True() if b is true and Nil() otherwise.
func Bool(b bool) *Expr {
	if b {
		return True()
	}
	return Nil()
}

// True returns the true boolean, t.
func True() *Expr {
	return &Expr{Type: EBool, True: true}
}

// Nil returns the false boolean, nil.
func Nil() *Expr {
	return &Expr{Type: EBool}
}

// QuotedList returns a list of data which is not evaluated.
func QuotedList(cells []*Expr) *Expr {
	return &Expr{Type: EQuotedList, Cells: cells}
}

// List returns an evaluable list.
func List(cells []*Expr) *Expr {
	return &Expr{Type: EList, Cells: cells}
}

// IsNil returns true if e is the nil boolean.
func (e *Expr) IsNil() bool {
	return e.Type == EBool && !e.True
}

// IsNumeric returns true if e is an int or a float.
func (e *Expr) IsNumeric() bool {
	return e.Type == EInt || e.Type == EFloat
}

// IsList returns true for both evaluable and quoted lists.
func (e *Expr) IsList() bool {
	return e.Type == EList || e.Type == EQuotedList
}

// IsAtom returns true if e is not a list of any kind.
func (e *Expr) IsAtom() bool {
	return !e.IsList()
}

// Len returns the number of elements in a list.  Atoms have length zero.
func (e *Expr) Len() int {
	if !e.IsList() {
		return 0
	}
	return len(e.Cells)
}

// WithSource returns a shallow copy of e attached to loc.
func (e *Expr) WithSource(loc *token.Location) *Expr {
	cp := *e
	cp.Source = loc
	return &cp
}

// Equal returns true if a and b are structurally identical.  Source
// locations are ignored.
func Equal(a, b *Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case EName, EString:
		return a.Str == b.Str
	case EOperator:
		return a.Op == b.Op
	case EInt:
		return a.Int == b.Int
	case EFloat:
		return a.Float == b.Float || (math.IsNaN(a.Float) && math.IsNaN(b.Float))
	case EBool:
		return a.True == b.True
	case EList, EQuotedList:
		if len(a.Cells) != len(b.Cells) {
			return false
		}
		for i := range a.Cells {
			if !Equal(a.Cells[i], b.Cells[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String renders e in the canonical surface syntax.  Parsing the rendered
// form of any parsed expression yields an equal expression.
func (e *Expr) String() string {
	var buf bytes.Buffer
	e.write(&buf)
	return buf.String()
}

func (e *Expr) write(buf *bytes.Buffer) {
	switch e.Type {
	case EName:
		buf.WriteString(e.Str)
	case EString:
		buf.WriteString(QuoteString(e.Str))
	case EOperator:
		buf.WriteString(e.Op.String())
	case EInt:
		buf.WriteString(strconv.FormatInt(e.Int, 10))
	case EFloat:
		buf.WriteString(formatFloat(e.Float))
	case EBool:
		if e.True {
			buf.WriteString(TrueSymbol)
		} else {
			buf.WriteString(FalseSymbol)
		}
	case EQuotedList:
		buf.WriteString("'")
		writeCells(buf, e.Cells)
	case EList:
		writeCells(buf, e.Cells)
	default:
		fmt.Fprintf(buf, "#<%s>", e.Type)
	}
}

func writeCells(buf *bytes.Buffer, cells []*Expr) {
	buf.WriteString("(")
	for i, c := range cells {
		if i > 0 {
			buf.WriteString(" ")
		}
		c.write(buf)
	}
	buf.WriteString(")")
}

// NOTE:  The 'g' format renders 2.0 as 2 which would read back as an int, so
// a decimal point is appended to integral values.
func formatFloat(x float64) string {
	s := strconv.FormatFloat(x, 'g', -1, 64)
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return s
	}
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// QuoteString renders s as a double quoted string literal using only escape
// sequences understood by the parser.
func QuoteString(s string) string {
	var buf strings.Builder
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&buf, `\u{%x}`, r)
				continue
			}
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
	return buf.String()
}
