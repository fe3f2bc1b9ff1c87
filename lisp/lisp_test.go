// Copyright © 2018 The ELPS authors

package lisp

import (
	"math"
	"testing"

	"github.com/luthersystems/rlisp/parser/token"
	"github.com/stretchr/testify/assert"
)

func TestExprString(t *testing.T) {
	tests := []struct {
		expr *Expr
		want string
	}{
		{Name("foo"), "foo"},
		{String("a\"b\\c"), `"a\"b\\c"`},
		{String("line\nnext\ttab\r\b\f"), `"line\nnext\ttab\r\b\f"`},
		{String("bell\x07"), `"bell\u{7}"`},
		{String("émoji 😂"), `"émoji 😂"`},
		{Operator(OpAdd), "+"},
		{Operator(OpRem), "%"},
		{Operator(OpDefun), "defun"},
		{Operator(OpMax), "#<invalid-op>"},
		{Int(-42), "-42"},
		{Float(3.5), "3.5"},
		{Float(2), "2.0"},
		{Float(1e21), "1e+21"},
		{Float(5e-7), "5e-07"},
		{Float(math.Inf(1)), "+Inf"},
		{Float(math.NaN()), "NaN"},
		{True(), "t"},
		{Nil(), "nil"},
		{Bool(true), "t"},
		{List(nil), "()"},
		{QuotedList(nil), "'()"},
		{List([]*Expr{Operator(OpMul), Name("x"), Name("x")}), "(* x x)"},
		{QuotedList([]*Expr{Int(1), QuotedList([]*Expr{Int(2)}), List([]*Expr{Name("f")})}), "'(1 '(2) (f))"},
		{&Expr{}, "#<INVALID>"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, test.expr.String())
	}
}

func TestEqual(t *testing.T) {
	a := List([]*Expr{Name("f"), Int(1), QuotedList([]*Expr{Float(2)})})
	b := List([]*Expr{Name("f"), Int(1), QuotedList([]*Expr{Float(2)})})
	b.Source = &token.Location{File: "x", Line: 1, Col: 1}
	assert.True(t, Equal(a, b), "source locations are ignored")

	assert.False(t, Equal(Int(1), Float(1)))
	assert.False(t, Equal(List(nil), QuotedList(nil)))
	assert.False(t, Equal(List([]*Expr{Int(1)}), List([]*Expr{Int(1), Int(2)})))
	assert.False(t, Equal(Operator(OpAdd), Operator(OpSub)))
	assert.False(t, Equal(Name("a"), String("a")))
	assert.False(t, Equal(True(), Nil()))
	assert.True(t, Equal(Float(math.NaN()), Float(math.NaN())))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(Int(1), nil))
}

func TestExprPredicates(t *testing.T) {
	assert.True(t, Nil().IsNil())
	assert.False(t, True().IsNil())
	assert.True(t, Int(1).IsNumeric())
	assert.True(t, Float(1).IsNumeric())
	assert.False(t, String("1").IsNumeric())
	assert.True(t, List(nil).IsList())
	assert.True(t, QuotedList(nil).IsList())
	assert.True(t, Name("x").IsAtom())
	assert.Equal(t, 2, QuotedList([]*Expr{Int(1), Int(2)}).Len())
	assert.Equal(t, 0, Int(5).Len())
}

func TestWithSource(t *testing.T) {
	orig := Int(3)
	loc := &token.Location{File: "f", Line: 2, Col: 4}
	cp := orig.WithSource(loc)
	assert.Nil(t, orig.Source)
	assert.Equal(t, loc, cp.Source)
	assert.True(t, Equal(orig, cp))
}

func TestTypeStrings(t *testing.T) {
	used := make(map[string]bool)
	for typ := EType(0); typ < ETypeMax; typ++ {
		str := typ.String()
		if str == "" {
			t.Errorf("type %d has empty string value", typ)
			continue
		}
		if used[str] {
			t.Errorf("type string used twice: %v", typ)
		}
		used[str] = true
	}
	assert.Equal(t, "INVALID", ETypeMax.String())
}

func TestOpKeywords(t *testing.T) {
	for op := OpAdd; op < OpMax; op++ {
		kw := KeywordsFor(op)
		assert.NotEmpty(t, kw, "operator %s has no keyword", op.Name())
		got, ok := LookupOp(op.String())
		assert.True(t, ok)
		assert.Equal(t, op, got, "canonical keyword %q", op.String())
	}
	assert.Equal(t, []string{"+", "add"}, KeywordsFor(OpAdd))
	assert.Equal(t, []string{"%"}, KeywordsFor(OpRem))
	_, ok := LookupOp("rem")
	assert.False(t, ok)
	assert.Equal(t, "invalid", OpMax.Name())
	assert.Len(t, Keywords(), 15)
}

func TestBuiltinTable(t *testing.T) {
	for op := OpAdd; op < OpMax; op++ {
		b := builtinFor(op)
		if assert.NotNil(t, b, op.Name()) {
			assert.Equal(t, op, b.op)
		}
		doc, formals, ok := BuiltinDoc(op)
		assert.True(t, ok, op.Name())
		assert.NotEmpty(t, doc, op.Name())
		assert.NotEmpty(t, formals, op.Name())
	}
	assert.Nil(t, builtinFor(OpInvalid))
	assert.Nil(t, builtinFor(OpMax))
	_, _, ok := BuiltinDoc(OpInvalid)
	assert.False(t, ok)
}
