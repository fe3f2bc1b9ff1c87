// Copyright © 2024 The ELPS authors

package parser

import (
	"strings"
	"testing"

	"github.com/luthersystems/rlisp/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   *lisp.Expr
	}{
		{"int", "42", lisp.Int(42)},
		{"int separators", "1_000_000", lisp.Int(1000000)},
		{"float", "2.5", lisp.Float(2.5)},
		{"float trailing dot", "2.", lisp.Float(2)},
		{"float leading dot", ".5", lisp.Float(0.5)},
		{"float exponent", "5E-3", lisp.Float(5e-3)},
		{"float lower exponent", "1e5", lisp.Float(1e5)},
		{"int overflow reads float", "99999999999999999999", lisp.Float(99999999999999999999)},
		{"name", "lexp", lisp.Name("lexp")},
		{"name underscore", "_x1", lisp.Name("_x1")},
		{"name keyword prefix", "address", lisp.Name("address")},
		{"name keyword with suffix", "list_2", lisp.Name("list_2")},
		{"string", `"hello world"`, lisp.String("hello world")},
		{"string escapes", `"a\"b\\c\n\t"`, lisp.String("a\"b\\c\n\t")},
		{"string unicode brace", `"\u{1F602}"`, lisp.String("\U0001F602")},
		{"string unicode 4", `"\u00e9"`, lisp.String("é")},
		{"string escaped slash", `"a\/b"`, lisp.String("a/b")},
		{"operator add", "add", lisp.Operator(lisp.OpAdd)},
		{"operator plus", "+", lisp.Operator(lisp.OpAdd)},
		{"operator sub", "-", lisp.Operator(lisp.OpSub)},
		{"operator rem", "%", lisp.Operator(lisp.OpRem)},
		{"operator map", "map", lisp.Operator(lisp.OpMap)},
		{"empty list", "()", lisp.List([]*lisp.Expr{})},
		{"padded empty list", "(   )", lisp.List([]*lisp.Expr{})},
		{"list", "(lexp 3  2)", lisp.List([]*lisp.Expr{
			lisp.Name("lexp"), lisp.Int(3), lisp.Int(2),
		})},
		{"padded list", "( a b )", lisp.List([]*lisp.Expr{
			lisp.Name("a"), lisp.Name("b"),
		})},
		{"int then float", "(list 1 2.5)", lisp.List([]*lisp.Expr{
			lisp.Operator(lisp.OpList), lisp.Int(1), lisp.Float(2.5),
		})},
		{"int then name with e", "(add 1 (mul 2 3) test)", lisp.List([]*lisp.Expr{
			lisp.Operator(lisp.OpAdd),
			lisp.Int(1),
			lisp.List([]*lisp.Expr{lisp.Operator(lisp.OpMul), lisp.Int(2), lisp.Int(3)}),
			lisp.Name("test"),
		})},
		{"quoted list", "'(foo bar)", lisp.QuotedList([]*lisp.Expr{
			lisp.Name("foo"), lisp.Name("bar"),
		})},
		{"nested quoted list", "'(1 '(2 3) (car x))", lisp.QuotedList([]*lisp.Expr{
			lisp.Int(1),
			lisp.QuotedList([]*lisp.Expr{lisp.Int(2), lisp.Int(3)}),
			lisp.List([]*lisp.Expr{lisp.Operator(lisp.OpCar), lisp.Name("x")}),
		})},
		{"arithmetic", "(+ 3 12 2 (- 2. (/ 4 5E-3)))", lisp.List([]*lisp.Expr{
			lisp.Operator(lisp.OpAdd),
			lisp.Int(3),
			lisp.Int(12),
			lisp.Int(2),
			lisp.List([]*lisp.Expr{
				lisp.Operator(lisp.OpSub),
				lisp.Float(2),
				lisp.List([]*lisp.Expr{
					lisp.Operator(lisp.OpDiv),
					lisp.Int(4),
					lisp.Float(5e-3),
				}),
			}),
		})},
		{"defun", "(defun square (x) (mul x x))", lisp.List([]*lisp.Expr{
			lisp.Operator(lisp.OpDefun),
			lisp.Name("square"),
			lisp.List([]*lisp.Expr{lisp.Name("x")}),
			lisp.List([]*lisp.Expr{lisp.Operator(lisp.OpMul), lisp.Name("x"), lisp.Name("x")}),
		})},
		{"surrounding whitespace", "  (a)\t\n", lisp.List([]*lisp.Expr{lisp.Name("a")})},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			expr, err := Parse(test.source)
			require.NoError(t, err)
			assert.True(t, lisp.Equal(test.want, expr), "want %v, got %v", test.want, expr)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		kind   error
		msg    string
	}{
		{"empty", "", ErrParsing, "invalid syntax: unexpected end of input"},
		{"unclosed", "(add 1 2", ErrParsing, "invalid syntax: unexpected end of input"},
		{"bad char", "(add 1 @)", ErrParsing, `invalid syntax: unexpected "@)" at column 8`},
		{"unary minus", "-5", ErrTrailingGarbage, "trailing garbage following expression"},
		{"two exprs", "(a) (b)", ErrTrailingGarbage, "trailing garbage following expression"},
		{"unbalanced close", "(a))", ErrTrailingGarbage, "trailing garbage following expression"},
		{"quoted atom", "'a", ErrParsing, `invalid syntax: unexpected "a" at column 2`},
		{"tab separator", "(a\tb)", ErrParsing, "invalid syntax: unexpected \"\\tb)\" at column 3"},
		{"bad escape", `"\q"`, ErrParsing, `invalid syntax: unexpected "\"\\q\"" at column 1`},
		{"unterminated string", `"abc`, ErrParsing, `invalid syntax: unexpected "\"abc" at column 1`},
		{"adjacent elements", "(-2.5)", ErrParsing, `invalid syntax: unexpected "2.5)" at column 3`},
		{"invalid utf-8 string", "\"a\xffb\"", ErrParsing, `invalid syntax: unexpected "\"a\xffb\"" at column 1`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			expr, err := Parse(test.source)
			require.Error(t, err, "parsed %v", expr)
			assert.ErrorIs(t, err, test.kind)
			assert.Equal(t, test.msg, err.Error())
			var serr *SyntaxError
			require.ErrorAs(t, err, &serr)
			assert.NotNil(t, serr.Source)
		})
	}
}

func TestTrailingGarbageLocation(t *testing.T) {
	_, err := ParseLocation("test", 3, "(a b) c")
	var serr *SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, TrailingGarbage, serr.Kind)
	assert.Equal(t, "test:3:7", serr.Source.String())
}

func TestParseSourceLocations(t *testing.T) {
	expr, err := ParseLocation("test", 2, "(add 1 '(2 3))")
	require.NoError(t, err)
	require.NotNil(t, expr.Source)
	assert.Equal(t, "test:2:1", expr.Source.String())
	assert.Equal(t, "test:2:2", expr.Cells[0].Source.String())
	assert.Equal(t, "test:2:6", expr.Cells[1].Source.String())
	assert.Equal(t, "test:2:8", expr.Cells[2].Source.String())
	assert.Equal(t, "test:2:12", expr.Cells[2].Cells[1].Source.String())
}

func TestOperatorKeyword(t *testing.T) {
	expr, err := Parse("(add (+ 1 2) (mul 3 4))")
	require.NoError(t, err)
	assert.Equal(t, "add", expr.Cells[0].Str)
	assert.Equal(t, "+", expr.Cells[1].Cells[0].Str)
	assert.Equal(t, "mul", expr.Cells[2].Cells[0].Str)
	assert.Equal(t, "(+ (+ 1 2) (* 3 4))", expr.String())
}

func TestRoundTrip(t *testing.T) {
	sources := []string{
		"(+ 3 12 2 (- 2. (/ 4 5E-3)))",
		"(lexp 3  2)",
		"'(1 '(2 \"x\\ny\") ())",
		`"tab\tquote\"\u{7}"`,
		`"héllo ✓"`,
		`"héllo ✓"`,
		"(defun square (x) (mul x x))",
		"(map square '(1 2 3))",
		"(add 1e300 0.1 .5 7)",
		"(sub div mul nth list eval car % *)",
		"99999999999999999999",
	}
	for _, src := range sources {
		first, err := Parse(src)
		require.NoError(t, err, src)
		rendered := first.String()
		second, err := Parse(rendered)
		require.NoError(t, err, "rendered %q", rendered)
		assert.True(t, lisp.Equal(first, second), "%q rendered as %q", src, rendered)
		assert.Equal(t, rendered, second.String())
	}
}

func TestReader(t *testing.T) {
	src := "(defun f (x) (add x 1))\n\n   \n(f 2)\n"
	exprs, err := NewReader().Read("test.lisp", strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, exprs, 2)
	assert.Equal(t, "test.lisp:1:1", exprs[0].Source.String())
	assert.Equal(t, "test.lisp:4:1", exprs[1].Source.String())

	_, err = NewReader().Read("test.lisp", strings.NewReader("(a)\n(b"))
	var serr *SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 2, serr.Source.Line)
}

func TestReaderEvaluates(t *testing.T) {
	env := lisp.NewEnv(nil)
	require.NoError(t, lisp.InitializeUserEnv(env, lisp.WithReader(NewReader())))
	v, err := env.LoadString("test", "(defun square (x) (mul x x))\n(square (add 5 9))")
	require.NoError(t, err)
	assert.Equal(t, "196", v.String())
}

func TestParseFile(t *testing.T) {
	src := "(defun f (x) (add x 1))\r\n(f 2\n\n(f 3) 4\n(f 5)"
	exprs, errs := ParseFile("test.lisp", []byte(src))
	require.Len(t, exprs, 2)
	assert.Equal(t, "(defun f (x) (+ x 1))", exprs[0].String())
	assert.Equal(t, "test.lisp:5:1", exprs[1].Source.String())
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], ErrParsing)
	assert.Equal(t, 2, errs[0].Source.Line)
	assert.ErrorIs(t, errs[1], ErrTrailingGarbage)
	assert.Equal(t, "test.lisp:4:7", errs[1].Source.String())
}
