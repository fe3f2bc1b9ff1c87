// Copyright © 2024 The ELPS authors

package formatter

import (
	"errors"
	"strings"
	"testing"

	"github.com/luthersystems/rlisp/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type formatTest struct {
	name     string
	input    string
	expected string
	config   *Config
}

func runFormatTests(t *testing.T, tests []formatTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config
			got, err := Format([]byte(tt.input), cfg)
			require.NoError(t, err, "Format failed")
			assert.Equal(t, tt.expected, string(got), "formatted output mismatch")

			// Idempotency: formatting the output again should produce identical output
			got2, err := Format(got, cfg)
			require.NoError(t, err, "Format (idempotency) failed")
			assert.Equal(t, string(got), string(got2), "not idempotent")

			ok, err := IsFormatted(got, cfg)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestFormatSpacing(t *testing.T) {
	runFormatTests(t, []formatTest{
		{"empty", "", "", nil},
		{"only blank lines", "\n  \n\t\n", "", nil},
		{"atom", "  42  ", "42\n", nil},
		{"extra spaces", "(add   1    2)", "(add 1 2)\n", nil},
		{"inner padding", "( mul  x x )", "(mul x x)\n", nil},
		{"nested", "(+ 3 12 2 (- 2. (/ 4 5E-3)))", "(+ 3 12 2 (- 2.0 (/ 4 0.005)))\n", nil},
		{"quoted", "'( 1  '(2 3)  () )", "'(1 '(2 3) ())\n", nil},
		{"missing newline", "(f 1)", "(f 1)\n", nil},
		{"crlf", "(f 1)\r\n(g 2)\r\n", "(f 1)\n(g 2)\n", nil},
		{"strings", `(car "a\/b")`, `(car "a/b")` + "\n", nil},
		{"unicode escape", `"\u{41}\u{7}"`, `"A\u{7}"` + "\n", nil},
	})
}

func TestFormatBlankLines(t *testing.T) {
	runFormatTests(t, []formatTest{
		{
			"collapse",
			"\n\n(defun f (x) x)\n\n\n\n(f 1)\n\n\n",
			"(defun f (x) x)\n\n(f 1)\n",
			nil,
		},
		{
			"keep single",
			"(f 1)\n\n(f 2)\n(f 3)\n",
			"(f 1)\n\n(f 2)\n(f 3)\n",
			nil,
		},
		{
			"no blank lines",
			"(f 1)\n\n(f 2)\n",
			"(f 1)\n(f 2)\n",
			&Config{MaxBlankLines: 0},
		},
		{
			"two blank lines",
			"(f 1)\n\n\n\n(f 2)\n",
			"(f 1)\n\n\n(f 2)\n",
			&Config{MaxBlankLines: 2},
		},
	})
}

func TestFormatOperators(t *testing.T) {
	src := "(add (+ 1 2) (mul 3 4) (% 5 2) (div 1 2))"
	runFormatTests(t, []formatTest{
		{"preserve", src, src + "\n", nil},
		{"symbol", src, "(+ (+ 1 2) (* 3 4) (% 5 2) (/ 1 2))\n", &Config{Operators: OperatorsSymbol}},
		{"word", src, "(add (add 1 2) (mul 3 4) (% 5 2) (div 1 2))\n", &Config{Operators: OperatorsWord}},
		{"word builtins", "(map - '(1))", "(map sub '(1))\n", &Config{Operators: OperatorsWord}},
	})
}

func TestFormatSyntaxError(t *testing.T) {
	_, err := FormatFile([]byte("(f 1)\n\n(f 2\n"), "main.lisp", nil)
	require.Error(t, err)
	var serr *parser.SyntaxError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, 3, serr.Source.Line)
	assert.Equal(t, "main.lisp", serr.Source.File)

	ok, err := IsFormatted([]byte("(f"), nil)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestFormatPreservesMeaning(t *testing.T) {
	src := "(defun   sq (x)  (mul x x))\n(map sq '( 1 2 .5 ))\n"
	got, err := Format([]byte(src), &Config{Operators: OperatorsSymbol})
	require.NoError(t, err)
	before, err := parser.NewReader().Read("a", bytesReader(src))
	require.NoError(t, err)
	after, err := parser.NewReader().Read("b", bytesReader(string(got)))
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].String(), after[i].String())
	}
}

func TestOperatorStyle(t *testing.T) {
	for _, s := range []OperatorStyle{OperatorsPreserve, OperatorsSymbol, OperatorsWord} {
		parsed, err := ParseOperatorStyle(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	s, err := ParseOperatorStyle("SYMBOL")
	require.NoError(t, err)
	assert.Equal(t, OperatorsSymbol, s)
	_, err = ParseOperatorStyle("lisp-2")
	assert.Error(t, err)
	assert.Equal(t, "unknown", OperatorStyle(9).String())
}

func bytesReader(s string) *strings.Reader {
	return strings.NewReader(s)
}
