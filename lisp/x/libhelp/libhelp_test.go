// Copyright © 2021 The ELPS authors

package libhelp_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/lisp/x/libhelp"
	"github.com/luthersystems/rlisp/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnv(t *testing.T) *lisp.Env {
	t.Helper()
	env := lisp.NewEnv(nil)
	env.Runtime.Reader = parser.NewReader()
	_, err := env.LoadString("test.lisp", "(defun square (x) (mul x x))")
	require.NoError(t, err)
	env.Put("limit", lisp.Int(10))
	return env
}

func TestSignature(t *testing.T) {
	assert.Equal(t, "(+ &rest numbers)", libhelp.Signature(lisp.OpAdd))
	assert.Equal(t, "(- a b)", libhelp.Signature(lisp.OpSub))
	assert.Equal(t, "(defun name params body)", libhelp.Signature(lisp.OpDefun))
	assert.Equal(t, "", libhelp.Signature(lisp.OpInvalid))
}

func TestDocstring(t *testing.T) {
	for op := lisp.OpInvalid + 1; op < lisp.OpMax; op++ {
		doc := libhelp.Docstring(op)
		assert.NotEmpty(t, doc, op.Name())
		for _, line := range strings.Split(doc, "\n") {
			if line == "" {
				continue
			}
			assert.True(t, strings.HasPrefix(line, "  "), "unindented line in %s doc: %q", op.Name(), line)
			assert.LessOrEqual(t, len(line), libhelp.Width+2, op.Name())
		}
	}
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Returns the sum of its arguments.", libhelp.Summary(lisp.OpAdd))
	assert.Equal(t, "Evaluates every argument and returns the results as a quoted list.", libhelp.Summary(lisp.OpList))
}

func TestRenderVar(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		query string
		want  []string
	}{
		{"div", []string{"builtin (/ a b)\n", "  keywords: / div\n", "  Returns a divided by b."}},
		{"/", []string{"builtin (/ a b)\n"}},
		{"%", []string{"builtin (% a b)\n", "remainder"}},
		{"square", []string{"function (square x)\n", "  defined at test.lisp:1:1\n", "  body: (* x x)"}},
		{"limit", []string{"variable limit 10\n"}},
	}
	for _, test := range tests {
		var buf bytes.Buffer
		err := libhelp.RenderVar(&buf, env, test.query)
		if assert.NoError(t, err, test.query) {
			for _, want := range test.want {
				assert.Contains(t, buf.String(), want, test.query)
			}
		}
	}
}

func TestRenderVar_NotFound(t *testing.T) {
	var buf bytes.Buffer
	err := libhelp.RenderVar(&buf, newTestEnv(t), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, libhelp.ErrNotFound))
	assert.Equal(t, `no documentation for "nope"`, err.Error())

	err = libhelp.RenderVar(&buf, nil, "add")
	assert.NoError(t, err)
}

func TestRenderIndex(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, libhelp.RenderIndex(&buf, newTestEnv(t)))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "builtins\n  (+ &rest numbers)"), out)
	assert.Contains(t, out, "  (map fun list)")
	assert.Contains(t, out, "\nfunctions\n  (square x)\n")
	assert.Contains(t, out, "\nvariables\n  limit")

	buf.Reset()
	require.NoError(t, libhelp.RenderIndex(&buf, nil))
	assert.NotContains(t, buf.String(), "functions")
}
