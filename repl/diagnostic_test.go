// Copyright © 2024 The ELPS authors

package repl

import (
	"errors"
	"testing"

	"github.com/luthersystems/rlisp/diagnostic"
	"github.com/luthersystems/rlisp/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnoseSyntaxError(t *testing.T) {
	_, err := parser.ParseLocation("main.lisp", 4, "(add 1 2) 3")
	require.Error(t, err)
	d := Diagnose(err, func(file string, line int) string {
		assert.Equal(t, "main.lisp", file)
		assert.Equal(t, 4, line)
		return "(add 1 2) 3"
	})
	assert.Equal(t, diagnostic.SeverityError, d.Severity)
	assert.Equal(t, "trailing garbage following expression", d.Message)
	require.Len(t, d.Spans, 1)
	assert.Equal(t, 4, d.Spans[0].Line)
	assert.Equal(t, "expected end of line", d.Spans[0].Label)
	assert.Equal(t, "(add 1 2) 3", d.Spans[0].Source)
	assert.Empty(t, d.Notes)
}

func TestDiagnoseEvalError(t *testing.T) {
	env, err := NewEnv()
	require.NoError(t, err)
	_, err = env.LoadString("test", "(defun f (x) (g x))\n(f 1)")
	require.Error(t, err)

	d := Diagnose(err, nil)
	assert.Equal(t, "function `g` not found", d.Message)
	require.Len(t, d.Spans, 1)
	assert.Equal(t, diagnostic.Span{File: "test", Line: 1, Col: 14}, d.Spans[0])
	assert.Equal(t, []string{"in f at test:2:1"}, d.Notes)
}

func TestDiagnoseOtherError(t *testing.T) {
	d := Diagnose(errors.New("open x.lisp: no such file"), nil)
	assert.Equal(t, "open x.lisp: no such file", d.Message)
	assert.Empty(t, d.Spans)
}
