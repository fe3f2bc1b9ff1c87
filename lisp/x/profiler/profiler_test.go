package profiler_test

import (
	"testing"

	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/lisptest"
	"github.com/stretchr/testify/require"
)

const testLisp = `(defun square (x) (mul x x))
(defun sumsq (a b) (add (square a) (square b)))
(sumsq 3 4)
`

func runTestLisp(t *testing.T, env *lisp.Env) {
	t.Helper()
	v, err := env.LoadString("test.lisp", testLisp)
	if err != nil {
		lisptest.LispError(t, err)
		t.FailNow()
	}
	require.Equal(t, "25", v.String())
}
