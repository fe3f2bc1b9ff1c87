package profiler_test

import (
	"context"
	"runtime/pprof"
	"testing"

	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/lisp/x/profiler"
	"github.com/luthersystems/rlisp/lisptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPprofAnnotator(t *testing.T) {
	env, logger, err := lisptest.NewEnv(t)
	require.NoError(t, err)
	defer logger.Flush()

	ppa := profiler.NewPprofAnnotator(env.Runtime, nil, profiler.WithSymbolLabeler())
	require.NoError(t, ppa.Enable())

	end := ppa.Start(lisp.Name("square"))
	label, ok := pprof.Label(ppa.Context(), "function")
	assert.True(t, ok)
	assert.Equal(t, "square", label)

	endInner := ppa.Start(lisp.Operator(lisp.OpMul))
	label, _ = pprof.Label(ppa.Context(), "function")
	assert.Equal(t, "*", label)
	endInner()

	label, _ = pprof.Label(ppa.Context(), "function")
	assert.Equal(t, "square", label)
	end()
	_, ok = pprof.Label(ppa.Context(), "function")
	assert.False(t, ok)

	runTestLisp(t, env)
	require.NoError(t, ppa.Complete())
	assert.False(t, ppa.IsEnabled())
	assert.Equal(t, context.Background(), ppa.Context())
}
