// Copyright © 2018 The ELPS authors

package lisp

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardRuntime(t *testing.T) {
	rt := StandardRuntime()
	assert.Equal(t, DefaultMaxDepth, rt.MaxDepth)
	assert.Equal(t, os.Stderr, rt.Stderr)
	assert.NotNil(t, rt.Stack)
	assert.NotNil(t, rt.Logger)
	assert.Nil(t, rt.Reader)
	assert.Equal(t, 0, rt.Depth())
}

func TestNewEnvDefaultRuntime(t *testing.T) {
	env := NewEnv(nil)
	assert.Equal(t, DefaultMaxDepth, env.Runtime.MaxDepth)
	assert.Empty(t, env.Functions)
	assert.Empty(t, env.Variables)
}

func TestRuntimeTraceWithoutProfiler(t *testing.T) {
	rt := StandardRuntime()
	stop := rt.trace(Name("f"))
	assert.NotPanics(t, stop)
}
