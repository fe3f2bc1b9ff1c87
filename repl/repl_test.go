// Copyright © 2018 The ELPS authors

package repl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/luthersystems/rlisp/diagnostic"
	"github.com/luthersystems/rlisp/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runReplWithString(t *testing.T, input string) string {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	go func() {
		defer inW.Close() //nolint:errcheck // test cleanup
		_, _ = io.WriteString(inW, input)
	}()

	history := filepath.Join(t.TempDir(), ".rlisp_history")
	go func() {
		RunRepl("rlisp> ",
			WithStdin(inR),
			WithStderr(outW),
			WithHistoryFile(history),
			WithRenderer(&diagnostic.Renderer{Color: diagnostic.ColorNever}))
		inR.Close()  //nolint:errcheck,gosec // test cleanup
		outW.Close() //nolint:errcheck,gosec // test cleanup
	}()

	var output bytes.Buffer
	_, _ = io.Copy(&output, outR)
	outR.Close() //nolint:errcheck,gosec // test cleanup

	return output.String()
}

func TestEnsureHistoryFilePermissions_CreatesWithRestrictedMode(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".rlisp_history")

	// File does not exist yet.
	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err, "history file should be created")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "new history file should have mode 0600")
}

func TestEnsureHistoryFilePermissions_RestrictsExistingFile(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".rlisp_history")

	// Create the file with overly permissive mode.
	err := os.WriteFile(histFile, []byte("some history"), 0644)
	require.NoError(t, err)

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "existing history file should be restricted to 0600")

	// Verify contents are preserved.
	data, err := os.ReadFile(histFile)
	require.NoError(t, err)
	assert.Equal(t, "some history", string(data))
}

func TestEnsureHistoryFilePermissions_EmptyPathNoOp(t *testing.T) {
	// Should not panic or error with empty path.
	ensureHistoryFilePermissions("")
}

func TestRunRepl(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Banner",
			input:    "",
			expected: []string{"RLisp version "},
		},
		{
			name:     "Simple Addition",
			input:    "(+ 1 1)\n",
			expected: []string{"2\n"},
		},
		{
			name:     "Error",
			input:    "fnord\n",
			expected: []string{"error: variable `fnord` not found", "--> <stdin>:1:1", "fnord"},
		},
		{
			name:  "Error Continues",
			input: "(defun sq (x) (mul x x))\n\n(sq 1 2)\n(sq 12)\n",
			expected: []string{
				"sq\n",
				"wrong number of arguments, expected 1, got 2",
				"144\n",
			},
		},
		{
			name:     "Syntax Error",
			input:    "(add 1\n",
			expected: []string{"invalid syntax: unexpected end of input"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := runReplWithString(t, tc.input)
			for _, want := range tc.expected {
				require.Contains(t, got, want)
			}
		})
	}
}

func TestNewEnvConfig(t *testing.T) {
	env, err := NewEnv(lisp.WithMaximumDepth(7), lisp.WithMaximumStackHeight(3))
	require.NoError(t, err)
	assert.NotNil(t, env.Runtime.Reader)
	assert.Equal(t, 7, env.Runtime.MaxDepth)
	assert.Equal(t, 3, env.Runtime.Stack.MaxHeight)

	c := newConfig(WithEnvConfig(lisp.WithMaximumDepth(7)), WithEnvConfig(lisp.WithMaximumStackHeight(3)))
	assert.Len(t, c.envConfig, 2)
}
