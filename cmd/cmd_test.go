// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/parser"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	stdout string
	stderr string
	err    error
}

func (r result) exitCode() int {
	if r.err == nil {
		return 0
	}
	var exit *exitError
	if errors.As(r.err, &exit) {
		return exit.code
	}
	return -1
}

func execute(t *testing.T, stdin string, args []string, opts ...Option) result {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cmd := NewRootCommand(opts...)
	var stdout, stderr bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return result{stdout.String(), stderr.String(), err}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_Expressions(t *testing.T) {
	r := execute(t, "", []string{"run", "-p",
		"-e", "(defun sq (x) (mul x x))",
		"-e", "(sq 7)",
		"-e", "(map sq '(1 2 3))",
	})
	require.NoError(t, r.err, r.stderr)
	assert.Equal(t, "sq\n49\n(1 4 9)\n", r.stdout)
	assert.Empty(t, r.stderr)
}

func TestRun_MultilineExpression(t *testing.T) {
	r := execute(t, "", []string{"run", "-p", "--color", "never",
		"-e", "(defun sq (x) (mul x x))\n\n(sq 7)",
		"-e", "(sq 2)\n(sq 1 2)\n(sq 3)",
	})
	assert.Equal(t, 1, r.exitCode())
	assert.Equal(t, "sq\n49\n4\n9\n", r.stdout)
	assert.Contains(t, r.stderr, "wrong number of arguments, expected 1, got 2")
	assert.Contains(t, r.stderr, "<expr>:2")
}

func TestRun_StdinContinuesAfterError(t *testing.T) {
	r := execute(t, "(add 1 2)\n\n(div 1 0)\n(mul 2 3)\n", []string{"run", "-p", "--color", "never"})
	assert.Equal(t, 1, r.exitCode())
	assert.Equal(t, "3\n6\n", r.stdout)
	assert.Contains(t, r.stderr, "error:")
	assert.Contains(t, r.stderr, "division by 0")
	assert.Contains(t, r.stderr, "<stdin>:3")
}

func TestRun_Files(t *testing.T) {
	dir := t.TempDir()
	lib := writeFile(t, dir, "lib.lisp", "(defun double (x) (add x x))\n")
	main := writeFile(t, dir, "main.lisp", "(double 21)\n(undefined 1)\n")

	r := execute(t, "", []string{"run", "-p", lib, main})
	assert.Equal(t, 1, r.exitCode())
	assert.Equal(t, "double\n42\n", r.stdout)
	assert.Contains(t, r.stderr, "function `undefined` not found")
	assert.Contains(t, r.stderr, "main.lisp:2")

	r = execute(t, "", []string{"run", filepath.Join(dir, "missing.lisp")})
	assert.Error(t, r.err)
	assert.Equal(t, -1, r.exitCode())
}

func TestRun_SyntaxError(t *testing.T) {
	r := execute(t, "(add 1 2) 3\n", []string{"run", "-p", "--color", "never"})
	assert.Equal(t, 1, r.exitCode())
	assert.Empty(t, r.stdout)
	assert.Contains(t, r.stderr, "<stdin>:1")
}

func TestRun_MaxDepth(t *testing.T) {
	r := execute(t, "", []string{"run", "--max-depth", "50",
		"-e", "(defun loop (x) (loop x))",
		"-e", "(loop 1)",
	})
	assert.Equal(t, 1, r.exitCode())
	assert.Contains(t, r.stderr, "recursion depth exceeded maximum of 50")
}

func TestRun_MaxDepthFromEnvironment(t *testing.T) {
	t.Setenv("RLISP_MAX_DEPTH", "40")
	r := execute(t, "", []string{"run", "-e", "(defun loop (x) (loop x))", "-e", "(loop 1)"})
	assert.Equal(t, 1, r.exitCode())
	assert.Contains(t, r.stderr, "maximum of 40")
}

func TestRun_Callgrind(t *testing.T) {
	out := filepath.Join(t.TempDir(), "prof.out")
	r := execute(t, "", []string{"run", "--callgrind", out,
		"-e", "(defun sq (x) (mul x x))",
		"-e", "(sq 3)",
	})
	require.NoError(t, r.err, r.stderr)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "events: Time_(ns) Memory_(bytes)")
	assert.Contains(t, string(b), "sq")
}

func TestRun_TraceLogsSpans(t *testing.T) {
	for _, backend := range []string{"otel", "opencensus"} {
		t.Run(backend, func(t *testing.T) {
			r := execute(t, "", []string{"run", "--trace", backend, "--log-format", "json",
				"-e", "(defun sq (x) (mul x x))",
				"-e", "(sq 3)",
			})
			require.NoError(t, r.err, r.stderr)
			assert.Contains(t, r.stderr, `"span":"sq"`)
		})
	}
}

func TestRun_FlagErrors(t *testing.T) {
	r := execute(t, "", []string{"run", "--trace", "zipkin", "-e", "(add 1 2)"})
	assert.EqualError(t, r.err, `unknown trace backend: "zipkin"`)

	r = execute(t, "", []string{"run", "-e", "(add 1 2)", "file.lisp"})
	assert.EqualError(t, r.err, "files may not be given with --expression")

	r = execute(t, "", []string{"run", "--log-format", "xml", "-e", "(add 1 2)"})
	assert.EqualError(t, r.err, `unknown log format: "xml"`)

	r = execute(t, "", []string{"run", "--color", "sometimes", "-e", "(add 1 2)"})
	assert.Error(t, r.err)
}

func TestRun_WithEnv(t *testing.T) {
	env := lisp.NewEnv(nil)
	env.Runtime.Reader = parser.NewReader()
	env.Put("limit", lisp.Int(10))
	r := execute(t, "", []string{"run", "-p", "-e", "(add limit 1)"}, WithEnv(env))
	require.NoError(t, r.err, r.stderr)
	assert.Equal(t, "11\n", r.stdout)
}

func TestRun_DebugLogging(t *testing.T) {
	logger := logrus.New()
	r := execute(t, "", []string{"run", "--debug", "-e", "(defun f (x) (add x 1))", "-e", "(f 1)"}, WithLogger(logger))
	require.NoError(t, r.err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.Contains(t, r.stderr, "apply function")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "rlisp.yaml", "max-depth: 30\n")
	r := execute(t, "", []string{"run", "--config", cfg, "-e", "(defun loop (x) (loop x))", "-e", "(loop 1)"})
	assert.Equal(t, 1, r.exitCode())
	assert.Contains(t, r.stderr, "maximum of 30")

	r = execute(t, "", []string{"run", "--config", filepath.Join(dir, "missing.yaml"), "-e", "(add 1 2)"})
	assert.ErrorContains(t, r.err, "reading config")
}

func TestFmt(t *testing.T) {
	src := "(add   1 2)\n\n\n\n( defun f (x) (mul x 2.0) )  \n"
	want := "(add 1 2)\n\n(defun f (x) (mul x 2.0))\n"

	r := execute(t, src, []string{"fmt"})
	require.NoError(t, r.err, r.stderr)
	assert.Equal(t, want, r.stdout)

	r = execute(t, src, []string{"fmt", "--operators", "symbol"})
	require.NoError(t, r.err, r.stderr)
	assert.Equal(t, "(+ 1 2)\n\n(defun f (x) (* x 2.0))\n", r.stdout)

	r = execute(t, src, []string{"fmt", "--operators", "roman"})
	assert.Error(t, r.err)
}

func TestFmt_Files(t *testing.T) {
	dir := t.TempDir()
	messy := writeFile(t, dir, "messy.lisp", "(add  1 2)\n")
	clean := writeFile(t, dir, "clean.lisp", "(add 1 2)\n")

	r := execute(t, "", []string{"fmt", "-l", dir})
	assert.Equal(t, 1, r.exitCode())
	assert.Equal(t, messy+"\n", r.stdout)

	r = execute(t, "", []string{"fmt", "-d", messy})
	require.NoError(t, r.err)
	assert.Equal(t, "--- "+messy+"\n+++ "+messy+"\n-(add  1 2)\n+(add 1 2)\n", r.stdout)

	r = execute(t, "", []string{"fmt", "-w", dir})
	require.NoError(t, r.err)
	assert.Empty(t, r.stdout)
	b, err := os.ReadFile(messy)
	require.NoError(t, err)
	assert.Equal(t, "(add 1 2)\n", string(b))

	r = execute(t, "", []string{"fmt", "-l", messy, clean})
	require.NoError(t, r.err)
	assert.Empty(t, r.stdout)
}

func TestFmt_SyntaxErrorLeavesFile(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.lisp", "(add  1 2)\n(add 1\n")
	r := execute(t, "", []string{"fmt", "-w", bad})
	assert.Equal(t, 1, r.exitCode())
	assert.Contains(t, r.stderr, "bad.lisp:2")
	b, err := os.ReadFile(bad)
	require.NoError(t, err)
	assert.Equal(t, "(add  1 2)\n(add 1\n", string(b))
}

func TestDoc(t *testing.T) {
	r := execute(t, "", []string{"doc", "div"})
	require.NoError(t, r.err)
	assert.True(t, strings.HasPrefix(r.stdout, "builtin (/ a b)\n"), r.stdout)

	r = execute(t, "", []string{"doc", "-a"})
	require.NoError(t, r.err)
	for op := lisp.OpInvalid + 1; op < lisp.OpMax; op++ {
		assert.Contains(t, r.stdout, "("+op.String()+" ")
	}

	r = execute(t, "", []string{"doc", "nope"})
	assert.Equal(t, 1, r.exitCode())
	assert.Contains(t, r.stderr, `no documentation for "nope"`)

	r = execute(t, "", []string{"doc", "--guide"})
	require.NoError(t, r.err)
	assert.True(t, strings.HasPrefix(r.stdout, "# rlisp language reference\n"), r.stdout)

	r = execute(t, "", []string{"doc", "--guide", "add"})
	assert.Error(t, r.err)
}

func TestDocCommand_SourceFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "lib.lisp", "(defun cube (x) (mul x x x))\n")

	env := lisp.NewEnv(nil)
	env.Runtime.Reader = parser.NewReader()
	_, err := env.LoadString("embed.lisp", "(defun half (x) (div x 2))")
	require.NoError(t, err)

	cmd := DocCommand(WithEnv(env))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-f", src, "cube"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "function (cube x)")

	out.Reset()
	cmd = DocCommand(WithEnv(env))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--all"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "(half x)")
}

func TestLint(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.lisp", "(defun sq (x) (mul x x))\n(sq 2)\n")
	bad := writeFile(t, dir, "bad.lisp", "(sub 1)\n(nope 2)\n")

	r := execute(t, "", []string{"lint", good})
	require.NoError(t, r.err, r.stderr)
	assert.Empty(t, r.stderr)

	r = execute(t, "", []string{"lint", "--color", "never", bad})
	assert.Equal(t, 1, r.exitCode())
	assert.Contains(t, r.stderr, "error: sub expects 2 arguments, got 1 (builtin-arity)")
	assert.Contains(t, r.stderr, "undefined function: nope (undefined-function)")

	r = execute(t, "", []string{"lint", "--json", "--checks", "undefined-function", bad})
	assert.Equal(t, 1, r.exitCode())
	var diags []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &diags))
	require.Len(t, diags, 1)
	assert.Equal(t, "undefined-function", diags[0]["analyzer"])
	assert.Equal(t, "error", diags[0]["severity"])

	r = execute(t, "(add 1 2)\n", []string{"lint", "--json"})
	require.NoError(t, r.err)
	assert.Equal(t, "[]\n", r.stdout)

	r = execute(t, "", []string{"lint", "--disable", "builtin-arity,undefined-function", bad})
	require.NoError(t, r.err, r.stderr)
}

func TestLint_BadInvocation(t *testing.T) {
	r := execute(t, "", []string{"lint", "--checks", "no-such-check"})
	assert.Equal(t, 2, r.exitCode())
	assert.Contains(t, r.stderr, "unknown analyzer: no-such-check")

	r = execute(t, "", []string{"lint", filepath.Join(t.TempDir(), "missing.lisp")})
	assert.Equal(t, 2, r.exitCode())
}

func TestLint_List(t *testing.T) {
	r := execute(t, "", []string{"lint", "--list"})
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "builtin-arity\n")
	assert.Contains(t, r.stdout, "unused-parameter\n")
}

func TestLint_GlobalsFromWorkspaceAndEnv(t *testing.T) {
	lib := t.TempDir()
	writeFile(t, lib, "lib.lisp", "(defun helper (a b) (add a b))\n")
	src := writeFile(t, t.TempDir(), "main.lisp", "(helper 1 2)\n(embedded limit)\n")

	r := execute(t, "", []string{"lint", src})
	assert.Equal(t, 1, r.exitCode())

	env := lisp.NewEnv(nil)
	env.Runtime.Reader = parser.NewReader()
	_, err := env.LoadString("embed.lisp", "(defun embedded (x) (list x))")
	require.NoError(t, err)
	env.Put("limit", lisp.Int(3))

	cmd := LintCommand(WithEnv(env))
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--workspace", lib, src})
	require.NoError(t, cmd.Execute(), stderr.String())
}

func TestLSPCommand_Flags(t *testing.T) {
	cmd := LSPCommand()
	assert.Equal(t, "lsp [flags]", cmd.Use)
	for _, name := range []string{"stdio", "port"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"repl", "run", "fmt", "doc", "lint", "lsp"} {
		assert.Contains(t, names, want)
	}
}
