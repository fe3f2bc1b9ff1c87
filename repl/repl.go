// Copyright © 2018 The ELPS authors

package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/luthersystems/rlisp/diagnostic"
	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/parser"
)

// DefaultPrompt is the prompt shown when no other prompt is configured.
const DefaultPrompt = "rlisp> "

type config struct {
	stdin       io.ReadCloser
	stderr      io.Writer
	prompt      string
	historyFile string
	renderer    *diagnostic.Renderer
	envConfig   []lisp.Config
}

func newConfig(opts ...Option) *config {
	config := &config{
		prompt:      DefaultPrompt,
		historyFile: historyPath(),
		renderer:    &diagnostic.Renderer{Color: diagnostic.ColorAuto},
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.Writer) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithPrompt sets the prompt shown before each line.
func WithPrompt(prompt string) Option {
	return func(c *config) {
		c.prompt = prompt
	}
}

// WithHistoryFile sets the file line history is persisted to.  An empty path
// disables history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.historyFile = path
	}
}

// WithRenderer sets the renderer used to display errors.
func WithRenderer(r *diagnostic.Renderer) Option {
	return func(c *config) {
		c.renderer = r
	}
}

// WithEnvConfig adds configuration for the environment created by RunRepl.
func WithEnvConfig(cfgs ...lisp.Config) Option {
	return func(c *config) {
		c.envConfig = append(c.envConfig, cfgs...)
	}
}

// NewEnv returns an environment which reads source with the standard parser.
func NewEnv(cfgs ...lisp.Config) (*lisp.Env, error) {
	env := lisp.NewEnv(nil)
	cfgs = append([]lisp.Config{lisp.WithReader(parser.NewReader())}, cfgs...)
	err := lisp.InitializeUserEnv(env, cfgs...)
	if err != nil {
		return nil, fmt.Errorf("language initialization failure: %w", err)
	}
	return env, nil
}

// RunRepl runs a simple repl in a new environment.
func RunRepl(prompt string, opts ...Option) {
	cfg := newConfig(opts...)
	envOpts := cfg.envConfig
	if cfg.stderr != nil {
		envOpts = append(envOpts, lisp.WithStderr(cfg.stderr))
	}
	env, err := NewEnv(envOpts...)
	if err != nil {
		errlnf("%v", err)
		os.Exit(1)
	}
	RunEnv(env, prompt, opts...)
}

// RunEnv runs a simple repl with env.  It returns when input is exhausted.
func RunEnv(env *lisp.Env, prompt string, opts ...Option) {
	cfg := newConfig(opts...)
	if cfg.stderr != nil {
		env.Runtime.Stderr = cfg.stderr
	}
	if prompt == "" {
		prompt = cfg.prompt
	}
	ensureHistoryFilePermissions(cfg.historyFile)

	rlCfg := &readline.Config{
		Stdout:            env.Runtime.Stderr,
		Stderr:            env.Runtime.Stderr,
		Prompt:            prompt,
		HistoryFile:       cfg.historyFile,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{env: env},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		errlnf("readline: %v", err)
		os.Exit(1)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	fmt.Fprintf(env.Runtime.Stderr, "RLisp version %s\n", lisp.Version) //nolint:errcheck // best-effort REPL output

	b := &Batch{
		Env:      env,
		Out:      env.Runtime.Stderr,
		Err:      env.Runtime.Stderr,
		Print:    true,
		Renderer: cfg.renderer,
	}
	for lineno := 1; ; lineno++ {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.EvalLine("<stdin>", lineno, line)
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rlisp_history")
}

// ensureHistoryFilePermissions creates the history file if needed and
// restricts it to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0600) //nolint:gosec // path is the configured history file
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}

func errlnf(format string, v ...interface{}) {
	if strings.HasSuffix(format, "\n") {
		errf(format, v...)
		return
	}
	errf(format+"\n", v...)
}

func errf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
}
