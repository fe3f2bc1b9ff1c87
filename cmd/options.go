// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"
	"os"

	"github.com/luthersystems/rlisp/analysis"
	"github.com/luthersystems/rlisp/lisp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Option configures the exported command factories (NewRootCommand,
// LintCommand, DocCommand, LSPCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	v       *viper.Viper
	logger  *logrus.Logger
	env     *lisp.Env
	stdin   io.Reader
	cfgFile string
}

func newCmdConfig(opts ...Option) *cmdConfig {
	c := &cmdConfig{
		v:      viper.New(),
		logger: logrus.New(),
		stdin:  os.Stdin,
	}
	setDefaults(c.v)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithEnv injects a configured environment.  Commands which evaluate code
// use it instead of creating their own, and the functions and variables it
// defines are known to doc, lint and the language server.
func WithEnv(env *lisp.Env) Option {
	return func(c *cmdConfig) { c.env = env }
}

// WithViper replaces the configuration registry used by the commands.
func WithViper(v *viper.Viper) Option {
	return func(c *cmdConfig) {
		c.v = v
		setDefaults(v)
	}
}

// WithLogger sets the logger configured by the logging flags and passed
// to evaluation environments.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *cmdConfig) { c.logger = logger }
}

// WithStdin sets the input read by commands given no file arguments.
func WithStdin(r io.Reader) Option {
	return func(c *cmdConfig) { c.stdin = r }
}

// globals returns the symbols defined by the injected environment.
func (c *cmdConfig) globals() []analysis.ExternalSymbol {
	if c.env == nil {
		return nil
	}
	return analysis.EnvSymbols(c.env)
}
