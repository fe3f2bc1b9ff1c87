// Copyright © 2018 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/luthersystems/rlisp/diagnostic"
	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/repl"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// exitError carries a process exit status for a command which has already
// reported its failure.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// NewRootCommand returns the rlisp command and all of its subcommands.
func NewRootCommand(opts ...Option) *cobra.Command {
	c := newCmdConfig(opts...)
	rootCmd := &cobra.Command{
		Use:   "rlisp",
		Short: "RLisp, a small s-expression language",
		Long: `RLisp evaluates a small s-expression language one line at a time.

Getting started:
  rlisp repl                       Start an interactive REPL
  rlisp run file.lisp              Run a source file
  rlisp run -e '(add 1 2)' -p      Evaluate an expression and print it
  rlisp doc div                    Show documentation for a builtin
  rlisp lint file.lisp             Run static analysis checks
  rlisp fmt -w file.lisp           Rewrite a file in canonical form

Language overview:
  Each line holds one expression.  Lists apply an operator or a function
  defined with (defun name (params) (body)) to their arguments.  Quoted
  lists, written '(...), are data until forced with eval.  Arithmetic
  operators accept a word or symbol: add/+, sub/-, mul/*, div//, and %.

Configuration is read from $HOME/.rlisp.yaml (or --config) and from
RLISP_ environment variables, e.g. RLISP_MAX_DEPTH=500.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig(cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.rlisp.yaml)")
	flags.String("color", "auto", `Control colored output: "auto", "always", or "never".`)
	flags.Bool("debug", false, "Log evaluation at debug level.")
	flags.String("log-level", "info", "Log level: trace, debug, info, warn, error.")
	flags.String("log-format", "text", `Log format: "text" or "json".`)
	flags.Int("max-depth", lisp.DefaultMaxDepth, "Maximum nesting of evaluation (0 disables the limit).")
	flags.Int("max-stack-height", 0, "Maximum nesting of function applications (0 disables the limit).")
	c.bindFlags(flags, "color", "debug", "log-level", "log-format", "max-depth", "max-stack-height")

	rootCmd.AddCommand(
		c.replCommand(),
		c.runCommand(),
		c.fmtCommand(),
		c.docCommand(),
		c.lintCommand(),
		c.lspCommand(),
	)
	return rootCmd
}

// Execute runs the rlisp command line.  This is called by main.main().
func Execute() {
	err := NewRootCommand().Execute()
	if err == nil {
		return
	}
	var exit *exitError
	if errors.As(err, &exit) {
		os.Exit(exit.code)
	}
	fmt.Fprintln(os.Stderr, "rlisp:", err)
	os.Exit(1)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("prompt", repl.DefaultPrompt)
	v.SetDefault("color", "auto")
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "text")
	v.SetDefault("max-depth", lisp.DefaultMaxDepth)
}

func (c *cmdConfig) bindFlags(flags *pflag.FlagSet, names ...string) {
	for _, name := range names {
		// Binding only fails for a nil flag.
		_ = c.v.BindPFlag(name, flags.Lookup(name))
	}
}

// initConfig reads in the config file and environment variables and then
// configures logging.
func (c *cmdConfig) initConfig(stderr io.Writer) error {
	c.v.SetEnvPrefix("RLISP")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			c.v.AddConfigPath(home)
			c.v.SetConfigName(".rlisp")
		}
	}
	readErr := c.v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case readErr == nil:
	case c.cfgFile == "" && errors.As(readErr, &notFound):
	default:
		return fmt.Errorf("reading config: %w", readErr)
	}

	if err := c.setupLogging(stderr); err != nil {
		return err
	}
	if _, err := diagnostic.ParseColorMode(c.v.GetString("color")); err != nil {
		return err
	}
	if readErr == nil {
		c.logger.WithField("file", c.v.ConfigFileUsed()).Debug("using config file")
	}
	return nil
}

func (c *cmdConfig) setupLogging(w io.Writer) error {
	level := c.v.GetString("log-level")
	if c.v.GetBool("debug") {
		level = "debug"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	c.logger.SetLevel(lvl)
	c.logger.SetOutput(w)
	switch format := c.v.GetString("log-format"); format {
	case "json":
		c.logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		c.logger.SetFormatter(&logrus.TextFormatter{})
	default:
		return fmt.Errorf("unknown log format: %q", format)
	}
	return nil
}

// newEnv returns the environment commands evaluate code in.
func (c *cmdConfig) newEnv(stderr io.Writer) (*lisp.Env, error) {
	if c.env != nil {
		return c.env, nil
	}
	return repl.NewEnv(
		lisp.WithStderr(stderr),
		lisp.WithLogger(c.logger),
		lisp.WithMaximumDepth(c.v.GetInt("max-depth")),
		lisp.WithMaximumStackHeight(c.v.GetInt("max-stack-height")),
	)
}
