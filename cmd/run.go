// Copyright © 2018 The ELPS authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/lisp/x/profiler"
	"github.com/luthersystems/rlisp/repl"
	"github.com/spf13/cobra"
	"go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
)

type runOptions struct {
	expressions []string
	print       bool
	trace       string
	callgrind   string
	cpuProfile  string
}

func (c *cmdConfig) runCommand() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run [flags] [file...]",
		Short: "Run rlisp programs",
		Long: `Run rlisp programs from files, from -e arguments, or from stdin.

Each non-blank line is evaluated in order.  A line that fails is reported
and the program continues with the next line.  The command exits with
status 1 if any line failed.

Examples:
  rlisp run prog.lisp
  rlisp run -p -e '(defun sq (x) (mul x x))' -e '(sq 7)'
  echo '(add 1 2)' | rlisp run -p
  rlisp run --trace otel prog.lisp          Log a span per function call
  rlisp run --callgrind prog.out prog.lisp  Write a callgrind profile`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, args, &opts)
		},
	}
	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.expressions, "expression", "e", nil,
		"Evaluate a line of code (may be repeated).")
	flags.BoolVarP(&opts.print, "print", "p", false,
		"Print the value of each line to stdout.")
	flags.StringVar(&opts.trace, "trace", "",
		`Log a span for each function call using "otel" or "opencensus".`)
	flags.StringVar(&opts.callgrind, "callgrind", "",
		"Write a callgrind profile to the named file.")
	flags.StringVar(&opts.cpuProfile, "cpuprofile", "",
		"Write a Go CPU profile labeled with rlisp functions to the named file.")
	cmd.MarkFlagsMutuallyExclusive("trace", "callgrind", "cpuprofile")
	return cmd
}

func (c *cmdConfig) run(cmd *cobra.Command, args []string, opts *runOptions) (err error) {
	if len(opts.expressions) > 0 && len(args) > 0 {
		return errors.New("files may not be given with --expression")
	}
	env, err := c.newEnv(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	stop, err := c.startProfiler(env.Runtime, opts)
	if err != nil {
		return err
	}
	defer func() {
		if perr := stop(); perr != nil && err == nil {
			err = perr
		}
	}()

	b := &repl.Batch{
		Env:      env,
		Out:      cmd.OutOrStdout(),
		Print:    opts.print,
		Err:      cmd.ErrOrStderr(),
		Renderer: c.newRenderer(),
	}
	switch {
	case len(opts.expressions) > 0:
		// An expression argument may hold several lines.
		for _, expr := range opts.expressions {
			if err := b.Run("<expr>", strings.NewReader(expr)); err != nil {
				return err
			}
		}
	case len(args) == 0:
		if err := b.Run("<stdin>", c.input(cmd)); err != nil {
			return err
		}
	default:
		for _, path := range args {
			if err := runFile(b, path); err != nil {
				return err
			}
		}
	}
	if b.Failed > 0 {
		c.logger.WithField("failed", b.Failed).Debug("run completed with errors")
		return &exitError{code: 1}
	}
	return nil
}

func runFile(b *repl.Batch, path string) error {
	f, err := os.Open(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck // read-only
	return b.Run(path, f)
}

// input returns the reader used when no files are given.  Input set on the
// command takes precedence over WithStdin.
func (c *cmdConfig) input(cmd *cobra.Command) io.Reader {
	if in := cmd.InOrStdin(); in != os.Stdin {
		return in
	}
	return c.stdin
}

// startProfiler attaches the profiler selected by opts to rt.  The returned
// function completes the profile.
func (c *cmdConfig) startProfiler(rt *lisp.Runtime, opts *runOptions) (func() error, error) {
	noop := func() error { return nil }
	switch {
	case opts.callgrind != "":
		p := profiler.NewCallgrindProfiler(rt)
		if err := p.SetFile(opts.callgrind); err != nil {
			rt.Profiler = nil
			return nil, err
		}
		if err := p.Enable(); err != nil {
			return nil, err
		}
		return p.Complete, nil
	case opts.cpuProfile != "":
		f, err := os.Create(opts.cpuProfile)
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close() //nolint:errcheck,gosec
			return nil, err
		}
		p := profiler.NewPprofAnnotator(rt, context.Background(), profiler.WithUserFunctionFilter())
		if err := p.Enable(); err != nil {
			pprof.StopCPUProfile()
			f.Close() //nolint:errcheck,gosec
			return nil, err
		}
		return func() error {
			perr := p.Complete()
			pprof.StopCPUProfile()
			if err := f.Close(); err != nil {
				return err
			}
			return perr
		}, nil
	}

	switch strings.ToLower(opts.trace) {
	case "":
		return noop, nil
	case "otel", "opentelemetry":
		tp := profiler.NewLoggingTracerProvider(c.logger)
		otel.SetTracerProvider(tp)
		ctx, span := tp.Tracer("rlisp").Start(context.Background(), "rlisp run")
		p := profiler.NewOpenTelemetryAnnotator(rt, ctx)
		if err := p.Enable(); err != nil {
			return nil, err
		}
		return func() error {
			perr := p.Complete()
			span.End()
			if err := tp.Shutdown(context.Background()); err != nil {
				return err
			}
			return perr
		}, nil
	case "opencensus", "oc":
		exporter := &profiler.CensusLogExporter{Logger: c.logger}
		trace.RegisterExporter(exporter)
		trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
		ctx, span := trace.StartSpan(context.Background(), "rlisp run")
		p := profiler.NewOpenCensusAnnotator(rt, ctx)
		if err := p.Enable(); err != nil {
			trace.UnregisterExporter(exporter)
			return nil, err
		}
		return func() error {
			perr := p.Complete()
			span.End()
			trace.UnregisterExporter(exporter)
			return perr
		}, nil
	default:
		return nil, fmt.Errorf("unknown trace backend: %q", opts.trace)
	}
}
