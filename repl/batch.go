// Copyright © 2018 The ELPS authors

package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/rlisp/diagnostic"
	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/parser"
)

// Batch evaluates programs one line at a time.  A line which fails to parse
// or evaluate is reported and evaluation continues with the next line.
type Batch struct {
	Env *lisp.Env
	// Out receives the rendered result of each line when Print is set.
	Out   io.Writer
	Print bool
	// Err receives a diagnostic for each failed line.
	Err      io.Writer
	Renderer *diagnostic.Renderer
	// Failed counts the lines which produced an error.
	Failed int

	sources map[string][]string
}

// Run evaluates each non-blank line read from r.  The returned error is only
// non-nil if r could not be read.
func (b *Batch) Run(name string, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			b.remember(name, lineno, line)
			continue
		}
		b.EvalLine(name, lineno, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// EvalLine parses and evaluates the expression on line lineno of name.
func (b *Batch) EvalLine(name string, lineno int, line string) (*lisp.Expr, error) {
	b.remember(name, lineno, line)
	v, err := b.eval(name, lineno, line)
	if err != nil {
		b.Failed++
		b.report(err)
		return nil, err
	}
	if b.Print && b.Out != nil {
		fmt.Fprintln(b.Out, v) //nolint:errcheck // best-effort output
	}
	return v, nil
}

func (b *Batch) eval(name string, lineno int, line string) (*lisp.Expr, error) {
	expr, err := parser.ParseLocation(name, lineno, line)
	if err != nil {
		return nil, err
	}
	return b.Env.Eval(expr)
}

func (b *Batch) report(err error) {
	if b.Err == nil {
		return
	}
	r := b.Renderer
	if r == nil {
		r = &diagnostic.Renderer{Color: diagnostic.ColorAuto}
	}
	_ = r.Render(b.Err, Diagnose(err, b.sourceLine))
}

func (b *Batch) remember(name string, lineno int, line string) {
	if b.sources == nil {
		b.sources = make(map[string][]string)
	}
	lines := b.sources[name]
	for len(lines) < lineno {
		lines = append(lines, "")
	}
	lines[lineno-1] = line
	b.sources[name] = lines
}

func (b *Batch) sourceLine(file string, line int) string {
	lines := b.sources[file]
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}
