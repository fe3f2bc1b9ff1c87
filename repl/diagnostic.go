// Copyright © 2024 The ELPS authors

package repl

import (
	"errors"

	"github.com/luthersystems/rlisp/diagnostic"
	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/parser"
	"github.com/luthersystems/rlisp/parser/token"
)

// SourceFunc returns the text of a line of source, or the empty string if
// it is not known.
type SourceFunc func(file string, line int) string

// Diagnose converts an error produced while parsing or evaluating into a
// Diagnostic.  When source is not nil it supplies the text of the line
// being annotated.
func Diagnose(err error, source SourceFunc) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  err.Error(),
	}

	var serr *parser.SyntaxError
	if errors.As(err, &serr) {
		if span, ok := spanAt(serr.Source, source); ok {
			if serr.Kind == parser.TrailingGarbage {
				span.Label = "expected end of line"
			}
			d.Spans = append(d.Spans, span)
		}
		return d
	}

	var lerr *lisp.EvalError
	if !errors.As(err, &lerr) {
		return d
	}
	if span, ok := spanAt(lerr.Source, source); ok {
		d.Spans = append(d.Spans, span)
	}
	if lerr.Stack != nil {
		for i := len(lerr.Stack.Frames) - 1; i >= 0; i-- {
			frame := &lerr.Stack.Frames[i]
			name := frame.Name
			if frame.Builtin {
				name = "builtin " + name
			}
			loc := "unknown"
			if frame.Source != nil {
				loc = frame.Source.String()
			}
			d.Notes = append(d.Notes, "in "+name+" at "+loc)
		}
	}
	return d
}

func spanAt(loc *token.Location, source SourceFunc) (diagnostic.Span, bool) {
	if loc == nil || loc.Pos < 0 {
		return diagnostic.Span{}, false
	}
	span := diagnostic.Span{
		File: loc.File,
		Line: loc.Line,
		Col:  loc.Col,
	}
	if span.Line == 0 {
		span.Line = 1
	}
	if source != nil {
		span.Source = source(loc.File, span.Line)
	}
	return span, true
}
