// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"

	"github.com/luthersystems/rlisp/diagnostic"
	lintpkg "github.com/luthersystems/rlisp/lint"
)

// colorMode returns the configured color mode.  Invalid values were already
// rejected by initConfig so they fall back to auto here.
func (c *cmdConfig) colorMode() diagnostic.ColorMode {
	mode, err := diagnostic.ParseColorMode(c.v.GetString("color"))
	if err != nil {
		return diagnostic.ColorAuto
	}
	return mode
}

func (c *cmdConfig) newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: c.colorMode()}
}

// lintDiagToDiagnostic converts a lint.Diagnostic to a diagnostic.Diagnostic.
func lintDiagToDiagnostic(ld lintpkg.Diagnostic) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityWarning,
		Message:  ld.Message + " (" + ld.Analyzer + ")",
	}
	switch ld.Severity {
	case lintpkg.SeverityError:
		d.Severity = diagnostic.SeverityError
	case lintpkg.SeverityInfo:
		d.Severity = diagnostic.SeverityNote
	}
	if ld.Pos.Line > 0 {
		d.Spans = append(d.Spans, diagnostic.Span{
			File: ld.Pos.File,
			Line: ld.Pos.Line,
			Col:  ld.Pos.Col,
		})
	}
	d.Notes = append(d.Notes, ld.Notes...)
	return d
}

// renderLintDiagnostics renders lint diagnostics as annotated source to w.
func (c *cmdConfig) renderLintDiagnostics(w io.Writer, diags []lintpkg.Diagnostic) error {
	ds := make([]diagnostic.Diagnostic, 0, len(diags))
	for _, ld := range diags {
		ds = append(ds, lintDiagToDiagnostic(ld))
	}
	return c.newRenderer().RenderAll(w, ds)
}
