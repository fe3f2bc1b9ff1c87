// Copyright © 2024 The ELPS authors

// Package lint provides static analysis for rlisp source files.
//
// The linter is modeled after go vet: each check is an independent Analyzer
// that receives the parsed expressions of a file and reports diagnostics.
// The framework handles parsing, semantic analysis, running analyzers,
// collecting results, and formatting output.
package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/luthersystems/rlisp/analysis"
	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/parser"
	"github.com/luthersystems/rlisp/parser/token"
)

// Severity indicates the severity level of a lint diagnostic.
type Severity int

const (
	severityUnset Severity = iota // unexported zero sentinel for default detection
	SeverityError
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the severity as a JSON string.
// An unset severity (zero value) is marshaled as "warning".
func (s Severity) MarshalJSON() ([]byte, error) {
	if s == severityUnset {
		return json.Marshal("warning")
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity: %q", str)
	}
	return nil
}

// SyntaxAnalyzer is the analyzer name attached to diagnostics for lines
// which fail to parse.  It is not a check and cannot be disabled.
const SyntaxAnalyzer = "syntax"

// Analyzer defines a single lint check.
type Analyzer struct {
	// Name is a short identifier for this check (e.g. "builtin-arity").
	Name string

	// Doc is a human-readable description. The first line is a short summary.
	Doc string

	// Severity is the default severity for diagnostics from this analyzer.
	Severity Severity

	// Run executes the check. It should call pass.Report() for each finding.
	Run func(pass *Pass) error
}

// Pass provides context to a running analyzer.
type Pass struct {
	// Analyzer is the currently running check.
	Analyzer *Analyzer

	// Filename is the source file being analyzed.
	Filename string

	// Exprs are the top-level expressions of every line that parsed.
	Exprs []*lisp.Expr

	// Semantics holds the result of semantic analysis over Exprs.
	Semantics *analysis.Result

	diagnostics []Diagnostic
}

// Report records a diagnostic finding.
func (p *Pass) Report(d Diagnostic) {
	d.Analyzer = p.Analyzer.Name
	if d.Severity == severityUnset {
		d.Severity = p.Analyzer.Severity
	}
	p.diagnostics = append(p.diagnostics, d)
}

// ReportWithNotes records a diagnostic with additional hint text.
func (p *Pass) ReportWithNotes(d Diagnostic, notes ...string) {
	d.Notes = append(d.Notes, notes...)
	p.Report(d)
}

// Reportf is a convenience for reporting a diagnostic at a position.
func (p *Pass) Reportf(source *token.Location, format string, args ...interface{}) {
	p.Report(Diagnostic{
		Pos:     PositionOf(source),
		Message: fmt.Sprintf(format, args...),
	})
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	// Pos is the source location of the problem.
	Pos Position `json:"pos"`

	// Message is a human-readable description of the problem.
	Message string `json:"message"`

	// Analyzer is the name of the check that found this problem.
	Analyzer string `json:"analyzer"`

	// Severity is the severity level of the diagnostic.
	Severity Severity `json:"severity"`

	// Notes are optional hint text lines for the user.
	Notes []string `json:"notes,omitempty"`
}

// Position identifies a location in source code.
type Position struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col,omitempty"`
}

// PositionOf converts a parser location to a Position.
func PositionOf(loc *token.Location) Position {
	if loc == nil {
		return Position{}
	}
	return Position{File: loc.File, Line: loc.Line, Col: loc.Col}
}

// String returns the position in file:line format.
func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// String returns the diagnostic in go vet style: file:line: message (analyzer)
// with optional note lines appended.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s (%s)", d.Pos, d.Message, d.Analyzer)
	for _, n := range d.Notes {
		s += "\n  = note: " + n
	}
	return s
}

// Linter runs a set of analyzers over source files.
type Linter struct {
	Analyzers []*Analyzer

	// Globals are functions and variables defined outside the linted file.
	Globals []analysis.ExternalSymbol
}

// LintFile analyzes a single source file and returns all diagnostics.
// Lines which fail to parse are reported as syntax diagnostics and the
// remaining lines are still analyzed.  An error is returned only when an
// analyzer fails.
func (l *Linter) LintFile(source []byte, filename string) ([]Diagnostic, error) {
	exprs, errs := parser.ParseFile(filename, source)
	all := syntaxDiagnostics(errs)

	semantics := analysis.Analyze(exprs, &analysis.Config{
		Filename:     filename,
		ExtraGlobals: l.Globals,
	})

	for _, analyzer := range l.Analyzers {
		pass := &Pass{
			Analyzer:  analyzer,
			Filename:  filename,
			Exprs:     exprs,
			Semantics: semantics,
		}
		if err := analyzer.Run(pass); err != nil {
			return nil, fmt.Errorf("%s: analyzer %s: %w", filename, analyzer.Name, err)
		}
		for i := range pass.diagnostics {
			if pass.diagnostics[i].Pos.File == "" {
				pass.diagnostics[i].Pos.File = filename
			}
		}
		all = append(all, pass.diagnostics...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Pos.File != all[j].Pos.File {
			return all[i].Pos.File < all[j].Pos.File
		}
		if all[i].Pos.Line != all[j].Pos.Line {
			return all[i].Pos.Line < all[j].Pos.Line
		}
		return all[i].Pos.Col < all[j].Pos.Col
	})

	return all, nil
}

func syntaxDiagnostics(errs []*parser.SyntaxError) []Diagnostic {
	var diags []Diagnostic
	for _, err := range errs {
		diags = append(diags, Diagnostic{
			Pos:      PositionOf(err.Source),
			Message:  err.Error(),
			Analyzer: SyntaxAnalyzer,
			Severity: SeverityError,
		})
	}
	return diags
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// FormatText writes diagnostics in go vet text format.
func FormatText(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String()) //nolint:errcheck // best-effort output to writer
	}
}

// FormatJSON writes diagnostics as JSON.
func FormatJSON(w io.Writer, diags []Diagnostic) error {
	if diags == nil {
		diags = []Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// DefaultAnalyzers returns the built-in set of lint checks.
func DefaultAnalyzers() []*Analyzer {
	return []*Analyzer{
		AnalyzerDefunStructure,
		AnalyzerBuiltinArity,
		AnalyzerUserArity,
		AnalyzerInvalidCall,
		AnalyzerCarQuoted,
		AnalyzerDivisionByZero,
		AnalyzerNthRange,
		AnalyzerUndefinedFunction,
		AnalyzerUndefinedVariable,
		AnalyzerDuplicateFunction,
		AnalyzerUnusedParameter,
	}
}

// SelectAnalyzers returns the default analyzers named in enable, or all of
// them when enable is empty, minus those named in disable.
func SelectAnalyzers(enable, disable []string) ([]*Analyzer, error) {
	byName := make(map[string]*Analyzer)
	for _, a := range DefaultAnalyzers() {
		byName[a.Name] = a
	}
	for _, name := range append(append([]string(nil), enable...), disable...) {
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("unknown analyzer: %s", name)
		}
	}
	skip := make(map[string]bool)
	for _, name := range disable {
		skip[name] = true
	}
	var selected []*Analyzer
	if len(enable) > 0 {
		for _, name := range enable {
			if !skip[name] {
				selected = append(selected, byName[name])
			}
		}
		return selected, nil
	}
	for _, a := range DefaultAnalyzers() {
		if !skip[a.Name] {
			selected = append(selected, a)
		}
	}
	return selected, nil
}
