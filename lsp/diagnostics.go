// Copyright © 2024 The ELPS authors

package lsp

import (
	"time"

	"github.com/luthersystems/rlisp/lint"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const (
	debounceDelay    = 300 * time.Millisecond
	diagnosticSource = "rlisp-lint"
)

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Open(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		params.TextDocument.Text,
	)
	s.analyzeAndPublish(doc)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync the last change holds the complete document.
	var content string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = c.Text
		}
	}

	doc := s.docs.Change(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		content,
	)

	s.debounceMu.Lock()
	if t, ok := s.debounce[doc.URI]; ok {
		t.Stop()
	}
	s.debounce[doc.URI] = time.AfterFunc(debounceDelay, func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.WithField("panic", r).Error("analysis failed")
			}
		}()
		if d := s.docs.Get(doc.URI); d != nil {
			s.analyzeAndPublish(d)
		}
	})
	s.debounceMu.Unlock()
	return nil
}

// textDocumentDidSave publishes diagnostics immediately.  Saving may change
// the functions other documents see, so the workspace is rescanned first.
func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	s.cancelDebounce(params.TextDocument.URI)

	// Mark the lazy scan done so the next request does not repeat it.
	s.workspaceOnce.Do(func() {})
	s.scanWorkspace()
	for _, doc := range s.docs.All() {
		s.analyzeAndPublish(doc)
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.captureNotify(ctx)
	s.cancelDebounce(params.TextDocument.URI)
	s.docs.Close(params.TextDocument.URI)

	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) cancelDebounce(uri string) {
	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
		delete(s.debounce, uri)
	}
	s.debounceMu.Unlock()
}

// analyzeAndPublish lints doc and publishes the resulting diagnostics.
func (s *Server) analyzeAndPublish(doc *Document) {
	path := uriToPath(doc.URI)
	linter := &lint.Linter{
		Analyzers: s.analyzers,
		Globals:   s.globals(path),
	}
	content := doc.text()
	lintDiags, err := linter.LintFile([]byte(content), path)
	if err != nil {
		s.logger.WithError(err).WithField("uri", doc.URI).Error("lint failed")
		return
	}

	diags := make([]protocol.Diagnostic, 0, len(lintDiags))
	for _, d := range lintDiags {
		diags = append(diags, convertLintDiagnostic(content, d))
	}
	s.logger.WithField("uri", doc.URI).WithField("diagnostics", len(diags)).Debug("publish diagnostics")

	doc.mu.Lock()
	version := safeUint(int(doc.Version))
	doc.mu.Unlock()
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     &version,
		Diagnostics: diags,
	})
}

// convertLintDiagnostic converts a lint diagnostic to an LSP diagnostic.
// The range covers the token at the diagnostic position, or the whole line
// when the diagnostic has no column.
func convertLintDiagnostic(content string, d lint.Diagnostic) protocol.Diagnostic {
	severity := mapLintSeverity(d.Severity)
	code := protocol.IntegerOrString{Value: d.Analyzer}
	msg := d.Message
	for _, n := range d.Notes {
		msg += "\nnote: " + n
	}
	return protocol.Diagnostic{
		Range:    tokenRange(content, d.Pos.Line, d.Pos.Col),
		Severity: &severity,
		Code:     &code,
		Source:   strPtr(diagnosticSource),
		Message:  msg,
	}
}

func mapLintSeverity(sev lint.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case lint.SeverityError:
		return protocol.DiagnosticSeverityError
	case lint.SeverityInfo:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityWarning
	}
}
