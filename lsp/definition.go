// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/luthersystems/rlisp/analysis"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// cursor is the symbol under an LSP position in an open document.
type cursor struct {
	doc       *Document
	result    *analysis.Result
	line, col int
	sym       *analysis.Symbol
	ref       *analysis.Reference // nil when the position is on a definition
}

// lookup resolves the symbol at pos in the document identified by uri.  It
// returns nil for an unknown document.
func (s *Server) lookup(uri string, pos protocol.Position) *cursor {
	doc := s.docs.Get(uri)
	if doc == nil {
		return nil
	}
	result := s.ensureAnalysis(doc)
	line, col := fromLSPPosition(pos)
	c := &cursor{doc: doc, result: result, line: line, col: col}
	if c.ref = result.ReferenceAt(line, col); c.ref != nil {
		c.sym = c.ref.Symbol
	} else {
		c.sym = result.SymbolAt(line, col)
	}
	return c
}

// tokenRange returns the range of the name under the cursor.
func (c *cursor) tokenRange() (protocol.Range, bool) {
	switch {
	case c.ref != nil && c.ref.Source != nil:
		return toLSPRange(c.ref.Source, analysis.Width(c.ref.Node)), true
	case c.sym != nil && c.sym.Source != nil && c.sym.Source.Line == c.line:
		return toLSPRange(c.sym.Source, len(c.sym.Name)), true
	}
	return protocol.Range{}, false
}

// symbolLocation returns the location where sym is defined.  Symbols of the
// document itself resolve to its URI and external symbols to the file that
// defines them.
func symbolLocation(uri string, sym *analysis.Symbol) (protocol.Location, bool) {
	if sym.Source == nil || sym.Source.Line == 0 {
		return protocol.Location{}, false
	}
	if sym.External {
		uri = pathToURI(sym.Source.File)
	}
	return protocol.Location{
		URI:   uri,
		Range: toLSPRange(sym.Source, len(sym.Name)),
	}, true
}

func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	c := s.lookup(params.TextDocument.URI, params.Position)
	if c == nil || c.sym == nil {
		return nil, nil
	}
	loc, ok := symbolLocation(params.TextDocument.URI, c.sym)
	if !ok {
		return nil, nil
	}
	return loc, nil
}
