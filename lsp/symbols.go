// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/luthersystems/rlisp/analysis"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentDocumentSymbol lists the functions defined in the document
// with their parameters as children.
func (s *Server) textDocumentDocumentSymbol(_ *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	result := s.ensureAnalysis(doc)
	content := doc.text()

	symbols := []protocol.DocumentSymbol{}
	byLine := make(map[int]int)
	for _, sym := range result.Symbols {
		if sym.Kind != analysis.SymFunction || sym.Source == nil {
			continue
		}
		var detail *string
		if sym.Signature != nil {
			detail = strPtr(sym.Signature.String())
		}
		symbols = append(symbols, protocol.DocumentSymbol{
			Name:           sym.Name,
			Detail:         detail,
			Kind:           protocol.SymbolKindFunction,
			Range:          tokenRange(content, sym.Source.Line, 0),
			SelectionRange: toLSPRange(sym.Source, len(sym.Name)),
		})
		byLine[sym.Source.Line] = len(symbols) - 1
	}
	// Parameters are recorded after every function, one defun per line.
	for _, sym := range result.Symbols {
		if sym.Kind != analysis.SymParameter || sym.Source == nil {
			continue
		}
		if i, ok := byLine[sym.Source.Line]; ok {
			r := toLSPRange(sym.Source, len(sym.Name))
			symbols[i].Children = append(symbols[i].Children, protocol.DocumentSymbol{
				Name:           sym.Name,
				Kind:           protocol.SymbolKindVariable,
				Range:          r,
				SelectionRange: r,
			})
		}
	}
	return symbols, nil
}
