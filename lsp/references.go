// Copyright © 2024 The ELPS authors

package lsp

import (
	"github.com/luthersystems/rlisp/analysis"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentReferences finds the uses of the symbol under the cursor
// within the document.
func (s *Server) textDocumentReferences(_ *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	uri := params.TextDocument.URI
	c := s.lookup(uri, params.Position)
	if c == nil || c.sym == nil {
		return nil, nil
	}
	var locs []protocol.Location
	if params.Context.IncludeDeclaration && !c.sym.External {
		if loc, ok := symbolLocation(uri, c.sym); ok {
			locs = append(locs, loc)
		}
	}
	for _, ref := range c.result.ReferencesTo(c.sym) {
		if ref.Source == nil {
			continue
		}
		locs = append(locs, protocol.Location{
			URI:   uri,
			Range: toLSPRange(ref.Source, analysis.Width(ref.Node)),
		})
	}
	return locs, nil
}
