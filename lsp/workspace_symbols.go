// Copyright © 2024 The ELPS authors

package lsp

import (
	"sort"
	"strings"

	"github.com/luthersystems/rlisp/analysis"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// workspaceSymbol returns the functions defined in open documents and in the
// workspace files whose names contain the query, ignoring case.
func (s *Server) workspaceSymbol(_ *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	query := strings.ToLower(params.Query)
	matches := func(name string) bool {
		return query == "" || strings.Contains(strings.ToLower(name), query)
	}

	seen := make(map[string]bool)
	var out []protocol.SymbolInformation
	addSym := func(name string, loc protocol.Location) {
		key := loc.URI + "#" + name
		if seen[key] || !matches(name) {
			return
		}
		seen[key] = true
		out = append(out, protocol.SymbolInformation{
			Name:     name,
			Kind:     protocol.SymbolKindFunction,
			Location: loc,
		})
	}

	for _, doc := range s.docs.All() {
		result := s.ensureAnalysis(doc)
		for _, sym := range result.Symbols {
			if sym.Kind != analysis.SymFunction {
				continue
			}
			if loc, ok := symbolLocation(doc.URI, sym); ok {
				addSym(sym.Name, loc)
			}
		}
	}

	s.ensureWorkspace()
	s.workspaceMu.RLock()
	workspace := s.workspace
	s.workspaceMu.RUnlock()
	for _, ext := range workspace {
		if ext.Kind != analysis.SymFunction || ext.Source == nil {
			continue
		}
		uri := pathToURI(ext.Source.File)
		// An open document is newer than the file on disk.
		if s.docs.Get(uri) != nil {
			continue
		}
		addSym(ext.Name, protocol.Location{
			URI:   uri,
			Range: toLSPRange(ext.Source, len(ext.Name)),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
