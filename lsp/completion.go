// Copyright © 2024 The ELPS authors

package lsp

import (
	"sort"
	"strings"

	"github.com/luthersystems/rlisp/analysis"
	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/lisp/x/libhelp"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentCompletion offers operator keywords, functions and the names
// in scope at the cursor which start with the partial word before it.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	result := s.ensureAnalysis(doc)
	line, col := fromLSPPosition(params.Position)
	word, start := wordAtPosition(doc.text(), line, col)
	prefix := word
	if n := col - start; n >= 0 && n < len(word) {
		prefix = word[:n]
	}

	seen := make(map[string]bool)
	var items []protocol.CompletionItem
	add := func(item protocol.CompletionItem) {
		if seen[item.Label] || !strings.HasPrefix(item.Label, prefix) {
			return
		}
		seen[item.Label] = true
		items = append(items, item)
	}

	for _, kw := range lisp.Keywords() {
		op, _ := lisp.LookupOp(kw)
		kind := protocol.CompletionItemKindOperator
		item := protocol.CompletionItem{
			Label:  kw,
			Kind:   &kind,
			Detail: strPtr(libhelp.Signature(op)),
		}
		if summary := libhelp.Summary(op); summary != "" {
			item.Documentation = summary
		}
		add(item)
	}

	for scope := result.ScopeAt(line, col); scope != nil; scope = scope.Parent {
		for _, sym := range sortedSymbols(scope.Variables) {
			add(variableItem(sym))
		}
	}
	for _, sym := range sortedSymbols(result.RootScope.Functions) {
		if sym.Kind == analysis.SymBuiltin {
			continue
		}
		kind := protocol.CompletionItemKindFunction
		item := protocol.CompletionItem{Label: sym.Name, Kind: &kind}
		if sym.Signature != nil {
			item.Detail = strPtr(sym.Signature.String())
		}
		add(item)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items, nil
}

func variableItem(sym *analysis.Symbol) protocol.CompletionItem {
	kind := protocol.CompletionItemKindVariable
	item := protocol.CompletionItem{Label: sym.Name, Kind: &kind}
	if sym.Kind == analysis.SymParameter {
		item.Detail = strPtr("parameter")
	}
	return item
}

func sortedSymbols(m map[string]*analysis.Symbol) []*analysis.Symbol {
	syms := make([]*analysis.Symbol, 0, len(m))
	for _, sym := range m {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i].Name < syms[j].Name })
	return syms
}
