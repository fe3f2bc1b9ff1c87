// Copyright © 2024 The ELPS authors

package lsp

import (
	"fmt"
	"strings"

	"github.com/luthersystems/rlisp/analysis"
	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/lisp/x/libhelp"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	c := s.lookup(params.TextDocument.URI, params.Position)
	if c == nil || c.sym == nil {
		return nil, nil
	}
	content := hoverContent(c.sym)
	if content == "" {
		return nil, nil
	}
	hover := &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: content,
		},
	}
	if r, ok := c.tokenRange(); ok {
		hover.Range = &r
	}
	return hover, nil
}

// hoverContent renders markdown describing sym.
func hoverContent(sym *analysis.Symbol) string {
	var b strings.Builder
	switch sym.Kind {
	case analysis.SymBuiltin:
		fmt.Fprintf(&b, "```lisp\n%s\n```\n", libhelp.Signature(sym.Op))
		if kw := lisp.KeywordsFor(sym.Op); len(kw) > 1 {
			b.WriteString("\nKeywords: ")
			for i, k := range kw {
				if i > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "`%s`", k)
			}
			b.WriteString("\n")
		}
		if doc := libhelp.Docstring(sym.Op); doc != "" {
			b.WriteString("\n")
			b.WriteString(unindent(doc))
			b.WriteString("\n")
		}
	case analysis.SymFunction:
		if sym.Signature != nil {
			fmt.Fprintf(&b, "```lisp\n%s\n```\n", sym.Signature)
		} else {
			fmt.Fprintf(&b, "```lisp\n(%s)\n```\n", sym.Name)
		}
		if sym.Source != nil {
			fmt.Fprintf(&b, "\nDefined at `%s`\n", sym.Source)
		} else if sym.External {
			b.WriteString("\nDefined by the host environment\n")
		}
	case analysis.SymParameter:
		fmt.Fprintf(&b, "**parameter** `%s`", sym.Name)
		if sym.Node != nil && len(sym.Node.Cells) > 1 {
			fmt.Fprintf(&b, " of `%s`", sym.Node.Cells[1].Str)
		}
		b.WriteString("\n")
	case analysis.SymVariable:
		fmt.Fprintf(&b, "**variable** `%s`\n", sym.Name)
	}
	return b.String()
}

// unindent strips the two space indent libhelp gives docstrings.
func unindent(doc string) string {
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, "  ")
	}
	return strings.Join(lines, "\n")
}
