// Copyright © 2024 The ELPS authors

package lsp

import (
	"fmt"

	"github.com/luthersystems/rlisp/analysis"
	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/parser"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// renameTarget returns the symbol under the cursor if it may be renamed.
// Builtins and symbols defined outside the document are fixed.
func (s *Server) renameTarget(uri string, pos protocol.Position) (*cursor, error) {
	c := s.lookup(uri, pos)
	if c == nil || c.sym == nil {
		return nil, nil
	}
	switch {
	case c.sym.Kind == analysis.SymBuiltin:
		return nil, fmt.Errorf("cannot rename builtin %s", c.sym.Name)
	case c.sym.External:
		return nil, fmt.Errorf("cannot rename %s: it is not defined in this file", c.sym.Name)
	}
	return c, nil
}

func (s *Server) textDocumentPrepareRename(_ *glsp.Context, params *protocol.PrepareRenameParams) (any, error) {
	c, err := s.renameTarget(params.TextDocument.URI, params.Position)
	if c == nil || err != nil {
		return nil, err
	}
	r, ok := c.tokenRange()
	if !ok {
		return nil, nil
	}
	return protocol.RangeWithPlaceholder{Range: r, Placeholder: c.sym.Name}, nil
}

func (s *Server) textDocumentRename(_ *glsp.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	uri := params.TextDocument.URI
	c, err := s.renameTarget(uri, params.Position)
	if c == nil || err != nil {
		return nil, err
	}
	if err := validName(params.NewName); err != nil {
		return nil, err
	}

	var edits []protocol.TextEdit
	if c.sym.Source != nil {
		edits = append(edits, protocol.TextEdit{
			Range:   toLSPRange(c.sym.Source, len(c.sym.Name)),
			NewText: params.NewName,
		})
	}
	for _, ref := range c.result.ReferencesTo(c.sym) {
		if ref.Source == nil {
			continue
		}
		edits = append(edits, protocol.TextEdit{
			Range:   toLSPRange(ref.Source, analysis.Width(ref.Node)),
			NewText: params.NewName,
		})
	}
	s.logger.WithField("from", c.sym.Name).WithField("to", params.NewName).Debug("rename")
	return &protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentUri][]protocol.TextEdit{uri: edits},
	}, nil
}

// validName reports an error unless name parses as a name which is not an
// operator keyword.
func validName(name string) error {
	expr, err := parser.Parse(name)
	if err != nil || expr.Type != lisp.EName {
		return fmt.Errorf("invalid name %q", name)
	}
	return nil
}
