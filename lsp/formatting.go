// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"

	"github.com/luthersystems/rlisp/formatter"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentFormatting formats the document and returns a single
// whole-document edit, or no edits when the document is already formatted
// or does not parse.
func (s *Server) textDocumentFormatting(_ *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	content := doc.text()
	if content == "" {
		return nil, nil
	}

	formatted, err := formatter.FormatFile([]byte(content), uriToPath(doc.URI), s.formatConfig)
	if err != nil {
		s.logger.WithError(err).WithField("uri", doc.URI).Debug("format skipped")
		return nil, nil
	}
	if string(formatted) == content {
		return []protocol.TextEdit{}, nil
	}

	lines := strings.Split(content, "\n")
	end := protocol.Position{
		Line:      safeUint(len(lines) - 1),
		Character: safeUint(len(lines[len(lines)-1])),
	}
	return []protocol.TextEdit{{
		Range:   protocol.Range{Start: protocol.Position{}, End: end},
		NewText: string(formatted),
	}}, nil
}
