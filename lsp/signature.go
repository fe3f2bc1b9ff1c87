// Copyright © 2024 The ELPS authors

package lsp

import (
	"strings"

	"github.com/luthersystems/rlisp/analysis"
	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/lisp/x/libhelp"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// textDocumentSignatureHelp shows the parameters of the innermost call
// enclosing the cursor and highlights the argument being written.
func (s *Server) textDocumentSignatureHelp(_ *glsp.Context, params *protocol.SignatureHelpParams) (*protocol.SignatureHelp, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	line, col := fromLSPPosition(params.Position)
	head, arg, ok := enclosingCall(lineAt(doc.text(), line), col)
	if !ok {
		return nil, nil
	}

	var (
		sig     *analysis.Signature
		summary string
	)
	result := s.ensureAnalysis(doc)
	if op, isOp := lisp.LookupOp(head); isOp {
		if sym := result.Builtin(op); sym != nil {
			sig = sym.Signature
		}
		summary = libhelp.Summary(op)
	} else if sym := result.RootScope.LookupFunction(head); sym != nil {
		sig = sym.Signature
	}
	if sig == nil {
		return nil, nil
	}

	info := signatureInformation(head, sig)
	if summary != "" {
		info.Documentation = summary
	}
	active := arg
	if n := len(sig.Params); active >= n && sig.Variadic && n > 0 {
		active = n - 1
	}
	activeParam := safeUint(active)
	activeSig := protocol.UInteger(0)
	return &protocol.SignatureHelp{
		Signatures:      []protocol.SignatureInformation{info},
		ActiveSignature: &activeSig,
		ActiveParameter: &activeParam,
	}, nil
}

// signatureInformation renders sig as it would be called with head.  The
// parameter labels are offsets into the signature label.
func signatureInformation(head string, sig *analysis.Signature) protocol.SignatureInformation {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(head)
	var params []protocol.ParameterInformation
	for i, p := range sig.Params {
		b.WriteString(" ")
		if sig.Variadic && i == len(sig.Params)-1 {
			b.WriteString(lisp.VarArgSymbol + " ")
		}
		start := b.Len()
		b.WriteString(p)
		params = append(params, protocol.ParameterInformation{
			Label: []protocol.UInteger{safeUint(start), safeUint(b.Len())},
		})
	}
	b.WriteString(")")
	return protocol.SignatureInformation{
		Label:      b.String(),
		Parameters: params,
	}
}

// enclosingCall finds the innermost unclosed list before the 1-based column
// of text.  It returns the head of the list and the 0-based index of the
// argument at the cursor.
func enclosingCall(text string, col int) (head string, arg int, ok bool) {
	end := col - 1
	if end > len(text) {
		end = len(text)
	}
	if end < 0 {
		return "", 0, false
	}

	// Strings may contain parentheses, so track them while finding the
	// open parenthesis of each nesting level.
	var opens []int
	inString := false
	for i := 0; i < end; i++ {
		c := text[i]
		switch {
		case inString:
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '(':
			opens = append(opens, i)
		case c == ')':
			if len(opens) > 0 {
				opens = opens[:len(opens)-1]
			}
		}
	}
	if inString || len(opens) == 0 {
		return "", 0, false
	}
	open := opens[len(opens)-1]
	if open > 0 && text[open-1] == '\'' {
		return "", 0, false
	}

	items := topLevelItems(text[open+1 : end])
	if len(items) == 0 {
		return "", 0, false
	}
	head = items[0]
	if head == "" || strings.ContainsAny(head, "('\"") {
		return "", 0, false
	}
	arg = len(items) - 1
	if last := text[end-1]; last != ' ' && last != '\t' {
		arg--
	}
	if arg < 0 {
		arg = 0
	}
	return head, arg, true
}

// topLevelItems splits the contents of a list into its elements.  Nested
// lists and strings are single elements.
func topLevelItems(s string) []string {
	var (
		items    []string
		start    = -1
		depth    int
		inString bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
			continue
		}
		if depth == 0 && start < 0 && c != ' ' && c != '\t' {
			start = i
		}
		switch c {
		case '"':
			inString = true
		case '(':
			depth++
		case ')':
			depth--
		case ' ', '\t':
			if depth == 0 && start >= 0 {
				items = append(items, s[start:i])
				start = -1
			}
		}
	}
	if start >= 0 {
		items = append(items, s[start:])
	}
	return items
}
