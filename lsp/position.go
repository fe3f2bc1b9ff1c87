// Copyright © 2024 The ELPS authors

package lsp

import (
	"math"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/luthersystems/rlisp/parser/token"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// toLSPPosition converts a 1-based source location to a 0-based LSP
// position.
func toLSPPosition(loc *token.Location) protocol.Position {
	return protocol.Position{
		Line:      safeUint(loc.Line - 1),
		Character: safeUint(loc.Col - 1),
	}
}

// toLSPRange returns the range of a token of the given width starting at
// loc.  Tokens never span lines.
func toLSPRange(loc *token.Location, width int) protocol.Range {
	start := toLSPPosition(loc)
	end := start
	end.Character = start.Character + safeUint(width)
	return protocol.Range{Start: start, End: end}
}

// fromLSPPosition converts a 0-based LSP position to a 1-based line and
// column.
func fromLSPPosition(pos protocol.Position) (line, col int) {
	return int(pos.Line) + 1, int(pos.Character) + 1
}

// safeUint clamps n to the range of protocol.UInteger.
func safeUint(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	if n > math.MaxUint32 {
		return math.MaxUint32
	}
	return protocol.UInteger(n)
}

// lineAt returns the text of the 1-based line of content.
func lineAt(content string, line int) string {
	lines := strings.Split(content, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[line-1], "\r")
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '(', ')', '\'':
		return true
	}
	return false
}

// tokenRange returns the range of the token starting at the 1-based line and
// column of content.  A column of zero selects the whole line.
func tokenRange(content string, line, col int) protocol.Range {
	text := lineAt(content, line)
	start := protocol.Position{Line: safeUint(line - 1)}
	end := start
	if col <= 0 {
		end.Character = safeUint(len(text))
		return protocol.Range{Start: start, End: end}
	}
	i := col - 1
	j := i
	for j < len(text) && !isDelimiter(text[j]) {
		j++
	}
	if j == i {
		j = i + 1
	}
	start.Character = safeUint(i)
	end.Character = safeUint(j)
	return protocol.Range{Start: start, End: end}
}

// wordAtPosition returns the name or operator touching the 1-based line and
// column of content, along with its starting column.
func wordAtPosition(content string, line, col int) (string, int) {
	text := lineAt(content, line)
	i := col - 1
	if i > len(text) {
		i = len(text)
	}
	if i < 0 {
		return "", 0
	}
	start := i
	for start > 0 && !isDelimiter(text[start-1]) {
		start--
	}
	end := i
	for end < len(text) && !isDelimiter(text[end]) {
		end++
	}
	return text[start:end], start + 1
}

// uriToPath converts a file:// URI to a file system path.
func uriToPath(uri string) string {
	rest, ok := strings.CutPrefix(uri, "file://")
	if !ok {
		return uri
	}
	if p, err := url.PathUnescape(rest); err == nil {
		rest = p
	}
	return filepath.FromSlash(rest)
}

// pathToURI converts a file system path to a file:// URI.
func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return "file://" + filepath.ToSlash(path)
}
