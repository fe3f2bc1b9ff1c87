// Copyright © 2024 The ELPS authors

// Package formatter rewrites rlisp source into canonical form.  Programs hold
// one expression per line, so each non-blank line is parsed and printed
// with single spaces between elements and canonical literals.  Runs of
// blank lines are collapsed.
package formatter

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/luthersystems/rlisp/parser"
)

// Format formats rlisp source code. If cfg is nil, DefaultConfig() is used.
func Format(source []byte, cfg *Config) ([]byte, error) {
	return FormatFile(source, "<stdin>", cfg)
}

// FormatFile formats rlisp source code, using filename for error messages.
// The first syntax error is returned and nothing is formatted.
func FormatFile(source []byte, filename string, cfg *Config) ([]byte, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	pr := newPrinter(cfg)
	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), len(source)+1)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			pr.blankLine()
			continue
		}
		expr, err := parser.ParseLocation(filename, lineno, line)
		if err != nil {
			return nil, err
		}
		pr.writeLine(expr)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pr.buf.Bytes(), nil
}

// IsFormatted reports whether source is already in canonical form.
func IsFormatted(source []byte, cfg *Config) (bool, error) {
	out, err := Format(source, cfg)
	if err != nil {
		return false, err
	}
	return bytes.Equal(source, out), nil
}
