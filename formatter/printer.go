// Copyright © 2024 The ELPS authors

package formatter

import (
	"bytes"

	"github.com/luthersystems/rlisp/lisp"
)

type printer struct {
	buf    bytes.Buffer
	cfg    *Config
	blanks int  // blank lines seen since the last expression
	first  bool // no expression written yet
}

func newPrinter(cfg *Config) *printer {
	return &printer{
		cfg:   cfg,
		first: true,
	}
}

// blankLine records a blank source line.  Blank lines are only written once
// the next expression is known, so leading and trailing blank lines are
// dropped.
func (p *printer) blankLine() {
	p.blanks++
}

// writeLine writes one top-level expression on its own line.
func (p *printer) writeLine(v *lisp.Expr) {
	if !p.first {
		n := p.blanks
		if n > p.cfg.MaxBlankLines {
			n = p.cfg.MaxBlankLines
		}
		for i := 0; i < n; i++ {
			p.buf.WriteByte('\n')
		}
	}
	p.blanks = 0
	p.first = false
	p.writeExpr(v)
	p.buf.WriteByte('\n')
}

func (p *printer) writeExpr(v *lisp.Expr) {
	switch v.Type {
	case lisp.EOperator:
		p.buf.WriteString(p.cfg.keyword(v))
	case lisp.EList:
		p.writeCells("(", v.Cells)
	case lisp.EQuotedList:
		p.writeCells("'(", v.Cells)
	default:
		p.buf.WriteString(v.String())
	}
}

func (p *printer) writeCells(open string, cells []*lisp.Expr) {
	p.buf.WriteString(open)
	for i, c := range cells {
		if i > 0 {
			p.buf.WriteByte(' ')
		}
		p.writeExpr(c)
	}
	p.buf.WriteByte(')')
}
