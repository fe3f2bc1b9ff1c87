// Copyright © 2018 The ELPS authors

// Package parser reads rlisp source text.
//
//	expr     := <operator> | <string> | <name> | <int> | <float> | <qlist> | <list>
//	operator := /add|sub|mul|div|defun|nth|list|eval|car|map/ | /[-+*\/%]/
//	string   := '"' (/[^"\\]/ | '\' <escape>)* '"'
//	name     := /[A-Za-z_][A-Za-z0-9_]*/
//	int      := /[0-9][0-9_]*/ not followed by /[.eE]/
//	float    := /([0-9]+([.][0-9]*)?|[.][0-9]+)([eE][+-]?[0-9]+)?/
//	qlist    := "'" <list>
//	list     := '(' ' '* (<expr> (' '+ <expr>)*)? ' '* ')'
//
// Alternatives are tried in order and the first match wins.  Alphabetic
// operators must end on a word boundary so that names like address are not
// split.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/parser/token"
	parsec "github.com/prataprc/goparsec"
)

const (
	operatorPattern = `(?:(?:add|sub|mul|div|defun|nth|list|eval|car|map)\b|[-+*/%])`
	stringPattern   = `"(?:[^"\\]|\\.)*"`
	namePattern     = `[A-Za-z_][A-Za-z0-9_]*`
	decimalPattern  = `[0-9][0-9_]*`
	floatPattern    = `(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?`
)

// NewReader returns a lisp.Reader which parses one expression from each
// non-blank line of its input.
func NewReader() lisp.Reader {
	return &lineReader{}
}

type lineReader struct{}

func (r *lineReader) Read(name string, stream io.Reader) ([]*lisp.Expr, error) {
	var exprs []*lisp.Expr
	scanner := bufio.NewScanner(stream)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		expr, err := ParseLocation(name, lineno, line)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return exprs, nil
}

// ParseFile parses every non-blank line of source.  Unlike a Reader it does
// not stop at the first syntax error.  Lines which fail to parse are skipped
// and their errors returned in line order.
func ParseFile(name string, source []byte) ([]*lisp.Expr, []*SyntaxError) {
	var (
		exprs []*lisp.Expr
		errs  []*SyntaxError
	)
	for i, line := range strings.Split(string(source), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		expr, err := ParseLocation(name, i+1, line)
		if err != nil {
			var serr *SyntaxError
			if !errors.As(err, &serr) {
				serr = &SyntaxError{Kind: ParsingError, Message: err.Error(), Source: &token.Location{File: name, Line: i + 1}}
			}
			errs = append(errs, serr)
			continue
		}
		exprs = append(exprs, expr)
	}
	return exprs, errs
}

// Parse parses source, which must contain exactly one expression optionally
// surrounded by whitespace.
func Parse(source string) (*lisp.Expr, error) {
	return ParseLocation("", 0, source)
}

// ParseLocation is like Parse but attaches file and line to the source
// location of every parsed expression.
func ParseLocation(file string, line int, source string) (*lisp.Expr, error) {
	g := newGrammar(&token.Location{File: file, Line: line})
	text := []byte(source)
	s := parsec.NewScanner(text)
	_, s = s.SkipWS()
	g.furthest = s.GetCursor()
	root, s := g.expr(s)
	expr := exprNode(root)
	if expr == nil {
		return nil, g.parsingError(text)
	}
	_, s = s.SkipWS()
	if !s.Endof() {
		return nil, &SyntaxError{
			Kind:   TrailingGarbage,
			Source: g.loc.At(s.GetCursor()),
		}
	}
	return expr, nil
}

type grammar struct {
	loc      *token.Location
	furthest int
	expr     parsec.Parser
}

// exprList is the node produced for the elements of a list.
type exprList []*lisp.Expr

func newGrammar(loc *token.Location) *grammar {
	g := &grammar{loc: loc}
	openP := g.track(parsec.AtomExact("(", "OPENP"))
	closeP := g.track(parsec.AtomExact(")", "CLOSEP"))
	quote := g.track(parsec.AtomExact("'", "QUOTE"))
	spaces := parsec.TokenExact(` +`, "SPACES")
	operator := g.terminal(operatorPattern, "OPERATOR", g.operator)
	str := g.terminal(stringPattern, "STRING", g.quotedString)
	name := g.terminal(namePattern, "NAME", g.name)
	decimal := g.decimal()
	float := g.terminal(floatPattern, "FLOAT", g.float)

	var expr parsec.Parser // forward declaration allows for recursive parsing
	items := parsec.Kleene(g.items, &expr, spaces)
	list := parsec.And(g.list,
		openP,
		parsec.Maybe(nil, spaces),
		items,
		parsec.Maybe(nil, spaces),
		closeP,
	)
	qlist := parsec.And(g.quotedList, quote, list)
	// The order of alternatives is significant.  Operators come before
	// names and integers before floats.
	expr = parsec.OrdChoice(nil,
		operator,
		str,
		name,
		decimal,
		float,
		qlist,
		list,
	)
	g.expr = expr
	return g
}

// track records the furthest position at which p failed so that errors can
// point at the unexpected input.
func (g *grammar) track(p parsec.Parser) parsec.Parser {
	return func(s parsec.Scanner) (parsec.ParsecNode, parsec.Scanner) {
		n, news := p(s)
		if n == nil {
			g.fail(s)
			return nil, s
		}
		return n, news
	}
}

func (g *grammar) fail(s parsec.Scanner) {
	if c := s.GetCursor(); c > g.furthest {
		g.furthest = c
	}
}

// terminal matches pattern and converts the matched text with fn.  When fn
// returns nil the terminal fails without consuming input.
func (g *grammar) terminal(pattern, name string, fn func(*parsec.Terminal) *lisp.Expr) parsec.Parser {
	tok := parsec.TokenExact(pattern, name)
	return func(s parsec.Scanner) (parsec.ParsecNode, parsec.Scanner) {
		n, news := tok(s)
		if n == nil {
			g.fail(s)
			return nil, s
		}
		expr := fn(n.(*parsec.Terminal))
		if expr == nil {
			g.fail(s)
			return nil, s
		}
		return expr, news
	}
}

func (g *grammar) decimal() parsec.Parser {
	tok := parsec.TokenExact(decimalPattern, "DECIMAL")
	return func(s parsec.Scanner) (parsec.ParsecNode, parsec.Scanner) {
		n, news := tok(s)
		if n == nil {
			g.fail(s)
			return nil, s
		}
		// Digits followed by a fraction or exponent belong to a float.
		if b, _ := news.Clone().Match(`^[.eE]`); b != nil {
			return nil, s
		}
		term := n.(*parsec.Terminal)
		x, err := strconv.ParseInt(strings.ReplaceAll(term.Value, "_", ""), 10, 64)
		if err != nil {
			// Out of range integers are read as floats.
			return nil, s
		}
		return g.at(lisp.Int(x), term.Position), news
	}
}

func (g *grammar) at(expr *lisp.Expr, pos int) *lisp.Expr {
	expr.Source = g.loc.At(pos)
	return expr
}

func (g *grammar) operator(term *parsec.Terminal) *lisp.Expr {
	op, ok := lisp.LookupOp(term.Value)
	if !ok {
		return nil
	}
	expr := lisp.Operator(op)
	expr.Str = term.Value
	return g.at(expr, term.Position)
}

func (g *grammar) quotedString(term *parsec.Terminal) *lisp.Expr {
	s, err := unquoteString(term.Value)
	if err != nil {
		return nil
	}
	return g.at(lisp.String(s), term.Position)
}

func (g *grammar) name(term *parsec.Terminal) *lisp.Expr {
	return g.at(lisp.Name(term.Value), term.Position)
}

func (g *grammar) float(term *parsec.Terminal) *lisp.Expr {
	x, err := strconv.ParseFloat(term.Value, 64)
	if err != nil {
		return nil
	}
	return g.at(lisp.Float(x), term.Position)
}

func (g *grammar) items(nodes []parsec.ParsecNode) parsec.ParsecNode {
	items := make(exprList, 0, len(nodes))
	for _, n := range nodes {
		if expr := exprNode(n); expr != nil {
			items = append(items, expr)
		}
	}
	return items
}

func (g *grammar) list(nodes []parsec.ParsecNode) parsec.ParsecNode {
	open := nodes[0].(*parsec.Terminal)
	var cells []*lisp.Expr
	for _, n := range nodes[1:] {
		if items, ok := n.(exprList); ok {
			cells = items
		}
	}
	if cells == nil {
		cells = []*lisp.Expr{}
	}
	return g.at(lisp.List(cells), open.Position)
}

func (g *grammar) quotedList(nodes []parsec.ParsecNode) parsec.ParsecNode {
	q := nodes[0].(*parsec.Terminal)
	list := exprNode(nodes[1])
	return g.at(lisp.QuotedList(list.Cells), q.Position)
}

// exprNode extracts the expression from a parse tree node.  Combinators
// without a callback may wrap their result in a node list.
func exprNode(n parsec.ParsecNode) *lisp.Expr {
	switch n := n.(type) {
	case *lisp.Expr:
		return n
	case []parsec.ParsecNode:
		for _, c := range n {
			if expr := exprNode(c); expr != nil {
				return expr
			}
		}
	}
	return nil
}

func (g *grammar) parsingError(text []byte) error {
	pos := g.furthest
	if pos >= len(text) {
		return &SyntaxError{
			Kind:    ParsingError,
			Message: "unexpected end of input",
			Source:  g.loc.At(len(text)),
		}
	}
	rest := string(text[pos:])
	if len(rest) > 16 {
		rest = rest[:15] + "..."
	}
	return &SyntaxError{
		Kind:    ParsingError,
		Message: fmt.Sprintf("unexpected %q at column %d", rest, pos+1),
		Source:  g.loc.At(pos),
	}
}
