// Copyright © 2024 The ELPS authors

package formatter

import (
	"fmt"
	"strings"

	"github.com/luthersystems/rlisp/lisp"
)

// OperatorStyle determines how builtin operators are spelled.
type OperatorStyle int

const (
	// OperatorsPreserve keeps the keyword each operator was written with.
	OperatorsPreserve OperatorStyle = iota
	// OperatorsSymbol spells operators with their symbol, e.g. + and *.
	OperatorsSymbol
	// OperatorsWord spells operators with their word keyword, e.g. add and
	// mul.  Operators without a word keyword keep their symbol.
	OperatorsWord
)

var operatorStyleNames = []string{
	OperatorsPreserve: "preserve",
	OperatorsSymbol:   "symbol",
	OperatorsWord:     "word",
}

func (s OperatorStyle) String() string {
	if s < 0 || int(s) >= len(operatorStyleNames) {
		return "unknown"
	}
	return operatorStyleNames[s]
}

// ParseOperatorStyle parses the name of an OperatorStyle.
func ParseOperatorStyle(name string) (OperatorStyle, error) {
	for i, s := range operatorStyleNames {
		if strings.EqualFold(name, s) {
			return OperatorStyle(i), nil
		}
	}
	return OperatorsPreserve, fmt.Errorf("unknown operator style %q", name)
}

// Config holds formatting configuration.
type Config struct {
	MaxBlankLines int           // max consecutive blank lines (default: 1)
	Operators     OperatorStyle // operator spelling (default: preserve)
}

// DefaultConfig returns the default formatting configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxBlankLines: 1,
		Operators:     OperatorsPreserve,
	}
}

// keyword returns the spelling of the operator expression v.
func (c *Config) keyword(v *lisp.Expr) string {
	switch c.Operators {
	case OperatorsSymbol:
		return v.Op.String()
	case OperatorsWord:
		name := v.Op.Name()
		if op, ok := lisp.LookupOp(name); ok && op == v.Op {
			return name
		}
		return v.Op.String()
	default:
		if op, ok := lisp.LookupOp(v.Str); ok && op == v.Op {
			return v.Str
		}
		return v.Op.String()
	}
}
