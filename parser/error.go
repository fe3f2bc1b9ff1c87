// Copyright © 2018 The ELPS authors

package parser

import (
	"fmt"

	"github.com/luthersystems/rlisp/parser/token"
)

// SyntaxErrorKind distinguishes the ways parsing can fail.
type SyntaxErrorKind uint

// Possible SyntaxErrorKind values
const (
	// ParsingError means no grammar rule matched the input.
	ParsingError SyntaxErrorKind = iota
	// TrailingGarbage means a complete expression was followed by more
	// input.
	TrailingGarbage
)

func (k SyntaxErrorKind) String() string {
	switch k {
	case ParsingError:
		return "parsing-error"
	case TrailingGarbage:
		return "trailing-garbage"
	default:
		return "syntax-error"
	}
}

// Sentinel errors for use with errors.Is.
var (
	ErrParsing         = &SyntaxError{Kind: ParsingError}
	ErrTrailingGarbage = &SyntaxError{Kind: TrailingGarbage}
)

// SyntaxError is returned when source text cannot be parsed.
type SyntaxError struct {
	Kind    SyntaxErrorKind
	Message string
	Source  *token.Location
}

func (e *SyntaxError) Error() string {
	switch e.Kind {
	case TrailingGarbage:
		return "trailing garbage following expression"
	default:
		return fmt.Sprintf("invalid syntax: %s", e.Message)
	}
}

// Is reports whether target is a *SyntaxError of the same kind.
func (e *SyntaxError) Is(target error) bool {
	t, ok := target.(*SyntaxError)
	return ok && t.Kind == e.Kind
}
