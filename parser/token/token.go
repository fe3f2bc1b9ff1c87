// Copyright © 2018 The ELPS authors

// Package token describes where in a source stream an expression was read.
package token

import "fmt"

// Location identifies a position in a named source stream.
type Location struct {
	File string // a name representing the source stream
	Pos  int    // byte offset within the parsed line
	Line int    // line number (starting at 1 when tracked)
	Col  int    // line column number (starting at 1 when tracked)
}

// At returns a copy of loc advanced to byte offset pos within the same line.
func (loc *Location) At(pos int) *Location {
	if loc == nil {
		return &Location{Pos: pos, Col: pos + 1}
	}
	return &Location{
		File: loc.File,
		Line: loc.Line,
		Pos:  pos,
		Col:  pos + 1,
	}
}

func (loc *Location) String() string {
	file := loc.File
	if file == "" {
		file = "<input>"
	}
	switch {
	case loc.Pos < 0:
		return file
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", file, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", file, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", file, loc.Line, loc.Col)
	}
}

// LocationError decorates an error with the source location it occurred at.
type LocationError struct {
	Err    error
	Source *Location
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Err)
}

func (err *LocationError) Unwrap() error {
	return err.Err
}
