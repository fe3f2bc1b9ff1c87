// Copyright © 2018 The ELPS authors

package lisp

// TrueSymbol is how the true boolean prints.  Booleans are produced by
// evaluation only and have no literal syntax.
const TrueSymbol = "t"

// FalseSymbol is how the false boolean prints.
const FalseSymbol = "nil"

// VarArgSymbol marks the variadic formal in the documented parameters of a
// builtin.  The formal following it collects any number of arguments.
const VarArgSymbol = "&rest"
