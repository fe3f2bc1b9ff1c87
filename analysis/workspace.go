// Copyright © 2024 The ELPS authors

package analysis

import (
	"os"
	"path/filepath"

	"github.com/luthersystems/rlisp/lisp"
	"github.com/luthersystems/rlisp/parser"
)

// AnalyzeFile parses source and analyzes every line which parses.  Syntax
// errors do not stop analysis of the remaining lines.
func AnalyzeFile(source []byte, filename string, cfg *Config) (*Result, []*parser.SyntaxError) {
	exprs, errs := parser.ParseFile(filename, source)
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.Filename = filename
	return Analyze(exprs, cfg), errs
}

// ScanWorkspace walks a directory tree, parsing all .lisp files and
// extracting their top-level function definitions.  The result can be used
// as Config.ExtraGlobals for cross-file symbol resolution.
//
// Unreadable files and lines that fail to parse are skipped.
func ScanWorkspace(root string) ([]ExternalSymbol, error) {
	var globals []ExternalSymbol
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != root && shouldSkipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".lisp" {
			return nil
		}
		src, err := os.ReadFile(path) //nolint:gosec // reads files under a user-specified root
		if err != nil {
			return nil
		}
		globals = append(globals, scanFile(src, path)...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return globals, nil
}

// shouldSkipDir returns true for hidden directories and node_modules.
func shouldSkipDir(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return name[0] == '.' || name == "node_modules"
}

func scanFile(source []byte, filename string) []ExternalSymbol {
	exprs, _ := parser.ParseFile(filename, source)
	var syms []ExternalSymbol
	for _, expr := range exprs {
		if sym := scanDefun(expr); sym != nil {
			syms = append(syms, *sym)
		}
	}
	return syms
}

func scanDefun(expr *lisp.Expr) *ExternalSymbol {
	if !IsDefun(expr) || len(expr.Cells) < 2 || expr.Cells[1].Type != lisp.EName {
		return nil
	}
	name := expr.Cells[1]
	return &ExternalSymbol{
		Name:      name.Str,
		Kind:      SymFunction,
		Signature: &Signature{Name: name.Str, Params: DefunParams(expr)},
		Source:    name.Source,
	}
}
