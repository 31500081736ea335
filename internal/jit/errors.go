package jit

import "fmt"

// CompileErrorKind classifies backend failures.
type CompileErrorKind int

const (
	// SyntaxError means the source text did not conform to the emitted
	// function grammar.
	SyntaxError CompileErrorKind = iota
	// LinkError means the requested entry symbol was not defined by the
	// source.
	LinkError
	// SymbolResolutionError means a call referenced a symbol missing from
	// the host math library table.
	SymbolResolutionError
)

func (k CompileErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "syntax error"
	case LinkError:
		return "link error"
	case SymbolResolutionError:
		return "symbol resolution error"
	}
	return "compile error"
}

// CompileError carries the compiler diagnostic for a failed compilation.
type CompileError struct {
	Kind       CompileErrorKind
	Diagnostic string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Diagnostic)
}
