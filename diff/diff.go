// Copyright 2025 The symjit Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package diff provides the public API for symbolic differentiation.
//
// Two strategies are available and must agree on every supported input:
// Forward applies the textbook rules in one structural recursion, and
// Reverse builds an arena-indexed computation graph and accumulates
// adjoints backward. Reverse exists to cross-check Forward, not to produce
// different answers.
//
// Example:
//
//	ast, _ := expr.Parse("x^2 - cos(x)", "x")
//	d, err := diff.Differentiate(ast, "x", diff.Forward)
package diff

import (
	"github.com/symjit/symjit/internal/diff"
	"github.com/symjit/symjit/internal/expr"
)

// Mode selects the differentiation strategy.
type Mode = diff.Mode

// Differentiation strategies.
const (
	Forward = diff.Forward
	Reverse = diff.Reverse
)

// Error reports a construct the differentiator cannot handle.
type Error = diff.Error

// ErrorKind classifies differentiation failures.
type ErrorKind = diff.ErrorKind

// Differentiation error kinds.
const (
	UnsupportedFunction    = diff.UnsupportedFunction
	DivisionByZeroSymbolic = diff.DivisionByZeroSymbolic
)

// Differentiate returns a new AST for the derivative of ast with respect
// to variable. The input AST is never modified.
func Differentiate(ast expr.Node, variable string, mode Mode) (expr.Node, error) {
	return diff.Differentiate(ast, variable, mode)
}

// ParseMode resolves a mode name ("forward" or "reverse"). Unrecognized
// names default to Forward.
func ParseMode(s string) Mode {
	return diff.ParseMode(s)
}
