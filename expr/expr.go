// Copyright 2025 The symjit Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package expr provides the public API for expression parsing.
//
// An expression is a scalar formula over one bound variable, numeric
// literals and a closed table of math functions. Parse produces an
// immutable AST; no stage of the pipeline ever mutates a tree it was given.
//
// Example:
//
//	ast, err := expr.Parse("x^2 - cos(x)", "x")
//	if err != nil {
//	    var perr *expr.ParseError
//	    if errors.As(err, &perr) {
//	        fmt.Println(perr.Kind, perr.Token)
//	    }
//	}
package expr

import "github.com/symjit/symjit/internal/expr"

// Node is an immutable expression tree node.
type Node = expr.Node

// AST node variants.
type (
	Constant = expr.Constant
	Variable = expr.Variable
	Binary   = expr.Binary
	Unary    = expr.Unary
	Call     = expr.Call
)

// BinaryOp is one of the five infix operators.
type BinaryOp = expr.BinaryOp

// Binary operators.
const (
	OpAdd = expr.OpAdd
	OpSub = expr.OpSub
	OpMul = expr.OpMul
	OpDiv = expr.OpDiv
	OpPow = expr.OpPow
)

// Func identifies a supported math function.
type Func = expr.Func

// Supported functions.
const (
	FuncSin  = expr.FuncSin
	FuncCos  = expr.FuncCos
	FuncTan  = expr.FuncTan
	FuncExp  = expr.FuncExp
	FuncLog  = expr.FuncLog
	FuncSqrt = expr.FuncSqrt
)

// ParseError reports a malformed expression.
type ParseError = expr.ParseError

// ParseErrorKind classifies parser failures.
type ParseErrorKind = expr.ParseErrorKind

// Parse error kinds.
const (
	UnexpectedToken  = expr.UnexpectedToken
	UnbalancedParens = expr.UnbalancedParens
	UnknownFunction  = expr.UnknownFunction
	EmptyExpression  = expr.EmptyExpression
)

// Parse tokenizes and parses input into its AST, with variable as the only
// accepted free identifier.
func Parse(input, variable string) (Node, error) {
	return expr.Parse(input, variable)
}

// FuncByName resolves an identifier against the function table.
func FuncByName(name string) (Func, bool) {
	return expr.FuncByName(name)
}
