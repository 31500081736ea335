// Package codegen renders a derivative AST into compilable C-style source
// for a single-argument numeric function. Emission is pure and
// deterministic: the same tree always produces byte-identical source, which
// the function cache relies on for fingerprint stability.
package codegen

import (
	"strings"

	"github.com/symjit/symjit/internal/expr"
)

// symbols maps each supported function to the math-library symbol the JIT
// backend resolves at compile time.
var symbols = map[expr.Func]string{
	expr.FuncSin:  "sin",
	expr.FuncCos:  "cos",
	expr.FuncTan:  "tan",
	expr.FuncExp:  "exp",
	expr.FuncLog:  "log",
	expr.FuncSqrt: "sqrt",
}

// Emit renders ast as the body of `double <funcName>(double <arg>)`.
// Exponentiation is lowered to pow(); constants are written with full
// round-trip precision.
func Emit(ast expr.Node, funcName, arg string) string {
	var b strings.Builder
	b.WriteString("double ")
	b.WriteString(funcName)
	b.WriteString("(double ")
	b.WriteString(arg)
	b.WriteString(") { return ")
	writeExpr(&b, ast)
	b.WriteString("; }\n")
	return b.String()
}

func writeExpr(b *strings.Builder, n expr.Node) {
	switch t := n.(type) {
	case *expr.Constant:
		b.WriteString(expr.FormatConstant(t.Value))

	case *expr.Variable:
		b.WriteString(t.Name)

	case *expr.Unary:
		b.WriteString("(-")
		writeExpr(b, t.Operand)
		b.WriteByte(')')

	case *expr.Binary:
		if t.Op == expr.OpPow {
			b.WriteString("pow(")
			writeExpr(b, t.Left)
			b.WriteString(", ")
			writeExpr(b, t.Right)
			b.WriteByte(')')
			return
		}
		b.WriteByte('(')
		writeExpr(b, t.Left)
		b.WriteString(" ")
		b.WriteString(t.Op.String())
		b.WriteString(" ")
		writeExpr(b, t.Right)
		b.WriteByte(')')

	case *expr.Call:
		b.WriteString(symbols[t.Fn])
		b.WriteByte('(')
		writeExpr(b, t.Arg)
		b.WriteByte(')')
	}
}
