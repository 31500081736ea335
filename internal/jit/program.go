package jit

import "errors"

// ErrTrap is returned by Invoke when the compiled program faults during
// execution. Non-finite results are not traps; they are returned as-is.
var ErrTrap = errors.New("trap during native execution")

type opcode int

const (
	opConst opcode = iota // push constants[arg]
	opArg                 // push the function argument
	opNeg
	opAdd
	opSub
	opMul
	opDiv
	opCall1 // pop x, push unaryFns[arg](x)
	opCall2 // pop y, pop x, push binaryFns[arg](x, y)
)

type instruction struct {
	op  opcode
	arg int
}

// program is the executable representation: a flat instruction stream over
// a value stack, plus the resolved host math symbols it calls. Programs
// live in their Context's arena and are invalidated when it closes.
type program struct {
	code      []instruction
	constants []float64
	unary     []func(float64) float64
	binary    []func(float64, float64) float64
	stackSize int
}

// run executes the program. The instruction stream is validated at compile
// time (stack depth, symbol indices), so execution itself cannot fault; the
// recover is the trap boundary for defects escaping that validation.
func (p *program) run(x float64) (result float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrTrap
		}
	}()

	stack := make([]float64, 0, p.stackSize)
	for _, ins := range p.code {
		switch ins.op {
		case opConst:
			stack = append(stack, p.constants[ins.arg])
		case opArg:
			stack = append(stack, x)
		case opNeg:
			stack[len(stack)-1] = -stack[len(stack)-1]
		case opAdd:
			stack[len(stack)-2] += stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		case opSub:
			stack[len(stack)-2] -= stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		case opMul:
			stack[len(stack)-2] *= stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		case opDiv:
			stack[len(stack)-2] /= stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		case opCall1:
			stack[len(stack)-1] = p.unary[ins.arg](stack[len(stack)-1])
		case opCall2:
			stack[len(stack)-2] = p.binary[ins.arg](stack[len(stack)-2], stack[len(stack)-1])
			stack = stack[:len(stack)-1]
		}
	}
	return stack[len(stack)-1], nil
}
