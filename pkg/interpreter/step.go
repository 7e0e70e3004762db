package interpreter

import (
	"errors"
	"fmt"

	"voltage/pkg/stack"
)

// coreStep is the main single-step execution function: fetch, dispatch, advance.
// it returns (halted, error).
func coreStep(i *Interpreter) (bool, error) {
	pc := i.pc

	cell, err := i.cell(pc)
	if err != nil {
		return false, i.raise(0, pc, err)
	}

	op := Opcode(cell)
	if i.tracer != nil {
		i.tracer.BeforeDispatch(pc, op)
	}

	halted := false
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		err = i.arith(op)

	case OpLt, OpGt, OpLeq, OpGeq, OpEq:
		err = i.compare(op)

	case OpAnd, OpOr:
		err = i.logic(op)

	case OpNot:
		err = i.not()

	case OpNeg:
		err = i.neg()

	case OpJmp:
		err = i.jump()

	case OpJmpt, OpJmpf:
		err = i.branch(op)

	case OpConst:
		err = i.constant()

	case OpLoad:
		err = i.load()

	case OpStore:
		err = i.store()

	case OpGLoad:
		err = i.gload()

	case OpGStore:
		err = i.gstore()

	case OpPrint:
		err = i.print()

	case OpPop:
		_, err = i.pop()

	case OpHalt:
		halted = true

	case OpCall:
		err = i.call()

	case OpRet:
		err = i.ret()

	default:
		err = newFault(UnknownOpcode)
	}

	if err != nil {
		return false, i.raise(op, pc, err)
	}

	if i.tracer != nil {
		i.tracer.AfterDispatch(i.Snapshot())
	}

	i.pc++
	return halted, nil
}

// raise completes a handler fault with the machine context and stops the instance.
// pc is rewound to the faulting instruction.
func (i *Interpreter) raise(op Opcode, pc int, err error) error {
	var f *Fault
	if !errors.As(err, &f) {
		return err
	}

	f.Op = op
	f.PC = pc
	f.SP = i.stack.SP()
	f.FP = i.fp

	i.pc = pc
	i.status = Faulted
	i.fault = f

	return f
}

// cell reads the instruction stream at addr
func (i *Interpreter) cell(addr int) (int, error) {
	if addr < 0 || addr >= len(i.program) {
		return 0, outOfBounds(addr)
	}
	return i.program[addr], nil
}

// operand consumes the next inline operand
func (i *Interpreter) operand() (int, error) {
	v, err := i.cell(i.pc + 1)
	if err != nil {
		return 0, err
	}
	i.pc++
	return v, nil
}

func (i *Interpreter) push(v int) error {
	return stackFault(i.stack.Push(v))
}

func (i *Interpreter) pop() (int, error) {
	v, err := i.stack.Pop()
	return v, stackFault(err)
}

// pop2 pops b then a
func (i *Interpreter) pop2() (int, int, error) {
	b, err := i.pop()
	if err != nil {
		return 0, 0, err
	}
	a, err := i.pop()
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// need checks that down cells can be popped and up cells pushed
func (i *Interpreter) need(down, up int) error {
	sp := i.stack.SP()
	if down > sp+1 {
		return newFault(StackUnderflow)
	}
	// compared without adding so a huge count cannot wrap
	if up > i.stack.Cap()-1-sp {
		return newFault(StackOverflow)
	}
	return nil
}

// stackFault maps stack package errors onto fault kinds
func stackFault(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, stack.ErrOverflow):
		return newFault(StackOverflow)
	case errors.Is(err, stack.ErrUnderflow):
		return newFault(StackUnderflow)
	default:
		return err
	}
}

func boolCell(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (i *Interpreter) arith(op Opcode) error {
	a, b, err := i.pop2()
	if err != nil {
		return err
	}

	var r int
	switch op {
	case OpAdd:
		r = a + b
	case OpSub:
		r = a - b
	case OpMul:
		r = a * b
	case OpDiv:
		if b == 0 {
			return newFault(ArithmeticFault)
		}
		r = a / b
	case OpMod:
		if b == 0 {
			return newFault(ArithmeticFault)
		}
		r = a % b
	}

	return i.push(r)
}

func (i *Interpreter) compare(op Opcode) error {
	a, b, err := i.pop2()
	if err != nil {
		return err
	}

	var r bool
	switch op {
	case OpLt:
		r = a < b
	case OpGt:
		r = a > b
	case OpLeq:
		r = a <= b
	case OpGeq:
		r = a >= b
	case OpEq:
		r = a == b
	}

	return i.push(boolCell(r))
}

// logic treats exactly 1 as true; every other value is false
func (i *Interpreter) logic(op Opcode) error {
	a, b, err := i.pop2()
	if err != nil {
		return err
	}

	if op == OpAnd {
		return i.push(boolCell(a == 1 && b == 1))
	}
	return i.push(boolCell(a == 1 || b == 1))
}

// not flips 0 and 1 and passes any other value through
func (i *Interpreter) not() error {
	a, err := i.pop()
	if err != nil {
		return err
	}

	switch a {
	case 1:
		a = 0
	case 0:
		a = 1
	}

	return i.push(a)
}

func (i *Interpreter) neg() error {
	a, err := i.pop()
	if err != nil {
		return err
	}
	return i.push(-a)
}

// jump targets are compensated for the trailing pc advance
func (i *Interpreter) jump() error {
	target, err := i.pop()
	if err != nil {
		return err
	}
	i.pc = target - 1
	return nil
}

// branch pops the target, then the condition. Only 1 (JMPT) or 0 (JMPF)
// transfers control; any other condition falls through.
func (i *Interpreter) branch(op Opcode) error {
	cond, target, err := i.pop2()
	if err != nil {
		return err
	}

	if (op == OpJmpt && cond == 1) || (op == OpJmpf && cond == 0) {
		i.pc = target - 1
	}
	return nil
}

func (i *Interpreter) constant() error {
	v, err := i.operand()
	if err != nil {
		return err
	}
	return i.push(v)
}

func (i *Interpreter) gload() error {
	addr, err := i.pop()
	if err != nil {
		return err
	}

	v, err := i.globals.Load(addr)
	if err != nil {
		return err
	}
	return i.push(v)
}

func (i *Interpreter) gstore() error {
	addr, err := i.operand()
	if err != nil {
		return err
	}

	v, err := i.pop()
	if err != nil {
		return err
	}
	return i.globals.Store(addr, v)
}

func (i *Interpreter) print() error {
	v, err := i.pop()
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(i.out, "%d\n", v); err != nil {
		return fmt.Errorf("print: %w", err)
	}
	return nil
}
