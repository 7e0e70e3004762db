package interpreter

import (
	"errors"
	"fmt"
)

// Kinds of fault that terminate an instance
const (
	StackOverflow = FaultKind(iota + 1)
	StackUnderflow
	OutOfBoundsMemoryAccess
	ArithmeticFault
	UnknownOpcode
)

var strFault = []string{
	"",
	"stack overflow",
	"stack underflow",
	"out-of-bounds memory access",
	"arithmetic fault",
	"unknown opcode",
}

// FaultKind classifies a fault. It is itself an error so callers can match
// with errors.Is(err, interpreter.StackOverflow).
type FaultKind int

func (k FaultKind) Error() string {
	if k <= 0 || int(k) >= len(strFault) {
		return fmt.Sprintf("fault(%d)", int(k))
	}
	return strFault[k]
}

// Fault describes the cause and the machine context of a failed instruction.
type Fault struct {
	Kind FaultKind // nature of the fault
	Op   Opcode    // instruction that raised the fault
	PC   int       // address of that instruction
	SP   int       // stack pointer at fault time
	FP   int       // frame pointer at fault time
	Addr int       // offending address when Kind is OutOfBoundsMemoryAccess
}

func (f *Fault) Error() string {
	msg := "voltage: " + f.Kind.Error()

	switch f.Kind {
	case UnknownOpcode:
		msg += fmt.Sprintf(" %d", int(f.Op))
	case OutOfBoundsMemoryAccess:
		msg += fmt.Sprintf(" at address %d", f.Addr)
		if f.Op.Valid() {
			msg += " in " + f.Op.String()
		}
	default:
		msg += " in " + f.Op.String()
	}

	return msg + fmt.Sprintf(" (pc=%d sp=%d fp=%d)", f.PC, f.SP, f.FP)
}

func (f *Fault) Unwrap() error {
	return f.Kind
}

var (
	ErrMaxStepsExceeded = errors.New("maximum steps exceeded")
)

// faults raised by handlers carry only kind and address; Step fills in the rest
func newFault(kind FaultKind) error {
	return &Fault{Kind: kind}
}

func outOfBounds(addr int) error {
	return &Fault{Kind: OutOfBoundsMemoryAccess, Addr: addr}
}
