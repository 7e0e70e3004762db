package interpreter

import (
	"fmt"
	"strings"
)

// Opcode is the numeric tag of an instruction. The numbering is part of the
// program format and must not change.
type Opcode int

const (
	OpAdd    Opcode = iota + 1 // a + b
	OpSub                      // a - b
	OpMul                      // a * b
	OpDiv                      // a / b, truncating
	OpLt                       // a < b
	OpGt                       // a > b
	OpLeq                      // a <= b
	OpGeq                      // a >= b
	OpEq                       // a == b
	OpAnd                      // a == 1 && b == 1
	OpOr                       // a == 1 || b == 1
	OpNot                      // 1 -> 0, 0 -> 1, anything else unchanged
	OpJmp                      // unconditional jump to popped target
	OpJmpt                     // jump if popped condition is 1
	OpJmpf                     // jump if popped condition is 0
	OpConst                    // push inline literal
	OpLoad                     // push frame-relative stack cell
	OpGLoad                    // push global cell
	OpStore                    // store into frame-relative stack cell
	OpGStore                   // store into global cell
	OpPrint                    // write top of stack to output
	OpPop                      // discard top of stack
	OpHalt                     // stop
	OpCall                     // call subroutine
	OpRet                      // return from subroutine
	OpNeg                      // -a
	OpMod                      // a % b
)

var mnemonics = [...]string{
	OpAdd:    "ADD",
	OpSub:    "SUB",
	OpMul:    "MUL",
	OpDiv:    "DIV",
	OpLt:     "LT",
	OpGt:     "GT",
	OpLeq:    "LEQ",
	OpGeq:    "GEQ",
	OpEq:     "EQ",
	OpAnd:    "AND",
	OpOr:     "OR",
	OpNot:    "NOT",
	OpJmp:    "JMP",
	OpJmpt:   "JMPT",
	OpJmpf:   "JMPF",
	OpConst:  "CONST",
	OpLoad:   "LOAD",
	OpGLoad:  "GLOAD",
	OpStore:  "STORE",
	OpGStore: "GSTORE",
	OpPrint:  "PRINT",
	OpPop:    "POP",
	OpHalt:   "HALT",
	OpCall:   "CALL",
	OpRet:    "RET",
	OpNeg:    "NEG",
	OpMod:    "MOD",
}

// mnemonic -> opcode, derived from mnemonics
var opcodeIndex = func() map[string]Opcode {
	m := make(map[string]Opcode, len(mnemonics))
	for op, name := range mnemonics {
		if name != "" {
			m[name] = Opcode(op)
		}
	}
	return m
}()

// OpInfo describes how an opcode is laid out in the instruction stream.
type OpInfo struct {
	Name     string // mnemonic
	Operands int    // inline operand cells following the opcode
}

// Valid reports whether o is one of the defined opcodes
func (o Opcode) Valid() bool {
	return o >= OpAdd && o <= OpMod
}

// String returns the mnemonic of the opcode
func (o Opcode) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Opcode(%d)", int(o))
	}

	return mnemonics[o]
}

// Info returns layout metadata for the opcode
func (o Opcode) Info() OpInfo {
	info := OpInfo{Name: o.String()}

	switch o {
	case OpConst, OpStore, OpGStore:
		info.Operands = 1
	case OpCall:
		info.Operands = 3
	}

	return info
}

// LookupOpcode maps a mnemonic (any case) to its opcode
func LookupOpcode(name string) (Opcode, bool) {
	op, ok := opcodeIndex[strings.ToUpper(name)]
	return op, ok
}

// Opcodes returns every defined opcode in numeric order
func Opcodes() []Opcode {
	ops := make([]Opcode, 0, len(mnemonics)-1)
	for op := OpAdd; op <= OpMod; op++ {
		ops = append(ops, op)
	}
	return ops
}
