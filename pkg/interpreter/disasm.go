package interpreter

import (
	"fmt"
	"strings"
)

// Line is one decoded instruction, or a single raw cell
type Line struct {
	Addr     int    // address of the first cell
	Op       Opcode // opcode, or the raw cell value for data
	Operands []int  // inline operands
	Raw      bool   // cell could not be decoded as an instruction
}

// String renders the line as "addr: MNEMONIC operands"
func (l Line) String() string {
	if l.Raw {
		return fmt.Sprintf("%04d: .word %d", l.Addr, int(l.Op))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%04d: %s", l.Addr, l.Op)
	for _, o := range l.Operands {
		fmt.Fprintf(&b, " %d", o)
	}
	return b.String()
}

// Disassemble decodes a program linearly. Decoding is positional, so cells
// reached only as jump targets inside operands are not recognised.
// An instruction whose operands run past the end is emitted as data cells.
func Disassemble(program []int) []Line {
	var lines []Line

	for addr := 0; addr < len(program); {
		op := Opcode(program[addr])
		n := op.Info().Operands

		if !op.Valid() {
			lines = append(lines, Line{Addr: addr, Op: op, Raw: true})
			addr++
			continue
		}

		if addr+n >= len(program) {
			for ; addr < len(program); addr++ {
				lines = append(lines, Line{Addr: addr, Op: Opcode(program[addr]), Raw: true})
			}
			break
		}

		lines = append(lines, Line{
			Addr:     addr,
			Op:       op,
			Operands: append([]int(nil), program[addr+1:addr+1+n]...),
		})
		addr += 1 + n
	}

	return lines
}
