// Package trace provides execution observers for the interpreter.
package trace

import (
	"fmt"
	"io"
	"strings"

	"voltage/pkg/color"
	"voltage/pkg/interpreter"

	"github.com/charmbracelet/log"
)

// Printer writes one line per instruction:
//
//	ADD pc4 sp0 fp0 stack[5]
//
// The mnemonic is held until the instruction completes, so a faulting
// instruction leaves a pending line that Flush writes out.
type Printer struct {
	w       io.Writer
	pending string
}

// NewPrinter creates a Printer writing to w
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) BeforeDispatch(pc int, op interpreter.Opcode) {
	p.pending = color.Mnemonic(op.String())
}

func (p *Printer) AfterDispatch(s interpreter.Snapshot) {
	fmt.Fprintf(p.w, "%s %s %s %s %s\n",
		p.pending,
		color.Register("pc", s.PC),
		color.Register("sp", s.SP),
		color.Register("fp", s.FP),
		color.GrayText("stack")+formatStack(s.Stack))
	p.pending = ""
}

// Flush writes the mnemonic of an instruction that never completed
func (p *Printer) Flush() {
	if p.pending == "" {
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", p.pending, color.RedText("fault"))
	p.pending = ""
}

// formatStack renders cells as "[a, b, c]"
func formatStack(cells []int) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprintf("%d", c)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Logger emits one debug record per completed instruction
type Logger struct {
	l  *log.Logger
	pc int
	op interpreter.Opcode
}

// NewLogger creates a Logger; a nil logger means the default one
func NewLogger(l *log.Logger) *Logger {
	if l == nil {
		l = log.Default()
	}
	return &Logger{l: l}
}

func (t *Logger) BeforeDispatch(pc int, op interpreter.Opcode) {
	t.pc, t.op = pc, op
}

func (t *Logger) AfterDispatch(s interpreter.Snapshot) {
	t.l.Debug("step", "at", t.pc, "op", t.op, "pc", s.PC, "sp", s.SP, "fp", s.FP, "stack", formatStack(s.Stack))
}

// Multi fans notifications out to several tracers
type Multi []interpreter.Tracer

func (m Multi) BeforeDispatch(pc int, op interpreter.Opcode) {
	for _, t := range m {
		t.BeforeDispatch(pc, op)
	}
}

func (m Multi) AfterDispatch(s interpreter.Snapshot) {
	for _, t := range m {
		t.AfterDispatch(s)
	}
}
