package interpreter

import (
	"bytes"
	"testing"
)

// run executes program to completion and returns the instance and its output
func run(t *testing.T, program []int, opts ...Option) (*Interpreter, string, error) {
	t.Helper()

	var out bytes.Buffer
	opts = append([]Option{WithWriter(&out), WithMaxSteps(100000)}, opts...)

	it := NewInterpreter(program, opts...)
	err := it.Run()

	return it, out.String(), err
}

// cells converts a mixed list of opcodes and ints into a program
func cells(parts ...any) []int {
	program := make([]int, 0, len(parts))
	for _, p := range parts {
		switch v := p.(type) {
		case Opcode:
			program = append(program, int(v))
		case int:
			program = append(program, v)
		default:
			panic("unsupported cell")
		}
	}
	return program
}
