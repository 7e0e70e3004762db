package trace_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"voltage/pkg/color"
	"voltage/pkg/interpreter"
	"voltage/pkg/trace"

	"github.com/charmbracelet/log"
)

var addProgram = []int{
	int(interpreter.OpConst), 2,
	int(interpreter.OpConst), 3,
	int(interpreter.OpAdd),
	int(interpreter.OpPrint),
	int(interpreter.OpHalt),
}

func TestPrinter(t *testing.T) {
	color.EnableColor(false)

	var out, tr bytes.Buffer
	it := interpreter.NewInterpreter(addProgram,
		interpreter.WithWriter(&out),
		interpreter.WithTracer(trace.NewPrinter(&tr)))

	if err := it.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := strings.Join([]string{
		"CONST pc1 sp0 fp0 stack[2]",
		"CONST pc3 sp1 fp0 stack[2, 3]",
		"ADD pc4 sp0 fp0 stack[5]",
		"PRINT pc5 sp-1 fp0 stack[]",
		"HALT pc6 sp-1 fp0 stack[]",
		"",
	}, "\n")

	if tr.String() != expected {
		t.Errorf("expected trace\n%s\ngot\n%s", expected, tr.String())
	}
	if out.String() != "5\n" {
		t.Errorf("tracing changed program output: %q", out.String())
	}
}

func TestPrinterFlushAfterFault(t *testing.T) {
	color.EnableColor(false)

	var tr bytes.Buffer
	p := trace.NewPrinter(&tr)
	it := interpreter.NewInterpreter([]int{int(interpreter.OpPop)}, interpreter.WithTracer(p))

	if err := it.Run(); !errors.Is(err, interpreter.StackUnderflow) {
		t.Fatalf("expected StackUnderflow, got %v", err)
	}
	p.Flush()
	p.Flush()

	if tr.String() != "POP fault\n" {
		t.Errorf("expected %q, got %q", "POP fault\n", tr.String())
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	it := interpreter.NewInterpreter(addProgram,
		interpreter.WithWriter(&bytes.Buffer{}),
		interpreter.WithTracer(trace.NewLogger(l)))

	if err := it.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 records, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[2], "op=ADD") || !strings.Contains(lines[2], "sp=0") {
		t.Errorf("unexpected record for ADD: %s", lines[2])
	}
}

func TestMulti(t *testing.T) {
	color.EnableColor(false)

	var a, b bytes.Buffer
	it := interpreter.NewInterpreter(addProgram,
		interpreter.WithWriter(&bytes.Buffer{}),
		interpreter.WithTracer(trace.Multi{trace.NewPrinter(&a), trace.NewPrinter(&b)}))

	if err := it.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.String() == "" || a.String() != b.String() {
		t.Errorf("expected identical traces, got %q and %q", a.String(), b.String())
	}
}
