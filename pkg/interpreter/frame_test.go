package interpreter

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"testing"
)

// callProgram pushes n arguments, calls a routine with m locals that returns
// its first argument (or 42 when it has none), then halts.
func callProgram(n, m int) []int {
	var program []int
	for k := 0; k < n; k++ {
		program = append(program, cells(OpConst, 10+k)...)
	}

	target := len(program) + 5
	program = append(program, cells(OpCall, target, n, m, OpHalt)...)

	if n > 0 {
		program = append(program, cells(OpConst, -n, OpLoad)...)
	} else {
		program = append(program, cells(OpConst, 42)...)
	}
	return append(program, int(OpRet))
}

func TestCallReturnRoundTrip(t *testing.T) {
	for n := 0; n <= 4; n++ {
		for m := 0; m <= 4; m++ {
			it, _, err := run(t, callProgram(n, m))
			if err != nil {
				t.Errorf("n=%d m=%d: unexpected error: %v", n, m, err)
				continue
			}

			expected := 42
			if n > 0 {
				expected = 10
			}
			if it.SP() != 0 {
				t.Errorf("n=%d m=%d: expected sp 0, got %d", n, m, it.SP())
			}
			if got := it.Stack(); !slices.Equal(got, []int{expected}) {
				t.Errorf("n=%d m=%d: expected [%d], got %v", n, m, expected, got)
			}
			if it.FP() != 0 {
				t.Errorf("n=%d m=%d: expected fp restored to 0, got %d", n, m, it.FP())
			}
		}
	}
}

func TestCallFrameLayout(t *testing.T) {
	program := cells(
		OpConst, 7,       // 0
		OpConst, 8,       // 2
		OpCall, 10, 2, 3, // 4
		OpHalt,           // 8
		OpHalt,           // 9
		OpHalt,           // 10 callee stops here
	)

	it, _, err := run(t, program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// args, argc, return address, caller fp, then three locals
	if it.FP() != 4 {
		t.Errorf("expected fp 4, got %d", it.FP())
	}
	if it.SP() != 7 {
		t.Errorf("expected sp 7, got %d", it.SP())
	}
	if got := it.Stack()[:5]; !slices.Equal(got, []int{7, 8, 2, 7, 0}) {
		t.Errorf("expected frame [7 8 2 7 0], got %v", got)
	}
}

func TestLocalsAndArguments(t *testing.T) {
	program := cells(
		OpConst, 5,      // 0
		OpCall, 8, 1, 2, // 2
		OpPrint,         // 6
		OpHalt,          // 7

		OpConst, -1, // 8 arg
		OpLoad,      // 10
		OpConst, 3,  // 11
		OpMul,       // 13
		OpStore, 0,  // 14 local0 = 15
		OpConst, -1, // 16
		OpLoad,      // 18
		OpStore, -1, // 19 local1 = 5
		OpConst, 0,  // 21
		OpLoad,      // 23
		OpConst, 1,  // 24
		OpLoad,      // 26
		OpSub,       // 27
		OpRet,       // 28
	)

	it, out, err := run(t, program)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "10\n" {
		t.Errorf("expected %q, got %q", "10\n", out)
	}
	if it.SP() != -1 {
		t.Errorf("expected empty stack, got %v", it.Stack())
	}
}

func fibProgram(n int) []int {
	return cells(
		OpConst, n,      // 0
		OpCall, 8, 1, 0, // 2
		OpPrint,         // 6
		OpHalt,          // 7

		// fib(n): n < 2 ? n : fib(n-1) + fib(n-2)
		OpConst, -1,     // 8
		OpLoad,          // 10
		OpConst, 2,      // 11
		OpLt,            // 13
		OpConst, 21,     // 14
		OpJmpf,          // 16
		OpConst, -1,     // 17
		OpLoad,          // 19
		OpRet,           // 20
		OpConst, -1,     // 21
		OpLoad,          // 23
		OpConst, 1,      // 24
		OpSub,           // 26
		OpCall, 8, 1, 0, // 27
		OpConst, -1,     // 31
		OpLoad,          // 33
		OpConst, 2,      // 34
		OpSub,           // 36
		OpCall, 8, 1, 0, // 37
		OpAdd,           // 41
		OpRet,           // 42
	)
}

func TestFibonacci(t *testing.T) {
	expected := []int{0, 1, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	for n, fib := range expected {
		it, out, err := run(t, fibProgram(n))
		if err != nil {
			t.Errorf("fib(%d): unexpected error: %v", n, err)
			continue
		}
		if want := fmt.Sprintf("%d\n", fib); out != want {
			t.Errorf("fib(%d): expected %q, got %q", n, want, out)
		}
		if it.SP() != -1 || it.FP() != 0 {
			t.Errorf("fib(%d): expected clean stack, got sp=%d fp=%d", n, it.SP(), it.FP())
		}
	}
}

func TestDeepRecursionOverflows(t *testing.T) {
	it, out, err := run(t, fibProgram(10), WithStackSize(19))
	if !errors.Is(err, StackOverflow) {
		t.Fatalf("expected StackOverflow, got %v", err)
	}
	if out != "" {
		t.Errorf("expected no output, got %q", out)
	}
	if f := it.Fault(); f.Op != OpCall {
		t.Errorf("expected CALL to overflow, got %s", f.Op)
	}
}

func staleLocalsProgram() []int {
	return cells(
		OpConst, 1, OpConst, 2, OpConst, 3, OpConst, 4, OpConst, 5, // 0..9
		OpPop, OpPop, OpPop, OpPop, OpPop,                          // 10..14
		OpCall, 21, 0, 2,                                           // 15
		OpPrint,                                                    // 19
		OpHalt,                                                     // 20
		OpConst, 0,                                                 // 21 local0
		OpLoad,                                                     // 23
		OpRet,                                                      // 24
	)
}

func TestLocalsKeepStaleCells(t *testing.T) {
	_, out, err := run(t, staleLocalsProgram())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "4\n" {
		t.Errorf("expected stale local 4, got %q", out)
	}
}

func TestZeroLocals(t *testing.T) {
	_, out, err := run(t, staleLocalsProgram(), WithZeroLocals(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "0\n" {
		t.Errorf("expected zeroed local, got %q", out)
	}
}

func TestCallFaults(t *testing.T) {
	tests := []struct {
		name    string
		program []int
		opts    []Option
		kind    FaultKind
		sp      int
	}{
		{"no room for frame", cells(OpCall, 5, 0, 2, OpHalt, OpHalt), []Option{WithStackSize(4)}, StackOverflow, -1},
		{"locals past int range", cells(OpConst, 9, OpCall, 7, 0, math.MaxInt, OpHalt, OpHalt), nil, StackOverflow, 0},
		{"negative argc", cells(OpCall, 5, -1, 0, OpHalt, OpHalt), nil, OutOfBoundsMemoryAccess, -1},
		{"negative locals", cells(OpCall, 5, 0, -1, OpHalt, OpHalt), nil, OutOfBoundsMemoryAccess, -1},
		{"ret at top level", cells(OpConst, 1, OpRet), nil, StackUnderflow, -1},
		{"ret on empty stack", cells(OpRet), nil, StackUnderflow, -1},
	}

	for _, tt := range tests {
		it, _, err := run(t, tt.program, tt.opts...)
		if !errors.Is(err, tt.kind) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.kind, err)
			continue
		}
		if it.SP() != tt.sp {
			t.Errorf("%s: expected sp %d, got %d", tt.name, tt.sp, it.SP())
		}
	}
}

func TestFrameAddressBounds(t *testing.T) {
	tests := []struct {
		name    string
		program []int
		addr    int
	}{
		{"load above top", cells(OpConst, 5, OpLoad, OpHalt), 6},
		{"load below bottom", cells(OpConst, -1, OpLoad, OpHalt), -3},
		{"store below bottom", cells(OpConst, 1, OpStore, 5, OpHalt), -4},
		{"store above top", cells(OpConst, 1, OpStore, -3, OpHalt), 4},
	}

	for _, tt := range tests {
		it, _, err := run(t, tt.program)
		if !errors.Is(err, OutOfBoundsMemoryAccess) {
			t.Errorf("%s: expected OutOfBoundsMemoryAccess, got %v", tt.name, err)
			continue
		}
		if f := it.Fault(); f.Addr != tt.addr {
			t.Errorf("%s: expected address %d, got %d", tt.name, tt.addr, f.Addr)
		}
	}
}
