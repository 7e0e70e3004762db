package interpreter

import (
	"io"
	"os"

	"voltage/pkg/stack"
)

const (
	DefaultStackSize  = 100
	DefaultGlobalSize = 300
)

// Status is the run state of an instance
type Status int

const (
	Ready   Status = iota // runnable, not yet halted
	Halted                // stopped by HALT; Run resumes after it
	Faulted               // stopped by a fault; not runnable
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "ready"
	case Halted:
		return "halted"
	case Faulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// Snapshot is a copy of the registers and the in-use stack
type Snapshot struct {
	PC    int
	SP    int
	FP    int
	Stack []int
}

// Tracer observes execution. BeforeDispatch is called once an opcode has been
// fetched, AfterDispatch once its handler has completed and before pc advances.
// Tracers must not affect execution.
type Tracer interface {
	BeforeDispatch(pc int, op Opcode)
	AfterDispatch(s Snapshot)
}

// Interpreter executes a flat stream of integer cells on an operand stack
type Interpreter struct {
	program []int // instruction stream, immutable for a run

	pc int // program counter
	fp int // frame pointer

	stack   *stack.Stack // operand stack, owns sp
	globals *Memory      // global memory

	status Status
	fault  *Fault // set once status is Faulted

	out    io.Writer // output writer for print
	tracer Tracer    // optional observer

	stackSize  int
	globalSize int
	zeroLocals bool // zero the locals reserved by CALL

	maxSteps int // maximum steps (0 = unlimited)
	steps    int // steps executed
}

type Option func(*Interpreter)

// WithWriter sets the output writer for print
func WithWriter(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

// WithMaxSteps sets a maximum number of interpreter steps before returning ErrMaxStepsExceeded
func WithMaxSteps(n int) Option {
	return func(i *Interpreter) { i.maxSteps = n }
}

// WithTracer installs an execution observer
func WithTracer(t Tracer) Option {
	return func(i *Interpreter) { i.tracer = t }
}

// WithStackSize sets the operand stack capacity
func WithStackSize(n int) Option {
	return func(i *Interpreter) {
		if n > 0 {
			i.stackSize = n
		}
	}
}

// WithGlobalSize sets the number of global memory cells
func WithGlobalSize(n int) Option {
	return func(i *Interpreter) {
		if n > 0 {
			i.globalSize = n
		}
	}
}

// WithZeroLocals makes CALL zero the locals it reserves instead of leaving
// whatever the stack cells last held.
func WithZeroLocals(zero bool) Option {
	return func(i *Interpreter) { i.zeroLocals = zero }
}

// NewInterpreter creates a new Interpreter instance
func NewInterpreter(program []int, opts ...Option) *Interpreter {
	it := &Interpreter{
		program:    append([]int(nil), program...),
		stackSize:  DefaultStackSize,
		globalSize: DefaultGlobalSize,
		out:        nil, // caller should set, or use WithWriter
		maxSteps:   0,   // 0 => unlimited
	}

	for _, o := range opts {
		o(it)
	}

	if it.out == nil {
		it.out = os.Stdout
	}

	it.stack = stack.NewStack(it.stackSize)
	it.globals = NewMemory(it.globalSize)
	it.Reset()

	return it
}

// Load replaces the current program, resetting state
func (i *Interpreter) Load(program []int) {
	i.program = append([]int(nil), program...)
	i.Reset()
}

// Reset clears runtime state (stack, globals, registers, counters)
func (i *Interpreter) Reset() {
	i.pc = 0
	i.fp = 0
	i.stack.Reset()
	i.globals.Reset()
	i.status = Ready
	i.fault = nil
	i.steps = 0
}

// Program returns a copy of the active instruction stream
func (i *Interpreter) Program() []int {
	return append([]int(nil), i.program...)
}

// Step executes a single instruction, returning (halted, error).
// A faulted instance keeps returning its fault.
func (i *Interpreter) Step() (bool, error) {
	if i.status == Faulted {
		return false, i.fault
	}

	if i.maxSteps > 0 && i.steps >= i.maxSteps {
		return false, ErrMaxStepsExceeded
	}

	i.status = Ready
	halted, err := coreStep(i)
	i.steps++

	if err != nil {
		return false, err
	}

	if halted {
		i.status = Halted
	}

	return halted, nil
}

// Run executes until halt or error
func (i *Interpreter) Run() error {
	for {
		halted, err := i.Step()
		if err != nil {
			return err
		}

		if halted {
			return nil
		}
	}
}

// PC returns the program counter
func (i *Interpreter) PC() int {
	return i.pc
}

// SP returns the stack pointer, -1 when the stack is empty
func (i *Interpreter) SP() int {
	return i.stack.SP()
}

// FP returns the frame pointer
func (i *Interpreter) FP() int {
	return i.fp
}

// Stack returns a copy of the in-use portion of the operand stack
func (i *Interpreter) Stack() []int {
	return i.stack.Array()
}

// Global reads one global memory cell
func (i *Interpreter) Global(addr int) (int, error) {
	return i.globals.Load(addr)
}

// Globals returns a copy of global memory
func (i *Interpreter) Globals() []int {
	return i.globals.Cells()
}

// Status returns the run state
func (i *Interpreter) Status() Status {
	return i.status
}

// Fault returns the fault that stopped the instance, or nil
func (i *Interpreter) Fault() *Fault {
	return i.fault
}

// Steps returns the number of instructions executed since the last reset
func (i *Interpreter) Steps() int {
	return i.steps
}

// Snapshot captures the registers and in-use stack
func (i *Interpreter) Snapshot() Snapshot {
	return Snapshot{
		PC:    i.pc,
		SP:    i.stack.SP(),
		FP:    i.fp,
		Stack: i.stack.Array(),
	}
}
