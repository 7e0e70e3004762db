package stack

import "errors"

var (
	ErrOverflow   = errors.New("stack overflow")
	ErrUnderflow  = errors.New("stack underflow")
	ErrOutOfRange = errors.New("stack index out of range")
)

// Stack is a fixed-capacity integer stack addressed by an explicit stack pointer.
// Cells above the stack pointer keep whatever was last written to them.
type Stack struct {
	a  []int // backing cells, len(a) is the capacity
	sp int   // index of the top element, -1 when empty
}

// NewStack creates a new stack with the given capacity, pushing elm in order
func NewStack(capacity int, elm ...int) *Stack {
	if capacity < 0 {
		capacity = 0
	}

	stack := Stack{
		a:  make([]int, capacity),
		sp: -1,
	}

	for _, e := range elm {
		if stack.Push(e) != nil {
			break
		}
	}

	return &stack
}

// Push adds an element to the top of the stack
func (s *Stack) Push(elm int) error {
	if s.sp+1 >= len(s.a) {
		return ErrOverflow
	}

	s.sp++
	s.a[s.sp] = elm

	return nil
}

// Pop removes and returns the top element of the stack
func (s *Stack) Pop() (int, error) {
	if s.sp < 0 {
		return 0, ErrUnderflow
	}

	elm := s.a[s.sp]
	s.sp--

	return elm, nil
}

// Peek returns the top element of the stack without removing it
func (s *Stack) Peek() (int, error) {
	if s.sp < 0 {
		return 0, ErrUnderflow
	}

	return s.a[s.sp], nil
}

// SP returns the index of the top element, -1 when empty
func (s *Stack) SP() int {
	return s.sp
}

// SetSP moves the stack pointer without touching any cell.
// The new pointer must stay within [-1, capacity).
func (s *Stack) SetSP(sp int) error {
	switch {
	case sp >= len(s.a):
		return ErrOverflow
	case sp < -1:
		return ErrUnderflow
	}

	s.sp = sp
	return nil
}

// Get reads the cell at index i, which must lie in the in-use region [0, sp]
func (s *Stack) Get(i int) (int, error) {
	if i < 0 || i > s.sp {
		return 0, ErrOutOfRange
	}

	return s.a[i], nil
}

// Set writes the cell at index i, which must lie in the in-use region [0, sp]
func (s *Stack) Set(i, v int) error {
	if i < 0 || i > s.sp {
		return ErrOutOfRange
	}

	s.a[i] = v
	return nil
}

// Size returns the number of elements in use
func (s *Stack) Size() int {
	return s.sp + 1
}

// Cap returns the fixed capacity of the stack
func (s *Stack) Cap() int {
	return len(s.a)
}

// Array returns a copy of the in-use portion of the stack, bottom first
func (s *Stack) Array() []int {
	return append([]int(nil), s.a[:s.sp+1]...)
}

// Reset empties the stack and clears every cell
func (s *Stack) Reset() {
	clear(s.a)
	s.sp = -1
}
