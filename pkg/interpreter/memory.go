package interpreter

// Memory is the flat global address space shared by every call frame.
type Memory struct {
	cells []int
}

// NewMemory allocates a zeroed global memory of the given size
func NewMemory(size int) *Memory {
	if size < 0 {
		size = 0
	}
	return &Memory{cells: make([]int, size)}
}

// Load reads the cell at addr
func (m *Memory) Load(addr int) (int, error) {
	if addr < 0 || addr >= len(m.cells) {
		return 0, outOfBounds(addr)
	}
	return m.cells[addr], nil
}

// Store writes v to the cell at addr
func (m *Memory) Store(addr, v int) error {
	if addr < 0 || addr >= len(m.cells) {
		return outOfBounds(addr)
	}
	m.cells[addr] = v
	return nil
}

// Size returns the number of addressable cells
func (m *Memory) Size() int {
	return len(m.cells)
}

// Cells returns a copy of the whole address space
func (m *Memory) Cells() []int {
	return append([]int(nil), m.cells...)
}

// Reset zeroes every cell
func (m *Memory) Reset() {
	clear(m.cells)
}
