package mocks

import "github.com/rzclan/warbot/internal/dependencies/random"

// MockRandom is a deterministic Random for testing. Intn returns the
// queued values in order, then zero.
type MockRandom struct {
	Values []int
	pos    int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a MockRandom returning the given values
func NewMockRandom(values ...int) *MockRandom {
	return &MockRandom{Values: values}
}

// Intn returns the next queued value modulo n, or 0 when exhausted
func (r *MockRandom) Intn(n int) int {
	if n <= 0 || r.pos >= len(r.Values) {
		return 0
	}
	v := r.Values[r.pos] % n
	r.pos++
	return v
}
