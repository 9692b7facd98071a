package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocAccounting(t *testing.T) {
	tests := []struct {
		name  string
		sizes []int
		want  int
	}{
		{"single aligned", []int{8}, 8},
		{"single unaligned", []int{5}, 8},
		{"mixed", []int{1, 8, 13, 24}, 8 + 8 + 16 + 24},
		{"many small", []int{1, 1, 1, 1}, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(1024)
			for _, s := range tt.sizes {
				b := a.Alloc(s)
				assert.Len(t, b, s)
			}
			assert.Equal(t, tt.want, a.Used())
			assert.LessOrEqual(t, a.Used(), a.Capacity())
		})
	}
}

func TestStringCopies(t *testing.T) {
	a := New(1024)

	src := []byte("hello")
	s := a.String(string(src))
	require.Equal(t, "hello", s)

	// Mutating the caller's buffer must not affect the arena copy.
	src[0] = 'X'
	assert.Equal(t, "hello", s)

	// len("hello")+1 rounded up to 8.
	assert.Equal(t, 8, a.Used())
}

func TestLineCounter(t *testing.T) {
	a := New(1024)

	a.Alloc(16)
	a.Alloc(3)
	assert.Equal(t, 24, a.LineAllocated())

	assert.Equal(t, 24, a.MarkLine())
	assert.Equal(t, 0, a.LineAllocated())

	a.Alloc(8)
	assert.Equal(t, 8, a.LineAllocated())
	assert.Equal(t, 32, a.Used())
}

func TestPoolStablePointers(t *testing.T) {
	type node struct {
		id int
		_  [40]byte
	}

	a := New(1 << 20)
	p := NewPool[node](a)

	var ptrs []*node
	for i := 0; i < chunkLen*3+7; i++ {
		n := p.New()
		n.id = i
		ptrs = append(ptrs, n)
	}
	for i, n := range ptrs {
		require.Equal(t, i, n.id)
	}
	assert.Greater(t, a.Used(), 0)
}

func TestSliceAccounting(t *testing.T) {
	a := New(1024)

	s := Slice[string](a, 4)
	assert.Len(t, s, 4)
	assert.Greater(t, a.Used(), 0)

	assert.Nil(t, Slice[string](a, 0))
}

func TestReset(t *testing.T) {
	a := New(64)
	a.Alloc(32)
	a.Reset()
	assert.Equal(t, 0, a.Used())
	assert.Equal(t, 0, a.LineAllocated())
	a.Alloc(64)
	assert.Equal(t, 64, a.Used())
}
