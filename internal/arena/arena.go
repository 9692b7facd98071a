// Package arena provides the bump allocator that owns every AST node,
// type descriptor, environment frame and copied string payload for one
// compilation. Nothing is freed individually; dropping the arena
// releases the whole tree at once.
package arena

import (
	"fmt"
	"os"
	"unsafe"
)

const alignment = 8

// Arena is a fixed-capacity bump allocator. Alloc never grows or
// relocates the buffer; exhaustion is fatal, which is acceptable for a
// batch compiler over small inputs.
type Arena struct {
	buf      []byte
	used     int
	lineUsed int
}

// New creates an arena with the given capacity in bytes.
func New(capacity int) *Arena {
	return &Arena{buf: make([]byte, capacity)}
}

// Alloc returns a zeroed byte slice of the requested size, rounded up
// to 8-byte alignment. The process exits if the remaining capacity is
// insufficient.
func (a *Arena) Alloc(size int) []byte {
	n := align(size)
	if a.used+n > len(a.buf) {
		fmt.Fprintln(os.Stderr, "Arena out of memory!")
		os.Exit(1)
	}
	b := a.buf[a.used : a.used+size : a.used+n]
	a.used += n
	a.lineUsed += n
	return b
}

// Reserve charges size bytes (rounded up to alignment) against the
// arena's capacity without handing out buffer space. Pools backed by
// typed chunks use it so that their allocations show up in the same
// accounting as raw byte allocations.
func (a *Arena) Reserve(size int) {
	n := align(size)
	if a.used+n > len(a.buf) {
		fmt.Fprintln(os.Stderr, "Arena out of memory!")
		os.Exit(1)
	}
	a.used += n
	a.lineUsed += n
}

// String copies s into arena storage and returns a string aliasing the
// copy. The caller keeps ownership of its original buffer. A trailing
// NUL is charged so that accounting matches C-style string payloads.
func (a *Arena) String(s string) string {
	if len(s) == 0 {
		a.Reserve(1)
		return ""
	}
	b := a.Alloc(len(s) + 1)
	copy(b, s)
	return unsafe.String(&b[0], len(s))
}

// Used reports the bytes allocated so far, including alignment padding.
func (a *Arena) Used() int { return a.used }

// Capacity reports the fixed total capacity.
func (a *Arena) Capacity() int { return len(a.buf) }

// LineAllocated reports the bytes allocated since the last line
// boundary. The REPL uses it to show per-line memory use.
func (a *Arena) LineAllocated() int { return a.lineUsed }

// MarkLine returns the per-line counter and resets it for the next
// input line.
func (a *Arena) MarkLine() int {
	n := a.lineUsed
	a.lineUsed = 0
	return n
}

// Reset discards all allocations. Pointers handed out before the reset
// must no longer be used.
func (a *Arena) Reset() {
	clear(a.buf[:a.used])
	a.used = 0
	a.lineUsed = 0
}

func align(n int) int {
	return (n + alignment - 1) &^ (alignment - 1)
}
