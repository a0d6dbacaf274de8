// Package queues provides the unsynchronized ring-buffer FIFO used to hold sealed
// chunks until they are requested.
package queues

import "math/bits"

// FIFO is a first-in first-out queue backed by a power-of-two ring buffer.
// The zero value is an empty queue ready to use. FIFO is not safe for concurrent use.
type FIFO[T any] struct {
	buf  []T
	head int
	size int
}

// NewFIFO creates a FIFO able to hold capacity elements before growing.
func NewFIFO[T any](capacity int) *FIFO[T] {
	q := &FIFO[T]{}
	if capacity > 0 {
		q.buf = make([]T, ceilPow2(capacity))
	}
	return q
}

func ceilPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << uint(bits.Len(uint(n-1)))
}

func (q *FIFO[T]) mask() int { return len(q.buf) - 1 }

func (q *FIFO[T]) grow() {
	next := make([]T, ceilPow2(q.size+1))
	if q.size > 0 {
		n := copy(next, q.buf[q.head:min(q.head+q.size, len(q.buf))])
		copy(next[n:], q.buf[:q.size-n])
	}
	q.buf = next
	q.head = 0
}

// Push appends v to the tail.
func (q *FIFO[T]) Push(v T) {
	if q.size == len(q.buf) {
		q.grow()
	}
	q.buf[(q.head+q.size)&q.mask()] = v
	q.size++
}

// Pop removes and returns the head element.
func (q *FIFO[T]) Pop() (v T, ok bool) {
	if q.size == 0 {
		return v, false
	}
	v = q.buf[q.head]
	var zero T
	q.buf[q.head] = zero // drop reference
	q.head = (q.head + 1) & q.mask()
	q.size--
	return v, true
}

// Len returns the number of queued elements.
func (q *FIFO[T]) Len() int { return q.size }

// Release drops all elements and the backing array.
func (q *FIFO[T]) Release() {
	q.buf = nil
	q.head = 0
	q.size = 0
}
